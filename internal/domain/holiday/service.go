package holiday

import (
	"context"
	"time"
)

// HolidayService is the organisation calendar.
type HolidayService interface {
	IsHoliday(ctx context.Context, date time.Time) (bool, error)
	ListBetween(ctx context.Context, start, end time.Time) ([]Holiday, error)
	Get(ctx context.Context, id string) (Holiday, error)
	Create(ctx context.Context, req CreateHolidayRequest) (Holiday, error)
	Update(ctx context.Context, req UpdateHolidayRequest) (Holiday, error)
	Delete(ctx context.Context, id string) error
}
