package holiday

import (
	"context"
	"time"
)

type HolidayRepository interface {
	IsHoliday(ctx context.Context, date time.Time) (bool, error)
	// ListBetween returns holidays in [start, end] ordered by date.
	ListBetween(ctx context.Context, start, end time.Time) ([]Holiday, error)
	GetByID(ctx context.Context, id string) (Holiday, error)
	Create(ctx context.Context, h Holiday) (Holiday, error)
	Update(ctx context.Context, h Holiday) error
	Delete(ctx context.Context, id string) error
}
