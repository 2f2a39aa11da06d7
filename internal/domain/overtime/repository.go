package overtime

import (
	"context"
	"time"
)

type OvertimeRepository interface {
	// Create fails with ErrOvertimeExists for a duplicate (employee, date).
	Create(ctx context.Context, o Overtime) (Overtime, error)
	GetByID(ctx context.Context, id string) (Overtime, error)
	FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (Overtime, error)
	Update(ctx context.Context, o Overtime) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter OvertimeFilter) ([]Overtime, error)
}
