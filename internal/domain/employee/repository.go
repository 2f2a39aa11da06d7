package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	// GetByFullName matches case-insensitively. Several matches yield ErrAmbiguousName.
	GetByFullName(ctx context.Context, fullName string) (Employee, error)
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, e Employee) (Employee, error)
	ListByDepartment(ctx context.Context, department string) ([]Employee, error)
	List(ctx context.Context) ([]Employee, error)
	// AddOvertimeCredit adds the deltas to the employee's overtime day counters.
	AddOvertimeCredit(ctx context.Context, id string, pendingDays, incentiveDays int) error
}
