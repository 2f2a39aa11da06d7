package leave

import (
	"context"
	"time"
)

type LeaveRequestRepository interface {
	Create(ctx context.Context, r LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	Update(ctx context.Context, r LeaveRequest) error

	// CheckOverlapping reports a non-rejected request of the employee intersecting [from, to].
	CheckOverlapping(ctx context.Context, employeeID string, from, to time.Time) (bool, error)

	// CountApprovedQuotaRequestsInMonth counts APPROVED CASUAL/SICK requests starting in the month.
	CountApprovedQuotaRequestsInMonth(ctx context.Context, employeeID string, year, month int) (int, error)

	// ListApprovedInRange returns APPROVED requests intersecting [from, to] ordered by from date.
	ListApprovedInRange(ctx context.Context, employeeID string, from, to time.Time) ([]LeaveRequest, error)

	ListByEmployee(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, error)
}

type LeaveRequestDayRepository interface {
	CreateBatch(ctx context.Context, days []LeaveRequestDay) error
	Update(ctx context.Context, d LeaveRequestDay) error
	Delete(ctx context.Context, id string) error
	ListByRequest(ctx context.Context, leaveRequestID string) ([]LeaveRequestDay, error)

	// CountPaidInMonth counts PAID days of the employee's non-rejected requests in the month.
	CountPaidInMonth(ctx context.Context, employeeID string, year, month int) (int, error)

	// FindSandwich returns the sandwich day of the employee on date, if any.
	FindSandwich(ctx context.Context, employeeID string, date time.Time) (*LeaveRequestDay, error)

	ListSandwichInRange(ctx context.Context, employeeID string, from, to time.Time) ([]LeaveRequestDay, error)
}

type LeaveStatisticsRepository interface {
	// FindOrCreate returns the month's row, inserting a zero row first if needed.
	// Inside a transaction the row stays locked until commit.
	FindOrCreate(ctx context.Context, employeeID string, year, month int) (EmployeeLeaveStatistics, error)
	Save(ctx context.Context, s EmployeeLeaveStatistics) error
	// Find is the read-only lookup, returning ErrStatisticsNotFound.
	Find(ctx context.Context, employeeID string, year, month int) (EmployeeLeaveStatistics, error)
}
