package overtime

import (
	"context"
	"time"
)

type OvertimeService interface {
	RequestOvertime(ctx context.Context, req RequestOvertimeRequest) (Overtime, error)
	Approve(ctx context.Context, req DecisionRequest) (Overtime, error)
	Reject(ctx context.Context, req DecisionRequest) (Overtime, error)

	AllocateOvertimeAdmin(ctx context.Context, req AllocateRequest) (Overtime, error)
	BulkAllocate(ctx context.Context, req BulkAllocateRequest) (BulkAllocationResult, error)
	AllocateToDepartment(ctx context.Context, req DepartmentAllocateRequest) (BulkAllocationResult, error)
	UpdateAllocation(ctx context.Context, req UpdateAllocationRequest) (Overtime, error)
	DeleteAllocation(ctx context.Context, id string) error
	GetAllocations(ctx context.Context, filter OvertimeFilter) ([]Overtime, error)

	// UpdateOTStatsAfterPunchOut credits the employee once for an approved day
	// worked for at least MinCreditHours. It reports whether a credit was made.
	UpdateOTStatsAfterPunchOut(ctx context.Context, employeeID string, date time.Time, hoursWorked float64) (bool, error)
}
