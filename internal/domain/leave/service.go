package leave

import (
	"context"
	"time"
)

type LeaveService interface {
	// ApplyForLeave validates, prices and stores a new PENDING request with its day ledger.
	ApplyForLeave(ctx context.Context, req ApplyLeaveRequest) (LeaveRequest, error)
	UpdateLeaveStatus(ctx context.Context, req UpdateLeaveStatusRequest) (LeaveRequest, error)

	GetLeaveRequest(ctx context.Context, id string) (LeaveRequest, error)
	GetEmployeeLeaves(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, error)
	GetLeaveRequestDays(ctx context.Context, leaveRequestID string) ([]LeaveRequestDay, error)
	GetEmployeeLeaveStats(ctx context.Context, employeeID string, year, month int) (EmployeeLeaveStatistics, error)

	GetSandwichLeaves(ctx context.Context, employeeID string, from, to time.Time) ([]LeaveRequestDay, error)
	GetSandwichLeavesWithContext(ctx context.Context, employeeID string, from, to time.Time) ([]SandwichContext, error)
}
