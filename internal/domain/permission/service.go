package permission

import "context"

type PermissionService interface {
	Create(ctx context.Context, req CreatePermissionRequest) (PermissionHours, error)
	Update(ctx context.Context, req UpdatePermissionRequest) (PermissionHours, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (PermissionHours, error)
	List(ctx context.Context, filter PermissionFilter) ([]PermissionHours, error)

	// Approve widens the day's attendance to cover the window and recomputes it.
	Approve(ctx context.Context, req DecisionRequest) (PermissionHours, error)
	Reject(ctx context.Context, req DecisionRequest) (PermissionHours, error)
}
