package permission

import "context"

type PermissionRepository interface {
	Create(ctx context.Context, p PermissionHours) (PermissionHours, error)
	GetByID(ctx context.Context, id string) (PermissionHours, error)
	Update(ctx context.Context, p PermissionHours) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter PermissionFilter) ([]PermissionHours, error)
}
