package permission

import "errors"

var (
	ErrPermissionNotFound   = errors.New("permission hours request not found")
	ErrPermissionNotPending = errors.New("permission hours request is not pending")
	ErrInvalidWindow        = errors.New("from_time must precede to_time")
)
