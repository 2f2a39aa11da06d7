package auth

import "errors"

var (
	ErrInvalidToken           = errors.New("invalid or expired token")
	ErrMissingEmployeeClaim   = errors.New("token carries no employee_id")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
)
