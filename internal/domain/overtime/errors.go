package overtime

import "errors"

var (
	ErrOvertimeNotFound   = errors.New("overtime record not found")
	ErrOvertimeExists     = errors.New("overtime already allocated for this employee and date")
	ErrOvertimeNotPending = errors.New("overtime request is not pending")
	ErrOvertimePaidOut    = errors.New("overtime has already been credited")
	ErrInvalidOvertime    = errors.New("invalid overtime request")
)
