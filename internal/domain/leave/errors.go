package leave

import "errors"

var (
	ErrLeaveRequestNotFound    = errors.New("leave request not found")
	ErrInvalidLeaveRequest     = errors.New("invalid leave request")
	ErrOverlappingLeave        = errors.New("leave request overlaps an existing request")
	ErrInvalidStatusTransition = errors.New("leave request status cannot change from its current state")
	ErrStatisticsNotFound      = errors.New("leave statistics not found")
)
