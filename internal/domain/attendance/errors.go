package attendance

import "errors"

// Attendance domain errors
var (
	ErrAlreadyPunchedIn   = errors.New("already punched in for this date")
	ErrNotPunchedIn       = errors.New("no punch-in recorded for this date")
	ErrAlreadyPunchedOut  = errors.New("already punched out for this date")
	ErrPunchOutBeforeIn   = errors.New("punch-out must not precede punch-in")
	ErrOutsidePunchWindow = errors.New("punch time is outside the department punch window")

	ErrAttendanceNotFound = errors.New("attendance record not found")
)
