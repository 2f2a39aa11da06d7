package attendance

import (
	"context"
	"time"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	PunchIn(ctx context.Context, req PunchRequest) (Attendance, error)

	// PunchOut recomputes the day and credits overtime when it qualifies.
	PunchOut(ctx context.Context, req PunchRequest) (Attendance, error)

	GetDay(ctx context.Context, employeeID string, date time.Time) (Attendance, error)
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, error)

	// CloseOpenPunches punches out every open record of date at the office end and returns the count.
	CloseOpenPunches(ctx context.Context, date time.Time) (int, error)

	GetLateLoginCount(ctx context.Context, employeeID string, year, month int) (int, error)
}
