package attendance

import (
	"context"
	"time"
)

// AttendanceRepository stores one record per (employee, date).
type AttendanceRepository interface {
	// FindByEmployeeAndDate returns ErrAttendanceNotFound when the day has no record.
	FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (Attendance, error)

	// Save inserts the record or replaces the existing one for its (employee, date).
	Save(ctx context.Context, a Attendance) (Attendance, error)

	// FindOpenPunchesForDate lists records with a punch-in and no punch-out.
	FindOpenPunchesForDate(ctx context.Context, date time.Time) ([]Attendance, error)

	ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error)

	IncrementLateLogin(ctx context.Context, employeeID string, year, month int) error
	GetLateLoginCount(ctx context.Context, employeeID string, year, month int) (int, error)
}
