package policy

import (
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/calendar"
)

// DefaultEmploymentType is the per-department fallback row.
const DefaultEmploymentType = "DEFAULT"

// DepartmentPolicy holds the attendance thresholds of one (department, employment type).
type DepartmentPolicy struct {
	ID             string
	Department     string
	EmploymentType string

	PunchInStart calendar.TimeOfDay
	PunchOutEnd  calendar.TimeOfDay
	OfficeStart  calendar.TimeOfDay
	OfficeEnd    calendar.TimeOfDay

	// Punch-ins strictly after this are late.
	LateLoginThreshold calendar.TimeOfDay

	// Hour cutoffs for HalfDay and full presence.
	HalfDayThreshold float64
	FullDayThreshold float64

	MorningHalfLogin    calendar.TimeOfDay
	MorningHalfLogout   calendar.TimeOfDay
	AfternoonHalfLogin  calendar.TimeOfDay
	AfternoonHalfLogout calendar.TimeOfDay

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Builtin is used when neither the exact row nor the department's DEFAULT row exists.
func Builtin(department string) DepartmentPolicy {
	return DepartmentPolicy{
		Department:          department,
		EmploymentType:      DefaultEmploymentType,
		PunchInStart:        calendar.NewTimeOfDay(7, 0),
		PunchOutEnd:         calendar.NewTimeOfDay(23, 59),
		OfficeStart:         calendar.NewTimeOfDay(9, 0),
		OfficeEnd:           calendar.NewTimeOfDay(18, 0),
		LateLoginThreshold:  calendar.NewTimeOfDay(9, 30),
		HalfDayThreshold:    4.0,
		FullDayThreshold:    8.0,
		MorningHalfLogin:    calendar.NewTimeOfDay(9, 0),
		MorningHalfLogout:   calendar.NewTimeOfDay(13, 0),
		AfternoonHalfLogin:  calendar.NewTimeOfDay(14, 0),
		AfternoonHalfLogout: calendar.NewTimeOfDay(18, 0),
	}
}
