package attendance

import (
	"time"
)

type Status string

const (
	StatusAbsent        Status = "ABSENT"
	StatusHalfDay       Status = "HALF_DAY"
	StatusPresentOnTime Status = "PRESENT_ON_TIME"
	// StatusPresentLate is accepted when reading legacy rows. Lateness is carried
	// by Attendance.IsLateLogin, so the calculator never produces it.
	StatusPresentLate Status = "PRESENT_LATE"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusAbsent, StatusHalfDay, StatusPresentOnTime, StatusPresentLate:
		return true
	}
	return false
}

// Attendance is the single record of an employee's calendar day.
type Attendance struct {
	ID          string
	EmployeeID  string
	Date        time.Time
	PunchIn     *time.Time
	PunchOut    *time.Time
	HoursWorked float64
	Status      Status
	// IdleTime is the hours short of the full-day threshold.
	IdleTime       float64
	IsLateLogin    bool
	IsOTDay        bool
	CompOffUsed    bool
	ManualApproval bool
	Remarks        *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsOpen reports a punch-in without a punch-out.
func (a Attendance) IsOpen() bool {
	return a.PunchIn != nil && a.PunchOut == nil
}

// Computation is the derived part of a record.
type Computation struct {
	HoursWorked float64
	Status      Status
	IdleTime    float64
	IsLateLogin bool
}

// Apply overwrites every derived field of a with c.
func (a *Attendance) Apply(c Computation) {
	a.HoursWorked = c.HoursWorked
	a.Status = c.Status
	a.IdleTime = c.IdleTime
	a.IsLateLogin = c.IsLateLogin
}

// LateLoginCounter counts late punch-ins per employee and month.
type LateLoginCounter struct {
	EmployeeID string
	Year       int
	Month      int
	Count      int
}
