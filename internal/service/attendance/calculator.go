package attendance

import (
	"math"
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/policy"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/calendar"
)

// ComputeStatus derives hours, status, idle time and lateness from a punch pair.
// It is pure, so callers recompute in full whenever either punch changes.
// Lateness is judged on punchIn's wall clock in its own location.
func ComputeStatus(punchIn, punchOut *time.Time, p policy.DepartmentPolicy) (attendance.Computation, error) {
	c := attendance.Computation{
		Status:   attendance.StatusAbsent,
		IdleTime: p.FullDayThreshold,
	}

	if punchIn != nil {
		c.IsLateLogin = calendar.TimeOfDayOf(*punchIn).After(p.LateLoginThreshold)
	}
	if punchIn == nil || punchOut == nil {
		return c, nil
	}
	if punchOut.Before(*punchIn) {
		return attendance.Computation{}, attendance.ErrPunchOutBeforeIn
	}

	// Partial minutes are dropped before classifying.
	worked := float64(punchOut.Sub(*punchIn)/time.Minute) / 60
	c.HoursWorked = roundHours(worked)

	switch {
	case worked < p.HalfDayThreshold:
		c.Status = attendance.StatusAbsent
		c.IdleTime = p.FullDayThreshold
	case worked < p.FullDayThreshold:
		c.Status = attendance.StatusHalfDay
		c.IdleTime = roundHours(p.FullDayThreshold - worked)
	default:
		c.Status = attendance.StatusPresentOnTime
		c.IdleTime = math.Max(0, roundHours(p.FullDayThreshold-worked))
	}

	return c, nil
}

// roundHours keeps two decimals for the stored value.
func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
