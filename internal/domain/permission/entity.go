package permission

import (
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/calendar"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// WideningRemark is written on an attendance record widened by an approval.
const WideningRemark = "Updated from permission hours approval"

// PermissionHours is a request to count a partial-day window as worked time.
type PermissionHours struct {
	ID             string
	EmployeeID     string
	Date           time.Time
	FromTime       calendar.TimeOfDay
	ToTime         calendar.TimeOfDay
	Reason         string
	Status         Status
	ActionBy       *string
	ActionAt       *time.Time
	ActionComments *string
	RequestedAt    time.Time
	UpdatedAt      time.Time
}

// Hours is the requested window length.
func (p PermissionHours) Hours() float64 {
	return (p.ToTime.Duration() - p.FromTime.Duration()).Hours()
}
