package overtime

import "time"

type Type string

const (
	TypePendingOT   Type = "PENDING_OT"
	TypeIncentiveOT Type = "INCENTIVE_OT"
)

func (t Type) IsValid() bool { return t == TypePendingOT || t == TypeIncentiveOT }

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// MinCreditHours is the hours worked needed before an approved day is credited.
const MinCreditHours = 4.0

// Overtime is the allocation of one (employee, date).
type Overtime struct {
	ID            string
	EmployeeID    string
	Date          time.Time
	Type          Type
	Status        Status
	Reason        *string
	IsUsedAsLeave bool
	// IsPaidOut is set once the day has been credited to the employee.
	IsPaidOut   bool
	AllocatedBy *string
	ActionBy    *string
	ActionAt    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
