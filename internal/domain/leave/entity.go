package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

type LeaveType string

const (
	LeaveTypeCasual  LeaveType = "CASUAL"
	LeaveTypeSick    LeaveType = "SICK"
	LeaveTypeEarned  LeaveType = "EARNED"
	LeaveTypeCompOff LeaveType = "COMP_OFF"
	LeaveTypeUnpaid  LeaveType = "UNPAID"
)

func (t LeaveType) IsValid() bool {
	switch t {
	case LeaveTypeCasual, LeaveTypeSick, LeaveTypeEarned, LeaveTypeCompOff, LeaveTypeUnpaid:
		return true
	}
	return false
}

// QualifiesForPaidQuota reports whether days of this type draw on the monthly paid day.
func (t LeaveType) QualifiesForPaidQuota() bool {
	return t == LeaveTypeCasual || t == LeaveTypeSick
}

type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "PENDING"
	LeaveStatusApproved LeaveStatus = "APPROVED"
	LeaveStatusRejected LeaveStatus = "REJECTED"
)

func (s LeaveStatus) IsValid() bool {
	return s == LeaveStatusPending || s == LeaveStatusApproved || s == LeaveStatusRejected
}

type DayType string

const (
	DayTypeFull DayType = "FULL_DAY"
	DayTypeHalf DayType = "HALF_DAY"
)

type HalfDaySession string

const (
	SessionMorning   HalfDaySession = "MORNING"
	SessionAfternoon HalfDaySession = "AFTERNOON"
)

type PayCategory string

const (
	PayCategoryPaid   PayCategory = "PAID"
	PayCategoryUnpaid PayCategory = "UNPAID"
)

type LeaveRequest struct {
	ID             string
	EmployeeID     string
	FromDate       time.Time
	ToDate         time.Time
	LeaveType      LeaveType
	Status         LeaveStatus
	DayType        DayType
	HalfDaySession *HalfDaySession
	// ManualOverride withholds paid days from this request.
	ManualOverride bool
	Reason         *string
	ApprovedBy     *string
	ActionAt       *time.Time
	LeaveDays      *int
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Days []LeaveRequestDay
}

// DayWeight is the leave consumed by one ledger day of the request.
func (r LeaveRequest) DayWeight() decimal.Decimal {
	if r.DayType == DayTypeHalf {
		return decimal.NewFromFloat(0.5)
	}
	return decimal.NewFromInt(1)
}

// LeaveRequestDay is one calendar day of a request's ledger.
type LeaveRequestDay struct {
	ID             string
	LeaveRequestID string
	EmployeeID     string
	Date           time.Time
	PayCategory    PayCategory
	SandwichFlag   bool
	OTCreditUsed   bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EmployeeLeaveStatistics is the monthly aggregate of an employee's leave.
type EmployeeLeaveStatistics struct {
	ID                    string
	EmployeeID            string
	Year                  int
	Month                 int
	TotalLeaveRequests    int
	TotalLeavesApproved   decimal.Decimal
	FullDayLeavesApproved int
	HalfDayLeavesApproved int
	PaidLeaveCount        decimal.Decimal
	UnpaidLeaveCount      decimal.Decimal
	RejectedLeaveCount    int
	PendingLeaveCount     int
	SandwichLeaveCount    int
	ManualOverrideCount   int
	CompOffUsed           int
	LeavesRemaining       decimal.Decimal
	LastUpdated           time.Time
}

// NewStatistics returns the zero row of a month.
func NewStatistics(employeeID string, year, month int) EmployeeLeaveStatistics {
	return EmployeeLeaveStatistics{
		EmployeeID:          employeeID,
		Year:                year,
		Month:               month,
		TotalLeavesApproved: decimal.Zero,
		PaidLeaveCount:      decimal.Zero,
		UnpaidLeaveCount:    decimal.Zero,
		LeavesRemaining:     decimal.NewFromInt(MonthlyPaidDays),
	}
}

// MonthlyPaidDays is the number of paid CASUAL/SICK days granted per calendar month.
const MonthlyPaidDays = 1
