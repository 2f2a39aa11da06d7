package leave

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type ApplyLeaveRequest struct {
	EmployeeID     string          `json:"-"`
	FromDate       string          `json:"from_date"`
	ToDate         string          `json:"to_date"`
	LeaveType      LeaveType       `json:"leave_type"`
	DayType        DayType         `json:"day_type,omitempty"`
	HalfDaySession *HalfDaySession `json:"half_day_session,omitempty"`
	ManualOverride bool            `json:"manual_override,omitempty"`
	Reason         *string         `json:"reason,omitempty"`

	From time.Time `json:"-"`
	To   time.Time `json:"-"`
}

// Validate checks field formats and fills From and To. Rules spanning fields are
// enforced by the leave service.
func (r *ApplyLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}

	if validator.IsEmpty(r.FromDate) {
		errs.Add("from_date", "from_date is required")
	} else if d, ok := validator.IsValidDate(r.FromDate); !ok {
		errs.Add("from_date", "from_date must be in YYYY-MM-DD format")
	} else {
		r.From = d
	}

	if validator.IsEmpty(r.ToDate) {
		errs.Add("to_date", "to_date is required")
	} else if d, ok := validator.IsValidDate(r.ToDate); !ok {
		errs.Add("to_date", "to_date must be in YYYY-MM-DD format")
	} else {
		r.To = d
	}

	r.LeaveType = LeaveType(strings.ToUpper(string(r.LeaveType)))
	if !r.LeaveType.IsValid() {
		errs.Add("leave_type", "leave_type must be one of CASUAL, SICK, EARNED, COMP_OFF, UNPAID")
	}

	if r.DayType == "" {
		r.DayType = DayTypeFull
	}
	r.DayType = DayType(strings.ToUpper(string(r.DayType)))
	if r.DayType != DayTypeFull && r.DayType != DayTypeHalf {
		errs.Add("day_type", "day_type must be FULL_DAY or HALF_DAY")
	}

	if r.HalfDaySession != nil {
		s := HalfDaySession(strings.ToUpper(string(*r.HalfDaySession)))
		r.HalfDaySession = &s
		if s != SessionMorning && s != SessionAfternoon {
			errs.Add("half_day_session", "half_day_session must be MORNING or AFTERNOON")
		}
	}

	if r.Reason != nil && len(*r.Reason) > 1000 {
		errs.Add("reason", "reason must not exceed 1000 characters")
	}

	return errs.Err()
}

type UpdateLeaveStatusRequest struct {
	ID         string      `json:"-"`
	Status     LeaveStatus `json:"status"`
	ApprovedBy string      `json:"-"`
}

func (r *UpdateLeaveStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	r.Status = LeaveStatus(strings.ToUpper(string(r.Status)))
	if !r.Status.IsValid() {
		errs.Add("status", "status must be PENDING, APPROVED or REJECTED")
	}
	if validator.IsEmpty(r.ApprovedBy) {
		errs.Add("approved_by", "approved_by is required")
	}

	return errs.Err()
}

type LeaveRequestFilter struct {
	EmployeeID string
	Year       *int
	Month      *int
	Status     *LeaveStatus
}

type LeaveRequestDayResponse struct {
	ID           string      `json:"id"`
	Date         string      `json:"date"`
	PayCategory  PayCategory `json:"pay_category"`
	SandwichFlag bool        `json:"sandwich_flag"`
	OTCreditUsed bool        `json:"ot_credit_used"`
}

type LeaveRequestResponse struct {
	ID             string                    `json:"id"`
	EmployeeID     string                    `json:"employee_id"`
	FromDate       string                    `json:"from_date"`
	ToDate         string                    `json:"to_date"`
	LeaveType      LeaveType                 `json:"leave_type"`
	Status         LeaveStatus               `json:"status"`
	DayType        DayType                   `json:"day_type"`
	HalfDaySession *HalfDaySession           `json:"half_day_session,omitempty"`
	ManualOverride bool                      `json:"manual_override"`
	Reason         *string                   `json:"reason,omitempty"`
	ApprovedBy     *string                   `json:"approved_by,omitempty"`
	ActionAt       *time.Time                `json:"action_at,omitempty"`
	LeaveDays      *int                      `json:"leave_days,omitempty"`
	Days           []LeaveRequestDayResponse `json:"days,omitempty"`
	CreatedAt      time.Time                 `json:"created_at"`
}

func ToDayResponses(days []LeaveRequestDay) []LeaveRequestDayResponse {
	out := make([]LeaveRequestDayResponse, len(days))
	for i, d := range days {
		out[i] = LeaveRequestDayResponse{
			ID:           d.ID,
			Date:         calendar.FormatDate(d.Date),
			PayCategory:  d.PayCategory,
			SandwichFlag: d.SandwichFlag,
			OTCreditUsed: d.OTCreditUsed,
		}
	}
	return out
}

func ToResponse(r LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:             r.ID,
		EmployeeID:     r.EmployeeID,
		FromDate:       calendar.FormatDate(r.FromDate),
		ToDate:         calendar.FormatDate(r.ToDate),
		LeaveType:      r.LeaveType,
		Status:         r.Status,
		DayType:        r.DayType,
		HalfDaySession: r.HalfDaySession,
		ManualOverride: r.ManualOverride,
		Reason:         r.Reason,
		ApprovedBy:     r.ApprovedBy,
		ActionAt:       r.ActionAt,
		LeaveDays:      r.LeaveDays,
		Days:           ToDayResponses(r.Days),
		CreatedAt:      r.CreatedAt,
	}
}

func ToResponses(rs []LeaveRequest) []LeaveRequestResponse {
	out := make([]LeaveRequestResponse, len(rs))
	for i, r := range rs {
		out[i] = ToResponse(r)
	}
	return out
}

type StatisticsResponse struct {
	EmployeeID            string          `json:"employee_id"`
	Year                  int             `json:"year"`
	Month                 int             `json:"month"`
	TotalLeaveRequests    int             `json:"total_leave_requests"`
	TotalLeavesApproved   decimal.Decimal `json:"total_leaves_approved"`
	FullDayLeavesApproved int             `json:"full_day_leaves_approved"`
	HalfDayLeavesApproved int             `json:"half_day_leaves_approved"`
	PaidLeaveCount        decimal.Decimal `json:"paid_leave_count"`
	UnpaidLeaveCount      decimal.Decimal `json:"unpaid_leave_count"`
	RejectedLeaveCount    int             `json:"rejected_leave_count"`
	PendingLeaveCount     int             `json:"pending_leave_count"`
	SandwichLeaveCount    int             `json:"sandwich_leave_count"`
	ManualOverrideCount   int             `json:"manual_override_count"`
	CompOffUsed           int             `json:"comp_off_used"`
	LeavesRemaining       decimal.Decimal `json:"leaves_remaining"`
	LastUpdated           time.Time       `json:"last_updated"`
}

func ToStatisticsResponse(s EmployeeLeaveStatistics) StatisticsResponse {
	return StatisticsResponse{
		EmployeeID:            s.EmployeeID,
		Year:                  s.Year,
		Month:                 s.Month,
		TotalLeaveRequests:    s.TotalLeaveRequests,
		TotalLeavesApproved:   s.TotalLeavesApproved,
		FullDayLeavesApproved: s.FullDayLeavesApproved,
		HalfDayLeavesApproved: s.HalfDayLeavesApproved,
		PaidLeaveCount:        s.PaidLeaveCount,
		UnpaidLeaveCount:      s.UnpaidLeaveCount,
		RejectedLeaveCount:    s.RejectedLeaveCount,
		PendingLeaveCount:     s.PendingLeaveCount,
		SandwichLeaveCount:    s.SandwichLeaveCount,
		ManualOverrideCount:   s.ManualOverrideCount,
		CompOffUsed:           s.CompOffUsed,
		LeavesRemaining:       s.LeavesRemaining,
		LastUpdated:           s.LastUpdated,
	}
}

// LeaveSummary is a compact view of a neighbouring request.
type LeaveSummary struct {
	ID       string    `json:"id"`
	FromDate string    `json:"from_date"`
	ToDate   string    `json:"to_date"`
	Type     LeaveType `json:"leave_type"`
}

type SandwichContext struct {
	Date           string        `json:"date"`
	LeaveRequestID string        `json:"leave_request_id"`
	HolidayName    string        `json:"holiday_name,omitempty"`
	PreviousLeave  *LeaveSummary `json:"previous_leave,omitempty"`
	NextLeave      *LeaveSummary `json:"next_leave,omitempty"`
	Message        string        `json:"message"`
}
