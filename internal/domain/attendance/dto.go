package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/validator"
)

// PunchRequest is used for both punch-in and punch-out.
type PunchRequest struct {
	EmployeeID string `json:"-"`
	// Optional RFC3339 timestamp, defaults to now.
	Timestamp string `json:"timestamp,omitempty"`

	At time.Time `json:"-"`
}

func (r *PunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if r.Timestamp != "" {
		t, ok := validator.IsValidDateTime(r.Timestamp)
		if !ok {
			errs.Add("timestamp", "timestamp must be an RFC3339 date-time")
		} else {
			r.At = t
		}
	}

	return errs.Err()
}

type AttendanceFilter struct {
	EmployeeID string
	From       time.Time
	To         time.Time
}

type AttendanceResponse struct {
	ID             string     `json:"id"`
	EmployeeID     string     `json:"employee_id"`
	Date           string     `json:"date"`
	PunchIn        *time.Time `json:"punch_in,omitempty"`
	PunchOut       *time.Time `json:"punch_out,omitempty"`
	HoursWorked    float64    `json:"hours_worked"`
	Status         Status     `json:"status"`
	IdleTime       float64    `json:"idle_time"`
	IsLateLogin    bool       `json:"is_late_login"`
	IsOTDay        bool       `json:"is_ot_day"`
	CompOffUsed    bool       `json:"comp_off_used"`
	ManualApproval bool       `json:"manual_approval"`
	Remarks        *string    `json:"remarks,omitempty"`
}

func ToResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:             a.ID,
		EmployeeID:     a.EmployeeID,
		Date:           calendar.FormatDate(a.Date),
		PunchIn:        a.PunchIn,
		PunchOut:       a.PunchOut,
		HoursWorked:    a.HoursWorked,
		Status:         a.Status,
		IdleTime:       a.IdleTime,
		IsLateLogin:    a.IsLateLogin,
		IsOTDay:        a.IsOTDay,
		CompOffUsed:    a.CompOffUsed,
		ManualApproval: a.ManualApproval,
		Remarks:        a.Remarks,
	}
}

func ToResponses(as []Attendance) []AttendanceResponse {
	out := make([]AttendanceResponse, len(as))
	for i, a := range as {
		out[i] = ToResponse(a)
	}
	return out
}

type CloseOpenPunchesResponse struct {
	Date   string `json:"date"`
	Closed int    `json:"closed"`
}

type LateLoginCountResponse struct {
	EmployeeID string `json:"employee_id"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Count      int    `json:"count"`
}
