package permission

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/validator"
)

type CreatePermissionRequest struct {
	EmployeeID string `json:"-"`
	Date       string `json:"date"`
	FromTime   string `json:"from_time"`
	ToTime     string `json:"to_time"`
	Reason     string `json:"reason"`

	ParsedDate time.Time          `json:"-"`
	From       calendar.TimeOfDay `json:"-"`
	To         calendar.TimeOfDay `json:"-"`
}

func (r *CreatePermissionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if validator.IsEmpty(r.Date) {
		errs.Add("date", "date is required")
	} else if d, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	} else {
		r.ParsedDate = d
	}
	validateWindow(&errs, r.FromTime, r.ToTime, &r.From, &r.To)
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	}

	return errs.Err()
}

type UpdatePermissionRequest struct {
	ID       string  `json:"-"`
	Date     *string `json:"date,omitempty"`
	FromTime *string `json:"from_time,omitempty"`
	ToTime   *string `json:"to_time,omitempty"`
	Reason   *string `json:"reason,omitempty"`
}

func (r *UpdatePermissionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Date != nil {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			errs.Add("date", "date must be in YYYY-MM-DD format")
		}
	}
	if r.FromTime != nil {
		if _, ok := validator.IsValidTimeOfDay(*r.FromTime); !ok {
			errs.Add("from_time", "from_time must be in HH:MM format")
		}
	}
	if r.ToTime != nil {
		if _, ok := validator.IsValidTimeOfDay(*r.ToTime); !ok {
			errs.Add("to_time", "to_time must be in HH:MM format")
		}
	}
	if r.Reason != nil && validator.IsEmpty(*r.Reason) {
		errs.Add("reason", "reason must not be empty")
	}

	return errs.Err()
}

type DecisionRequest struct {
	ID       string  `json:"-"`
	ActionBy string  `json:"-"`
	Comments *string `json:"comments,omitempty"`
}

type PermissionFilter struct {
	EmployeeID string
	Status     *Status
	From       *time.Time
	To         *time.Time
}

func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToUpper(s))
	switch st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, true
	}
	return "", false
}

type PermissionResponse struct {
	ID             string             `json:"id"`
	EmployeeID     string             `json:"employee_id"`
	Date           string             `json:"date"`
	FromTime       calendar.TimeOfDay `json:"from_time"`
	ToTime         calendar.TimeOfDay `json:"to_time"`
	Hours          float64            `json:"hours"`
	Reason         string             `json:"reason"`
	Status         Status             `json:"status"`
	ActionBy       *string            `json:"action_by,omitempty"`
	ActionAt       *time.Time         `json:"action_at,omitempty"`
	ActionComments *string            `json:"action_comments,omitempty"`
	RequestedAt    time.Time          `json:"requested_at"`
}

func ToResponse(p PermissionHours) PermissionResponse {
	return PermissionResponse{
		ID:             p.ID,
		EmployeeID:     p.EmployeeID,
		Date:           calendar.FormatDate(p.Date),
		FromTime:       p.FromTime,
		ToTime:         p.ToTime,
		Hours:          p.Hours(),
		Reason:         p.Reason,
		Status:         p.Status,
		ActionBy:       p.ActionBy,
		ActionAt:       p.ActionAt,
		ActionComments: p.ActionComments,
		RequestedAt:    p.RequestedAt,
	}
}

func ToResponses(ps []PermissionHours) []PermissionResponse {
	out := make([]PermissionResponse, len(ps))
	for i, p := range ps {
		out[i] = ToResponse(p)
	}
	return out
}

func validateWindow(errs *validator.ValidationErrors, from, to string, fromDst, toDst *calendar.TimeOfDay) {
	fromOK, toOK := false, false
	if validator.IsEmpty(from) {
		errs.Add("from_time", "from_time is required")
	} else if tod, ok := validator.IsValidTimeOfDay(from); !ok {
		errs.Add("from_time", "from_time must be in HH:MM format")
	} else {
		*fromDst, fromOK = tod, true
	}
	if validator.IsEmpty(to) {
		errs.Add("to_time", "to_time is required")
	} else if tod, ok := validator.IsValidTimeOfDay(to); !ok {
		errs.Add("to_time", "to_time must be in HH:MM format")
	} else {
		*toDst, toOK = tod, true
	}
	if fromOK && toOK && !fromDst.Before(*toDst) {
		errs.Add("to_time", "to_time must be after from_time")
	}
}
