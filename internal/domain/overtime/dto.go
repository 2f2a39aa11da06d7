package overtime

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/validator"
)

type RequestOvertimeRequest struct {
	EmployeeID string  `json:"-"`
	Date       string  `json:"date"`
	Type       Type    `json:"type,omitempty"`
	Reason     *string `json:"reason,omitempty"`

	ParsedDate time.Time `json:"-"`
}

func (r *RequestOvertimeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	validateDate(&errs, r.Date, &r.ParsedDate)
	r.Type = normalizeType(r.Type, TypePendingOT)
	if !r.Type.IsValid() {
		errs.Add("type", "type must be PENDING_OT or INCENTIVE_OT")
	}

	return errs.Err()
}

// AllocateRequest is the admin allocation. The employee is given by id or by full name.
type AllocateRequest struct {
	EmployeeID   string  `json:"employee_id,omitempty"`
	EmployeeName string  `json:"employee_name,omitempty"`
	Date         string  `json:"date"`
	Type         Type    `json:"type,omitempty"`
	Status       Status  `json:"status,omitempty"`
	Reason       *string `json:"reason,omitempty"`
	AllocatedBy  string  `json:"-"`

	ParsedDate time.Time `json:"-"`
}

func (r *AllocateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) && validator.IsEmpty(r.EmployeeName) {
		errs.Add("employee_id", "employee_id or employee_name is required")
	}
	validateDate(&errs, r.Date, &r.ParsedDate)
	r.Type = normalizeType(r.Type, TypePendingOT)
	if !r.Type.IsValid() {
		errs.Add("type", "type must be PENDING_OT or INCENTIVE_OT")
	}
	r.Status = normalizeStatus(r.Status, StatusApproved)
	if !r.Status.IsValid() {
		errs.Add("status", "status must be PENDING, APPROVED or REJECTED")
	}

	return errs.Err()
}

type BulkAllocateRequest struct {
	EmployeeIDs []string `json:"employee_ids"`
	Date        string   `json:"date"`
	Type        Type     `json:"type,omitempty"`
	AllocatedBy string   `json:"-"`

	ParsedDate time.Time `json:"-"`
}

func (r *BulkAllocateRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.EmployeeIDs) == 0 {
		errs.Add("employee_ids", "employee_ids must not be empty")
	}
	validateDate(&errs, r.Date, &r.ParsedDate)
	r.Type = normalizeType(r.Type, TypePendingOT)
	if !r.Type.IsValid() {
		errs.Add("type", "type must be PENDING_OT or INCENTIVE_OT")
	}

	return errs.Err()
}

type DepartmentAllocateRequest struct {
	Department  string `json:"department"`
	Date        string `json:"date"`
	Type        Type   `json:"type,omitempty"`
	AllocatedBy string `json:"-"`

	ParsedDate time.Time `json:"-"`
}

func (r *DepartmentAllocateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Department) {
		errs.Add("department", "department is required")
	}
	validateDate(&errs, r.Date, &r.ParsedDate)
	r.Type = normalizeType(r.Type, TypePendingOT)
	if !r.Type.IsValid() {
		errs.Add("type", "type must be PENDING_OT or INCENTIVE_OT")
	}

	return errs.Err()
}

type UpdateAllocationRequest struct {
	ID     string  `json:"-"`
	Type   *Type   `json:"type,omitempty"`
	Status *Status `json:"status,omitempty"`
}

func (r *UpdateAllocationRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Type == nil && r.Status == nil {
		errs.Add("type", "type or status is required")
	}
	if r.Type != nil {
		t := normalizeType(*r.Type, "")
		r.Type = &t
		if !t.IsValid() {
			errs.Add("type", "type must be PENDING_OT or INCENTIVE_OT")
		}
	}
	if r.Status != nil {
		s := normalizeStatus(*r.Status, "")
		r.Status = &s
		if !s.IsValid() {
			errs.Add("status", "status must be PENDING, APPROVED or REJECTED")
		}
	}

	return errs.Err()
}

type DecisionRequest struct {
	ID       string `json:"-"`
	ActionBy string `json:"-"`
	// Type optionally reclassifies the overtime on approval.
	Type *Type `json:"type,omitempty"`
}

type OvertimeFilter struct {
	EmployeeID string
	From       *time.Time
	To         *time.Time
	Status     *Status
}

// AllocationFailure reports one employee skipped by a bulk allocation.
type AllocationFailure struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

type BulkAllocationResult struct {
	Allocated []OvertimeResponse  `json:"allocated"`
	Failed    []AllocationFailure `json:"failed"`
}

type OvertimeResponse struct {
	ID            string     `json:"id"`
	EmployeeID    string     `json:"employee_id"`
	Date          string     `json:"date"`
	Type          Type       `json:"type"`
	Status        Status     `json:"status"`
	Reason        *string    `json:"reason,omitempty"`
	IsUsedAsLeave bool       `json:"is_used_as_leave"`
	IsPaidOut     bool       `json:"is_paid_out"`
	AllocatedBy   *string    `json:"allocated_by,omitempty"`
	ActionBy      *string    `json:"action_by,omitempty"`
	ActionAt      *time.Time `json:"action_at,omitempty"`
}

func ToResponse(o Overtime) OvertimeResponse {
	return OvertimeResponse{
		ID:            o.ID,
		EmployeeID:    o.EmployeeID,
		Date:          calendar.FormatDate(o.Date),
		Type:          o.Type,
		Status:        o.Status,
		Reason:        o.Reason,
		IsUsedAsLeave: o.IsUsedAsLeave,
		IsPaidOut:     o.IsPaidOut,
		AllocatedBy:   o.AllocatedBy,
		ActionBy:      o.ActionBy,
		ActionAt:      o.ActionAt,
	}
}

func ToResponses(items []Overtime) []OvertimeResponse {
	out := make([]OvertimeResponse, len(items))
	for i, o := range items {
		out[i] = ToResponse(o)
	}
	return out
}

func validateDate(errs *validator.ValidationErrors, s string, dst *time.Time) {
	if validator.IsEmpty(s) {
		errs.Add("date", "date is required")
		return
	}
	d, ok := validator.IsValidDate(s)
	if !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
		return
	}
	*dst = d
}

func normalizeType(t Type, fallback Type) Type {
	if t == "" {
		return fallback
	}
	return Type(strings.ToUpper(string(t)))
}

func normalizeStatus(s Status, fallback Status) Status {
	if s == "" {
		return fallback
	}
	return Status(strings.ToUpper(string(s)))
}
