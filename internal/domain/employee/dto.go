package employee

import (
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	ID             string  `json:"id,omitempty"`
	FullName       string  `json:"full_name"`
	Email          *string `json:"email,omitempty"`
	Department     string  `json:"department"`
	EmploymentType string  `json:"employment_type"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FullName) {
		errs.Add("full_name", "full_name is required")
	}
	if len(r.FullName) > 255 {
		errs.Add("full_name", "full_name must not exceed 255 characters")
	}
	if validator.IsEmpty(r.Department) {
		errs.Add("department", "department is required")
	}
	if validator.IsEmpty(r.EmploymentType) {
		errs.Add("employment_type", "employment_type is required")
	}

	return errs.Err()
}

type EmployeeResponse struct {
	ID              string    `json:"id"`
	FullName        string    `json:"full_name"`
	Email           *string   `json:"email,omitempty"`
	Department      string    `json:"department"`
	EmploymentType  string    `json:"employment_type"`
	PendingOTDays   int       `json:"pending_ot_days"`
	IncentiveOTDays int       `json:"incentive_ot_days"`
	CreatedAt       time.Time `json:"created_at"`
}

func ToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:              e.ID,
		FullName:        e.FullName,
		Email:           e.Email,
		Department:      e.Department,
		EmploymentType:  e.EmploymentType,
		PendingOTDays:   e.PendingOTDays,
		IncentiveOTDays: e.IncentiveOTDays,
		CreatedAt:       e.CreatedAt,
	}
}
