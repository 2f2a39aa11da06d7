package employee

import "time"

type Employee struct {
	ID             string
	FullName       string
	Email          *string
	Department     string
	EmploymentType string
	// Overtime day credits earned through approved overtime.
	PendingOTDays   int
	IncentiveOTDays int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Common employment types. Policies are keyed by free text, these are the
// values the seed data and the HTTP layer use.
const (
	EmploymentTypePermanent = "PERMANENT"
	EmploymentTypeContract  = "CONTRACT"
	EmploymentTypeIntern    = "INTERN"
)
