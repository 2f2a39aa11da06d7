package policy

import "context"

type PolicyRepository interface {
	// Find returns the exact (department, employmentType) row or ErrPolicyNotFound.
	Find(ctx context.Context, department, employmentType string) (DepartmentPolicy, error)
	Upsert(ctx context.Context, p DepartmentPolicy) (DepartmentPolicy, error)
	List(ctx context.Context) ([]DepartmentPolicy, error)
	Delete(ctx context.Context, department, employmentType string) error
}
