package policy

import "context"

type PolicyService interface {
	// Resolve never fails with ErrPolicyNotFound: it falls back to the department's
	// DEFAULT row and then to Builtin.
	Resolve(ctx context.Context, department, employmentType string) (DepartmentPolicy, error)
	Upsert(ctx context.Context, req UpsertPolicyRequest) (DepartmentPolicy, error)
	List(ctx context.Context) ([]DepartmentPolicy, error)
	Delete(ctx context.Context, department, employmentType string) error
}
