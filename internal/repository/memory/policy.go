package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/policy"
)

type policyRepositoryImpl struct {
	s *Store
}

func NewPolicyRepository(s *Store) policy.PolicyRepository {
	return &policyRepositoryImpl{s: s}
}

func keyOf(department, employmentType string) policyKey {
	return policyKey{
		Department:     strings.ToLower(strings.TrimSpace(department)),
		EmploymentType: strings.ToUpper(strings.TrimSpace(employmentType)),
	}
}

func (r *policyRepositoryImpl) Find(ctx context.Context, department, employmentType string) (policy.DepartmentPolicy, error) {
	var out policy.DepartmentPolicy
	err := r.s.read(func(d *data) error {
		p, ok := d.policies[keyOf(department, employmentType)]
		if !ok {
			return policy.ErrPolicyNotFound
		}
		out = p
		return nil
	})
	return out, err
}

func (r *policyRepositoryImpl) Upsert(ctx context.Context, p policy.DepartmentPolicy) (policy.DepartmentPolicy, error) {
	err := r.s.write(ctx, func(d *data) error {
		k := keyOf(p.Department, p.EmploymentType)
		now := r.s.now()
		if existing, ok := d.policies[k]; ok {
			p.ID = existing.ID
			p.CreatedAt = existing.CreatedAt
		} else {
			if p.ID == "" {
				p.ID = newID()
			}
			p.CreatedAt = now
		}
		p.UpdatedAt = now
		d.policies[k] = p
		return nil
	})
	return p, err
}

func (r *policyRepositoryImpl) List(ctx context.Context) ([]policy.DepartmentPolicy, error) {
	var out []policy.DepartmentPolicy
	r.s.read(func(d *data) error {
		for _, p := range d.policies {
			out = append(out, p)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Department != out[j].Department {
			return out[i].Department < out[j].Department
		}
		return out[i].EmploymentType < out[j].EmploymentType
	})
	return out, nil
}

func (r *policyRepositoryImpl) Delete(ctx context.Context, department, employmentType string) error {
	return r.s.write(ctx, func(d *data) error {
		k := keyOf(department, employmentType)
		if _, ok := d.policies[k]; !ok {
			return policy.ErrPolicyNotFound
		}
		delete(d.policies, k)
		return nil
	})
}
