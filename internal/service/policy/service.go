package policy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/policy"
	"github.com/google/uuid"
)

type PolicyServiceImpl struct {
	policy.PolicyRepository
}

func NewPolicyService(policyRepository policy.PolicyRepository) policy.PolicyService {
	return &PolicyServiceImpl{PolicyRepository: policyRepository}
}

// Resolve looks up the exact row, then the department DEFAULT row, then the builtin policy.
func (s *PolicyServiceImpl) Resolve(ctx context.Context, department, employmentType string) (policy.DepartmentPolicy, error) {
	department = strings.TrimSpace(department)
	employmentType = strings.ToUpper(strings.TrimSpace(employmentType))

	candidates := []string{employmentType}
	if employmentType != policy.DefaultEmploymentType {
		candidates = append(candidates, policy.DefaultEmploymentType)
	}

	for _, empType := range candidates {
		if empType == "" {
			continue
		}
		p, err := s.PolicyRepository.Find(ctx, department, empType)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, policy.ErrPolicyNotFound) {
			return policy.DepartmentPolicy{}, fmt.Errorf("failed to find department policy: %w", err)
		}
	}

	return policy.Builtin(department), nil
}

func (s *PolicyServiceImpl) Upsert(ctx context.Context, req policy.UpsertPolicyRequest) (policy.DepartmentPolicy, error) {
	p, err := req.Validate()
	if err != nil {
		return policy.DepartmentPolicy{}, err
	}
	p.ID = uuid.Must(uuid.NewV7()).String()

	saved, err := s.PolicyRepository.Upsert(ctx, p)
	if err != nil {
		return policy.DepartmentPolicy{}, fmt.Errorf("failed to save department policy: %w", err)
	}
	return saved, nil
}

func (s *PolicyServiceImpl) List(ctx context.Context) ([]policy.DepartmentPolicy, error) {
	return s.PolicyRepository.List(ctx)
}

func (s *PolicyServiceImpl) Delete(ctx context.Context, department, employmentType string) error {
	employmentType = strings.ToUpper(strings.TrimSpace(employmentType))
	if employmentType == "" {
		employmentType = policy.DefaultEmploymentType
	}
	return s.PolicyRepository.Delete(ctx, strings.TrimSpace(department), employmentType)
}
