package employee

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/employee"
	"github.com/google/uuid"
)

type EmployeeServiceImpl struct {
	employee.EmployeeRepository
}

func NewEmployeeService(employeeRepository employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{EmployeeRepository: employeeRepository}
}

// Create implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = uuid.Must(uuid.NewV7()).String()
	}

	created, err := s.EmployeeRepository.Create(ctx, employee.Employee{
		ID:             id,
		FullName:       strings.TrimSpace(req.FullName),
		Email:          req.Email,
		Department:     strings.TrimSpace(req.Department),
		EmploymentType: strings.ToUpper(strings.TrimSpace(req.EmploymentType)),
	})
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return employee.ToResponse(created), nil
}

// Get implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Get(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	e, err := s.EmployeeRepository.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return employee.ToResponse(e), nil
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context, department string) ([]employee.EmployeeResponse, error) {
	employees, err := s.EmployeeRepository.ListByDepartment(ctx, department)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	out := make([]employee.EmployeeResponse, len(employees))
	for i, e := range employees {
		out[i] = employee.ToResponse(e)
	}
	return out, nil
}
