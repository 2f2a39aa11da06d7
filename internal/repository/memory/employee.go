package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/employee"
)

type employeeRepositoryImpl struct {
	s *Store
}

func NewEmployeeRepository(s *Store) employee.EmployeeRepository {
	return &employeeRepositoryImpl{s: s}
}

func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	var out employee.Employee
	err := r.s.read(func(d *data) error {
		e, ok := d.employees[id]
		if !ok {
			return employee.ErrEmployeeNotFound
		}
		out = e
		return nil
	})
	return out, err
}

func (r *employeeRepositoryImpl) GetByFullName(ctx context.Context, fullName string) (employee.Employee, error) {
	var matches []employee.Employee
	r.s.read(func(d *data) error {
		for _, e := range d.employees {
			if strings.EqualFold(strings.TrimSpace(e.FullName), strings.TrimSpace(fullName)) {
				matches = append(matches, e)
			}
		}
		return nil
	})
	switch len(matches) {
	case 0:
		return employee.Employee{}, employee.ErrEmployeeNotFound
	case 1:
		return matches[0], nil
	default:
		return employee.Employee{}, employee.ErrAmbiguousName
	}
}

func (r *employeeRepositoryImpl) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	r.s.read(func(d *data) error {
		_, ok = d.employees[id]
		return nil
	})
	return ok, nil
}

func (r *employeeRepositoryImpl) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	err := r.s.write(ctx, func(d *data) error {
		if e.ID == "" {
			e.ID = newID()
		}
		if _, exists := d.employees[e.ID]; exists {
			return employee.ErrEmployeeExists
		}
		now := r.s.now()
		e.CreatedAt, e.UpdatedAt = now, now
		d.employees[e.ID] = e
		return nil
	})
	return e, err
}

func (r *employeeRepositoryImpl) ListByDepartment(ctx context.Context, department string) ([]employee.Employee, error) {
	var out []employee.Employee
	r.s.read(func(d *data) error {
		for _, e := range d.employees {
			if department == "" || strings.EqualFold(e.Department, department) {
				out = append(out, e)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (r *employeeRepositoryImpl) List(ctx context.Context) ([]employee.Employee, error) {
	return r.ListByDepartment(ctx, "")
}

func (r *employeeRepositoryImpl) AddOvertimeCredit(ctx context.Context, id string, pendingDays, incentiveDays int) error {
	return r.s.write(ctx, func(d *data) error {
		e, ok := d.employees[id]
		if !ok {
			return employee.ErrEmployeeNotFound
		}
		e.PendingOTDays += pendingDays
		e.IncentiveOTDays += incentiveDays
		e.UpdatedAt = r.s.now()
		d.employees[id] = e
		return nil
	})
}
