package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/calendar"
)

type overtimeRepositoryImpl struct {
	s *Store
}

func NewOvertimeRepository(s *Store) overtime.OvertimeRepository {
	return &overtimeRepositoryImpl{s: s}
}

func (r *overtimeRepositoryImpl) Create(ctx context.Context, o overtime.Overtime) (overtime.Overtime, error) {
	o.Date = calendar.DateOf(o.Date)
	err := r.s.write(ctx, func(d *data) error {
		for _, existing := range d.overtime {
			if existing.EmployeeID == o.EmployeeID && existing.Date.Equal(o.Date) {
				return overtime.ErrOvertimeExists
			}
		}
		if o.ID == "" {
			o.ID = newID()
		}
		now := r.s.now()
		o.CreatedAt, o.UpdatedAt = now, now
		d.overtime[o.ID] = o
		return nil
	})
	return o, err
}

func (r *overtimeRepositoryImpl) GetByID(ctx context.Context, id string) (overtime.Overtime, error) {
	var out overtime.Overtime
	err := r.s.read(func(d *data) error {
		o, ok := d.overtime[id]
		if !ok {
			return overtime.ErrOvertimeNotFound
		}
		out = o
		return nil
	})
	return out, err
}

func (r *overtimeRepositoryImpl) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (overtime.Overtime, error) {
	var out overtime.Overtime
	err := r.s.read(func(d *data) error {
		for _, o := range d.overtime {
			if o.EmployeeID == employeeID && o.Date.Equal(calendar.DateOf(date)) {
				out = o
				return nil
			}
		}
		return overtime.ErrOvertimeNotFound
	})
	return out, err
}

func (r *overtimeRepositoryImpl) Update(ctx context.Context, o overtime.Overtime) error {
	return r.s.write(ctx, func(d *data) error {
		existing, ok := d.overtime[o.ID]
		if !ok {
			return overtime.ErrOvertimeNotFound
		}
		o.CreatedAt = existing.CreatedAt
		o.UpdatedAt = r.s.now()
		d.overtime[o.ID] = o
		return nil
	})
}

func (r *overtimeRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.s.write(ctx, func(d *data) error {
		if _, ok := d.overtime[id]; !ok {
			return overtime.ErrOvertimeNotFound
		}
		delete(d.overtime, id)
		return nil
	})
}

func (r *overtimeRepositoryImpl) List(ctx context.Context, filter overtime.OvertimeFilter) ([]overtime.Overtime, error) {
	var out []overtime.Overtime
	r.s.read(func(d *data) error {
		for _, o := range d.overtime {
			if filter.EmployeeID != "" && o.EmployeeID != filter.EmployeeID {
				continue
			}
			if filter.Status != nil && o.Status != *filter.Status {
				continue
			}
			if filter.From != nil && o.Date.Before(calendar.DateOf(*filter.From)) {
				continue
			}
			if filter.To != nil && o.Date.After(calendar.DateOf(*filter.To)) {
				continue
			}
			out = append(out, o)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out, nil
}
