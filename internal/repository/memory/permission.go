package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/permission"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/calendar"
)

type permissionRepositoryImpl struct {
	s *Store
}

func NewPermissionRepository(s *Store) permission.PermissionRepository {
	return &permissionRepositoryImpl{s: s}
}

func (r *permissionRepositoryImpl) Create(ctx context.Context, p permission.PermissionHours) (permission.PermissionHours, error) {
	p.Date = calendar.DateOf(p.Date)
	err := r.s.write(ctx, func(d *data) error {
		if p.ID == "" {
			p.ID = newID()
		}
		now := r.s.now()
		if p.RequestedAt.IsZero() {
			p.RequestedAt = now
		}
		p.UpdatedAt = now
		d.permissions[p.ID] = p
		return nil
	})
	return p, err
}

func (r *permissionRepositoryImpl) GetByID(ctx context.Context, id string) (permission.PermissionHours, error) {
	var out permission.PermissionHours
	err := r.s.read(func(d *data) error {
		p, ok := d.permissions[id]
		if !ok {
			return permission.ErrPermissionNotFound
		}
		out = p
		return nil
	})
	return out, err
}

func (r *permissionRepositoryImpl) Update(ctx context.Context, p permission.PermissionHours) error {
	p.Date = calendar.DateOf(p.Date)
	return r.s.write(ctx, func(d *data) error {
		if _, ok := d.permissions[p.ID]; !ok {
			return permission.ErrPermissionNotFound
		}
		p.UpdatedAt = r.s.now()
		d.permissions[p.ID] = p
		return nil
	})
}

func (r *permissionRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.s.write(ctx, func(d *data) error {
		if _, ok := d.permissions[id]; !ok {
			return permission.ErrPermissionNotFound
		}
		delete(d.permissions, id)
		return nil
	})
}

func (r *permissionRepositoryImpl) List(ctx context.Context, filter permission.PermissionFilter) ([]permission.PermissionHours, error) {
	var out []permission.PermissionHours
	r.s.read(func(d *data) error {
		for _, p := range d.permissions {
			if filter.EmployeeID != "" && p.EmployeeID != filter.EmployeeID {
				continue
			}
			if filter.Status != nil && p.Status != *filter.Status {
				continue
			}
			if filter.From != nil && p.Date.Before(calendar.DateOf(*filter.From)) {
				continue
			}
			if filter.To != nil && p.Date.After(calendar.DateOf(*filter.To)) {
				continue
			}
			out = append(out, p)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].RequestedAt.After(out[j].RequestedAt) })
	return out, nil
}
