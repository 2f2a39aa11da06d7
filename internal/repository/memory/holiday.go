package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/calendar"
)

type holidayRepositoryImpl struct {
	s *Store
}

func NewHolidayRepository(s *Store) holiday.HolidayRepository {
	return &holidayRepositoryImpl{s: s}
}

func (r *holidayRepositoryImpl) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	var found bool
	r.s.read(func(d *data) error {
		for _, h := range d.holidays {
			if h.Date.Equal(calendar.DateOf(date)) {
				found = true
				break
			}
		}
		return nil
	})
	return found, nil
}

func (r *holidayRepositoryImpl) ListBetween(ctx context.Context, start, end time.Time) ([]holiday.Holiday, error) {
	var out []holiday.Holiday
	r.s.read(func(d *data) error {
		for _, h := range d.holidays {
			if within(h.Date, start, end) {
				out = append(out, h)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *holidayRepositoryImpl) GetByID(ctx context.Context, id string) (holiday.Holiday, error) {
	var out holiday.Holiday
	err := r.s.read(func(d *data) error {
		h, ok := d.holidays[id]
		if !ok {
			return holiday.ErrHolidayNotFound
		}
		out = h
		return nil
	})
	return out, err
}

func (r *holidayRepositoryImpl) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	h.Date = calendar.DateOf(h.Date)
	err := r.s.write(ctx, func(d *data) error {
		for _, existing := range d.holidays {
			if existing.Date.Equal(h.Date) {
				return holiday.ErrHolidayDateExists
			}
		}
		if h.ID == "" {
			h.ID = newID()
		}
		now := r.s.now()
		h.CreatedAt, h.UpdatedAt = now, now
		d.holidays[h.ID] = h
		return nil
	})
	return h, err
}

func (r *holidayRepositoryImpl) Update(ctx context.Context, h holiday.Holiday) error {
	h.Date = calendar.DateOf(h.Date)
	return r.s.write(ctx, func(d *data) error {
		if _, ok := d.holidays[h.ID]; !ok {
			return holiday.ErrHolidayNotFound
		}
		for id, existing := range d.holidays {
			if id != h.ID && existing.Date.Equal(h.Date) {
				return holiday.ErrHolidayDateExists
			}
		}
		h.UpdatedAt = r.s.now()
		d.holidays[h.ID] = h
		return nil
	})
}

func (r *holidayRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.s.write(ctx, func(d *data) error {
		if _, ok := d.holidays[id]; !ok {
			return holiday.ErrHolidayNotFound
		}
		delete(d.holidays, id)
		return nil
	})
}
