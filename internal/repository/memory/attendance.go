package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/calendar"
)

type attendanceRepositoryImpl struct {
	s *Store
}

func NewAttendanceRepository(s *Store) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{s: s}
}

func (r *attendanceRepositoryImpl) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	var out attendance.Attendance
	err := r.s.read(func(d *data) error {
		a, ok := d.attendance[dayKey{employeeID, dateKey(date)}]
		if !ok {
			return attendance.ErrAttendanceNotFound
		}
		out = a
		return nil
	})
	return out, err
}

func (r *attendanceRepositoryImpl) Save(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	a.Date = calendar.DateOf(a.Date)
	err := r.s.write(ctx, func(d *data) error {
		k := dayKey{a.EmployeeID, dateKey(a.Date)}
		now := r.s.now()
		if existing, ok := d.attendance[k]; ok {
			a.ID = existing.ID
			a.CreatedAt = existing.CreatedAt
		} else {
			if a.ID == "" {
				a.ID = newID()
			}
			a.CreatedAt = now
		}
		a.UpdatedAt = now
		d.attendance[k] = a
		return nil
	})
	return a, err
}

func (r *attendanceRepositoryImpl) FindOpenPunchesForDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	r.s.read(func(d *data) error {
		for _, a := range d.attendance {
			if a.Date.Equal(calendar.DateOf(date)) && a.IsOpen() {
				out = append(out, a)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (r *attendanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	r.s.read(func(d *data) error {
		for _, a := range d.attendance {
			if a.EmployeeID == employeeID && within(a.Date, from, to) {
				out = append(out, a)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *attendanceRepositoryImpl) IncrementLateLogin(ctx context.Context, employeeID string, year, month int) error {
	return r.s.write(ctx, func(d *data) error {
		d.lateLogins[monthKey{employeeID, year, month}]++
		return nil
	})
}

func (r *attendanceRepositoryImpl) GetLateLoginCount(ctx context.Context, employeeID string, year, month int) (int, error) {
	var n int
	r.s.read(func(d *data) error {
		n = d.lateLogins[monthKey{employeeID, year, month}]
		return nil
	})
	return n, nil
}
