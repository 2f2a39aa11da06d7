package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/calendar"
)

type leaveRequestRepositoryImpl struct {
	s *Store
}

func NewLeaveRequestRepository(s *Store) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{s: s}
}

func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, lr leave.LeaveRequest) (leave.LeaveRequest, error) {
	lr.FromDate, lr.ToDate = calendar.DateOf(lr.FromDate), calendar.DateOf(lr.ToDate)
	err := r.s.write(ctx, func(d *data) error {
		if lr.ID == "" {
			lr.ID = newID()
		}
		now := r.s.now()
		lr.CreatedAt, lr.UpdatedAt = now, now
		stored := lr
		stored.Days = nil
		d.leaveRequests[lr.ID] = stored
		return nil
	})
	return lr, err
}

func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	var out leave.LeaveRequest
	err := r.s.read(func(d *data) error {
		lr, ok := d.leaveRequests[id]
		if !ok {
			return leave.ErrLeaveRequestNotFound
		}
		out = lr
		return nil
	})
	return out, err
}

func (r *leaveRequestRepositoryImpl) Update(ctx context.Context, lr leave.LeaveRequest) error {
	return r.s.write(ctx, func(d *data) error {
		existing, ok := d.leaveRequests[lr.ID]
		if !ok {
			return leave.ErrLeaveRequestNotFound
		}
		lr.CreatedAt = existing.CreatedAt
		lr.UpdatedAt = r.s.now()
		lr.Days = nil
		d.leaveRequests[lr.ID] = lr
		return nil
	})
}

func (r *leaveRequestRepositoryImpl) CheckOverlapping(ctx context.Context, employeeID string, from, to time.Time) (bool, error) {
	var overlap bool
	r.s.read(func(d *data) error {
		for _, lr := range d.leaveRequests {
			if lr.EmployeeID != employeeID || lr.Status == leave.LeaveStatusRejected {
				continue
			}
			if calendar.RangesOverlap(lr.FromDate, lr.ToDate, from, to) {
				overlap = true
				return nil
			}
		}
		return nil
	})
	return overlap, nil
}

func (r *leaveRequestRepositoryImpl) CountApprovedQuotaRequestsInMonth(ctx context.Context, employeeID string, year, month int) (int, error) {
	var n int
	r.s.read(func(d *data) error {
		for _, lr := range d.leaveRequests {
			if lr.EmployeeID == employeeID &&
				lr.Status == leave.LeaveStatusApproved &&
				lr.LeaveType.QualifiesForPaidQuota() &&
				lr.FromDate.Year() == year && int(lr.FromDate.Month()) == month {
				n++
			}
		}
		return nil
	})
	return n, nil
}

func (r *leaveRequestRepositoryImpl) ListApprovedInRange(ctx context.Context, employeeID string, from, to time.Time) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	r.s.read(func(d *data) error {
		for _, lr := range d.leaveRequests {
			if lr.EmployeeID == employeeID &&
				lr.Status == leave.LeaveStatusApproved &&
				calendar.RangesOverlap(lr.FromDate, lr.ToDate, from, to) {
				out = append(out, lr)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].FromDate.Before(out[j].FromDate) })
	return out, nil
}

func (r *leaveRequestRepositoryImpl) ListByEmployee(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	r.s.read(func(d *data) error {
		for _, lr := range d.leaveRequests {
			if lr.EmployeeID != filter.EmployeeID {
				continue
			}
			if filter.Status != nil && lr.Status != *filter.Status {
				continue
			}
			if filter.Year != nil && filter.Month != nil {
				start := calendar.Date(*filter.Year, time.Month(*filter.Month), 1)
				if !calendar.RangesOverlap(lr.FromDate, lr.ToDate, start, calendar.MonthEnd(start)) {
					continue
				}
			} else if filter.Year != nil && lr.FromDate.Year() != *filter.Year && lr.ToDate.Year() != *filter.Year {
				continue
			}
			out = append(out, lr)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].FromDate.Before(out[j].FromDate) })
	return out, nil
}

type leaveRequestDayRepositoryImpl struct {
	s *Store
}

func NewLeaveRequestDayRepository(s *Store) leave.LeaveRequestDayRepository {
	return &leaveRequestDayRepositoryImpl{s: s}
}

func (r *leaveRequestDayRepositoryImpl) CreateBatch(ctx context.Context, days []leave.LeaveRequestDay) error {
	return r.s.write(ctx, func(d *data) error {
		now := r.s.now()
		for _, day := range days {
			if day.ID == "" {
				day.ID = newID()
			}
			day.Date = calendar.DateOf(day.Date)
			day.CreatedAt, day.UpdatedAt = now, now
			d.leaveDays[day.ID] = day
		}
		return nil
	})
}

func (r *leaveRequestDayRepositoryImpl) Update(ctx context.Context, day leave.LeaveRequestDay) error {
	return r.s.write(ctx, func(d *data) error {
		existing, ok := d.leaveDays[day.ID]
		if !ok {
			return leave.ErrLeaveRequestNotFound
		}
		day.CreatedAt = existing.CreatedAt
		day.UpdatedAt = r.s.now()
		d.leaveDays[day.ID] = day
		return nil
	})
}

func (r *leaveRequestDayRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.s.write(ctx, func(d *data) error {
		if _, ok := d.leaveDays[id]; !ok {
			return leave.ErrLeaveRequestNotFound
		}
		delete(d.leaveDays, id)
		return nil
	})
}

func (r *leaveRequestDayRepositoryImpl) ListByRequest(ctx context.Context, leaveRequestID string) ([]leave.LeaveRequestDay, error) {
	var out []leave.LeaveRequestDay
	r.s.read(func(d *data) error {
		for _, day := range d.leaveDays {
			if day.LeaveRequestID == leaveRequestID {
				out = append(out, day)
			}
		}
		return nil
	})
	sortDays(out)
	return out, nil
}

func (r *leaveRequestDayRepositoryImpl) CountPaidInMonth(ctx context.Context, employeeID string, year, month int) (int, error) {
	var n int
	r.s.read(func(d *data) error {
		for _, day := range d.leaveDays {
			if day.EmployeeID != employeeID || day.PayCategory != leave.PayCategoryPaid {
				continue
			}
			if day.Date.Year() != year || int(day.Date.Month()) != month {
				continue
			}
			if lr, ok := d.leaveRequests[day.LeaveRequestID]; ok && lr.Status == leave.LeaveStatusRejected {
				continue
			}
			n++
		}
		return nil
	})
	return n, nil
}

func (r *leaveRequestDayRepositoryImpl) FindSandwich(ctx context.Context, employeeID string, date time.Time) (*leave.LeaveRequestDay, error) {
	var out *leave.LeaveRequestDay
	r.s.read(func(d *data) error {
		for _, day := range d.leaveDays {
			if day.EmployeeID == employeeID && day.SandwichFlag && day.Date.Equal(calendar.DateOf(date)) {
				found := day
				out = &found
				return nil
			}
		}
		return nil
	})
	return out, nil
}

func (r *leaveRequestDayRepositoryImpl) ListSandwichInRange(ctx context.Context, employeeID string, from, to time.Time) ([]leave.LeaveRequestDay, error) {
	var out []leave.LeaveRequestDay
	r.s.read(func(d *data) error {
		for _, day := range d.leaveDays {
			if day.EmployeeID == employeeID && day.SandwichFlag && within(day.Date, from, to) {
				out = append(out, day)
			}
		}
		return nil
	})
	sortDays(out)
	return out, nil
}

func sortDays(days []leave.LeaveRequestDay) {
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
}

type leaveStatisticsRepositoryImpl struct {
	s *Store
}

func NewLeaveStatisticsRepository(s *Store) leave.LeaveStatisticsRepository {
	return &leaveStatisticsRepositoryImpl{s: s}
}

func (r *leaveStatisticsRepositoryImpl) FindOrCreate(ctx context.Context, employeeID string, year, month int) (leave.EmployeeLeaveStatistics, error) {
	var out leave.EmployeeLeaveStatistics
	err := r.s.write(ctx, func(d *data) error {
		k := monthKey{employeeID, year, month}
		st, ok := d.leaveStats[k]
		if !ok {
			st = leave.NewStatistics(employeeID, year, month)
			st.ID = newID()
			st.LastUpdated = r.s.now()
			d.leaveStats[k] = st
		}
		out = st
		return nil
	})
	return out, err
}

func (r *leaveStatisticsRepositoryImpl) Save(ctx context.Context, st leave.EmployeeLeaveStatistics) error {
	return r.s.write(ctx, func(d *data) error {
		d.leaveStats[monthKey{st.EmployeeID, st.Year, st.Month}] = st
		return nil
	})
}

func (r *leaveStatisticsRepositoryImpl) Find(ctx context.Context, employeeID string, year, month int) (leave.EmployeeLeaveStatistics, error) {
	var out leave.EmployeeLeaveStatistics
	err := r.s.read(func(d *data) error {
		st, ok := d.leaveStats[monthKey{employeeID, year, month}]
		if !ok {
			return leave.ErrStatisticsNotFound
		}
		out = st
		return nil
	})
	return out, err
}
