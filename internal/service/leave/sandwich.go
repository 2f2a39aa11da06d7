package leave

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/calendar"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// gap is an inclusive run of dates between two leave blocks.
type gap struct {
	from, to time.Time
}

// sandwichGaps lists the 1 to 3 day gaps between lr and the approved requests
// around it.
func (s *LeaveServiceImpl) sandwichGaps(ctx context.Context, lr leave.LeaveRequest) ([]gap, error) {
	neighbours, err := s.LeaveRequestRepository.ListApprovedInRange(ctx, lr.EmployeeID,
		lr.FromDate.AddDate(0, 0, -sandwichReach), lr.ToDate.AddDate(0, 0, sandwichReach))
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave: %w", err)
	}

	var gaps []gap
	for _, other := range neighbours {
		if other.ID == lr.ID {
			continue
		}
		if before := calendar.DaysInclusive(other.ToDate, lr.FromDate) - 2; before >= 1 && before < sandwichReach {
			gaps = append(gaps, gap{from: other.ToDate.AddDate(0, 0, 1), to: lr.FromDate.AddDate(0, 0, -1)})
		}
		if after := calendar.DaysInclusive(lr.ToDate, other.FromDate) - 2; after >= 1 && after < sandwichReach {
			gaps = append(gaps, gap{from: lr.ToDate.AddDate(0, 0, 1), to: other.FromDate.AddDate(0, 0, -1)})
		}
	}
	return gaps, nil
}

// detectSandwich flags every holiday of an all-holiday gap next to lr as an
// unpaid sandwich day of lr. A date already flagged for the employee is skipped.
func (s *LeaveServiceImpl) detectSandwich(ctx context.Context, lr *leave.LeaveRequest) error {
	gaps, err := s.sandwichGaps(ctx, *lr)
	if err != nil {
		return err
	}

	for _, g := range gaps {
		holidays, err := s.HolidayRepository.ListBetween(ctx, g.from, g.to)
		if err != nil {
			return fmt.Errorf("failed to list holidays: %w", err)
		}
		if len(holidays) != calendar.DaysInclusive(g.from, g.to) {
			continue
		}
		for _, h := range holidays {
			if err := s.flagSandwich(ctx, lr, calendar.DateOf(h.Date)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *LeaveServiceImpl) flagSandwich(ctx context.Context, lr *leave.LeaveRequest, date time.Time) error {
	existing, err := s.days.FindSandwich(ctx, lr.EmployeeID, date)
	if err != nil {
		return fmt.Errorf("failed to find sandwich day: %w", err)
	}
	if existing != nil {
		return nil
	}

	idx := slices.IndexFunc(lr.Days, func(d leave.LeaveRequestDay) bool { return d.Date.Equal(date) })
	if idx >= 0 {
		day := lr.Days[idx]
		day.PayCategory = leave.PayCategoryUnpaid
		day.SandwichFlag = true
		if err := s.days.Update(ctx, day); err != nil {
			return fmt.Errorf("failed to update leave request day: %w", err)
		}
		lr.Days[idx] = day
	} else {
		day := leave.LeaveRequestDay{
			ID:             uuid.Must(uuid.NewV7()).String(),
			LeaveRequestID: lr.ID,
			EmployeeID:     lr.EmployeeID,
			Date:           date,
			PayCategory:    leave.PayCategoryUnpaid,
			SandwichFlag:   true,
		}
		if err := s.days.CreateBatch(ctx, []leave.LeaveRequestDay{day}); err != nil {
			return fmt.Errorf("failed to create sandwich day: %w", err)
		}
		lr.Days = append(lr.Days, day)
		slices.SortFunc(lr.Days, func(a, b leave.LeaveRequestDay) int { return a.Date.Compare(b.Date) })
	}

	return s.updateStats(ctx, lr.EmployeeID, date, func(st *leave.EmployeeLeaveStatistics) {
		st.SandwichLeaveCount++
	})
}

// releaseSandwich clears the sandwich flags of a rejected request so the
// holidays can be flagged again between other approved leave.
func (s *LeaveServiceImpl) releaseSandwich(ctx context.Context, lr *leave.LeaveRequest) error {
	for i := range lr.Days {
		day := &lr.Days[i]
		if !day.SandwichFlag {
			continue
		}
		day.SandwichFlag = false
		if err := s.days.Update(ctx, *day); err != nil {
			return fmt.Errorf("failed to update leave request day: %w", err)
		}
		if err := s.updateStats(ctx, lr.EmployeeID, day.Date, func(st *leave.EmployeeLeaveStatistics) {
			st.SandwichLeaveCount = max(0, st.SandwichLeaveCount-1)
		}); err != nil {
			return err
		}
	}
	return nil
}

// releaseBoundedSandwich drops the sandwich days other requests hold in the
// gaps lr bounded, once lr is no longer approved. The owner's unpaid count
// loses the day with it.
func (s *LeaveServiceImpl) releaseBoundedSandwich(ctx context.Context, lr leave.LeaveRequest) error {
	gaps, err := s.sandwichGaps(ctx, lr)
	if err != nil {
		return err
	}

	for _, g := range gaps {
		days, err := s.days.ListSandwichInRange(ctx, lr.EmployeeID, g.from, g.to)
		if err != nil {
			return fmt.Errorf("failed to list sandwich days: %w", err)
		}
		for _, day := range days {
			if day.LeaveRequestID == lr.ID {
				continue
			}
			owner, err := s.LeaveRequestRepository.GetByID(ctx, day.LeaveRequestID)
			if err != nil {
				return fmt.Errorf("failed to get sandwich owner: %w", err)
			}
			if err := s.days.Delete(ctx, day.ID); err != nil {
				return fmt.Errorf("failed to delete sandwich day: %w", err)
			}

			if owner.Status == leave.LeaveStatusApproved {
				weight := owner.DayWeight()
				if err := s.updateStats(ctx, owner.EmployeeID, owner.FromDate, func(st *leave.EmployeeLeaveStatistics) {
					st.UnpaidLeaveCount = decimal.Max(decimal.Zero, st.UnpaidLeaveCount.Sub(weight))
				}); err != nil {
					return err
				}
			}
			if err := s.updateStats(ctx, lr.EmployeeID, day.Date, func(st *leave.EmployeeLeaveStatistics) {
				st.SandwichLeaveCount = max(0, st.SandwichLeaveCount-1)
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetSandwichLeaves implements leave.LeaveService.
func (s *LeaveServiceImpl) GetSandwichLeaves(ctx context.Context, employeeID string, from, to time.Time) ([]leave.LeaveRequestDay, error) {
	days, err := s.days.ListSandwichInRange(ctx, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list sandwich days: %w", err)
	}
	return days, nil
}

// GetSandwichLeavesWithContext implements leave.LeaveService. Each day comes
// with the nearest leave on either side; the owning request counts as a side
// even while it is pending.
func (s *LeaveServiceImpl) GetSandwichLeavesWithContext(ctx context.Context, employeeID string, from, to time.Time) ([]leave.SandwichContext, error) {
	days, err := s.GetSandwichLeaves(ctx, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return []leave.SandwichContext{}, nil
	}

	around, err := s.LeaveRequestRepository.ListApprovedInRange(ctx, employeeID,
		from.AddDate(0, 0, -sandwichReach), to.AddDate(0, 0, sandwichReach))
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave: %w", err)
	}
	holidays, err := s.HolidayRepository.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	names := make(map[string]string, len(holidays))
	for _, h := range holidays {
		names[calendar.FormatDate(h.Date)] = h.Name
	}

	out := make([]leave.SandwichContext, 0, len(days))
	for _, day := range days {
		candidates := around
		if !slices.ContainsFunc(around, func(r leave.LeaveRequest) bool { return r.ID == day.LeaveRequestID }) {
			owner, err := s.LeaveRequestRepository.GetByID(ctx, day.LeaveRequestID)
			if err != nil {
				return nil, fmt.Errorf("failed to get leave request: %w", err)
			}
			candidates = append(slices.Clone(around), owner)
		}

		prev, next := adjacentLeave(candidates, day.Date)
		date := calendar.FormatDate(day.Date)
		item := leave.SandwichContext{
			Date:           date,
			LeaveRequestID: day.LeaveRequestID,
			HolidayName:    names[date],
			PreviousLeave:  prev,
			NextLeave:      next,
		}
		if prev != nil && next != nil {
			item.Message = fmt.Sprintf("%s is counted as a sandwich leave between your leave ending %s and your leave starting %s.", date, prev.ToDate, next.FromDate)
		} else {
			item.Message = fmt.Sprintf("%s is counted as a sandwich leave.", date)
		}
		out = append(out, item)
	}
	return out, nil
}

// adjacentLeave picks the latest request ending before date and the earliest
// starting after it.
func adjacentLeave(requests []leave.LeaveRequest, date time.Time) (prev, next *leave.LeaveSummary) {
	var before, after *leave.LeaveRequest
	for i := range requests {
		r := &requests[i]
		if r.ToDate.Before(date) && (before == nil || r.ToDate.After(before.ToDate)) {
			before = r
		}
		if r.FromDate.After(date) && (after == nil || r.FromDate.Before(after.FromDate)) {
			after = r
		}
	}
	return summarize(before), summarize(after)
}

func summarize(r *leave.LeaveRequest) *leave.LeaveSummary {
	if r == nil {
		return nil
	}
	return &leave.LeaveSummary{
		ID:       r.ID,
		FromDate: calendar.FormatDate(r.FromDate),
		ToDate:   calendar.FormatDate(r.ToDate),
		Type:     r.LeaveType,
	}
}
