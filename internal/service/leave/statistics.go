package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/leave"
	"github.com/shopspring/decimal"
)

// recordSubmission counts a new request in the month of its from date.
func (s *LeaveServiceImpl) recordSubmission(ctx context.Context, lr leave.LeaveRequest) error {
	err := s.updateStats(ctx, lr.EmployeeID, lr.FromDate, func(st *leave.EmployeeLeaveStatistics) {
		st.TotalLeaveRequests++
		if lr.ManualOverride {
			st.ManualOverrideCount++
		}
	})
	if err != nil {
		return err
	}
	return s.applyStatusContribution(ctx, lr, 1)
}

// applyStatusContribution adds (sign 1) or removes (sign -1) what lr's current
// status contributes to the statistics of its from-date month. A transition
// removes the old status and adds the new one.
func (s *LeaveServiceImpl) applyStatusContribution(ctx context.Context, lr leave.LeaveRequest, sign int) error {
	return s.updateStats(ctx, lr.EmployeeID, lr.FromDate, func(st *leave.EmployeeLeaveStatistics) {
		switch lr.Status {
		case leave.LeaveStatusPending:
			st.PendingLeaveCount = max(0, st.PendingLeaveCount+sign)
		case leave.LeaveStatusRejected:
			st.RejectedLeaveCount = max(0, st.RejectedLeaveCount+sign)
		case leave.LeaveStatusApproved:
			c := approvedContribution(lr)
			d := decimal.NewFromInt(int64(sign))
			st.TotalLeavesApproved = st.TotalLeavesApproved.Add(c.total.Mul(d))
			st.PaidLeaveCount = st.PaidLeaveCount.Add(c.paid.Mul(d))
			st.UnpaidLeaveCount = st.UnpaidLeaveCount.Add(c.unpaid.Mul(d))
			if lr.DayType == leave.DayTypeHalf {
				st.HalfDayLeavesApproved = max(0, st.HalfDayLeavesApproved+sign)
			} else {
				st.FullDayLeavesApproved = max(0, st.FullDayLeavesApproved+sign)
			}
		}
	})
}

type contribution struct {
	total, paid, unpaid decimal.Decimal
}

func approvedContribution(lr leave.LeaveRequest) contribution {
	weight := lr.DayWeight()
	c := contribution{total: decimal.Zero, paid: decimal.Zero, unpaid: decimal.Zero}
	if lr.LeaveDays != nil {
		c.total = weight.Mul(decimal.NewFromInt(int64(*lr.LeaveDays)))
	}
	for _, day := range lr.Days {
		if day.PayCategory == leave.PayCategoryPaid {
			c.paid = c.paid.Add(weight)
		} else {
			c.unpaid = c.unpaid.Add(weight)
		}
	}
	return c
}

// updateStats applies fn to the month row containing date. The row is read
// with FindOrCreate so it stays locked until the surrounding transaction ends.
func (s *LeaveServiceImpl) updateStats(ctx context.Context, employeeID string, date time.Time, fn func(st *leave.EmployeeLeaveStatistics)) error {
	st, err := s.stats.FindOrCreate(ctx, employeeID, date.Year(), int(date.Month()))
	if err != nil {
		return fmt.Errorf("failed to load leave statistics: %w", err)
	}

	fn(&st)

	remaining := decimal.NewFromInt(leave.MonthlyPaidDays).Sub(st.PaidLeaveCount)
	st.LeavesRemaining = decimal.Max(decimal.Zero, remaining)
	st.LastUpdated = s.now()

	if err := s.stats.Save(ctx, st); err != nil {
		return fmt.Errorf("failed to save leave statistics: %w", err)
	}
	return nil
}
