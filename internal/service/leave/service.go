package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/notification"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/database"
	"github.com/google/uuid"
)

// sandwichReach is the widest gap, in days, a sandwich may bridge plus one.
const sandwichReach = 4

type LeaveServiceImpl struct {
	tx database.Transactor
	leave.LeaveRequestRepository
	days  leave.LeaveRequestDayRepository
	stats leave.LeaveStatisticsRepository
	holiday.HolidayRepository
	employee.EmployeeRepository
	notifier notification.Sink
	now      func() time.Time
}

func NewLeaveService(
	tx database.Transactor,
	leaveRequestRepository leave.LeaveRequestRepository,
	leaveRequestDayRepository leave.LeaveRequestDayRepository,
	leaveStatisticsRepository leave.LeaveStatisticsRepository,
	holidayRepository holiday.HolidayRepository,
	employeeRepository employee.EmployeeRepository,
	notifier notification.Sink,
) *LeaveServiceImpl {
	return &LeaveServiceImpl{
		tx:                     tx,
		LeaveRequestRepository: leaveRequestRepository,
		days:                   leaveRequestDayRepository,
		stats:                  leaveStatisticsRepository,
		HolidayRepository:      holidayRepository,
		EmployeeRepository:     employeeRepository,
		notifier:               notifier,
		now:                    time.Now,
	}
}

var _ leave.LeaveService = (*LeaveServiceImpl)(nil)

// lockKeys covers every month a request can touch, including the holiday gaps
// sandwich detection may flag on either side.
func lockKeys(employeeID string, from, to time.Time) []string {
	start := calendar.MonthStart(from.AddDate(0, 0, -sandwichReach))
	end := to.AddDate(0, 0, sandwichReach)

	var keys []string
	for m := start; !m.After(end); m = m.AddDate(0, 1, 0) {
		keys = append(keys, database.LockKey("leave", employeeID, calendar.MonthKey(m)))
	}
	return keys
}

// ApplyForLeave implements leave.LeaveService.
func (s *LeaveServiceImpl) ApplyForLeave(ctx context.Context, req leave.ApplyLeaveRequest) (leave.LeaveRequest, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequest{}, err
	}
	if _, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID); err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if err := validateRange(&req); err != nil {
		return leave.LeaveRequest{}, err
	}

	var created leave.LeaveRequest
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		overlapping, err := s.LeaveRequestRepository.CheckOverlapping(ctx, req.EmployeeID, req.From, req.To)
		if err != nil {
			return fmt.Errorf("failed to check overlapping leave: %w", err)
		}
		if overlapping {
			return leave.ErrOverlappingLeave
		}

		leaveDays := calendar.DaysInclusive(req.From, req.To)
		lr := leave.LeaveRequest{
			ID:             uuid.Must(uuid.NewV7()).String(),
			EmployeeID:     req.EmployeeID,
			FromDate:       req.From,
			ToDate:         req.To,
			LeaveType:      req.LeaveType,
			Status:         leave.LeaveStatusPending,
			DayType:        req.DayType,
			HalfDaySession: req.HalfDaySession,
			ManualOverride: req.ManualOverride,
			Reason:         req.Reason,
			LeaveDays:      &leaveDays,
		}

		if lr.LeaveType.QualifiesForPaidQuota() && !lr.ManualOverride {
			approved, err := s.LeaveRequestRepository.CountApprovedQuotaRequestsInMonth(ctx, lr.EmployeeID, lr.FromDate.Year(), int(lr.FromDate.Month()))
			if err != nil {
				return fmt.Errorf("failed to count approved leave: %w", err)
			}
			if approved >= leave.MonthlyPaidDays {
				lr.ManualOverride = true
			}
		}

		lr, err = s.LeaveRequestRepository.Create(ctx, lr)
		if err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}

		if lr.Days, err = s.materializeDays(ctx, lr); err != nil {
			return err
		}
		if err := s.detectSandwich(ctx, &lr); err != nil {
			return err
		}

		if err := s.recordSubmission(ctx, lr); err != nil {
			return err
		}
		created = lr
		return nil
	}, lockKeys(req.EmployeeID, req.From, req.To)...)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	slog.Info("leave applied", "leave_request_id", created.ID, "employee_id", created.EmployeeID, "days", len(created.Days), "manual_override", created.ManualOverride)

	s.notifier.Notify(ctx, notification.RecipientAdmin, notification.TypeLeaveRequestSubmitted, notification.Payload{
		Title:             "Leave request submitted",
		Message:           fmt.Sprintf("%s leave requested from %s to %s", created.LeaveType, calendar.FormatDate(created.FromDate), calendar.FormatDate(created.ToDate)),
		RelatedEntityType: "LEAVE_REQUEST",
		RelatedEntityID:   created.ID,
		Data:              map[string]any{"employee_id": created.EmployeeID},
	})
	return created, nil
}

func validateRange(req *leave.ApplyLeaveRequest) error {
	if req.From.After(req.To) {
		return fmt.Errorf("%w: from_date must not be after to_date", leave.ErrInvalidLeaveRequest)
	}
	singleDay := req.From.Equal(req.To)
	if req.DayType == leave.DayTypeHalf {
		if !singleDay {
			return fmt.Errorf("%w: half day leave can only be applied for a single day", leave.ErrInvalidLeaveRequest)
		}
		if req.HalfDaySession == nil {
			return fmt.Errorf("%w: half_day_session is required for half day leave", leave.ErrInvalidLeaveRequest)
		}
	} else {
		req.HalfDaySession = nil
	}
	return nil
}

// materializeDays writes one ledger day per non-holiday date of lr. Paid days
// come greedily from each month's remaining budget.
func (s *LeaveServiceImpl) materializeDays(ctx context.Context, lr leave.LeaveRequest) ([]leave.LeaveRequestDay, error) {
	allowPaid := lr.LeaveType.QualifiesForPaidQuota() && !lr.ManualOverride
	budget := make(map[string]int)

	var days []leave.LeaveRequestDay
	for _, date := range calendar.EachDay(lr.FromDate, lr.ToDate) {
		isHoliday, err := s.HolidayRepository.IsHoliday(ctx, date)
		if err != nil {
			return nil, fmt.Errorf("failed to check holiday: %w", err)
		}
		if isHoliday {
			continue
		}

		category := leave.PayCategoryUnpaid
		if allowPaid {
			month := calendar.MonthKey(date)
			remaining, ok := budget[month]
			if !ok {
				used, err := s.days.CountPaidInMonth(ctx, lr.EmployeeID, date.Year(), int(date.Month()))
				if err != nil {
					return nil, fmt.Errorf("failed to count paid leave days: %w", err)
				}
				remaining = max(0, leave.MonthlyPaidDays-used)
			}
			if remaining > 0 {
				category = leave.PayCategoryPaid
				remaining--
			}
			budget[month] = remaining
		}

		days = append(days, leave.LeaveRequestDay{
			ID:             uuid.Must(uuid.NewV7()).String(),
			LeaveRequestID: lr.ID,
			EmployeeID:     lr.EmployeeID,
			Date:           date,
			PayCategory:    category,
		})
	}

	if len(days) > 0 {
		if err := s.days.CreateBatch(ctx, days); err != nil {
			return nil, fmt.Errorf("failed to create leave request days: %w", err)
		}
	}
	return days, nil
}

// UpdateLeaveStatus implements leave.LeaveService. PENDING moves to APPROVED or
// REJECTED, APPROVED may still be rejected, REJECTED is final.
func (s *LeaveServiceImpl) UpdateLeaveStatus(ctx context.Context, req leave.UpdateLeaveStatusRequest) (leave.LeaveRequest, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequest{}, err
	}
	current, err := s.LeaveRequestRepository.GetByID(ctx, req.ID)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	var updated leave.LeaveRequest
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		lr, err := s.LeaveRequestRepository.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if !canTransition(lr.Status, req.Status) {
			return fmt.Errorf("%w: %s to %s", leave.ErrInvalidStatusTransition, lr.Status, req.Status)
		}
		if lr.Days, err = s.days.ListByRequest(ctx, lr.ID); err != nil {
			return fmt.Errorf("failed to list leave request days: %w", err)
		}

		if err := s.applyStatusContribution(ctx, lr, -1); err != nil {
			return err
		}
		wasApproved := lr.Status == leave.LeaveStatusApproved

		if lr.LeaveDays == nil {
			n := calendar.DaysInclusive(lr.FromDate, lr.ToDate)
			lr.LeaveDays = &n
		}
		now := s.now()
		lr.Status = req.Status
		lr.ApprovedBy = &req.ApprovedBy
		lr.ActionAt = &now
		if err := s.LeaveRequestRepository.Update(ctx, lr); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}

		switch lr.Status {
		case leave.LeaveStatusApproved:
			if err := s.detectSandwich(ctx, &lr); err != nil {
				return err
			}
			if lr.LeaveType == leave.LeaveTypeCompOff {
				if err := s.consumeCompOff(ctx, &lr); err != nil {
					return err
				}
			}
		case leave.LeaveStatusRejected:
			if err := s.releaseSandwich(ctx, &lr); err != nil {
				return err
			}
			if wasApproved {
				if err := s.releaseBoundedSandwich(ctx, lr); err != nil {
					return err
				}
			}
		}

		if err := s.applyStatusContribution(ctx, lr, 1); err != nil {
			return err
		}
		updated = lr
		return nil
	}, lockKeys(current.EmployeeID, current.FromDate, current.ToDate)...)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	slog.Info("leave status updated", "leave_request_id", updated.ID, "status", updated.Status, "approved_by", req.ApprovedBy)

	notifType, title := notification.TypeLeaveRequestApproved, "Leave approved"
	if updated.Status == leave.LeaveStatusRejected {
		notifType, title = notification.TypeLeaveRequestRejected, "Leave rejected"
	}
	s.notifier.Notify(ctx, updated.EmployeeID, notifType, notification.Payload{
		Title:             title,
		Message:           fmt.Sprintf("Your leave from %s to %s was %s", calendar.FormatDate(updated.FromDate), calendar.FormatDate(updated.ToDate), updated.Status),
		RelatedEntityType: "LEAVE_REQUEST",
		RelatedEntityID:   updated.ID,
	})
	return updated, nil
}

func canTransition(from, to leave.LeaveStatus) bool {
	switch from {
	case leave.LeaveStatusPending:
		return to == leave.LeaveStatusApproved || to == leave.LeaveStatusRejected
	case leave.LeaveStatusApproved:
		return to == leave.LeaveStatusRejected
	}
	return false
}

// consumeCompOff spends the employee's pending overtime days on the request's
// working days, one credit per day, while credits last.
func (s *LeaveServiceImpl) consumeCompOff(ctx context.Context, lr *leave.LeaveRequest) error {
	emp, err := s.EmployeeRepository.GetByID(ctx, lr.EmployeeID)
	if err != nil {
		return fmt.Errorf("failed to get employee: %w", err)
	}

	available := emp.PendingOTDays
	used := make(map[string]int)
	for i := range lr.Days {
		day := &lr.Days[i]
		if available == 0 {
			break
		}
		if day.SandwichFlag || day.OTCreditUsed {
			continue
		}
		day.OTCreditUsed = true
		if err := s.days.Update(ctx, *day); err != nil {
			return fmt.Errorf("failed to update leave request day: %w", err)
		}
		available--
		used[calendar.MonthKey(day.Date)]++
	}

	spent := emp.PendingOTDays - available
	if spent == 0 {
		return nil
	}
	if err := s.EmployeeRepository.AddOvertimeCredit(ctx, emp.ID, -spent, 0); err != nil {
		return fmt.Errorf("failed to consume overtime credit: %w", err)
	}
	for _, day := range lr.Days {
		month := calendar.MonthKey(day.Date)
		n, ok := used[month]
		if !ok {
			continue
		}
		delete(used, month)
		if err := s.updateStats(ctx, lr.EmployeeID, day.Date, func(st *leave.EmployeeLeaveStatistics) {
			st.CompOffUsed += n
		}); err != nil {
			return err
		}
	}
	return nil
}

// GetLeaveRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) GetLeaveRequest(ctx context.Context, id string) (leave.LeaveRequest, error) {
	lr, err := s.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if lr.Days, err = s.days.ListByRequest(ctx, id); err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to list leave request days: %w", err)
	}
	return lr, nil
}

// GetEmployeeLeaves implements leave.LeaveService.
func (s *LeaveServiceImpl) GetEmployeeLeaves(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	requests, err := s.LeaveRequestRepository.ListByEmployee(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return requests, nil
}

// GetLeaveRequestDays implements leave.LeaveService.
func (s *LeaveServiceImpl) GetLeaveRequestDays(ctx context.Context, leaveRequestID string) ([]leave.LeaveRequestDay, error) {
	if _, err := s.LeaveRequestRepository.GetByID(ctx, leaveRequestID); err != nil {
		return nil, err
	}
	return s.days.ListByRequest(ctx, leaveRequestID)
}

// GetEmployeeLeaveStats implements leave.LeaveService. A month without activity
// reports the zero row.
func (s *LeaveServiceImpl) GetEmployeeLeaveStats(ctx context.Context, employeeID string, year, month int) (leave.EmployeeLeaveStatistics, error) {
	st, err := s.stats.Find(ctx, employeeID, year, month)
	if errors.Is(err, leave.ErrStatisticsNotFound) {
		return leave.NewStatistics(employeeID, year, month), nil
	}
	if err != nil {
		return leave.EmployeeLeaveStatistics{}, fmt.Errorf("failed to get leave statistics: %w", err)
	}
	return st, nil
}
