package overtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/notification"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/database"
	"github.com/google/uuid"
)

type OvertimeServiceImpl struct {
	tx database.Transactor
	overtime.OvertimeRepository
	employee.EmployeeRepository
	attendance.AttendanceRepository
	notifier notification.Sink
	now      func() time.Time
}

func NewOvertimeService(
	tx database.Transactor,
	overtimeRepository overtime.OvertimeRepository,
	employeeRepository employee.EmployeeRepository,
	attendanceRepository attendance.AttendanceRepository,
	notifier notification.Sink,
) *OvertimeServiceImpl {
	return &OvertimeServiceImpl{
		tx:                   tx,
		OvertimeRepository:   overtimeRepository,
		EmployeeRepository:   employeeRepository,
		AttendanceRepository: attendanceRepository,
		notifier:             notifier,
		now:                  time.Now,
	}
}

var _ overtime.OvertimeService = (*OvertimeServiceImpl)(nil)

func lockKey(employeeID string, date time.Time) string {
	return database.LockKey("overtime", employeeID, calendar.FormatDate(date))
}

// RequestOvertime implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) RequestOvertime(ctx context.Context, req overtime.RequestOvertimeRequest) (overtime.Overtime, error) {
	if err := req.Validate(); err != nil {
		return overtime.Overtime{}, err
	}
	if _, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID); err != nil {
		return overtime.Overtime{}, fmt.Errorf("failed to get employee: %w", err)
	}

	created, err := s.OvertimeRepository.Create(ctx, overtime.Overtime{
		ID:         uuid.Must(uuid.NewV7()).String(),
		EmployeeID: req.EmployeeID,
		Date:       req.ParsedDate,
		Type:       req.Type,
		Status:     overtime.StatusPending,
		Reason:     req.Reason,
	})
	if err != nil {
		return overtime.Overtime{}, fmt.Errorf("failed to create overtime request: %w", err)
	}

	s.notifier.Notify(ctx, notification.RecipientAdmin, notification.TypeOvertimeRequestSubmitted, notification.Payload{
		Title:             "Overtime request submitted",
		Message:           fmt.Sprintf("Overtime requested for %s", calendar.FormatDate(created.Date)),
		RelatedEntityType: "OVERTIME",
		RelatedEntityID:   created.ID,
		Data:              map[string]any{"employee_id": created.EmployeeID},
	})
	return created, nil
}

// Approve implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) Approve(ctx context.Context, req overtime.DecisionRequest) (overtime.Overtime, error) {
	if req.Type != nil {
		t := overtime.Type(strings.ToUpper(string(*req.Type)))
		req.Type = &t
	}
	if req.Type != nil && !req.Type.IsValid() {
		return overtime.Overtime{}, fmt.Errorf("%w: type must be PENDING_OT or INCENTIVE_OT", overtime.ErrInvalidOvertime)
	}
	return s.decide(ctx, req, overtime.StatusApproved)
}

// Reject implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) Reject(ctx context.Context, req overtime.DecisionRequest) (overtime.Overtime, error) {
	req.Type = nil
	return s.decide(ctx, req, overtime.StatusRejected)
}

func (s *OvertimeServiceImpl) decide(ctx context.Context, req overtime.DecisionRequest, status overtime.Status) (overtime.Overtime, error) {
	current, err := s.OvertimeRepository.GetByID(ctx, req.ID)
	if err != nil {
		return overtime.Overtime{}, err
	}

	var decided overtime.Overtime
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		o, err := s.OvertimeRepository.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if o.Status != overtime.StatusPending {
			return overtime.ErrOvertimeNotPending
		}

		now := s.now()
		o.Status = status
		o.ActionBy = &req.ActionBy
		o.ActionAt = &now
		if req.Type != nil {
			o.Type = *req.Type
		}
		if err := s.OvertimeRepository.Update(ctx, o); err != nil {
			return fmt.Errorf("failed to update overtime: %w", err)
		}

		if status == overtime.StatusApproved {
			o, err = s.creditFromAttendance(ctx, o)
			if err != nil {
				return err
			}
		}
		decided = o
		return nil
	}, lockKey(current.EmployeeID, current.Date))
	if err != nil {
		return overtime.Overtime{}, err
	}

	notifType := notification.TypeOvertimeRequestApproved
	title := "Overtime approved"
	if status == overtime.StatusRejected {
		notifType = notification.TypeOvertimeRequestRejected
		title = "Overtime rejected"
	}
	s.notifier.Notify(ctx, decided.EmployeeID, notifType, notification.Payload{
		Title:             title,
		Message:           fmt.Sprintf("Your overtime for %s was %s", calendar.FormatDate(decided.Date), status),
		RelatedEntityType: "OVERTIME",
		RelatedEntityID:   decided.ID,
	})
	return decided, nil
}

// AllocateOvertimeAdmin implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) AllocateOvertimeAdmin(ctx context.Context, req overtime.AllocateRequest) (overtime.Overtime, error) {
	if err := req.Validate(); err != nil {
		return overtime.Overtime{}, err
	}

	emp, err := s.resolveEmployee(ctx, req.EmployeeID, req.EmployeeName)
	if err != nil {
		return overtime.Overtime{}, err
	}

	var allocated overtime.Overtime
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		o := overtime.Overtime{
			ID:         uuid.Must(uuid.NewV7()).String(),
			EmployeeID: emp.ID,
			Date:       req.ParsedDate,
			Type:       req.Type,
			Status:     req.Status,
			Reason:     req.Reason,
		}
		if req.AllocatedBy != "" {
			o.AllocatedBy = &req.AllocatedBy
			if req.Status != overtime.StatusPending {
				now := s.now()
				o.ActionBy = &req.AllocatedBy
				o.ActionAt = &now
			}
		}

		created, err := s.OvertimeRepository.Create(ctx, o)
		if err != nil {
			return err
		}
		if created.Status == overtime.StatusApproved {
			created, err = s.creditFromAttendance(ctx, created)
			if err != nil {
				return err
			}
		}
		allocated = created
		return nil
	}, lockKey(emp.ID, req.ParsedDate))
	if err != nil {
		return overtime.Overtime{}, err
	}
	return allocated, nil
}

func (s *OvertimeServiceImpl) resolveEmployee(ctx context.Context, id, name string) (employee.Employee, error) {
	if id != "" {
		return s.EmployeeRepository.GetByID(ctx, id)
	}
	return s.EmployeeRepository.GetByFullName(ctx, name)
}

// BulkAllocate implements overtime.OvertimeService. Employees that fail are
// reported and skipped.
func (s *OvertimeServiceImpl) BulkAllocate(ctx context.Context, req overtime.BulkAllocateRequest) (overtime.BulkAllocationResult, error) {
	if err := req.Validate(); err != nil {
		return overtime.BulkAllocationResult{}, err
	}
	return s.allocateMany(ctx, req.EmployeeIDs, req.Date, req.Type, req.AllocatedBy), nil
}

// AllocateToDepartment implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) AllocateToDepartment(ctx context.Context, req overtime.DepartmentAllocateRequest) (overtime.BulkAllocationResult, error) {
	if err := req.Validate(); err != nil {
		return overtime.BulkAllocationResult{}, err
	}

	employees, err := s.EmployeeRepository.ListByDepartment(ctx, req.Department)
	if err != nil {
		return overtime.BulkAllocationResult{}, fmt.Errorf("failed to list department employees: %w", err)
	}
	ids := make([]string, len(employees))
	for i, e := range employees {
		ids[i] = e.ID
	}
	return s.allocateMany(ctx, ids, req.Date, req.Type, req.AllocatedBy), nil
}

func (s *OvertimeServiceImpl) allocateMany(ctx context.Context, employeeIDs []string, date string, otType overtime.Type, allocatedBy string) overtime.BulkAllocationResult {
	result := overtime.BulkAllocationResult{
		Allocated: []overtime.OvertimeResponse{},
		Failed:    []overtime.AllocationFailure{},
	}
	for _, id := range employeeIDs {
		o, err := s.AllocateOvertimeAdmin(ctx, overtime.AllocateRequest{
			EmployeeID:  id,
			Date:        date,
			Type:        otType,
			Status:      overtime.StatusApproved,
			AllocatedBy: allocatedBy,
		})
		if err != nil {
			slog.Warn("overtime allocation skipped", "employee_id", id, "date", date, "error", err)
			result.Failed = append(result.Failed, overtime.AllocationFailure{EmployeeID: id, Reason: err.Error()})
			continue
		}
		result.Allocated = append(result.Allocated, overtime.ToResponse(o))
	}
	return result
}

// UpdateAllocation implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) UpdateAllocation(ctx context.Context, req overtime.UpdateAllocationRequest) (overtime.Overtime, error) {
	if err := req.Validate(); err != nil {
		return overtime.Overtime{}, err
	}
	current, err := s.OvertimeRepository.GetByID(ctx, req.ID)
	if err != nil {
		return overtime.Overtime{}, err
	}

	var updated overtime.Overtime
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		o, err := s.OvertimeRepository.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if o.IsPaidOut {
			typeChanged := req.Type != nil && *req.Type != o.Type
			statusChanged := req.Status != nil && *req.Status != o.Status
			if typeChanged || statusChanged {
				return overtime.ErrOvertimePaidOut
			}
		}
		if req.Type != nil {
			o.Type = *req.Type
		}
		if req.Status != nil {
			o.Status = *req.Status
		}
		if err := s.OvertimeRepository.Update(ctx, o); err != nil {
			return fmt.Errorf("failed to update overtime: %w", err)
		}
		if o.Status == overtime.StatusApproved {
			o, err = s.creditFromAttendance(ctx, o)
			if err != nil {
				return err
			}
		}
		updated = o
		return nil
	}, lockKey(current.EmployeeID, current.Date))
	if err != nil {
		return overtime.Overtime{}, err
	}
	return updated, nil
}

// DeleteAllocation implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) DeleteAllocation(ctx context.Context, id string) error {
	o, err := s.OvertimeRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if o.IsPaidOut {
		return overtime.ErrOvertimePaidOut
	}
	return s.OvertimeRepository.Delete(ctx, id)
}

// GetAllocations implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) GetAllocations(ctx context.Context, filter overtime.OvertimeFilter) ([]overtime.Overtime, error) {
	items, err := s.OvertimeRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list overtime: %w", err)
	}
	return items, nil
}

// UpdateOTStatsAfterPunchOut implements overtime.OvertimeService.
func (s *OvertimeServiceImpl) UpdateOTStatsAfterPunchOut(ctx context.Context, employeeID string, date time.Time, hoursWorked float64) (bool, error) {
	var credited bool
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		o, err := s.OvertimeRepository.FindByEmployeeAndDate(ctx, employeeID, date)
		if errors.Is(err, overtime.ErrOvertimeNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to find overtime: %w", err)
		}

		before := o.IsPaidOut
		o, err = s.credit(ctx, o, hoursWorked)
		if err != nil {
			return err
		}
		credited = !before && o.IsPaidOut
		return nil
	}, lockKey(employeeID, date))
	return credited, err
}

// creditFromAttendance credits o when the day's attendance is already closed.
func (s *OvertimeServiceImpl) creditFromAttendance(ctx context.Context, o overtime.Overtime) (overtime.Overtime, error) {
	a, err := s.AttendanceRepository.FindByEmployeeAndDate(ctx, o.EmployeeID, o.Date)
	if errors.Is(err, attendance.ErrAttendanceNotFound) {
		return o, nil
	}
	if err != nil {
		return o, fmt.Errorf("failed to get attendance: %w", err)
	}
	if a.PunchOut == nil {
		return o, nil
	}
	return s.credit(ctx, o, a.HoursWorked)
}

// credit adds one day to the employee's counter for o's type. IsPaidOut guards
// against a second credit. The caller holds o's lock.
func (s *OvertimeServiceImpl) credit(ctx context.Context, o overtime.Overtime, hoursWorked float64) (overtime.Overtime, error) {
	if o.Status != overtime.StatusApproved || o.IsPaidOut || hoursWorked < overtime.MinCreditHours {
		return o, nil
	}

	pending, incentive := 0, 0
	switch o.Type {
	case overtime.TypeIncentiveOT:
		incentive = 1
	default:
		pending = 1
	}
	if err := s.EmployeeRepository.AddOvertimeCredit(ctx, o.EmployeeID, pending, incentive); err != nil {
		return o, fmt.Errorf("failed to credit overtime: %w", err)
	}

	o.IsPaidOut = true
	if err := s.OvertimeRepository.Update(ctx, o); err != nil {
		return o, fmt.Errorf("failed to mark overtime paid out: %w", err)
	}

	slog.Info("overtime credited", "employee_id", o.EmployeeID, "date", calendar.FormatDate(o.Date), "type", o.Type, "hours_worked", hoursWorked)
	return o, nil
}
