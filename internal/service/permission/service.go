package permission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/notification"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/permission"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/policy"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/database"
	attendanceService "github.com/cmlabs-hris/hris-policy-engine/internal/service/attendance"
	"github.com/google/uuid"
)

type PermissionServiceImpl struct {
	tx database.Transactor
	permission.PermissionRepository
	attendance.AttendanceRepository
	employee.EmployeeRepository
	policies policy.PolicyService
	overtime attendanceService.OvertimeCreditor
	notifier notification.Sink
	loc      *time.Location
	now      func() time.Time
}

func NewPermissionService(
	tx database.Transactor,
	permissionRepository permission.PermissionRepository,
	attendanceRepository attendance.AttendanceRepository,
	employeeRepository employee.EmployeeRepository,
	policies policy.PolicyService,
	overtime attendanceService.OvertimeCreditor,
	notifier notification.Sink,
	loc *time.Location,
) *PermissionServiceImpl {
	if loc == nil {
		loc = time.UTC
	}
	return &PermissionServiceImpl{
		tx:                   tx,
		PermissionRepository: permissionRepository,
		AttendanceRepository: attendanceRepository,
		EmployeeRepository:   employeeRepository,
		policies:             policies,
		overtime:             overtime,
		notifier:             notifier,
		loc:                  loc,
		now:                  time.Now,
	}
}

var _ permission.PermissionService = (*PermissionServiceImpl)(nil)

// Create implements permission.PermissionService.
func (s *PermissionServiceImpl) Create(ctx context.Context, req permission.CreatePermissionRequest) (permission.PermissionHours, error) {
	if err := req.Validate(); err != nil {
		return permission.PermissionHours{}, err
	}
	if _, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID); err != nil {
		return permission.PermissionHours{}, fmt.Errorf("failed to get employee: %w", err)
	}

	created, err := s.PermissionRepository.Create(ctx, permission.PermissionHours{
		ID:          uuid.Must(uuid.NewV7()).String(),
		EmployeeID:  req.EmployeeID,
		Date:        req.ParsedDate,
		FromTime:    req.From,
		ToTime:      req.To,
		Reason:      req.Reason,
		Status:      permission.StatusPending,
		RequestedAt: s.now(),
	})
	if err != nil {
		return permission.PermissionHours{}, fmt.Errorf("failed to create permission hours request: %w", err)
	}

	s.notifier.Notify(ctx, notification.RecipientAdmin, notification.TypePermissionRequestSubmitted, notification.Payload{
		Title:             "Permission hours requested",
		Message:           fmt.Sprintf("Permission hours requested for %s, %s to %s", calendar.FormatDate(created.Date), created.FromTime, created.ToTime),
		RelatedEntityType: "PERMISSION_HOURS",
		RelatedEntityID:   created.ID,
		Data:              map[string]any{"employee_id": created.EmployeeID},
	})
	return created, nil
}

// Update implements permission.PermissionService. Only pending requests change.
func (s *PermissionServiceImpl) Update(ctx context.Context, req permission.UpdatePermissionRequest) (permission.PermissionHours, error) {
	if err := req.Validate(); err != nil {
		return permission.PermissionHours{}, err
	}

	p, err := s.pending(ctx, req.ID)
	if err != nil {
		return permission.PermissionHours{}, err
	}

	if req.Date != nil {
		p.Date, _ = calendar.ParseDate(*req.Date)
	}
	if req.FromTime != nil {
		p.FromTime, _ = calendar.ParseTimeOfDay(*req.FromTime)
	}
	if req.ToTime != nil {
		p.ToTime, _ = calendar.ParseTimeOfDay(*req.ToTime)
	}
	if req.Reason != nil {
		p.Reason = *req.Reason
	}
	if !p.FromTime.Before(p.ToTime) {
		return permission.PermissionHours{}, permission.ErrInvalidWindow
	}

	if err := s.PermissionRepository.Update(ctx, p); err != nil {
		return permission.PermissionHours{}, fmt.Errorf("failed to update permission hours request: %w", err)
	}
	return p, nil
}

// Delete implements permission.PermissionService.
func (s *PermissionServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := s.pending(ctx, id); err != nil {
		return err
	}
	return s.PermissionRepository.Delete(ctx, id)
}

func (s *PermissionServiceImpl) pending(ctx context.Context, id string) (permission.PermissionHours, error) {
	p, err := s.PermissionRepository.GetByID(ctx, id)
	if err != nil {
		return permission.PermissionHours{}, err
	}
	if p.Status != permission.StatusPending {
		return permission.PermissionHours{}, permission.ErrPermissionNotPending
	}
	return p, nil
}

// Get implements permission.PermissionService.
func (s *PermissionServiceImpl) Get(ctx context.Context, id string) (permission.PermissionHours, error) {
	return s.PermissionRepository.GetByID(ctx, id)
}

// List implements permission.PermissionService.
func (s *PermissionServiceImpl) List(ctx context.Context, filter permission.PermissionFilter) ([]permission.PermissionHours, error) {
	items, err := s.PermissionRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list permission hours requests: %w", err)
	}
	return items, nil
}

// Approve implements permission.PermissionService.
func (s *PermissionServiceImpl) Approve(ctx context.Context, req permission.DecisionRequest) (permission.PermissionHours, error) {
	return s.decide(ctx, req, permission.StatusApproved)
}

// Reject implements permission.PermissionService.
func (s *PermissionServiceImpl) Reject(ctx context.Context, req permission.DecisionRequest) (permission.PermissionHours, error) {
	return s.decide(ctx, req, permission.StatusRejected)
}

func (s *PermissionServiceImpl) decide(ctx context.Context, req permission.DecisionRequest, status permission.Status) (permission.PermissionHours, error) {
	current, err := s.PermissionRepository.GetByID(ctx, req.ID)
	if err != nil {
		return permission.PermissionHours{}, err
	}

	var decided permission.PermissionHours
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		p, err := s.PermissionRepository.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if p.Status != permission.StatusPending {
			return permission.ErrPermissionNotPending
		}

		now := s.now()
		p.Status = status
		p.ActionBy = &req.ActionBy
		p.ActionAt = &now
		p.ActionComments = req.Comments
		if err := s.PermissionRepository.Update(ctx, p); err != nil {
			return fmt.Errorf("failed to update permission hours request: %w", err)
		}

		if status == permission.StatusApproved {
			if err := s.reconcile(ctx, p); err != nil {
				return err
			}
		}
		decided = p
		return nil
	}, database.LockKey("attendance", current.EmployeeID, calendar.FormatDate(current.Date)))
	if err != nil {
		return permission.PermissionHours{}, err
	}

	notifType, title := notification.TypePermissionRequestApproved, "Permission hours approved"
	if status == permission.StatusRejected {
		notifType, title = notification.TypePermissionRequestRejected, "Permission hours rejected"
	}
	s.notifier.Notify(ctx, decided.EmployeeID, notifType, notification.Payload{
		Title:             title,
		Message:           fmt.Sprintf("Your permission hours for %s were %s", calendar.FormatDate(decided.Date), status),
		RelatedEntityType: "PERMISSION_HOURS",
		RelatedEntityID:   decided.ID,
	})
	return decided, nil
}

// reconcile widens the attendance of p's day to cover p's window. Punch-in only
// moves earlier and punch-out only moves later. A day without attendance gets
// the window as its punches.
func (s *PermissionServiceImpl) reconcile(ctx context.Context, p permission.PermissionHours) error {
	emp, err := s.EmployeeRepository.GetByID(ctx, p.EmployeeID)
	if err != nil {
		return fmt.Errorf("failed to get employee: %w", err)
	}
	pol, err := s.policies.Resolve(ctx, emp.Department, emp.EmploymentType)
	if err != nil {
		return err
	}

	from := p.FromTime.On(p.Date, s.loc)
	to := p.ToTime.On(p.Date, s.loc)

	rec, err := s.AttendanceRepository.FindByEmployeeAndDate(ctx, p.EmployeeID, p.Date)
	switch {
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		rec = attendance.Attendance{
			ID:         uuid.Must(uuid.NewV7()).String(),
			EmployeeID: p.EmployeeID,
			Date:       calendar.DateOf(p.Date),
			PunchIn:    &from,
			PunchOut:   &to,
		}
	case err != nil:
		return fmt.Errorf("failed to get attendance: %w", err)
	default:
		widened := false
		if rec.PunchIn != nil && from.Before(*rec.PunchIn) {
			rec.PunchIn = &from
			widened = true
		}
		if rec.PunchOut != nil && to.After(*rec.PunchOut) {
			rec.PunchOut = &to
			widened = true
		}
		if !widened {
			return nil
		}
	}

	c, err := attendanceService.ComputeStatus(rec.PunchIn, rec.PunchOut, pol)
	if err != nil {
		return err
	}
	rec.Apply(c)
	remark := permission.WideningRemark
	rec.Remarks = &remark
	rec.ManualApproval = true

	if rec.PunchOut != nil {
		credited, err := s.overtime.UpdateOTStatsAfterPunchOut(ctx, rec.EmployeeID, rec.Date, rec.HoursWorked)
		if err != nil {
			return fmt.Errorf("failed to credit overtime: %w", err)
		}
		rec.IsOTDay = rec.IsOTDay || credited
	}

	if _, err := s.AttendanceRepository.Save(ctx, rec); err != nil {
		return fmt.Errorf("failed to save attendance: %w", err)
	}

	slog.Info("attendance widened by permission hours", "employee_id", rec.EmployeeID, "date", calendar.FormatDate(rec.Date), "hours", rec.HoursWorked, "status", rec.Status)
	return nil
}
