package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/policy"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/database"
	"github.com/google/uuid"
)

// AutoPunchOutRemark marks records closed by CloseOpenPunches.
const AutoPunchOutRemark = "Auto punch-out"

// OvertimeCreditor is the part of the overtime service a punch-out needs.
type OvertimeCreditor interface {
	UpdateOTStatsAfterPunchOut(ctx context.Context, employeeID string, date time.Time, hoursWorked float64) (bool, error)
}

type AttendanceServiceImpl struct {
	tx database.Transactor
	attendance.AttendanceRepository
	employee.EmployeeRepository
	policies policy.PolicyService
	overtime OvertimeCreditor
	loc      *time.Location
	now      func() time.Time
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepository attendance.AttendanceRepository,
	employeeRepository employee.EmployeeRepository,
	policies policy.PolicyService,
	overtime OvertimeCreditor,
	loc *time.Location,
) *AttendanceServiceImpl {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		tx:                   tx,
		AttendanceRepository: attendanceRepository,
		EmployeeRepository:   employeeRepository,
		policies:             policies,
		overtime:             overtime,
		loc:                  loc,
		now:                  time.Now,
	}
}

var _ attendance.AttendanceService = (*AttendanceServiceImpl)(nil)

func lockKey(employeeID string, date time.Time) string {
	return database.LockKey("attendance", employeeID, calendar.FormatDate(date))
}

func (s *AttendanceServiceImpl) punchTime(req attendance.PunchRequest) time.Time {
	if req.At.IsZero() {
		return s.now().In(s.loc)
	}
	return req.At.In(s.loc)
}

func (s *AttendanceServiceImpl) policyFor(ctx context.Context, employeeID string) (policy.DepartmentPolicy, error) {
	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return policy.DepartmentPolicy{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return s.policies.Resolve(ctx, emp.Department, emp.EmploymentType)
}

// PunchIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) PunchIn(ctx context.Context, req attendance.PunchRequest) (attendance.Attendance, error) {
	if err := req.Validate(); err != nil {
		return attendance.Attendance{}, err
	}
	at := s.punchTime(req)
	date := calendar.DateOf(at)

	pol, err := s.policyFor(ctx, req.EmployeeID)
	if err != nil {
		return attendance.Attendance{}, err
	}
	tod := calendar.TimeOfDayOf(at)
	if tod.Before(pol.PunchInStart) || tod.After(pol.PunchOutEnd) {
		return attendance.Attendance{}, attendance.ErrOutsidePunchWindow
	}

	var saved attendance.Attendance
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		rec, err := s.AttendanceRepository.FindByEmployeeAndDate(ctx, req.EmployeeID, date)
		switch {
		case errors.Is(err, attendance.ErrAttendanceNotFound):
			rec = attendance.Attendance{
				ID:         uuid.Must(uuid.NewV7()).String(),
				EmployeeID: req.EmployeeID,
				Date:       date,
				Status:     attendance.StatusAbsent,
				IdleTime:   pol.FullDayThreshold,
			}
		case err != nil:
			return fmt.Errorf("failed to get attendance: %w", err)
		case rec.PunchIn != nil:
			return attendance.ErrAlreadyPunchedIn
		}

		rec.PunchIn = &at
		c, err := ComputeStatus(rec.PunchIn, rec.PunchOut, pol)
		if err != nil {
			return err
		}
		rec.Apply(c)

		saved, err = s.AttendanceRepository.Save(ctx, rec)
		if err != nil {
			return fmt.Errorf("failed to save attendance: %w", err)
		}

		if saved.IsLateLogin {
			if err := s.AttendanceRepository.IncrementLateLogin(ctx, req.EmployeeID, date.Year(), int(date.Month())); err != nil {
				return fmt.Errorf("failed to count late login: %w", err)
			}
		}
		return nil
	}, lockKey(req.EmployeeID, date))
	if err != nil {
		return attendance.Attendance{}, err
	}

	slog.Info("punch in", "employee_id", saved.EmployeeID, "date", calendar.FormatDate(saved.Date), "late", saved.IsLateLogin)
	return saved, nil
}

// PunchOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) PunchOut(ctx context.Context, req attendance.PunchRequest) (attendance.Attendance, error) {
	if err := req.Validate(); err != nil {
		return attendance.Attendance{}, err
	}
	at := s.punchTime(req)

	pol, err := s.policyFor(ctx, req.EmployeeID)
	if err != nil {
		return attendance.Attendance{}, err
	}

	date, err := s.openDay(ctx, req.EmployeeID, at)
	if err != nil {
		return attendance.Attendance{}, err
	}

	var saved attendance.Attendance
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		rec, err := s.AttendanceRepository.FindByEmployeeAndDate(ctx, req.EmployeeID, date)
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.ErrNotPunchedIn
		}
		if err != nil {
			return fmt.Errorf("failed to get attendance: %w", err)
		}
		if rec.PunchIn == nil {
			return attendance.ErrNotPunchedIn
		}
		if rec.PunchOut != nil {
			return attendance.ErrAlreadyPunchedOut
		}

		rec.PunchOut = &at
		saved, err = s.closeDay(ctx, rec, pol)
		return err
	}, lockKey(req.EmployeeID, date))
	if err != nil {
		return attendance.Attendance{}, err
	}

	slog.Info("punch out", "employee_id", saved.EmployeeID, "date", calendar.FormatDate(saved.Date), "hours", saved.HoursWorked, "status", saved.Status)
	return saved, nil
}

// openDay picks the record a punch-out closes: the punch's own date, or the
// previous date when that one is still open past midnight.
func (s *AttendanceServiceImpl) openDay(ctx context.Context, employeeID string, at time.Time) (time.Time, error) {
	today := calendar.DateOf(at)
	_, err := s.AttendanceRepository.FindByEmployeeAndDate(ctx, employeeID, today)
	if !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return today, nil
	}

	yesterday := today.AddDate(0, 0, -1)
	prev, err := s.AttendanceRepository.FindByEmployeeAndDate(ctx, employeeID, yesterday)
	if err == nil && prev.IsOpen() {
		return yesterday, nil
	}
	return today, nil
}

// closeDay recomputes rec from its punches, saves it and credits overtime.
// The caller holds rec's lock.
func (s *AttendanceServiceImpl) closeDay(ctx context.Context, rec attendance.Attendance, pol policy.DepartmentPolicy) (attendance.Attendance, error) {
	c, err := ComputeStatus(rec.PunchIn, rec.PunchOut, pol)
	if err != nil {
		return attendance.Attendance{}, err
	}
	rec.Apply(c)

	credited, err := s.overtime.UpdateOTStatsAfterPunchOut(ctx, rec.EmployeeID, rec.Date, rec.HoursWorked)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to credit overtime: %w", err)
	}
	if credited {
		rec.IsOTDay = true
	}

	saved, err := s.AttendanceRepository.Save(ctx, rec)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to save attendance: %w", err)
	}
	return saved, nil
}

// GetDay implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetDay(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	return s.AttendanceRepository.FindByEmployeeAndDate(ctx, employeeID, calendar.DateOf(date))
}

// List implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, error) {
	if filter.To.IsZero() {
		filter.To = calendar.DateOf(s.now().In(s.loc))
	}
	if filter.From.IsZero() {
		filter.From = calendar.MonthStart(filter.To)
	}
	records, err := s.AttendanceRepository.ListByEmployee(ctx, filter.EmployeeID, filter.From, filter.To)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, nil
}

// CloseOpenPunches implements attendance.AttendanceService. A record that fails
// to close is logged and skipped.
func (s *AttendanceServiceImpl) CloseOpenPunches(ctx context.Context, date time.Time) (int, error) {
	date = calendar.DateOf(date)
	open, err := s.AttendanceRepository.FindOpenPunchesForDate(ctx, date)
	if err != nil {
		return 0, fmt.Errorf("failed to find open punches: %w", err)
	}

	closed := 0
	for _, candidate := range open {
		pol, err := s.policyFor(ctx, candidate.EmployeeID)
		if err != nil {
			slog.Error("auto punch-out skipped", "employee_id", candidate.EmployeeID, "error", err)
			continue
		}

		err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			rec, err := s.AttendanceRepository.FindByEmployeeAndDate(ctx, candidate.EmployeeID, date)
			if err != nil {
				return err
			}
			if !rec.IsOpen() {
				return nil
			}

			out := pol.OfficeEnd.On(date, s.loc)
			if out.Before(*rec.PunchIn) {
				out = *rec.PunchIn
			}
			rec.PunchOut = &out
			remark := AutoPunchOutRemark
			rec.Remarks = &remark

			if _, err := s.closeDay(ctx, rec, pol); err != nil {
				return err
			}
			closed++
			return nil
		}, lockKey(candidate.EmployeeID, date))
		if err != nil {
			slog.Error("auto punch-out failed", "employee_id", candidate.EmployeeID, "date", calendar.FormatDate(date), "error", err)
		}
	}

	return closed, nil
}

// GetLateLoginCount implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetLateLoginCount(ctx context.Context, employeeID string, year, month int) (int, error) {
	return s.AttendanceRepository.GetLateLoginCount(ctx, employeeID, year, month)
}
