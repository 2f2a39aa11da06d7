package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceColumns = `id, employee_id, date, punch_in, punch_out, hours_worked, status, idle_time,
	is_late_login, is_ot_day, comp_off_used, manual_approval, remarks, created_at, updated_at`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.Date, &a.PunchIn, &a.PunchOut, &a.HoursWorked, &a.Status, &a.IdleTime,
		&a.IsLateLogin, &a.IsOTDay, &a.CompOffUsed, &a.ManualApproval, &a.Remarks, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

func collectAttendance(rows pgx.Rows) ([]attendance.Attendance, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (attendance.Attendance, error) {
		return scanAttendance(row)
	})
}

// FindByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAttendance(q.QueryRow(ctx, `
		SELECT `+attendanceColumns+`
		FROM attendances
		WHERE employee_id = $1 AND date = $2
	`, employeeID, calendar.DateOf(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}
	return a, nil
}

// Save implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Save(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	if a.ID == "" {
		a.ID = uuid.Must(uuid.NewV7()).String()
	}
	a.Date = calendar.DateOf(a.Date)

	saved, err := scanAttendance(q.QueryRow(ctx, `
		INSERT INTO attendances (
			id, employee_id, date, punch_in, punch_out, hours_worked, status, idle_time,
			is_late_login, is_ot_day, comp_off_used, manual_approval, remarks
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (employee_id, date) DO UPDATE SET
			punch_in = EXCLUDED.punch_in,
			punch_out = EXCLUDED.punch_out,
			hours_worked = EXCLUDED.hours_worked,
			status = EXCLUDED.status,
			idle_time = EXCLUDED.idle_time,
			is_late_login = EXCLUDED.is_late_login,
			is_ot_day = EXCLUDED.is_ot_day,
			comp_off_used = EXCLUDED.comp_off_used,
			manual_approval = EXCLUDED.manual_approval,
			remarks = EXCLUDED.remarks,
			updated_at = NOW()
		RETURNING `+attendanceColumns,
		a.ID, a.EmployeeID, a.Date, a.PunchIn, a.PunchOut, a.HoursWorked, a.Status, a.IdleTime,
		a.IsLateLogin, a.IsOTDay, a.CompOffUsed, a.ManualApproval, a.Remarks,
	))
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to save attendance: %w", err)
	}
	return saved, nil
}

// FindOpenPunchesForDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) FindOpenPunchesForDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT `+attendanceColumns+`
		FROM attendances
		WHERE date = $1 AND punch_in IS NOT NULL AND punch_out IS NULL
		ORDER BY employee_id
	`, calendar.DateOf(date))
	if err != nil {
		return nil, fmt.Errorf("failed to list open punches: %w", err)
	}
	out, err := collectAttendance(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan attendance: %w", err)
	}
	return out, nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT `+attendanceColumns+`
		FROM attendances
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date
	`, employeeID, calendar.DateOf(from), calendar.DateOf(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	out, err := collectAttendance(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan attendance: %w", err)
	}
	return out, nil
}

// IncrementLateLogin implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) IncrementLateLogin(ctx context.Context, employeeID string, year, month int) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		INSERT INTO late_login_counters (employee_id, year, month, count)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (employee_id, year, month) DO UPDATE SET count = late_login_counters.count + 1
	`, employeeID, year, month)
	if err != nil {
		return fmt.Errorf("failed to increment late login count: %w", err)
	}
	return nil
}

// GetLateLoginCount implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetLateLoginCount(ctx context.Context, employeeID string, year, month int) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx, `
		SELECT COALESCE((
			SELECT count FROM late_login_counters WHERE employee_id = $1 AND year = $2 AND month = $3
		), 0)
	`, employeeID, year, month).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get late login count: %w", err)
	}
	return count, nil
}
