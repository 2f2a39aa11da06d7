package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestColumns = `id, employee_id, from_date, to_date, leave_type, status, day_type, half_day_session,
	manual_override, reason, approved_by, action_at, leave_days, created_at, updated_at`

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	err := row.Scan(
		&lr.ID, &lr.EmployeeID, &lr.FromDate, &lr.ToDate, &lr.LeaveType, &lr.Status, &lr.DayType, &lr.HalfDaySession,
		&lr.ManualOverride, &lr.Reason, &lr.ApprovedBy, &lr.ActionAt, &lr.LeaveDays, &lr.CreatedAt, &lr.UpdatedAt,
	)
	return lr, err
}

func collectLeaveRequests(rows pgx.Rows) ([]leave.LeaveRequest, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (leave.LeaveRequest, error) {
		return scanLeaveRequest(row)
	})
}

// Create implements leave.LeaveRequestRepository. The day ledger is stored separately.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, lr leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	if lr.ID == "" {
		lr.ID = uuid.Must(uuid.NewV7()).String()
	}
	lr.FromDate, lr.ToDate = calendar.DateOf(lr.FromDate), calendar.DateOf(lr.ToDate)

	err := q.QueryRow(ctx, `
		INSERT INTO leave_requests (
			id, employee_id, from_date, to_date, leave_type, status, day_type, half_day_session,
			manual_override, reason, approved_by, action_at, leave_days
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at
	`,
		lr.ID, lr.EmployeeID, lr.FromDate, lr.ToDate, lr.LeaveType, lr.Status, lr.DayType, lr.HalfDaySession,
		lr.ManualOverride, lr.Reason, lr.ApprovedBy, lr.ActionAt, lr.LeaveDays,
	).Scan(&lr.CreatedAt, &lr.UpdatedAt)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return lr, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	lr, err := scanLeaveRequest(q.QueryRow(ctx, `SELECT `+leaveRequestColumns+` FROM leave_requests WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return lr, nil
}

// Update implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Update(ctx context.Context, lr leave.LeaveRequest) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE leave_requests
		SET status = $2, manual_override = $3, reason = $4, approved_by = $5, action_at = $6,
		    leave_days = $7, updated_at = NOW()
		WHERE id = $1
	`, lr.ID, lr.Status, lr.ManualOverride, lr.Reason, lr.ApprovedBy, lr.ActionAt, lr.LeaveDays)
	if err != nil {
		return fmt.Errorf("failed to update leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

// CheckOverlapping implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) CheckOverlapping(ctx context.Context, employeeID string, from, to time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM leave_requests
			WHERE employee_id = $1
			  AND status <> $2
			  AND from_date <= $4
			  AND to_date >= $3
		)
	`, employeeID, leave.LeaveStatusRejected, calendar.DateOf(from), calendar.DateOf(to)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check overlapping leave: %w", err)
	}
	return exists, nil
}

// CountApprovedQuotaRequestsInMonth implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) CountApprovedQuotaRequestsInMonth(ctx context.Context, employeeID string, year, month int) (int, error) {
	q := GetQuerier(ctx, r.db)

	start := calendar.Date(year, time.Month(month), 1)
	var count int
	err := q.QueryRow(ctx, `
		SELECT COUNT(*) FROM leave_requests
		WHERE employee_id = $1
		  AND status = $2
		  AND leave_type IN ($3, $4)
		  AND from_date BETWEEN $5 AND $6
	`, employeeID, leave.LeaveStatusApproved, leave.LeaveTypeCasual, leave.LeaveTypeSick,
		start, calendar.MonthEnd(start)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count approved leave requests: %w", err)
	}
	return count, nil
}

// ListApprovedInRange implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListApprovedInRange(ctx context.Context, employeeID string, from, to time.Time) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT `+leaveRequestColumns+`
		FROM leave_requests
		WHERE employee_id = $1
		  AND status = $2
		  AND from_date <= $4
		  AND to_date >= $3
		ORDER BY from_date
	`, employeeID, leave.LeaveStatusApproved, calendar.DateOf(from), calendar.DateOf(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave requests: %w", err)
	}
	out, err := collectLeaveRequests(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan leave request: %w", err)
	}
	return out, nil
}

// ListByEmployee implements leave.LeaveRequestRepository. A year and month select
// the requests touching that month, a year alone those touching that year.
func (r *leaveRequestRepositoryImpl) ListByEmployee(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE employee_id = $1`
	args := []any{filter.EmployeeID}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	switch {
	case filter.Year != nil && filter.Month != nil:
		start := calendar.Date(*filter.Year, time.Month(*filter.Month), 1)
		args = append(args, start, calendar.MonthEnd(start))
		query += fmt.Sprintf(" AND from_date <= $%d AND to_date >= $%d", len(args), len(args)-1)
	case filter.Year != nil:
		args = append(args, *filter.Year)
		query += fmt.Sprintf(" AND (EXTRACT(YEAR FROM from_date) = $%d OR EXTRACT(YEAR FROM to_date) = $%d)", len(args), len(args))
	}
	query += " ORDER BY from_date"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	out, err := collectLeaveRequests(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan leave request: %w", err)
	}
	return out, nil
}
