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

type leaveRequestDayRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestDayRepository(db *database.DB) leave.LeaveRequestDayRepository {
	return &leaveRequestDayRepositoryImpl{db: db}
}

const leaveDayColumns = `id, leave_request_id, employee_id, date, pay_category, sandwich_flag, ot_credit_used,
	created_at, updated_at`

func scanLeaveDay(row pgx.Row) (leave.LeaveRequestDay, error) {
	var d leave.LeaveRequestDay
	err := row.Scan(
		&d.ID, &d.LeaveRequestID, &d.EmployeeID, &d.Date, &d.PayCategory, &d.SandwichFlag, &d.OTCreditUsed,
		&d.CreatedAt, &d.UpdatedAt,
	)
	return d, err
}

func collectLeaveDays(rows pgx.Rows) ([]leave.LeaveRequestDay, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (leave.LeaveRequestDay, error) {
		return scanLeaveDay(row)
	})
}

// CreateBatch implements leave.LeaveRequestDayRepository.
func (r *leaveRequestDayRepositoryImpl) CreateBatch(ctx context.Context, days []leave.LeaveRequestDay) error {
	if len(days) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	batch := &pgx.Batch{}
	for i := range days {
		if days[i].ID == "" {
			days[i].ID = uuid.Must(uuid.NewV7()).String()
		}
		d := days[i]
		batch.Queue(`
			INSERT INTO leave_request_days (id, leave_request_id, employee_id, date, pay_category, sandwich_flag, ot_credit_used)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, d.ID, d.LeaveRequestID, d.EmployeeID, calendar.DateOf(d.Date), d.PayCategory, d.SandwichFlag, d.OTCreditUsed)
	}

	if err := q.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to create leave request days: %w", err)
	}
	return nil
}

// Update implements leave.LeaveRequestDayRepository.
func (r *leaveRequestDayRepositoryImpl) Update(ctx context.Context, d leave.LeaveRequestDay) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE leave_request_days
		SET pay_category = $2, sandwich_flag = $3, ot_credit_used = $4, updated_at = NOW()
		WHERE id = $1
	`, d.ID, d.PayCategory, d.SandwichFlag, d.OTCreditUsed)
	if err != nil {
		return fmt.Errorf("failed to update leave request day: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

// ListByRequest implements leave.LeaveRequestDayRepository.
func (r *leaveRequestDayRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM leave_request_days WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete leave request day: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

func (r *leaveRequestDayRepositoryImpl) ListByRequest(ctx context.Context, leaveRequestID string) ([]leave.LeaveRequestDay, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT `+leaveDayColumns+`
		FROM leave_request_days
		WHERE leave_request_id = $1
		ORDER BY date
	`, leaveRequestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave request days: %w", err)
	}
	out, err := collectLeaveDays(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan leave request day: %w", err)
	}
	return out, nil
}

// CountPaidInMonth implements leave.LeaveRequestDayRepository.
func (r *leaveRequestDayRepositoryImpl) CountPaidInMonth(ctx context.Context, employeeID string, year, month int) (int, error) {
	q := GetQuerier(ctx, r.db)

	start := calendar.Date(year, time.Month(month), 1)
	var count int
	err := q.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM leave_request_days d
		JOIN leave_requests lr ON lr.id = d.leave_request_id
		WHERE d.employee_id = $1
		  AND d.pay_category = $2
		  AND lr.status <> $3
		  AND d.date BETWEEN $4 AND $5
	`, employeeID, leave.PayCategoryPaid, leave.LeaveStatusRejected, start, calendar.MonthEnd(start)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count paid leave days: %w", err)
	}
	return count, nil
}

// FindSandwich implements leave.LeaveRequestDayRepository.
func (r *leaveRequestDayRepositoryImpl) FindSandwich(ctx context.Context, employeeID string, date time.Time) (*leave.LeaveRequestDay, error) {
	q := GetQuerier(ctx, r.db)

	d, err := scanLeaveDay(q.QueryRow(ctx, `
		SELECT `+leaveDayColumns+`
		FROM leave_request_days
		WHERE employee_id = $1 AND date = $2 AND sandwich_flag
		LIMIT 1
	`, employeeID, calendar.DateOf(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find sandwich day: %w", err)
	}
	return &d, nil
}

// ListSandwichInRange implements leave.LeaveRequestDayRepository.
func (r *leaveRequestDayRepositoryImpl) ListSandwichInRange(ctx context.Context, employeeID string, from, to time.Time) ([]leave.LeaveRequestDay, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT `+leaveDayColumns+`
		FROM leave_request_days
		WHERE employee_id = $1 AND sandwich_flag AND date BETWEEN $2 AND $3
		ORDER BY date
	`, employeeID, calendar.DateOf(from), calendar.DateOf(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list sandwich days: %w", err)
	}
	out, err := collectLeaveDays(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan leave request day: %w", err)
	}
	return out, nil
}
