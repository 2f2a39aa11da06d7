package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type overtimeRepositoryImpl struct {
	db *database.DB
}

func NewOvertimeRepository(db *database.DB) overtime.OvertimeRepository {
	return &overtimeRepositoryImpl{db: db}
}

const overtimeColumns = `id, employee_id, date, type, status, reason, is_used_as_leave, is_paid_out,
	allocated_by, action_by, action_at, created_at, updated_at`

func scanOvertime(row pgx.Row) (overtime.Overtime, error) {
	var o overtime.Overtime
	err := row.Scan(
		&o.ID, &o.EmployeeID, &o.Date, &o.Type, &o.Status, &o.Reason, &o.IsUsedAsLeave, &o.IsPaidOut,
		&o.AllocatedBy, &o.ActionBy, &o.ActionAt, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

// Create implements overtime.OvertimeRepository.
func (r *overtimeRepositoryImpl) Create(ctx context.Context, o overtime.Overtime) (overtime.Overtime, error) {
	q := GetQuerier(ctx, r.db)

	if o.ID == "" {
		o.ID = uuid.Must(uuid.NewV7()).String()
	}
	o.Date = calendar.DateOf(o.Date)

	err := q.QueryRow(ctx, `
		INSERT INTO overtime (
			id, employee_id, date, type, status, reason, is_used_as_leave, is_paid_out,
			allocated_by, action_by, action_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`,
		o.ID, o.EmployeeID, o.Date, o.Type, o.Status, o.Reason, o.IsUsedAsLeave, o.IsPaidOut,
		o.AllocatedBy, o.ActionBy, o.ActionAt,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return overtime.Overtime{}, overtime.ErrOvertimeExists
		}
		return overtime.Overtime{}, fmt.Errorf("failed to create overtime: %w", err)
	}
	return o, nil
}

// GetByID implements overtime.OvertimeRepository.
func (r *overtimeRepositoryImpl) GetByID(ctx context.Context, id string) (overtime.Overtime, error) {
	q := GetQuerier(ctx, r.db)

	o, err := scanOvertime(q.QueryRow(ctx, `SELECT `+overtimeColumns+` FROM overtime WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return overtime.Overtime{}, overtime.ErrOvertimeNotFound
		}
		return overtime.Overtime{}, fmt.Errorf("failed to get overtime: %w", err)
	}
	return o, nil
}

// FindByEmployeeAndDate implements overtime.OvertimeRepository.
func (r *overtimeRepositoryImpl) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (overtime.Overtime, error) {
	q := GetQuerier(ctx, r.db)

	o, err := scanOvertime(q.QueryRow(ctx, `
		SELECT `+overtimeColumns+`
		FROM overtime
		WHERE employee_id = $1 AND date = $2
	`, employeeID, calendar.DateOf(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return overtime.Overtime{}, overtime.ErrOvertimeNotFound
		}
		return overtime.Overtime{}, fmt.Errorf("failed to get overtime by employee and date: %w", err)
	}
	return o, nil
}

// Update implements overtime.OvertimeRepository.
func (r *overtimeRepositoryImpl) Update(ctx context.Context, o overtime.Overtime) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE overtime
		SET type = $2, status = $3, reason = $4, is_used_as_leave = $5, is_paid_out = $6,
		    allocated_by = $7, action_by = $8, action_at = $9, updated_at = NOW()
		WHERE id = $1
	`, o.ID, o.Type, o.Status, o.Reason, o.IsUsedAsLeave, o.IsPaidOut, o.AllocatedBy, o.ActionBy, o.ActionAt)
	if err != nil {
		return fmt.Errorf("failed to update overtime: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return overtime.ErrOvertimeNotFound
	}
	return nil
}

// Delete implements overtime.OvertimeRepository.
func (r *overtimeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM overtime WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete overtime: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return overtime.ErrOvertimeNotFound
	}
	return nil
}

// List implements overtime.OvertimeRepository.
func (r *overtimeRepositoryImpl) List(ctx context.Context, filter overtime.OvertimeFilter) ([]overtime.Overtime, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}
	if filter.EmployeeID != "" {
		add("employee_id = $%d", filter.EmployeeID)
	}
	if filter.Status != nil {
		add("status = $%d", *filter.Status)
	}
	if filter.From != nil {
		add("date >= $%d", calendar.DateOf(*filter.From))
	}
	if filter.To != nil {
		add("date <= $%d", calendar.DateOf(*filter.To))
	}

	rows, err := q.Query(ctx, `SELECT `+overtimeColumns+` FROM overtime`+where(conditions)+` ORDER BY date, employee_id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list overtime: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (overtime.Overtime, error) {
		return scanOvertime(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan overtime: %w", err)
	}
	return out, nil
}
