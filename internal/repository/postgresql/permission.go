package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/permission"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type permissionRepositoryImpl struct {
	db *database.DB
}

func NewPermissionRepository(db *database.DB) permission.PermissionRepository {
	return &permissionRepositoryImpl{db: db}
}

const permissionColumns = `id, employee_id, date, from_time, to_time, reason, status,
	action_by, action_at, action_comments, requested_at, updated_at`

func scanPermission(row pgx.Row) (permission.PermissionHours, error) {
	var p permission.PermissionHours
	var from, to pgtype.Time
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.Date, &from, &to, &p.Reason, &p.Status,
		&p.ActionBy, &p.ActionAt, &p.ActionComments, &p.RequestedAt, &p.UpdatedAt,
	)
	if err != nil {
		return permission.PermissionHours{}, err
	}
	p.FromTime = fromPgTime(from)
	p.ToTime = fromPgTime(to)
	return p, nil
}

// Create implements permission.PermissionRepository.
func (r *permissionRepositoryImpl) Create(ctx context.Context, p permission.PermissionHours) (permission.PermissionHours, error) {
	q := GetQuerier(ctx, r.db)

	if p.ID == "" {
		p.ID = uuid.Must(uuid.NewV7()).String()
	}
	p.Date = calendar.DateOf(p.Date)

	err := q.QueryRow(ctx, `
		INSERT INTO permission_hours (id, employee_id, date, from_time, to_time, reason, status, action_by, action_at, action_comments)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING requested_at, updated_at
	`,
		p.ID, p.EmployeeID, p.Date, toPgTime(p.FromTime), toPgTime(p.ToTime), p.Reason, p.Status,
		p.ActionBy, p.ActionAt, p.ActionComments,
	).Scan(&p.RequestedAt, &p.UpdatedAt)
	if err != nil {
		return permission.PermissionHours{}, fmt.Errorf("failed to create permission hours: %w", err)
	}
	return p, nil
}

// GetByID implements permission.PermissionRepository.
func (r *permissionRepositoryImpl) GetByID(ctx context.Context, id string) (permission.PermissionHours, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPermission(q.QueryRow(ctx, `SELECT `+permissionColumns+` FROM permission_hours WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return permission.PermissionHours{}, permission.ErrPermissionNotFound
		}
		return permission.PermissionHours{}, fmt.Errorf("failed to get permission hours: %w", err)
	}
	return p, nil
}

// Update implements permission.PermissionRepository.
func (r *permissionRepositoryImpl) Update(ctx context.Context, p permission.PermissionHours) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE permission_hours
		SET date = $2, from_time = $3, to_time = $4, reason = $5, status = $6,
		    action_by = $7, action_at = $8, action_comments = $9, updated_at = NOW()
		WHERE id = $1
	`,
		p.ID, calendar.DateOf(p.Date), toPgTime(p.FromTime), toPgTime(p.ToTime), p.Reason, p.Status,
		p.ActionBy, p.ActionAt, p.ActionComments,
	)
	if err != nil {
		return fmt.Errorf("failed to update permission hours: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return permission.ErrPermissionNotFound
	}
	return nil
}

// Delete implements permission.PermissionRepository.
func (r *permissionRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM permission_hours WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete permission hours: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return permission.ErrPermissionNotFound
	}
	return nil
}

// List implements permission.PermissionRepository.
func (r *permissionRepositoryImpl) List(ctx context.Context, filter permission.PermissionFilter) ([]permission.PermissionHours, error) {
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

	rows, err := q.Query(ctx, `SELECT `+permissionColumns+` FROM permission_hours`+where(conditions)+` ORDER BY date, requested_at`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list permission hours: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (permission.PermissionHours, error) {
		return scanPermission(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan permission hours: %w", err)
	}
	return out, nil
}
