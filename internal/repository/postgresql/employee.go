package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `id, full_name, email, department, employment_type,
	pending_ot_days, incentive_ot_days, created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.FullName, &e.Email, &e.Department, &e.EmploymentType,
		&e.PendingOTDays, &e.IncentiveOTDays, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	e, err := scanEmployee(q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

// GetByFullName implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByFullName(ctx context.Context, fullName string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT `+employeeColumns+`
		FROM employees
		WHERE LOWER(TRIM(full_name)) = LOWER(TRIM($1))
		LIMIT 2
	`, fullName)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to find employee by name: %w", err)
	}
	matches, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (employee.Employee, error) {
		return scanEmployee(row)
	})
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to scan employee: %w", err)
	}

	switch len(matches) {
	case 0:
		return employee.Employee{}, employee.ErrEmployeeNotFound
	case 1:
		return matches[0], nil
	default:
		return employee.Employee{}, employee.ErrAmbiguousName
	}
}

// Exists implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Exists(ctx context.Context, id string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM employees WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check employee: %w", err)
	}
	return exists, nil
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	if e.ID == "" {
		e.ID = uuid.Must(uuid.NewV7()).String()
	}

	err := q.QueryRow(ctx, `
		INSERT INTO employees (id, full_name, email, department, employment_type, pending_ot_days, incentive_ot_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, e.ID, e.FullName, e.Email, e.Department, e.EmploymentType, e.PendingOTDays, e.IncentiveOTDays,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return employee.Employee{}, employee.ErrEmployeeExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return e, nil
}

// ListByDepartment implements employee.EmployeeRepository. An empty department lists everyone.
func (r *employeeRepositoryImpl) ListByDepartment(ctx context.Context, department string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT `+employeeColumns+`
		FROM employees
		WHERE $1 = '' OR LOWER(department) = LOWER($1)
		ORDER BY full_name
	`, department)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (employee.Employee, error) {
		return scanEmployee(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan employee: %w", err)
	}
	return out, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context) ([]employee.Employee, error) {
	return r.ListByDepartment(ctx, "")
}

// AddOvertimeCredit implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) AddOvertimeCredit(ctx context.Context, id string, pendingDays, incentiveDays int) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE employees
		SET pending_ot_days = pending_ot_days + $2,
		    incentive_ot_days = incentive_ot_days + $3,
		    updated_at = NOW()
		WHERE id = $1
	`, id, pendingDays, incentiveDays)
	if err != nil {
		return fmt.Errorf("failed to update overtime credit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
