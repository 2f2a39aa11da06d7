package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/policy"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type policyRepositoryImpl struct {
	db *database.DB
}

func NewPolicyRepository(db *database.DB) policy.PolicyRepository {
	return &policyRepositoryImpl{db: db}
}

const policyColumns = `id, department, employment_type,
	punch_in_start, punch_out_end, office_start, office_end, late_login_threshold,
	half_day_threshold, full_day_threshold,
	morning_half_login, morning_half_logout, afternoon_half_login, afternoon_half_logout,
	created_at, updated_at`

func scanPolicy(row pgx.Row) (policy.DepartmentPolicy, error) {
	var p policy.DepartmentPolicy
	var punchInStart, punchOutEnd, officeStart, officeEnd, late pgtype.Time
	var morningIn, morningOut, afternoonIn, afternoonOut pgtype.Time
	err := row.Scan(
		&p.ID, &p.Department, &p.EmploymentType,
		&punchInStart, &punchOutEnd, &officeStart, &officeEnd, &late,
		&p.HalfDayThreshold, &p.FullDayThreshold,
		&morningIn, &morningOut, &afternoonIn, &afternoonOut,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return policy.DepartmentPolicy{}, err
	}

	p.PunchInStart = fromPgTime(punchInStart)
	p.PunchOutEnd = fromPgTime(punchOutEnd)
	p.OfficeStart = fromPgTime(officeStart)
	p.OfficeEnd = fromPgTime(officeEnd)
	p.LateLoginThreshold = fromPgTime(late)
	p.MorningHalfLogin = fromPgTime(morningIn)
	p.MorningHalfLogout = fromPgTime(morningOut)
	p.AfternoonHalfLogin = fromPgTime(afternoonIn)
	p.AfternoonHalfLogout = fromPgTime(afternoonOut)
	return p, nil
}

// Find implements policy.PolicyRepository.
func (r *policyRepositoryImpl) Find(ctx context.Context, department, employmentType string) (policy.DepartmentPolicy, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPolicy(q.QueryRow(ctx, `
		SELECT `+policyColumns+`
		FROM department_policies
		WHERE LOWER(department) = LOWER(TRIM($1)) AND UPPER(employment_type) = UPPER(TRIM($2))
	`, department, employmentType))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return policy.DepartmentPolicy{}, policy.ErrPolicyNotFound
		}
		return policy.DepartmentPolicy{}, fmt.Errorf("failed to get department policy: %w", err)
	}
	return p, nil
}

// Upsert implements policy.PolicyRepository.
func (r *policyRepositoryImpl) Upsert(ctx context.Context, p policy.DepartmentPolicy) (policy.DepartmentPolicy, error) {
	q := GetQuerier(ctx, r.db)

	if p.ID == "" {
		p.ID = uuid.Must(uuid.NewV7()).String()
	}

	saved, err := scanPolicy(q.QueryRow(ctx, `
		INSERT INTO department_policies (
			id, department, employment_type,
			punch_in_start, punch_out_end, office_start, office_end, late_login_threshold,
			half_day_threshold, full_day_threshold,
			morning_half_login, morning_half_logout, afternoon_half_login, afternoon_half_logout
		) VALUES ($1, $2, UPPER($3), $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (LOWER(department), UPPER(employment_type)) DO UPDATE SET
			punch_in_start = EXCLUDED.punch_in_start,
			punch_out_end = EXCLUDED.punch_out_end,
			office_start = EXCLUDED.office_start,
			office_end = EXCLUDED.office_end,
			late_login_threshold = EXCLUDED.late_login_threshold,
			half_day_threshold = EXCLUDED.half_day_threshold,
			full_day_threshold = EXCLUDED.full_day_threshold,
			morning_half_login = EXCLUDED.morning_half_login,
			morning_half_logout = EXCLUDED.morning_half_logout,
			afternoon_half_login = EXCLUDED.afternoon_half_login,
			afternoon_half_logout = EXCLUDED.afternoon_half_logout,
			updated_at = NOW()
		RETURNING `+policyColumns,
		p.ID, p.Department, p.EmploymentType,
		toPgTime(p.PunchInStart), toPgTime(p.PunchOutEnd), toPgTime(p.OfficeStart), toPgTime(p.OfficeEnd),
		toPgTime(p.LateLoginThreshold),
		p.HalfDayThreshold, p.FullDayThreshold,
		toPgTime(p.MorningHalfLogin), toPgTime(p.MorningHalfLogout),
		toPgTime(p.AfternoonHalfLogin), toPgTime(p.AfternoonHalfLogout),
	))
	if err != nil {
		return policy.DepartmentPolicy{}, fmt.Errorf("failed to upsert department policy: %w", err)
	}
	return saved, nil
}

// List implements policy.PolicyRepository.
func (r *policyRepositoryImpl) List(ctx context.Context) ([]policy.DepartmentPolicy, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+policyColumns+` FROM department_policies ORDER BY department, employment_type`)
	if err != nil {
		return nil, fmt.Errorf("failed to list department policies: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (policy.DepartmentPolicy, error) {
		return scanPolicy(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan department policy: %w", err)
	}
	return out, nil
}

// Delete implements policy.PolicyRepository.
func (r *policyRepositoryImpl) Delete(ctx context.Context, department, employmentType string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		DELETE FROM department_policies
		WHERE LOWER(department) = LOWER(TRIM($1)) AND UPPER(employment_type) = UPPER(TRIM($2))
	`, department, employmentType)
	if err != nil {
		return fmt.Errorf("failed to delete department policy: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return policy.ErrPolicyNotFound
	}
	return nil
}
