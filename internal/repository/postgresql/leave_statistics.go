package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type leaveStatisticsRepositoryImpl struct {
	db *database.DB
}

func NewLeaveStatisticsRepository(db *database.DB) leave.LeaveStatisticsRepository {
	return &leaveStatisticsRepositoryImpl{db: db}
}

const statisticsColumns = `id, employee_id, year, month, total_leave_requests, total_leaves_approved,
	full_day_leaves_approved, half_day_leaves_approved, paid_leave_count, unpaid_leave_count,
	rejected_leave_count, pending_leave_count, sandwich_leave_count, manual_override_count,
	comp_off_used, leaves_remaining, last_updated`

func scanStatistics(row pgx.Row) (leave.EmployeeLeaveStatistics, error) {
	var s leave.EmployeeLeaveStatistics
	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.Year, &s.Month, &s.TotalLeaveRequests, &s.TotalLeavesApproved,
		&s.FullDayLeavesApproved, &s.HalfDayLeavesApproved, &s.PaidLeaveCount, &s.UnpaidLeaveCount,
		&s.RejectedLeaveCount, &s.PendingLeaveCount, &s.SandwichLeaveCount, &s.ManualOverrideCount,
		&s.CompOffUsed, &s.LeavesRemaining, &s.LastUpdated,
	)
	return s, err
}

// FindOrCreate implements leave.LeaveStatisticsRepository.
func (r *leaveStatisticsRepositoryImpl) FindOrCreate(ctx context.Context, employeeID string, year, month int) (leave.EmployeeLeaveStatistics, error) {
	q := GetQuerier(ctx, r.db)

	zero := leave.NewStatistics(employeeID, year, month)
	_, err := q.Exec(ctx, `
		INSERT INTO employee_leave_statistics (id, employee_id, year, month, leaves_remaining)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employee_id, year, month) DO NOTHING
	`, uuid.Must(uuid.NewV7()).String(), employeeID, year, month, zero.LeavesRemaining)
	if err != nil {
		return leave.EmployeeLeaveStatistics{}, fmt.Errorf("failed to create leave statistics: %w", err)
	}

	s, err := scanStatistics(q.QueryRow(ctx, `
		SELECT `+statisticsColumns+`
		FROM employee_leave_statistics
		WHERE employee_id = $1 AND year = $2 AND month = $3
		FOR UPDATE
	`, employeeID, year, month))
	if err != nil {
		return leave.EmployeeLeaveStatistics{}, fmt.Errorf("failed to lock leave statistics: %w", err)
	}
	return s, nil
}

// Save implements leave.LeaveStatisticsRepository.
func (r *leaveStatisticsRepositoryImpl) Save(ctx context.Context, s leave.EmployeeLeaveStatistics) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE employee_leave_statistics
		SET total_leave_requests = $4,
		    total_leaves_approved = $5,
		    full_day_leaves_approved = $6,
		    half_day_leaves_approved = $7,
		    paid_leave_count = $8,
		    unpaid_leave_count = $9,
		    rejected_leave_count = $10,
		    pending_leave_count = $11,
		    sandwich_leave_count = $12,
		    manual_override_count = $13,
		    comp_off_used = $14,
		    leaves_remaining = $15,
		    last_updated = $16
		WHERE employee_id = $1 AND year = $2 AND month = $3
	`,
		s.EmployeeID, s.Year, s.Month,
		s.TotalLeaveRequests, s.TotalLeavesApproved, s.FullDayLeavesApproved, s.HalfDayLeavesApproved,
		s.PaidLeaveCount, s.UnpaidLeaveCount, s.RejectedLeaveCount, s.PendingLeaveCount,
		s.SandwichLeaveCount, s.ManualOverrideCount, s.CompOffUsed, s.LeavesRemaining, s.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("failed to save leave statistics: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrStatisticsNotFound
	}
	return nil
}

// Find implements leave.LeaveStatisticsRepository.
func (r *leaveStatisticsRepositoryImpl) Find(ctx context.Context, employeeID string, year, month int) (leave.EmployeeLeaveStatistics, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanStatistics(q.QueryRow(ctx, `
		SELECT `+statisticsColumns+`
		FROM employee_leave_statistics
		WHERE employee_id = $1 AND year = $2 AND month = $3
	`, employeeID, year, month))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.EmployeeLeaveStatistics{}, leave.ErrStatisticsNotFound
		}
		return leave.EmployeeLeaveStatistics{}, fmt.Errorf("failed to get leave statistics: %w", err)
	}
	return s, nil
}
