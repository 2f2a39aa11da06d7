package leave

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/notification"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-policy-engine/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu    sync.Mutex
	sent  []notification.NotificationType
	recip []string
}

func (r *recordingSink) Notify(_ context.Context, recipient string, t notification.NotificationType, _ notification.Payload) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, t)
	r.recip = append(r.recip, recipient)
}

type fixture struct {
	svc       *LeaveServiceImpl
	employees employee.EmployeeRepository
	holidays  holiday.HolidayRepository
	sink      *recordingSink
}

func setup(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	empRepo := memory.NewEmployeeRepository(store)
	holidayRepo := memory.NewHolidayRepository(store)
	sink := &recordingSink{}

	_, err := empRepo.Create(context.Background(), employee.Employee{
		ID:             "emp-1",
		FullName:       "Rina Saputra",
		Department:     "Finance",
		EmploymentType: employee.EmploymentTypePermanent,
	})
	require.NoError(t, err)

	svc := NewLeaveService(
		store,
		memory.NewLeaveRequestRepository(store),
		memory.NewLeaveRequestDayRepository(store),
		memory.NewLeaveStatisticsRepository(store),
		holidayRepo,
		empRepo,
		sink,
	)
	return fixture{svc: svc, employees: empRepo, holidays: holidayRepo, sink: sink}
}

func (f fixture) addHolidays(t *testing.T, dates ...string) {
	t.Helper()
	for _, d := range dates {
		date, err := calendar.ParseDate(d)
		require.NoError(t, err)
		_, err = f.holidays.Create(context.Background(), holiday.Holiday{Date: date, Name: "Holiday " + d})
		require.NoError(t, err)
	}
}

func (f fixture) apply(t *testing.T, from, to string, leaveType leave.LeaveType) leave.LeaveRequest {
	t.Helper()
	lr, err := f.svc.ApplyForLeave(context.Background(), leave.ApplyLeaveRequest{
		EmployeeID: "emp-1",
		FromDate:   from,
		ToDate:     to,
		LeaveType:  leaveType,
	})
	require.NoError(t, err)
	return lr
}

func (f fixture) decide(t *testing.T, id string, status leave.LeaveStatus) leave.LeaveRequest {
	t.Helper()
	lr, err := f.svc.UpdateLeaveStatus(context.Background(), leave.UpdateLeaveStatusRequest{
		ID:         id,
		Status:     status,
		ApprovedBy: "admin-1",
	})
	require.NoError(t, err)
	return lr
}

func categories(days []leave.LeaveRequestDay) []leave.PayCategory {
	out := make([]leave.PayCategory, len(days))
	for i, d := range days {
		out[i] = d.PayCategory
	}
	return out
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestLeaveService_ApplyForLeave_FirstDayOfMonthIsPaid(t *testing.T) {
	f := setup(t)

	lr := f.apply(t, "2024-06-10", "2024-06-12", leave.LeaveTypeCasual)

	assert.Equal(t, leave.LeaveStatusPending, lr.Status)
	require.NotNil(t, lr.LeaveDays)
	assert.Equal(t, 3, *lr.LeaveDays)
	assert.False(t, lr.ManualOverride)
	assert.Equal(t, []leave.PayCategory{leave.PayCategoryPaid, leave.PayCategoryUnpaid, leave.PayCategoryUnpaid}, categories(lr.Days))

	days, err := f.svc.GetLeaveRequestDays(context.Background(), lr.ID)
	require.NoError(t, err)
	assert.Len(t, days, 3)

	st, err := f.svc.GetEmployeeLeaveStats(context.Background(), "emp-1", 2024, 6)
	require.NoError(t, err)
	assert.Equal(t, 1, st.TotalLeaveRequests)
	assert.Equal(t, 1, st.PendingLeaveCount)

	assert.Equal(t, []notification.NotificationType{notification.TypeLeaveRequestSubmitted}, f.sink.sent)
	assert.Equal(t, []string{notification.RecipientAdmin}, f.sink.recip)
}

func TestLeaveService_ApplyForLeave_SecondRequestInMonthIsForcedUnpaid(t *testing.T) {
	f := setup(t)

	first := f.apply(t, "2024-06-03", "2024-06-03", leave.LeaveTypeSick)
	f.decide(t, first.ID, leave.LeaveStatusApproved)

	second := f.apply(t, "2024-06-20", "2024-06-21", leave.LeaveTypeCasual)

	assert.True(t, second.ManualOverride)
	assert.Equal(t, []leave.PayCategory{leave.PayCategoryUnpaid, leave.PayCategoryUnpaid}, categories(second.Days))

	st, err := f.svc.GetEmployeeLeaveStats(context.Background(), "emp-1", 2024, 6)
	require.NoError(t, err)
	assert.Equal(t, 1, st.ManualOverrideCount)
}

func TestLeaveService_ApplyForLeave_PendingPaidDayConsumesBudget(t *testing.T) {
	f := setup(t)

	f.apply(t, "2024-06-03", "2024-06-03", leave.LeaveTypeCasual)
	second := f.apply(t, "2024-06-10", "2024-06-10", leave.LeaveTypeCasual)

	assert.False(t, second.ManualOverride)
	assert.Equal(t, []leave.PayCategory{leave.PayCategoryUnpaid}, categories(second.Days))
}

func TestLeaveService_ApplyForLeave_BudgetIsPerMonth(t *testing.T) {
	f := setup(t)

	lr := f.apply(t, "2024-06-29", "2024-07-02", leave.LeaveTypeCasual)

	assert.Equal(t, []leave.PayCategory{
		leave.PayCategoryPaid, leave.PayCategoryUnpaid,
		leave.PayCategoryPaid, leave.PayCategoryUnpaid,
	}, categories(lr.Days))
}

func TestLeaveService_ApplyForLeave_NonQuotaTypeIsUnpaid(t *testing.T) {
	f := setup(t)

	lr := f.apply(t, "2024-06-10", "2024-06-11", leave.LeaveTypeEarned)

	assert.Equal(t, []leave.PayCategory{leave.PayCategoryUnpaid, leave.PayCategoryUnpaid}, categories(lr.Days))
}

func TestLeaveService_ApplyForLeave_SkipsHolidays(t *testing.T) {
	f := setup(t)
	f.addHolidays(t, "2024-06-11")

	lr := f.apply(t, "2024-06-10", "2024-06-12", leave.LeaveTypeCasual)

	assert.Equal(t, 3, *lr.LeaveDays)
	require.Len(t, lr.Days, 2)
	assert.Equal(t, calendar.Date(2024, time.June, 10), lr.Days[0].Date)
	assert.Equal(t, calendar.Date(2024, time.June, 12), lr.Days[1].Date)
}

func TestLeaveService_ApplyForLeave_Overlapping(t *testing.T) {
	f := setup(t)
	existing := f.apply(t, "2024-06-10", "2024-06-12", leave.LeaveTypeCasual)
	f.decide(t, existing.ID, leave.LeaveStatusApproved)

	_, err := f.svc.ApplyForLeave(context.Background(), leave.ApplyLeaveRequest{
		EmployeeID: "emp-1",
		FromDate:   "2024-06-12",
		ToDate:     "2024-06-14",
		LeaveType:  leave.LeaveTypeSick,
	})
	assert.ErrorIs(t, err, leave.ErrOverlappingLeave)
}

func TestLeaveService_ApplyForLeave_RejectedDoesNotBlock(t *testing.T) {
	f := setup(t)
	existing := f.apply(t, "2024-06-10", "2024-06-12", leave.LeaveTypeCasual)
	f.decide(t, existing.ID, leave.LeaveStatusRejected)

	lr := f.apply(t, "2024-06-10", "2024-06-12", leave.LeaveTypeCasual)
	assert.Equal(t, leave.PayCategoryPaid, lr.Days[0].PayCategory)
}

func TestLeaveService_ApplyForLeave_InvalidRanges(t *testing.T) {
	morning := leave.SessionMorning

	tests := []struct {
		name string
		req  leave.ApplyLeaveRequest
	}{
		{
			name: "from after to",
			req:  leave.ApplyLeaveRequest{FromDate: "2024-06-12", ToDate: "2024-06-10", LeaveType: leave.LeaveTypeCasual},
		},
		{
			name: "half day over several days",
			req:  leave.ApplyLeaveRequest{FromDate: "2024-06-10", ToDate: "2024-06-11", LeaveType: leave.LeaveTypeCasual, DayType: leave.DayTypeHalf, HalfDaySession: &morning},
		},
		{
			name: "half day without session",
			req:  leave.ApplyLeaveRequest{FromDate: "2024-06-10", ToDate: "2024-06-10", LeaveType: leave.LeaveTypeCasual, DayType: leave.DayTypeHalf},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			tt.req.EmployeeID = "emp-1"

			_, err := f.svc.ApplyForLeave(context.Background(), tt.req)
			assert.ErrorIs(t, err, leave.ErrInvalidLeaveRequest)
		})
	}
}

func TestLeaveService_ApplyForLeave_UnknownEmployee(t *testing.T) {
	f := setup(t)

	_, err := f.svc.ApplyForLeave(context.Background(), leave.ApplyLeaveRequest{
		EmployeeID: "ghost",
		FromDate:   "2024-06-10",
		ToDate:     "2024-06-10",
		LeaveType:  leave.LeaveTypeCasual,
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestLeaveService_ApplyForLeave_MonthlyBudgetUnderConcurrency(t *testing.T) {
	f := setup(t)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 1; i <= 10; i++ {
		wg.Add(1)
		go func(day int) {
			defer wg.Done()
			_, err := f.svc.ApplyForLeave(context.Background(), leave.ApplyLeaveRequest{
				EmployeeID: "emp-1",
				FromDate:   fmt.Sprintf("2024-06-%02d", day),
				ToDate:     fmt.Sprintf("2024-06-%02d", day),
				LeaveType:  leave.LeaveTypeCasual,
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	requests, err := f.svc.GetEmployeeLeaves(context.Background(), leave.LeaveRequestFilter{EmployeeID: "emp-1"})
	require.NoError(t, err)
	require.Len(t, requests, 10)

	paid := 0
	for _, r := range requests {
		days, err := f.svc.GetLeaveRequestDays(context.Background(), r.ID)
		require.NoError(t, err)
		for _, d := range days {
			if d.PayCategory == leave.PayCategoryPaid {
				paid++
			}
		}
	}
	assert.Equal(t, 1, paid)
}

func TestLeaveService_Sandwich_HolidayGapBetweenApprovedLeaves(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.addHolidays(t, "2024-01-04", "2024-01-05", "2024-01-06")

	first := f.apply(t, "2024-01-01", "2024-01-03", leave.LeaveTypeCasual)
	f.decide(t, first.ID, leave.LeaveStatusApproved)

	second := f.apply(t, "2024-01-07", "2024-01-09", leave.LeaveTypeCasual)

	var flagged []time.Time
	for _, d := range second.Days {
		if d.SandwichFlag {
			assert.Equal(t, leave.PayCategoryUnpaid, d.PayCategory)
			flagged = append(flagged, d.Date)
		}
	}
	assert.Equal(t, []time.Time{
		calendar.Date(2024, time.January, 4),
		calendar.Date(2024, time.January, 5),
		calendar.Date(2024, time.January, 6),
	}, flagged)

	// Approving the second request finds the gap again but must not flag twice.
	f.decide(t, second.ID, leave.LeaveStatusApproved)

	sandwich, err := f.svc.GetSandwichLeaves(ctx, "emp-1", calendar.Date(2024, time.January, 1), calendar.Date(2024, time.January, 31))
	require.NoError(t, err)
	assert.Len(t, sandwich, 3)

	st, err := f.svc.GetEmployeeLeaveStats(ctx, "emp-1", 2024, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, st.SandwichLeaveCount)

	withContext, err := f.svc.GetSandwichLeavesWithContext(ctx, "emp-1", calendar.Date(2024, time.January, 1), calendar.Date(2024, time.January, 31))
	require.NoError(t, err)
	require.Len(t, withContext, 3)
	assert.Equal(t, "2024-01-04", withContext[0].Date)
	assert.Equal(t, "Holiday 2024-01-04", withContext[0].HolidayName)
	require.NotNil(t, withContext[0].PreviousLeave)
	require.NotNil(t, withContext[0].NextLeave)
	assert.Equal(t, first.ID, withContext[0].PreviousLeave.ID)
	assert.Equal(t, second.ID, withContext[0].NextLeave.ID)
	assert.Contains(t, withContext[0].Message, "2024-01-03")
}

func TestLeaveService_Sandwich_DetectedOnApproval(t *testing.T) {
	f := setup(t)
	f.addHolidays(t, "2024-01-04")

	first := f.apply(t, "2024-01-01", "2024-01-03", leave.LeaveTypeCasual)
	second := f.apply(t, "2024-01-05", "2024-01-06", leave.LeaveTypeEarned)
	assert.Len(t, second.Days, 2)

	f.decide(t, first.ID, leave.LeaveStatusApproved)
	approved := f.decide(t, second.ID, leave.LeaveStatusApproved)

	require.Len(t, approved.Days, 3)
	assert.True(t, approved.Days[0].SandwichFlag)
	assert.Equal(t, calendar.Date(2024, time.January, 4), approved.Days[0].Date)
}

func TestLeaveService_Sandwich_WorkingDayInGap(t *testing.T) {
	f := setup(t)
	f.addHolidays(t, "2024-01-04", "2024-01-05")

	first := f.apply(t, "2024-01-01", "2024-01-03", leave.LeaveTypeCasual)
	f.decide(t, first.ID, leave.LeaveStatusApproved)
	second := f.apply(t, "2024-01-07", "2024-01-09", leave.LeaveTypeCasual)

	for _, d := range second.Days {
		assert.False(t, d.SandwichFlag, d.Date)
	}
}

func TestLeaveService_Sandwich_GapTooWide(t *testing.T) {
	f := setup(t)
	f.addHolidays(t, "2024-01-04", "2024-01-05", "2024-01-06", "2024-01-07")

	first := f.apply(t, "2024-01-01", "2024-01-03", leave.LeaveTypeCasual)
	f.decide(t, first.ID, leave.LeaveStatusApproved)
	second := f.apply(t, "2024-01-08", "2024-01-09", leave.LeaveTypeCasual)

	for _, d := range second.Days {
		assert.False(t, d.SandwichFlag, d.Date)
	}
}

func TestLeaveService_Sandwich_ReleasedOnRejection(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.addHolidays(t, "2024-01-04")

	first := f.apply(t, "2024-01-01", "2024-01-03", leave.LeaveTypeCasual)
	f.decide(t, first.ID, leave.LeaveStatusApproved)
	second := f.apply(t, "2024-01-05", "2024-01-05", leave.LeaveTypeCasual)
	f.decide(t, second.ID, leave.LeaveStatusRejected)

	sandwich, err := f.svc.GetSandwichLeaves(ctx, "emp-1", calendar.Date(2024, time.January, 1), calendar.Date(2024, time.January, 31))
	require.NoError(t, err)
	assert.Empty(t, sandwich)

	st, err := f.svc.GetEmployeeLeaveStats(ctx, "emp-1", 2024, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, st.SandwichLeaveCount)
}

func TestLeaveService_Sandwich_ReleasedWhenBoundingLeaveRevoked(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.addHolidays(t, "2024-01-04", "2024-01-05", "2024-01-06")

	first := f.apply(t, "2024-01-01", "2024-01-03", leave.LeaveTypeCasual)
	f.decide(t, first.ID, leave.LeaveStatusApproved)
	second := f.apply(t, "2024-01-07", "2024-01-09", leave.LeaveTypeCasual)
	f.decide(t, second.ID, leave.LeaveStatusApproved)

	f.decide(t, first.ID, leave.LeaveStatusRejected)

	sandwich, err := f.svc.GetSandwichLeaves(ctx, "emp-1", calendar.Date(2024, time.January, 1), calendar.Date(2024, time.January, 31))
	require.NoError(t, err)
	assert.Empty(t, sandwich)

	days, err := f.svc.GetLeaveRequestDays(ctx, second.ID)
	require.NoError(t, err)
	assert.Len(t, days, 3)

	st, err := f.svc.GetEmployeeLeaveStats(ctx, "emp-1", 2024, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, st.SandwichLeaveCount)
	assertDecimal(t, "0", st.PaidLeaveCount)
	assertDecimal(t, "3", st.UnpaidLeaveCount)

	// The holidays can sandwich again once a new bounding leave is approved.
	third := f.apply(t, "2024-01-02", "2024-01-03", leave.LeaveTypeEarned)
	f.decide(t, third.ID, leave.LeaveStatusApproved)

	sandwich, err = f.svc.GetSandwichLeaves(ctx, "emp-1", calendar.Date(2024, time.January, 1), calendar.Date(2024, time.January, 31))
	require.NoError(t, err)
	assert.Len(t, sandwich, 3)
}

func TestLeaveService_UpdateLeaveStatus_StatisticsFollowTransitions(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	lr := f.apply(t, "2024-06-10", "2024-06-12", leave.LeaveTypeCasual)
	approved := f.decide(t, lr.ID, leave.LeaveStatusApproved)

	assert.Equal(t, leave.LeaveStatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, "admin-1", *approved.ApprovedBy)
	assert.NotNil(t, approved.ActionAt)

	st, err := f.svc.GetEmployeeLeaveStats(ctx, "emp-1", 2024, 6)
	require.NoError(t, err)
	assert.Equal(t, 0, st.PendingLeaveCount)
	assert.Equal(t, 1, st.FullDayLeavesApproved)
	assertDecimal(t, "3", st.TotalLeavesApproved)
	assertDecimal(t, "1", st.PaidLeaveCount)
	assertDecimal(t, "2", st.UnpaidLeaveCount)
	assertDecimal(t, "0", st.LeavesRemaining)

	f.decide(t, lr.ID, leave.LeaveStatusRejected)

	st, err = f.svc.GetEmployeeLeaveStats(ctx, "emp-1", 2024, 6)
	require.NoError(t, err)
	assert.Equal(t, 1, st.RejectedLeaveCount)
	assert.Equal(t, 0, st.FullDayLeavesApproved)
	assertDecimal(t, "0", st.TotalLeavesApproved)
	assertDecimal(t, "0", st.PaidLeaveCount)
	assertDecimal(t, "1", st.LeavesRemaining)
	assert.Equal(t, 1, st.TotalLeaveRequests)
}

func TestLeaveService_UpdateLeaveStatus_HalfDayWeight(t *testing.T) {
	f := setup(t)
	afternoon := leave.SessionAfternoon

	lr, err := f.svc.ApplyForLeave(context.Background(), leave.ApplyLeaveRequest{
		EmployeeID:     "emp-1",
		FromDate:       "2024-06-10",
		ToDate:         "2024-06-10",
		LeaveType:      leave.LeaveTypeSick,
		DayType:        leave.DayTypeHalf,
		HalfDaySession: &afternoon,
	})
	require.NoError(t, err)
	f.decide(t, lr.ID, leave.LeaveStatusApproved)

	st, err := f.svc.GetEmployeeLeaveStats(context.Background(), "emp-1", 2024, 6)
	require.NoError(t, err)
	assert.Equal(t, 1, st.HalfDayLeavesApproved)
	assertDecimal(t, "0.5", st.TotalLeavesApproved)
	assertDecimal(t, "0.5", st.PaidLeaveCount)
	assertDecimal(t, "0.5", st.LeavesRemaining)
}

func TestLeaveService_UpdateLeaveStatus_IllegalTransitions(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	lr := f.apply(t, "2024-06-10", "2024-06-10", leave.LeaveTypeCasual)
	f.decide(t, lr.ID, leave.LeaveStatusRejected)

	_, err := f.svc.UpdateLeaveStatus(ctx, leave.UpdateLeaveStatusRequest{ID: lr.ID, Status: leave.LeaveStatusApproved, ApprovedBy: "admin-1"})
	assert.ErrorIs(t, err, leave.ErrInvalidStatusTransition)

	other := f.apply(t, "2024-06-20", "2024-06-20", leave.LeaveTypeCasual)
	_, err = f.svc.UpdateLeaveStatus(ctx, leave.UpdateLeaveStatusRequest{ID: other.ID, Status: leave.LeaveStatusPending, ApprovedBy: "admin-1"})
	assert.ErrorIs(t, err, leave.ErrInvalidStatusTransition)
}

func TestLeaveService_UpdateLeaveStatus_NotFound(t *testing.T) {
	f := setup(t)

	_, err := f.svc.UpdateLeaveStatus(context.Background(), leave.UpdateLeaveStatusRequest{ID: "missing", Status: leave.LeaveStatusApproved, ApprovedBy: "admin-1"})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)

	_, err = f.svc.GetLeaveRequest(context.Background(), "missing")
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestLeaveService_UpdateLeaveStatus_CompOffConsumesOvertimeCredit(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, err := f.employees.Create(ctx, employee.Employee{ID: "emp-2", FullName: "Bayu", Department: "Finance", PendingOTDays: 1})
	require.NoError(t, err)

	lr, err := f.svc.ApplyForLeave(ctx, leave.ApplyLeaveRequest{
		EmployeeID: "emp-2",
		FromDate:   "2024-06-10",
		ToDate:     "2024-06-11",
		LeaveType:  leave.LeaveTypeCompOff,
	})
	require.NoError(t, err)

	approved := f.decide(t, lr.ID, leave.LeaveStatusApproved)
	require.Len(t, approved.Days, 2)
	assert.True(t, approved.Days[0].OTCreditUsed)
	assert.False(t, approved.Days[1].OTCreditUsed)

	emp, err := f.employees.GetByID(ctx, "emp-2")
	require.NoError(t, err)
	assert.Equal(t, 0, emp.PendingOTDays)

	st, err := f.svc.GetEmployeeLeaveStats(ctx, "emp-2", 2024, 6)
	require.NoError(t, err)
	assert.Equal(t, 1, st.CompOffUsed)
}

func TestLeaveService_UpdateLeaveStatus_NotifiesEmployee(t *testing.T) {
	f := setup(t)

	lr := f.apply(t, "2024-06-10", "2024-06-10", leave.LeaveTypeCasual)
	f.decide(t, lr.ID, leave.LeaveStatusApproved)

	require.Len(t, f.sink.sent, 2)
	assert.Equal(t, notification.TypeLeaveRequestApproved, f.sink.sent[1])
	assert.Equal(t, "emp-1", f.sink.recip[1])
}

func TestLeaveService_GetEmployeeLeaveStats_EmptyMonth(t *testing.T) {
	f := setup(t)

	st, err := f.svc.GetEmployeeLeaveStats(context.Background(), "emp-1", 2024, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, st.TotalLeaveRequests)
	assertDecimal(t, "1", st.LeavesRemaining)
}
