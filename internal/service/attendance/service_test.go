package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/notification"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-policy-engine/internal/repository/memory"
	overtimeService "github.com/cmlabs-hris/hris-policy-engine/internal/service/overtime"
	policyService "github.com/cmlabs-hris/hris-policy-engine/internal/service/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopSink struct{}

func (nopSink) Notify(context.Context, string, notification.NotificationType, notification.Payload) {}

type fixture struct {
	svc      *AttendanceServiceImpl
	ot       *overtimeService.OvertimeServiceImpl
	employee employee.EmployeeRepository
}

func setup(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	empRepo := memory.NewEmployeeRepository(store)
	attRepo := memory.NewAttendanceRepository(store)

	_, err := empRepo.Create(context.Background(), employee.Employee{
		ID:             "emp-1",
		FullName:       "Dana Putri",
		Department:     "Engineering",
		EmploymentType: employee.EmploymentTypePermanent,
	})
	require.NoError(t, err)

	ot := overtimeService.NewOvertimeService(store, memory.NewOvertimeRepository(store), empRepo, attRepo, nopSink{})
	svc := NewAttendanceService(store, attRepo, empRepo, policyService.NewPolicyService(memory.NewPolicyRepository(store)), ot, time.UTC)
	return fixture{svc: svc, ot: ot, employee: empRepo}
}

func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.June, day, hour, minute, 0, 0, time.UTC)
}

func punch(employeeID string, t time.Time) attendance.PunchRequest {
	return attendance.PunchRequest{EmployeeID: employeeID, At: t}
}

func TestAttendanceService_PunchIn_LateCreatesRecordAndCounts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	rec, err := f.svc.PunchIn(ctx, punch("emp-1", at(10, 9, 45)))
	require.NoError(t, err)

	assert.True(t, rec.IsLateLogin)
	assert.Equal(t, attendance.StatusAbsent, rec.Status)
	assert.Equal(t, 8.0, rec.IdleTime)
	assert.Equal(t, calendar.Date(2024, time.June, 10), rec.Date)

	count, err := f.svc.GetLateLoginCount(ctx, "emp-1", 2024, 6)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAttendanceService_PunchIn_Twice(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.PunchIn(ctx, punch("emp-1", at(10, 9, 0)))
	require.NoError(t, err)

	_, err = f.svc.PunchIn(ctx, punch("emp-1", at(10, 10, 0)))
	assert.ErrorIs(t, err, attendance.ErrAlreadyPunchedIn)
}

func TestAttendanceService_PunchIn_OutsideWindow(t *testing.T) {
	f := setup(t)

	_, err := f.svc.PunchIn(context.Background(), punch("emp-1", at(10, 6, 30)))
	assert.ErrorIs(t, err, attendance.ErrOutsidePunchWindow)
}

func TestAttendanceService_PunchIn_UnknownEmployee(t *testing.T) {
	f := setup(t)

	_, err := f.svc.PunchIn(context.Background(), punch("nobody", at(10, 9, 0)))
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestAttendanceService_PunchOut_WithoutPunchIn(t *testing.T) {
	f := setup(t)

	_, err := f.svc.PunchOut(context.Background(), punch("emp-1", at(10, 18, 0)))
	assert.ErrorIs(t, err, attendance.ErrNotPunchedIn)
}

func TestAttendanceService_PunchOut_LateButPresent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.PunchIn(ctx, punch("emp-1", at(10, 9, 45)))
	require.NoError(t, err)

	rec, err := f.svc.PunchOut(ctx, punch("emp-1", at(10, 18, 0)))
	require.NoError(t, err)

	assert.Equal(t, 8.25, rec.HoursWorked)
	assert.Equal(t, attendance.StatusPresentOnTime, rec.Status)
	assert.True(t, rec.IsLateLogin)
	assert.Equal(t, 0.0, rec.IdleTime)
	assert.False(t, rec.IsOTDay)

	_, err = f.svc.PunchOut(ctx, punch("emp-1", at(10, 19, 0)))
	assert.ErrorIs(t, err, attendance.ErrAlreadyPunchedOut)
}

func TestAttendanceService_PunchOut_ClosesPreviousDayAfterMidnight(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.PunchIn(ctx, punch("emp-1", at(10, 20, 0)))
	require.NoError(t, err)

	rec, err := f.svc.PunchOut(ctx, punch("emp-1", at(11, 1, 0)))
	require.NoError(t, err)

	assert.Equal(t, calendar.Date(2024, time.June, 10), rec.Date)
	assert.Equal(t, 5.0, rec.HoursWorked)
	assert.Equal(t, attendance.StatusHalfDay, rec.Status)
	assert.Equal(t, 3.0, rec.IdleTime)
}

func TestAttendanceService_PunchOut_CreditsApprovedOvertimeOnce(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.ot.AllocateOvertimeAdmin(ctx, overtime.AllocateRequest{
		EmployeeID: "emp-1",
		Date:       "2024-06-15",
		Type:       overtime.TypeIncentiveOT,
	})
	require.NoError(t, err)

	_, err = f.svc.PunchIn(ctx, punch("emp-1", at(15, 9, 0)))
	require.NoError(t, err)
	rec, err := f.svc.PunchOut(ctx, punch("emp-1", at(15, 13, 30)))
	require.NoError(t, err)
	assert.True(t, rec.IsOTDay)

	credited, err := f.ot.UpdateOTStatsAfterPunchOut(ctx, "emp-1", rec.Date, rec.HoursWorked)
	require.NoError(t, err)
	assert.False(t, credited)

	emp, err := f.employee.GetByID(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 1, emp.IncentiveOTDays)
	assert.Equal(t, 0, emp.PendingOTDays)
}

func TestAttendanceService_PunchOut_ShortDayDoesNotCredit(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.ot.AllocateOvertimeAdmin(ctx, overtime.AllocateRequest{EmployeeID: "emp-1", Date: "2024-06-15"})
	require.NoError(t, err)

	_, err = f.svc.PunchIn(ctx, punch("emp-1", at(15, 9, 0)))
	require.NoError(t, err)
	rec, err := f.svc.PunchOut(ctx, punch("emp-1", at(15, 12, 0)))
	require.NoError(t, err)
	assert.False(t, rec.IsOTDay)

	emp, err := f.employee.GetByID(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 0, emp.PendingOTDays)
}

func TestAttendanceService_CloseOpenPunches(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.PunchIn(ctx, punch("emp-1", at(10, 9, 0)))
	require.NoError(t, err)

	closed, err := f.svc.CloseOpenPunches(ctx, calendar.Date(2024, time.June, 10))
	require.NoError(t, err)
	assert.Equal(t, 1, closed)

	rec, err := f.svc.GetDay(ctx, "emp-1", calendar.Date(2024, time.June, 10))
	require.NoError(t, err)
	require.NotNil(t, rec.PunchOut)
	assert.Equal(t, at(10, 18, 0), rec.PunchOut.UTC())
	assert.Equal(t, 9.0, rec.HoursWorked)
	assert.Equal(t, attendance.StatusPresentOnTime, rec.Status)
	require.NotNil(t, rec.Remarks)
	assert.Equal(t, AutoPunchOutRemark, *rec.Remarks)

	closed, err = f.svc.CloseOpenPunches(ctx, calendar.Date(2024, time.June, 10))
	require.NoError(t, err)
	assert.Equal(t, 0, closed)
}

func TestAttendanceService_CloseOpenPunches_PunchInAfterOfficeEnd(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.PunchIn(ctx, punch("emp-1", at(10, 19, 0)))
	require.NoError(t, err)

	_, err = f.svc.CloseOpenPunches(ctx, calendar.Date(2024, time.June, 10))
	require.NoError(t, err)

	rec, err := f.svc.GetDay(ctx, "emp-1", calendar.Date(2024, time.June, 10))
	require.NoError(t, err)
	assert.Equal(t, 0.0, rec.HoursWorked)
	assert.Equal(t, attendance.StatusAbsent, rec.Status)
}

func TestAttendanceService_List_DefaultsToCurrentMonth(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.svc.now = func() time.Time { return at(20, 12, 0) }

	_, err := f.svc.PunchIn(ctx, punch("emp-1", at(3, 9, 0)))
	require.NoError(t, err)
	_, err = f.svc.PunchIn(ctx, punch("emp-1", at(12, 9, 0)))
	require.NoError(t, err)

	records, err := f.svc.List(ctx, attendance.AttendanceFilter{EmployeeID: "emp-1"})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, calendar.Date(2024, time.June, 3), records[0].Date)
}
