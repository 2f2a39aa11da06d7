package permission

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/notification"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/permission"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-policy-engine/internal/repository/memory"
	attendanceService "github.com/cmlabs-hris/hris-policy-engine/internal/service/attendance"
	overtimeService "github.com/cmlabs-hris/hris-policy-engine/internal/service/overtime"
	policyService "github.com/cmlabs-hris/hris-policy-engine/internal/service/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopSink struct{}

func (nopSink) Notify(context.Context, string, notification.NotificationType, notification.Payload) {}

type fixture struct {
	svc        *PermissionServiceImpl
	attendance *attendanceService.AttendanceServiceImpl
	overtime   *overtimeService.OvertimeServiceImpl
	employees  employee.EmployeeRepository
}

func setup(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	empRepo := memory.NewEmployeeRepository(store)
	attRepo := memory.NewAttendanceRepository(store)
	policies := policyService.NewPolicyService(memory.NewPolicyRepository(store))

	_, err := empRepo.Create(context.Background(), employee.Employee{
		ID:             "emp-1",
		FullName:       "Sari Wulandari",
		Department:     "Operations",
		EmploymentType: employee.EmploymentTypeContract,
	})
	require.NoError(t, err)

	ot := overtimeService.NewOvertimeService(store, memory.NewOvertimeRepository(store), empRepo, attRepo, nopSink{})
	att := attendanceService.NewAttendanceService(store, attRepo, empRepo, policies, ot, time.UTC)
	svc := NewPermissionService(store, memory.NewPermissionRepository(store), attRepo, empRepo, policies, ot, nopSink{}, time.UTC)

	return fixture{svc: svc, attendance: att, overtime: ot, employees: empRepo}
}

var day = calendar.Date(2024, time.June, 10)

func clock(hour, minute int) time.Time {
	return calendar.NewTimeOfDay(hour, minute).On(day, time.UTC)
}

func (f fixture) work(t *testing.T, in, out time.Time) {
	t.Helper()
	ctx := context.Background()
	_, err := f.attendance.PunchIn(ctx, attendance.PunchRequest{EmployeeID: "emp-1", At: in})
	require.NoError(t, err)
	if !out.IsZero() {
		_, err = f.attendance.PunchOut(ctx, attendance.PunchRequest{EmployeeID: "emp-1", At: out})
		require.NoError(t, err)
	}
}

func (f fixture) request(t *testing.T, from, to string) permission.PermissionHours {
	t.Helper()
	p, err := f.svc.Create(context.Background(), permission.CreatePermissionRequest{
		EmployeeID: "emp-1",
		Date:       calendar.FormatDate(day),
		FromTime:   from,
		ToTime:     to,
		Reason:     "doctor appointment",
	})
	require.NoError(t, err)
	return p
}

func (f fixture) approve(t *testing.T, id string) permission.PermissionHours {
	t.Helper()
	p, err := f.svc.Approve(context.Background(), permission.DecisionRequest{ID: id, ActionBy: "admin-1"})
	require.NoError(t, err)
	return p
}

func (f fixture) today(t *testing.T) attendance.Attendance {
	t.Helper()
	rec, err := f.attendance.GetDay(context.Background(), "emp-1", day)
	require.NoError(t, err)
	return rec
}

func TestPermissionService_Approve_WidensPunchInAndRecomputes(t *testing.T) {
	f := setup(t)
	f.work(t, clock(10, 0), clock(17, 0))
	before := f.today(t)
	require.Equal(t, attendance.StatusHalfDay, before.Status)
	require.True(t, before.IsLateLogin)

	p := f.approve(t, f.request(t, "08:30", "17:00").ID)
	assert.Equal(t, permission.StatusApproved, p.Status)

	rec := f.today(t)
	assert.Equal(t, clock(8, 30), rec.PunchIn.UTC())
	assert.Equal(t, clock(17, 0), rec.PunchOut.UTC())
	assert.Equal(t, 8.5, rec.HoursWorked)
	assert.Equal(t, attendance.StatusPresentOnTime, rec.Status)
	assert.False(t, rec.IsLateLogin)
	assert.Equal(t, 0.0, rec.IdleTime)
	assert.True(t, rec.ManualApproval)
	require.NotNil(t, rec.Remarks)
	assert.Equal(t, permission.WideningRemark, *rec.Remarks)
}

func TestPermissionService_Approve_NeverNarrows(t *testing.T) {
	f := setup(t)
	f.work(t, clock(8, 0), clock(19, 0))

	f.approve(t, f.request(t, "09:00", "18:00").ID)

	rec := f.today(t)
	assert.Equal(t, clock(8, 0), rec.PunchIn.UTC())
	assert.Equal(t, clock(19, 0), rec.PunchOut.UTC())
	assert.Equal(t, 11.0, rec.HoursWorked)
	assert.False(t, rec.ManualApproval)
	assert.Nil(t, rec.Remarks)
}

func TestPermissionService_Approve_WidensPunchOutOnly(t *testing.T) {
	f := setup(t)
	f.work(t, clock(9, 0), clock(16, 0))

	f.approve(t, f.request(t, "15:00", "18:30").ID)

	rec := f.today(t)
	assert.Equal(t, clock(9, 0), rec.PunchIn.UTC())
	assert.Equal(t, clock(18, 30), rec.PunchOut.UTC())
	assert.Equal(t, 9.5, rec.HoursWorked)
	assert.Equal(t, attendance.StatusPresentOnTime, rec.Status)
}

func TestPermissionService_Approve_CreatesMissingAttendance(t *testing.T) {
	f := setup(t)

	f.approve(t, f.request(t, "09:00", "13:00").ID)

	rec := f.today(t)
	assert.Equal(t, clock(9, 0), rec.PunchIn.UTC())
	assert.Equal(t, clock(13, 0), rec.PunchOut.UTC())
	assert.Equal(t, 4.0, rec.HoursWorked)
	assert.Equal(t, attendance.StatusHalfDay, rec.Status)
	assert.Equal(t, 4.0, rec.IdleTime)
	assert.True(t, rec.ManualApproval)
}

func TestPermissionService_Approve_OpenDayKeepsPunchOutOpen(t *testing.T) {
	f := setup(t)
	f.work(t, clock(10, 0), time.Time{})

	f.approve(t, f.request(t, "08:00", "18:00").ID)

	rec := f.today(t)
	assert.Equal(t, clock(8, 0), rec.PunchIn.UTC())
	assert.Nil(t, rec.PunchOut)
	assert.Equal(t, attendance.StatusAbsent, rec.Status)
	assert.False(t, rec.IsLateLogin)
}

func TestPermissionService_Approve_CreditsOvertimeAfterWidening(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, err := f.overtime.AllocateOvertimeAdmin(ctx, overtime.AllocateRequest{EmployeeID: "emp-1", Date: calendar.FormatDate(day)})
	require.NoError(t, err)
	f.work(t, clock(9, 0), clock(12, 0))
	require.False(t, f.today(t).IsOTDay)

	f.approve(t, f.request(t, "09:00", "14:00").ID)

	assert.True(t, f.today(t).IsOTDay)
	emp, err := f.employees.GetByID(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 1, emp.PendingOTDays)
}

func TestPermissionService_Decide_OnlyFromPending(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.request(t, "09:00", "13:00")
	f.approve(t, p.ID)

	_, err := f.svc.Approve(ctx, permission.DecisionRequest{ID: p.ID, ActionBy: "admin-1"})
	assert.ErrorIs(t, err, permission.ErrPermissionNotPending)

	_, err = f.svc.Reject(ctx, permission.DecisionRequest{ID: p.ID, ActionBy: "admin-1"})
	assert.ErrorIs(t, err, permission.ErrPermissionNotPending)

	_, err = f.svc.Approve(ctx, permission.DecisionRequest{ID: "missing", ActionBy: "admin-1"})
	assert.ErrorIs(t, err, permission.ErrPermissionNotFound)
}

func TestPermissionService_Reject_LeavesAttendanceAlone(t *testing.T) {
	f := setup(t)
	comments := "not covered"
	p := f.request(t, "09:00", "13:00")

	rejected, err := f.svc.Reject(context.Background(), permission.DecisionRequest{ID: p.ID, ActionBy: "admin-1", Comments: &comments})
	require.NoError(t, err)
	assert.Equal(t, permission.StatusRejected, rejected.Status)
	require.NotNil(t, rejected.ActionComments)
	assert.Equal(t, comments, *rejected.ActionComments)

	_, err = f.attendance.GetDay(context.Background(), "emp-1", day)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestPermissionService_UpdateAndDelete_OnlyWhilePending(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.request(t, "09:00", "13:00")

	later := "14:00"
	updated, err := f.svc.Update(ctx, permission.UpdatePermissionRequest{ID: p.ID, ToTime: &later})
	require.NoError(t, err)
	assert.Equal(t, calendar.NewTimeOfDay(14, 0), updated.ToTime)
	assert.Equal(t, 5.0, updated.Hours())

	early := "08:00"
	_, err = f.svc.Update(ctx, permission.UpdatePermissionRequest{ID: p.ID, ToTime: &early})
	assert.ErrorIs(t, err, permission.ErrInvalidWindow)

	f.approve(t, p.ID)

	_, err = f.svc.Update(ctx, permission.UpdatePermissionRequest{ID: p.ID, ToTime: &later})
	assert.ErrorIs(t, err, permission.ErrPermissionNotPending)
	assert.ErrorIs(t, f.svc.Delete(ctx, p.ID), permission.ErrPermissionNotPending)
}

func TestPermissionService_Delete_Pending(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.request(t, "09:00", "13:00")

	require.NoError(t, f.svc.Delete(ctx, p.ID))

	_, err := f.svc.Get(ctx, p.ID)
	assert.ErrorIs(t, err, permission.ErrPermissionNotFound)
}

func TestPermissionService_Create_RejectsReversedWindow(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Create(context.Background(), permission.CreatePermissionRequest{
		EmployeeID: "emp-1",
		Date:       "2024-06-10",
		FromTime:   "13:00",
		ToTime:     "09:00",
		Reason:     "errand",
	})
	assert.Error(t, err)
}
