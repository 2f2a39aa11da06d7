package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/auth"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-policy-engine/internal/repository/memory"
	attendanceService "github.com/cmlabs-hris/hris-policy-engine/internal/service/attendance"
	employeeService "github.com/cmlabs-hris/hris-policy-engine/internal/service/employee"
	holidayService "github.com/cmlabs-hris/hris-policy-engine/internal/service/holiday"
	leaveService "github.com/cmlabs-hris/hris-policy-engine/internal/service/leave"
	notificationService "github.com/cmlabs-hris/hris-policy-engine/internal/service/notification"
	overtimeService "github.com/cmlabs-hris/hris-policy-engine/internal/service/overtime"
	permissionService "github.com/cmlabs-hris/hris-policy-engine/internal/service/permission"
	policyService "github.com/cmlabs-hris/hris-policy-engine/internal/service/policy"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type testApp struct {
	router *chi.Mux
	jwt    jwt.Service
}

func newTestApp(t *testing.T) testApp {
	t.Helper()
	store := memory.NewStore()
	employees := memory.NewEmployeeRepository(store)
	holidays := memory.NewHolidayRepository(store)
	attendanceRepo := memory.NewAttendanceRepository(store)

	for _, e := range []employee.Employee{
		{ID: "emp-1", FullName: "Rina Saputra", Department: "Engineering", EmploymentType: employee.EmploymentTypePermanent},
		{ID: "emp-2", FullName: "Budi Santoso", Department: "Engineering", EmploymentType: employee.EmploymentTypePermanent},
	} {
		_, err := employees.Create(context.Background(), e)
		require.NoError(t, err)
	}

	hub := sse.NewHub()
	notifSvc := notificationService.NewNotificationService(memory.NewNotificationRepository(store), hub, notificationService.Config{
		BatchSize:     1,
		FlushInterval: 10 * time.Millisecond,
		WorkerCount:   1,
	})
	t.Cleanup(func() {
		notifSvc.Stop()
		hub.Close()
	})

	policySvc := policyService.NewPolicyService(memory.NewPolicyRepository(store))
	overtimeSvc := overtimeService.NewOvertimeService(store, memory.NewOvertimeRepository(store), employees, attendanceRepo, notifSvc)
	attendanceSvc := attendanceService.NewAttendanceService(store, attendanceRepo, employees, policySvc, overtimeSvc, time.UTC)
	leaveSvc := leaveService.NewLeaveService(store, memory.NewLeaveRequestRepository(store), memory.NewLeaveRequestDayRepository(store),
		memory.NewLeaveStatisticsRepository(store), holidays, employees, notifSvc)
	permissionSvc := permissionService.NewPermissionService(store, memory.NewPermissionRepository(store), attendanceRepo, employees,
		policySvc, overtimeSvc, notifSvc, time.UTC)

	jwtService := jwt.NewJWTService(handlerTestSecret, time.Hour)
	router := NewRouter(RouterOptions{AllowedOrigins: []string{"http://localhost:3000"}, Env: "test"}, jwtService, Handlers{
		Attendance:   NewAttendanceHandler(attendanceSvc),
		Leave:        NewLeaveHandler(leaveSvc),
		Overtime:     NewOvertimeHandler(overtimeSvc),
		Permission:   NewPermissionHandler(permissionSvc),
		Holiday:      NewHolidayHandler(holidayService.NewHolidayService(holidays)),
		Policy:       NewPolicyHandler(policySvc),
		Employee:     NewEmployeeHandler(employeeService.NewEmployeeService(employees)),
		Notification: NewNotificationHandler(notifSvc),
	})

	return testApp{router: router, jwt: jwtService}
}

func (a testApp) token(t *testing.T, employeeID string, role auth.Role) string {
	t.Helper()
	token, _, err := a.jwt.GenerateAccessToken(employeeID, role)
	require.NoError(t, err)
	return token
}

func (a testApp) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var resp map[string]any
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func data(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()
	d, ok := resp["data"].(map[string]any)
	require.True(t, ok, "response has no data object: %v", resp)
	return d
}

func errorCode(resp map[string]any) string {
	e, _ := resp["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func TestRouter_Heartbeat(t *testing.T) {
	app := newTestApp(t)
	req := httptest.NewRequest(http.MethodGet, "/heartbeat", nil)
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_Auth(t *testing.T) {
	app := newTestApp(t)

	t.Run("missing token", func(t *testing.T) {
		w, resp := app.do(t, http.MethodGet, "/api/v1/attendance", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, resp["success"].(bool))
	})

	t.Run("foreign signature", func(t *testing.T) {
		other := jwt.NewJWTService("another-secret", time.Hour)
		token, _, err := other.GenerateAccessToken("emp-1", auth.RoleEmployee)
		require.NoError(t, err)
		w, _ := app.do(t, http.MethodGet, "/api/v1/attendance", token, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("employee on admin route", func(t *testing.T) {
		w, resp := app.do(t, http.MethodGet, "/api/v1/admin/policies", app.token(t, "emp-1", auth.RoleEmployee), nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "FORBIDDEN", errorCode(resp))
	})

	t.Run("admin without employee claim on self-service route", func(t *testing.T) {
		w, _ := app.do(t, http.MethodPost, "/api/v1/attendance/punch-in", app.token(t, "", auth.RoleAdmin), nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestAttendanceHandler_PunchFlow(t *testing.T) {
	app := newTestApp(t)
	token := app.token(t, "emp-1", auth.RoleEmployee)

	w, resp := app.do(t, http.MethodPost, "/api/v1/attendance/punch-in", token, map[string]string{"timestamp": "2024-06-10T08:55:00Z"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "2024-06-10", data(t, resp)["date"])
	assert.Equal(t, false, data(t, resp)["is_late_login"])

	w, resp = app.do(t, http.MethodPost, "/api/v1/attendance/punch-in", token, map[string]string{"timestamp": "2024-06-10T09:05:00Z"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", errorCode(resp))

	w, resp = app.do(t, http.MethodPost, "/api/v1/attendance/punch-out", token, map[string]string{"timestamp": "2024-06-10T17:30:00Z"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "PRESENT_ON_TIME", data(t, resp)["status"])

	w, resp = app.do(t, http.MethodGet, "/api/v1/attendance/2024-06-10", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.InDelta(t, 8.58, data(t, resp)["hours_worked"].(float64), 0.01)

	w, resp = app.do(t, http.MethodGet, "/api/v1/attendance?from=2024-06-01&to=2024-06-30", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp["data"], 1)
}

func TestAttendanceHandler_Errors(t *testing.T) {
	app := newTestApp(t)
	token := app.token(t, "emp-1", auth.RoleEmployee)

	t.Run("punch out without punch in", func(t *testing.T) {
		w, resp := app.do(t, http.MethodPost, "/api/v1/attendance/punch-out", token, map[string]string{"timestamp": "2024-06-12T17:00:00Z"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "ILLEGAL_STATE", errorCode(resp))
	})

	t.Run("outside punch window", func(t *testing.T) {
		w, _ := app.do(t, http.MethodPost, "/api/v1/attendance/punch-in", token, map[string]string{"timestamp": "2024-06-12T05:00:00Z"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad timestamp", func(t *testing.T) {
		w, resp := app.do(t, http.MethodPost, "/api/v1/attendance/punch-in", token, map[string]string{"timestamp": "yesterday"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(resp))
	})

	t.Run("malformed body", func(t *testing.T) {
		w, _ := app.do(t, http.MethodPost, "/api/v1/attendance/punch-in", token, "{not json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown day", func(t *testing.T) {
		w, _ := app.do(t, http.MethodGet, "/api/v1/attendance/2024-01-01", token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("admin list requires employee_id", func(t *testing.T) {
		w, _ := app.do(t, http.MethodGet, "/api/v1/admin/attendance", app.token(t, "", auth.RoleAdmin), nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestAttendanceHandler_CloseOpenPunches(t *testing.T) {
	app := newTestApp(t)

	w, _ := app.do(t, http.MethodPost, "/api/v1/attendance/punch-in", app.token(t, "emp-1", auth.RoleEmployee), map[string]string{"timestamp": "2024-06-10T09:00:00Z"})
	require.Equal(t, http.StatusOK, w.Code)

	w, resp := app.do(t, http.MethodPost, "/api/v1/admin/attendance/close-open?date=2024-06-10", app.token(t, "", auth.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(1), data(t, resp)["closed"])
}

func TestLeaveHandler_ApplyApproveAndStats(t *testing.T) {
	app := newTestApp(t)
	token := app.token(t, "emp-1", auth.RoleEmployee)
	admin := app.token(t, "", auth.RoleAdmin)

	w, resp := app.do(t, http.MethodPost, "/api/v1/leaves", token, map[string]any{
		"from_date":  "2024-06-11",
		"to_date":    "2024-06-11",
		"leave_type": "casual",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := data(t, resp)
	id := created["id"].(string)
	assert.Equal(t, "PENDING", created["status"])
	assert.Equal(t, "CASUAL", created["leave_type"])

	w, resp = app.do(t, http.MethodGet, "/api/v1/leaves/"+id+"/days", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp["data"], 1)

	w, resp = app.do(t, http.MethodPatch, "/api/v1/admin/leaves/"+id+"/status", admin, map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "APPROVED", data(t, resp)["status"])

	w, resp = app.do(t, http.MethodGet, "/api/v1/leaves/stats?year=2024&month=6", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), data(t, resp)["full_day_leaves_approved"])

	w, resp = app.do(t, http.MethodGet, "/api/v1/leaves?year=2024&month=6&status=APPROVED", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp["data"], 1)

	w, resp = app.do(t, http.MethodPatch, "/api/v1/admin/leaves/"+id+"/status", admin, map[string]string{"status": "PENDING"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ILLEGAL_STATE", errorCode(resp))
}

func TestLeaveHandler_Visibility(t *testing.T) {
	app := newTestApp(t)

	w, resp := app.do(t, http.MethodPost, "/api/v1/leaves", app.token(t, "emp-1", auth.RoleEmployee), map[string]any{
		"from_date":  "2024-06-11",
		"to_date":    "2024-06-12",
		"leave_type": "UNPAID",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := data(t, resp)["id"].(string)

	w, _ = app.do(t, http.MethodGet, "/api/v1/leaves/"+id, app.token(t, "emp-2", auth.RoleEmployee), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = app.do(t, http.MethodGet, "/api/v1/admin/leaves/"+id, app.token(t, "", auth.RoleAdmin), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLeaveHandler_Validation(t *testing.T) {
	app := newTestApp(t)
	token := app.token(t, "emp-1", auth.RoleEmployee)

	w, resp := app.do(t, http.MethodPost, "/api/v1/leaves", token, map[string]any{
		"from_date":  "2024-06-11",
		"to_date":    "11/06/2024",
		"leave_type": "VACATION",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	details := resp["error"].(map[string]any)["details"].(map[string]any)
	assert.Contains(t, details, "to_date")
	assert.Contains(t, details, "leave_type")

	w, _ = app.do(t, http.MethodGet, "/api/v1/leaves?month=6", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHolidayHandler_CRUD(t *testing.T) {
	app := newTestApp(t)
	admin := app.token(t, "", auth.RoleAdmin)

	w, resp := app.do(t, http.MethodPost, "/api/v1/admin/holidays", admin, map[string]string{"date": "2024-08-17", "name": "Independence Day"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := data(t, resp)["id"].(string)

	w, _ = app.do(t, http.MethodPost, "/api/v1/admin/holidays", admin, map[string]string{"date": "2024-08-17", "name": "Duplicate"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, resp = app.do(t, http.MethodGet, "/api/v1/holidays?from=2024-08-01&to=2024-08-31", app.token(t, "emp-1", auth.RoleEmployee), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp["data"], 1)

	w, resp = app.do(t, http.MethodPut, "/api/v1/admin/holidays/"+id, admin, map[string]string{"name": "Hari Merdeka"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hari Merdeka", data(t, resp)["name"])

	w, _ = app.do(t, http.MethodDelete, "/api/v1/admin/holidays/"+id, admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = app.do(t, http.MethodGet, "/api/v1/admin/holidays/"+id, admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPolicyHandler_UpsertResolveDelete(t *testing.T) {
	app := newTestApp(t)
	admin := app.token(t, "", auth.RoleAdmin)

	w, resp := app.do(t, http.MethodPut, "/api/v1/admin/policies", admin, map[string]any{
		"department":           "Engineering",
		"punch_in_start":       "06:00",
		"punch_out_end":        "22:00",
		"office_start":         "10:00",
		"office_end":           "19:00",
		"late_login_threshold": "10:15",
		"half_day_threshold":   4.5,
		"full_day_threshold":   9,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "10:15", data(t, resp)["late_login_threshold"])

	w, resp = app.do(t, http.MethodGet, "/api/v1/admin/policies/Engineering?employment_type=PERMANENT", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(9), data(t, resp)["full_day_threshold"])

	w, _ = app.do(t, http.MethodPut, "/api/v1/admin/policies", admin, map[string]any{"department": "Engineering"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = app.do(t, http.MethodDelete, "/api/v1/admin/policies/Engineering", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp = app.do(t, http.MethodGet, "/api/v1/admin/policies/Engineering", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(8), data(t, resp)["full_day_threshold"])
}

func TestOvertimeHandler_RequestAndApprove(t *testing.T) {
	app := newTestApp(t)
	token := app.token(t, "emp-1", auth.RoleEmployee)
	admin := app.token(t, "", auth.RoleAdmin)

	w, resp := app.do(t, http.MethodPost, "/api/v1/overtime", token, map[string]string{"date": "2024-06-15"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := data(t, resp)["id"].(string)
	assert.Equal(t, "PENDING_OT", data(t, resp)["type"])

	w, _ = app.do(t, http.MethodPost, "/api/v1/overtime", token, map[string]string{"date": "2024-06-15"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, resp = app.do(t, http.MethodPost, "/api/v1/admin/overtime/"+id+"/approve", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "APPROVED", data(t, resp)["status"])

	w, resp = app.do(t, http.MethodPost, "/api/v1/admin/overtime/"+id+"/reject", admin, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ILLEGAL_STATE", errorCode(resp))

	w, resp = app.do(t, http.MethodGet, "/api/v1/overtime?status=approved", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp["data"], 1)
}

func TestOvertimeHandler_BulkAllocate(t *testing.T) {
	app := newTestApp(t)
	admin := app.token(t, "", auth.RoleAdmin)

	w, resp := app.do(t, http.MethodPost, "/api/v1/admin/overtime/bulk", admin, map[string]any{
		"employee_ids": []string{"emp-1", "emp-404"},
		"date":         "2024-06-16",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := data(t, resp)
	assert.Len(t, result["allocated"], 1)
	assert.Len(t, result["failed"], 1)

	w, resp = app.do(t, http.MethodPost, "/api/v1/admin/overtime/department", admin, map[string]string{
		"department": "Engineering",
		"date":       "2024-06-17",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, data(t, resp)["allocated"], 2)
}

func TestPermissionHandler_Ownership(t *testing.T) {
	app := newTestApp(t)
	token := app.token(t, "emp-1", auth.RoleEmployee)

	w, resp := app.do(t, http.MethodPost, "/api/v1/permission-hours", token, map[string]string{
		"date":      "2024-06-10",
		"from_time": "10:00",
		"to_time":   "12:00",
		"reason":    "clinic visit",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := data(t, resp)["id"].(string)
	assert.Equal(t, float64(2), data(t, resp)["hours"])

	w, _ = app.do(t, http.MethodDelete, "/api/v1/permission-hours/"+id, app.token(t, "emp-2", auth.RoleEmployee), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, resp = app.do(t, http.MethodPut, "/api/v1/permission-hours/"+id, token, map[string]string{"to_time": "13:00"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(3), data(t, resp)["hours"])

	w, resp = app.do(t, http.MethodPost, "/api/v1/admin/permission-hours/"+id+"/reject", app.token(t, "", auth.RoleAdmin), map[string]string{"comments": "no cover"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "REJECTED", data(t, resp)["status"])

	w, _ = app.do(t, http.MethodDelete, "/api/v1/permission-hours/"+id, token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestNotificationHandler_InboxAfterLeaveDecision(t *testing.T) {
	app := newTestApp(t)
	token := app.token(t, "emp-1", auth.RoleEmployee)
	admin := app.token(t, "", auth.RoleAdmin)

	w, resp := app.do(t, http.MethodPost, "/api/v1/leaves", token, map[string]any{
		"from_date":  "2024-06-11",
		"to_date":    "2024-06-11",
		"leave_type": "SICK",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := data(t, resp)["id"].(string)

	w, _ = app.do(t, http.MethodPatch, "/api/v1/admin/leaves/"+id+"/status", admin, map[string]string{"status": "REJECTED"})
	require.Equal(t, http.StatusOK, w.Code)

	require.Eventually(t, func() bool {
		_, resp := app.do(t, http.MethodGet, "/api/v1/notifications/unread-count", token, nil)
		return data(t, resp)["unread_count"] == float64(1)
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		_, resp := app.do(t, http.MethodGet, "/api/v1/notifications/unread-count", admin, nil)
		return data(t, resp)["unread_count"] == float64(1)
	}, 2*time.Second, 10*time.Millisecond)

	w, resp = app.do(t, http.MethodGet, "/api/v1/notifications", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := data(t, resp)["notifications"].([]any)
	require.Len(t, list, 1)
	meta, ok := resp["meta"].(map[string]any)
	require.True(t, ok, "list response carries pagination meta")
	assert.Equal(t, float64(1), meta["page"])
	assert.Equal(t, float64(20), meta["limit"])
	assert.Equal(t, float64(1), meta["total_items"])
	assert.Equal(t, float64(1), meta["total_pages"])
	notifID := list[0].(map[string]any)["id"].(string)

	w, _ = app.do(t, http.MethodPost, "/api/v1/notifications/read", token, map[string]any{"notification_ids": []string{notifID}})
	require.Equal(t, http.StatusOK, w.Code)

	_, resp = app.do(t, http.MethodGet, "/api/v1/notifications/unread-count", token, nil)
	assert.Equal(t, float64(0), data(t, resp)["unread_count"])

	w, _ = app.do(t, http.MethodPost, "/api/v1/notifications/read", token, map[string]any{"notification_ids": []string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNotificationHandler_StreamAcceptsQueryToken(t *testing.T) {
	app := newTestApp(t)
	server := httptest.NewServer(app.router)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/v1/notifications/stream?token="+app.token(t, "emp-1", auth.RoleEmployee), nil)
	require.NoError(t, err)
	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: connected\n", line)
}

func TestEmployeeHandler_MeAndAdmin(t *testing.T) {
	app := newTestApp(t)
	admin := app.token(t, "", auth.RoleAdmin)

	w, resp := app.do(t, http.MethodGet, "/api/v1/me", app.token(t, "emp-1", auth.RoleEmployee), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Rina Saputra", data(t, resp)["full_name"])

	w, resp = app.do(t, http.MethodPost, "/api/v1/admin/employees", admin, map[string]string{
		"full_name":       "Sari Wulandari",
		"department":      "Finance",
		"employment_type": "PERMANENT",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, data(t, resp)["id"])

	w, resp = app.do(t, http.MethodGet, "/api/v1/admin/employees?department=Engineering", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp["data"], 2)

	w, _ = app.do(t, http.MethodGet, "/api/v1/admin/employees/emp-404", admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
