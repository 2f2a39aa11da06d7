package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/auth"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/notification"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/permission"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/policy"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrMissingEmployeeClaim):
		Forbidden(w, "Employee ID not found in token")
	case errors.Is(err, auth.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Not found
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, holiday.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrStatisticsNotFound):
		NotFound(w, "Leave statistics not found")
	case errors.Is(err, overtime.ErrOvertimeNotFound):
		NotFound(w, "Overtime not found")
	case errors.Is(err, permission.ErrPermissionNotFound):
		NotFound(w, "Permission hours request not found")
	case errors.Is(err, policy.ErrPolicyNotFound):
		NotFound(w, "Department policy not found")
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")

	// Invalid input
	case errors.Is(err, leave.ErrInvalidLeaveRequest),
		errors.Is(err, overtime.ErrInvalidOvertime),
		errors.Is(err, permission.ErrInvalidWindow),
		errors.Is(err, attendance.ErrPunchOutBeforeIn),
		errors.Is(err, attendance.ErrOutsidePunchWindow),
		errors.Is(err, employee.ErrAmbiguousName):
		BadRequest(w, err.Error(), nil)

	// Conflict
	case errors.Is(err, attendance.ErrAlreadyPunchedIn),
		errors.Is(err, attendance.ErrAlreadyPunchedOut),
		errors.Is(err, employee.ErrEmployeeExists),
		errors.Is(err, holiday.ErrHolidayDateExists),
		errors.Is(err, leave.ErrOverlappingLeave),
		errors.Is(err, overtime.ErrOvertimeExists):
		Conflict(w, err.Error())

	// Illegal state
	case errors.Is(err, attendance.ErrNotPunchedIn),
		errors.Is(err, leave.ErrInvalidStatusTransition),
		errors.Is(err, overtime.ErrOvertimeNotPending),
		errors.Is(err, overtime.ErrOvertimePaidOut),
		errors.Is(err, permission.ErrPermissionNotPending):
		IllegalState(w, err.Error())

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
