package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-policy-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	PunchIn(w http.ResponseWriter, r *http.Request)
	PunchOut(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	GetDay(w http.ResponseWriter, r *http.Request)
	GetMyLateLogins(w http.ResponseWriter, r *http.Request)

	// Admin
	List(w http.ResponseWriter, r *http.Request)
	CloseOpenPunches(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	now               func() time.Time
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		now:               time.Now,
	}
}

func (h *attendanceHandlerImpl) PunchIn(w http.ResponseWriter, r *http.Request) {
	h.punch(w, r, h.attendanceService.PunchIn, "Punched in")
}

func (h *attendanceHandlerImpl) PunchOut(w http.ResponseWriter, r *http.Request) {
	h.punch(w, r, h.attendanceService.PunchOut, "Punched out")
}

func (h *attendanceHandlerImpl) punch(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, req attendance.PunchRequest) (attendance.Attendance, error),
	message string,
) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	var req attendance.PunchRequest
	// An empty body punches at the current time.
	if err := decodeOptionalJSON(r, &req); err != nil {
		slog.Error("punch decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = actor.EmployeeID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	record, err := fn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, attendance.ToResponse(record))
}

func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	from, to, err := dateRangeQuery(r, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	records, err := h.attendanceService.List(r.Context(), attendance.AttendanceFilter{
		EmployeeID: actor.EmployeeID,
		From:       from,
		To:         to,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.ToResponses(records))
}

func (h *attendanceHandlerImpl) GetDay(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	date, valid := validator.IsValidDate(chi.URLParam(r, "date"))
	if !valid {
		response.BadRequest(w, "date must be in YYYY-MM-DD format", nil)
		return
	}

	record, err := h.attendanceService.GetDay(r.Context(), actor.EmployeeID, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.ToResponse(record))
}

func (h *attendanceHandlerImpl) GetMyLateLogins(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	year, month, err := yearMonthQuery(r, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	count, err := h.attendanceService.GetLateLoginCount(r.Context(), actor.EmployeeID, year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.LateLoginCountResponse{
		EmployeeID: actor.EmployeeID,
		Year:       year,
		Month:      month,
		Count:      count,
	})
}

// List returns the attendance of ?employee_id.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	if validator.IsEmpty(employeeID) {
		var errs validator.ValidationErrors
		errs.Add("employee_id", "employee_id is required")
		response.HandleError(w, errs.Err())
		return
	}

	from, to, err := dateRangeQuery(r, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	records, err := h.attendanceService.List(r.Context(), attendance.AttendanceFilter{
		EmployeeID: employeeID,
		From:       from,
		To:         to,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.ToResponses(records))
}

// CloseOpenPunches closes the open records of ?date, defaulting to yesterday.
func (h *attendanceHandlerImpl) CloseOpenPunches(w http.ResponseWriter, r *http.Request) {
	var errs validator.ValidationErrors
	date := calendar.DateOf(h.now()).AddDate(0, 0, -1)
	if d := optionalDateQuery(r, "date", &errs); d != nil {
		date = *d
	}
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	closed, err := h.attendanceService.CloseOpenPunches(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.CloseOpenPunchesResponse{
		Date:   calendar.FormatDate(date),
		Closed: closed,
	})
}
