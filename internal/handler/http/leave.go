package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/auth"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-policy-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	Apply(w http.ResponseWriter, r *http.Request)
	GetMyRequests(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	GetRequestDays(w http.ResponseWriter, r *http.Request)
	GetMyStats(w http.ResponseWriter, r *http.Request)
	GetMySandwichLeaves(w http.ResponseWriter, r *http.Request)

	// Admin
	ListRequests(w http.ResponseWriter, r *http.Request)
	GetStats(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
	now          func() time.Time
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{
		leaveService: leaveService,
		now:          time.Now,
	}
}

// Apply implements LeaveHandler.
func (l *LeaveHandlerImpl) Apply(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	var req leave.ApplyLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Apply leave decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = actor.EmployeeID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := l.leaveService.ApplyForLeave(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted", leave.ToResponse(created))
}

// GetMyRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}
	l.listFor(w, r, actor.EmployeeID)
}

// ListRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	if validator.IsEmpty(employeeID) {
		var errs validator.ValidationErrors
		errs.Add("employee_id", "employee_id is required")
		response.HandleError(w, errs.Err())
		return
	}
	l.listFor(w, r, employeeID)
}

func (l *LeaveHandlerImpl) listFor(w http.ResponseWriter, r *http.Request, employeeID string) {
	var errs validator.ValidationErrors
	filter := leave.LeaveRequestFilter{
		EmployeeID: employeeID,
		Year:       optionalIntQuery(r, "year", &errs),
		Month:      optionalIntQuery(r, "month", &errs),
	}
	if s := r.URL.Query().Get("status"); s != "" {
		status := leave.LeaveStatus(strings.ToUpper(s))
		if !status.IsValid() {
			errs.Add("status", "status must be PENDING, APPROVED or REJECTED")
		}
		filter.Status = &status
	}
	if filter.Month != nil && filter.Year == nil {
		errs.Add("year", "year is required when month is given")
	}
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	requests, err := l.leaveService.GetEmployeeLeaves(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.ToResponses(requests))
}

// GetRequest implements LeaveHandler. Employees only see their own requests.
func (l *LeaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	request, err := l.visibleRequest(r, actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.ToResponse(request))
}

// GetRequestDays implements LeaveHandler.
func (l *LeaveHandlerImpl) GetRequestDays(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	request, err := l.visibleRequest(r, actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	days, err := l.leaveService.GetLeaveRequestDays(r.Context(), request.ID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.ToDayResponses(days))
}

func (l *LeaveHandlerImpl) visibleRequest(r *http.Request, actor auth.Actor) (leave.LeaveRequest, error) {
	request, err := l.leaveService.GetLeaveRequest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if !actor.IsAdmin() && request.EmployeeID != actor.EmployeeID {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return request, nil
}

// GetMyStats implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyStats(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}
	l.statsFor(w, r, actor.EmployeeID)
}

// GetStats implements LeaveHandler.
func (l *LeaveHandlerImpl) GetStats(w http.ResponseWriter, r *http.Request) {
	l.statsFor(w, r, chi.URLParam(r, "employeeID"))
}

func (l *LeaveHandlerImpl) statsFor(w http.ResponseWriter, r *http.Request, employeeID string) {
	year, month, err := yearMonthQuery(r, l.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	stats, err := l.leaveService.GetEmployeeLeaveStats(r.Context(), employeeID, year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.ToStatisticsResponse(stats))
}

// GetMySandwichLeaves implements LeaveHandler. With ?context=true each day is
// returned with its neighbouring requests and holiday.
func (l *LeaveHandlerImpl) GetMySandwichLeaves(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	from, to, err := dateRangeQuery(r, l.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if getBoolQueryParam(r, "context", false) {
		contexts, err := l.leaveService.GetSandwichLeavesWithContext(r.Context(), actor.EmployeeID, from, to)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.Success(w, contexts)
		return
	}

	days, err := l.leaveService.GetSandwichLeaves(r.Context(), actor.EmployeeID, from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.ToDayResponses(days))
}

// UpdateStatus implements LeaveHandler.
func (l *LeaveHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	var req leave.UpdateLeaveStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateStatus decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ApprovedBy = actionBy(actor)

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	updated, err := l.leaveService.UpdateLeaveStatus(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request updated", leave.ToResponse(updated))
}
