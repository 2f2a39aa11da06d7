package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-policy-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type OvertimeHandler interface {
	Request(w http.ResponseWriter, r *http.Request)
	GetMyOvertime(w http.ResponseWriter, r *http.Request)

	// Admin
	List(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Allocate(w http.ResponseWriter, r *http.Request)
	BulkAllocate(w http.ResponseWriter, r *http.Request)
	AllocateToDepartment(w http.ResponseWriter, r *http.Request)
	UpdateAllocation(w http.ResponseWriter, r *http.Request)
	DeleteAllocation(w http.ResponseWriter, r *http.Request)
}

type overtimeHandlerImpl struct {
	overtimeService overtime.OvertimeService
}

func NewOvertimeHandler(overtimeService overtime.OvertimeService) OvertimeHandler {
	return &overtimeHandlerImpl{overtimeService: overtimeService}
}

func (h *overtimeHandlerImpl) Request(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	var req overtime.RequestOvertimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Request overtime decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = actor.EmployeeID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := h.overtimeService.RequestOvertime(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Overtime requested", overtime.ToResponse(created))
}

func (h *overtimeHandlerImpl) GetMyOvertime(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}
	h.listFor(w, r, actor.EmployeeID)
}

// List returns allocations across employees, optionally narrowed by ?employee_id.
func (h *overtimeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	h.listFor(w, r, r.URL.Query().Get("employee_id"))
}

func (h *overtimeHandlerImpl) listFor(w http.ResponseWriter, r *http.Request, employeeID string) {
	var errs validator.ValidationErrors
	filter := overtime.OvertimeFilter{
		EmployeeID: employeeID,
		From:       optionalDateQuery(r, "from", &errs),
		To:         optionalDateQuery(r, "to", &errs),
	}
	if s := r.URL.Query().Get("status"); s != "" {
		status := overtime.Status(strings.ToUpper(s))
		if !status.IsValid() {
			errs.Add("status", "status must be PENDING, APPROVED or REJECTED")
		}
		filter.Status = &status
	}
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	items, err := h.overtimeService.GetAllocations(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, overtime.ToResponses(items))
}

func (h *overtimeHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	var req overtime.DecisionRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		slog.Error("Approve overtime decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ActionBy = actionBy(actor)

	approved, err := h.overtimeService.Approve(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime approved", overtime.ToResponse(approved))
}

func (h *overtimeHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	rejected, err := h.overtimeService.Reject(r.Context(), overtime.DecisionRequest{
		ID:       chi.URLParam(r, "id"),
		ActionBy: actionBy(actor),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime rejected", overtime.ToResponse(rejected))
}

func (h *overtimeHandlerImpl) Allocate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	var req overtime.AllocateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Allocate overtime decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.AllocatedBy = actionBy(actor)

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := h.overtimeService.AllocateOvertimeAdmin(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Overtime allocated", overtime.ToResponse(created))
}

func (h *overtimeHandlerImpl) BulkAllocate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	var req overtime.BulkAllocateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("BulkAllocate decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.AllocatedBy = actionBy(actor)

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.overtimeService.BulkAllocate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *overtimeHandlerImpl) AllocateToDepartment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	var req overtime.DepartmentAllocateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("AllocateToDepartment decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.AllocatedBy = actionBy(actor)

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.overtimeService.AllocateToDepartment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *overtimeHandlerImpl) UpdateAllocation(w http.ResponseWriter, r *http.Request) {
	var req overtime.UpdateAllocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateAllocation decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	updated, err := h.overtimeService.UpdateAllocation(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime updated", overtime.ToResponse(updated))
}

func (h *overtimeHandlerImpl) DeleteAllocation(w http.ResponseWriter, r *http.Request) {
	if err := h.overtimeService.DeleteAllocation(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime deleted", nil)
}
