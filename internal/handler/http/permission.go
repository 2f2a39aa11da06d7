package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/auth"
	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/permission"
	"github.com/cmlabs-hris/hris-policy-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-policy-engine/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type PermissionHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	GetMyRequests(w http.ResponseWriter, r *http.Request)

	// Admin
	List(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type permissionHandlerImpl struct {
	permissionService permission.PermissionService
}

func NewPermissionHandler(permissionService permission.PermissionService) PermissionHandler {
	return &permissionHandlerImpl{permissionService: permissionService}
}

func (h *permissionHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	var req permission.CreatePermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create permission decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = actor.EmployeeID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := h.permissionService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Permission hours requested", permission.ToResponse(created))
}

func (h *permissionHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.ensureOwner(r, actor, id); err != nil {
		response.HandleError(w, err)
		return
	}

	var req permission.UpdatePermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update permission decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	updated, err := h.permissionService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Permission hours updated", permission.ToResponse(updated))
}

func (h *permissionHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.ensureOwner(r, actor, id); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.permissionService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Permission hours deleted", nil)
}

// ensureOwner hides other employees' requests behind ErrPermissionNotFound.
func (h *permissionHandlerImpl) ensureOwner(r *http.Request, actor auth.Actor, id string) error {
	p, err := h.permissionService.Get(r.Context(), id)
	if err != nil {
		return err
	}
	if p.EmployeeID != actor.EmployeeID {
		return permission.ErrPermissionNotFound
	}
	return nil
}

func (h *permissionHandlerImpl) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}
	h.listFor(w, r, actor.EmployeeID)
}

func (h *permissionHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	h.listFor(w, r, r.URL.Query().Get("employee_id"))
}

func (h *permissionHandlerImpl) listFor(w http.ResponseWriter, r *http.Request, employeeID string) {
	var errs validator.ValidationErrors
	filter := permission.PermissionFilter{
		EmployeeID: employeeID,
		From:       optionalDateQuery(r, "from", &errs),
		To:         optionalDateQuery(r, "to", &errs),
	}
	if s := r.URL.Query().Get("status"); s != "" {
		status, ok := permission.ParseStatus(s)
		if !ok {
			errs.Add("status", "status must be PENDING, APPROVED or REJECTED")
		}
		filter.Status = &status
	}
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	items, err := h.permissionService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, permission.ToResponses(items))
}

func (h *permissionHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.permissionService.Approve, "Permission hours approved")
}

func (h *permissionHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.permissionService.Reject, "Permission hours rejected")
}

func (h *permissionHandlerImpl) decide(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, req permission.DecisionRequest) (permission.PermissionHours, error),
	message string,
) {
	actor, ok := actorOrAbort(w, r)
	if !ok {
		return
	}

	var req permission.DecisionRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		slog.Error("Permission decision decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ActionBy = actionBy(actor)

	decided, err := fn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, permission.ToResponse(decided))
}
