package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-policy-engine/internal/domain/policy"
	"github.com/cmlabs-hris/hris-policy-engine/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PolicyHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Resolve(w http.ResponseWriter, r *http.Request)
	Upsert(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type policyHandlerImpl struct {
	policyService policy.PolicyService
}

func NewPolicyHandler(policyService policy.PolicyService) PolicyHandler {
	return &policyHandlerImpl{policyService: policyService}
}

func (h *policyHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	policies, err := h.policyService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	out := make([]policy.PolicyResponse, len(policies))
	for i, p := range policies {
		out[i] = policy.ToResponse(p)
	}
	response.Success(w, out)
}

// Resolve shows the policy that applies to {department} and ?employment_type,
// including the builtin fallback.
func (h *policyHandlerImpl) Resolve(w http.ResponseWriter, r *http.Request) {
	resolved, err := h.policyService.Resolve(r.Context(), chi.URLParam(r, "department"), r.URL.Query().Get("employment_type"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, policy.ToResponse(resolved))
}

func (h *policyHandlerImpl) Upsert(w http.ResponseWriter, r *http.Request) {
	var req policy.UpsertPolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Upsert policy decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	saved, err := h.policyService.Upsert(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Policy saved", policy.ToResponse(saved))
}

func (h *policyHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.policyService.Delete(r.Context(), chi.URLParam(r, "department"), r.URL.Query().Get("employment_type"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Policy deleted", nil)
}
