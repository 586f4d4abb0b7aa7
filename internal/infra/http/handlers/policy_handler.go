package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/tes-insurance/internal/entity"
	"github.com/xavierca1/tes-insurance/internal/infra/http/response"
	"github.com/xavierca1/tes-insurance/internal/usecase"
)

type PolicyHandler struct {
	policies *usecase.PolicyUseCase
	errs     ErrorWriter
}

func NewPolicyHandler(policies *usecase.PolicyUseCase, errs ErrorWriter) *PolicyHandler {
	return &PolicyHandler{policies: policies, errs: errs}
}

func (h *PolicyHandler) Bind(w http.ResponseWriter, r *http.Request) {
	var in usecase.BindPolicyInput
	if err := decodeJSON(r, &in); err != nil {
		h.errs.BadBody(w, err)
		return
	}

	policy, err := h.policies.Bind(r.Context(), in)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	response.Created(w, policy)
}

func (h *PolicyHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.policies.List(r.Context(), usecase.ListPoliciesInput{
		Page: pageParams(r, defaultPageLimit),
		Filter: entity.PolicyFilter{
			Status: q.Get("status"),
			LeadID: q.Get("lead_id"),
		},
	})
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	response.Page(w, items(res.Items), res.Pagination)
}

func (h *PolicyHandler) Get(w http.ResponseWriter, r *http.Request) {
	policy, err := h.policies.Get(r.Context(), chi.URLParam(r, "policyId"))
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	response.OK(w, policy)
}

func (h *PolicyHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var in usecase.UpdatePolicyStatusInput
	if err := decodeJSON(r, &in); err != nil {
		h.errs.BadBody(w, err)
		return
	}

	policy, err := h.policies.UpdateStatus(r.Context(), chi.URLParam(r, "policyId"), in)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	response.OK(w, policy)
}
