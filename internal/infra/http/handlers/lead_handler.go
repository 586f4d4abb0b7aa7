package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/tes-insurance/internal/entity"
	"github.com/xavierca1/tes-insurance/internal/infra/http/response"
	"github.com/xavierca1/tes-insurance/internal/usecase"
)

// LeadHandler serves /api/quotes: public quote requests and the staff
// pipeline over them.
type LeadHandler struct {
	leads  *usecase.LeadUseCase
	offers *usecase.OfferUseCase
	errs   ErrorWriter
}

func NewLeadHandler(leads *usecase.LeadUseCase, offers *usecase.OfferUseCase, errs ErrorWriter) *LeadHandler {
	return &LeadHandler{leads: leads, offers: offers, errs: errs}
}

func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in usecase.CreateLeadInput
	if err := decodeJSON(r, &in); err != nil {
		h.errs.BadBody(w, err)
		return
	}

	out, err := h.leads.Create(r.Context(), in)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	response.Created(w, out)
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.leads.List(r.Context(), usecase.ListLeadsInput{
		Page: pageParams(r, defaultPageLimit),
		Filter: entity.LeadFilter{
			Status:       q.Get("status"),
			CoverageType: q.Get("coverage_type"),
			Search:       q.Get("search"),
		},
	})
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	response.Page(w, items(res.Items), res.Pagination)
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	out, err := h.leads.Get(r.Context(), chi.URLParam(r, "leadId"))
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	out.Quotes = items(out.Quotes)
	response.OK(w, out)
}

func (h *LeadHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var in usecase.UpdateLeadStatusInput
	if err := decodeJSON(r, &in); err != nil {
		h.errs.BadBody(w, err)
		return
	}

	if err := h.leads.UpdateStatus(r.Context(), chi.URLParam(r, "leadId"), in); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	response.Message(w, "Quote status updated successfully")
}

// Close never deletes the row; the lead moves to closed.
func (h *LeadHandler) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.leads.Close(r.Context(), chi.URLParam(r, "leadId")); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	response.Message(w, "Quote closed successfully")
}

func (h *LeadHandler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	var in usecase.CreateOfferInput
	if err := decodeJSON(r, &in); err != nil {
		h.errs.BadBody(w, err)
		return
	}

	quote, err := h.offers.Create(r.Context(), chi.URLParam(r, "leadId"), in)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	response.Created(w, quote)
}
