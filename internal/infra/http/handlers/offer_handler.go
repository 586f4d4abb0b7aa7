package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/tes-insurance/internal/infra/http/response"
	"github.com/xavierca1/tes-insurance/internal/usecase"
)

type OfferHandler struct {
	offers *usecase.OfferUseCase
	errs   ErrorWriter
}

func NewOfferHandler(offers *usecase.OfferUseCase, errs ErrorWriter) *OfferHandler {
	return &OfferHandler{offers: offers, errs: errs}
}

func (h *OfferHandler) Get(w http.ResponseWriter, r *http.Request) {
	quote, err := h.offers.Get(r.Context(), chi.URLParam(r, "quoteId"))
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	response.OK(w, quote)
}

func (h *OfferHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var in usecase.UpdateOfferStatusInput
	if err := decodeJSON(r, &in); err != nil {
		h.errs.BadBody(w, err)
		return
	}

	quote, err := h.offers.UpdateStatus(r.Context(), chi.URLParam(r, "quoteId"), in)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	response.OK(w, quote)
}
