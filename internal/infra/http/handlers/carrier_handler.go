package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/tes-insurance/internal/infra/http/response"
	"github.com/xavierca1/tes-insurance/internal/usecase"
)

const msgCarrierMissing = "Carrier not found"

type CarrierHandler struct {
	carriers *usecase.CarrierUseCase
	errs     ErrorWriter
}

func NewCarrierHandler(carriers *usecase.CarrierUseCase, errs ErrorWriter) *CarrierHandler {
	return &CarrierHandler{carriers: carriers, errs: errs}
}

// carrierID answers 404 itself when the path id is not a positive integer.
func (h *CarrierHandler) carrierID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(w, http.StatusNotFound, msgCarrierMissing, "")
		return 0, false
	}
	return id, true
}

func (h *CarrierHandler) List(w http.ResponseWriter, r *http.Request) {
	carriers, err := h.carriers.List(r.Context(), r.URL.Query().Get("product"))
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	response.OK(w, items(carriers))
}

func (h *CarrierHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.carrierID(w, r)
	if !ok {
		return
	}
	carrier, err := h.carriers.Get(r.Context(), id)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	response.OK(w, carrier)
}

func (h *CarrierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in usecase.CarrierInput
	if err := decodeJSON(r, &in); err != nil {
		h.errs.BadBody(w, err)
		return
	}

	carrier, err := h.carriers.Create(r.Context(), in)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	response.Created(w, carrier)
}

func (h *CarrierHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.carrierID(w, r)
	if !ok {
		return
	}
	var in usecase.UpdateCarrierInput
	if err := decodeJSON(r, &in); err != nil {
		h.errs.BadBody(w, err)
		return
	}

	carrier, err := h.carriers.Update(r.Context(), id, in)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	response.OK(w, carrier)
}
