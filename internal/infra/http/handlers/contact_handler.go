package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/tes-insurance/internal/entity"
	"github.com/xavierca1/tes-insurance/internal/infra/http/response"
	"github.com/xavierca1/tes-insurance/internal/usecase"
)

type ContactHandler struct {
	contacts *usecase.ContactUseCase
	errs     ErrorWriter
}

func NewContactHandler(contacts *usecase.ContactUseCase, errs ErrorWriter) *ContactHandler {
	return &ContactHandler{contacts: contacts, errs: errs}
}

func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in usecase.CreateContactInput
	if err := decodeJSON(r, &in); err != nil {
		h.errs.BadBody(w, err)
		return
	}

	out, err := h.contacts.Create(r.Context(), in)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	response.Created(w, out)
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.contacts.List(r.Context(), usecase.ListContactsInput{
		Page: pageParams(r, defaultPageLimit),
		Filter: entity.ContactFilter{
			Status:   q.Get("status"),
			Priority: q.Get("priority"),
			Search:   q.Get("search"),
		},
	})
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	response.Page(w, items(res.Items), res.Pagination)
}

func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	msg, err := h.contacts.Get(r.Context(), chi.URLParam(r, "messageId"))
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	response.OK(w, msg)
}

func (h *ContactHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var in usecase.UpdateContactStatusInput
	if err := decodeJSON(r, &in); err != nil {
		h.errs.BadBody(w, err)
		return
	}

	msg, err := h.contacts.UpdateStatus(r.Context(), chi.URLParam(r, "messageId"), in)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	response.OK(w, msg)
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.contacts.Delete(r.Context(), chi.URLParam(r, "messageId")); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	response.Message(w, "Contact message deleted successfully")
}
