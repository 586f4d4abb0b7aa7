package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/tes-insurance/internal/entity"
	"github.com/xavierca1/tes-insurance/internal/infra/http/response"
	"github.com/xavierca1/tes-insurance/internal/usecase"
)

// AdminHandler serves /api/admin: staff accounts, the dashboard and the
// audit trail.
type AdminHandler struct {
	auth      *usecase.AuthUseCase
	admin     *usecase.AdminUseCase
	dashboard *usecase.DashboardUseCase
	errs      ErrorWriter
}

func NewAdminHandler(
	auth *usecase.AuthUseCase,
	admin *usecase.AdminUseCase,
	dashboard *usecase.DashboardUseCase,
	errs ErrorWriter,
) *AdminHandler {
	return &AdminHandler{auth: auth, admin: admin, dashboard: dashboard, errs: errs}
}

func (h *AdminHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in usecase.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		h.errs.BadBody(w, err)
		return
	}

	user, err := h.auth.Register(r.Context(), in)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	response.Created(w, user)
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in usecase.LoginInput
	if err := decodeJSON(r, &in); err != nil {
		h.errs.BadBody(w, err)
		return
	}

	out, err := h.auth.Login(r.Context(), in)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	response.OK(w, out)
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	out, err := h.dashboard.Execute(r.Context())
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	out.Leads.Stats = items(out.Leads.Stats)
	out.Leads.Recent = items(out.Leads.Recent)
	out.Contacts.Stats = items(out.Contacts.Stats)
	out.Analytics = items(out.Analytics)
	response.OK(w, out)
}

func (h *AdminHandler) AuditLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := entity.AuditFilter{
		EntityType: q.Get("entity_type"),
		EntityID:   q.Get("entity_id"),
		Action:     q.Get("action"),
	}
	if raw := q.Get("user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.errs.Write(w, r, usecase.ValidationErrors{{Field: "user_id", Message: "User id must be an integer"}})
			return
		}
		f.UserID = &id
	}

	res, err := h.admin.ListAuditLogs(r.Context(), usecase.ListAuditLogsInput{
		Page:   pageParams(r, defaultEventLimit),
		Filter: f,
	})
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	response.Page(w, items(res.Items), res.Pagination)
}

func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers(r.Context())
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	response.OK(w, items(users))
}

func (h *AdminHandler) SetUserActive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(w, http.StatusNotFound, "User not found", "")
		return
	}
	var in usecase.SetUserActiveInput
	if err := decodeJSON(r, &in); err != nil {
		h.errs.BadBody(w, err)
		return
	}

	user, err := h.admin.SetUserActive(r.Context(), id, in)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	response.OK(w, user)
}
