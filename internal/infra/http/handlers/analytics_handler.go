package handlers

import (
	"net/http"

	"github.com/xavierca1/tes-insurance/internal/infra/http/response"
	"github.com/xavierca1/tes-insurance/internal/usecase"
)

type AnalyticsHandler struct {
	analytics *usecase.AnalyticsUseCase
	errs      ErrorWriter
}

func NewAnalyticsHandler(analytics *usecase.AnalyticsUseCase, errs ErrorWriter) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, errs: errs}
}

// Track answers 202 when the event was valid but could not be stored.
func (h *AnalyticsHandler) Track(w http.ResponseWriter, r *http.Request) {
	var in usecase.TrackEventInput
	if err := decodeJSON(r, &in); err != nil {
		h.errs.BadBody(w, err)
		return
	}

	out, err := h.analytics.Track(r.Context(), in)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	if !out.Stored {
		response.JSON(w, http.StatusAccepted, response.Envelope{Success: true, Data: out})
		return
	}
	response.Created(w, out)
}

func eventQuery(r *http.Request) usecase.EventQuery {
	q := r.URL.Query()
	return usecase.EventQuery{
		Page:      pageParams(r, defaultEventLimit),
		EventType: q.Get("event_type"),
		PageURL:   q.Get("page_url"),
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	}
}

func (h *AnalyticsHandler) Events(w http.ResponseWriter, r *http.Request) {
	res, err := h.analytics.List(r.Context(), eventQuery(r))
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	response.Page(w, items(res.Items), res.Pagination)
}

func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	out, err := h.analytics.Summary(r.Context(), eventQuery(r))
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	out.EventTypes = items(out.EventTypes)
	out.PageViews = items(out.PageViews)
	out.DailyActivity = items(out.DailyActivity)
	response.OK(w, out)
}
