package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/xavierca1/tes-insurance/internal/auth"
	"github.com/xavierca1/tes-insurance/internal/entity"
	"github.com/xavierca1/tes-insurance/internal/metrics"
)

const (
	msgEventTracked  = "Event tracked successfully"
	msgEventAccepted = "Event accepted"

	topPagesLimit    = 10
	dailyActivityCap = 30
	dashboardWindow  = 7 * 24 * time.Hour
)

type AnalyticsUseCase struct {
	Events entity.AnalyticsEventRepositoryInterface
	Log    *zap.Logger
	now    func() time.Time
}

func NewAnalyticsUseCase(events entity.AnalyticsEventRepositoryInterface, log *zap.Logger) *AnalyticsUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &AnalyticsUseCase{Events: events, Log: log, now: utcNow}
}

func ValidateTrackEventInput(in TrackEventInput) ValidationErrors {
	var errs ValidationErrors
	if !lengthBetween(strings.TrimSpace(in.EventType), 1, 100) {
		errs.add("event_type", "Event type is required")
	}
	if in.EventCategory != nil && !lengthBetween(*in.EventCategory, 0, 100) {
		errs.add("event_category", "Event category must be less than 100 characters")
	}
	if in.EventLabel != nil && !lengthBetween(*in.EventLabel, 0, 255) {
		errs.add("event_label", "Event label must be less than 255 characters")
	}
	if in.EventValue != nil && !isDecimal(*in.EventValue) {
		errs.add("event_value", "Event value must be a valid decimal")
	}
	if in.PageURL != nil && !isAbsoluteURL(*in.PageURL) {
		errs.add("page_url", "Page URL must be a valid URL")
	}
	if !isJSONObject(in.CustomData) {
		errs.add("custom_data", "Custom data must be a JSON object")
	}
	return errs
}

// Track stores one event. A store failure is logged and reported through
// Stored=false rather than as an error.
func (uc *AnalyticsUseCase) Track(ctx context.Context, in TrackEventInput) (*TrackEventOutput, error) {
	if err := ValidateTrackEventInput(in).err(); err != nil {
		return nil, err
	}

	client := auth.ClientFrom(ctx)
	e := &entity.AnalyticsEvent{
		EventID:       uuid.NewString(),
		EventType:     strings.TrimSpace(in.EventType),
		EventCategory: trimPtr(in.EventCategory),
		EventLabel:    trimPtr(in.EventLabel),
		UserAgent:     optionalString(client.UserAgent),
		IPAddress:     optionalString(client.IP),
		Referrer:      trimPtr(in.Referrer),
		PageURL:       trimPtr(in.PageURL),
		SessionID:     trimPtr(in.SessionID),
		CreatedAt:     uc.now(),
	}
	if in.EventValue != nil {
		if v, err := in.EventValue.Float64(); err == nil {
			e.EventValue = &v
		}
	}
	if trimmed := strings.TrimSpace(string(in.CustomData)); trimmed != "" && trimmed != "null" {
		e.CustomData = types.NullJSONText{JSONText: types.JSONText(in.CustomData), Valid: true}
	}

	if err := uc.Events.Create(ctx, e); err != nil {
		uc.Log.Error("analytics event not stored",
			zap.String("event_type", e.EventType),
			zap.Error(err),
		)
		return &TrackEventOutput{EventID: e.EventID, Message: msgEventAccepted}, nil
	}
	metrics.RecordAnalyticsEvent()
	return &TrackEventOutput{EventID: e.EventID, Message: msgEventTracked, Stored: true}, nil
}

func (uc *AnalyticsUseCase) filter(q EventQuery) (entity.EventFilter, error) {
	var errs ValidationErrors
	from, ok := parseRangeDate(q.StartDate, false)
	if !ok {
		errs.add("start_date", "Start date must be an RFC 3339 timestamp or YYYY-MM-DD date")
	}
	to, ok := parseRangeDate(q.EndDate, true)
	if !ok {
		errs.add("end_date", "End date must be an RFC 3339 timestamp or YYYY-MM-DD date")
	}
	if err := errs.err(); err != nil {
		return entity.EventFilter{}, err
	}
	return entity.EventFilter{
		EventType: strings.TrimSpace(q.EventType),
		PageURL:   strings.TrimSpace(q.PageURL),
		From:      from,
		To:        to,
	}, nil
}

func (uc *AnalyticsUseCase) List(ctx context.Context, q EventQuery) (*PageResult[entity.AnalyticsEvent], error) {
	f, err := uc.filter(q)
	if err != nil {
		return nil, err
	}
	items, total, err := uc.Events.List(ctx, f, q.Page)
	if err != nil {
		return nil, storeError("list analytics events", err)
	}
	return &PageResult[entity.AnalyticsEvent]{Items: items, Pagination: entity.NewPagination(q.Page, total)}, nil
}

// Summary aggregates events inside the optional date range.
func (uc *AnalyticsUseCase) Summary(ctx context.Context, q EventQuery) (*AnalyticsSummary, error) {
	f, err := uc.filter(EventQuery{StartDate: q.StartDate, EndDate: q.EndDate})
	if err != nil {
		return nil, err
	}

	byType, err := uc.Events.CountByType(ctx, f)
	if err != nil {
		return nil, storeError("count events by type", err)
	}
	pages, err := uc.Events.TopPages(ctx, f, topPagesLimit)
	if err != nil {
		return nil, storeError("top pages", err)
	}
	daily, err := uc.Events.DailyActivity(ctx, f, dailyActivityCap)
	if err != nil {
		return nil, storeError("daily activity", err)
	}
	return &AnalyticsSummary{EventTypes: byType, PageViews: pages, DailyActivity: daily}, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
