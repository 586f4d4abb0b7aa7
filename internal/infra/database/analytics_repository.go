package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/xavierca1/tes-insurance/internal/entity"
)

const eventColumns = `id, event_id, event_type, event_category, event_label, event_value, user_agent,
	ip_address, referrer, page_url, session_id, custom_data, created_at`

type AnalyticsEventRepository struct {
	DB *sqlx.DB
}

func NewAnalyticsEventRepository(db *sqlx.DB) *AnalyticsEventRepository {
	return &AnalyticsEventRepository{DB: db}
}

func (r *AnalyticsEventRepository) Create(ctx context.Context, e *entity.AnalyticsEvent) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	query := r.DB.Rebind(`
		INSERT INTO analytics_events (event_id, event_type, event_category, event_label, event_value,
			user_agent, ip_address, referrer, page_url, session_id, custom_data, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)
	err := r.DB.QueryRowxContext(ctx, query,
		e.EventID, e.EventType, e.EventCategory, e.EventLabel, e.EventValue,
		e.UserAgent, e.IPAddress, e.Referrer, e.PageURL, e.SessionID,
		nullJSONArg(e.CustomData), e.CreatedAt,
	).Scan(&e.ID)
	return classify(err)
}

func eventWhere(f entity.EventFilter) *where {
	w := &where{}
	if f.EventType != "" {
		w.add("event_type = ?", f.EventType)
	}
	if f.PageURL != "" {
		w.add("LOWER(page_url) LIKE ?", likePattern(f.PageURL))
	}
	if !f.From.IsZero() {
		w.add("created_at >= ?", f.From.UTC())
	}
	if !f.To.IsZero() {
		w.add("created_at < ?", f.To.UTC())
	}
	return w
}

func (r *AnalyticsEventRepository) List(ctx context.Context, f entity.EventFilter, p entity.Page) ([]entity.AnalyticsEvent, int, error) {
	w := eventWhere(f)

	var total int
	if err := r.DB.GetContext(ctx, &total, r.DB.Rebind(`SELECT COUNT(*) FROM analytics_events`+w.String()), w.args...); err != nil {
		return nil, 0, classify(err)
	}

	events := []entity.AnalyticsEvent{}
	query := r.DB.Rebind(`SELECT ` + eventColumns + ` FROM analytics_events` + w.String() + ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`)
	args := append(append([]any{}, w.args...), p.Limit, p.Offset())
	if err := r.DB.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, 0, classify(err)
	}
	return events, total, nil
}

func (r *AnalyticsEventRepository) CountByType(ctx context.Context, f entity.EventFilter) ([]entity.EventTypeCount, error) {
	w := eventWhere(f)
	counts := []entity.EventTypeCount{}
	query := r.DB.Rebind(`
		SELECT event_type, COUNT(*) AS count
		FROM analytics_events` + w.String() + `
		GROUP BY event_type
		ORDER BY count DESC, event_type`)
	if err := r.DB.SelectContext(ctx, &counts, query, w.args...); err != nil {
		return nil, classify(err)
	}
	return counts, nil
}

func (r *AnalyticsEventRepository) TopPages(ctx context.Context, f entity.EventFilter, n int) ([]entity.PageViewCount, error) {
	f.EventType = entity.EventTypePageView
	w := eventWhere(f)
	w.add("page_url IS NOT NULL")

	pages := []entity.PageViewCount{}
	query := r.DB.Rebind(`
		SELECT page_url, COUNT(*) AS views
		FROM analytics_events` + w.String() + `
		GROUP BY page_url
		ORDER BY views DESC, page_url
		LIMIT ?`)
	args := append(append([]any{}, w.args...), n)
	if err := r.DB.SelectContext(ctx, &pages, query, args...); err != nil {
		return nil, classify(err)
	}
	return pages, nil
}

// DailyActivity buckets events by UTC calendar day, newest first.
func (r *AnalyticsEventRepository) DailyActivity(ctx context.Context, f entity.EventFilter, days int) ([]entity.DailyActivity, error) {
	w := eventWhere(f)

	activity := []entity.DailyActivity{}
	query := r.DB.Rebind(`
		SELECT CAST(DATE(created_at) AS TEXT) AS date, COUNT(*) AS events
		FROM analytics_events` + w.String() + `
		GROUP BY DATE(created_at)
		ORDER BY date DESC
		LIMIT ?`)
	args := append(append([]any{}, w.args...), days)
	if err := r.DB.SelectContext(ctx, &activity, query, args...); err != nil {
		return nil, classify(err)
	}
	return activity, nil
}
