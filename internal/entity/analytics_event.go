package entity

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx/types"
)

const EventTypePageView = "page_view"

// AnalyticsEvent is append-only site telemetry.
type AnalyticsEvent struct {
	ID            int64              `json:"id" db:"id"`
	EventID       string             `json:"event_id" db:"event_id"`
	EventType     string             `json:"event_type" db:"event_type"`
	EventCategory *string            `json:"event_category,omitempty" db:"event_category"`
	EventLabel    *string            `json:"event_label,omitempty" db:"event_label"`
	EventValue    *float64           `json:"event_value,omitempty" db:"event_value"`
	UserAgent     *string            `json:"user_agent,omitempty" db:"user_agent"`
	IPAddress     *string            `json:"ip_address,omitempty" db:"ip_address"`
	Referrer      *string            `json:"referrer,omitempty" db:"referrer"`
	PageURL       *string            `json:"page_url,omitempty" db:"page_url"`
	SessionID     *string            `json:"session_id,omitempty" db:"session_id"`
	CustomData    types.NullJSONText `json:"custom_data" db:"custom_data"`
	CreatedAt     time.Time          `json:"created_at" db:"created_at"`
}

// EventFilter bounds are inclusive of From and exclusive of To. Zero values
// are unbounded.
type EventFilter struct {
	EventType string
	PageURL   string
	From      time.Time
	To        time.Time
}

type EventTypeCount struct {
	EventType string `json:"event_type" db:"event_type"`
	Count     int    `json:"count" db:"count"`
}

type PageViewCount struct {
	PageURL string `json:"page_url" db:"page_url"`
	Views   int    `json:"views" db:"views"`
}

type DailyActivity struct {
	Date   string `json:"date" db:"date"`
	Events int    `json:"events" db:"events"`
}

type AnalyticsEventRepositoryInterface interface {
	Create(ctx context.Context, e *AnalyticsEvent) error
	List(ctx context.Context, f EventFilter, p Page) ([]AnalyticsEvent, int, error)
	CountByType(ctx context.Context, f EventFilter) ([]EventTypeCount, error)
	TopPages(ctx context.Context, f EventFilter, n int) ([]PageViewCount, error)
	DailyActivity(ctx context.Context, f EventFilter, days int) ([]DailyActivity, error)
}
