package entity

import (
	"context"
	"time"
)

const (
	ContactStatusNew     = "new"
	ContactStatusRead    = "read"
	ContactStatusReplied = "replied"

	DefaultContactPriority = "normal"
)

type ContactMessage struct {
	ID         int64     `json:"id" db:"id"`
	MessageID  string    `json:"message_id" db:"message_id"`
	Name       string    `json:"name" db:"name"`
	Email      string    `json:"email" db:"email"`
	Subject    *string   `json:"subject,omitempty" db:"subject"`
	Message    string    `json:"message" db:"message"`
	Status     string    `json:"status" db:"status"`
	Priority   string    `json:"priority" db:"priority"`
	AssignedTo *int64    `json:"assigned_to,omitempty" db:"assigned_to"`
	Response   *string   `json:"response,omitempty" db:"response"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

type ContactFilter struct {
	Status   string
	Priority string
	// Search matches name, email or subject, case-insensitively.
	Search string
}

// ContactStatusUpdate replaces all triage columns of a message.
type ContactStatusUpdate struct {
	Status     string
	AssignedTo *int64
	Response   *string
	At         time.Time
}

type ContactMessageRepositoryInterface interface {
	Create(ctx context.Context, m *ContactMessage) error
	FindByMessageID(ctx context.Context, messageID string) (*ContactMessage, error)
	List(ctx context.Context, f ContactFilter, p Page) ([]ContactMessage, int, error)
	UpdateStatus(ctx context.Context, messageID string, u ContactStatusUpdate) error
	Delete(ctx context.Context, messageID string) error
	CountByStatus(ctx context.Context) ([]StatusCount, error)
}
