package entity

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx/types"
)

const (
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
)

type AuditLog struct {
	ID         int64              `json:"id" db:"id"`
	LogID      string             `json:"log_id" db:"log_id"`
	UserID     *int64             `json:"user_id,omitempty" db:"user_id"`
	Action     string             `json:"action" db:"action"`
	EntityType string             `json:"entity_type" db:"entity_type"`
	EntityID   string             `json:"entity_id" db:"entity_id"`
	OldValues  types.NullJSONText `json:"old_values" db:"old_values"`
	NewValues  types.NullJSONText `json:"new_values" db:"new_values"`
	IPAddress  *string            `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent  *string            `json:"user_agent,omitempty" db:"user_agent"`
	CreatedAt  time.Time          `json:"created_at" db:"created_at"`
}

type AuditFilter struct {
	EntityType string
	EntityID   string
	Action     string
	UserID     *int64
}

type AuditLogRepositoryInterface interface {
	Create(ctx context.Context, l *AuditLog) error
	List(ctx context.Context, f AuditFilter, p Page) ([]AuditLog, int, error)
}
