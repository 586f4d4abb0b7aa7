package entity

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx/types"
)

const (
	QuoteStatusPending  = "pending"
	QuoteStatusApproved = "approved"
	QuoteStatusDeclined = "declined"
	QuoteStatusExpired  = "expired"
)

// Quote is a carrier's priced offer for a lead.
type Quote struct {
	ID             int64              `json:"id" db:"id"`
	QuoteID        string             `json:"quote_id" db:"quote_id"`
	LeadID         string             `json:"lead_id" db:"lead_id"`
	CarrierName    string             `json:"carrier_name" db:"carrier_name"`
	Premium        float64            `json:"premium" db:"premium"`
	CoverageLimits types.NullJSONText `json:"coverage_limits" db:"coverage_limits"`
	Deductibles    types.NullJSONText `json:"deductibles" db:"deductibles"`
	EffectiveDate  *string            `json:"effective_date,omitempty" db:"effective_date"`
	ExpirationDate *string            `json:"expiration_date,omitempty" db:"expiration_date"`
	Status         string             `json:"status" db:"status"`
	Notes          *string            `json:"notes,omitempty" db:"notes"`
	CreatedAt      time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" db:"updated_at"`
}

type QuoteRepositoryInterface interface {
	Create(ctx context.Context, q *Quote) error
	FindByQuoteID(ctx context.Context, quoteID string) (*Quote, error)
	ListByLead(ctx context.Context, leadID string) ([]Quote, error)
	UpdateStatus(ctx context.Context, quoteID, status string, notes *string, at time.Time) error
	// Delete exists to compensate a failed multi-step write.
	Delete(ctx context.Context, quoteID string) error
}
