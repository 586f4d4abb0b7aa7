package entity

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx/types"
)

const (
	PolicyStatusActive    = "active"
	PolicyStatusCancelled = "cancelled"
	PolicyStatusExpired   = "expired"
)

// Policy is a bound contract originating from an approved quote.
type Policy struct {
	ID             int64              `json:"id" db:"id"`
	PolicyID       string             `json:"policy_id" db:"policy_id"`
	QuoteID        string             `json:"quote_id" db:"quote_id"`
	LeadID         string             `json:"lead_id" db:"lead_id"`
	CarrierName    string             `json:"carrier_name" db:"carrier_name"`
	PolicyNumber   string             `json:"policy_number" db:"policy_number"`
	Premium        float64            `json:"premium" db:"premium"`
	EffectiveDate  *string            `json:"effective_date,omitempty" db:"effective_date"`
	ExpirationDate *string            `json:"expiration_date,omitempty" db:"expiration_date"`
	Status         string             `json:"status" db:"status"`
	Documents      types.NullJSONText `json:"documents" db:"documents"`
	CreatedAt      time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" db:"updated_at"`
}

type PolicyFilter struct {
	Status string
	LeadID string
}

type PolicyRepositoryInterface interface {
	Create(ctx context.Context, p *Policy) error
	FindByPolicyID(ctx context.Context, policyID string) (*Policy, error)
	FindByQuoteID(ctx context.Context, quoteID string) (*Policy, error)
	List(ctx context.Context, f PolicyFilter, p Page) ([]Policy, int, error)
	UpdateStatus(ctx context.Context, policyID, status string, at time.Time) error
	// Delete exists to compensate a failed multi-step write.
	Delete(ctx context.Context, policyID string) error
}
