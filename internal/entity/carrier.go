package entity

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx/types"
)

type Carrier struct {
	ID         int64          `json:"id" db:"id"`
	Name       string         `json:"name" db:"name"`
	LogoURL    *string        `json:"logo_url,omitempty" db:"logo_url"`
	Website    *string        `json:"website,omitempty" db:"website"`
	Phone      *string        `json:"phone,omitempty" db:"phone"`
	Email      *string        `json:"email,omitempty" db:"email"`
	Products   types.JSONText `json:"products" db:"products"`
	APIEnabled bool           `json:"api_enabled" db:"api_enabled"`
	IsActive   bool           `json:"is_active" db:"is_active"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
}

type CarrierRepositoryInterface interface {
	Create(ctx context.Context, c *Carrier) error
	Update(ctx context.Context, c *Carrier) error
	FindByID(ctx context.Context, id int64) (*Carrier, error)
	// ListActive returns active carriers by name. An empty product matches all.
	ListActive(ctx context.Context, product string) ([]Carrier, error)
}
