package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/xavierca1/tes-insurance/internal/entity"
)

const carrierColumns = `id, name, logo_url, website, phone, email, products, api_enabled, is_active, created_at`

type CarrierRepository struct {
	DB *sqlx.DB
}

func NewCarrierRepository(db *sqlx.DB) *CarrierRepository {
	return &CarrierRepository{DB: db}
}

func (r *CarrierRepository) Create(ctx context.Context, c *entity.Carrier) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if len(c.Products) == 0 {
		c.Products = []byte("[]")
	}
	query := r.DB.Rebind(`
		INSERT INTO carriers (name, logo_url, website, phone, email, products, api_enabled, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)
	err := r.DB.QueryRowxContext(ctx, query,
		c.Name, c.LogoURL, c.Website, c.Phone, c.Email, jsonArg(c.Products), c.APIEnabled, c.IsActive, c.CreatedAt,
	).Scan(&c.ID)
	return classify(err)
}

func (r *CarrierRepository) Update(ctx context.Context, c *entity.Carrier) error {
	query := r.DB.Rebind(`
		UPDATE carriers
		SET name = ?, logo_url = ?, website = ?, phone = ?, email = ?, products = ?, api_enabled = ?, is_active = ?
		WHERE id = ?`)
	return expectOne(r.DB.ExecContext(ctx, query,
		c.Name, c.LogoURL, c.Website, c.Phone, c.Email, jsonArg(c.Products), c.APIEnabled, c.IsActive, c.ID,
	))
}

func (r *CarrierRepository) FindByID(ctx context.Context, id int64) (*entity.Carrier, error) {
	var c entity.Carrier
	query := r.DB.Rebind(`SELECT ` + carrierColumns + ` FROM carriers WHERE id = ?`)
	if err := r.DB.GetContext(ctx, &c, query, id); err != nil {
		return nil, classify(err)
	}
	return &c, nil
}

// ListActive matches product against the JSON array text, so "Auto" does not
// match "Commercial Auto".
func (r *CarrierRepository) ListActive(ctx context.Context, product string) ([]entity.Carrier, error) {
	var w where
	w.add("is_active = ?", true)
	if product != "" {
		w.add("products LIKE ?", `%"`+product+`"%`)
	}

	carriers := []entity.Carrier{}
	query := r.DB.Rebind(`SELECT ` + carrierColumns + ` FROM carriers` + w.String() + ` ORDER BY name`)
	if err := r.DB.SelectContext(ctx, &carriers, query, w.args...); err != nil {
		return nil, classify(err)
	}
	return carriers, nil
}
