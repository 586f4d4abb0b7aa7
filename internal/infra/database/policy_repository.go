package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/xavierca1/tes-insurance/internal/entity"
)

const policyColumns = `id, policy_id, quote_id, lead_id, carrier_name, policy_number, premium,
	effective_date, expiration_date, status, documents, created_at, updated_at`

type PolicyRepository struct {
	DB *sqlx.DB
}

func NewPolicyRepository(db *sqlx.DB) *PolicyRepository {
	return &PolicyRepository{DB: db}
}

func (r *PolicyRepository) Create(ctx context.Context, p *entity.Policy) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.UpdatedAt = p.CreatedAt

	query := r.DB.Rebind(`
		INSERT INTO policies (policy_id, quote_id, lead_id, carrier_name, policy_number, premium,
			effective_date, expiration_date, status, documents, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)
	err := r.DB.QueryRowxContext(ctx, query,
		p.PolicyID, p.QuoteID, p.LeadID, p.CarrierName, p.PolicyNumber, p.Premium,
		p.EffectiveDate, p.ExpirationDate, p.Status, nullJSONArg(p.Documents), p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	return classify(err)
}

func (r *PolicyRepository) FindByPolicyID(ctx context.Context, policyID string) (*entity.Policy, error) {
	var p entity.Policy
	query := r.DB.Rebind(`SELECT ` + policyColumns + ` FROM policies WHERE policy_id = ?`)
	if err := r.DB.GetContext(ctx, &p, query, policyID); err != nil {
		return nil, classify(err)
	}
	return &p, nil
}

// FindByQuoteID returns the policy bound from quoteID.
func (r *PolicyRepository) FindByQuoteID(ctx context.Context, quoteID string) (*entity.Policy, error) {
	var p entity.Policy
	query := r.DB.Rebind(`SELECT ` + policyColumns + ` FROM policies WHERE quote_id = ?`)
	if err := r.DB.GetContext(ctx, &p, query, quoteID); err != nil {
		return nil, classify(err)
	}
	return &p, nil
}

func (r *PolicyRepository) List(ctx context.Context, f entity.PolicyFilter, p entity.Page) ([]entity.Policy, int, error) {
	var w where
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.LeadID != "" {
		w.add("lead_id = ?", f.LeadID)
	}

	var total int
	if err := r.DB.GetContext(ctx, &total, r.DB.Rebind(`SELECT COUNT(*) FROM policies`+w.String()), w.args...); err != nil {
		return nil, 0, classify(err)
	}

	policies := []entity.Policy{}
	query := r.DB.Rebind(`SELECT ` + policyColumns + ` FROM policies` + w.String() + ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`)
	args := append(append([]any{}, w.args...), p.Limit, p.Offset())
	if err := r.DB.SelectContext(ctx, &policies, query, args...); err != nil {
		return nil, 0, classify(err)
	}
	return policies, total, nil
}

func (r *PolicyRepository) UpdateStatus(ctx context.Context, policyID, status string, at time.Time) error {
	query := r.DB.Rebind(`UPDATE policies SET status = ?, updated_at = ? WHERE policy_id = ?`)
	return expectOne(r.DB.ExecContext(ctx, query, status, at, policyID))
}

func (r *PolicyRepository) Delete(ctx context.Context, policyID string) error {
	query := r.DB.Rebind(`DELETE FROM policies WHERE policy_id = ?`)
	return expectOne(r.DB.ExecContext(ctx, query, policyID))
}

// ExpireBefore moves active policies whose expiration_date is before day
// (YYYY-MM-DD) to expired and returns their policy ids.
func (r *PolicyRepository) ExpireBefore(ctx context.Context, day string, at time.Time) ([]string, error) {
	ids := []string{}
	query := r.DB.Rebind(`
		UPDATE policies SET status = ?, updated_at = ?
		WHERE status = ? AND expiration_date IS NOT NULL AND expiration_date < ?
		RETURNING policy_id`)
	err := r.DB.SelectContext(ctx, &ids, query,
		entity.PolicyStatusExpired, at, entity.PolicyStatusActive, day,
	)
	return ids, classify(err)
}
