package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/xavierca1/tes-insurance/internal/entity"
)

const quoteColumns = `id, quote_id, lead_id, carrier_name, premium, coverage_limits, deductibles,
	effective_date, expiration_date, status, notes, created_at, updated_at`

type QuoteRepository struct {
	DB *sqlx.DB
}

func NewQuoteRepository(db *sqlx.DB) *QuoteRepository {
	return &QuoteRepository{DB: db}
}

func (r *QuoteRepository) Create(ctx context.Context, q *entity.Quote) error {
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}
	q.UpdatedAt = q.CreatedAt

	query := r.DB.Rebind(`
		INSERT INTO quotes (quote_id, lead_id, carrier_name, premium, coverage_limits, deductibles,
			effective_date, expiration_date, status, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)
	err := r.DB.QueryRowxContext(ctx, query,
		q.QuoteID, q.LeadID, q.CarrierName, q.Premium,
		nullJSONArg(q.CoverageLimits), nullJSONArg(q.Deductibles),
		q.EffectiveDate, q.ExpirationDate, q.Status, q.Notes, q.CreatedAt, q.UpdatedAt,
	).Scan(&q.ID)
	return classify(err)
}

func (r *QuoteRepository) FindByQuoteID(ctx context.Context, quoteID string) (*entity.Quote, error) {
	var q entity.Quote
	query := r.DB.Rebind(`SELECT ` + quoteColumns + ` FROM quotes WHERE quote_id = ?`)
	if err := r.DB.GetContext(ctx, &q, query, quoteID); err != nil {
		return nil, classify(err)
	}
	return &q, nil
}

func (r *QuoteRepository) ListByLead(ctx context.Context, leadID string) ([]entity.Quote, error) {
	quotes := []entity.Quote{}
	query := r.DB.Rebind(`SELECT ` + quoteColumns + ` FROM quotes WHERE lead_id = ? ORDER BY created_at DESC, id DESC`)
	if err := r.DB.SelectContext(ctx, &quotes, query, leadID); err != nil {
		return nil, classify(err)
	}
	return quotes, nil
}

func (r *QuoteRepository) UpdateStatus(ctx context.Context, quoteID, status string, notes *string, at time.Time) error {
	query := r.DB.Rebind(`UPDATE quotes SET status = ?, notes = ?, updated_at = ? WHERE quote_id = ?`)
	return expectOne(r.DB.ExecContext(ctx, query, status, notes, at, quoteID))
}

func (r *QuoteRepository) Delete(ctx context.Context, quoteID string) error {
	query := r.DB.Rebind(`DELETE FROM quotes WHERE quote_id = ?`)
	return expectOne(r.DB.ExecContext(ctx, query, quoteID))
}

// ExpireBefore moves open quotes whose expiration_date is before day
// (YYYY-MM-DD) to expired and returns their quote ids.
func (r *QuoteRepository) ExpireBefore(ctx context.Context, day string, at time.Time) ([]string, error) {
	ids := []string{}
	query := r.DB.Rebind(`
		UPDATE quotes SET status = ?, updated_at = ?
		WHERE status IN (?, ?) AND expiration_date IS NOT NULL AND expiration_date < ?
		RETURNING quote_id`)
	err := r.DB.SelectContext(ctx, &ids, query,
		entity.QuoteStatusExpired, at,
		entity.QuoteStatusPending, entity.QuoteStatusApproved, day,
	)
	return ids, classify(err)
}
