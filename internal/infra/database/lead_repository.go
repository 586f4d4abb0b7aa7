package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/xavierca1/tes-insurance/internal/entity"
)

const leadColumns = `id, lead_id, name, email, phone, zip_code, coverage_type, status, source, notes, created_at, updated_at`

const leadDetailColumns = `id, lead_id, date_of_birth, gender, marital_status, occupation,
	street_address, city, state, license_number, years_licensed,
	violations, accidents, vehicle_year, vehicle_make, vehicle_model,
	vin, mileage, vehicle_usage, garaging_address, property_address,
	year_built, business_name, dot_number, num_employees, annual_payroll,
	operations, coverage_limits, deductible, payment_method, billing_cycle,
	emergency_name, emergency_phone, emergency_relationship, additional_details`

const insertLeadDetail = `
	INSERT INTO lead_details (
		lead_id, date_of_birth, gender, marital_status, occupation,
		street_address, city, state, license_number, years_licensed,
		violations, accidents, vehicle_year, vehicle_make, vehicle_model,
		vin, mileage, vehicle_usage, garaging_address, property_address,
		year_built, business_name, dot_number, num_employees, annual_payroll,
		operations, coverage_limits, deductible, payment_method, billing_cycle,
		emergency_name, emergency_phone, emergency_relationship, additional_details
	) VALUES (
		:lead_id, :date_of_birth, :gender, :marital_status, :occupation,
		:street_address, :city, :state, :license_number, :years_licensed,
		:violations, :accidents, :vehicle_year, :vehicle_make, :vehicle_model,
		:vin, :mileage, :vehicle_usage, :garaging_address, :property_address,
		:year_built, :business_name, :dot_number, :num_employees, :annual_payroll,
		:operations, :coverage_limits, :deductible, :payment_method, :billing_cycle,
		:emergency_name, :emergency_phone, :emergency_relationship, :additional_details
	)`

type LeadRepository struct {
	DB *sqlx.DB
}

func NewLeadRepository(db *sqlx.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead, detail *entity.LeadDetail) error {
	now := time.Now().UTC()
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = now
	}
	lead.UpdatedAt = lead.CreatedAt

	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin lead tx: %w", err)
	}
	defer tx.Rollback()

	query := tx.Rebind(`
		INSERT INTO leads (lead_id, name, email, phone, zip_code, coverage_type, status, source, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)
	err = tx.QueryRowxContext(ctx, query,
		lead.LeadID, lead.Name, lead.Email, lead.Phone, lead.ZipCode, lead.CoverageType,
		lead.Status, lead.Source, lead.Notes, lead.CreatedAt, lead.UpdatedAt,
	).Scan(&lead.ID)
	if err != nil {
		return classify(err)
	}

	if detail != nil {
		detail.LeadID = lead.LeadID
		if _, err := tx.NamedExecContext(ctx, insertLeadDetail, detail); err != nil {
			return classify(err)
		}
	}

	return tx.Commit()
}

func (r *LeadRepository) FindByLeadID(ctx context.Context, leadID string) (*entity.LeadWithDetails, error) {
	var out entity.LeadWithDetails
	query := r.DB.Rebind(`SELECT ` + leadColumns + ` FROM leads WHERE lead_id = ?`)
	if err := r.DB.GetContext(ctx, &out.Lead, query, leadID); err != nil {
		return nil, classify(err)
	}

	var detail entity.LeadDetail
	query = r.DB.Rebind(`SELECT ` + leadDetailColumns + ` FROM lead_details WHERE lead_id = ?`)
	err := r.DB.GetContext(ctx, &detail, query, leadID)
	switch err = classify(err); {
	case err == nil:
		out.LeadDetail = &detail
	case errors.Is(err, entity.ErrNotFound):
	default:
		return nil, err
	}
	return &out, nil
}

func (r *LeadRepository) List(ctx context.Context, f entity.LeadFilter, p entity.Page) ([]entity.LeadSummary, int, error) {
	var w where
	if f.Status != "" {
		w.add("l.status = ?", f.Status)
	}
	if f.CoverageType != "" {
		w.add("l.coverage_type = ?", f.CoverageType)
	}
	if f.Search != "" {
		pattern := likePattern(f.Search)
		w.add("(LOWER(l.name) LIKE ? OR LOWER(l.email) LIKE ? OR LOWER(l.phone) LIKE ?)", pattern, pattern, pattern)
	}

	var total int
	countQuery := r.DB.Rebind(`SELECT COUNT(*) FROM leads l` + w.String())
	if err := r.DB.GetContext(ctx, &total, countQuery, w.args...); err != nil {
		return nil, 0, classify(err)
	}

	leads := []entity.LeadSummary{}
	query := r.DB.Rebind(`
		SELECT
			l.lead_id, l.name, l.email, l.phone, l.zip_code, l.coverage_type,
			l.status, l.source, l.created_at,
			ld.street_address, ld.city, ld.state,
			ld.vehicle_year, ld.vehicle_make, ld.vehicle_model, ld.business_name
		FROM leads l
		LEFT JOIN lead_details ld ON l.lead_id = ld.lead_id` + w.String() + `
		ORDER BY l.created_at DESC, l.id DESC
		LIMIT ? OFFSET ?`)
	args := append(append([]any{}, w.args...), p.Limit, p.Offset())
	if err := r.DB.SelectContext(ctx, &leads, query, args...); err != nil {
		return nil, 0, classify(err)
	}
	return leads, total, nil
}

func (r *LeadRepository) Recent(ctx context.Context, n int) ([]entity.Lead, error) {
	leads := []entity.Lead{}
	query := r.DB.Rebind(`SELECT ` + leadColumns + ` FROM leads ORDER BY created_at DESC, id DESC LIMIT ?`)
	if err := r.DB.SelectContext(ctx, &leads, query, n); err != nil {
		return nil, classify(err)
	}
	return leads, nil
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, leadID, status string, notes *string, at time.Time) error {
	query := r.DB.Rebind(`UPDATE leads SET status = ?, notes = ?, updated_at = ? WHERE lead_id = ?`)
	return expectOne(r.DB.ExecContext(ctx, query, status, notes, at, leadID))
}

func (r *LeadRepository) CountByStatus(ctx context.Context) ([]entity.StatusCount, error) {
	stats := []entity.StatusCount{}
	err := r.DB.SelectContext(ctx, &stats, `
		SELECT status, COUNT(*) AS count
		FROM leads
		GROUP BY status
		ORDER BY count DESC, status`)
	return stats, classify(err)
}
