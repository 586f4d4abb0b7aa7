package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/xavierca1/tes-insurance/internal/audit"
	"github.com/xavierca1/tes-insurance/internal/entity"
)

const (
	entityQuote     = "quote"
	msgOfferMissing = "Offer not found"
)

var quoteStatuses = []string{
	entity.QuoteStatusPending,
	entity.QuoteStatusApproved,
	entity.QuoteStatusDeclined,
	entity.QuoteStatusExpired,
}

// OfferUseCase manages carrier quotes priced for a lead.
type OfferUseCase struct {
	Leads  entity.LeadRepositoryInterface
	Quotes entity.QuoteRepositoryInterface
	Audit  Auditor
	Log    *zap.Logger
	now    func() time.Time
}

func NewOfferUseCase(
	leads entity.LeadRepositoryInterface,
	quotes entity.QuoteRepositoryInterface,
	auditor Auditor,
	log *zap.Logger,
) *OfferUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &OfferUseCase{Leads: leads, Quotes: quotes, Audit: auditorOrNop(auditor), Log: log, now: utcNow}
}

func ValidateCreateOfferInput(in CreateOfferInput) ValidationErrors {
	var errs ValidationErrors
	if !lengthBetween(strings.TrimSpace(in.CarrierName), 2, 255) {
		errs.add("carrier_name", "Carrier name must be between 2 and 255 characters")
	}
	if in.Premium <= 0 {
		errs.add("premium", "Premium must be greater than zero")
	}
	if !isJSONObject(in.CoverageLimits) {
		errs.add("coverage_limits", "Coverage limits must be a JSON object")
	}
	if !isJSONObject(in.Deductibles) {
		errs.add("deductibles", "Deductibles must be a JSON object")
	}
	effectiveOK := in.EffectiveDate == nil || isCalendarDate(*in.EffectiveDate)
	if !effectiveOK {
		errs.add("effective_date", "Effective date must be YYYY-MM-DD")
	}
	expirationOK := in.ExpirationDate == nil || isCalendarDate(*in.ExpirationDate)
	if !expirationOK {
		errs.add("expiration_date", "Expiration date must be YYYY-MM-DD")
	}
	if effectiveOK && expirationOK && in.EffectiveDate != nil && in.ExpirationDate != nil &&
		*in.ExpirationDate <= *in.EffectiveDate {
		errs.add("expiration_date", "Expiration date must be after the effective date")
	}
	if in.Status != "" && !isOneOf(in.Status, quoteStatuses...) {
		errs.add("status", "Status must be one of pending, approved, declined, expired")
	}
	return errs
}

// Create records a carrier quote for leadID. A lead that is still new or
// contacted moves to quoted; the quote is removed again if that fails.
func (uc *OfferUseCase) Create(ctx context.Context, leadID string, in CreateOfferInput) (*entity.Quote, error) {
	if err := ValidateCreateOfferInput(in).err(); err != nil {
		return nil, err
	}

	lead, err := uc.Leads.FindByLeadID(ctx, leadID)
	if err != nil {
		return nil, lookupError("find lead", msgQuoteMissing, err)
	}

	now := uc.now()
	q := &entity.Quote{
		QuoteID:        uuid.NewString(),
		LeadID:         leadID,
		CarrierName:    strings.TrimSpace(in.CarrierName),
		Premium:        in.Premium,
		CoverageLimits: nullJSON(in.CoverageLimits),
		Deductibles:    nullJSON(in.Deductibles),
		EffectiveDate:  in.EffectiveDate,
		ExpirationDate: in.ExpirationDate,
		Status:         in.Status,
		Notes:          trimPtr(in.Notes),
		CreatedAt:      now,
	}
	if q.Status == "" {
		q.Status = entity.QuoteStatusPending
	}

	txn := NewTransaction(uc.Log)
	txn.AddStep("create_quote",
		func(ctx context.Context) error { return storeError("create quote", uc.Quotes.Create(ctx, q)) },
		func(ctx context.Context) error { return uc.Quotes.Delete(ctx, q.QuoteID) },
	)
	if lead.Status == entity.LeadStatusNew || lead.Status == entity.LeadStatusContacted {
		txn.AddStep("mark_lead_quoted",
			func(ctx context.Context) error {
				return storeError("mark lead quoted", uc.Leads.UpdateStatus(ctx, leadID, entity.LeadStatusQuoted, lead.Notes, now))
			},
			nil,
		)
	}
	if err := txn.Execute(ctx); err != nil {
		return nil, err
	}

	uc.Audit.Record(ctx, audit.Entry{
		Action:     entity.AuditActionCreate,
		EntityType: entityQuote,
		EntityID:   q.QuoteID,
		New:        q,
	})
	return q, nil
}

func (uc *OfferUseCase) Get(ctx context.Context, quoteID string) (*entity.Quote, error) {
	q, err := uc.Quotes.FindByQuoteID(ctx, quoteID)
	if err != nil {
		return nil, lookupError("find quote", msgOfferMissing, err)
	}
	return q, nil
}

func (uc *OfferUseCase) UpdateStatus(ctx context.Context, quoteID string, in UpdateOfferStatusInput) (*entity.Quote, error) {
	status := strings.TrimSpace(in.Status)
	if status == "" {
		return nil, ValidationErrors{{Field: "status", Message: "Status is required"}}
	}
	if !isOneOf(status, quoteStatuses...) {
		return nil, ValidationErrors{{Field: "status", Message: "Status must be one of pending, approved, declined, expired"}}
	}

	current, err := uc.Quotes.FindByQuoteID(ctx, quoteID)
	if err != nil {
		return nil, lookupError("find quote", msgOfferMissing, err)
	}

	notes := current.Notes
	if in.Notes != nil {
		notes = trimPtr(in.Notes)
	}
	now := uc.now()
	if err := uc.Quotes.UpdateStatus(ctx, quoteID, status, notes, now); err != nil {
		return nil, lookupError("update quote status", msgOfferMissing, err)
	}

	uc.Audit.Record(ctx, audit.Entry{
		Action:     entity.AuditActionUpdate,
		EntityType: entityQuote,
		EntityID:   quoteID,
		Old:        map[string]any{"status": current.Status, "notes": current.Notes},
		New:        map[string]any{"status": status, "notes": notes},
	})

	updated := *current
	updated.Status = status
	updated.Notes = notes
	updated.UpdatedAt = now
	return &updated, nil
}

func nullJSON(raw json.RawMessage) types.NullJSONText {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return types.NullJSONText{}
	}
	return types.NullJSONText{JSONText: types.JSONText(raw), Valid: true}
}
