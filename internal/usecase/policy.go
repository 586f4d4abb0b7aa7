package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/xavierca1/tes-insurance/internal/audit"
	"github.com/xavierca1/tes-insurance/internal/entity"
)

const (
	entityPolicy       = "policy"
	msgPolicyMissing   = "Policy not found"
	msgQuoteNotBinding = "Quote must be approved before binding"
	msgQuoteBound      = "Quote already has a policy"
)

var policyStatuses = []string{
	entity.PolicyStatusActive,
	entity.PolicyStatusCancelled,
	entity.PolicyStatusExpired,
}

type PolicyUseCase struct {
	Leads    entity.LeadRepositoryInterface
	Quotes   entity.QuoteRepositoryInterface
	Policies entity.PolicyRepositoryInterface
	Audit    Auditor
	Log      *zap.Logger
	now      func() time.Time
}

func NewPolicyUseCase(
	leads entity.LeadRepositoryInterface,
	quotes entity.QuoteRepositoryInterface,
	policies entity.PolicyRepositoryInterface,
	auditor Auditor,
	log *zap.Logger,
) *PolicyUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &PolicyUseCase{
		Leads:    leads,
		Quotes:   quotes,
		Policies: policies,
		Audit:    auditorOrNop(auditor),
		Log:      log,
		now:      utcNow,
	}
}

func ValidateBindPolicyInput(in BindPolicyInput) ValidationErrors {
	var errs ValidationErrors
	if strings.TrimSpace(in.QuoteID) == "" {
		errs.add("quote_id", "Quote ID is required")
	}
	if !lengthBetween(strings.TrimSpace(in.PolicyNumber), 3, 100) {
		errs.add("policy_number", "Policy number must be between 3 and 100 characters")
	}
	for _, d := range in.Documents {
		if strings.TrimSpace(d) == "" {
			errs.add("documents", "Documents must be non-empty names")
			break
		}
	}
	return errs
}

// Bind issues the single policy an approved quote allows. Carrier, premium, dates and
// lead are copied from the quote, and the lead moves to converted.
func (uc *PolicyUseCase) Bind(ctx context.Context, in BindPolicyInput) (*entity.Policy, error) {
	if err := ValidateBindPolicyInput(in).err(); err != nil {
		return nil, err
	}

	quote, err := uc.Quotes.FindByQuoteID(ctx, strings.TrimSpace(in.QuoteID))
	if err != nil {
		return nil, lookupError("find quote", msgOfferMissing, err)
	}
	if quote.Status != entity.QuoteStatusApproved {
		return nil, &DomainError{Code: CodeConflict, Message: msgQuoteNotBinding}
	}
	switch _, err := uc.Policies.FindByQuoteID(ctx, quote.QuoteID); {
	case err == nil:
		return nil, &DomainError{Code: CodeConflict, Message: msgQuoteBound}
	case !errors.Is(err, entity.ErrNotFound):
		return nil, storeError("find policy for quote", err)
	}
	lead, err := uc.Leads.FindByLeadID(ctx, quote.LeadID)
	if err != nil {
		return nil, lookupError("find lead", msgQuoteMissing, err)
	}

	docs := types.NullJSONText{}
	if len(in.Documents) > 0 {
		b, err := json.Marshal(in.Documents)
		if err != nil {
			return nil, &TechnicalError{Code: "ENCODE_ERROR", Message: "encode documents", Err: err}
		}
		docs = types.NullJSONText{JSONText: types.JSONText(b), Valid: true}
	}

	now := uc.now()
	p := &entity.Policy{
		PolicyID:       uuid.NewString(),
		QuoteID:        quote.QuoteID,
		LeadID:         quote.LeadID,
		CarrierName:    quote.CarrierName,
		PolicyNumber:   strings.TrimSpace(in.PolicyNumber),
		Premium:        quote.Premium,
		EffectiveDate:  quote.EffectiveDate,
		ExpirationDate: quote.ExpirationDate,
		Status:         entity.PolicyStatusActive,
		Documents:      docs,
		CreatedAt:      now,
	}

	txn := NewTransaction(uc.Log)
	txn.AddStep("create_policy",
		func(ctx context.Context) error { return storeError("create policy", uc.Policies.Create(ctx, p)) },
		func(ctx context.Context) error { return uc.Policies.Delete(ctx, p.PolicyID) },
	)
	txn.AddStep("mark_lead_converted",
		func(ctx context.Context) error {
			return storeError("mark lead converted", uc.Leads.UpdateStatus(ctx, quote.LeadID, entity.LeadStatusConverted, lead.Notes, now))
		},
		nil,
	)
	if err := txn.Execute(ctx); err != nil {
		return nil, err
	}

	uc.Audit.Record(ctx, audit.Entry{
		Action:     entity.AuditActionCreate,
		EntityType: entityPolicy,
		EntityID:   p.PolicyID,
		New:        p,
	})
	return p, nil
}

func (uc *PolicyUseCase) List(ctx context.Context, in ListPoliciesInput) (*PageResult[entity.Policy], error) {
	items, total, err := uc.Policies.List(ctx, in.Filter, in.Page)
	if err != nil {
		return nil, storeError("list policies", err)
	}
	return &PageResult[entity.Policy]{Items: items, Pagination: entity.NewPagination(in.Page, total)}, nil
}

func (uc *PolicyUseCase) Get(ctx context.Context, policyID string) (*entity.Policy, error) {
	p, err := uc.Policies.FindByPolicyID(ctx, policyID)
	if err != nil {
		return nil, lookupError("find policy", msgPolicyMissing, err)
	}
	return p, nil
}

func (uc *PolicyUseCase) UpdateStatus(ctx context.Context, policyID string, in UpdatePolicyStatusInput) (*entity.Policy, error) {
	status := strings.TrimSpace(in.Status)
	if status == "" {
		return nil, ValidationErrors{{Field: "status", Message: "Status is required"}}
	}
	if !isOneOf(status, policyStatuses...) {
		return nil, ValidationErrors{{Field: "status", Message: "Status must be one of active, cancelled, expired"}}
	}

	current, err := uc.Policies.FindByPolicyID(ctx, policyID)
	if err != nil {
		return nil, lookupError("find policy", msgPolicyMissing, err)
	}
	now := uc.now()
	if err := uc.Policies.UpdateStatus(ctx, policyID, status, now); err != nil {
		return nil, lookupError("update policy status", msgPolicyMissing, err)
	}

	uc.Audit.Record(ctx, audit.Entry{
		Action:     entity.AuditActionUpdate,
		EntityType: entityPolicy,
		EntityID:   policyID,
		Old:        map[string]any{"status": current.Status},
		New:        map[string]any{"status": status},
	})

	updated := *current
	updated.Status = status
	updated.UpdatedAt = now
	return &updated, nil
}
