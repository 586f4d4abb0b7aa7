package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xavierca1/tes-insurance/internal/audit"
	"github.com/xavierca1/tes-insurance/internal/entity"
	"github.com/xavierca1/tes-insurance/internal/infra/queue"
	"github.com/xavierca1/tes-insurance/internal/metrics"
)

const (
	entityLead = "lead"

	msgQuoteCreated = "Quote request created successfully"
	msgQuoteMissing = "Quote not found"
)

// LeadUseCase captures public quote requests and serves the staff lead
// pipeline.
type LeadUseCase struct {
	Leads  entity.LeadRepositoryInterface
	Quotes entity.QuoteRepositoryInterface
	Audit  Auditor
	Events EventPublisher
	Log    *zap.Logger
	now    func() time.Time
}

func NewLeadUseCase(
	leads entity.LeadRepositoryInterface,
	quotes entity.QuoteRepositoryInterface,
	auditor Auditor,
	events EventPublisher,
	log *zap.Logger,
) *LeadUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &LeadUseCase{
		Leads:  leads,
		Quotes: quotes,
		Audit:  auditorOrNop(auditor),
		Events: events,
		Log:    log,
		now:    utcNow,
	}
}

func ValidateCreateLeadInput(in CreateLeadInput) ValidationErrors {
	var errs ValidationErrors
	d := in.LeadData

	if !lengthBetween(strings.TrimSpace(d.Name), 2, 255) {
		errs.add("leadData.name", "Name must be between 2 and 255 characters")
	}
	if !isValidEmail(strings.TrimSpace(d.Email)) {
		errs.add("leadData.email", "Valid email is required")
	}
	if !lengthBetween(strings.TrimSpace(d.Phone), 10, 20) {
		errs.add("leadData.phone", "Valid phone number is required")
	}
	if !lengthBetween(strings.TrimSpace(d.ZipCode), 5, 10) {
		errs.add("leadData.zip_code", "Valid zip code is required")
	}
	if !entity.IsCoverageType(d.CoverageType) {
		errs.add("leadData.coverage_type", "Valid coverage type is required")
	}

	det := in.LeadDetails
	if det == nil {
		return errs
	}
	if det.DateOfBirth != nil && !isISODate(*det.DateOfBirth) {
		errs.add("leadDetails.date_of_birth", "Valid date of birth is required")
	}
	if det.LicenseNumber != nil && !lengthBetween(strings.TrimSpace(*det.LicenseNumber), 5, 50) {
		errs.add("leadDetails.license_number", "Valid license number is required")
	}
	if det.VehicleYear != nil {
		maxYear := time.Now().Year() + 1
		if *det.VehicleYear < 1980 || *det.VehicleYear > maxYear {
			errs.add("leadDetails.vehicle_year", "Valid vehicle year is required")
		}
	}
	if det.NumEmployees != nil && *det.NumEmployees < 0 {
		errs.add("leadDetails.num_employees", "Number of employees must be a positive integer")
	}
	if det.AnnualPayroll != nil && !isMoney(*det.AnnualPayroll) {
		errs.add("leadDetails.annual_payroll", "Annual payroll must be a valid decimal")
	}
	return errs
}

// Create writes the lead and its details atomically, then records the audit
// row and publishes lead.created. Neither side effect can fail the request.
func (uc *LeadUseCase) Create(ctx context.Context, in CreateLeadInput) (*CreateLeadOutput, error) {
	if err := ValidateCreateLeadInput(in).err(); err != nil {
		return nil, err
	}

	d := in.LeadData
	lead := &entity.Lead{
		LeadID:       uuid.NewString(),
		Name:         strings.TrimSpace(d.Name),
		Email:        normalizeEmail(d.Email),
		Phone:        strings.TrimSpace(d.Phone),
		ZipCode:      strings.TrimSpace(d.ZipCode),
		CoverageType: d.CoverageType,
		Status:       d.Status,
		Source:       d.Source,
		Notes:        trimPtr(d.Notes),
		CreatedAt:    uc.now(),
	}
	if lead.Status == "" {
		lead.Status = entity.LeadStatusNew
	}
	if lead.Source == "" {
		lead.Source = entity.DefaultLeadSource
	}

	var detail *entity.LeadDetail
	if in.LeadDetails != nil {
		detail = in.LeadDetails.toEntity()
	}

	if err := uc.Leads.Create(ctx, lead, detail); err != nil {
		return nil, storeError("create lead", err)
	}
	metrics.RecordLeadCaptured(lead.CoverageType)

	uc.Audit.Record(ctx, audit.Entry{
		Action:     entity.AuditActionCreate,
		EntityType: entityLead,
		EntityID:   lead.LeadID,
		New:        in,
	})

	if uc.Events != nil {
		err := uc.Events.PublishLeadCreated(ctx, queue.LeadCreatedPayload{
			LeadID:       lead.LeadID,
			Name:         lead.Name,
			Email:        lead.Email,
			Phone:        lead.Phone,
			ZipCode:      lead.ZipCode,
			CoverageType: lead.CoverageType,
			Source:       lead.Source,
			CreatedAt:    lead.CreatedAt,
		})
		if err != nil {
			metrics.RecordEventPublishFailure(queue.EventLeadCreated)
			uc.Log.Warn("publish lead.created failed", zap.String("lead_id", lead.LeadID), zap.Error(err))
		}
	}

	return &CreateLeadOutput{LeadID: lead.LeadID, Message: msgQuoteCreated}, nil
}

func (uc *LeadUseCase) List(ctx context.Context, in ListLeadsInput) (*PageResult[entity.LeadSummary], error) {
	items, total, err := uc.Leads.List(ctx, in.Filter, in.Page)
	if err != nil {
		return nil, storeError("list leads", err)
	}
	return &PageResult[entity.LeadSummary]{Items: items, Pagination: entity.NewPagination(in.Page, total)}, nil
}

// Get returns the lead with its details and every carrier quote for it.
func (uc *LeadUseCase) Get(ctx context.Context, leadID string) (*LeadOutput, error) {
	lead, err := uc.Leads.FindByLeadID(ctx, leadID)
	if err != nil {
		return nil, lookupError("find lead", msgQuoteMissing, err)
	}
	quotes, err := uc.Quotes.ListByLead(ctx, leadID)
	if err != nil {
		return nil, storeError("list lead quotes", err)
	}
	return &LeadOutput{Lead: lead, Quotes: quotes}, nil
}

// UpdateStatus sets a free-form status. Omitted notes keep their value.
func (uc *LeadUseCase) UpdateStatus(ctx context.Context, leadID string, in UpdateLeadStatusInput) error {
	status := strings.TrimSpace(in.Status)
	if status == "" {
		return ValidationErrors{{Field: "status", Message: "Status is required"}}
	}

	current, err := uc.Leads.FindByLeadID(ctx, leadID)
	if err != nil {
		return lookupError("find lead", msgQuoteMissing, err)
	}

	notes := current.Notes
	if in.Notes != nil {
		notes = in.Notes
	}
	if err := uc.Leads.UpdateStatus(ctx, leadID, status, notes, uc.now()); err != nil {
		return lookupError("update lead status", msgQuoteMissing, err)
	}

	uc.Audit.Record(ctx, audit.Entry{
		Action:     entity.AuditActionUpdate,
		EntityType: entityLead,
		EntityID:   leadID,
		Old:        map[string]any{"status": current.Status, "notes": current.Notes},
		New:        map[string]any{"status": status, "notes": notes},
	})
	return nil
}

// Close retires a lead by moving it to closed. Leads are never removed.
func (uc *LeadUseCase) Close(ctx context.Context, leadID string) error {
	current, err := uc.Leads.FindByLeadID(ctx, leadID)
	if err != nil {
		return lookupError("find lead", msgQuoteMissing, err)
	}
	if err := uc.Leads.UpdateStatus(ctx, leadID, entity.LeadStatusClosed, current.Notes, uc.now()); err != nil {
		return lookupError("close lead", msgQuoteMissing, err)
	}

	uc.Audit.Record(ctx, audit.Entry{
		Action:     entity.AuditActionDelete,
		EntityType: entityLead,
		EntityID:   leadID,
		Old:        map[string]any{"status": current.Status},
		New:        map[string]any{"status": entity.LeadStatusClosed},
	})
	return nil
}

func (d *LeadDetailsInput) toEntity() *entity.LeadDetail {
	det := &entity.LeadDetail{
		DateOfBirth:           trimPtr(d.DateOfBirth),
		Gender:                trimPtr(d.Gender),
		MaritalStatus:         trimPtr(d.MaritalStatus),
		Occupation:            trimPtr(d.Occupation),
		StreetAddress:         trimPtr(d.StreetAddress),
		City:                  trimPtr(d.City),
		State:                 trimPtr(d.State),
		LicenseNumber:         trimPtr(d.LicenseNumber),
		YearsLicensed:         d.YearsLicensed,
		Violations:            trimPtr(d.Violations),
		Accidents:             trimPtr(d.Accidents),
		VehicleYear:           d.VehicleYear,
		VehicleMake:           trimPtr(d.VehicleMake),
		VehicleModel:          trimPtr(d.VehicleModel),
		VIN:                   trimPtr(d.VIN),
		Mileage:               d.Mileage,
		VehicleUsage:          trimPtr(d.VehicleUsage),
		GaragingAddress:       trimPtr(d.GaragingAddress),
		PropertyAddress:       trimPtr(d.PropertyAddress),
		YearBuilt:             d.YearBuilt,
		BusinessName:          trimPtr(d.BusinessName),
		DOTNumber:             trimPtr(d.DOTNumber),
		NumEmployees:          d.NumEmployees,
		Operations:            trimPtr(d.Operations),
		CoverageLimits:        trimPtr(d.CoverageLimits),
		Deductible:            trimPtr(d.Deductible),
		PaymentMethod:         trimPtr(d.PaymentMethod),
		BillingCycle:          trimPtr(d.BillingCycle),
		EmergencyName:         trimPtr(d.EmergencyName),
		EmergencyPhone:        trimPtr(d.EmergencyPhone),
		EmergencyRelationship: trimPtr(d.EmergencyRelationship),
		AdditionalDetails:     trimPtr(d.AdditionalDetails),
	}
	if d.AnnualPayroll != nil {
		if v, err := d.AnnualPayroll.Float64(); err == nil {
			det.AnnualPayroll = &v
		}
	}
	return det
}
