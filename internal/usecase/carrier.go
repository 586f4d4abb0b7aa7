package usecase

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx/types"

	"github.com/xavierca1/tes-insurance/internal/audit"
	"github.com/xavierca1/tes-insurance/internal/entity"
)

const (
	entityCarrier     = "carrier"
	msgCarrierMissing = "Carrier not found"
)

type CarrierUseCase struct {
	Carriers entity.CarrierRepositoryInterface
	Audit    Auditor
	now      func() time.Time
}

func NewCarrierUseCase(carriers entity.CarrierRepositoryInterface, auditor Auditor) *CarrierUseCase {
	return &CarrierUseCase{Carriers: carriers, Audit: auditorOrNop(auditor), now: utcNow}
}

func validateCarrierContact(errs *ValidationErrors, logoURL, website, email *string) {
	if logoURL != nil && strings.TrimSpace(*logoURL) != "" && !isAbsoluteURL(strings.TrimSpace(*logoURL)) {
		errs.add("logo_url", "Logo URL must be a valid URL")
	}
	if website != nil && strings.TrimSpace(*website) != "" && !isAbsoluteURL(strings.TrimSpace(*website)) {
		errs.add("website", "Website must be a valid URL")
	}
	if email != nil && strings.TrimSpace(*email) != "" && !isValidEmail(strings.TrimSpace(*email)) {
		errs.add("email", "Valid email is required")
	}
}

func validateProducts(errs *ValidationErrors, products []string) {
	for _, p := range products {
		if !lengthBetween(strings.TrimSpace(p), 1, 100) {
			errs.add("products", "Products must be non-empty names of at most 100 characters")
			return
		}
	}
}

func ValidateCarrierInput(in CarrierInput) ValidationErrors {
	var errs ValidationErrors
	if !lengthBetween(strings.TrimSpace(in.Name), 2, 255) {
		errs.add("name", "Name must be between 2 and 255 characters")
	}
	validateCarrierContact(&errs, in.LogoURL, in.Website, in.Email)
	validateProducts(&errs, in.Products)
	return errs
}

func ValidateUpdateCarrierInput(in UpdateCarrierInput) ValidationErrors {
	var errs ValidationErrors
	if in.Name != nil && !lengthBetween(strings.TrimSpace(*in.Name), 2, 255) {
		errs.add("name", "Name must be between 2 and 255 characters")
	}
	validateCarrierContact(&errs, in.LogoURL, in.Website, in.Email)
	if in.Products != nil {
		validateProducts(&errs, *in.Products)
	}
	return errs
}

// List returns active carriers; product narrows to carriers offering it.
func (uc *CarrierUseCase) List(ctx context.Context, product string) ([]entity.Carrier, error) {
	carriers, err := uc.Carriers.ListActive(ctx, strings.TrimSpace(product))
	if err != nil {
		return nil, storeError("list carriers", err)
	}
	return carriers, nil
}

func (uc *CarrierUseCase) Get(ctx context.Context, id int64) (*entity.Carrier, error) {
	c, err := uc.Carriers.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError("find carrier", msgCarrierMissing, err)
	}
	return c, nil
}

func (uc *CarrierUseCase) Create(ctx context.Context, in CarrierInput) (*entity.Carrier, error) {
	if err := ValidateCarrierInput(in).err(); err != nil {
		return nil, err
	}

	products, err := productsJSON(in.Products)
	if err != nil {
		return nil, err
	}
	c := &entity.Carrier{
		Name:       strings.TrimSpace(in.Name),
		LogoURL:    trimPtr(in.LogoURL),
		Website:    trimPtr(in.Website),
		Phone:      trimPtr(in.Phone),
		Email:      trimPtr(in.Email),
		Products:   products,
		APIEnabled: in.APIEnabled,
		IsActive:   true,
		CreatedAt:  uc.now(),
	}
	if err := uc.Carriers.Create(ctx, c); err != nil {
		return nil, storeError("create carrier", err)
	}

	uc.Audit.Record(ctx, audit.Entry{
		Action:     entity.AuditActionCreate,
		EntityType: entityCarrier,
		EntityID:   strconv.FormatInt(c.ID, 10),
		New:        c,
	})
	return c, nil
}

func (uc *CarrierUseCase) Update(ctx context.Context, id int64, in UpdateCarrierInput) (*entity.Carrier, error) {
	if err := ValidateUpdateCarrierInput(in).err(); err != nil {
		return nil, err
	}

	current, err := uc.Carriers.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError("find carrier", msgCarrierMissing, err)
	}

	updated := *current
	if in.Name != nil {
		updated.Name = strings.TrimSpace(*in.Name)
	}
	if in.LogoURL != nil {
		updated.LogoURL = trimPtr(in.LogoURL)
	}
	if in.Website != nil {
		updated.Website = trimPtr(in.Website)
	}
	if in.Phone != nil {
		updated.Phone = trimPtr(in.Phone)
	}
	if in.Email != nil {
		updated.Email = trimPtr(in.Email)
	}
	if in.Products != nil {
		if updated.Products, err = productsJSON(*in.Products); err != nil {
			return nil, err
		}
	}
	if in.APIEnabled != nil {
		updated.APIEnabled = *in.APIEnabled
	}
	if in.IsActive != nil {
		updated.IsActive = *in.IsActive
	}

	if err := uc.Carriers.Update(ctx, &updated); err != nil {
		return nil, lookupError("update carrier", msgCarrierMissing, err)
	}

	uc.Audit.Record(ctx, audit.Entry{
		Action:     entity.AuditActionUpdate,
		EntityType: entityCarrier,
		EntityID:   strconv.FormatInt(id, 10),
		Old:        current,
		New:        updated,
	})
	return &updated, nil
}

func productsJSON(products []string) (types.JSONText, error) {
	clean := make([]string, 0, len(products))
	for _, p := range products {
		clean = append(clean, strings.TrimSpace(p))
	}
	b, err := json.Marshal(clean)
	if err != nil {
		return nil, &TechnicalError{Code: "ENCODE_ERROR", Message: "encode products", Err: err}
	}
	return types.JSONText(b), nil
}
