package entity

import (
	"context"
	"time"
)

const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQuoted    = "quoted"
	LeadStatusConverted = "converted"
	LeadStatusClosed    = "closed"

	DefaultLeadSource = "website"
)

// CoverageTypes is the fixed set of product lines the quote form offers.
var CoverageTypes = []string{
	"Auto",
	"Home",
	"Renters",
	"Landlord",
	"Umbrella",
	"Commercial Auto",
	"General Liability",
	"Workers Comp",
}

func IsCoverageType(s string) bool {
	for _, c := range CoverageTypes {
		if c == s {
			return true
		}
	}
	return false
}

type Lead struct {
	ID           int64     `json:"id" db:"id"`
	LeadID       string    `json:"lead_id" db:"lead_id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	Phone        string    `json:"phone" db:"phone"`
	ZipCode      string    `json:"zip_code" db:"zip_code"`
	CoverageType string    `json:"coverage_type" db:"coverage_type"`
	Status       string    `json:"status" db:"status"`
	Source       string    `json:"source" db:"source"`
	Notes        *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// LeadDetail holds the coverage-specific answers of the quote form. Which
// fields are set depends on the coverage type.
type LeadDetail struct {
	ID                    int64    `json:"-" db:"id"`
	LeadID                string   `json:"-" db:"lead_id"`
	DateOfBirth           *string  `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Gender                *string  `json:"gender,omitempty" db:"gender"`
	MaritalStatus         *string  `json:"marital_status,omitempty" db:"marital_status"`
	Occupation            *string  `json:"occupation,omitempty" db:"occupation"`
	StreetAddress         *string  `json:"street_address,omitempty" db:"street_address"`
	City                  *string  `json:"city,omitempty" db:"city"`
	State                 *string  `json:"state,omitempty" db:"state"`
	LicenseNumber         *string  `json:"license_number,omitempty" db:"license_number"`
	YearsLicensed         *int     `json:"years_licensed,omitempty" db:"years_licensed"`
	Violations            *string  `json:"violations,omitempty" db:"violations"`
	Accidents             *string  `json:"accidents,omitempty" db:"accidents"`
	VehicleYear           *int     `json:"vehicle_year,omitempty" db:"vehicle_year"`
	VehicleMake           *string  `json:"vehicle_make,omitempty" db:"vehicle_make"`
	VehicleModel          *string  `json:"vehicle_model,omitempty" db:"vehicle_model"`
	VIN                   *string  `json:"vin,omitempty" db:"vin"`
	Mileage               *int     `json:"mileage,omitempty" db:"mileage"`
	VehicleUsage          *string  `json:"vehicle_usage,omitempty" db:"vehicle_usage"`
	GaragingAddress       *string  `json:"garaging_address,omitempty" db:"garaging_address"`
	PropertyAddress       *string  `json:"property_address,omitempty" db:"property_address"`
	YearBuilt             *int     `json:"year_built,omitempty" db:"year_built"`
	BusinessName          *string  `json:"business_name,omitempty" db:"business_name"`
	DOTNumber             *string  `json:"dot_number,omitempty" db:"dot_number"`
	NumEmployees          *int     `json:"num_employees,omitempty" db:"num_employees"`
	AnnualPayroll         *float64 `json:"annual_payroll,omitempty" db:"annual_payroll"`
	Operations            *string  `json:"operations,omitempty" db:"operations"`
	CoverageLimits        *string  `json:"coverage_limits,omitempty" db:"coverage_limits"`
	Deductible            *string  `json:"deductible,omitempty" db:"deductible"`
	PaymentMethod         *string  `json:"payment_method,omitempty" db:"payment_method"`
	BillingCycle          *string  `json:"billing_cycle,omitempty" db:"billing_cycle"`
	EmergencyName         *string  `json:"emergency_name,omitempty" db:"emergency_name"`
	EmergencyPhone        *string  `json:"emergency_phone,omitempty" db:"emergency_phone"`
	EmergencyRelationship *string  `json:"emergency_relationship,omitempty" db:"emergency_relationship"`
	AdditionalDetails     *string  `json:"additional_details,omitempty" db:"additional_details"`
}

// LeadWithDetails flattens the detail row into the lead when encoded.
type LeadWithDetails struct {
	Lead
	*LeadDetail
}

// LeadSummary is the list projection of a lead joined with its detail row.
type LeadSummary struct {
	LeadID        string    `json:"lead_id" db:"lead_id"`
	Name          string    `json:"name" db:"name"`
	Email         string    `json:"email" db:"email"`
	Phone         string    `json:"phone" db:"phone"`
	ZipCode       string    `json:"zip_code" db:"zip_code"`
	CoverageType  string    `json:"coverage_type" db:"coverage_type"`
	Status        string    `json:"status" db:"status"`
	Source        string    `json:"source" db:"source"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	StreetAddress *string   `json:"street_address" db:"street_address"`
	City          *string   `json:"city" db:"city"`
	State         *string   `json:"state" db:"state"`
	VehicleYear   *int      `json:"vehicle_year" db:"vehicle_year"`
	VehicleMake   *string   `json:"vehicle_make" db:"vehicle_make"`
	VehicleModel  *string   `json:"vehicle_model" db:"vehicle_model"`
	BusinessName  *string   `json:"business_name" db:"business_name"`
}

type LeadFilter struct {
	Status       string
	CoverageType string
	// Search matches name, email or phone, case-insensitively.
	Search string
}

type LeadRepositoryInterface interface {
	// Create writes the lead and, when detail is non-nil, its detail row in
	// one transaction.
	Create(ctx context.Context, lead *Lead, detail *LeadDetail) error
	FindByLeadID(ctx context.Context, leadID string) (*LeadWithDetails, error)
	List(ctx context.Context, f LeadFilter, p Page) ([]LeadSummary, int, error)
	Recent(ctx context.Context, n int) ([]Lead, error)
	UpdateStatus(ctx context.Context, leadID, status string, notes *string, at time.Time) error
	CountByStatus(ctx context.Context) ([]StatusCount, error)
}
