package usecase

import (
	"encoding/json"
	"time"

	"github.com/xavierca1/tes-insurance/internal/entity"
)

type LeadDataInput struct {
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	ZipCode      string  `json:"zip_code"`
	CoverageType string  `json:"coverage_type"`
	Status       string  `json:"status,omitempty"`
	Source       string  `json:"source,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

type LeadDetailsInput struct {
	DateOfBirth           *string      `json:"date_of_birth,omitempty"`
	Gender                *string      `json:"gender,omitempty"`
	MaritalStatus         *string      `json:"marital_status,omitempty"`
	Occupation            *string      `json:"occupation,omitempty"`
	StreetAddress         *string      `json:"street_address,omitempty"`
	City                  *string      `json:"city,omitempty"`
	State                 *string      `json:"state,omitempty"`
	LicenseNumber         *string      `json:"license_number,omitempty"`
	YearsLicensed         *int         `json:"years_licensed,omitempty"`
	Violations            *string      `json:"violations,omitempty"`
	Accidents             *string      `json:"accidents,omitempty"`
	VehicleYear           *int         `json:"vehicle_year,omitempty"`
	VehicleMake           *string      `json:"vehicle_make,omitempty"`
	VehicleModel          *string      `json:"vehicle_model,omitempty"`
	VIN                   *string      `json:"vin,omitempty"`
	Mileage               *int         `json:"mileage,omitempty"`
	VehicleUsage          *string      `json:"vehicle_usage,omitempty"`
	GaragingAddress       *string      `json:"garaging_address,omitempty"`
	PropertyAddress       *string      `json:"property_address,omitempty"`
	YearBuilt             *int         `json:"year_built,omitempty"`
	BusinessName          *string      `json:"business_name,omitempty"`
	DOTNumber             *string      `json:"dot_number,omitempty"`
	NumEmployees          *int         `json:"num_employees,omitempty"`
	AnnualPayroll         *json.Number `json:"annual_payroll,omitempty"`
	Operations            *string      `json:"operations,omitempty"`
	CoverageLimits        *string      `json:"coverage_limits,omitempty"`
	Deductible            *string      `json:"deductible,omitempty"`
	PaymentMethod         *string      `json:"payment_method,omitempty"`
	BillingCycle          *string      `json:"billing_cycle,omitempty"`
	EmergencyName         *string      `json:"emergency_name,omitempty"`
	EmergencyPhone        *string      `json:"emergency_phone,omitempty"`
	EmergencyRelationship *string      `json:"emergency_relationship,omitempty"`
	AdditionalDetails     *string      `json:"additional_details,omitempty"`
}

// CreateLeadInput is the body of a public quote request.
type CreateLeadInput struct {
	LeadData    LeadDataInput     `json:"leadData"`
	LeadDetails *LeadDetailsInput `json:"leadDetails,omitempty"`
}

type CreateLeadOutput struct {
	LeadID  string `json:"lead_id"`
	Message string `json:"message"`
}

type ListLeadsInput struct {
	Page   entity.Page
	Filter entity.LeadFilter
}

type LeadOutput struct {
	Lead   *entity.LeadWithDetails `json:"lead"`
	Quotes []entity.Quote          `json:"quotes"`
}

type UpdateLeadStatusInput struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes,omitempty"`
}

type CreateContactInput struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Subject  *string `json:"subject,omitempty"`
	Message  string  `json:"message"`
	Priority string  `json:"priority,omitempty"`
}

type CreateContactOutput struct {
	MessageID string `json:"message_id"`
	Message   string `json:"message"`
}

type ListContactsInput struct {
	Page   entity.Page
	Filter entity.ContactFilter
}

// UpdateContactStatusInput leaves assigned_to and response untouched when
// they are omitted.
type UpdateContactStatusInput struct {
	Status     string  `json:"status"`
	AssignedTo *int64  `json:"assigned_to,omitempty"`
	Response   *string `json:"response,omitempty"`
}

type TrackEventInput struct {
	EventType     string          `json:"event_type"`
	EventCategory *string         `json:"event_category,omitempty"`
	EventLabel    *string         `json:"event_label,omitempty"`
	EventValue    *json.Number    `json:"event_value,omitempty"`
	PageURL       *string         `json:"page_url,omitempty"`
	Referrer      *string         `json:"referrer,omitempty"`
	SessionID     *string         `json:"session_id,omitempty"`
	CustomData    json.RawMessage `json:"custom_data,omitempty"`
}

type TrackEventOutput struct {
	EventID string `json:"event_id"`
	Message string `json:"message"`
	// Stored is false when the event was accepted but could not be written.
	Stored bool `json:"-"`
}

// EventQuery carries the raw query-string bounds of analytics reads.
type EventQuery struct {
	Page      entity.Page
	EventType string
	PageURL   string
	StartDate string
	EndDate   string
}

type AnalyticsSummary struct {
	EventTypes    []entity.EventTypeCount `json:"event_types"`
	PageViews     []entity.PageViewCount  `json:"page_views"`
	DailyActivity []entity.DailyActivity  `json:"daily_activity"`
}

type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserView struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

type LoginOutput struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserView  `json:"user"`
}

type DashboardLeads struct {
	Stats  []entity.StatusCount `json:"stats"`
	Recent []entity.Lead        `json:"recent"`
}

type DashboardContacts struct {
	Stats []entity.StatusCount `json:"stats"`
}

type DashboardOutput struct {
	Leads     DashboardLeads          `json:"leads"`
	Contacts  DashboardContacts       `json:"contacts"`
	Analytics []entity.EventTypeCount `json:"analytics"`
}

type CarrierInput struct {
	Name       string   `json:"name"`
	LogoURL    *string  `json:"logo_url,omitempty"`
	Website    *string  `json:"website,omitempty"`
	Phone      *string  `json:"phone,omitempty"`
	Email      *string  `json:"email,omitempty"`
	Products   []string `json:"products,omitempty"`
	APIEnabled bool     `json:"api_enabled"`
}

// UpdateCarrierInput is a partial update; nil fields keep their value.
type UpdateCarrierInput struct {
	Name       *string   `json:"name,omitempty"`
	LogoURL    *string   `json:"logo_url,omitempty"`
	Website    *string   `json:"website,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	Email      *string   `json:"email,omitempty"`
	Products   *[]string `json:"products,omitempty"`
	APIEnabled *bool     `json:"api_enabled,omitempty"`
	IsActive   *bool     `json:"is_active,omitempty"`
}

type CreateOfferInput struct {
	CarrierName    string          `json:"carrier_name"`
	Premium        float64         `json:"premium"`
	CoverageLimits json.RawMessage `json:"coverage_limits,omitempty"`
	Deductibles    json.RawMessage `json:"deductibles,omitempty"`
	EffectiveDate  *string         `json:"effective_date,omitempty"`
	ExpirationDate *string         `json:"expiration_date,omitempty"`
	Status         string          `json:"status,omitempty"`
	Notes          *string         `json:"notes,omitempty"`
}

type UpdateOfferStatusInput struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes,omitempty"`
}

type BindPolicyInput struct {
	QuoteID      string   `json:"quote_id"`
	PolicyNumber string   `json:"policy_number"`
	Documents    []string `json:"documents,omitempty"`
}

type ListPoliciesInput struct {
	Page   entity.Page
	Filter entity.PolicyFilter
}

type UpdatePolicyStatusInput struct {
	Status string `json:"status"`
}

type ListAuditLogsInput struct {
	Page   entity.Page
	Filter entity.AuditFilter
}

type SetUserActiveInput struct {
	IsActive *bool `json:"is_active"`
}
