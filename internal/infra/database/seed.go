package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/xavierca1/tes-insurance/internal/entity"
)

// PasswordHasher is satisfied by auth.Hasher.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

type seedUser struct {
	Email, Password, FirstName, LastName, Role string
}

// DefaultUsers are created on an empty store so the dashboard is reachable
// on a fresh install.
var DefaultUsers = []seedUser{
	{"admin@tesinsurance.com", "admin123", "John", "Admin", entity.RoleAdmin},
	{"agent@tesinsurance.com", "agent123", "Sarah", "Agent", entity.RoleAgent},
	{"manager@tesinsurance.com", "manager123", "Mike", "Manager", entity.RoleManager},
}

type Seeder struct {
	DB     *sqlx.DB
	Hasher PasswordHasher
	now    func() time.Time
}

func NewSeeder(db *sqlx.DB, hasher PasswordHasher) *Seeder {
	return &Seeder{DB: db, Hasher: hasher, now: func() time.Time { return time.Now().UTC() }}
}

// SeedDefaultUsers inserts DefaultUsers when the users table is empty and
// reports how many were created.
func (s *Seeder) SeedDefaultUsers(ctx context.Context) (int, error) {
	var count int
	if err := s.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := s.insertUsers(ctx, tx); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(DefaultUsers), nil
}

func (s *Seeder) insertUsers(ctx context.Context, tx *sqlx.Tx) ([]int64, error) {
	ids := make([]int64, 0, len(DefaultUsers))
	query := tx.Rebind(`
		INSERT INTO users (email, password_hash, first_name, last_name, role, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)
	now := s.now()
	for _, u := range DefaultUsers {
		hash, err := s.Hasher.Hash(u.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", u.Email, err)
		}
		var id int64
		if err := tx.QueryRowxContext(ctx, query, u.Email, hash, u.FirstName, u.LastName, u.Role, true, now, now).Scan(&id); err != nil {
			return nil, fmt.Errorf("insert user %s: %w", u.Email, classify(err))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Clear deletes every row, children first.
func (s *Seeder) Clear(ctx context.Context) (map[string]int64, error) {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	cleared := make(map[string]int64, len(Tables))
	for i := len(Tables) - 1; i >= 0; i-- {
		res, err := tx.ExecContext(ctx, "DELETE FROM "+Tables[i])
		if err != nil {
			return nil, fmt.Errorf("clear %s: %w", Tables[i], err)
		}
		n, _ := res.RowsAffected()
		cleared[Tables[i]] = n
	}
	return cleared, tx.Commit()
}

// Summary returns the row count of every table.
func (s *Seeder) Summary(ctx context.Context) (map[string]int, error) {
	out := make(map[string]int, len(Tables))
	for _, t := range Tables {
		var n int
		if err := s.DB.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+t); err != nil {
			return nil, fmt.Errorf("count %s: %w", t, err)
		}
		out[t] = n
	}
	return out, nil
}

func str(s string) *string { return &s }
func num(i int) *int       { return &i }

// LoadSampleData writes the demo data set in one transaction.
func (s *Seeder) LoadSampleData(ctx context.Context) error {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	userIDs, err := s.insertUsers(ctx, tx)
	if err != nil {
		return err
	}

	now := s.now()
	exec := func(query string, args ...any) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			return classify(err)
		}
		return nil
	}

	carriers := []struct {
		name, logo, website, phone, email, products string
		apiEnabled                                  bool
	}{
		{"State Farm", "https://logos.com/statefarm.png", "https://statefarm.com", "1-800-STATE-FARM", "quotes@statefarm.com", `["Auto","Home","Life","Commercial"]`, true},
		{"Allstate", "https://logos.com/allstate.png", "https://allstate.com", "1-800-ALLSTATE", "quotes@allstate.com", `["Auto","Home","Life","Business"]`, true},
		{"Progressive", "https://logos.com/progressive.png", "https://progressive.com", "1-800-PROGRESSIVE", "quotes@progressive.com", `["Auto","Home","Commercial"]`, true},
		{"Geico", "https://logos.com/geico.png", "https://geico.com", "1-800-GEICO", "quotes@geico.com", `["Auto","Home","Commercial"]`, true},
		{"Farmers Insurance", "https://logos.com/farmers.png", "https://farmers.com", "1-800-FARMERS", "quotes@farmers.com", `["Auto","Home","Life","Business"]`, false},
	}
	for _, c := range carriers {
		if err := exec(`INSERT INTO carriers (name, logo_url, website, phone, email, products, api_enabled, is_active, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.name, c.logo, c.website, c.phone, c.email, c.products, c.apiEnabled, true, now); err != nil {
			return fmt.Errorf("insert carrier %s: %w", c.name, err)
		}
	}

	leads := []entity.Lead{
		{Name: "John Smith", Email: "john.smith@email.com", Phone: "555-555-0101", ZipCode: "90210", CoverageType: "Auto", Status: entity.LeadStatusNew, Source: "website", Notes: str("Looking for comprehensive auto coverage")},
		{Name: "Sarah Johnson", Email: "sarah.johnson@email.com", Phone: "555-555-0102", ZipCode: "10001", CoverageType: "Home", Status: entity.LeadStatusContacted, Source: "referral", Notes: str("First-time home buyer, needs guidance")},
		{Name: "Mike Davis", Email: "mike.davis@email.com", Phone: "555-555-0103", ZipCode: "60601", CoverageType: "Commercial Auto", Status: entity.LeadStatusQuoted, Source: "phone", Notes: str("Small business owner, needs commercial auto and general liability")},
		{Name: "Emily Wilson", Email: "emily.wilson@email.com", Phone: "555-555-0104", ZipCode: "33101", CoverageType: "Auto", Status: entity.LeadStatusConverted, Source: "website", Notes: str("Converted to policy - very satisfied customer")},
		{Name: "Robert Brown", Email: "robert.brown@email.com", Phone: "555-555-0105", ZipCode: "75201", CoverageType: "Home", Status: entity.LeadStatusNew, Source: "website", Notes: str("Needs home insurance for new property")},
	}
	for i := range leads {
		l := &leads[i]
		l.LeadID = uuid.NewString()
		// Spread creation times so list ordering is stable.
		l.CreatedAt = now.Add(-time.Duration(len(leads)-i) * time.Hour)
		if err := exec(`INSERT INTO leads (lead_id, name, email, phone, zip_code, coverage_type, status, source, notes, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			l.LeadID, l.Name, l.Email, l.Phone, l.ZipCode, l.CoverageType, l.Status, l.Source, l.Notes, l.CreatedAt, l.CreatedAt); err != nil {
			return fmt.Errorf("insert lead %s: %w", l.Name, err)
		}
	}

	payroll := 750000.0
	details := []entity.LeadDetail{
		{
			LeadID: leads[0].LeadID, DateOfBirth: str("1985-03-15"), Gender: str("Male"), MaritalStatus: str("Married"),
			Occupation: str("Software Engineer"), StreetAddress: str("123 Main St"), City: str("Beverly Hills"), State: str("CA"),
			LicenseNumber: str("D1234567"), YearsLicensed: num(15), Violations: str("None in last 5 years"),
			Accidents: str("Minor fender bender in 2020"), VehicleYear: num(2020), VehicleMake: str("Toyota"),
			VehicleModel: str("Camry"), VIN: str("1HGBH41JXMN109186"), Mileage: num(25000), VehicleUsage: str("Personal"),
			GaragingAddress: str("123 Main St, Beverly Hills, CA 90210"), CoverageLimits: str("100/300/100"),
			Deductible: str("$500"), PaymentMethod: str("Monthly"), BillingCycle: str("Monthly"),
			EmergencyName: str("Jane Smith"), EmergencyPhone: str("555-0106"), EmergencyRelationship: str("Spouse"),
		},
		{
			LeadID: leads[1].LeadID, DateOfBirth: str("1990-07-22"), Gender: str("Female"), MaritalStatus: str("Single"),
			Occupation: str("Teacher"), StreetAddress: str("456 Oak Ave"), City: str("New York"), State: str("NY"),
			PropertyAddress: str("456 Oak Ave, New York, NY 10001"), YearBuilt: num(2015),
			CoverageLimits: str("Dwelling: $300,000, Personal Property: $150,000"), Deductible: str("$1,000"),
			PaymentMethod: str("Annual"), BillingCycle: str("Annual"),
			EmergencyName: str("David Johnson"), EmergencyPhone: str("555-0107"), EmergencyRelationship: str("Brother"),
		},
		{
			LeadID: leads[2].LeadID, DateOfBirth: str("1978-11-08"), Gender: str("Male"), MaritalStatus: str("Married"),
			Occupation: str("Business Owner"), StreetAddress: str("789 Business Blvd"), City: str("Chicago"), State: str("IL"),
			BusinessName: str("Davis Construction LLC"), DOTNumber: str("1234567"), NumEmployees: num(12),
			AnnualPayroll: &payroll, Operations: str("General construction and remodeling"),
			CoverageLimits: str("General Liability: $1M, Commercial Auto: $500K"), Deductible: str("$2,500"),
			PaymentMethod: str("Quarterly"), BillingCycle: str("Quarterly"),
			EmergencyName: str("Lisa Davis"), EmergencyPhone: str("555-0108"), EmergencyRelationship: str("Spouse"),
		},
	}
	for i := range details {
		if _, err := tx.NamedExecContext(ctx, insertLeadDetail, &details[i]); err != nil {
			return fmt.Errorf("insert lead details: %w", classify(err))
		}
	}

	quotes := []struct {
		id, leadID, carrier       string
		premium                   float64
		limits, deductibles       string
		effective, expiration     string
		status, notes             string
	}{
		{uuid.NewString(), leads[0].LeadID, "State Farm", 1250,
			`{"liability":"100/300/100","comprehensive":"Actual Cash Value","collision":"Actual Cash Value"}`,
			`{"comprehensive":"$500","collision":"$500"}`,
			"2024-01-01", "2024-12-31", entity.QuoteStatusApproved, "Best rate available for this driver profile"},
		{uuid.NewString(), leads[1].LeadID, "Allstate", 1800,
			`{"dwelling":"$300,000","personal_property":"$150,000","liability":"$300,000"}`,
			`{"dwelling":"$1,000","personal_property":"$1,000"}`,
			"2024-02-01", "2025-01-31", entity.QuoteStatusPending, "Waiting for property inspection"},
		{uuid.NewString(), leads[2].LeadID, "Progressive", 3500,
			`{"general_liability":"$1,000,000","commercial_auto":"$500,000","workers_comp":"Statutory"}`,
			`{"general_liability":"$2,500","commercial_auto":"$2,500"}`,
			"2024-01-15", "2024-12-14", entity.QuoteStatusApproved, "Comprehensive commercial package"},
	}
	for _, q := range quotes {
		if err := exec(`INSERT INTO quotes (quote_id, lead_id, carrier_name, premium, coverage_limits, deductibles,
				effective_date, expiration_date, status, notes, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			q.id, q.leadID, q.carrier, q.premium, q.limits, q.deductibles, q.effective, q.expiration, q.status, q.notes, now, now); err != nil {
			return fmt.Errorf("insert quote for %s: %w", q.carrier, err)
		}
	}

	policies := []struct {
		quoteIdx                  int
		leadID, carrier, number   string
		premium                   float64
		effective, expiration     string
		documents                 string
	}{
		{0, leads[0].LeadID, "State Farm", "SF-AUTO-2024-001", 1250, "2024-01-01", "2024-12-31",
			`["policy_document.pdf","declarations_page.pdf","id_cards.pdf"]`},
		{2, leads[2].LeadID, "Progressive", "PROG-COMM-2024-001", 3500, "2024-01-15", "2024-12-14",
			`["commercial_policy.pdf","certificate_of_insurance.pdf","workers_comp_cert.pdf"]`},
	}
	for _, p := range policies {
		if err := exec(`INSERT INTO policies (policy_id, quote_id, lead_id, carrier_name, policy_number, premium,
				effective_date, expiration_date, status, documents, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), quotes[p.quoteIdx].id, p.leadID, p.carrier, p.number, p.premium,
			p.effective, p.expiration, entity.PolicyStatusActive, p.documents, now, now); err != nil {
			return fmt.Errorf("insert policy %s: %w", p.number, err)
		}
	}

	adminID := userIDs[0]
	messages := []entity.ContactMessage{
		{Name: "Jennifer Martinez", Email: "jennifer.martinez@email.com", Subject: str("Auto Insurance Quote Request"),
			Message: "Hi, I need a quote for auto insurance. I have a 2019 Honda Civic and live in Miami, FL. Please contact me at your earliest convenience.",
			Status:  entity.ContactStatusNew, Priority: "normal"},
		{Name: "David Thompson", Email: "david.thompson@email.com", Subject: str("Home Insurance Question"),
			Message: "I recently purchased a home and need to understand what coverage options are available. Can someone call me to discuss?",
			Status:  entity.ContactStatusRead, Priority: "normal", AssignedTo: &adminID,
			Response: str("Thank you for your inquiry. I will have one of our agents contact you within 24 hours.")},
		{Name: "Lisa Anderson", Email: "lisa.anderson@email.com", Subject: str("URGENT: Policy Cancellation"),
			Message: "I need to cancel my policy immediately due to moving out of state. This is urgent!",
			Status:  entity.ContactStatusReplied, Priority: "urgent", AssignedTo: &adminID,
			Response: str("I have processed your cancellation request. Your policy will be cancelled effective immediately with a pro-rated refund.")},
	}
	for _, m := range messages {
		if err := exec(`INSERT INTO contact_messages (message_id, name, email, subject, message, status, priority, assigned_to, response, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), m.Name, m.Email, m.Subject, m.Message, m.Status, m.Priority, m.AssignedTo, m.Response, now, now); err != nil {
			return fmt.Errorf("insert contact message from %s: %w", m.Name, err)
		}
	}

	events := []struct {
		eventType, category, label, pageURL, userAgent, ip, session string
		referrer, customData                                         *string
	}{
		{"page_view", "navigation", "Home Page", "https://tesinsurance.com/", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36", "192.168.1.100", "sess_001", str("https://google.com"), nil},
		{"cta_click", "engagement", "Get Quote Button", "https://tesinsurance.com/", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36", "192.168.1.101", "sess_002", nil, nil},
		{"form_submission", "conversion", "Quote Form", "https://tesinsurance.com/quote", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36", "192.168.1.102", "sess_003", nil, str(`{"form_type":"auto_quote","completion_time":180}`)},
		{"page_view", "navigation", "About Page", "https://tesinsurance.com/about", "Mozilla/5.0 (iPhone; CPU iPhone OS 14_0 like Mac OS X) AppleWebKit/605.1.15", "192.168.1.103", "sess_004", nil, nil},
	}
	for _, e := range events {
		if err := exec(`INSERT INTO analytics_events (event_id, event_type, event_category, event_label, event_value,
				user_agent, ip_address, referrer, page_url, session_id, custom_data, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), e.eventType, e.category, e.label, nil, e.userAgent, e.ip, e.referrer, e.pageURL, e.session, e.customData, now); err != nil {
			return fmt.Errorf("insert analytics event %s: %w", e.eventType, err)
		}
	}

	agentID := userIDs[1]
	audits := []struct {
		userID                         int64
		action, entityType, entityID   string
		oldValues, newValues           *string
		ip, userAgent                  string
	}{
		{adminID, entity.AuditActionCreate, "lead", leads[0].LeadID, nil, str(`{"name":"John Smith","email":"john.smith@email.com","status":"new"}`), "192.168.1.100", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"},
		{adminID, entity.AuditActionUpdate, "lead", leads[1].LeadID, str(`{"status":"new"}`), str(`{"status":"contacted"}`), "192.168.1.100", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"},
		{agentID, entity.AuditActionCreate, "quote", quotes[0].id, nil, str(`{"carrier_name":"State Farm","premium":1250,"status":"pending"}`), "192.168.1.101", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"},
	}
	for _, a := range audits {
		if err := exec(`INSERT INTO audit_logs (log_id, user_id, action, entity_type, entity_id, old_values, new_values, ip_address, user_agent, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), a.userID, a.action, a.entityType, a.entityID, a.oldValues, a.newValues, a.ip, a.userAgent, now); err != nil {
			return fmt.Errorf("insert audit log: %w", err)
		}
	}

	return tx.Commit()
}
