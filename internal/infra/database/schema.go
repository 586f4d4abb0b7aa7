package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Tables in dependency order, parents first.
var Tables = []string{
	"users",
	"carriers",
	"leads",
	"lead_details",
	"quotes",
	"policies",
	"contact_messages",
	"analytics_events",
	"audit_logs",
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'agent' CHECK (role IN ('admin', 'agent', 'manager')),
		is_active INTEGER NOT NULL DEFAULT 1,
		last_login DATETIME,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS carriers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		logo_url TEXT,
		website TEXT,
		phone TEXT,
		email TEXT,
		products TEXT NOT NULL DEFAULT '[]',
		api_enabled INTEGER NOT NULL DEFAULT 0,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS leads (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		lead_id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT NOT NULL,
		zip_code TEXT NOT NULL,
		coverage_type TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'new',
		source TEXT NOT NULL DEFAULT 'website',
		notes TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS lead_details (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		lead_id TEXT NOT NULL UNIQUE REFERENCES leads(lead_id),
		date_of_birth TEXT,
		gender TEXT,
		marital_status TEXT,
		occupation TEXT,
		street_address TEXT,
		city TEXT,
		state TEXT,
		license_number TEXT,
		years_licensed INTEGER,
		violations TEXT,
		accidents TEXT,
		vehicle_year INTEGER,
		vehicle_make TEXT,
		vehicle_model TEXT,
		vin TEXT,
		mileage INTEGER,
		vehicle_usage TEXT,
		garaging_address TEXT,
		property_address TEXT,
		year_built INTEGER,
		business_name TEXT,
		dot_number TEXT,
		num_employees INTEGER,
		annual_payroll REAL,
		operations TEXT,
		coverage_limits TEXT,
		deductible TEXT,
		payment_method TEXT,
		billing_cycle TEXT,
		emergency_name TEXT,
		emergency_phone TEXT,
		emergency_relationship TEXT,
		additional_details TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS quotes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		quote_id TEXT NOT NULL UNIQUE,
		lead_id TEXT NOT NULL REFERENCES leads(lead_id),
		carrier_name TEXT NOT NULL,
		premium REAL NOT NULL,
		coverage_limits TEXT,
		deductibles TEXT,
		effective_date TEXT,
		expiration_date TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		notes TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS policies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		policy_id TEXT NOT NULL UNIQUE,
		quote_id TEXT NOT NULL UNIQUE REFERENCES quotes(quote_id),
		lead_id TEXT NOT NULL REFERENCES leads(lead_id),
		carrier_name TEXT NOT NULL,
		policy_number TEXT NOT NULL UNIQUE,
		premium REAL NOT NULL,
		effective_date TEXT,
		expiration_date TEXT,
		status TEXT NOT NULL DEFAULT 'active',
		documents TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS contact_messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		message_id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		subject TEXT,
		message TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'new',
		priority TEXT NOT NULL DEFAULT 'normal',
		assigned_to INTEGER REFERENCES users(id),
		response TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS analytics_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_id TEXT NOT NULL UNIQUE,
		event_type TEXT NOT NULL,
		event_category TEXT,
		event_label TEXT,
		event_value REAL,
		user_agent TEXT,
		ip_address TEXT,
		referrer TEXT,
		page_url TEXT,
		session_id TEXT,
		custom_data TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		log_id TEXT NOT NULL UNIQUE,
		user_id INTEGER,
		action TEXT NOT NULL,
		entity_type TEXT NOT NULL,
		entity_id TEXT NOT NULL,
		old_values TEXT,
		new_values TEXT,
		ip_address TEXT,
		user_agent TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'agent' CHECK (role IN ('admin', 'agent', 'manager')),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		last_login TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS carriers (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		logo_url TEXT,
		website TEXT,
		phone TEXT,
		email TEXT,
		products TEXT NOT NULL DEFAULT '[]',
		api_enabled BOOLEAN NOT NULL DEFAULT FALSE,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS leads (
		id BIGSERIAL PRIMARY KEY,
		lead_id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT NOT NULL,
		zip_code TEXT NOT NULL,
		coverage_type TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'new',
		source TEXT NOT NULL DEFAULT 'website',
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS lead_details (
		id BIGSERIAL PRIMARY KEY,
		lead_id TEXT NOT NULL UNIQUE REFERENCES leads(lead_id),
		date_of_birth TEXT,
		gender TEXT,
		marital_status TEXT,
		occupation TEXT,
		street_address TEXT,
		city TEXT,
		state TEXT,
		license_number TEXT,
		years_licensed INTEGER,
		violations TEXT,
		accidents TEXT,
		vehicle_year INTEGER,
		vehicle_make TEXT,
		vehicle_model TEXT,
		vin TEXT,
		mileage INTEGER,
		vehicle_usage TEXT,
		garaging_address TEXT,
		property_address TEXT,
		year_built INTEGER,
		business_name TEXT,
		dot_number TEXT,
		num_employees INTEGER,
		annual_payroll DOUBLE PRECISION,
		operations TEXT,
		coverage_limits TEXT,
		deductible TEXT,
		payment_method TEXT,
		billing_cycle TEXT,
		emergency_name TEXT,
		emergency_phone TEXT,
		emergency_relationship TEXT,
		additional_details TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS quotes (
		id BIGSERIAL PRIMARY KEY,
		quote_id TEXT NOT NULL UNIQUE,
		lead_id TEXT NOT NULL REFERENCES leads(lead_id),
		carrier_name TEXT NOT NULL,
		premium DOUBLE PRECISION NOT NULL,
		coverage_limits TEXT,
		deductibles TEXT,
		effective_date TEXT,
		expiration_date TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS policies (
		id BIGSERIAL PRIMARY KEY,
		policy_id TEXT NOT NULL UNIQUE,
		quote_id TEXT NOT NULL UNIQUE REFERENCES quotes(quote_id),
		lead_id TEXT NOT NULL REFERENCES leads(lead_id),
		carrier_name TEXT NOT NULL,
		policy_number TEXT NOT NULL UNIQUE,
		premium DOUBLE PRECISION NOT NULL,
		effective_date TEXT,
		expiration_date TEXT,
		status TEXT NOT NULL DEFAULT 'active',
		documents TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS contact_messages (
		id BIGSERIAL PRIMARY KEY,
		message_id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		subject TEXT,
		message TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'new',
		priority TEXT NOT NULL DEFAULT 'normal',
		assigned_to BIGINT REFERENCES users(id),
		response TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS analytics_events (
		id BIGSERIAL PRIMARY KEY,
		event_id TEXT NOT NULL UNIQUE,
		event_type TEXT NOT NULL,
		event_category TEXT,
		event_label TEXT,
		event_value DOUBLE PRECISION,
		user_agent TEXT,
		ip_address TEXT,
		referrer TEXT,
		page_url TEXT,
		session_id TEXT,
		custom_data TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id BIGSERIAL PRIMARY KEY,
		log_id TEXT NOT NULL UNIQUE,
		user_id BIGINT,
		action TEXT NOT NULL,
		entity_type TEXT NOT NULL,
		entity_id TEXT NOT NULL,
		old_values TEXT,
		new_values TEXT,
		ip_address TEXT,
		user_agent TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Indexes are valid in both dialects.
var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_quotes_lead_id ON quotes(lead_id)`,
	`CREATE INDEX IF NOT EXISTS idx_policies_lead_id ON policies(lead_id)`,
	// One policy per quote, also for stores created before quote_id was UNIQUE.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_policies_quote_id ON policies(quote_id)`,
	`CREATE INDEX IF NOT EXISTS idx_contact_messages_status ON contact_messages(status)`,
	`CREATE INDEX IF NOT EXISTS idx_analytics_events_type_created ON analytics_events(event_type, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_logs_entity ON audit_logs(entity_type, entity_id)`,
}

// EnsureSchema creates every table and index that does not exist yet.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	stmts := sqliteSchema
	if db.DriverName() == DriverPostgres {
		stmts = postgresSchema
	}
	stmts = append(append([]string{}, stmts...), indexes...)

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
