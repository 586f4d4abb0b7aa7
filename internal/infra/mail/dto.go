package mail

import "time"

type LeadEmailData struct {
	LeadID       string
	Name         string
	Email        string
	Phone        string
	ZipCode      string
	CoverageType string
	Source       string
	CreatedAt    time.Time
}

type ContactEmailData struct {
	MessageID string
	Name      string
	Email     string
	Subject   string
	Message   string
	Priority  string
	CreatedAt time.Time
}
