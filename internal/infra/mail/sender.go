package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/tes-insurance/internal/infra/queue"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// dialer is satisfied by *gomail.Dialer.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailSender mails agency staff about new leads and contact messages.
type EmailSender struct {
	From   string
	To     string
	Dialer dialer
}

func NewEmailSender(host string, port int, user, password, from, to string) *EmailSender {
	return &EmailSender{
		From:   from,
		To:     to,
		Dialer: gomail.NewDialer(host, port, user, password),
	}
}

func (s *EmailSender) NotifyLeadCreated(_ context.Context, p queue.LeadCreatedPayload) error {
	data := LeadEmailData{
		LeadID:       p.LeadID,
		Name:         p.Name,
		Email:        p.Email,
		Phone:        p.Phone,
		ZipCode:      p.ZipCode,
		CoverageType: p.CoverageType,
		Source:       p.Source,
		CreatedAt:    p.CreatedAt,
	}
	subject := fmt.Sprintf("New %s quote request from %s", p.CoverageType, p.Name)
	m, err := s.message("lead_created.html", subject, p.Email, data)
	if err != nil {
		return err
	}
	return s.send(m)
}

func (s *EmailSender) NotifyContactCreated(_ context.Context, p queue.ContactCreatedPayload) error {
	data := ContactEmailData{
		MessageID: p.MessageID,
		Name:      p.Name,
		Email:     p.Email,
		Subject:   p.Subject,
		Message:   p.Message,
		Priority:  p.Priority,
		CreatedAt: p.CreatedAt,
	}
	subject := "New contact message from " + p.Name
	if p.Subject != "" {
		subject += ": " + p.Subject
	}
	m, err := s.message("contact_created.html", subject, p.Email, data)
	if err != nil {
		return err
	}
	if p.Priority == "urgent" {
		m.SetHeader("X-Priority", "1")
	}
	return s.send(m)
}

func renderTemplate(name string, data any) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return body.String(), nil
}

func (s *EmailSender) message(tmpl, subject, replyTo string, data any) (*gomail.Message, error) {
	body, err := renderTemplate(tmpl, data)
	if err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To)
	if replyTo != "" {
		m.SetHeader("Reply-To", replyTo)
	}
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	return m, nil
}

func (s *EmailSender) send(m *gomail.Message) error {
	if err := s.Dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send smtp: %w", err)
	}
	return nil
}
