package mail

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/xavierca1/tes-insurance/internal/infra/queue"
)

type captureDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *captureDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func TestRenderTemplate_Lead(t *testing.T) {
	html, err := renderTemplate("lead_created.html", LeadEmailData{
		LeadID:       "lead-123",
		Name:         "Jane Doe",
		CoverageType: "Auto",
		CreatedAt:    time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Contains(t, html, "New Auto quote request")
	assert.Contains(t, html, "Lead ID lead-123")
	assert.Contains(t, html, "Mar 1, 2026 09:30 UTC")
}

func TestRenderTemplate_ContactEscapesHTML(t *testing.T) {
	html, err := renderTemplate("contact_created.html", ContactEmailData{
		Name:     "Mallory",
		Message:  "<script>alert(1)</script>",
		Priority: "urgent",
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "(URGENT)")
}

func TestEmailSender_NotifyLeadCreated(t *testing.T) {
	d := &captureDialer{}
	s := &EmailSender{From: "no-reply@tesinsurance.com", To: "agents@tesinsurance.com", Dialer: d}

	err := s.NotifyLeadCreated(context.Background(), queue.LeadCreatedPayload{
		LeadID:       "lead-123",
		Name:         "Jane Doe",
		Email:        "jane@x.com",
		Phone:        "5551234567",
		CoverageType: "Auto",
		CreatedAt:    time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, d.sent, 1)

	m := d.sent[0]
	assert.Equal(t, []string{"agents@tesinsurance.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"jane@x.com"}, m.GetHeader("Reply-To"))
	assert.Equal(t, []string{"New Auto quote request from Jane Doe"}, m.GetHeader("Subject"))
}

func TestEmailSender_UrgentContact(t *testing.T) {
	d := &captureDialer{}
	s := &EmailSender{From: "a@x.com", To: "b@x.com", Dialer: d}

	err := s.NotifyContactCreated(context.Background(), queue.ContactCreatedPayload{
		MessageID: "m-1",
		Name:      "Mallory",
		Email:     "m@x.com",
		Message:   "<script>alert(1)</script>",
		Priority:  "urgent",
	})
	require.NoError(t, err)

	m := d.sent[0]
	assert.Equal(t, []string{"1"}, m.GetHeader("X-Priority"))
	assert.Equal(t, []string{"New contact message from Mallory"}, m.GetHeader("Subject"))
}

func TestEmailSender_SendError(t *testing.T) {
	s := &EmailSender{From: "a@x.com", To: "b@x.com", Dialer: &captureDialer{err: errors.New("connection refused")}}
	err := s.NotifyContactCreated(context.Background(), queue.ContactCreatedPayload{Name: "X"})
	assert.ErrorContains(t, err, "send smtp")
}
