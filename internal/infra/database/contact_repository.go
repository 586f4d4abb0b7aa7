package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/xavierca1/tes-insurance/internal/entity"
)

const contactColumns = `id, message_id, name, email, subject, message, status, priority, assigned_to, response, created_at, updated_at`

type ContactMessageRepository struct {
	DB *sqlx.DB
}

func NewContactMessageRepository(db *sqlx.DB) *ContactMessageRepository {
	return &ContactMessageRepository{DB: db}
}

func (r *ContactMessageRepository) Create(ctx context.Context, m *entity.ContactMessage) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	m.UpdatedAt = m.CreatedAt

	query := r.DB.Rebind(`
		INSERT INTO contact_messages (message_id, name, email, subject, message, status, priority, assigned_to, response, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)
	err := r.DB.QueryRowxContext(ctx, query,
		m.MessageID, m.Name, m.Email, m.Subject, m.Message, m.Status, m.Priority,
		m.AssignedTo, m.Response, m.CreatedAt, m.UpdatedAt,
	).Scan(&m.ID)
	return classify(err)
}

func (r *ContactMessageRepository) FindByMessageID(ctx context.Context, messageID string) (*entity.ContactMessage, error) {
	var m entity.ContactMessage
	query := r.DB.Rebind(`SELECT ` + contactColumns + ` FROM contact_messages WHERE message_id = ?`)
	if err := r.DB.GetContext(ctx, &m, query, messageID); err != nil {
		return nil, classify(err)
	}
	return &m, nil
}

func (r *ContactMessageRepository) List(ctx context.Context, f entity.ContactFilter, p entity.Page) ([]entity.ContactMessage, int, error) {
	var w where
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.Priority != "" {
		w.add("priority = ?", f.Priority)
	}
	if f.Search != "" {
		pattern := likePattern(f.Search)
		w.add("(LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(COALESCE(subject, '')) LIKE ?)", pattern, pattern, pattern)
	}

	var total int
	if err := r.DB.GetContext(ctx, &total, r.DB.Rebind(`SELECT COUNT(*) FROM contact_messages`+w.String()), w.args...); err != nil {
		return nil, 0, classify(err)
	}

	messages := []entity.ContactMessage{}
	query := r.DB.Rebind(`SELECT ` + contactColumns + ` FROM contact_messages` + w.String() + ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`)
	args := append(append([]any{}, w.args...), p.Limit, p.Offset())
	if err := r.DB.SelectContext(ctx, &messages, query, args...); err != nil {
		return nil, 0, classify(err)
	}
	return messages, total, nil
}

func (r *ContactMessageRepository) UpdateStatus(ctx context.Context, messageID string, u entity.ContactStatusUpdate) error {
	query := r.DB.Rebind(`UPDATE contact_messages SET status = ?, assigned_to = ?, response = ?, updated_at = ? WHERE message_id = ?`)
	return expectOne(r.DB.ExecContext(ctx, query, u.Status, u.AssignedTo, u.Response, u.At, messageID))
}

func (r *ContactMessageRepository) Delete(ctx context.Context, messageID string) error {
	query := r.DB.Rebind(`DELETE FROM contact_messages WHERE message_id = ?`)
	return expectOne(r.DB.ExecContext(ctx, query, messageID))
}

func (r *ContactMessageRepository) CountByStatus(ctx context.Context) ([]entity.StatusCount, error) {
	stats := []entity.StatusCount{}
	err := r.DB.SelectContext(ctx, &stats, `
		SELECT status, COUNT(*) AS count
		FROM contact_messages
		GROUP BY status
		ORDER BY count DESC, status`)
	return stats, classify(err)
}
