package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/xavierca1/tes-insurance/internal/entity"
)

const auditColumns = `id, log_id, user_id, action, entity_type, entity_id, old_values, new_values, ip_address, user_agent, created_at`

type AuditLogRepository struct {
	DB *sqlx.DB
}

func NewAuditLogRepository(db *sqlx.DB) *AuditLogRepository {
	return &AuditLogRepository{DB: db}
}

func (r *AuditLogRepository) Create(ctx context.Context, l *entity.AuditLog) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	query := r.DB.Rebind(`
		INSERT INTO audit_logs (log_id, user_id, action, entity_type, entity_id, old_values, new_values, ip_address, user_agent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)
	err := r.DB.QueryRowxContext(ctx, query,
		l.LogID, l.UserID, l.Action, l.EntityType, l.EntityID,
		nullJSONArg(l.OldValues), nullJSONArg(l.NewValues), l.IPAddress, l.UserAgent, l.CreatedAt,
	).Scan(&l.ID)
	return classify(err)
}

func (r *AuditLogRepository) List(ctx context.Context, f entity.AuditFilter, p entity.Page) ([]entity.AuditLog, int, error) {
	var w where
	if f.EntityType != "" {
		w.add("entity_type = ?", f.EntityType)
	}
	if f.EntityID != "" {
		w.add("entity_id = ?", f.EntityID)
	}
	if f.Action != "" {
		w.add("action = ?", f.Action)
	}
	if f.UserID != nil {
		w.add("user_id = ?", *f.UserID)
	}

	var total int
	if err := r.DB.GetContext(ctx, &total, r.DB.Rebind(`SELECT COUNT(*) FROM audit_logs`+w.String()), w.args...); err != nil {
		return nil, 0, classify(err)
	}

	logs := []entity.AuditLog{}
	query := r.DB.Rebind(`SELECT ` + auditColumns + ` FROM audit_logs` + w.String() + ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`)
	args := append(append([]any{}, w.args...), p.Limit, p.Offset())
	if err := r.DB.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, 0, classify(err)
	}
	return logs, total, nil
}
