// Package audit writes best-effort audit trail rows for staff and public
// mutations.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/xavierca1/tes-insurance/internal/auth"
	"github.com/xavierca1/tes-insurance/internal/entity"
	"github.com/xavierca1/tes-insurance/internal/metrics"
)

// Entry describes one mutation. Old and New are marshalled to JSON; nil
// leaves the column empty.
type Entry struct {
	Action     string
	EntityType string
	EntityID   string
	Old        any
	New        any
}

type Recorder struct {
	Repo entity.AuditLogRepositoryInterface
	Log  *zap.Logger
	now  func() time.Time
}

func NewRecorder(repo entity.AuditLogRepositoryInterface, log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{
		Repo: repo,
		Log:  log,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Record writes one audit row. The actor and client are taken from ctx.
// Failures are logged and counted, never returned.
func (r *Recorder) Record(ctx context.Context, e Entry) {
	row := &entity.AuditLog{
		LogID:      uuid.NewString(),
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		CreatedAt:  r.now(),
	}
	if id, ok := auth.IdentityFrom(ctx); ok {
		userID := id.UserID
		row.UserID = &userID
	}
	client := auth.ClientFrom(ctx)
	row.IPAddress = optional(client.IP)
	row.UserAgent = optional(client.UserAgent)

	var err error
	if row.OldValues, err = snapshot(e.Old); err != nil {
		r.fail(e, err)
		return
	}
	if row.NewValues, err = snapshot(e.New); err != nil {
		r.fail(e, err)
		return
	}

	// The row is written even if the client has gone away.
	if err := r.Repo.Create(context.WithoutCancel(ctx), row); err != nil {
		r.fail(e, err)
	}
}

func (r *Recorder) fail(e Entry, err error) {
	metrics.RecordAuditWriteFailure()
	r.Log.Warn("audit log write failed",
		zap.String("action", e.Action),
		zap.String("entity_type", e.EntityType),
		zap.String("entity_id", e.EntityID),
		zap.Error(err),
	)
}

func snapshot(v any) (types.NullJSONText, error) {
	if v == nil {
		return types.NullJSONText{}, nil
	}
	if raw, ok := v.(json.RawMessage); ok {
		return types.NullJSONText{JSONText: types.JSONText(raw), Valid: len(raw) > 0}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return types.NullJSONText{}, err
	}
	return types.NullJSONText{JSONText: types.JSONText(b), Valid: true}, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
