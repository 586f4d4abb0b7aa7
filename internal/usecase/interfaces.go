package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/tes-insurance/internal/audit"
	"github.com/xavierca1/tes-insurance/internal/auth"
	"github.com/xavierca1/tes-insurance/internal/entity"
	"github.com/xavierca1/tes-insurance/internal/infra/queue"
)

// Auditor records mutations. Implementations must not fail the caller.
type Auditor interface {
	Record(ctx context.Context, e audit.Entry)
}

// EventPublisher is optional; a nil publisher disables domain events.
type EventPublisher = queue.QueueProducerInterface

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenIssuer interface {
	Issue(id auth.Identity) (string, time.Time, error)
}

type nopAuditor struct{}

func (nopAuditor) Record(context.Context, audit.Entry) {}

func auditorOrNop(a Auditor) Auditor {
	if a == nil {
		return nopAuditor{}
	}
	return a
}

func utcNow() time.Time {
	return time.Now().UTC()
}

// PageResult is one page of a list plus its pagination metadata.
type PageResult[T any] struct {
	Items      []T
	Pagination entity.Pagination
}
