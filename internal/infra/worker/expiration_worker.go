package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/tes-insurance/internal/metrics"
)

const (
	entityQuote  = "quote"
	entityPolicy = "policy"
)

// Expirer moves records whose expiration_date is before day to expired.
type Expirer interface {
	ExpireBefore(ctx context.Context, day string, at time.Time) ([]string, error)
}

// ExpirationWorker periodically expires carrier quotes and policies whose
// expiration date has passed.
type ExpirationWorker struct {
	Quotes       Expirer
	Policies     Expirer
	TickInterval time.Duration
	Log          *zap.Logger
	now          func() time.Time
}

func NewExpirationWorker(quotes, policies Expirer, interval time.Duration, log *zap.Logger) *ExpirationWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ExpirationWorker{
		Quotes:       quotes,
		Policies:     policies,
		TickInterval: interval,
		Log:          log,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Start sweeps once immediately and then every TickInterval until ctx ends.
func (w *ExpirationWorker) Start(ctx context.Context) {
	w.Log.Info("expiration worker started", zap.Duration("interval", w.TickInterval))

	ticker := time.NewTicker(w.TickInterval)
	defer ticker.Stop()

	w.Sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			w.Log.Info("expiration worker stopped")
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Run starts the worker in its own goroutine. The returned stop cancels it
// and blocks until any in-flight sweep has returned.
func (w *ExpirationWorker) Run(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Start(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}

// Sweep runs one pass and returns how many quotes and policies it expired.
// A failure on one entity does not stop the other.
func (w *ExpirationWorker) Sweep(ctx context.Context) (quotes, policies int) {
	now := w.now()
	today := now.Format(time.DateOnly)

	quotes = w.expire(ctx, entityQuote, w.Quotes, today, now)
	policies = w.expire(ctx, entityPolicy, w.Policies, today, now)
	return quotes, policies
}

func (w *ExpirationWorker) expire(ctx context.Context, entity string, e Expirer, today string, now time.Time) int {
	if e == nil {
		return 0
	}
	ids, err := e.ExpireBefore(ctx, today, now)
	if err != nil {
		w.Log.Error("expire records failed", zap.String("entity", entity), zap.Error(err))
		return 0
	}
	if len(ids) > 0 {
		metrics.RecordExpired(entity, len(ids))
		w.Log.Info("records expired",
			zap.String("entity", entity),
			zap.Int("count", len(ids)),
			zap.Strings("ids", ids),
		)
	}
	return len(ids)
}
