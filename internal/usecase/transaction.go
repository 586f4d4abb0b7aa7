package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Transaction runs steps that span several repositories and undoes the
// completed ones, newest first, when a later step fails. It is not atomic:
// a failing compensation is logged and left for an operator.
type Transaction struct {
	operations    []Operation
	compensations []Compensation
	log           *zap.Logger
}

type Operation struct {
	Name string
	Fn   func(context.Context) error
}

// Compensation undoes the operation at the same index. A nil Fn means the
// operation needs no undo.
type Compensation struct {
	Name string
	Fn   func(context.Context) error
}

func NewTransaction(log *zap.Logger) *Transaction {
	if log == nil {
		log = zap.NewNop()
	}
	return &Transaction{log: log}
}

// AddStep registers an operation and its compensation together so their
// indexes stay aligned.
func (t *Transaction) AddStep(name string, fn, undo func(context.Context) error) {
	t.operations = append(t.operations, Operation{name, fn})
	t.compensations = append(t.compensations, Compensation{"undo_" + name, undo})
}

func (t *Transaction) Execute(ctx context.Context) error {
	for i, op := range t.operations {
		if err := op.Fn(ctx); err != nil {
			t.rollback(ctx, i)
			return fmt.Errorf("operation %q failed: %w (rolled back %d operations)", op.Name, err, i)
		}
	}
	return nil
}

func (t *Transaction) rollback(ctx context.Context, failedAt int) {
	ctx = context.WithoutCancel(ctx)
	for i := failedAt - 1; i >= 0; i-- {
		comp := t.compensations[i]
		if comp.Fn == nil {
			continue
		}
		if err := comp.Fn(ctx); err != nil {
			t.log.Error("compensation failed, manual repair needed",
				zap.String("compensation", comp.Name),
				zap.Error(err),
			)
		}
	}
}
