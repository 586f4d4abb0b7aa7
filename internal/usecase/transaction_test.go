package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestTransaction_RollsBackCompletedStepsInReverse(t *testing.T) {
	var trail []string
	step := func(name string, fail bool) (func(context.Context) error, func(context.Context) error) {
		return func(context.Context) error {
				trail = append(trail, name)
				if fail {
					return errors.New(name + " failed")
				}
				return nil
			}, func(context.Context) error {
				trail = append(trail, "undo "+name)
				return nil
			}
	}

	txn := NewTransaction(nil)
	a, undoA := step("a", false)
	b, undoB := step("b", false)
	c, undoC := step("c", true)
	txn.AddStep("a", a, undoA)
	txn.AddStep("b", b, undoB)
	txn.AddStep("c", c, undoC)

	err := txn.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `operation "c" failed`)
	assert.Equal(t, []string{"a", "b", "c", "undo b", "undo a"}, trail)
}

func TestTransaction_NilCompensationIsSkipped(t *testing.T) {
	undone := 0
	txn := NewTransaction(nil)
	txn.AddStep("first", func(context.Context) error { return nil }, func(context.Context) error { undone++; return nil })
	txn.AddStep("second", func(context.Context) error { return nil }, nil)
	txn.AddStep("third", func(context.Context) error { return errors.New("x") }, nil)

	require.Error(t, txn.Execute(context.Background()))
	assert.Equal(t, 1, undone)
}

func TestTransaction_CompensationFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	txn := NewTransaction(zap.New(core))
	txn.AddStep("write", func(context.Context) error { return nil }, func(context.Context) error { return errors.New("still down") })
	txn.AddStep("fail", func(context.Context) error { return errors.New("boom") }, nil)

	require.Error(t, txn.Execute(context.Background()))
	assert.Equal(t, 1, logs.FilterMessage("compensation failed, manual repair needed").Len())
}

func TestTransaction_ErrorKeepsCause(t *testing.T) {
	cause := &DomainError{Code: CodeConflict, Message: "taken"}
	txn := NewTransaction(nil)
	txn.AddStep("only", func(context.Context) error { return cause }, nil)

	err := txn.Execute(context.Background())
	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Same(t, cause, de)
}
