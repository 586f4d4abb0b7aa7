package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xavierca1/tes-insurance/internal/auth"
	"github.com/xavierca1/tes-insurance/internal/entity"
)

type MockAuditRepo struct {
	mock.Mock
}

func (m *MockAuditRepo) Create(ctx context.Context, l *entity.AuditLog) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockAuditRepo) List(ctx context.Context, f entity.AuditFilter, p entity.Page) ([]entity.AuditLog, int, error) {
	args := m.Called(ctx, f, p)
	return args.Get(0).([]entity.AuditLog), args.Int(1), args.Error(2)
}

func TestRecorder_RecordCapturesActorAndClient(t *testing.T) {
	repo := new(MockAuditRepo)
	var saved *entity.AuditLog
	repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.AuditLog")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*entity.AuditLog) }).
		Return(nil)

	ctx := auth.WithIdentity(context.Background(), auth.Identity{UserID: 7, Role: entity.RoleAgent})
	ctx = auth.WithClient(ctx, auth.Client{IP: "10.0.0.1", UserAgent: "test-agent"})

	NewRecorder(repo, zap.NewNop()).Record(ctx, Entry{
		Action:     entity.AuditActionUpdate,
		EntityType: "lead",
		EntityID:   "lead-1",
		Old:        map[string]string{"status": "new"},
		New:        map[string]string{"status": "contacted"},
	})

	require.NotNil(t, saved)
	assert.NotEmpty(t, saved.LogID)
	require.NotNil(t, saved.UserID)
	assert.Equal(t, int64(7), *saved.UserID)
	assert.Equal(t, "10.0.0.1", *saved.IPAddress)
	assert.Equal(t, "test-agent", *saved.UserAgent)
	assert.JSONEq(t, `{"status":"new"}`, string(saved.OldValues.JSONText))
	assert.JSONEq(t, `{"status":"contacted"}`, string(saved.NewValues.JSONText))
}

func TestRecorder_AnonymousCreateLeavesOldValuesEmpty(t *testing.T) {
	repo := new(MockAuditRepo)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(l *entity.AuditLog) bool {
		return l.UserID == nil && !l.OldValues.Valid && l.NewValues.Valid && l.IPAddress == nil
	})).Return(nil)

	NewRecorder(repo, nil).Record(context.Background(), Entry{
		Action:     entity.AuditActionCreate,
		EntityType: "contact_message",
		EntityID:   "m-1",
		New:        map[string]any{"name": "Jane"},
	})

	repo.AssertExpectations(t)
}

func TestRecorder_StoreFailureIsLoggedNotReturned(t *testing.T) {
	repo := new(MockAuditRepo)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	core, logs := observer.New(zap.WarnLevel)
	NewRecorder(repo, zap.New(core)).Record(context.Background(), Entry{
		Action: entity.AuditActionDelete, EntityType: "lead", EntityID: "x",
	})

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "audit log write failed", logs.All()[0].Message)
}

func TestRecorder_UnmarshallableSnapshotSkipsWrite(t *testing.T) {
	repo := new(MockAuditRepo)
	core, logs := observer.New(zap.WarnLevel)

	NewRecorder(repo, zap.New(core)).Record(context.Background(), Entry{
		Action: entity.AuditActionUpdate, EntityType: "lead", EntityID: "x",
		New: map[string]any{"bad": make(chan int)},
	})

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Equal(t, 1, logs.Len())
}
