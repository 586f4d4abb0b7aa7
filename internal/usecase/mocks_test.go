package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/tes-insurance/internal/audit"
	"github.com/xavierca1/tes-insurance/internal/auth"
	"github.com/xavierca1/tes-insurance/internal/entity"
	"github.com/xavierca1/tes-insurance/internal/infra/queue"
)

var fixedNow = time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead, detail *entity.LeadDetail) error {
	args := m.Called(ctx, lead, detail)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByLeadID(ctx context.Context, leadID string) (*entity.LeadWithDetails, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LeadWithDetails), args.Error(1)
}

func (m *MockLeadRepository) List(ctx context.Context, f entity.LeadFilter, p entity.Page) ([]entity.LeadSummary, int, error) {
	args := m.Called(ctx, f, p)
	return args.Get(0).([]entity.LeadSummary), args.Int(1), args.Error(2)
}

func (m *MockLeadRepository) Recent(ctx context.Context, n int) ([]entity.Lead, error) {
	args := m.Called(ctx, n)
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) UpdateStatus(ctx context.Context, leadID, status string, notes *string, at time.Time) error {
	args := m.Called(ctx, leadID, status, notes, at)
	return args.Error(0)
}

func (m *MockLeadRepository) CountByStatus(ctx context.Context) ([]entity.StatusCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entity.StatusCount), args.Error(1)
}

// MockQuoteRepository
type MockQuoteRepository struct {
	mock.Mock
}

func (m *MockQuoteRepository) Create(ctx context.Context, q *entity.Quote) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuoteRepository) FindByQuoteID(ctx context.Context, quoteID string) (*entity.Quote, error) {
	args := m.Called(ctx, quoteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Quote), args.Error(1)
}

func (m *MockQuoteRepository) ListByLead(ctx context.Context, leadID string) ([]entity.Quote, error) {
	args := m.Called(ctx, leadID)
	return args.Get(0).([]entity.Quote), args.Error(1)
}

func (m *MockQuoteRepository) UpdateStatus(ctx context.Context, quoteID, status string, notes *string, at time.Time) error {
	args := m.Called(ctx, quoteID, status, notes, at)
	return args.Error(0)
}

func (m *MockQuoteRepository) Delete(ctx context.Context, quoteID string) error {
	args := m.Called(ctx, quoteID)
	return args.Error(0)
}

// MockPolicyRepository
type MockPolicyRepository struct {
	mock.Mock
}

func (m *MockPolicyRepository) Create(ctx context.Context, p *entity.Policy) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPolicyRepository) FindByPolicyID(ctx context.Context, policyID string) (*entity.Policy, error) {
	args := m.Called(ctx, policyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Policy), args.Error(1)
}

func (m *MockPolicyRepository) FindByQuoteID(ctx context.Context, quoteID string) (*entity.Policy, error) {
	args := m.Called(ctx, quoteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Policy), args.Error(1)
}

func (m *MockPolicyRepository) List(ctx context.Context, f entity.PolicyFilter, p entity.Page) ([]entity.Policy, int, error) {
	args := m.Called(ctx, f, p)
	return args.Get(0).([]entity.Policy), args.Int(1), args.Error(2)
}

func (m *MockPolicyRepository) UpdateStatus(ctx context.Context, policyID, status string, at time.Time) error {
	args := m.Called(ctx, policyID, status, at)
	return args.Error(0)
}

func (m *MockPolicyRepository) Delete(ctx context.Context, policyID string) error {
	args := m.Called(ctx, policyID)
	return args.Error(0)
}

// MockContactRepository
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Create(ctx context.Context, msg *entity.ContactMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockContactRepository) FindByMessageID(ctx context.Context, messageID string) (*entity.ContactMessage, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ContactMessage), args.Error(1)
}

func (m *MockContactRepository) List(ctx context.Context, f entity.ContactFilter, p entity.Page) ([]entity.ContactMessage, int, error) {
	args := m.Called(ctx, f, p)
	return args.Get(0).([]entity.ContactMessage), args.Int(1), args.Error(2)
}

func (m *MockContactRepository) UpdateStatus(ctx context.Context, messageID string, u entity.ContactStatusUpdate) error {
	args := m.Called(ctx, messageID, u)
	return args.Error(0)
}

func (m *MockContactRepository) Delete(ctx context.Context, messageID string) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}

func (m *MockContactRepository) CountByStatus(ctx context.Context) ([]entity.StatusCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entity.StatusCount), args.Error(1)
}

// MockAnalyticsRepository
type MockAnalyticsRepository struct {
	mock.Mock
}

func (m *MockAnalyticsRepository) Create(ctx context.Context, e *entity.AnalyticsEvent) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockAnalyticsRepository) List(ctx context.Context, f entity.EventFilter, p entity.Page) ([]entity.AnalyticsEvent, int, error) {
	args := m.Called(ctx, f, p)
	return args.Get(0).([]entity.AnalyticsEvent), args.Int(1), args.Error(2)
}

func (m *MockAnalyticsRepository) CountByType(ctx context.Context, f entity.EventFilter) ([]entity.EventTypeCount, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]entity.EventTypeCount), args.Error(1)
}

func (m *MockAnalyticsRepository) TopPages(ctx context.Context, f entity.EventFilter, n int) ([]entity.PageViewCount, error) {
	args := m.Called(ctx, f, n)
	return args.Get(0).([]entity.PageViewCount), args.Error(1)
}

func (m *MockAnalyticsRepository) DailyActivity(ctx context.Context, f entity.EventFilter, days int) ([]entity.DailyActivity, error) {
	args := m.Called(ctx, f, days)
	return args.Get(0).([]entity.DailyActivity), args.Error(1)
}

// MockUserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *entity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]entity.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entity.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockUserRepository) SetActive(ctx context.Context, id int64, active bool, at time.Time) error {
	args := m.Called(ctx, id, active, at)
	return args.Error(0)
}

// MockCarrierRepository
type MockCarrierRepository struct {
	mock.Mock
}

func (m *MockCarrierRepository) Create(ctx context.Context, c *entity.Carrier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCarrierRepository) Update(ctx context.Context, c *entity.Carrier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCarrierRepository) FindByID(ctx context.Context, id int64) (*entity.Carrier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Carrier), args.Error(1)
}

func (m *MockCarrierRepository) ListActive(ctx context.Context, product string) ([]entity.Carrier, error) {
	args := m.Called(ctx, product)
	return args.Get(0).([]entity.Carrier), args.Error(1)
}

// MockQueueProducer
type MockQueueProducer struct {
	mock.Mock
}

func (m *MockQueueProducer) PublishLeadCreated(ctx context.Context, payload queue.LeadCreatedPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

func (m *MockQueueProducer) PublishContactCreated(ctx context.Context, payload queue.ContactCreatedPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// MockHasher
type MockHasher struct {
	mock.Mock
}

func (m *MockHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockHasher) Compare(hash, password string) error {
	args := m.Called(hash, password)
	return args.Error(0)
}

// MockTokenIssuer
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(id auth.Identity) (string, time.Time, error) {
	args := m.Called(id)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

// spyAuditor keeps every entry it is handed.
type spyAuditor struct {
	entries []audit.Entry
}

func (s *spyAuditor) Record(_ context.Context, e audit.Entry) {
	s.entries = append(s.entries, e)
}
