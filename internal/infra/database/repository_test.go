package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/tes-insurance/internal/entity"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	u := &entity.User{Email: "Admin@Example.com", PasswordHash: "h", FirstName: "Ada", LastName: "Admin", Role: entity.RoleAdmin, IsActive: true}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)

	got, err := repo.FindByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Nil(t, got.LastLogin)

	dup := *u
	assert.ErrorIs(t, repo.Create(ctx, &dup), entity.ErrDuplicate)

	now := time.Now().UTC()
	require.NoError(t, repo.TouchLastLogin(ctx, u.ID, now))
	require.NoError(t, repo.SetActive(ctx, u.ID, false, now))

	got, err = repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
	assert.False(t, got.IsActive)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.ErrorIs(t, repo.SetActive(ctx, 999, true, now), entity.ErrNotFound)
}

func TestCarrierRepository_ListActiveByProduct(t *testing.T) {
	ctx := context.Background()
	repo := NewCarrierRepository(newTestDB(t))

	carriers := []*entity.Carrier{
		{Name: "Beta Mutual", Products: types.JSONText(`["Auto","Home"]`), IsActive: true},
		{Name: "Acme", Products: types.JSONText(`["Home"]`), IsActive: true},
		{Name: "Gone Co", Products: types.JSONText(`["Auto"]`), IsActive: false},
	}
	for _, c := range carriers {
		require.NoError(t, repo.Create(ctx, c))
	}

	all, err := repo.ListActive(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Acme", all[0].Name, "ordered by name")

	auto, err := repo.ListActive(ctx, "Auto")
	require.NoError(t, err)
	require.Len(t, auto, 1)
	assert.Equal(t, "Beta Mutual", auto[0].Name)

	carriers[2].IsActive = true
	require.NoError(t, repo.Update(ctx, carriers[2]))
	auto, err = repo.ListActive(ctx, "Auto")
	require.NoError(t, err)
	assert.Len(t, auto, 2)

	_, err = repo.FindByID(ctx, 12345)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestQuoteAndPolicyRepositories(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	leads := NewLeadRepository(db)
	quotes := NewQuoteRepository(db)
	policies := NewPolicyRepository(db)

	lead := newLead("Jane Doe", "Auto")
	require.NoError(t, leads.Create(ctx, lead, nil))

	q := &entity.Quote{
		QuoteID:        uuid.NewString(),
		LeadID:         lead.LeadID,
		CarrierName:    "Acme",
		Premium:        1250.5,
		CoverageLimits: types.NullJSONText{JSONText: types.JSONText(`{"liability":"100/300/100"}`), Valid: true},
		Status:         entity.QuoteStatusPending,
	}
	require.NoError(t, quotes.Create(ctx, q))

	orphan := *q
	orphan.QuoteID = uuid.NewString()
	orphan.LeadID = uuid.NewString()
	assert.ErrorIs(t, quotes.Create(ctx, &orphan), entity.ErrInvalidReference)

	require.NoError(t, quotes.UpdateStatus(ctx, q.QuoteID, entity.QuoteStatusApproved, str("ok"), time.Now().UTC()))
	got, err := quotes.FindByQuoteID(ctx, q.QuoteID)
	require.NoError(t, err)
	assert.Equal(t, entity.QuoteStatusApproved, got.Status)
	assert.JSONEq(t, `{"liability":"100/300/100"}`, string(got.CoverageLimits.JSONText))

	byLead, err := quotes.ListByLead(ctx, lead.LeadID)
	require.NoError(t, err)
	assert.Len(t, byLead, 1)

	p := &entity.Policy{
		PolicyID:     uuid.NewString(),
		QuoteID:      q.QuoteID,
		LeadID:       lead.LeadID,
		CarrierName:  "Acme",
		PolicyNumber: "ACME-AUTO-001",
		Premium:      q.Premium,
		Status:       entity.PolicyStatusActive,
	}
	require.NoError(t, policies.Create(ctx, p))

	again := *p
	again.PolicyID = uuid.NewString()
	assert.ErrorIs(t, policies.Create(ctx, &again), entity.ErrDuplicate, "policy number is unique")

	other := *p
	other.PolicyID = uuid.NewString()
	other.PolicyNumber = "ACME-AUTO-009"
	assert.ErrorIs(t, policies.Create(ctx, &other), entity.ErrDuplicate, "one policy per quote")

	bound, err := policies.FindByQuoteID(ctx, q.QuoteID)
	require.NoError(t, err)
	assert.Equal(t, p.PolicyID, bound.PolicyID)
	_, err = policies.FindByQuoteID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, entity.ErrNotFound)

	list, total, err := policies.List(ctx, entity.PolicyFilter{LeadID: lead.LeadID}, entity.NewPage(1, 10, 20))
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "ACME-AUTO-001", list[0].PolicyNumber)

	require.NoError(t, policies.UpdateStatus(ctx, p.PolicyID, entity.PolicyStatusCancelled, time.Now().UTC()))
	gotPolicy, err := policies.FindByPolicyID(ctx, p.PolicyID)
	require.NoError(t, err)
	assert.Equal(t, entity.PolicyStatusCancelled, gotPolicy.Status)
}

func TestContactMessageRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewContactMessageRepository(newTestDB(t))

	m := &entity.ContactMessage{
		MessageID: uuid.NewString(),
		Name:      "Jane Doe",
		Email:     "jane@x.com",
		Subject:   str("Question about auto"),
		Message:   "Please call me back.",
		Status:    entity.ContactStatusNew,
		Priority:  entity.DefaultContactPriority,
	}
	require.NoError(t, repo.Create(ctx, m))

	list, total, err := repo.List(ctx, entity.ContactFilter{Search: "AUTO"}, entity.NewPage(1, 10, 20))
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, m.MessageID, list[0].MessageID)

	require.NoError(t, repo.UpdateStatus(ctx, m.MessageID, entity.ContactStatusUpdate{
		Status:   entity.ContactStatusReplied,
		Response: str("done"),
		At:       time.Now().UTC(),
	}))

	got, err := repo.FindByMessageID(ctx, m.MessageID)
	require.NoError(t, err)
	assert.Equal(t, entity.ContactStatusReplied, got.Status)
	assert.Equal(t, "done", *got.Response)

	require.NoError(t, repo.Delete(ctx, m.MessageID))
	assert.ErrorIs(t, repo.Delete(ctx, m.MessageID), entity.ErrNotFound)
	_, err = repo.FindByMessageID(ctx, m.MessageID)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestExpireBefore(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	leads := NewLeadRepository(db)
	quotes := NewQuoteRepository(db)
	policies := NewPolicyRepository(db)

	lead := newLead("Jane Doe", "Auto")
	require.NoError(t, leads.Create(ctx, lead, nil))

	newQuote := func(status string, expires *string) *entity.Quote {
		q := &entity.Quote{
			QuoteID:        uuid.NewString(),
			LeadID:         lead.LeadID,
			CarrierName:    "Acme",
			Premium:        900,
			ExpirationDate: expires,
			Status:         status,
		}
		require.NoError(t, quotes.Create(ctx, q))
		return q
	}

	stale := newQuote(entity.QuoteStatusPending, str("2025-03-13"))
	staleApproved := newQuote(entity.QuoteStatusApproved, str("2025-01-01"))
	endsToday := newQuote(entity.QuoteStatusPending, str("2025-03-14"))
	declined := newQuote(entity.QuoteStatusDeclined, str("2025-01-01"))
	openEnded := newQuote(entity.QuoteStatusPending, nil)

	at := time.Date(2025, 3, 14, 2, 0, 0, 0, time.UTC)
	ids, err := quotes.ExpireBefore(ctx, "2025-03-14", at)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{stale.QuoteID, staleApproved.QuoteID}, ids)

	for q, want := range map[*entity.Quote]string{
		stale:         entity.QuoteStatusExpired,
		staleApproved: entity.QuoteStatusExpired,
		endsToday:     entity.QuoteStatusPending,
		declined:      entity.QuoteStatusDeclined,
		openEnded:     entity.QuoteStatusPending,
	} {
		got, err := quotes.FindByQuoteID(ctx, q.QuoteID)
		require.NoError(t, err)
		assert.Equal(t, want, got.Status, q.QuoteID)
	}

	ids, err = quotes.ExpireBefore(ctx, "2025-03-14", at)
	require.NoError(t, err)
	assert.Empty(t, ids, "second sweep finds nothing")

	p := &entity.Policy{
		PolicyID:       uuid.NewString(),
		QuoteID:        staleApproved.QuoteID,
		LeadID:         lead.LeadID,
		CarrierName:    "Acme",
		PolicyNumber:   "ACME-AUTO-002",
		Premium:        900,
		ExpirationDate: str("2025-03-01"),
		Status:         entity.PolicyStatusActive,
	}
	require.NoError(t, policies.Create(ctx, p))

	ids, err = policies.ExpireBefore(ctx, "2025-03-14", at)
	require.NoError(t, err)
	assert.Equal(t, []string{p.PolicyID}, ids)

	got, err := policies.FindByPolicyID(ctx, p.PolicyID)
	require.NoError(t, err)
	assert.Equal(t, entity.PolicyStatusExpired, got.Status)
}
