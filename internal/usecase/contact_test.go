package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/tes-insurance/internal/entity"
	"github.com/xavierca1/tes-insurance/internal/infra/queue"
)

func TestContactUseCase_Create(t *testing.T) {
	ctx := context.Background()
	repo := new(MockContactRepository)
	events := new(MockQueueProducer)
	subject := "  Auto question "

	var saved *entity.ContactMessage
	repo.On("Create", ctx, mock.AnythingOfType("*entity.ContactMessage")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*entity.ContactMessage) }).
		Return(nil)
	events.On("PublishContactCreated", ctx, mock.MatchedBy(func(p queue.ContactCreatedPayload) bool {
		return p.Subject == "Auto question" && p.Priority == entity.DefaultContactPriority
	})).Return(nil)

	uc := NewContactUseCase(repo, nil, events, nil)
	out, err := uc.Create(ctx, CreateContactInput{
		Name:    "Bob Smith",
		Email:   "bob@example.com",
		Subject: &subject,
		Message: "Do you cover classic cars?",
	})
	require.NoError(t, err)

	assert.Equal(t, "Contact message created successfully", out.Message)
	assert.Equal(t, saved.MessageID, out.MessageID)
	assert.Equal(t, entity.ContactStatusNew, saved.Status)
	assert.Equal(t, "normal", saved.Priority)
	events.AssertExpectations(t)
}

func TestValidateCreateContactInput(t *testing.T) {
	errs := ValidateCreateContactInput(CreateContactInput{Name: "B", Email: "nope", Message: "short"})
	fields := []string{}
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"name", "email", "message"}, fields)
}

func TestContactUseCase_UpdateStatusMergesOmittedFields(t *testing.T) {
	ctx := context.Background()
	repo := new(MockContactRepository)
	assignee := int64(3)
	resp := "We will call you."
	current := &entity.ContactMessage{MessageID: "m-1", Status: "new", AssignedTo: &assignee, Response: &resp}

	repo.On("FindByMessageID", ctx, "m-1").Return(current, nil)
	repo.On("UpdateStatus", ctx, "m-1", entity.ContactStatusUpdate{
		Status:     "read",
		AssignedTo: &assignee,
		Response:   &resp,
		At:         fixedNow,
	}).Return(nil)

	uc := NewContactUseCase(repo, nil, nil, nil)
	uc.now = fixedClock

	got, err := uc.UpdateStatus(ctx, "m-1", UpdateContactStatusInput{Status: "read"})
	require.NoError(t, err)
	assert.Equal(t, "read", got.Status)
	assert.Equal(t, &resp, got.Response)
	assert.Equal(t, "new", current.Status, "stored snapshot is not mutated")
	repo.AssertExpectations(t)
}

func TestContactUseCase_DeleteMissing(t *testing.T) {
	ctx := context.Background()
	repo := new(MockContactRepository)
	repo.On("FindByMessageID", ctx, "gone").Return(nil, entity.ErrNotFound)

	err := NewContactUseCase(repo, nil, nil, nil).Delete(ctx, "gone")

	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "Message not found", de.Message)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestContactUseCase_DeleteAuditsSnapshot(t *testing.T) {
	ctx := context.Background()
	repo := new(MockContactRepository)
	current := &entity.ContactMessage{MessageID: "m-1", Name: "Bob"}
	repo.On("FindByMessageID", ctx, "m-1").Return(current, nil)
	repo.On("Delete", ctx, "m-1").Return(nil)
	spy := &spyAuditor{}

	require.NoError(t, NewContactUseCase(repo, spy, nil, nil).Delete(ctx, "m-1"))
	require.Len(t, spy.entries, 1)
	assert.Equal(t, entity.AuditActionDelete, spy.entries[0].Action)
	assert.Same(t, current, spy.entries[0].Old)
}

func TestContactUseCase_ListStoreError(t *testing.T) {
	ctx := context.Background()
	repo := new(MockContactRepository)
	page := entity.NewPage(1, 10, 10)
	repo.On("List", ctx, entity.ContactFilter{}, page).Return([]entity.ContactMessage(nil), 0, errors.New("boom"))

	_, err := NewContactUseCase(repo, nil, nil, nil).List(ctx, ListContactsInput{Page: page})
	assert.True(t, IsTechnicalError(err))
}
