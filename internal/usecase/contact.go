package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xavierca1/tes-insurance/internal/audit"
	"github.com/xavierca1/tes-insurance/internal/entity"
	"github.com/xavierca1/tes-insurance/internal/infra/queue"
	"github.com/xavierca1/tes-insurance/internal/metrics"
)

const (
	entityContact = "contact_message"

	msgContactCreated = "Contact message created successfully"
	msgContactMissing = "Message not found"
)

type ContactUseCase struct {
	Messages entity.ContactMessageRepositoryInterface
	Audit    Auditor
	Events   EventPublisher
	Log      *zap.Logger
	now      func() time.Time
}

func NewContactUseCase(
	messages entity.ContactMessageRepositoryInterface,
	auditor Auditor,
	events EventPublisher,
	log *zap.Logger,
) *ContactUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &ContactUseCase{
		Messages: messages,
		Audit:    auditorOrNop(auditor),
		Events:   events,
		Log:      log,
		now:      utcNow,
	}
}

func ValidateCreateContactInput(in CreateContactInput) ValidationErrors {
	var errs ValidationErrors
	if !lengthBetween(strings.TrimSpace(in.Name), 2, 255) {
		errs.add("name", "Name must be between 2 and 255 characters")
	}
	if !isValidEmail(strings.TrimSpace(in.Email)) {
		errs.add("email", "Valid email is required")
	}
	if in.Subject != nil && !lengthBetween(strings.TrimSpace(*in.Subject), 0, 255) {
		errs.add("subject", "Subject must be less than 255 characters")
	}
	if !lengthBetween(strings.TrimSpace(in.Message), 10, 2000) {
		errs.add("message", "Message must be between 10 and 2000 characters")
	}
	if !lengthBetween(in.Priority, 0, 20) {
		errs.add("priority", "Priority must be at most 20 characters")
	}
	return errs
}

func (uc *ContactUseCase) Create(ctx context.Context, in CreateContactInput) (*CreateContactOutput, error) {
	if err := ValidateCreateContactInput(in).err(); err != nil {
		return nil, err
	}

	m := &entity.ContactMessage{
		MessageID: uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Email:     normalizeEmail(in.Email),
		Subject:   trimPtr(in.Subject),
		Message:   strings.TrimSpace(in.Message),
		Status:    entity.ContactStatusNew,
		Priority:  strings.TrimSpace(in.Priority),
		CreatedAt: uc.now(),
	}
	if m.Priority == "" {
		m.Priority = entity.DefaultContactPriority
	}

	if err := uc.Messages.Create(ctx, m); err != nil {
		return nil, storeError("create contact message", err)
	}
	metrics.RecordContactMessage()

	uc.Audit.Record(ctx, audit.Entry{
		Action:     entity.AuditActionCreate,
		EntityType: entityContact,
		EntityID:   m.MessageID,
		New:        in,
	})

	if uc.Events != nil {
		subject := ""
		if m.Subject != nil {
			subject = *m.Subject
		}
		err := uc.Events.PublishContactCreated(ctx, queue.ContactCreatedPayload{
			MessageID: m.MessageID,
			Name:      m.Name,
			Email:     m.Email,
			Subject:   subject,
			Message:   m.Message,
			Priority:  m.Priority,
			CreatedAt: m.CreatedAt,
		})
		if err != nil {
			metrics.RecordEventPublishFailure(queue.EventContactCreated)
			uc.Log.Warn("publish contact.created failed", zap.String("message_id", m.MessageID), zap.Error(err))
		}
	}

	return &CreateContactOutput{MessageID: m.MessageID, Message: msgContactCreated}, nil
}

func (uc *ContactUseCase) List(ctx context.Context, in ListContactsInput) (*PageResult[entity.ContactMessage], error) {
	items, total, err := uc.Messages.List(ctx, in.Filter, in.Page)
	if err != nil {
		return nil, storeError("list contact messages", err)
	}
	return &PageResult[entity.ContactMessage]{Items: items, Pagination: entity.NewPagination(in.Page, total)}, nil
}

func (uc *ContactUseCase) Get(ctx context.Context, messageID string) (*entity.ContactMessage, error) {
	m, err := uc.Messages.FindByMessageID(ctx, messageID)
	if err != nil {
		return nil, lookupError("find contact message", msgContactMissing, err)
	}
	return m, nil
}

func (uc *ContactUseCase) UpdateStatus(ctx context.Context, messageID string, in UpdateContactStatusInput) (*entity.ContactMessage, error) {
	status := strings.TrimSpace(in.Status)
	if status == "" {
		return nil, ValidationErrors{{Field: "status", Message: "Status is required"}}
	}

	current, err := uc.Messages.FindByMessageID(ctx, messageID)
	if err != nil {
		return nil, lookupError("find contact message", msgContactMissing, err)
	}

	u := entity.ContactStatusUpdate{
		Status:     status,
		AssignedTo: current.AssignedTo,
		Response:   current.Response,
		At:         uc.now(),
	}
	if in.AssignedTo != nil {
		u.AssignedTo = in.AssignedTo
	}
	if in.Response != nil {
		u.Response = in.Response
	}

	if err := uc.Messages.UpdateStatus(ctx, messageID, u); err != nil {
		return nil, lookupError("update contact message", msgContactMissing, err)
	}

	uc.Audit.Record(ctx, audit.Entry{
		Action:     entity.AuditActionUpdate,
		EntityType: entityContact,
		EntityID:   messageID,
		Old:        map[string]any{"status": current.Status, "assigned_to": current.AssignedTo, "response": current.Response},
		New:        map[string]any{"status": u.Status, "assigned_to": u.AssignedTo, "response": u.Response},
	})

	updated := *current
	updated.Status = u.Status
	updated.AssignedTo = u.AssignedTo
	updated.Response = u.Response
	updated.UpdatedAt = u.At
	return &updated, nil
}

// Delete removes the message row. The audit row keeps a snapshot.
func (uc *ContactUseCase) Delete(ctx context.Context, messageID string) error {
	current, err := uc.Messages.FindByMessageID(ctx, messageID)
	if err != nil {
		return lookupError("find contact message", msgContactMissing, err)
	}
	if err := uc.Messages.Delete(ctx, messageID); err != nil {
		return lookupError("delete contact message", msgContactMissing, err)
	}

	uc.Audit.Record(ctx, audit.Entry{
		Action:     entity.AuditActionDelete,
		EntityType: entityContact,
		EntityID:   messageID,
		Old:        current,
	})
	return nil
}
