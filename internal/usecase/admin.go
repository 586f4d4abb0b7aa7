package usecase

import (
	"context"
	"strconv"
	"time"

	"github.com/xavierca1/tes-insurance/internal/audit"
	"github.com/xavierca1/tes-insurance/internal/auth"
	"github.com/xavierca1/tes-insurance/internal/entity"
)

const msgUserMissing = "User not found"

type AdminUseCase struct {
	Users     entity.UserRepositoryInterface
	AuditLogs entity.AuditLogRepositoryInterface
	Audit     Auditor
	now       func() time.Time
}

func NewAdminUseCase(users entity.UserRepositoryInterface, logs entity.AuditLogRepositoryInterface, auditor Auditor) *AdminUseCase {
	return &AdminUseCase{Users: users, AuditLogs: logs, Audit: auditorOrNop(auditor), now: utcNow}
}

func (uc *AdminUseCase) ListAuditLogs(ctx context.Context, in ListAuditLogsInput) (*PageResult[entity.AuditLog], error) {
	items, total, err := uc.AuditLogs.List(ctx, in.Filter, in.Page)
	if err != nil {
		return nil, storeError("list audit logs", err)
	}
	return &PageResult[entity.AuditLog]{Items: items, Pagination: entity.NewPagination(in.Page, total)}, nil
}

func (uc *AdminUseCase) ListUsers(ctx context.Context) ([]entity.User, error) {
	users, err := uc.Users.List(ctx)
	if err != nil {
		return nil, storeError("list users", err)
	}
	return users, nil
}

// SetUserActive enables or disables a staff account. Admins cannot disable
// themselves.
func (uc *AdminUseCase) SetUserActive(ctx context.Context, userID int64, in SetUserActiveInput) (*entity.User, error) {
	if in.IsActive == nil {
		return nil, ValidationErrors{{Field: "is_active", Message: "is_active is required"}}
	}
	if id, ok := auth.IdentityFrom(ctx); ok && id.UserID == userID && !*in.IsActive {
		return nil, &DomainError{Code: CodeConflict, Message: "You cannot deactivate your own account"}
	}

	current, err := uc.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, lookupError("find user", msgUserMissing, err)
	}
	now := uc.now()
	if err := uc.Users.SetActive(ctx, userID, *in.IsActive, now); err != nil {
		return nil, lookupError("set user active", msgUserMissing, err)
	}

	uc.Audit.Record(ctx, audit.Entry{
		Action:     entity.AuditActionUpdate,
		EntityType: entityUser,
		EntityID:   strconv.FormatInt(userID, 10),
		Old:        map[string]any{"is_active": current.IsActive},
		New:        map[string]any{"is_active": *in.IsActive},
	})

	updated := *current
	updated.IsActive = *in.IsActive
	updated.UpdatedAt = now
	return &updated, nil
}
