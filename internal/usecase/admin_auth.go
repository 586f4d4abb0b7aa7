package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/tes-insurance/internal/audit"
	"github.com/xavierca1/tes-insurance/internal/auth"
	"github.com/xavierca1/tes-insurance/internal/entity"
)

const (
	entityUser = "user"

	msgInvalidCredentials = "Invalid credentials"
	msgUserExists         = "User already exists"
	msgAuthRequired       = "Authentication required"
	msgForbidden          = "Insufficient permissions"

	decoyPassword = "decoy-password-never-issued"
)

type AuthUseCase struct {
	Users  entity.UserRepositoryInterface
	Hasher PasswordHasher
	Tokens TokenIssuer
	Audit  Auditor
	Log    *zap.Logger
	now    func() time.Time

	decoyOnce sync.Once
	decoyHash string
}

func NewAuthUseCase(
	users entity.UserRepositoryInterface,
	hasher PasswordHasher,
	tokens TokenIssuer,
	auditor Auditor,
	log *zap.Logger,
) *AuthUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthUseCase{
		Users:  users,
		Hasher: hasher,
		Tokens: tokens,
		Audit:  auditorOrNop(auditor),
		Log:    log,
		now:    utcNow,
	}
}

func ValidateRegisterInput(in RegisterInput) ValidationErrors {
	var errs ValidationErrors
	if !isValidEmail(strings.TrimSpace(in.Email)) {
		errs.add("email", "Valid email is required")
	}
	if len(in.Password) < 8 {
		errs.add("password", "Password must be at least 8 characters")
	}
	if !lengthBetween(strings.TrimSpace(in.FirstName), 1, 100) {
		errs.add("first_name", "First name is required")
	}
	if !lengthBetween(strings.TrimSpace(in.LastName), 1, 100) {
		errs.add("last_name", "Last name is required")
	}
	return errs
}

// Register creates an admin. Only an authenticated admin may do so, except
// on an empty users table where the first admin bootstraps the install.
func (uc *AuthUseCase) Register(ctx context.Context, in RegisterInput) (*UserView, error) {
	if err := uc.authorizeRegistration(ctx); err != nil {
		return nil, err
	}
	if err := ValidateRegisterInput(in).err(); err != nil {
		return nil, err
	}

	email := normalizeEmail(in.Email)
	if _, err := uc.Users.FindByEmail(ctx, email); err == nil {
		return nil, &DomainError{Code: CodeConflict, Message: msgUserExists}
	} else if !errors.Is(err, entity.ErrNotFound) {
		return nil, storeError("find user", err)
	}

	hash, err := uc.Hasher.Hash(in.Password)
	if err != nil {
		return nil, &TechnicalError{Code: "HASH_ERROR", Message: "hash password", Err: err}
	}

	now := uc.now()
	u := &entity.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         entity.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.Users.Create(ctx, u); err != nil {
		if errors.Is(err, entity.ErrDuplicate) {
			return nil, &DomainError{Code: CodeConflict, Message: msgUserExists}
		}
		return nil, storeError("create user", err)
	}

	view := toUserView(u)
	uc.Audit.Record(ctx, audit.Entry{
		Action:     entity.AuditActionCreate,
		EntityType: entityUser,
		EntityID:   strconv.FormatInt(u.ID, 10),
		New:        view,
	})
	return &view, nil
}

func (uc *AuthUseCase) authorizeRegistration(ctx context.Context) error {
	if id, ok := auth.IdentityFrom(ctx); ok {
		if id.Role != entity.RoleAdmin {
			return &DomainError{Code: CodeForbidden, Message: msgForbidden}
		}
		return nil
	}

	n, err := uc.Users.Count(ctx)
	if err != nil {
		return storeError("count users", err)
	}
	if n > 0 {
		return &DomainError{Code: CodeUnauthorized, Message: msgAuthRequired}
	}
	return nil
}

// Login answers every credential failure with the same message so callers
// cannot tell which emails exist.
func (uc *AuthUseCase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, &DomainError{Code: CodeValidation, Message: "Email and password are required"}
	}

	invalid := &DomainError{Code: CodeUnauthorized, Message: msgInvalidCredentials}

	u, err := uc.Users.FindByEmail(ctx, email)
	if errors.Is(err, entity.ErrNotFound) {
		uc.burnCompare(in.Password)
		return nil, invalid
	}
	if err != nil {
		return nil, storeError("find user", err)
	}
	if !u.IsActive {
		uc.burnCompare(in.Password)
		return nil, invalid
	}
	if err := uc.Hasher.Compare(u.PasswordHash, in.Password); err != nil {
		return nil, invalid
	}

	if err := uc.Users.TouchLastLogin(ctx, u.ID, uc.now()); err != nil {
		uc.Log.Warn("update last_login failed", zap.Int64("user_id", u.ID), zap.Error(err))
	}

	token, expiresAt, err := uc.Tokens.Issue(auth.Identity{UserID: u.ID, Email: u.Email, Role: u.Role})
	if err != nil {
		return nil, &TechnicalError{Code: "TOKEN_ERROR", Message: "issue token", Err: err}
	}

	return &LoginOutput{Token: token, ExpiresAt: expiresAt, User: toUserView(u)}, nil
}

func toUserView(u *entity.User) UserView {
	return UserView{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
	}
}

// burnCompare spends one hash comparison so unknown and inactive accounts
// answer in about the same time as a wrong password.
func (uc *AuthUseCase) burnCompare(password string) {
	uc.decoyOnce.Do(func() {
		h, err := uc.Hasher.Hash(decoyPassword)
		if err != nil {
			uc.Log.Warn("hash decoy password failed", zap.Error(err))
			return
		}
		uc.decoyHash = h
	})
	if uc.decoyHash != "" {
		_ = uc.Hasher.Compare(uc.decoyHash, password)
	}
}
