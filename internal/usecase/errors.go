package usecase

import (
	"errors"
	"strings"

	"github.com/xavierca1/tes-insurance/internal/entity"
)

const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeDatabase     = "DATABASE_ERROR"
)

// DomainError is an expected business outcome the caller can act on.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// TechnicalError wraps an infrastructure failure.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.Error()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v *ValidationErrors) add(field, message string) {
	*v = append(*v, ValidationError{Field: field, Message: message})
}

// err returns nil when there is nothing to report so callers can return it
// directly.
func (v ValidationErrors) err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func notFound(message string) error {
	return &DomainError{Code: CodeNotFound, Message: message}
}

// storeError passes constraint sentinels through for the transport to
// translate and wraps everything else as a TechnicalError.
func storeError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, entity.ErrDuplicate),
		errors.Is(err, entity.ErrInvalidReference),
		errors.Is(err, entity.ErrRequiredField):
		return err
	}
	return &TechnicalError{Code: CodeDatabase, Message: op, Err: err}
}

// lookupError maps ErrNotFound to a DomainError carrying notFoundMsg.
func lookupError(op, notFoundMsg string, err error) error {
	if errors.Is(err, entity.ErrNotFound) {
		return notFound(notFoundMsg)
	}
	return storeError(op, err)
}
