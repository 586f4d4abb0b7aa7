package entity

import "errors"

// Store-level failures. Repositories wrap driver errors with one of these so
// callers never inspect driver-specific codes.
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicate        = errors.New("duplicate entry")
	ErrInvalidReference = errors.New("referenced record not found")
	ErrRequiredField    = errors.New("required field is missing")
)
