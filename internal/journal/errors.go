package journal

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes recoverable journal errors.
type ErrorCode string

const (
	// CodeValidation indicates a blank or malformed required field.
	CodeValidation ErrorCode = "VALIDATION"

	// CodeLocked indicates an edit attempted on a Locked entry.
	CodeLocked ErrorCode = "LOCKED"

	// CodeNotFound indicates an operation referencing a missing id.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeCapacity indicates the trusted-hand list is full.
	CodeCapacity ErrorCode = "CAPACITY"
)

// Error is a recoverable journal error. Every store write returns one
// of these (or a wrapped driver error); none of them is fatal to the
// process, and the calling layer surfaces them inline.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Entity names the affected record kind ("entry", "thread", ...).
	Entity string

	// ID identifies the affected record, when known.
	ID int64
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s: %s (%s=%d)", e.Code, e.Message, e.Entity, e.ID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidationError reports a blank required field.
func NewValidationError(field string) *Error {
	return &Error{
		Code:    CodeValidation,
		Message: fmt.Sprintf("%s must not be blank", field),
	}
}

// NewLockedError reports an edit attempt on a Locked entry.
func NewLockedError(entryID int64) *Error {
	return &Error{
		Code:    CodeLocked,
		Message: "entry is locked and can no longer be edited",
		Entity:  "entry",
		ID:      entryID,
	}
}

// NewNotFoundError reports a reference to a non-existent record.
func NewNotFoundError(entity string, id int64) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s does not exist", entity),
		Entity:  entity,
		ID:      id,
	}
}

// NewCapacityError reports a trusted-hand add beyond the limit.
func NewCapacityError() *Error {
	return &Error{
		Code:    CodeCapacity,
		Message: fmt.Sprintf("trusted hands are limited to %d", MaxTrustedHands),
	}
}

// IsValidation reports whether err is a validation error.
// Uses errors.As to handle wrapped errors.
func IsValidation(err error) bool { return hasCode(err, CodeValidation) }

// IsLocked reports whether err is a locked-entry error.
func IsLocked(err error) bool { return hasCode(err, CodeLocked) }

// IsNotFound reports whether err is a missing-record error.
func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }

// IsCapacity reports whether err is a capacity error.
func IsCapacity(err error) bool { return hasCode(err, CodeCapacity) }

func hasCode(err error, code ErrorCode) bool {
	var je *Error
	if errors.As(err, &je) {
		return je.Code == code
	}
	return false
}
