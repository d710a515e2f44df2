package journal

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorHelpers(t *testing.T) {
	assert.True(t, IsValidation(NewValidationError("whoWhat")))
	assert.True(t, IsLocked(NewLockedError(7)))
	assert.True(t, IsNotFound(NewNotFoundError("entry", 7)))
	assert.True(t, IsCapacity(NewCapacityError()))

	assert.False(t, IsLocked(NewValidationError("whoWhat")))
	assert.False(t, IsValidation(errors.New("plain")))
	assert.False(t, IsNotFound(nil))
}

func TestErrorHelpers_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("update entry: %w", NewLockedError(3))
	assert.True(t, IsLocked(wrapped))
	assert.False(t, IsNotFound(wrapped))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "VALIDATION: content must not be blank", NewValidationError("content").Error())
	assert.Equal(t, "LOCKED: entry is locked and can no longer be edited (entry=7)", NewLockedError(7).Error())
	assert.Equal(t, "NOT_FOUND: thread does not exist (thread=9)", NewNotFoundError("thread", 9).Error())
	assert.Equal(t, "CAPACITY: trusted hands are limited to 3", NewCapacityError().Error())
}
