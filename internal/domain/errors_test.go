package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	verr := NewValidationError()
	assert.True(t, verr.Empty())

	verr.Add("status", "unknown status")
	verr.Add("amount", "must be positive")
	assert.False(t, verr.Empty())

	// Fields render sorted so the message is stable.
	assert.Equal(t, "validation failed: amount: must be positive; status: unknown status", verr.Error())
}

func TestIsValidation(t *testing.T) {
	verr := NewValidationError()
	verr.Add("name", "is required")

	assert.True(t, IsValidation(verr))
	assert.True(t, IsValidation(fmt.Errorf("create order: %w", verr)))
	assert.False(t, IsValidation(errors.New("db error")))
	assert.False(t, IsValidation(ErrNotFound))
}
