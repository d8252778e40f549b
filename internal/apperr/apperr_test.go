package apperr

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("create document: %w", Conflict("control_number", "already exists"))

	assert.Equal(t, KindConflict, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindConflict))
	assert.False(t, Is(wrapped, KindNotFound))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.False(t, Is(nil, KindInternal))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "validation: title: is required", Validation("title", "is required").Error())

	cause := errors.New("connection reset")
	err := Internal("store failure", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestRateLimitClampsRetryAfter(t *testing.T) {
	err := RateLimit("slow down", -time.Second)
	assert.Equal(t, time.Duration(0), err.RetryAfter)

	e, ok := As(fmt.Errorf("wrap: %w", RateLimit("slow down", time.Minute)))
	assert.True(t, ok)
	assert.Equal(t, time.Minute, e.RetryAfter)
}
