package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError(t *testing.T) {
	t.Run("message without cause", func(t *testing.T) {
		err := NewDomainError(ErrorTypeNotFound, "asset not found", nil)
		assert.Equal(t, "not_found: asset not found", err.Error())
	})

	t.Run("message with cause", func(t *testing.T) {
		cause := errors.New("disk on fire")
		err := NewDomainError(ErrorTypeInternal, "stat failed", cause)
		assert.Contains(t, err.Error(), "stat failed")
		assert.Contains(t, err.Error(), "disk on fire")
		assert.ErrorIs(t, err, cause)
	})

	t.Run("Is matches on type", func(t *testing.T) {
		err := NewDomainError(ErrorTypePathEscape, "escaped", nil)
		assert.ErrorIs(t, err, ErrPathEscape)
		assert.NotErrorIs(t, err, ErrAssetNotFound)
	})

	t.Run("WithDetail accumulates", func(t *testing.T) {
		err := NewDomainError(ErrorTypeForbidden, "denied", nil).
			WithDetail("path", "x.mp4").
			WithDetail("role", "guest")
		assert.Equal(t, "x.mp4", err.Details["path"])
		assert.Equal(t, "guest", err.Details["role"])
	})
}

func TestErrorTypeHelpers(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"credential missing", ErrCredentialMissing, IsCredentialMissingError},
		{"credential invalid", ErrCredentialInvalid, IsCredentialInvalidError},
		{"inactive user is a credential error", ErrUserInactive, IsCredentialError},
		{"forbidden", ErrForbidden, IsForbiddenError},
		{"course denial is forbidden", ErrCourseAccessDenied, IsForbiddenError},
		{"path escape", ErrPathEscape, IsPathEscapeError},
		{"not found", ErrAssetNotFound, IsNotFoundError},
		{"streaming", ErrStreamingFailed, IsStreamingError},
		{"internal", ErrInternal, IsInternalError},
		{"database is internal", ErrDatabaseError, IsInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
		})
	}

	t.Run("helpers see through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("outer: %w", ErrPathEscape)
		assert.True(t, IsPathEscapeError(wrapped))
		assert.False(t, IsNotFoundError(wrapped))
	})

	t.Run("plain errors match nothing", func(t *testing.T) {
		err := errors.New("plain")
		assert.False(t, IsCredentialError(err))
		assert.False(t, IsForbiddenError(err))
		assert.False(t, IsNotFoundError(err))
		assert.Equal(t, ErrorType(""), GetErrorType(err))
	})
}

func TestWrapHelpers(t *testing.T) {
	cause := errors.New("boom")

	assert.True(t, IsInternalError(WrapInternal("ctx", cause)))
	assert.True(t, IsStreamingError(WrapStreaming("ctx", cause)))
	assert.True(t, IsForbiddenError(WrapError(ErrorTypeForbidden, "ctx", cause)))
	assert.ErrorIs(t, WrapInternal("ctx", cause), cause)
}
