package errors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSetsCode(t *testing.T) {
	err := New("field %s not found", "widgets", WithErrorCode(ENotFound))
	assert.Equal(t, ENotFound, ErrorCode(err))
	assert.Equal(t, "field widgets not found", ErrorMessage(err))
}

func TestNewDefaultsToInternal(t *testing.T) {
	err := New("boom")
	assert.Equal(t, EInternal, ErrorCode(err))
}

func TestWrapChainsCode(t *testing.T) {
	root := New("deadline passed", WithErrorCode(ERequestExceededDeadline))
	wrapped := Wrap(root, "search failed", WithErrorCode(ESearchFailed))

	assert.Equal(t, ERequestExceededDeadline, ErrorCode(wrapped))
	assert.Contains(t, wrapped.Error(), "deadline passed")
}

func TestErrorMessageSanitizesInternal(t *testing.T) {
	err := New("leaking a password hash")
	assert.Equal(t, InternalErrorMessage, ErrorMessage(err))
}

func TestErrorCodeOfPlainError(t *testing.T) {
	assert.Equal(t, EInternal, ErrorCode(errors.New("plain")))
	assert.Equal(t, Code(""), ErrorCode(nil))
}

func TestUnwrap(t *testing.T) {
	root := errors.New("root cause")
	wrapped := Wrap(root, "wrapped")
	require.ErrorIs(t, wrapped, root)
}

func TestIsContextCanceledError(t *testing.T) {
	assert.True(t, IsContextCanceledError(Wrap(context.Canceled, "x")))
	assert.False(t, IsContextCanceledError(New("y")))
}
