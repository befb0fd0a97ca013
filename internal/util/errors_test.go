package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NewNotFound("session %d not found", 7), http.StatusNotFound},
		{"invalid input", NewInvalidInput("bad mode"), http.StatusBadRequest},
		{"invalid state", NewInvalidState("session has ended"), http.StatusConflict},
		{"conflict", NewConflict("key reused"), http.StatusConflict},
		{"unauthorized", NewUnauthorized("bad credentials"), http.StatusUnauthorized},
		{"forbidden", NewForbidden("role mismatch"), http.StatusForbidden},
		{"unavailable", NewUnavailable("database down"), http.StatusServiceUnavailable},
		{"internal", NewInternal("boom", errors.New("cause")), http.StatusInternalServerError},
		{"plain error", errors.New("not an app error"), http.StatusInternalServerError},
		{"wrapped app error", fmt.Errorf("context: %w", NewNotFound("gone")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestWrapDB(t *testing.T) {
	t.Run("record not found maps to NotFound", func(t *testing.T) {
		err := WrapDB(gorm.ErrRecordNotFound, "question %d not found", 42)
		assert.Equal(t, KindNotFound, err.Kind)
		assert.Equal(t, "question 42 not found", err.Message)
	})

	t.Run("other errors stay internal and keep the cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := WrapDB(cause, "question %d not found", 42)
		assert.Equal(t, KindInternal, err.Kind)
		assert.ErrorIs(t, err, cause)
	})
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewInternal("saving attempt", cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, "saving attempt: disk full", err.Error())

	bare := NewNotFound("nothing here")
	assert.Equal(t, "nothing here", bare.Error())
	assert.Nil(t, errors.Unwrap(bare))
}
