package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErr(t *testing.T) {
	t.Run("nil error produces omitted attribute", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		logger.Info("op done", Err(nil))
		assert.NotContains(t, buf.String(), "error=")
	})

	t.Run("non-nil error is included", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		logger.Info("op failed", Err(assert.AnError))
		assert.Contains(t, buf.String(), "error=")
	})
}

func TestAnonymizeEmail(t *testing.T) {
	t.Run("empty email", func(t *testing.T) {
		assert.Empty(t, AnonymizeEmail(""))
	})

	t.Run("stable hash", func(t *testing.T) {
		first := AnonymizeEmail("user@example.com")
		second := AnonymizeEmail("user@example.com")
		require.NotEmpty(t, first)
		assert.Equal(t, first, second)
		assert.NotContains(t, first, "user@example.com")
	})

	t.Run("distinct emails hash differently", func(t *testing.T) {
		assert.NotEqual(t, AnonymizeEmail("a@example.com"), AnonymizeEmail("b@example.com"))
	})
}

func TestWithTool(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	WithTool(logger, "search_emails").Info("dispatched")
	assert.Contains(t, buf.String(), "tool=search_emails")
}
