package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfWrapped(t *testing.T) {
	base := Validation("Slack", "connection target node not found")
	wrapped := fmt.Errorf("build failed: %w", base)

	assert.Equal(t, KindValidation, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindValidation))
	assert.False(t, Is(wrapped, KindGeneration))
	assert.Contains(t, wrapped.Error(), "Slack")
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("boom")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestGenerationKeepsRaw(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := Generation("{\"name\":", cause, "failed to parse workflow")

	assert.Equal(t, "{\"name\":", err.Raw)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "GENERATION_ERROR: failed to parse workflow: unexpected end of JSON input", err.Error())
}
