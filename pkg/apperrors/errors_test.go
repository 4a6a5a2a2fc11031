package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"not found", NotFound("task not found"), KindNotFound},
		{"permission", PermissionDenied("insufficient permissions"), KindPermissionDenied},
		{"validation", Validation("order must be non-negative"), KindValidation},
		{"conflict", Conflict("cannot remove the only admin"), KindConflict},
		{"internal", Internal("database failure", errors.New("boom")), KindInternal},
		{"plain error", errors.New("unclassified"), KindInternal},
		{"wrapped", fmt.Errorf("context: %w", NotFound("project not found")), KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "task not found", MessageOf(NotFound("task not found")))
	// internal causes never leak into the user-facing message
	assert.Equal(t, "Internal server error", MessageOf(errors.New("pq: relation does not exist")))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("store unavailable", cause)
	assert.True(t, errors.Is(err, cause))
}
