package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdeaServiceError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *IdeaServiceError
		expected string
	}{
		{
			name:     "with underlying error",
			err:      &IdeaServiceError{Operation: "offline", Message: "failed to build offline ideas", Err: errors.New("empty catalog")},
			expected: "idea service offline failed: failed to build offline ideas: empty catalog",
		},
		{
			name:     "without underlying error",
			err:      &IdeaServiceError{Operation: "create_service", Message: "registry cannot be nil"},
			expected: "idea service create_service failed: registry cannot be nil",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestNewIdeaServiceError(t *testing.T) {
	t.Run("nil_cause_yields_nil", func(t *testing.T) {
		assert.NoError(t, NewIdeaServiceError("offline", "msg", nil))
	})

	t.Run("unwraps_to_cause", func(t *testing.T) {
		err := NewIdeaServiceError("create_service", "registry cannot be nil", ErrMissingDependency)

		assert.ErrorIs(t, err, ErrMissingDependency)
		var svcErr *IdeaServiceError
		assert.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "create_service", svcErr.Operation)
	})
}
