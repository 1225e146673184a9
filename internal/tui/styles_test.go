package tui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	apierrors "github.com/diogo/alimah/internal/errors"
)

func TestFormatError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains []string
	}{
		{
			name:     "init failure",
			err:      apierrors.NewInitError(errors.New("no phrases")),
			contains: []string{"Failed to initialize", "no phrases"},
		},
		{
			name:     "network failure",
			err:      apierrors.NewNetworkError("reply", "http://localhost:8080", errors.New("connection refused")),
			contains: []string{"Endpoint: http://localhost:8080", "--simulate"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := FormatError(tt.err)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestFormatError_Nil(t *testing.T) {
	assert.Empty(t, FormatError(nil))
}
