package types

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigError(t *testing.T) {
	err := NewConfigError("worker count must be positive, got %d", -1)

	assert.Equal(t, "configuration error: worker count must be positive, got -1", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestWrapConfigError(t *testing.T) {
	cause := os.ErrNotExist
	err := WrapConfigError(cause, "decoder executable %q not found", "/usr/bin/dcraw_emu")

	assert.Contains(t, err.Error(), "decoder executable")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestIsConfigError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
		{name: "config error", err: NewConfigError("bad"), want: true},
		{name: "wrapped config error", err: fmt.Errorf("run: %w", NewConfigError("bad")), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsConfigError(tt.err))
		})
	}
}
