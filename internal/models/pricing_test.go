package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "black76/internal/errors"
)

func TestParseOptionType(t *testing.T) {
	tests := []struct {
		in   string
		want OptionType
	}{
		{"", OptionTypeCall},
		{"call", OptionTypeCall},
		{" C ", OptionTypeCall},
		{"true", OptionTypeCall},
		{"1", OptionTypeCall},
		{"PUT", OptionTypePut},
		{"p", OptionTypePut},
		{"false", OptionTypePut},
		{"f", OptionTypePut},
		{"0", OptionTypePut},
	}
	for _, tt := range tests {
		got, err := ParseOptionType(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"puts", "straddle", "2"} {
		_, err := ParseOptionType(bad)
		assert.ErrorIs(t, err, perrors.ErrInvalidInput, bad)
	}
}

func TestScenarioIsCall(t *testing.T) {
	assert.True(t, Scenario{}.IsCall())
	assert.False(t, Scenario{Type: "0"}.IsCall())
	assert.False(t, Scenario{Type: "Put"}.IsCall())
}
