package quota

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samvyt/rifa/internal/shared/errors"
)

func TestWidthFor(t *testing.T) {
	assert.Equal(t, 5, WidthFor(10, 5))
	assert.Equal(t, 5, WidthFor(99999, 5))
	assert.Equal(t, 6, WidthFor(100000, 5))
	assert.Equal(t, MinNumberWidth, WidthFor(10, 0))
}

func TestNumbers(t *testing.T) {
	assert.Equal(t, []string{"00001", "00002", "00003"}, Numbers(3, 5))
}

func TestNormalizeNumbers(t *testing.T) {
	got, err := NormalizeNumbers([]string{"3", "00001", " 2 ", "00003"}, 5, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"00001", "00002", "00003"}, got)
}

func TestNormalizeNumbers_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
	}{
		{"empty", nil},
		{"zero", []string{"0"}},
		{"above total", []string{"11"}},
		{"not a number", []string{"abc"}},
		{"too wide", []string{"000001"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeNumbers(tt.raw, 5, 10)
			assert.True(t, errors.IsValidationError(err))
		})
	}
}
