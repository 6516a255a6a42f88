package timefmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat12Hour(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"14:05", "02:05 PM"},
		{"00:30", "12:30 AM"},
		{"12:00", "12:00 PM"},
		{"09:15", "09:15 AM"},
		{"9:15", "09:15 AM"},
		{"23:59", "11:59 PM"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Format12Hour(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFormat12Hour_Invalid(t *testing.T) {
	for _, input := range []string{"", "25:00", "12:60", "noon", "12-30"} {
		_, err := Format12Hour(input)
		assert.ErrorIs(t, err, ErrInvalidTime, input)
	}
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, NotAvailable, Display(""))
	assert.Equal(t, NotAvailable, Display("   "))
	assert.Equal(t, "06:45 PM", Display("18:45"))
	assert.Equal(t, "later", Display("later"))
}
