package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimezone(t *testing.T) {
	tests := []struct {
		input   string
		minutes int
		display string
	}{
		{"UTC", 0, "UTC+0"},
		{"GMT", 0, "UTC+0"},
		{"UTC+5", 300, "UTC+5"},
		{"UTC+05", 300, "UTC+5"},
		{"GMT-4", -240, "UTC-4"},
		{"-4", -240, "UTC-4"},
		{"+5:30", 330, "UTC+5:30"},
		{"utc-9:45", -585, "UTC-9:45"},
		{"4.5", 270, "UTC+4:30"},
		{"12.25", 735, "UTC+12:15"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tz, err := ParseTimezone(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.minutes, tz.OffsetMinutes)
			assert.Equal(t, tt.display, tz.String())
		})
	}
}

func TestParseTimezone_Invalid(t *testing.T) {
	invalid := []string{
		"UTC+25",  // out of range
		"-25",     // out of range
		"5:20",    // minutes not a multiple of 15
		"UTC+1:7", // malformed minute part
		"east",    // not an offset at all
		"",
	}

	for _, input := range invalid {
		t.Run(input, func(t *testing.T) {
			_, err := ParseTimezone(input)
			assert.Error(t, err)
		})
	}
}

func TestTimezone_Offset(t *testing.T) {
	tz, err := ParseTimezone("UTC-4")
	require.NoError(t, err)
	assert.Equal(t, -4.0, tz.Offset().Hours())
}
