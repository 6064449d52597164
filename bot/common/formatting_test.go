package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-1234, "-1,234"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatNumber(tt.input))
	}
}

func TestMentions(t *testing.T) {
	assert.Equal(t, "<@42>", Mention(42))
	assert.Equal(t, "<@&99>", RoleMention(99))
	assert.Equal(t, "<@1>, <@2>", MentionList([]int64{1, 2}))
}

func TestFormatDiscordTimestamp(t *testing.T) {
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "<t:1717243200:R>", FormatDiscordTimestamp(at, "R"))
}
