package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierForPoints(t *testing.T) {
	tests := []struct {
		points    int
		tier      int
		remaining int
	}{
		{0, 1, 0},
		{-3, 1, 0},
		{24, 1, 24},
		{25, 2, 0},
		{30, 2, 5},
		{54, 2, 29},
		{55, 3, 0},
		{100, 3, 45}, // tier 3 has no threshold, points accumulate
	}

	for _, tt := range tests {
		tier, remaining := TierForPoints(tt.points)
		assert.Equal(t, tt.tier, tier, "points=%d", tt.points)
		assert.Equal(t, tt.remaining, remaining, "points=%d", tt.points)
	}
}

func TestMode_Describe(t *testing.T) {
	assert.Equal(t,
		"One modifier per game, two teams of three. Win: eight points; loss: five points.",
		ParseMode("skirmish3").Describe(),
	)
	assert.Equal(t,
		"Two modifiers per game, 1v1. Win: six points; loss: four points.",
		ParseMode("double").Describe(),
	)
	assert.Equal(t,
		"One modifier per round, six player FFA. Win: nine points; loss: two points.",
		ParseMode("scramble6").Describe(),
	)
}

func TestParseMode(t *testing.T) {
	assert.Nil(t, ParseMode("nosuchmode"))
	assert.NotNil(t, ParseMode("Regular"))
	assert.Equal(t, 10, ParseMode("rumble4").WinPoints)
}
