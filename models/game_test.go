package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGameID(t *testing.T) {
	// 36^5 = 60466176, which encodes as "10000" followed by a digit.
	id := NewGameID(time.Unix(60466176, 0))
	assert.Equal(t, "100000", id)

	// IDs for later times sort later at equal length.
	earlier := NewGameID(time.Unix(1700000000, 0))
	later := NewGameID(time.Unix(1700000001, 0))
	assert.NotEqual(t, earlier, later)
	assert.Len(t, earlier, len(later))
	assert.Less(t, earlier, later)
}

func testGame(mode string, playerIDs ...int64) *Game {
	g := &Game{
		ID:          "abc123",
		GuildID:     1,
		ModeName:    mode,
		Status:      GameStatusOpen,
		BettingOpen: true,
	}
	for i, id := range playerIDs {
		g.Roster = append(g.Roster, &GamePlayer{
			GameID:    g.ID,
			DiscordID: id,
			Position:  i,
		})
	}
	return g
}

func TestGame_Capacity(t *testing.T) {
	assert.Equal(t, 2, testGame("regular").Capacity())
	assert.Equal(t, 6, testGame("skirmish3").Capacity())
	assert.Equal(t, 8, testGame("rumble8").Capacity())
}

func TestGame_Teams(t *testing.T) {
	g := testGame("skirmish3", 1, 2, 3, 4, 5, 6)
	teams := g.Teams()
	require.Len(t, teams, 2)
	assert.Equal(t, int64(1), teams[0][0].DiscordID)
	assert.Equal(t, int64(3), teams[0][2].DiscordID)
	assert.Equal(t, int64(4), teams[1][0].DiscordID)

	assert.Equal(t, 1, g.TeamOf(2))
	assert.Equal(t, 2, g.TeamOf(6))
	assert.Equal(t, 0, g.TeamOf(99))
}

func TestGame_Teams_PartialRoster(t *testing.T) {
	g := testGame("skirmish3", 1, 2, 3, 4)
	teams := g.Teams()
	require.Len(t, teams, 2)
	assert.Len(t, teams[0], 3)
	assert.Len(t, teams[1], 1)
	assert.False(t, g.IsFull())
}

func TestGame_ClaimThreshold(t *testing.T) {
	// Majority of the roster: floor(n/2) + 1.
	assert.Equal(t, 2, testGame("regular", 1, 2).ClaimThreshold())
	assert.Equal(t, 4, testGame("skirmish3", 1, 2, 3, 4, 5, 6).ClaimThreshold())
	assert.Equal(t, 2, testGame("scramble3", 1, 2, 3).ClaimThreshold())
}

func TestGame_ChannelName(t *testing.T) {
	g := testGame("skirmish3")
	assert.Equal(t, "skirmish3-abc123", g.ChannelName())
	assert.Equal(t, "skirmish3-abc123", g.String())
}
