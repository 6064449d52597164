package players

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Artemis21/polybots/models"
)

func TestBuildProfileEmbed(t *testing.T) {
	code := "abcd1234abcd1234"
	offset := -240
	player := &models.Player{
		DiscordID:      1,
		DisplayName:    "alice",
		FriendCode:     &code,
		TimezoneOffset: &offset,
		Points:         27,
		Tier:           2,
	}
	stats := &models.PlayerStats{Wins: 3, Losses: 1, InProgress: 1}

	embed := BuildProfileEmbed(player, stats)

	assert.Equal(t, "alice", embed.Title)

	values := make(map[string]string)
	for _, field := range embed.Fields {
		values[field.Name] = field.Value
	}
	// 27 points = tier 2 with 2 of 30 towards tier 3.
	assert.Equal(t, "2 (2/30 to next)", values["Tier"])
	assert.Equal(t, "3W / 1L", values["Record"])
	assert.Equal(t, "`abcd1234abcd1234`", values["Friend code"])
	assert.Equal(t, "UTC-4", values["Timezone"])
}

func TestBuildLeaderboardPages(t *testing.T) {
	t.Run("empty leaderboard", func(t *testing.T) {
		pages := BuildLeaderboardPages(nil)

		require.Len(t, pages, 1)
		assert.Contains(t, pages[0].Description, "Nobody")
	})

	t.Run("medals for the top three", func(t *testing.T) {
		entries := []*models.LeaderboardEntry{
			{DiscordID: 1, DisplayName: "alice", Points: 50, Tier: 2, Rank: 1},
			{DiscordID: 2, DisplayName: "bob", Points: 40, Tier: 2, Rank: 2},
			{DiscordID: 3, DisplayName: "carol", Points: 30, Tier: 2, Rank: 3},
			{DiscordID: 4, DisplayName: "dave", Points: 20, Tier: 1, Rank: 4},
		}

		pages := BuildLeaderboardPages(entries)

		require.Len(t, pages, 1)
		assert.Contains(t, pages[0].Description, "🥇 **alice**")
		assert.Contains(t, pages[0].Description, "`#4` **dave**")
	})

	t.Run("splits into pages", func(t *testing.T) {
		var entries []*models.LeaderboardEntry
		for i := 0; i < entriesPerPage+1; i++ {
			entries = append(entries, &models.LeaderboardEntry{
				DiscordID:   int64(i),
				DisplayName: "player",
				Rank:        int64(i + 1),
			})
		}

		pages := BuildLeaderboardPages(entries)

		assert.Len(t, pages, 2)
	})
}
