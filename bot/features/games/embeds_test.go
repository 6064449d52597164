package games

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Artemis21/polybots/models"
)

func testGame(mode string, playerIDs ...int64) *models.Game {
	game := &models.Game{
		ID:       "abc123",
		GuildID:  100,
		ModeName: mode,
		Status:   models.GameStatusOpen,
	}
	for i, id := range playerIDs {
		game.Roster = append(game.Roster, &models.GamePlayer{
			GameID:    game.ID,
			DiscordID: id,
			Position:  i,
		})
	}
	return game
}

func TestBuildGameEmbed(t *testing.T) {
	t.Run("shows roster by team", func(t *testing.T) {
		game := testGame("skirmish3", 1, 2, 3, 4)
		game.Status = models.GameStatusInProgress

		embed := BuildGameEmbed(game)

		assert.Equal(t, "Game skirmish3-abc123", embed.Title)

		var names []string
		for _, field := range embed.Fields {
			names = append(names, field.Name)
		}
		assert.Contains(t, names, "Team 1")
		assert.Contains(t, names, "Team 2")
	})

	t.Run("shows role lock", func(t *testing.T) {
		roleID := int64(555)
		game := testGame("regular", 1)
		game.RoleLockID = &roleID

		embed := BuildGameEmbed(game)

		var found bool
		for _, field := range embed.Fields {
			if field.Name == "Restricted to" {
				found = true
				assert.Equal(t, "<@&555>", field.Value)
			}
		}
		assert.True(t, found)
	})

	t.Run("shows modifiers", func(t *testing.T) {
		game := testGame("regular", 1, 2)
		game.Modifiers = []string{"**Fog**: no map vision"}

		embed := BuildGameEmbed(game)

		last := embed.Fields[len(embed.Fields)-1]
		assert.Equal(t, "Modifiers", last.Name)
		assert.Contains(t, last.Value, "Fog")
	})
}

func TestBuildClaimEmbed(t *testing.T) {
	t.Run("shows progress while unresolved", func(t *testing.T) {
		game := testGame("skirmish3", 1, 2, 3, 4, 5, 6)
		game.Status = models.GameStatusInProgress

		embed := BuildClaimEmbed(game, 1)

		assert.Contains(t, embed.Description, "4 players")
	})

	t.Run("announces winners once resolved", func(t *testing.T) {
		game := testGame("regular", 1, 2)
		game.Status = models.GameStatusEnded
		game.WinnerTeam = 2
		game.Roster[1].Won = true
		game.Roster[0].Lost = true

		embed := BuildClaimEmbed(game, 2)

		assert.Contains(t, embed.Description, "<@2>")
	})
}

func TestBuildGameListPages(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		pages := BuildGameListPages(nil)

		require.Len(t, pages, 1)
		assert.Contains(t, pages[0].Description, "No games")
	})

	t.Run("splits into pages", func(t *testing.T) {
		var games []*models.Game
		for i := 0; i < gamesPerPage+1; i++ {
			games = append(games, testGame("regular", 1))
		}

		pages := BuildGameListPages(games)

		assert.Len(t, pages, 2)
	})
}

func TestBuildModesEmbed(t *testing.T) {
	embed := BuildModesEmbed()

	require.Len(t, embed.Fields, len(models.Modes))
	assert.Equal(t, "regular", embed.Fields[0].Name)
}

func TestTeamLabel(t *testing.T) {
	t.Run("ffa modes use mentions", func(t *testing.T) {
		game := testGame("rumble4", 1, 2, 3, 4)
		assert.Equal(t, "<@3>", teamLabel(game, 3))
	})

	t.Run("team modes use numbers", func(t *testing.T) {
		game := testGame("skirmish3", 1, 2, 3, 4, 5, 6)
		assert.Equal(t, "Team 2", teamLabel(game, 2))
	})
}
