package testutil

import (
	"time"

	"github.com/Artemis21/polybots/models"
)

// TestTime returns a fixed instant offset by n seconds, for allocating
// distinct time-derived game IDs in tests
func TestTime(n int) time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(n) * time.Second)
}

// CreateTestGame creates an open game in the given mode
func CreateTestGame(id string, guildID int64, mode string) *models.Game {
	return &models.Game{
		ID:          id,
		GuildID:     guildID,
		ModeName:    mode,
		Status:      models.GameStatusOpen,
		Modifiers:   []string{},
		BettingOpen: true,
	}
}

// CreateTestMember creates a roster member for a game
func CreateTestMember(gameID string, discordID int64, position int) *models.GamePlayer {
	return &models.GamePlayer{
		GameID:    gameID,
		DiscordID: discordID,
		Position:  position,
	}
}

// CreateTestModifier creates a modifier with a description
func CreateTestModifier(name string, turns int) *models.Modifier {
	return &models.Modifier{
		Name:        name,
		Description: "test modifier " + name,
		Turns:       turns,
	}
}

// CreateTestTag creates a tag with the given aliases
func CreateTestTag(content string, names ...string) *models.Tag {
	return &models.Tag{
		Names:   names,
		Content: content,
	}
}

// CreateTestBet creates a placed bet
func CreateTestBet(gameID string, discordID int64, team int, amount int64) *models.Bet {
	return &models.Bet{
		GameID:    gameID,
		DiscordID: discordID,
		Team:      team,
		Amount:    amount,
		State:     models.BetStatePlaced,
		CreatedAt: time.Now(),
	}
}
