package games

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/Artemis21/polybots/bot/common"
	"github.com/Artemis21/polybots/models"
)

const gamesPerPage = 8

// BuildGameEmbed builds the main embed for a single game
func BuildGameEmbed(game *models.Game) *discordgo.MessageEmbed {
	mode := game.Mode()

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Game %s", game.String()),
		Description: mode.Describe(),
		Color:       statusColor(game.Status),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Status",
				Value:  statusLabel(game),
				Inline: true,
			},
			{
				Name:   "Players",
				Value:  fmt.Sprintf("%d/%d", len(game.Roster), game.Capacity()),
				Inline: true,
			},
		},
	}

	if game.RoleLockID != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Restricted to",
			Value:  common.RoleMention(*game.RoleLockID),
			Inline: true,
		})
	}

	for n, team := range game.Teams() {
		if len(team) == 0 {
			continue
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   teamLabel(game, n+1),
			Value:  rosterLines(team),
			Inline: mode.TeamSize == 1,
		})
	}

	if len(game.Modifiers) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Modifiers",
			Value: strings.Join(game.Modifiers, "\n"),
		})
	}

	return embed
}

// BuildModifiersEmbed shows only a game's current modifiers, used after a
// reroll so the channel isn't flooded with full game embeds
func BuildModifiersEmbed(game *models.Game) *discordgo.MessageEmbed {
	value := "None"
	if len(game.Modifiers) > 0 {
		value = strings.Join(game.Modifiers, "\n")
	}
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("New modifiers for %s", game.String()),
		Description: value,
		Color:       common.ColorPrimary,
	}
}

// BuildClaimEmbed is the response to a win report. If the report resolved
// the game it announces the winners, otherwise it shows claim progress.
func BuildClaimEmbed(game *models.Game, team int) *discordgo.MessageEmbed {
	if game.Status == models.GameStatusEnded {
		return BuildResultEmbed(game)
	}
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Win reported for %s", game.String()),
		Description: fmt.Sprintf(
			"Recorded a win claim for %s. The game ends once %d players report the same result.",
			teamLabel(game, team), game.ClaimThreshold(),
		),
		Color: common.ColorWarning,
	}
}

// BuildResultEmbed announces a finished game's outcome
func BuildResultEmbed(game *models.Game) *discordgo.MessageEmbed {
	var winners []int64
	for _, p := range game.Roster {
		if p.Won {
			winners = append(winners, p.DiscordID)
		}
	}

	description := "The game ended without a winner."
	if len(winners) > 0 {
		description = fmt.Sprintf("%s wins! Congratulations %s.",
			teamLabel(game, game.WinnerTeam), common.MentionList(winners))
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Game %s is over", game.String()),
		Description: description,
		Color:       common.ColorSuccess,
	}
}

// BuildGameListPages splits the active games of a guild into list pages
func BuildGameListPages(games []*models.Game) []*discordgo.MessageEmbed {
	if len(games) == 0 {
		return []*discordgo.MessageEmbed{{
			Title:       "Active games",
			Description: "No games are currently running. Start one with `/game new`!",
			Color:       common.ColorPrimary,
		}}
	}

	var pages []*discordgo.MessageEmbed
	for start := 0; start < len(games); start += gamesPerPage {
		end := start + gamesPerPage
		if end > len(games) {
			end = len(games)
		}

		var lines []string
		for _, game := range games[start:end] {
			lines = append(lines, fmt.Sprintf("`%s` %s (%d/%d players)",
				game.ID, statusLabel(game), len(game.Roster), game.Capacity()))
		}

		pages = append(pages, &discordgo.MessageEmbed{
			Title:       "Active games",
			Description: strings.Join(lines, "\n"),
			Color:       common.ColorPrimary,
		})
	}
	return pages
}

// BuildModesEmbed lists every available game mode
func BuildModesEmbed() *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Game modes",
		Color: common.ColorPrimary,
	}
	for i := range models.Modes {
		mode := &models.Modes[i]
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  mode.Name,
			Value: mode.Describe(),
		})
	}
	return embed
}

func statusColor(status models.GameStatus) int {
	switch status {
	case models.GameStatusOpen:
		return common.ColorPrimary
	case models.GameStatusInProgress:
		return common.ColorWarning
	default:
		return common.ColorSuccess
	}
}

func statusLabel(game *models.Game) string {
	switch game.Status {
	case models.GameStatusOpen:
		return "Waiting for players"
	case models.GameStatusInProgress:
		return "In progress"
	default:
		if game.WinnerTeam > 0 {
			return fmt.Sprintf("Ended, team %d won", game.WinnerTeam)
		}
		return "Ended"
	}
}

// teamLabel names a team for display. FFA modes show the single player's
// mention instead of a team number.
func teamLabel(game *models.Game, team int) string {
	mode := game.Mode()
	if mode.TeamSize == 1 {
		teams := game.Teams()
		if team >= 1 && team <= len(teams) && len(teams[team-1]) == 1 {
			return common.Mention(teams[team-1][0].DiscordID)
		}
	}
	return fmt.Sprintf("Team %d", team)
}

func rosterLines(team []*models.GamePlayer) string {
	var lines []string
	for _, p := range team {
		lines = append(lines, common.Mention(p.DiscordID))
	}
	return strings.Join(lines, "\n")
}
