package players

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/Artemis21/polybots/bot/common"
	"github.com/Artemis21/polybots/models"
)

const entriesPerPage = 10

// BuildProfileEmbed builds a player's profile card
func BuildProfileEmbed(player *models.Player, stats *models.PlayerStats) *discordgo.MessageEmbed {
	tier, remaining := models.TierForPoints(player.Points)

	embed := &discordgo.MessageEmbed{
		Title: player.DisplayName,
		Color: common.ColorPrimary,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Tier",
				Value:  tierProgress(tier, remaining),
				Inline: true,
			},
			{
				Name:   "Points",
				Value:  common.FormatNumber(int64(player.Points)),
				Inline: true,
			},
			{
				Name:   "Record",
				Value:  fmt.Sprintf("%dW / %dL", stats.Wins, stats.Losses),
				Inline: true,
			},
		},
	}

	if stats.InProgress > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Playing now",
			Value:  common.FormatNumber(int64(stats.InProgress)),
			Inline: true,
		})
	}
	if player.FriendCode != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Friend code",
			Value:  "`" + *player.FriendCode + "`",
			Inline: true,
		})
	}
	if tz := player.Timezone(); tz != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Timezone",
			Value:  tz.String(),
			Inline: true,
		})
	}

	return embed
}

// BuildLeaderboardPages splits the leaderboard into pages
func BuildLeaderboardPages(entries []*models.LeaderboardEntry) []*discordgo.MessageEmbed {
	if len(entries) == 0 {
		return []*discordgo.MessageEmbed{{
			Title:       "Leaderboard",
			Description: "Nobody has any points yet.",
			Color:       common.ColorPrimary,
		}}
	}

	var pages []*discordgo.MessageEmbed
	for start := 0; start < len(entries); start += entriesPerPage {
		end := start + entriesPerPage
		if end > len(entries) {
			end = len(entries)
		}

		var lines []string
		for _, entry := range entries[start:end] {
			lines = append(lines, fmt.Sprintf("%s **%s** (tier %d) %s points",
				rankMedal(entry.Rank), entry.DisplayName, entry.Tier,
				common.FormatNumber(int64(entry.Points))))
		}

		pages = append(pages, &discordgo.MessageEmbed{
			Title:       "Leaderboard",
			Description: strings.Join(lines, "\n"),
			Color:       common.ColorPrimary,
		})
	}
	return pages
}

func tierProgress(tier, remaining int) string {
	threshold, ok := models.TierThresholds[tier]
	if !ok {
		return fmt.Sprintf("%d (max)", tier)
	}
	return fmt.Sprintf("%d (%d/%d to next)", tier, remaining, threshold)
}

func rankMedal(rank int64) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return fmt.Sprintf("`#%d`", rank)
	}
}
