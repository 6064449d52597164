package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/Artemis21/polybots/bot/common"
	"github.com/Artemis21/polybots/models"
)

// handleAboutCommand handles the /about command
func (b *Bot) handleAboutCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	embed := &discordgo.MessageEmbed{
		Title: "polybots",
		Description: "Tournament arena bot: create games, report wins, climb the " +
			"tiers and bet on matches. Start with `/game new` or see `/modes` for " +
			"the available game modes.",
		Color: common.ColorPrimary,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Game modes",
				Value:  fmt.Sprintf("%d", len(models.Modes)),
				Inline: true,
			},
			{
				Name:   "Servers",
				Value:  fmt.Sprintf("%d", len(s.State.Guilds)),
				Inline: true,
			},
		},
	}

	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		common.RespondWithError(s, i, "Something went wrong, please try again.")
	}
}
