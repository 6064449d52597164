package common

import (
	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"github.com/Artemis21/polybots/service"
)

// RespondServiceError replies to a failed service call. Rule violations
// are shown to the user verbatim; anything else is logged and replaced by
// a generic message.
func RespondServiceError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	if ruleErr := service.AsRuleError(err); ruleErr != nil {
		RespondWithError(s, i, ruleErr.Message)
		return
	}

	log.WithError(err).WithField("command", commandName(i)).Error("Command failed")
	RespondWithError(s, i, "Something went wrong, please try again.")
}

func commandName(i *discordgo.InteractionCreate) string {
	if i.Type != discordgo.InteractionApplicationCommand {
		return ""
	}
	return i.ApplicationCommandData().Name
}
