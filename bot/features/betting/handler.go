package betting

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/Artemis21/polybots/bot/common"
	"github.com/Artemis21/polybots/models"
	"github.com/Artemis21/polybots/service"
)

// Feature handles the /bet command
type Feature struct {
	bettingService service.BettingService
	modRoleID      int64
}

// NewFeature creates a new betting feature instance
func NewFeature(bettingService service.BettingService, modRoleID int64) *Feature {
	return &Feature{
		bettingService: bettingService,
		modRoleID:      modRoleID,
	}
}

// HandleCommand handles the /bet command and its subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Please specify a subcommand")
		return
	}

	switch options[0].Name {
	case "place":
		f.handlePlace(s, i, options[0].Options)
	case "list":
		f.handleList(s, i, options[0].Options)
	case "lock":
		f.handleLock(s, i, options[0].Options)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
	}
}

func (f *Feature) handlePlace(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()
	opts := common.OptionMap(options)

	gameID := opts["id"].StringValue()
	team := int(opts["team"].IntValue())
	amount := opts["amount"].IntValue()

	bet, err := f.bettingService.PlaceBet(ctx, gameID, common.UserID(i), team, amount)
	if err != nil {
		common.RespondServiceError(s, i, err)
		return
	}

	_ = common.RespondWithSuccess(s, i, fmt.Sprintf(
		"Bet %s on team %d of game %s. Payout if they win: %s.",
		common.FormatNumber(bet.Amount), bet.Team, gameID,
		common.FormatNumber(bet.Payout())), false)
}

func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()
	opts := common.OptionMap(options)
	gameID := opts["id"].StringValue()

	bets, err := f.bettingService.ListBets(ctx, gameID)
	if err != nil {
		common.RespondServiceError(s, i, err)
		return
	}

	if err := common.RespondWithEmbed(s, i, buildBetsEmbed(gameID, bets), nil, false); err != nil {
		common.RespondWithError(s, i, "Something went wrong, please try again.")
	}
}

func (f *Feature) handleLock(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if !common.IsMod(i, f.modRoleID) {
		common.RespondWithError(s, i, "Only mods can lock betting.")
		return
	}

	ctx := context.Background()
	opts := common.OptionMap(options)
	gameID := opts["id"].StringValue()

	if err := f.bettingService.LockBets(ctx, gameID); err != nil {
		common.RespondServiceError(s, i, err)
		return
	}

	_ = common.RespondWithSuccess(s, i, "Betting on game "+gameID+" is now closed.", false)
}

func buildBetsEmbed(gameID string, bets []*models.Bet) *discordgo.MessageEmbed {
	if len(bets) == 0 {
		return &discordgo.MessageEmbed{
			Title:       "Bets on " + gameID,
			Description: "No bets have been placed on this game.",
			Color:       common.ColorPrimary,
		}
	}

	var lines []string
	var pot int64
	for _, bet := range bets {
		lines = append(lines, fmt.Sprintf("%s staked %s on team %d%s",
			common.Mention(bet.DiscordID), common.FormatNumber(bet.Amount),
			bet.Team, betStateSuffix(bet.State)))
		pot += bet.Amount
	}

	return &discordgo.MessageEmbed{
		Title:       "Bets on " + gameID,
		Description: strings.Join(lines, "\n"),
		Color:       common.ColorPrimary,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Total staked: %s", common.FormatNumber(pot)),
		},
	}
}

func betStateSuffix(state models.BetState) string {
	switch state {
	case models.BetStateWon:
		return " (won)"
	case models.BetStateLost:
		return " (lost)"
	case models.BetStatePayoutFailed:
		return " (won, payout pending)"
	default:
		return ""
	}
}
