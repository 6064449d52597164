package games

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/Artemis21/polybots/bot/common"
	"github.com/Artemis21/polybots/service"
)

// Feature handles the /game and /modes commands
type Feature struct {
	gameService   service.GameService
	playerService service.PlayerService
	paginator     *common.Paginator
	modRoleID     int64
}

// NewFeature creates a new games feature instance
func NewFeature(gameService service.GameService, playerService service.PlayerService, paginator *common.Paginator, modRoleID int64) *Feature {
	return &Feature{
		gameService:   gameService,
		playerService: playerService,
		paginator:     paginator,
		modRoleID:     modRoleID,
	}
}

// HandleCommand handles the /game command and its subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Please specify a subcommand")
		return
	}

	switch options[0].Name {
	case "new":
		f.handleNew(s, i, options[0].Options)
	case "join":
		f.handleJoin(s, i, options[0].Options)
	case "leave":
		f.handleLeave(s, i, options[0].Options)
	case "win":
		f.handleWin(s, i, options[0].Options)
	case "info":
		f.handleInfo(s, i, options[0].Options)
	case "list":
		f.handleList(s, i)
	case "reroll":
		f.handleReroll(s, i, options[0].Options)
	case "end":
		f.handleEnd(s, i, options[0].Options)
	case "delete":
		f.handleDelete(s, i, options[0].Options)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
	}
}

// HandleModesCommand handles the /modes command
func (f *Feature) HandleModesCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.RespondWithEmbed(s, i, BuildModesEmbed(), nil, false); err != nil {
		common.RespondWithError(s, i, "Something went wrong, please try again.")
	}
}

func (f *Feature) handleNew(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()
	opts := common.OptionMap(options)

	modeName := opts["mode"].StringValue()
	var roleLockID *int64
	if opt, ok := opts["role"]; ok {
		role := opt.RoleValue(s, i.GuildID)
		if role != nil {
			if id, ok := common.ParseSnowflake(role.ID); ok {
				roleLockID = &id
			}
		}
	}

	guildID, ok := common.ParseSnowflake(i.GuildID)
	if !ok {
		common.RespondWithError(s, i, "This command only works in a server.")
		return
	}

	game, err := f.gameService.Create(ctx, guildID, modeName, roleLockID)
	if err != nil {
		common.RespondServiceError(s, i, err)
		return
	}

	if err := common.RespondWithEmbed(s, i, BuildGameEmbed(game), nil, false); err != nil {
		common.RespondWithError(s, i, "Something went wrong, please try again.")
	}
}

func (f *Feature) handleJoin(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()
	opts := common.OptionMap(options)
	userID := common.UserID(i)

	// Players are registered lazily the first time they interact.
	if _, err := f.playerService.GetOrCreate(ctx, userID, common.DisplayName(i)); err != nil {
		common.RespondServiceError(s, i, err)
		return
	}

	game, err := f.gameService.Join(ctx, opts["id"].StringValue(), userID, common.MemberRoleIDs(i))
	if err != nil {
		common.RespondServiceError(s, i, err)
		return
	}

	if err := common.RespondWithEmbed(s, i, BuildGameEmbed(game), nil, false); err != nil {
		common.RespondWithError(s, i, "Something went wrong, please try again.")
	}
}

func (f *Feature) handleLeave(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()
	opts := common.OptionMap(options)

	game, err := f.gameService.Leave(ctx, opts["id"].StringValue(), common.UserID(i))
	if err != nil {
		common.RespondServiceError(s, i, err)
		return
	}

	_ = common.RespondWithSuccess(s, i, "You left game "+game.String()+".", false)
}

func (f *Feature) handleWin(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()
	opts := common.OptionMap(options)

	gameID := opts["id"].StringValue()
	team := int(opts["team"].IntValue())

	game, err := f.gameService.ClaimWin(ctx, gameID, common.UserID(i), team)
	if err != nil {
		common.RespondServiceError(s, i, err)
		return
	}

	if err := common.RespondWithEmbed(s, i, BuildClaimEmbed(game, team), nil, false); err != nil {
		common.RespondWithError(s, i, "Something went wrong, please try again.")
	}
}

func (f *Feature) handleInfo(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()
	opts := common.OptionMap(options)

	game, err := f.gameService.GetByID(ctx, opts["id"].StringValue())
	if err != nil {
		common.RespondServiceError(s, i, err)
		return
	}

	if err := common.RespondWithEmbed(s, i, BuildGameEmbed(game), nil, false); err != nil {
		common.RespondWithError(s, i, "Something went wrong, please try again.")
	}
}

func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, ok := common.ParseSnowflake(i.GuildID)
	if !ok {
		common.RespondWithError(s, i, "This command only works in a server.")
		return
	}

	games, err := f.gameService.ListActive(ctx, guildID)
	if err != nil {
		common.RespondServiceError(s, i, err)
		return
	}

	pages := BuildGameListPages(games)
	var components []discordgo.MessageComponent
	if len(pages) > 1 {
		components = f.paginator.Components(false)
	}
	if err := common.RespondWithEmbed(s, i, pages[0], components, false); err != nil {
		common.RespondWithError(s, i, "Something went wrong, please try again.")
		return
	}

	if message, err := s.InteractionResponse(i.Interaction); err == nil {
		f.paginator.Track(message.ID, pages)
	}
}

func (f *Feature) handleReroll(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()
	opts := common.OptionMap(options)

	game, err := f.gameService.Reroll(ctx, opts["id"].StringValue())
	if err != nil {
		common.RespondServiceError(s, i, err)
		return
	}

	if err := common.RespondWithEmbed(s, i, BuildModifiersEmbed(game), nil, false); err != nil {
		common.RespondWithError(s, i, "Something went wrong, please try again.")
	}
}

func (f *Feature) handleEnd(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if !common.IsMod(i, f.modRoleID) {
		common.RespondWithError(s, i, "Only mods can force-end games.")
		return
	}

	ctx := context.Background()
	opts := common.OptionMap(options)

	game, err := f.gameService.ForceEnd(ctx, opts["id"].StringValue(), int(opts["team"].IntValue()))
	if err != nil {
		common.RespondServiceError(s, i, err)
		return
	}

	if err := common.RespondWithEmbed(s, i, BuildGameEmbed(game), nil, false); err != nil {
		common.RespondWithError(s, i, "Something went wrong, please try again.")
	}
}

func (f *Feature) handleDelete(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if !common.IsMod(i, f.modRoleID) {
		common.RespondWithError(s, i, "Only mods can delete games.")
		return
	}

	ctx := context.Background()
	opts := common.OptionMap(options)
	gameID := opts["id"].StringValue()

	if err := f.gameService.Delete(ctx, gameID); err != nil {
		common.RespondServiceError(s, i, err)
		return
	}

	_ = common.RespondWithSuccess(s, i, "Game "+gameID+" deleted.", false)
}
