package players

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/Artemis21/polybots/bot/common"
	"github.com/Artemis21/polybots/service"
)

const leaderboardLimit = 100

// Feature handles the /profile, /leaderboard and /points commands
type Feature struct {
	playerService service.PlayerService
	paginator     *common.Paginator
	modRoleID     int64
}

// NewFeature creates a new players feature instance
func NewFeature(playerService service.PlayerService, paginator *common.Paginator, modRoleID int64) *Feature {
	return &Feature{
		playerService: playerService,
		paginator:     paginator,
		modRoleID:     modRoleID,
	}
}

// HandleCommand handles the /profile command and its subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Please specify a subcommand")
		return
	}

	switch options[0].Name {
	case "view":
		f.handleView(s, i, options[0].Options)
	case "name":
		f.handleName(s, i, options[0].Options)
	case "friendcode":
		f.handleFriendCode(s, i, options[0].Options)
	case "timezone":
		f.handleTimezone(s, i, options[0].Options)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
	}
}

// HandleLeaderboardCommand handles the /leaderboard command
func (f *Feature) HandleLeaderboardCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	entries, err := f.playerService.Leaderboard(ctx, leaderboardLimit)
	if err != nil {
		common.RespondServiceError(s, i, err)
		return
	}

	pages := BuildLeaderboardPages(entries)
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

// HandlePointsCommand handles the /points command (mod only)
func (f *Feature) HandlePointsCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 || options[0].Name != "give" {
		common.RespondWithError(s, i, "Unknown subcommand")
		return
	}

	if !common.IsMod(i, f.modRoleID) {
		common.RespondWithError(s, i, "Only mods can adjust points.")
		return
	}

	ctx := context.Background()
	opts := common.OptionMap(options[0].Options)

	user := opts["user"].UserValue(s)
	if user == nil {
		common.RespondWithError(s, i, "Unknown user.")
		return
	}
	userID, ok := common.ParseSnowflake(user.ID)
	if !ok {
		common.RespondWithError(s, i, "Unknown user.")
		return
	}
	guildID, ok := common.ParseSnowflake(i.GuildID)
	if !ok {
		common.RespondWithError(s, i, "This command only works in a server.")
		return
	}

	delta := int(opts["amount"].IntValue())

	player, err := f.playerService.GivePoints(ctx, guildID, userID, delta)
	if err != nil {
		common.RespondServiceError(s, i, err)
		return
	}

	_ = common.RespondWithSuccess(s, i, common.Mention(userID)+" now has "+
		common.FormatNumber(int64(player.Points))+" points (tier "+
		common.FormatNumber(int64(player.Tier))+").", false)
}

func (f *Feature) handleView(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()
	opts := common.OptionMap(options)

	targetID := common.UserID(i)
	if opt, ok := opts["user"]; ok {
		user := opt.UserValue(s)
		if user != nil {
			if id, ok := common.ParseSnowflake(user.ID); ok {
				targetID = id
			}
		}
	} else {
		// Viewing your own profile registers you if needed.
		if _, err := f.playerService.GetOrCreate(ctx, targetID, common.DisplayName(i)); err != nil {
			common.RespondServiceError(s, i, err)
			return
		}
	}

	player, stats, err := f.playerService.Profile(ctx, targetID)
	if err != nil {
		common.RespondServiceError(s, i, err)
		return
	}

	if err := common.RespondWithEmbed(s, i, BuildProfileEmbed(player, stats), nil, false); err != nil {
		common.RespondWithError(s, i, "Something went wrong, please try again.")
	}
}

func (f *Feature) handleName(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()
	opts := common.OptionMap(options)
	userID := common.UserID(i)

	if _, err := f.playerService.GetOrCreate(ctx, userID, common.DisplayName(i)); err != nil {
		common.RespondServiceError(s, i, err)
		return
	}

	name := opts["name"].StringValue()
	if err := f.playerService.SetName(ctx, userID, name); err != nil {
		common.RespondServiceError(s, i, err)
		return
	}

	_ = common.RespondWithSuccess(s, i, "In-game name set to **"+name+"**.", true)
}

func (f *Feature) handleFriendCode(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()
	opts := common.OptionMap(options)
	userID := common.UserID(i)

	if _, err := f.playerService.GetOrCreate(ctx, userID, common.DisplayName(i)); err != nil {
		common.RespondServiceError(s, i, err)
		return
	}

	if err := f.playerService.SetFriendCode(ctx, userID, opts["code"].StringValue()); err != nil {
		common.RespondServiceError(s, i, err)
		return
	}

	_ = common.RespondWithSuccess(s, i, "Friend code saved.", true)
}

func (f *Feature) handleTimezone(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()
	opts := common.OptionMap(options)
	userID := common.UserID(i)

	if _, err := f.playerService.GetOrCreate(ctx, userID, common.DisplayName(i)); err != nil {
		common.RespondServiceError(s, i, err)
		return
	}

	tz, err := f.playerService.SetTimezone(ctx, userID, opts["offset"].StringValue())
	if err != nil {
		common.RespondServiceError(s, i, err)
		return
	}

	_ = common.RespondWithSuccess(s, i, "Timezone set to **"+tz.String()+"**.", true)
}
