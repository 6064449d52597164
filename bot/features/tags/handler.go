package tags

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/Artemis21/polybots/bot/common"
	"github.com/Artemis21/polybots/models"
	"github.com/Artemis21/polybots/service"
)

// Feature handles the /tag command
type Feature struct {
	tagService service.TagService
	modRoleID  int64
}

// NewFeature creates a new tags feature instance
func NewFeature(tagService service.TagService, modRoleID int64) *Feature {
	return &Feature{
		tagService: tagService,
		modRoleID:  modRoleID,
	}
}

// HandleCommand handles the /tag command and its subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Please specify a subcommand")
		return
	}

	switch options[0].Name {
	case "show":
		f.handleShow(s, i, options[0].Options)
	case "create":
		f.handleCreate(s, i, options[0].Options)
	case "edit":
		f.handleEdit(s, i, options[0].Options)
	case "delete":
		f.handleDelete(s, i, options[0].Options)
	case "list":
		f.handleList(s, i)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
	}
}

func (f *Feature) handleShow(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()
	opts := common.OptionMap(options)

	tag, err := f.tagService.Show(ctx, opts["name"].StringValue())
	if err != nil {
		common.RespondServiceError(s, i, err)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       tag.String(),
		Description: tag.Content,
		Color:       common.ColorPrimary,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Used %d times", tag.Uses),
		},
	}
	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		common.RespondWithError(s, i, "Something went wrong, please try again.")
	}
}

func (f *Feature) handleCreate(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if !common.IsMod(i, f.modRoleID) {
		common.RespondWithError(s, i, "Only mods can manage tags.")
		return
	}

	ctx := context.Background()
	opts := common.OptionMap(options)

	names := strings.Split(opts["names"].StringValue(), ",")
	tag, err := f.tagService.Create(ctx, names, opts["content"].StringValue())
	if err != nil {
		common.RespondServiceError(s, i, err)
		return
	}

	_ = common.RespondWithSuccess(s, i, "Tag **"+tag.String()+"** created.", false)
}

func (f *Feature) handleEdit(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if !common.IsMod(i, f.modRoleID) {
		common.RespondWithError(s, i, "Only mods can manage tags.")
		return
	}

	ctx := context.Background()
	opts := common.OptionMap(options)
	name := opts["name"].StringValue()

	if err := f.tagService.Edit(ctx, name, opts["content"].StringValue()); err != nil {
		common.RespondServiceError(s, i, err)
		return
	}

	_ = common.RespondWithSuccess(s, i, "Tag **"+name+"** updated.", false)
}

func (f *Feature) handleDelete(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if !common.IsMod(i, f.modRoleID) {
		common.RespondWithError(s, i, "Only mods can manage tags.")
		return
	}

	ctx := context.Background()
	opts := common.OptionMap(options)
	name := opts["name"].StringValue()

	if err := f.tagService.Delete(ctx, name); err != nil {
		common.RespondServiceError(s, i, err)
		return
	}

	_ = common.RespondWithSuccess(s, i, "Tag **"+name+"** deleted.", false)
}

func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	tags, err := f.tagService.List(ctx)
	if err != nil {
		common.RespondServiceError(s, i, err)
		return
	}

	if err := common.RespondWithEmbed(s, i, buildTagListEmbed(tags), nil, false); err != nil {
		common.RespondWithError(s, i, "Something went wrong, please try again.")
	}
}

func buildTagListEmbed(tags []*models.Tag) *discordgo.MessageEmbed {
	if len(tags) == 0 {
		return &discordgo.MessageEmbed{
			Title:       "Tags",
			Description: "No tags created yet.",
			Color:       common.ColorPrimary,
		}
	}

	var lines []string
	for _, tag := range tags {
		line := "`" + tag.String() + "`"
		if len(tag.Names) > 1 {
			line += " (also: " + strings.Join(tag.Names[1:], ", ") + ")"
		}
		lines = append(lines, line)
	}

	return &discordgo.MessageEmbed{
		Title:       "Tags",
		Description: strings.Join(lines, "\n"),
		Color:       common.ColorPrimary,
	}
}
