package modifiers

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/Artemis21/polybots/bot/common"
	"github.com/Artemis21/polybots/models"
	"github.com/Artemis21/polybots/service"
)

// Feature handles the /modifier command
type Feature struct {
	modifierService service.ModifierService
	modRoleID       int64
}

// NewFeature creates a new modifiers feature instance
func NewFeature(modifierService service.ModifierService, modRoleID int64) *Feature {
	return &Feature{
		modifierService: modifierService,
		modRoleID:       modRoleID,
	}
}

// HandleCommand handles the /modifier command and its subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Please specify a subcommand")
		return
	}

	switch options[0].Name {
	case "add":
		f.handleAdd(s, i, options[0].Options)
	case "edit":
		f.handleEdit(s, i, options[0].Options)
	case "remove":
		f.handleRemove(s, i, options[0].Options)
	case "list":
		f.handleList(s, i)
	case "roll":
		f.handleRoll(s, i)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
	}
}

func (f *Feature) handleAdd(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if !common.IsMod(i, f.modRoleID) {
		common.RespondWithError(s, i, "Only mods can manage modifiers.")
		return
	}

	ctx := context.Background()
	opts := common.OptionMap(options)

	turns := 0
	if opt, ok := opts["turns"]; ok {
		turns = int(opt.IntValue())
	}

	modifier, err := f.modifierService.Add(ctx, opts["name"].StringValue(), opts["description"].StringValue(), turns)
	if err != nil {
		common.RespondServiceError(s, i, err)
		return
	}

	_ = common.RespondWithSuccess(s, i, fmt.Sprintf("Added modifier **%s** (#%d).", modifier.Name, modifier.ID), false)
}

func (f *Feature) handleEdit(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if !common.IsMod(i, f.modRoleID) {
		common.RespondWithError(s, i, "Only mods can manage modifiers.")
		return
	}

	ctx := context.Background()
	opts := common.OptionMap(options)

	id := opts["id"].IntValue()
	turns := 0
	if opt, ok := opts["turns"]; ok {
		turns = int(opt.IntValue())
	}

	err := f.modifierService.Edit(ctx, id, opts["name"].StringValue(), opts["description"].StringValue(), turns)
	if err != nil {
		common.RespondServiceError(s, i, err)
		return
	}

	_ = common.RespondWithSuccess(s, i, fmt.Sprintf("Modifier #%d updated.", id), false)
}

func (f *Feature) handleRemove(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	if !common.IsMod(i, f.modRoleID) {
		common.RespondWithError(s, i, "Only mods can manage modifiers.")
		return
	}

	ctx := context.Background()
	opts := common.OptionMap(options)
	id := opts["id"].IntValue()

	if err := f.modifierService.Remove(ctx, id); err != nil {
		common.RespondServiceError(s, i, err)
		return
	}

	_ = common.RespondWithSuccess(s, i, fmt.Sprintf("Modifier #%d removed.", id), false)
}

func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	modifiers, err := f.modifierService.List(ctx)
	if err != nil {
		common.RespondServiceError(s, i, err)
		return
	}

	if err := common.RespondWithEmbed(s, i, buildModifierListEmbed(modifiers), nil, false); err != nil {
		common.RespondWithError(s, i, "Something went wrong, please try again.")
	}
}

func (f *Feature) handleRoll(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	display, err := f.modifierService.Roll(ctx)
	if err != nil {
		common.RespondServiceError(s, i, err)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🎲 Modifier roll",
		Description: display,
		Color:       common.ColorPrimary,
	}
	if err := common.RespondWithEmbed(s, i, embed, nil, false); err != nil {
		common.RespondWithError(s, i, "Something went wrong, please try again.")
	}
}

func buildModifierListEmbed(modifiers []*models.Modifier) *discordgo.MessageEmbed {
	if len(modifiers) == 0 {
		return &discordgo.MessageEmbed{
			Title:       "Modifiers",
			Description: "No modifiers configured yet.",
			Color:       common.ColorPrimary,
		}
	}

	var lines []string
	for _, m := range modifiers {
		lines = append(lines, fmt.Sprintf("`#%d` %s", m.ID, m.Display()))
	}

	return &discordgo.MessageEmbed{
		Title:       "Modifiers",
		Description: strings.Join(lines, "\n"),
		Color:       common.ColorPrimary,
	}
}
