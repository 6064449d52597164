package bot

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"github.com/Artemis21/polybots/bot/common"
	"github.com/Artemis21/polybots/bot/features/games"
	"github.com/Artemis21/polybots/events"
)

// registerSubscriptions wires the Discord side effects of domain events:
// announcements, game channel provisioning and tier role updates.
func (b *Bot) registerSubscriptions() {
	b.eventBus.Subscribe(events.EventTypeGameCreated, b.onGameCreated)
	b.eventBus.Subscribe(events.EventTypeGameStarted, b.onGameStarted)
	b.eventBus.Subscribe(events.EventTypeGameEnded, b.onGameEnded)
	b.eventBus.Subscribe(events.EventTypeGameDeleted, b.onGameDeleted)
	b.eventBus.Subscribe(events.EventTypeTierChange, b.onTierChange)
}

func (b *Bot) onGameCreated(ctx context.Context, event events.Event) {
	created, ok := event.(events.GameCreatedEvent)
	if !ok {
		return
	}
	if b.config.AnnounceChannelID == 0 {
		return
	}

	message := fmt.Sprintf("A new **%s** game is open! Join with `/game join id:%s`.",
		created.ModeName, created.GameID)
	if created.RoleLockID != nil {
		message += " Open to " + common.RoleMention(*created.RoleLockID) + " only."
	}

	channelID := strconv.FormatInt(b.config.AnnounceChannelID, 10)
	if _, err := b.session.ChannelMessageSend(channelID, message); err != nil {
		log.WithError(err).WithField("gameID", created.GameID).Error("Failed to announce game")
	}
}

// onGameStarted provisions a text channel for the game under the configured
// category, posts the opening embed there and records the channel on the game.
func (b *Bot) onGameStarted(ctx context.Context, event events.Event) {
	started, ok := event.(events.GameStartedEvent)
	if !ok {
		return
	}

	game, err := b.gameService.GetByID(ctx, started.GameID)
	if err != nil {
		log.WithError(err).WithField("gameID", started.GameID).Error("Failed to load started game")
		return
	}

	guildID := strconv.FormatInt(started.GuildID, 10)
	create := discordgo.GuildChannelCreateData{
		Name:                 game.ChannelName(),
		Type:                 discordgo.ChannelTypeGuildText,
		PermissionOverwrites: gameChannelOverwrites(guildID, started.PlayerIDs),
	}
	if b.config.GameCategoryID != 0 {
		create.ParentID = strconv.FormatInt(b.config.GameCategoryID, 10)
	}

	channel, err := b.session.GuildChannelCreateComplex(guildID, create)
	if err != nil {
		log.WithError(err).WithField("gameID", started.GameID).Error("Failed to create game channel")
		return
	}

	channelID, _ := strconv.ParseInt(channel.ID, 10, 64)
	if err := b.gameService.SetChannel(ctx, started.GameID, channelID); err != nil {
		log.WithError(err).WithField("gameID", started.GameID).Error("Failed to record game channel")
	}

	_, err = b.session.ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{
		Content: "The game is starting! " + common.MentionList(started.PlayerIDs),
		Embeds:  []*discordgo.MessageEmbed{games.BuildGameEmbed(game)},
	})
	if err != nil {
		log.WithError(err).WithField("gameID", started.GameID).Error("Failed to post game start message")
	}
}

func (b *Bot) onGameEnded(ctx context.Context, event events.Event) {
	ended, ok := event.(events.GameEndedEvent)
	if !ok {
		return
	}

	game, err := b.gameService.GetByID(ctx, ended.GameID)
	if err != nil {
		log.WithError(err).WithField("gameID", ended.GameID).Error("Failed to load ended game")
	} else if b.config.AnnounceChannelID != 0 {
		channelID := strconv.FormatInt(b.config.AnnounceChannelID, 10)
		_, err := b.session.ChannelMessageSendEmbed(channelID, games.BuildResultEmbed(game))
		if err != nil {
			log.WithError(err).WithField("gameID", ended.GameID).Error("Failed to announce result")
		}
	}

	b.deleteGameChannel(ended.GameID, ended.ChannelID)
}

func (b *Bot) onGameDeleted(ctx context.Context, event events.Event) {
	deleted, ok := event.(events.GameDeletedEvent)
	if !ok {
		return
	}
	b.deleteGameChannel(deleted.GameID, deleted.ChannelID)
}

// onTierChange swaps the configured tier roles when a player moves tiers
func (b *Bot) onTierChange(ctx context.Context, event events.Event) {
	change, ok := event.(events.TierChangeEvent)
	if !ok {
		return
	}

	guildID := strconv.FormatInt(change.GuildID, 10)
	userID := strconv.FormatInt(change.DiscordID, 10)

	if oldRole, ok := b.config.TierRoles[change.OldTier]; ok {
		roleID := strconv.FormatInt(oldRole, 10)
		if err := b.session.GuildMemberRoleRemove(guildID, userID, roleID); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"discordID": change.DiscordID,
				"tier":      change.OldTier,
			}).Warn("Failed to remove old tier role")
		}
	}
	if newRole, ok := b.config.TierRoles[change.NewTier]; ok {
		roleID := strconv.FormatInt(newRole, 10)
		if err := b.session.GuildMemberRoleAdd(guildID, userID, roleID); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"discordID": change.DiscordID,
				"tier":      change.NewTier,
			}).Warn("Failed to add new tier role")
		}
	}

	log.WithFields(log.Fields{
		"discordID": change.DiscordID,
		"oldTier":   change.OldTier,
		"newTier":   change.NewTier,
	}).Info("Player changed tier")
}

// gameChannelOverwrites makes the game channel read-only for everyone but
// the roster. The everyone role shares the guild's ID.
func gameChannelOverwrites(guildID string, playerIDs []int64) []*discordgo.PermissionOverwrite {
	overwrites := []*discordgo.PermissionOverwrite{
		{
			ID:   guildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionSendMessages,
		},
	}
	for _, id := range playerIDs {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    strconv.FormatInt(id, 10),
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionSendMessages,
		})
	}
	return overwrites
}

func (b *Bot) deleteGameChannel(gameID string, channelID *int64) {
	if channelID == nil {
		return
	}
	id := strconv.FormatInt(*channelID, 10)
	if _, err := b.session.ChannelDelete(id); err != nil {
		log.WithError(err).WithField("gameID", gameID).Warn("Failed to delete game channel")
	}
}
