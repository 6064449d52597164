package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/Artemis21/polybots/events"
	"github.com/Artemis21/polybots/models"
)

var friendCodePattern = regexp.MustCompile(`^[a-zA-Z0-9]{16}$`)

type playerService struct {
	uowFactory UnitOfWorkFactory
}

// NewPlayerService creates a new player service
func NewPlayerService(uowFactory UnitOfWorkFactory) PlayerService {
	return &playerService{
		uowFactory: uowFactory,
	}
}

// GetOrCreate registers a player lazily on first interaction
func (s *playerService) GetOrCreate(ctx context.Context, discordID int64, displayName string) (*models.Player, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	player, err := uow.PlayerRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		player, err = uow.PlayerRepository().Create(ctx, discordID, displayName)
		if err != nil {
			return nil, fmt.Errorf("failed to create player: %w", err)
		}
		log.WithField("user", discordID).Info("Player registered")
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return player, nil
}

// SetFriendCode updates the player's friend code
func (s *playerService) SetFriendCode(ctx context.Context, discordID int64, code string) error {
	code = strings.TrimSpace(code)
	if !friendCodePattern.MatchString(code) {
		return NewRuleError(KindInvalidInput, "friend codes are 16 letters and digits")
	}

	return s.updatePlayer(ctx, discordID, func(player *models.Player) {
		player.FriendCode = &code
	})
}

// SetTimezone parses and stores a UTC offset
func (s *playerService) SetTimezone(ctx context.Context, discordID int64, raw string) (*models.Timezone, error) {
	tz, err := models.ParseTimezone(raw)
	if err != nil {
		return nil, NewRuleError(KindInvalidInput, "%s", err)
	}

	err = s.updatePlayer(ctx, discordID, func(player *models.Player) {
		offset := tz.OffsetMinutes
		player.TimezoneOffset = &offset
	})
	if err != nil {
		return nil, err
	}
	return &tz, nil
}

// SetName updates the player's display name
func (s *playerService) SetName(ctx context.Context, discordID int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 32 {
		return NewRuleError(KindInvalidInput, "names must be 1 to 32 characters")
	}

	return s.updatePlayer(ctx, discordID, func(player *models.Player) {
		player.DisplayName = name
	})
}

// Profile returns the player with derived aggregate stats
func (s *playerService) Profile(ctx context.Context, discordID int64) (*models.Player, *models.PlayerStats, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	player, err := uow.PlayerRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		return nil, nil, NewRuleError(KindNotFound, "that user hasn't played any games yet")
	}

	stats, err := uow.PlayerRepository().GetStats(ctx, discordID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return player, stats, nil
}

// Leaderboard returns the top players by points
func (s *playerService) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entries, err := uow.PlayerRepository().Leaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	return entries, nil
}

// GivePoints applies a signed point adjustment (admin path)
func (s *playerService) GivePoints(ctx context.Context, guildID, discordID int64, delta int) (*models.Player, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	player, err := uow.PlayerRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		return nil, NewRuleError(KindNotFound, "that user isn't registered")
	}

	player.Points += delta
	if player.Points < 0 {
		player.Points = 0
	}
	newTier, _ := models.TierForPoints(player.Points)
	if newTier != player.Tier {
		uow.EventBus().Publish(events.TierChangeEvent{
			DiscordID: player.DiscordID,
			GuildID:   guildID,
			OldTier:   player.Tier,
			NewTier:   newTier,
		})
		player.Tier = newTier
	}

	if err := uow.PlayerRepository().Update(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"user":  discordID,
		"delta": delta,
	}).Info("Points adjusted")
	return player, nil
}

// updatePlayer applies a mutation to a registered player's profile.
func (s *playerService) updatePlayer(ctx context.Context, discordID int64, mutate func(*models.Player)) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	player, err := uow.PlayerRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		return NewRuleError(KindNotFound, "you aren't registered yet, play a game first")
	}

	mutate(player)
	if err := uow.PlayerRepository().Update(ctx, player); err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
