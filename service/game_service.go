package service

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Artemis21/polybots/elo"
	"github.com/Artemis21/polybots/events"
	"github.com/Artemis21/polybots/models"
)

// gameIDAttempts bounds the retry loop when time-derived IDs collide.
const gameIDAttempts = 5

type gameService struct {
	uowFactory UnitOfWorkFactory
	economy    EconomyClient
	elo        EloClient
	now        func() time.Time
}

// NewGameService creates a new game service. The ELO client may be nil,
// in which case games are not registered with the ELO bot.
func NewGameService(uowFactory UnitOfWorkFactory, economy EconomyClient, eloClient EloClient) GameService {
	return &gameService{
		uowFactory: uowFactory,
		economy:    economy,
		elo:        eloClient,
		now:        time.Now,
	}
}

// Create opens a new game for joining
func (s *gameService) Create(ctx context.Context, guildID int64, modeName string, roleLockID *int64) (*models.Game, error) {
	mode := models.ParseMode(modeName)
	if mode == nil {
		return nil, NewRuleError(KindInvalidInput, "unknown mode %q, see /modes for the list", modeName)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	game := &models.Game{
		GuildID:     guildID,
		ModeName:    mode.Name,
		Status:      models.GameStatusOpen,
		RoleLockID:  roleLockID,
		BettingOpen: true,
	}

	// IDs encode the creation second, so two games created in the same
	// second collide. Step forward until a free ID is found.
	at := s.now()
	for attempt := 0; ; attempt++ {
		game.ID = models.NewGameID(at)
		existing, err := uow.GameRepository().GetByID(ctx, game.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check game ID: %w", err)
		}
		if existing == nil {
			break
		}
		if attempt >= gameIDAttempts {
			return nil, fmt.Errorf("failed to allocate a game ID")
		}
		at = at.Add(time.Second)
	}

	if err := uow.GameRepository().Create(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	uow.EventBus().Publish(events.GameCreatedEvent{
		GameID:     game.ID,
		GuildID:    game.GuildID,
		ModeName:   game.ModeName,
		RoleLockID: game.RoleLockID,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"game": game.ID,
		"mode": game.ModeName,
	}).Info("Game created")
	return game, nil
}

// Join adds a user to an open game, auto-starting it at capacity
func (s *gameService) Join(ctx context.Context, gameID string, userID int64, memberRoleIDs []int64) (*models.Game, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	game, err := uow.GameRepository().GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, NewRuleError(KindNotFound, "game %s not found", gameID)
	}
	if game.Status != models.GameStatusOpen {
		return nil, NewRuleError(KindGameClosed, "game %s is no longer open for joining", game)
	}
	if game.IsFull() {
		return nil, NewRuleError(KindGameFull, "game %s is already full", game)
	}

	if game.RoleLockID != nil && !containsID(memberRoleIDs, *game.RoleLockID) {
		return nil, NewRuleError(KindRoleRequired, "game %s is restricted to a role you don't have", game)
	}

	// Concurrent joins by the same user must serialize before the active
	// game check, or both pass it and both commit.
	if err := uow.GameRepository().LockMembership(ctx, game.GuildID, userID); err != nil {
		return nil, err
	}

	active, err := uow.GameRepository().GetActiveGameForPlayer(ctx, game.GuildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check active games: %w", err)
	}
	if active != nil {
		if active.ID == game.ID {
			return nil, NewRuleError(KindAlreadyInGame, "you are already in game %s", game)
		}
		return nil, NewRuleError(KindAlreadyInGame, "you are already in game %s, leave it first", active)
	}

	member := &models.GamePlayer{
		GameID:    game.ID,
		DiscordID: userID,
		Position:  nextPosition(game),
	}
	if err := uow.GameRepository().AddPlayer(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to add player: %w", err)
	}
	game.Roster = append(game.Roster, member)

	if game.IsFull() {
		if err := s.start(ctx, uow, game); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return game, nil
}

// start transitions a full game to in progress, rolling modifiers and
// registering the game with the ELO bot.
func (s *gameService) start(ctx context.Context, uow UnitOfWork, game *models.Game) error {
	mode := game.Mode()
	now := s.now()
	game.Status = models.GameStatusInProgress
	game.StartedAt = &now

	if mode.ModifierCount > 0 {
		pool, err := uow.ModifierRepository().GetAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to load modifiers: %w", err)
		}
		game.Modifiers = models.PickModifiers(pool, mode.ModifierCount, nil)
	}

	if s.elo != nil {
		eloID, err := s.registerEloGame(ctx, game)
		if err != nil {
			// The game proceeds untracked; results come from win claims.
			log.WithError(err).WithField("game", game.ID).Warn("Failed to register game with ELO bot")
		} else {
			game.EloGameID = &eloID
		}
	}

	if err := uow.GameRepository().Update(ctx, game); err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}

	var playerIDs []int64
	for _, p := range game.Roster {
		playerIDs = append(playerIDs, p.DiscordID)
	}
	uow.EventBus().Publish(events.GameStartedEvent{
		GameID:    game.ID,
		GuildID:   game.GuildID,
		ModeName:  game.ModeName,
		PlayerIDs: playerIDs,
		Modifiers: game.Modifiers,
	})

	log.WithFields(log.Fields{
		"game":    game.ID,
		"players": len(game.Roster),
	}).Info("Game started")
	return nil
}

func (s *gameService) registerEloGame(ctx context.Context, game *models.Game) (int64, error) {
	var sides [][]int64
	for _, team := range game.Teams() {
		var side []int64
		for _, p := range team {
			side = append(side, p.DiscordID)
		}
		sides = append(sides, side)
	}
	return s.elo.NewGame(ctx, elo.NewGame{
		GameName:        game.String(),
		GuildID:         game.GuildID,
		SidesDiscordIDs: sides,
		IsMobile:        true,
	})
}

// Leave removes a user from a still-open game
func (s *gameService) Leave(ctx context.Context, gameID string, userID int64) (*models.Game, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	game, err := uow.GameRepository().GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, NewRuleError(KindNotFound, "game %s not found", gameID)
	}
	if game.Status != models.GameStatusOpen {
		return nil, NewRuleError(KindGameClosed, "game %s has already started", game)
	}
	if !game.HasPlayer(userID) {
		return nil, NewRuleError(KindNotInGame, "you are not in game %s", game)
	}

	if err := uow.GameRepository().RemovePlayer(ctx, game.ID, userID); err != nil {
		return nil, fmt.Errorf("failed to remove player: %w", err)
	}
	for i, p := range game.Roster {
		if p.DiscordID == userID {
			game.Roster = append(game.Roster[:i], game.Roster[i+1:]...)
			break
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return game, nil
}

// ClaimWin records a participant's claim; resolves the game once a
// majority of the roster agrees
func (s *gameService) ClaimWin(ctx context.Context, gameID string, userID int64, team int) (*models.Game, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	game, err := uow.GameRepository().GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, NewRuleError(KindNotFound, "game %s not found", gameID)
	}
	if game.Status != models.GameStatusInProgress {
		return nil, NewRuleError(KindGameClosed, "game %s is not in progress", game)
	}
	if !game.HasPlayer(userID) {
		return nil, NewRuleError(KindNotInGame, "only participants can report results for game %s", game)
	}
	if team < 1 || team > game.Mode().Teams {
		return nil, NewRuleError(KindInvalidTeam, "game %s has teams 1 to %d", game, game.Mode().Teams)
	}

	claim := &models.WinClaim{GameID: game.ID, DiscordID: userID, Team: team}
	if err := uow.GameRepository().SaveClaim(ctx, claim); err != nil {
		return nil, fmt.Errorf("failed to save claim: %w", err)
	}

	claims, err := uow.GameRepository().GetClaims(ctx, game.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get claims: %w", err)
	}
	agreed := 0
	for _, c := range claims {
		if c.Team == team {
			agreed++
		}
	}

	var wonBets []*models.Bet
	if agreed >= game.ClaimThreshold() {
		wonBets, err = s.resolve(ctx, uow, game, team)
		if err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.payOutBets(ctx, game, wonBets)
	return game, nil
}

// ForceEnd resolves the game immediately (admin path)
func (s *gameService) ForceEnd(ctx context.Context, gameID string, team int) (*models.Game, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	game, err := uow.GameRepository().GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, NewRuleError(KindNotFound, "game %s not found", gameID)
	}
	if game.Status != models.GameStatusInProgress {
		return nil, NewRuleError(KindGameClosed, "game %s is not in progress", game)
	}
	if team < 1 || team > game.Mode().Teams {
		return nil, NewRuleError(KindInvalidTeam, "game %s has teams 1 to %d", game, game.Mode().Teams)
	}

	wonBets, err := s.resolve(ctx, uow, game, team)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.payOutBets(ctx, game, wonBets)
	return game, nil
}

// resolve records a decisive result: winners and losers, point awards,
// tier changes and bet states. Economy payouts happen after commit.
func (s *gameService) resolve(ctx context.Context, uow UnitOfWork, game *models.Game, winnerTeam int) ([]*models.Bet, error) {
	mode := game.Mode()
	now := s.now()
	game.Status = models.GameStatusEnded
	game.WinnerTeam = winnerTeam
	game.EndedAt = &now
	game.BettingOpen = false

	if err := uow.GameRepository().Update(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to end game: %w", err)
	}

	var winnerIDs []int64
	teams := game.Teams()
	for _, p := range teams[winnerTeam-1] {
		winnerIDs = append(winnerIDs, p.DiscordID)
	}
	if err := uow.GameRepository().SetResults(ctx, game.ID, winnerIDs); err != nil {
		return nil, fmt.Errorf("failed to set results: %w", err)
	}
	for _, p := range game.Roster {
		p.Won = containsID(winnerIDs, p.DiscordID)
		p.Lost = !p.Won
	}

	if err := s.awardPoints(ctx, uow, game, winnerIDs, mode); err != nil {
		return nil, err
	}

	wonBets, err := s.settleBets(ctx, uow, game, winnerTeam)
	if err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.GameEndedEvent{
		GameID:     game.ID,
		GuildID:    game.GuildID,
		ModeName:   game.ModeName,
		WinnerTeam: winnerTeam,
		WinnerIDs:  winnerIDs,
		ChannelID:  game.ChannelID,
	})

	log.WithFields(log.Fields{
		"game":   game.ID,
		"winner": winnerTeam,
	}).Info("Game resolved")
	return wonBets, nil
}

// awardPoints credits winners with the mode's win points, deducts its loss
// points from losers (floored at zero) and recomputes tiers. Unregistered
// players are skipped.
func (s *gameService) awardPoints(ctx context.Context, uow UnitOfWork, game *models.Game, winnerIDs []int64, mode *models.Mode) error {
	for _, member := range game.Roster {
		delta := -mode.LossPoints
		if containsID(winnerIDs, member.DiscordID) {
			delta = mode.WinPoints
		}

		player, err := uow.PlayerRepository().GetByDiscordID(ctx, member.DiscordID)
		if err != nil {
			return fmt.Errorf("failed to get player %d: %w", member.DiscordID, err)
		}
		if player == nil {
			continue
		}

		player.Points += delta
		if player.Points < 0 {
			player.Points = 0
		}
		newTier, _ := models.TierForPoints(player.Points)
		if newTier != player.Tier {
			uow.EventBus().Publish(events.TierChangeEvent{
				DiscordID: player.DiscordID,
				GuildID:   game.GuildID,
				OldTier:   player.Tier,
				NewTier:   newTier,
			})
			player.Tier = newTier
		}
		if err := uow.PlayerRepository().Update(ctx, player); err != nil {
			return fmt.Errorf("failed to update player %d: %w", member.DiscordID, err)
		}
	}
	return nil
}

// settleBets marks every bet on the game won or lost and returns the
// winning bets for payout after commit.
func (s *gameService) settleBets(ctx context.Context, uow UnitOfWork, game *models.Game, winnerTeam int) ([]*models.Bet, error) {
	bets, err := uow.BetRepository().GetByGame(ctx, game.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bets: %w", err)
	}

	now := s.now()
	var wonBets []*models.Bet
	for _, bet := range bets {
		if bet.State != models.BetStatePlaced {
			continue
		}
		state := models.BetStateLost
		if bet.Team == winnerTeam {
			state = models.BetStateWon
			wonBets = append(wonBets, bet)
		}
		if err := uow.BetRepository().UpdateState(ctx, bet.ID, state, now); err != nil {
			return nil, fmt.Errorf("failed to settle bet %d: %w", bet.ID, err)
		}
		bet.State = state
		bet.SettledAt = &now

		uow.EventBus().Publish(events.BetSettledEvent{
			BetID:     bet.ID,
			GameID:    game.ID,
			DiscordID: bet.DiscordID,
			Amount:    bet.Amount,
			Won:       state == models.BetStateWon,
			Payout:    bet.Payout(),
		})
	}
	return wonBets, nil
}

// payOutBets credits winning bets via the economy bot. Stakes were debited
// when the bets were placed, so a failed credit here cannot be rolled
// back; the bet is flagged instead.
func (s *gameService) payOutBets(ctx context.Context, game *models.Game, wonBets []*models.Bet) {
	for _, bet := range wonBets {
		reason := fmt.Sprintf("won bet on game %s", game)
		if err := s.economy.Adjust(ctx, game.GuildID, bet.DiscordID, bet.Payout(), reason); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"bet":  bet.ID,
				"user": bet.DiscordID,
			}).Error("Failed to pay out winning bet")
			s.flagPayoutFailure(ctx, bet)
		}
	}
}

func (s *gameService) flagPayoutFailure(ctx context.Context, bet *models.Bet) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.WithError(err).WithField("bet", bet.ID).Error("Failed to flag payout failure")
		return
	}
	defer uow.Rollback()

	if err := uow.BetRepository().UpdateState(ctx, bet.ID, models.BetStatePayoutFailed, s.now()); err != nil {
		log.WithError(err).WithField("bet", bet.ID).Error("Failed to flag payout failure")
		return
	}
	if err := uow.Commit(); err != nil {
		log.WithError(err).WithField("bet", bet.ID).Error("Failed to flag payout failure")
	}
}

// Delete removes a game and detaches its players (admin path)
func (s *gameService) Delete(ctx context.Context, gameID string) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	game, err := uow.GameRepository().GetByID(ctx, gameID)
	if err != nil {
		return fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return NewRuleError(KindNotFound, "game %s not found", gameID)
	}

	if err := uow.GameRepository().Delete(ctx, game.ID); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	uow.EventBus().Publish(events.GameDeletedEvent{
		GameID:    game.ID,
		GuildID:   game.GuildID,
		ChannelID: game.ChannelID,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithField("game", game.ID).Info("Game deleted")
	return nil
}

// Reroll re-picks round modifiers for a scramble game
func (s *gameService) Reroll(ctx context.Context, gameID string) (*models.Game, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	game, err := uow.GameRepository().GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, NewRuleError(KindNotFound, "game %s not found", gameID)
	}
	if game.Status != models.GameStatusInProgress {
		return nil, NewRuleError(KindGameClosed, "game %s is not in progress", game)
	}
	mode := game.Mode()
	if !mode.RoundModifiers {
		return nil, NewRuleError(KindInvalidInput, "%s games do not reroll modifiers between rounds", mode.Name)
	}

	pool, err := uow.ModifierRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load modifiers: %w", err)
	}
	game.Modifiers = models.PickModifiers(pool, mode.ModifierCount, game.Modifiers)

	if err := uow.GameRepository().Update(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return game, nil
}

// SetChannel records the provisioned channel after the bot creates it
func (s *gameService) SetChannel(ctx context.Context, gameID string, channelID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	game, err := uow.GameRepository().GetByID(ctx, gameID)
	if err != nil {
		return fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return NewRuleError(KindNotFound, "game %s not found", gameID)
	}

	game.ChannelID = &channelID
	if err := uow.GameRepository().Update(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetByID fetches a game with its roster
func (s *gameService) GetByID(ctx context.Context, gameID string) (*models.Game, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	game, err := uow.GameRepository().GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, NewRuleError(KindNotFound, "game %s not found", gameID)
	}
	return game, nil
}

// ListActive lists open and in-progress games in a guild
func (s *gameService) ListActive(ctx context.Context, guildID int64) ([]*models.Game, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	games, err := uow.GameRepository().GetActiveByGuild(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active games: %w", err)
	}
	return games, nil
}

// SyncFromElo resolves tracked games whose winner the ELO bot has
// confirmed. Runs on a background ticker.
func (s *gameService) SyncFromElo(ctx context.Context) error {
	if s.elo == nil {
		return nil
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	tracked, err := uow.GameRepository().GetTrackedEloGames(ctx)
	uow.Rollback()
	if err != nil {
		return fmt.Errorf("failed to get tracked games: %w", err)
	}

	for _, game := range tracked {
		eloGame, err := s.elo.Game(ctx, *game.EloGameID)
		if err != nil {
			log.WithError(err).WithField("game", game.ID).Warn("Failed to poll ELO bot")
			continue
		}
		if !eloGame.IsConfirmed || eloGame.Winner == nil {
			continue
		}

		winnerTeam := winningTeam(eloGame)
		if winnerTeam == 0 {
			log.WithField("game", game.ID).Warn("ELO bot reported a winner outside the game's sides")
			continue
		}

		if _, err := s.ForceEnd(ctx, game.ID, winnerTeam); err != nil {
			// Resolved concurrently via win claims, or a real failure.
			if AsRuleError(err) == nil {
				log.WithError(err).WithField("game", game.ID).Error("Failed to resolve game from ELO result")
			}
		}
	}
	return nil
}

// winningTeam maps the ELO bot's winning side to our 1-based team number,
// or 0 if no side matches.
func winningTeam(eloGame *elo.Game) int {
	for i, side := range eloGame.Sides {
		if side.ID == *eloGame.Winner || side.WinConfirmed {
			return i + 1
		}
	}
	return 0
}

// nextPosition allocates the next roster position, leaving gaps from
// departed players unused.
func nextPosition(game *models.Game) int {
	next := 0
	for _, p := range game.Roster {
		if p.Position >= next {
			next = p.Position + 1
		}
	}
	return next
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
