package service

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/Artemis21/polybots/models"
)

type bettingService struct {
	uowFactory UnitOfWorkFactory
	economy    EconomyClient
}

// NewBettingService creates a new betting service
func NewBettingService(uowFactory UnitOfWorkFactory, economy EconomyClient) BettingService {
	return &bettingService{
		uowFactory: uowFactory,
		economy:    economy,
	}
}

// PlaceBet stakes amount on a team of an in-progress game. The stake is
// debited from the bettor's economy balance before the bet is recorded;
// losing it later just means no credit comes back.
func (s *bettingService) PlaceBet(ctx context.Context, gameID string, userID int64, team int, amount int64) (*models.Bet, error) {
	if amount <= 0 {
		return nil, NewRuleError(KindInvalidAmount, "bet amounts must be positive")
	}

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
		return nil, NewRuleError(KindBettingClosed, "game %s is not in progress", game)
	}
	if !game.BettingOpen {
		return nil, NewRuleError(KindBettingClosed, "betting on game %s has been locked", game)
	}
	if team < 1 || team > game.Mode().Teams {
		return nil, NewRuleError(KindInvalidTeam, "game %s has teams 1 to %d", game, game.Mode().Teams)
	}

	// Participants may only back their own side.
	if ownTeam := game.TeamOf(userID); ownTeam != 0 && ownTeam != team {
		return nil, NewRuleError(KindCannotBetAgainstSelf, "you cannot bet on opponents in your own game")
	}

	balance, err := s.economy.Balance(ctx, game.GuildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	if balance < amount {
		return nil, NewRuleError(KindInsufficientBalance, "insufficient balance: you have %d, need %d", balance, amount)
	}

	reason := fmt.Sprintf("bet on game %s", game)
	if err := s.economy.Adjust(ctx, game.GuildID, userID, -amount, reason); err != nil {
		return nil, fmt.Errorf("failed to debit stake: %w", err)
	}

	bet := &models.Bet{
		GameID:    game.ID,
		DiscordID: userID,
		Team:      team,
		Amount:    amount,
		State:     models.BetStatePlaced,
	}
	if err := uow.BetRepository().Create(ctx, bet); err != nil {
		// The stake is already gone from the economy bot. Hand it back.
		if refundErr := s.economy.Adjust(ctx, game.GuildID, userID, amount, "refund: "+reason); refundErr != nil {
			log.WithError(refundErr).WithFields(log.Fields{
				"game":   game.ID,
				"user":   userID,
				"amount": amount,
			}).Error("Failed to refund stake after bet creation failure")
		}
		return nil, fmt.Errorf("failed to create bet: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"game":   game.ID,
		"user":   userID,
		"team":   team,
		"amount": amount,
	}).Info("Bet placed")
	return bet, nil
}

// LockBets closes betting on a game (admin path, one-way)
func (s *bettingService) LockBets(ctx context.Context, gameID string) error {
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
	if !game.BettingOpen {
		return NewRuleError(KindBettingClosed, "betting on game %s is already locked", game)
	}

	game.BettingOpen = false
	if err := uow.GameRepository().Update(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithField("game", game.ID).Info("Betting locked")
	return nil
}

// ListBets returns all bets on a game
func (s *bettingService) ListBets(ctx context.Context, gameID string) ([]*models.Bet, error) {
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

	bets, err := uow.BetRepository().GetByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bets: %w", err)
	}
	return bets, nil
}
