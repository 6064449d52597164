package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Artemis21/polybots/models"
)

func bettableGame() *models.Game {
	game := openGame("g1", "regular", 1, 2)
	game.Status = models.GameStatusInProgress
	return game
}

func TestBettingService_PlaceBet(t *testing.T) {
	ctx := context.Background()

	t.Run("non-positive amount", func(t *testing.T) {
		m := newGameServiceMocks()
		svc := NewBettingService(m.factory, m.economy)

		_, err := svc.PlaceBet(ctx, "g1", 50, 1, 0)
		assert.True(t, IsRuleKind(err, KindInvalidAmount))

		_, err = svc.PlaceBet(ctx, "g1", 50, 1, -100)
		assert.True(t, IsRuleKind(err, KindInvalidAmount))
	})

	t.Run("game not in progress", func(t *testing.T) {
		m := newGameServiceMocks()
		svc := NewBettingService(m.factory, m.economy)

		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.games.On("GetByID", ctx, "g1").Return(openGame("g1", "regular", 1), nil)

		_, err := svc.PlaceBet(ctx, "g1", 50, 1, 100)
		assert.True(t, IsRuleKind(err, KindBettingClosed))
	})

	t.Run("betting locked", func(t *testing.T) {
		m := newGameServiceMocks()
		svc := NewBettingService(m.factory, m.economy)

		game := bettableGame()
		game.BettingOpen = false

		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.games.On("GetByID", ctx, "g1").Return(game, nil)

		_, err := svc.PlaceBet(ctx, "g1", 50, 1, 100)
		assert.True(t, IsRuleKind(err, KindBettingClosed))
	})

	t.Run("participant cannot bet on opponents", func(t *testing.T) {
		m := newGameServiceMocks()
		svc := NewBettingService(m.factory, m.economy)

		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.games.On("GetByID", ctx, "g1").Return(bettableGame(), nil)

		// User 1 plays on team 1; staking on team 2 is rejected before
		// any economy call.
		_, err := svc.PlaceBet(ctx, "g1", 1, 2, 100)
		assert.True(t, IsRuleKind(err, KindCannotBetAgainstSelf))
		m.economy.AssertNotCalled(t, "Balance")
	})

	t.Run("insufficient balance", func(t *testing.T) {
		m := newGameServiceMocks()
		svc := NewBettingService(m.factory, m.economy)

		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.games.On("GetByID", ctx, "g1").Return(bettableGame(), nil)
		m.economy.On("Balance", ctx, int64(100), int64(1)).Return(int64(500), nil)

		// User 1 backs their own team but only holds 500.
		_, err := svc.PlaceBet(ctx, "g1", 1, 1, 1000)
		assert.True(t, IsRuleKind(err, KindInsufficientBalance))
		m.economy.AssertNotCalled(t, "Adjust")
	})

	t.Run("success debits immediately", func(t *testing.T) {
		m := newGameServiceMocks()
		svc := NewBettingService(m.factory, m.economy)

		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Commit").Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.games.On("GetByID", ctx, "g1").Return(bettableGame(), nil)
		m.economy.On("Balance", ctx, int64(100), int64(50)).Return(int64(1500), nil)
		m.economy.On("Adjust", ctx, int64(100), int64(50), int64(-250), mock.Anything).Return(nil)
		m.bets.On("Create", ctx, mock.MatchedBy(func(b *models.Bet) bool {
			return b.GameID == "g1" && b.DiscordID == 50 && b.Team == 2 &&
				b.Amount == 250 && b.State == models.BetStatePlaced
		})).Return(nil)

		bet, err := svc.PlaceBet(ctx, "g1", 50, 2, 250)
		require.NoError(t, err)
		assert.Equal(t, int64(500), bet.Payout())

		m.economy.AssertExpectations(t)
		m.bets.AssertExpectations(t)
	})
}

func TestBettingService_LockBets(t *testing.T) {
	ctx := context.Background()

	t.Run("locks once", func(t *testing.T) {
		m := newGameServiceMocks()
		svc := NewBettingService(m.factory, m.economy)

		game := bettableGame()

		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Commit").Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.games.On("GetByID", ctx, "g1").Return(game, nil)
		m.games.On("Update", ctx, mock.MatchedBy(func(g *models.Game) bool {
			return !g.BettingOpen
		})).Return(nil)

		require.NoError(t, svc.LockBets(ctx, "g1"))

		// Locking is one-way; a second attempt reports it.
		err := svc.LockBets(ctx, "g1")
		assert.True(t, IsRuleKind(err, KindBettingClosed))
	})
}
