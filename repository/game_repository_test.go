package repository

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/Artemis21/polybots/events"
	"github.com/Artemis21/polybots/models"
	"github.com/Artemis21/polybots/repository/testutil"
)

func TestGameRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGameRepository(testDB.DB)
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		game, err := repo.GetByID(ctx, "zzzz")
		require.NoError(t, err)
		assert.Nil(t, game)
	})

	t.Run("round trip", func(t *testing.T) {
		game := testutil.CreateTestGame("k3x9a1", 100, "skirmish3")
		err := repo.Create(ctx, game)
		require.NoError(t, err)
		assert.False(t, game.CreatedAt.IsZero())

		got, err := repo.GetByID(ctx, "k3x9a1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "skirmish3", got.ModeName)
		assert.Equal(t, models.GameStatusOpen, got.Status)
		assert.True(t, got.BettingOpen)
		assert.Empty(t, got.Roster)
	})

	t.Run("duplicate id rejected", func(t *testing.T) {
		game := testutil.CreateTestGame("k3x9a1", 100, "regular")
		err := repo.Create(ctx, game)
		assert.Error(t, err)
	})
}

func TestGameRepository_Roster(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGameRepository(testDB.DB)
	ctx := context.Background()

	game := testutil.CreateTestGame("k3x9a2", 100, "skirmish3")
	require.NoError(t, repo.Create(ctx, game))

	t.Run("players load in join order", func(t *testing.T) {
		for i, id := range []int64{30, 10, 20} {
			require.NoError(t, repo.AddPlayer(ctx, testutil.CreateTestMember(game.ID, id, i)))
		}

		got, err := repo.GetByID(ctx, game.ID)
		require.NoError(t, err)
		require.Len(t, got.Roster, 3)
		assert.Equal(t, int64(30), got.Roster[0].DiscordID)
		assert.Equal(t, int64(10), got.Roster[1].DiscordID)
		assert.Equal(t, int64(20), got.Roster[2].DiscordID)
	})

	t.Run("duplicate member rejected", func(t *testing.T) {
		err := repo.AddPlayer(ctx, testutil.CreateTestMember(game.ID, 10, 3))
		assert.Error(t, err)
	})

	t.Run("remove player", func(t *testing.T) {
		require.NoError(t, repo.RemovePlayer(ctx, game.ID, 10))

		got, err := repo.GetByID(ctx, game.ID)
		require.NoError(t, err)
		assert.Len(t, got.Roster, 2)
		assert.False(t, got.HasPlayer(10))
	})

	t.Run("remove absent player fails", func(t *testing.T) {
		err := repo.RemovePlayer(ctx, game.ID, 999)
		assert.Error(t, err)
	})
}

func TestGameRepository_ActiveGameForPlayer(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGameRepository(testDB.DB)
	ctx := context.Background()

	game := testutil.CreateTestGame("k3x9a3", 100, "double")
	require.NoError(t, repo.Create(ctx, game))
	require.NoError(t, repo.AddPlayer(ctx, testutil.CreateTestMember(game.ID, 42, 0)))

	t.Run("found while open", func(t *testing.T) {
		got, err := repo.GetActiveGameForPlayer(ctx, 100, 42)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, game.ID, got.ID)
	})

	t.Run("other guild not matched", func(t *testing.T) {
		got, err := repo.GetActiveGameForPlayer(ctx, 200, 42)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("ended game not matched", func(t *testing.T) {
		game.Status = models.GameStatusEnded
		require.NoError(t, repo.Update(ctx, game))

		got, err := repo.GetActiveGameForPlayer(ctx, 100, 42)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestGameRepository_ConcurrentJoinSingleMembership(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGameRepository(testDB.DB)
	ctx := context.Background()

	// Two open games in the same guild; the same user races into both.
	// The membership lock must serialize the transactions so only one
	// active-game check passes.
	for _, id := range []string{"k3x9c1", "k3x9c2"} {
		require.NoError(t, repo.Create(ctx, testutil.CreateTestGame(id, 100, "regular")))
	}

	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())

	var joined int64
	var g errgroup.Group
	for _, gameID := range []string{"k3x9c1", "k3x9c2"} {
		gameID := gameID
		g.Go(func() error {
			uow := factory.Create()
			if err := uow.Begin(ctx); err != nil {
				return err
			}
			defer uow.Rollback()

			games := uow.GameRepository()
			if err := games.LockMembership(ctx, 100, 42); err != nil {
				return err
			}
			active, err := games.GetActiveGameForPlayer(ctx, 100, 42)
			if err != nil {
				return err
			}
			if active != nil {
				return nil
			}
			if err := games.AddPlayer(ctx, testutil.CreateTestMember(gameID, 42, 0)); err != nil {
				return err
			}
			if err := uow.Commit(); err != nil {
				return err
			}
			atomic.AddInt64(&joined, 1)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(1), joined)

	memberships := 0
	for _, id := range []string{"k3x9c1", "k3x9c2"} {
		game, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		memberships += len(game.Roster)
	}
	assert.Equal(t, 1, memberships)
}

func TestGameRepository_SetResults(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGameRepository(testDB.DB)
	ctx := context.Background()

	game := testutil.CreateTestGame("k3x9a4", 100, "regular")
	require.NoError(t, repo.Create(ctx, game))
	require.NoError(t, repo.AddPlayer(ctx, testutil.CreateTestMember(game.ID, 1, 0)))
	require.NoError(t, repo.AddPlayer(ctx, testutil.CreateTestMember(game.ID, 2, 1)))

	require.NoError(t, repo.SetResults(ctx, game.ID, []int64{1}))

	got, err := repo.GetByID(ctx, game.ID)
	require.NoError(t, err)
	require.Len(t, got.Roster, 2)
	assert.True(t, got.Roster[0].Won)
	assert.False(t, got.Roster[0].Lost)
	assert.False(t, got.Roster[1].Won)
	assert.True(t, got.Roster[1].Lost)
}

func TestGameRepository_Claims(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGameRepository(testDB.DB)
	ctx := context.Background()

	game := testutil.CreateTestGame("k3x9a5", 100, "regular")
	require.NoError(t, repo.Create(ctx, game))

	t.Run("claim is replaced on re-report", func(t *testing.T) {
		claim := &models.WinClaim{GameID: game.ID, DiscordID: 1, Team: 1}
		require.NoError(t, repo.SaveClaim(ctx, claim))

		claim.Team = 2
		require.NoError(t, repo.SaveClaim(ctx, claim))

		claims, err := repo.GetClaims(ctx, game.ID)
		require.NoError(t, err)
		require.Len(t, claims, 1)
		assert.Equal(t, 2, claims[0].Team)
	})

	t.Run("claims cascade on delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, game.ID))

		claims, err := repo.GetClaims(ctx, game.ID)
		require.NoError(t, err)
		assert.Empty(t, claims)
	})
}
