package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Artemis21/polybots/models"
	"github.com/Artemis21/polybots/repository/testutil"
)

func TestPlayerRepository_CreateAndUpdate(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPlayerRepository(testDB.DB)
	ctx := context.Background()

	t.Run("unregistered player is nil", func(t *testing.T) {
		player, err := repo.GetByDiscordID(ctx, 404)
		require.NoError(t, err)
		assert.Nil(t, player)
	})

	t.Run("defaults on create", func(t *testing.T) {
		player, err := repo.Create(ctx, 42, "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", player.DisplayName)
		assert.Equal(t, 0, player.Points)
		assert.Equal(t, 1, player.Tier)
		assert.Nil(t, player.FriendCode)
		assert.Nil(t, player.TimezoneOffset)
	})

	t.Run("profile update round trip", func(t *testing.T) {
		player, err := repo.GetByDiscordID(ctx, 42)
		require.NoError(t, err)

		code := "ABCDEF1234567890"
		offset := 330
		player.FriendCode = &code
		player.TimezoneOffset = &offset
		player.Points = 12
		require.NoError(t, repo.Update(ctx, player))

		got, err := repo.GetByDiscordID(ctx, 42)
		require.NoError(t, err)
		require.NotNil(t, got.FriendCode)
		assert.Equal(t, code, *got.FriendCode)
		require.NotNil(t, got.TimezoneOffset)
		assert.Equal(t, 330, *got.TimezoneOffset)
		assert.Equal(t, 12, got.Points)
	})
}

func TestPlayerRepository_Leaderboard(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewPlayerRepository(testDB.DB)
	ctx := context.Background()

	for _, p := range []struct {
		id     int64
		name   string
		points int
	}{{1, "alice", 30}, {2, "bob", 10}, {3, "carol", 30}} {
		player, err := repo.Create(ctx, p.id, p.name)
		require.NoError(t, err)
		player.Points = p.points
		require.NoError(t, repo.Update(ctx, player))
	}

	entries, err := repo.Leaderboard(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(1), entries[0].Rank)
	assert.Equal(t, int64(1), entries[1].Rank) // tied on points
	assert.Equal(t, 30, entries[0].Points)
}

func TestPlayerRepository_GetStats(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	playerRepo := NewPlayerRepository(testDB.DB)
	gameRepo := NewGameRepository(testDB.DB)
	ctx := context.Background()

	_, err := playerRepo.Create(ctx, 7, "dave")
	require.NoError(t, err)

	// One won game, one lost, one still running.
	for i, result := range []string{"won", "lost", "running"} {
		game := testutil.CreateTestGame(models.NewGameID(testutil.TestTime(i)), 100, "regular")
		require.NoError(t, gameRepo.Create(ctx, game))
		require.NoError(t, gameRepo.AddPlayer(ctx, testutil.CreateTestMember(game.ID, 7, 0)))
		require.NoError(t, gameRepo.AddPlayer(ctx, testutil.CreateTestMember(game.ID, 8, 1)))

		switch result {
		case "won":
			require.NoError(t, gameRepo.SetResults(ctx, game.ID, []int64{7}))
			game.Status = models.GameStatusEnded
		case "lost":
			require.NoError(t, gameRepo.SetResults(ctx, game.ID, []int64{8}))
			game.Status = models.GameStatusEnded
		case "running":
			game.Status = models.GameStatusInProgress
		}
		require.NoError(t, gameRepo.Update(ctx, game))
	}

	stats, err := playerRepo.GetStats(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Wins)
	assert.Equal(t, 1, stats.Losses)
	assert.Equal(t, 1, stats.InProgress)
	assert.Equal(t, 3, stats.Total())
}
