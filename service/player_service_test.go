package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Artemis21/polybots/events"
	"github.com/Artemis21/polybots/models"
)

func TestPlayerService_GetOrCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("existing player returned", func(t *testing.T) {
		m := newGameServiceMocks()
		svc := NewPlayerService(m.factory)

		existing := &models.Player{DiscordID: 42, DisplayName: "alice"}

		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Commit").Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.players.On("GetByDiscordID", ctx, int64(42)).Return(existing, nil)

		player, err := svc.GetOrCreate(ctx, 42, "renamed")
		require.NoError(t, err)
		assert.Equal(t, "alice", player.DisplayName)
		m.players.AssertNotCalled(t, "Create", ctx, int64(42), "renamed")
	})

	t.Run("registered lazily", func(t *testing.T) {
		m := newGameServiceMocks()
		svc := NewPlayerService(m.factory)

		created := &models.Player{DiscordID: 42, DisplayName: "alice", Tier: 1}

		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Commit").Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.players.On("GetByDiscordID", ctx, int64(42)).Return(nil, nil)
		m.players.On("Create", ctx, int64(42), "alice").Return(created, nil)

		player, err := svc.GetOrCreate(ctx, 42, "alice")
		require.NoError(t, err)
		assert.Equal(t, created, player)
	})
}

func TestPlayerService_SetTimezone(t *testing.T) {
	ctx := context.Background()

	t.Run("out of range rejected", func(t *testing.T) {
		m := newGameServiceMocks()
		svc := NewPlayerService(m.factory)

		_, err := svc.SetTimezone(ctx, 42, "UTC+25")
		assert.True(t, IsRuleKind(err, KindInvalidInput))
	})

	t.Run("bare offset stored in minutes", func(t *testing.T) {
		m := newGameServiceMocks()
		svc := NewPlayerService(m.factory)

		player := &models.Player{DiscordID: 42, Tier: 1}

		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Commit").Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.players.On("GetByDiscordID", ctx, int64(42)).Return(player, nil)
		m.players.On("Update", ctx, player).Return(nil)

		tz, err := svc.SetTimezone(ctx, 42, "-4")
		require.NoError(t, err)
		assert.Equal(t, "UTC-4", tz.String())
		require.NotNil(t, player.TimezoneOffset)
		assert.Equal(t, -240, *player.TimezoneOffset)
	})
}

func TestPlayerService_SetFriendCode(t *testing.T) {
	ctx := context.Background()

	t.Run("malformed code rejected", func(t *testing.T) {
		m := newGameServiceMocks()
		svc := NewPlayerService(m.factory)

		err := svc.SetFriendCode(ctx, 42, "too-short")
		assert.True(t, IsRuleKind(err, KindInvalidInput))
	})

	t.Run("valid code stored", func(t *testing.T) {
		m := newGameServiceMocks()
		svc := NewPlayerService(m.factory)

		player := &models.Player{DiscordID: 42, Tier: 1}

		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Commit").Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.players.On("GetByDiscordID", ctx, int64(42)).Return(player, nil)
		m.players.On("Update", ctx, player).Return(nil)

		require.NoError(t, svc.SetFriendCode(ctx, 42, "a1b2c3d4e5f6a7b8"))
		require.NotNil(t, player.FriendCode)
		assert.Equal(t, "a1b2c3d4e5f6a7b8", *player.FriendCode)
	})
}

func TestPlayerService_GivePoints(t *testing.T) {
	ctx := context.Background()

	t.Run("tier change emits event", func(t *testing.T) {
		m := newGameServiceMocks()
		svc := NewPlayerService(m.factory)

		player := &models.Player{DiscordID: 42, Points: 20, Tier: 1}

		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Commit").Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.players.On("GetByDiscordID", ctx, int64(42)).Return(player, nil)
		m.players.On("Update", ctx, player).Return(nil)

		got, err := svc.GivePoints(ctx, 100, 42, 10)
		require.NoError(t, err)
		assert.Equal(t, 30, got.Points)
		assert.Equal(t, 2, got.Tier)

		tierChanges := m.uow.PublishedEvents().EventsOfType(events.EventTypeTierChange)
		require.Len(t, tierChanges, 1)
		change := tierChanges[0].(events.TierChangeEvent)
		assert.Equal(t, 1, change.OldTier)
		assert.Equal(t, 2, change.NewTier)
	})

	t.Run("points never go negative", func(t *testing.T) {
		m := newGameServiceMocks()
		svc := NewPlayerService(m.factory)

		player := &models.Player{DiscordID: 42, Points: 5, Tier: 1}

		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Commit").Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.players.On("GetByDiscordID", ctx, int64(42)).Return(player, nil)
		m.players.On("Update", ctx, player).Return(nil)

		got, err := svc.GivePoints(ctx, 100, 42, -50)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Points)
	})

	t.Run("unregistered user", func(t *testing.T) {
		m := newGameServiceMocks()
		svc := NewPlayerService(m.factory)

		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.players.On("GetByDiscordID", ctx, int64(42)).Return(nil, nil)

		_, err := svc.GivePoints(ctx, 100, 42, 10)
		assert.True(t, IsRuleKind(err, KindNotFound))
	})
}

func TestTagService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate name rejected", func(t *testing.T) {
		m := newGameServiceMocks()
		svc := NewTagService(m.factory)

		existing := &models.Tag{ID: 1, Names: []string{"rules"}, Content: "old"}

		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.tags.On("GetByName", ctx, "rules").Return(existing, nil)

		_, err := svc.Create(ctx, []string{"rules"}, "new content")
		assert.True(t, IsRuleKind(err, KindDuplicateName))
	})

	t.Run("blank names dropped", func(t *testing.T) {
		m := newGameServiceMocks()
		svc := NewTagService(m.factory)

		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Commit").Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.tags.On("GetByName", ctx, "greet").Return(nil, nil)
		m.tags.On("Create", ctx, mock.MatchedBy(func(tag *models.Tag) bool {
			return len(tag.Names) == 1 && tag.Names[0] == "greet"
		})).Return(nil)

		tag, err := svc.Create(ctx, []string{" greet ", "  "}, "hello")
		require.NoError(t, err)
		assert.Equal(t, "greet", tag.String())
	})
}
