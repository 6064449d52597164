package elo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Game(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "bot", username)
		assert.Equal(t, "secret", password)
		assert.Equal(t, "/games/17", r.URL.Path)

		winner := int64(2)
		json.NewEncoder(w).Encode(Game{
			ID:          17,
			GuildID:     100,
			IsConfirmed: true,
			Winner:      &winner,
			Sides: []GameSide{
				{ID: 1, Position: 1, Members: []int64{10, 11}},
				{ID: 2, Position: 2, Members: []int64{20, 21}, WinConfirmed: true},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "bot", "secret")

	game, err := client.Game(context.Background(), 17)
	require.NoError(t, err)
	assert.True(t, game.IsConfirmed)
	require.NotNil(t, game.Winner)
	assert.Equal(t, int64(2), *game.Winner)
	require.Len(t, game.Sides, 2)
	assert.Equal(t, []int64{20, 21}, game.Sides[1].Members)
}

func TestClient_NewGame(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/game/new", r.URL.Path)

		var payload NewGame
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "skirmish3-k3x9a1", payload.GameName)
		assert.Len(t, payload.SidesDiscordIDs, 3)

		json.NewEncoder(w).Encode(map[string]int64{"game_id": 42})
	}))
	defer server.Close()

	client := NewClient(server.URL, "bot", "secret")

	id, err := client.NewGame(context.Background(), NewGame{
		GameName:        "skirmish3-k3x9a1",
		GuildID:         100,
		SidesDiscordIDs: [][]int64{{1}, {2}, {3}},
		IsMobile:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Game not found."})
	}))
	defer server.Close()

	client := NewClient(server.URL, "bot", "secret")

	_, err := client.Game(context.Background(), 999)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Code)
	assert.Equal(t, "Game not found.", apiErr.Detail)
}
