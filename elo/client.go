// Package elo wraps the companion ELO bot's HTTP API. Games played through
// that bot carry authoritative results, which we poll to resolve our own
// tracked games.
package elo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// GameSide is one side of a game as reported by the ELO bot.
type GameSide struct {
	ID           int64   `json:"id"`
	SideName     *string `json:"side_name"`
	Size         int     `json:"size"`
	Position     int     `json:"position"`
	WinConfirmed bool    `json:"win_confirmed"`
	Members      []int64 `json:"members"`
}

// Game is a game object returned from the API. Winner is the position of
// the winning side, set once the result is confirmed.
type Game struct {
	ID           int64      `json:"id"`
	GuildID      int64      `json:"guild_id"`
	IsRanked     bool       `json:"is_ranked"`
	IsMobile     bool       `json:"is_mobile"`
	IsCompleted  bool       `json:"is_completed"`
	IsConfirmed  bool       `json:"is_confirmed"`
	IsOpen       bool       `json:"is_open"`
	Name         string     `json:"name"`
	Notes        string     `json:"notes"`
	Winner       *int64     `json:"winner"`
	WinClaimedAt *time.Time `json:"win_claimed_at"`
	Sides        []GameSide `json:"sides"`
}

// User is a user object returned from the API.
type User struct {
	DiscordID  int64   `json:"discord_id"`
	Name       *string `json:"name"`
	MobileName *string `json:"mobile_name"`
	Elo        int     `json:"moonrise_elo"`
	IsBanned   bool    `json:"is_banned"`
	UTCOffset  *int    `json:"utc_offset"`
}

// NewGame is the payload for registering a game with the ELO bot.
type NewGame struct {
	GameName        string    `json:"game_name"`
	GuildID         int64     `json:"guild_id"`
	SidesDiscordIDs [][]int64 `json:"sides_discord_ids"`
	Notes           string    `json:"notes"`
	IsRanked        bool      `json:"is_ranked"`
	IsMobile        bool      `json:"is_mobile"`
}

// APIError is an error response from the ELO bot.
type APIError struct {
	Code   int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("elo api error %d: %s", e.Code, e.Detail)
}

// Client is an ELO bot API client using HTTP basic auth.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

// NewClient creates a new ELO bot API client.
func NewClient(baseURL, username, password string) *Client {
	return &Client{
		baseURL:  baseURL,
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Game retrieves a game by its ELO bot ID.
func (c *Client) Game(ctx context.Context, id int64) (*Game, error) {
	var game Game
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/games/%d", id), nil, &game); err != nil {
		return nil, fmt.Errorf("failed to get elo game %d: %w", id, err)
	}
	return &game, nil
}

// User retrieves ELO bot user data by Discord ID.
func (c *Client) User(ctx context.Context, discordID int64) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", discordID), nil, &user); err != nil {
		return nil, fmt.Errorf("failed to get elo user %d: %w", discordID, err)
	}
	return &user, nil
}

// NewGame registers a game with the ELO bot and returns its ID.
func (c *Client) NewGame(ctx context.Context, game NewGame) (int64, error) {
	var result struct {
		GameID int64 `json:"game_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/game/new", game, &result); err != nil {
		return 0, fmt.Errorf("failed to create elo game: %w", err)
	}
	return result.GameID, nil
}

// do performs a request and decodes the JSON response into result.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewBuffer(encoded)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusInternalServerError {
		return &APIError{Code: resp.StatusCode, Detail: "internal server error"}
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil {
			return &APIError{Code: resp.StatusCode, Detail: "unexpected response"}
		}
		return &APIError{Code: resp.StatusCode, Detail: apiErr.Detail}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
