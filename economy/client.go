// Package economy wraps the currency bot's HTTP API. Player cash lives in
// that bot, not in our database; bets debit and credit it directly.
package economy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// balance is a user's balance as reported by the currency bot.
type balance struct {
	Cash  int64 `json:"cash"`
	Bank  int64 `json:"bank"`
	Total int64 `json:"total"`
}

// APIError is an error response from the currency bot.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("economy api error %d: %s", e.Code, e.Message)
}

// Client is a currency bot API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new currency bot API client.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Balance fetches a user's cash balance.
func (c *Client) Balance(ctx context.Context, guildID, userID int64) (int64, error) {
	path := fmt.Sprintf("/guilds/%d/users/%d", guildID, userID)

	var bal balance
	if err := c.do(ctx, http.MethodGet, path, nil, &bal); err != nil {
		return 0, fmt.Errorf("failed to get balance for user %d: %w", userID, err)
	}
	return bal.Cash, nil
}

// Adjust applies a signed delta to a user's cash balance. The reason shows
// up in the currency bot's audit log.
func (c *Client) Adjust(ctx context.Context, guildID, userID, delta int64, reason string) error {
	path := fmt.Sprintf("/guilds/%d/users/%d", guildID, userID)
	body := map[string]any{
		"cash":   delta,
		"reason": reason,
	}

	var bal balance
	if err := c.do(ctx, http.MethodPatch, path, body, &bal); err != nil {
		return fmt.Errorf("failed to adjust balance for user %d by %d: %w", userID, delta, err)
	}
	return nil
}

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
	req.Header.Set("Authorization", c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Message == "" {
			return &APIError{Code: resp.StatusCode, Message: "unexpected response"}
		}
		return &APIError{Code: resp.StatusCode, Message: apiErr.Message}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
