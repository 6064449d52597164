package economy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Balance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token123", r.Header.Get("Authorization"))
		assert.Equal(t, "/guilds/100/users/42", r.URL.Path)

		json.NewEncoder(w).Encode(balance{Cash: 1500, Bank: 200, Total: 1700})
	}))
	defer server.Close()

	client := NewClient(server.URL, "token123")

	cash, err := client.Balance(context.Background(), 100, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), cash)
}

func TestClient_Adjust(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, float64(-250), payload["cash"])
		assert.Equal(t, "bet on game skirmish3-k3x9a1", payload["reason"])

		json.NewEncoder(w).Encode(balance{Cash: 1250})
	}))
	defer server.Close()

	client := NewClient(server.URL, "token123")

	err := client.Adjust(context.Background(), 100, 42, -250, "bet on game skirmish3-k3x9a1")
	require.NoError(t, err)
}

func TestClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "401: Unauthorized"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-token")

	_, err := client.Balance(context.Background(), 100, 42)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Code)
}
