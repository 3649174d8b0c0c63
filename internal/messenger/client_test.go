package messenger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		apiToken:   "test-token",
	}
}

func TestSendMessage(t *testing.T) {
	var got sendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/me/messages", r.URL.Path)
		assert.Equal(t, "test-token", r.URL.Query().Get("access_token"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	err := client.SendMessage(context.Background(), "12345", "✅ Done")
	require.NoError(t, err)
	assert.Equal(t, "12345", got.Recipient.ID)
	assert.Equal(t, "✅ Done", got.Message.Text)
}

func TestSendMessageNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad token"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	err := client.SendMessage(context.Background(), "12345", "hi")
	assert.Error(t, err)
}

func TestGetUserName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/12345", r.URL.Path)
		assert.Equal(t, "first_name", r.URL.Query().Get("fields"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"first_name":"Alice","id":"12345"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	name, err := client.GetUserName(context.Background(), "12345")
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)
}

func TestGetUserNameMissingField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"12345"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.GetUserName(context.Background(), "12345")
	assert.Error(t, err)
}
