package revalidate

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmill/admin-api/config"
)

func testConfig(url string) config.RevalidateConfig {
	return config.RevalidateConfig{
		Enabled: true,
		URL:     url,
		Secret:  "test-secret",
		AckExpr: "revalidated",
		Timeout: 5 * time.Second,
	}
}

func newTestClient(t *testing.T, cfg config.RevalidateConfig) *Client {
	t.Helper()
	c, err := NewClient(ClientOptions{
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return c
}

type recordedRequest struct {
	Path   string
	Secret string
}

// ackServer acknowledges every revalidation request and records what it saw.
func ackServer(t *testing.T) (*httptest.Server, func() []recordedRequest) {
	t.Helper()

	var mu sync.Mutex
	var seen []recordedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Path string `json:"path"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		mu.Lock()
		seen = append(seen, recordedRequest{
			Path:   body.Path,
			Secret: r.Header.Get("x-revalidate-secret"),
		})
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"revalidated": true}`))
	}))
	t.Cleanup(srv.Close)

	return srv, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		out := make([]recordedRequest, len(seen))
		copy(out, seen)
		return out
	}
}

func TestClient_Revalidate_Acknowledged(t *testing.T) {
	srv, requests := ackServer(t)
	client := newTestClient(t, testConfig(srv.URL))

	err := client.Revalidate(context.Background(), []string{"/products", "/products/blue-mug"})
	require.NoError(t, err)

	seen := requests()
	require.Len(t, seen, 2)
	paths := []string{seen[0].Path, seen[1].Path}
	assert.ElementsMatch(t, []string{"/products", "/products/blue-mug"}, paths)
	for _, r := range seen {
		assert.Equal(t, "test-secret", r.Secret)
	}
}

func TestClient_Revalidate_NotAcknowledged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"revalidated": false}`))
	}))
	defer srv.Close()

	client := newTestClient(t, testConfig(srv.URL))

	err := client.Revalidate(context.Background(), []string{"/products"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not acknowledge")
}

func TestClient_Revalidate_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := newTestClient(t, testConfig(srv.URL))

	err := client.Revalidate(context.Background(), []string{"/products"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 401")
}

func TestClient_Revalidate_InvalidResponseJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := newTestClient(t, testConfig(srv.URL))

	err := client.Revalidate(context.Background(), []string{"/products"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid response JSON")
}

func TestClient_Revalidate_CustomAckExpr(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result": {"ok": true}}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.AckExpr = "result.ok"
	client := newTestClient(t, cfg)

	err := client.Revalidate(context.Background(), []string{"/categories"})
	require.NoError(t, err)
}

func TestClient_Revalidate_EmptyAckExprAcceptsAny2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.AckExpr = ""
	client := newTestClient(t, cfg)

	err := client.Revalidate(context.Background(), []string{"/products"})
	require.NoError(t, err)
}

func TestClient_Revalidate_Disabled(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		_, _ = w.Write([]byte(`{"revalidated": true}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Enabled = false
	client := newTestClient(t, cfg)

	err := client.Revalidate(context.Background(), []string{"/products"})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestClient_Revalidate_NoPaths(t *testing.T) {
	client := newTestClient(t, testConfig("http://localhost:0"))

	err := client.Revalidate(context.Background(), nil)
	require.NoError(t, err)
}

func TestNewClient_InvalidAckExpr(t *testing.T) {
	cfg := testConfig("http://localhost:3000")
	cfg.AckExpr = "not a [valid expression"

	_, err := NewClient(ClientOptions{Config: cfg})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid ack expression")
}

func TestClient_Async_DeliversInBackground(t *testing.T) {
	srv, requests := ackServer(t)
	client := newTestClient(t, testConfig(srv.URL))

	client.Async([]string{"/orders"})

	require.Eventually(t, func() bool {
		return len(requests()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "/orders", requests()[0].Path)
}
