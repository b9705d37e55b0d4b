package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edpop/explorer/pkg/errors"
)

func testConfig() *HTTPConfig {
	cfg := DefaultHTTPConfig()
	cfg.RateLimit = 0
	cfg.RetryAttempts = 2
	cfg.RetryDelay = time.Millisecond
	return cfg
}

func TestGetBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	c := NewHTTPClient(testConfig(), zap.NewNop())
	defer c.Close()

	body, err := c.GetBody(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))
}

func TestGetBodyNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewHTTPClient(testConfig(), zap.NewNop())
	defer c.Close()

	_, err := c.GetBody(context.Background(), srv.URL+"/missing", nil)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestGetBodyRetriesServerErrors(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&hits, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := NewHTTPClient(testConfig(), zap.NewNop())
	defer c.Close()

	body, err := c.GetBody(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, int64(2), atomic.LoadInt64(&hits))
}

func TestGetBodyDoesNotRetryClientErrors(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewHTTPClient(testConfig(), zap.NewNop())
	defer c.Close()

	_, err := c.GetBody(context.Background(), srv.URL, nil)
	require.Error(t, err)
	assert.Equal(t, int64(1), atomic.LoadInt64(&hits))
}

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(`{"name":"gallica","hits":12}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(testConfig(), zap.NewNop())
	defer c.Close()

	var out struct {
		Name string `json:"name"`
		Hits int    `json:"hits"`
	}
	require.NoError(t, c.GetJSON(context.Background(), srv.URL, nil, &out))
	assert.Equal(t, "gallica", out.Name)
	assert.Equal(t, 12, out.Hits)
}

func TestRetryPolicyStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rp := NewRetryPolicy(3, 50*time.Millisecond)
	err := rp.Execute(ctx, func() error {
		return errors.New(errors.ErrorTypeTransport, "boom")
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
