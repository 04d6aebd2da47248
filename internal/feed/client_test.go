package feed_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/flightline/metar-cache-service/internal/feed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(`{"features":[]}`))
	}))
	defer srv.Close()

	c := feed.NewClient(srv.URL, 5*time.Second, 100, slog.Default())

	payload, err := c.Fetch(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"features":[]}`, string(payload))
}

func TestFetchNonSuccessStatusIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := feed.NewClient(srv.URL, 5*time.Second, 100, slog.Default())

	_, err := c.Fetch(context.Background())
	assert.ErrorContains(t, err, "502")
}

func TestFetchTransportErrorIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // nothing is listening anymore

	c := feed.NewClient(srv.URL, time.Second, 100, slog.Default())

	_, err := c.Fetch(context.Background())
	assert.Error(t, err)
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := feed.NewClient(srv.URL, 5*time.Second, 1000, slog.Default())

	for i := 0; i < 3; i++ {
		_, err := c.Fetch(context.Background())
		require.Error(t, err)
	}

	_, err := c.Fetch(context.Background())
	assert.ErrorIs(t, err, feed.ErrCircuitOpen)
}

func TestFetchHonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := feed.NewClient(srv.URL, 30*time.Second, 100, slog.Default())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Fetch(ctx)
	assert.Error(t, err)
}
