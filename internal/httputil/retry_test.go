// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodnservice/article-engine/pkg/types"
)

func init() {
	// Tiny base delay so retry tests finish quickly.
	RetryBaseDelay = 1 * time.Millisecond
}

// rateLimitServer returns 429 for the first reject requests, then 200.
// It records every request body it receives.
func rateLimitServer(t *testing.T, reject int) (*httptest.Server, func() []string) {
	t.Helper()

	var mu sync.Mutex
	var bodies []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		mu.Lock()
		bodies = append(bodies, string(data))
		n := len(bodies)
		mu.Unlock()

		if n <= reject {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(ts.Close)

	return ts, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), bodies...)
	}
}

func TestDoWithRetryImmediateSuccess(t *testing.T) {
	ts, calls := rateLimitServer(t, 0)

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	resp, err := DoWithRetry(context.Background(), ts.Client(), req, 5)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, calls(), 1)
}

func TestDoWithRetryRetriesUntilAccepted(t *testing.T) {
	ts, calls := rateLimitServer(t, 2)

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	resp, err := DoWithRetry(context.Background(), ts.Client(), req, 5)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, calls(), 3)
}

func TestDoWithRetryResendsBodyOnRetry(t *testing.T) {
	ts, calls := rateLimitServer(t, 1)

	payload := `{"title":"Quick Pasta","status":"publish"}`
	req, err := http.NewRequest(http.MethodPost, ts.URL, strings.NewReader(payload))
	require.NoError(t, err)

	resp, err := DoWithRetry(context.Background(), ts.Client(), req, 5)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	// The rejected attempt consumed the body; the retry must carry it again.
	assert.Equal(t, []string{payload, payload}, calls())
}

func TestDoWithRetryResendsBufferedBody(t *testing.T) {
	ts, calls := rateLimitServer(t, 1)

	// bytes.Buffer is what the media upload builds its multipart form in.
	req, err := http.NewRequest(http.MethodPost, ts.URL, bytes.NewBuffer([]byte("form-bytes")))
	require.NoError(t, err)

	resp, err := DoWithRetry(context.Background(), ts.Client(), req, 5)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, []string{"form-bytes", "form-bytes"}, calls())
}

func TestDoWithRetryExhaustsRetries(t *testing.T) {
	ts, calls := rateLimitServer(t, 100)

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	resp, err := DoWithRetry(context.Background(), ts.Client(), req, 3)
	require.NoError(t, err)
	defer resp.Body.Close()

	// The last 429 is handed back for inspection after 1 + 3 attempts.
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Len(t, calls(), 4)
}

func TestDoWithRetryDefaultMaxRetries(t *testing.T) {
	ts, calls := rateLimitServer(t, 100)

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	resp, err := DoWithRetry(context.Background(), ts.Client(), req, 0)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Len(t, calls(), 6, "1 initial + 5 default retries")
}

func TestDoWithRetryContextCancelledDuringBackoff(t *testing.T) {
	ts, _ := rateLimitServer(t, 100)

	// Long base delay so the context deadline lands inside the wait.
	old := RetryBaseDelay
	RetryBaseDelay = 500 * time.Millisecond
	defer func() { RetryBaseDelay = old }()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	_, err = DoWithRetry(ctx, ts.Client(), req, 5)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDoWithRetryNon429PassesThrough(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	resp, err := DoWithRetry(context.Background(), ts.Client(), req, 5)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, 1, calls)
}

func TestNewClientDefaultTimeout(t *testing.T) {
	c := NewClient(types.HTTPConfig{})
	assert.Equal(t, 30*time.Second, c.Timeout)

	c = NewClient(types.HTTPConfig{Timeout: 5 * time.Second})
	assert.Equal(t, 5*time.Second, c.Timeout)
}
