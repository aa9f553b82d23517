package rest

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Defaults(t *testing.T) {
	r := NewRateLimiter(0, 0)
	assert.Equal(t, DefaultBurst, r.bucket.Burst())
	assert.InDelta(t, float64(DefaultRequestsPerSecond), float64(r.bucket.Limit()), 0.001)
}

func TestRateLimiter_RetryAfter(t *testing.T) {
	r := NewRateLimiter(100, 10)

	r.UpdateFromResponse(&http.Response{StatusCode: http.StatusOK, Header: http.Header{HeaderRetryAfter: {"30"}}})
	assert.True(t, r.BlockedUntil().IsZero())

	r.UpdateFromResponse(&http.Response{StatusCode: http.StatusTooManyRequests, Header: http.Header{HeaderRetryAfter: {"30"}}})
	assert.WithinDuration(t, time.Now().Add(30*time.Second), r.BlockedUntil(), 2*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, r.Wait(ctx), context.DeadlineExceeded)
}

func TestRateLimiter_WaitPasses(t *testing.T) {
	r := NewRateLimiter(100, 10)
	require.NoError(t, r.Wait(context.Background()))
	r.UpdateFromResponse(nil)
}
