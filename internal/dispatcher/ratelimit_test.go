package dispatcher

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"
)

func TestUnknownRouteIsAllowed(t *testing.T) {
	m := NewRateLimitMonitor()
	assert.True(t, m.CanExecute("ban", "g1"))
}

func TestExhaustedBucketBlocksUntilReset(t *testing.T) {
	m := NewRateLimitMonitor()

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)
	resp.Header.Set("X-RateLimit-Remaining", "0")
	resp.Header.Set("X-RateLimit-Limit", "5")
	resp.Header.Set("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(time.Hour).Unix()))

	m.Observe(resp, "ban", "g1")

	assert.False(t, m.CanExecute("ban", "g1"))
	assert.True(t, m.CanExecute("ban", "g2"), "buckets are per guild")
	assert.True(t, m.CanExecute("timeout", "g1"), "buckets are per route")
}

func TestPastResetIsAllowedAgain(t *testing.T) {
	m := NewRateLimitMonitor()

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)
	resp.Header.Set("X-RateLimit-Remaining", "0")
	resp.Header.Set("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(-time.Minute).Unix()))

	m.Observe(resp, "ban", "g1")
	assert.True(t, m.CanExecute("ban", "g1"))
}
