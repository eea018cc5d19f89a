package dispatcher

import (
	"strconv"
	"sync"
	"time"

	"github.com/valyala/fasthttp"
)

type bucket struct {
	remaining int
	limit     int
	resetAt   time.Time
}

// RateLimitMonitor tracks per-route, per-guild rate-limit buckets from
// Discord's response headers and refuses calls that would run into a known
// exhausted bucket.
type RateLimitMonitor struct {
	mu      sync.RWMutex
	buckets map[string]*bucket
}

func NewRateLimitMonitor() *RateLimitMonitor {
	return &RateLimitMonitor{buckets: make(map[string]*bucket)}
}

func bucketKey(route, guildID string) string {
	return route + ":" + guildID
}

// CanExecute reports whether a call on the route may proceed right now.
// Unknown routes are always allowed.
func (m *RateLimitMonitor) CanExecute(route, guildID string) bool {
	m.mu.RLock()
	b, ok := m.buckets[bucketKey(route, guildID)]
	m.mu.RUnlock()

	if !ok || time.Now().After(b.resetAt) {
		return true
	}
	return b.remaining > 0
}

// Observe updates the route's bucket from a completed response.
func (m *RateLimitMonitor) Observe(resp *fasthttp.Response, route, guildID string) {
	b := &bucket{}

	if v := string(resp.Header.Peek("X-RateLimit-Remaining")); v != "" {
		b.remaining, _ = strconv.Atoi(v)
	}
	if v := string(resp.Header.Peek("X-RateLimit-Limit")); v != "" {
		b.limit, _ = strconv.Atoi(v)
	}
	if v := string(resp.Header.Peek("X-RateLimit-Reset")); v != "" {
		reset, _ := strconv.ParseFloat(v, 64)
		b.resetAt = time.Unix(int64(reset), 0)
	}

	m.mu.Lock()
	m.buckets[bucketKey(route, guildID)] = b
	m.mu.Unlock()
}
