package dispatcher

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/mizuki1229/Discord-gekou/internal/logging"
	"github.com/mizuki1229/Discord-gekou/pkg/util"
)

// ErrActionFailed indicates an outbound platform action was rejected (bad
// status, rate limit, transport error). Anything the caller already applied
// locally stays applied.
var ErrActionFailed = errors.New("platform action failed")

const callTimeout = 3 * time.Second

// Executor issues the destructive REST calls (ban, timed restriction)
// directly against the Discord API.
type Executor struct {
	pool    *HTTPPool
	limiter *RateLimitMonitor
	baseURL string
	token   string
}

func NewExecutor(pool *HTTPPool, limiter *RateLimitMonitor, baseURL, token string) *Executor {
	return &Executor{pool: pool, limiter: limiter, baseURL: baseURL, token: token}
}

func (e *Executor) do(method, route, url, auditReason string, guildID string, body interface{}) error {
	if !e.limiter.CanExecute(route, guildID) {
		return fmt.Errorf("%w: rate limited (%s)", ErrActionFailed, route)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(method)
	req.Header.Set("Authorization", "Bot "+e.token)
	if auditReason != "" {
		req.Header.Set("X-Audit-Log-Reason", auditReason)
	}
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encode body: %v", ErrActionFailed, err)
		}
		req.Header.SetContentType("application/json")
		req.SetBody(payload)
	}

	start := time.Now()
	if err := e.pool.Client().DoTimeout(req, resp, callTimeout); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrActionFailed, route, err)
	}
	e.limiter.Observe(resp, route, guildID)

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		logging.Error("dispatcher: %s %s status %d (%d ms)",
			method, route, status, time.Since(start).Milliseconds())
		return fmt.Errorf("%w: %s returned status %d", ErrActionFailed, route, status)
	}

	logging.Debug("dispatcher: %s %s ok in %d ms", method, route, time.Since(start).Milliseconds())
	return nil
}

// BanMember bans a user from a guild with an audit-log reason.
func (e *Executor) BanMember(guildID, userID, reason string) error {
	g, err := util.SnowflakeToUint64(guildID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrActionFailed, err)
	}
	u, err := util.SnowflakeToUint64(userID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrActionFailed, err)
	}

	url := fmt.Sprintf("%s/guilds/%d/bans/%d", e.baseURL, g, u)
	return e.do(fasthttp.MethodPut, "ban", url, reason, guildID, map[string]interface{}{
		"delete_message_seconds": 0,
	})
}

// RestrictMember applies a timed communication restriction to a member.
func (e *Executor) RestrictMember(guildID, userID string, duration time.Duration, reason string) error {
	g, err := util.SnowflakeToUint64(guildID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrActionFailed, err)
	}
	u, err := util.SnowflakeToUint64(userID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrActionFailed, err)
	}

	until := time.Now().Add(duration).UTC().Format(time.RFC3339)
	url := fmt.Sprintf("%s/guilds/%d/members/%d", e.baseURL, g, u)
	return e.do(fasthttp.MethodPatch, "timeout", url, reason, guildID, map[string]interface{}{
		"communication_disabled_until": until,
	})
}
