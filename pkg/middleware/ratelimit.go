package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gomodule/redigo/redis"

	. "spotted/pkg/common"
	"spotted/pkg/logger"
	"spotted/pkg/sessions"
)

const rateNS = "spottedRate"

// RateLimit is a fixed window counter per client kept in Redis.
type RateLimit struct {
	pool   sessions.Pool
	max    int
	window time.Duration
	now    func() time.Time
}

func NewRateLimit(pool sessions.Pool, max int, window time.Duration) *RateLimit {
	return &RateLimit{
		pool:   pool,
		max:    max,
		window: window,
		now:    time.Now,
	}
}

// clientKey identifies the caller by user id when authenticated, by address otherwise.
func clientKey(r *http.Request) string {
	if u, err := sessions.GetAuthUser(r.Context()); err == nil {
		return "u:" + u.Id
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return "ip:" + strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}

// Allow counts the hit and reports whether the client is still within the limit.
func (rl *RateLimit) Allow(client string) (bool, error) {
	windowMs := rl.window.Milliseconds()
	if rl.max <= 0 || windowMs <= 0 {
		return true, nil
	}
	slot := rl.now().UnixMilli() / windowMs
	key := fmt.Sprintf("%s:%s:%d", rateNS, client, slot)

	conn := rl.pool.Get()
	defer conn.Close()

	n, err := redis.Int(conn.Do("INCR", key))
	if err != nil {
		return true, fmt.Errorf("middleware/ratelimit: INCR failed: %w", err)
	}
	if n == 1 {
		if _, err := conn.Do("PEXPIRE", key, windowMs); err != nil {
			return true, fmt.Errorf("middleware/ratelimit: PEXPIRE failed: %w", err)
		}
	}
	return n <= rl.max, nil
}

func (rl *RateLimit) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, err := rl.Allow(clientKey(r))
		if err != nil {
			// Redis trouble should not take the API down with it.
			logger.Log(r.Context()).Errorf("rate limit check failed: %v", err)
		}
		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			WriteErr(w, CodeRateLimited, "too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
