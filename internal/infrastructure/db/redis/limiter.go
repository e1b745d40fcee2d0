package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const limiterTimeout = 250 * time.Millisecond

// Fixed-window counter: the first hit in a window arms the expiry.
const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// RateLimiter counts attempts per key in a fixed window.
// Key format: <prefix>:<key>
type RateLimiter struct {
	client redis.Scripter
	script *redis.Script
	limit  int
	window time.Duration
	prefix string
}

// NewRateLimiter returns nil when client is nil; a nil limiter allows everything.
func NewRateLimiter(client *redis.Client, limit int, window time.Duration, prefix string) *RateLimiter {
	if client == nil {
		return nil
	}
	return &RateLimiter{
		client: client,
		script: redis.NewScript(rateLimitScript),
		limit:  limit,
		window: window,
		prefix: prefix,
	}
}

// Allow reports whether another attempt for key fits in the current window.
// Errors are returned alongside true so callers can fail open.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l == nil || l.limit <= 0 || l.window <= 0 || key == "" {
		return true, nil
	}

	ttl := l.window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}

	ctx, cancel := context.WithTimeout(ctx, limiterTimeout)
	defer cancel()

	allowed, err := l.script.Run(ctx, l.client, []string{l.key(key)}, ttl, l.limit).Int64()
	if err != nil {
		return true, fmt.Errorf("rate limit %s: %w", key, err)
	}
	return allowed == 1, nil
}

func (l *RateLimiter) key(k string) string {
	if l.prefix == "" {
		return k
	}
	return l.prefix + ":" + k
}
