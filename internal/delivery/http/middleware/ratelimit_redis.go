package middleware

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

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

// RedisLimiter shares counters across instances. When Redis fails it falls
// back to the local limiter instead of letting every request through.
type RedisLimiter struct {
	client   redis.Scripter
	script   *redis.Script
	fallback Limiter
}

func NewRedisLimiter(client redis.Scripter, fallback Limiter) *RedisLimiter {
	return &RedisLimiter{
		client:   client,
		script:   redis.NewScript(rateLimitScript),
		fallback: fallback,
	}
}

func (l *RedisLimiter) Allow(key string, limit int, window time.Duration) bool {
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	if l == nil || l.client == nil {
		return l.fallbackAllow(key, limit, window)
	}

	ttl := window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}
	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()

	allowed, err := l.script.Run(ctx, l.client, []string{key}, ttl, limit).Int64()
	if err != nil {
		return l.fallbackAllow(key, limit, window)
	}
	return allowed == 1
}

func (l *RedisLimiter) fallbackAllow(key string, limit int, window time.Duration) bool {
	if l == nil || l.fallback == nil {
		return true
	}
	return l.fallback.Allow(key, limit, window)
}
