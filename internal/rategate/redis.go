package rategate

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// slidingWindowScript reproduces the MemoryLimiter semantics atomically in
// Redis so that multiple instances share one view of a client.
// Returns {allowed, retry_after_ms}.
var slidingWindowScript = redis.NewScript(`
local now_ms = tonumber(ARGV[1])
local window_ms = tonumber(ARGV[2])
local threshold = tonumber(ARGV[3])
local block_ms = tonumber(ARGV[4])

local key = KEYS[1]

local block_until = tonumber(redis.call("HGET", key, "block_until") or "0")
if block_until > 0 then
  if now_ms < block_until then
    return {0, block_until - now_ms}
  end
  redis.call("DEL", key)
end

local first = tonumber(redis.call("HGET", key, "first") or "0")
local count = tonumber(redis.call("HGET", key, "count") or "0")

if first == 0 or (now_ms - first) >= window_ms then
  redis.call("HSET", key, "first", now_ms, "count", 1, "block_until", 0)
  redis.call("PEXPIRE", key, window_ms * 2)
  return {1, 0}
end

count = count + 1
if count > threshold then
  redis.call("HSET", key, "count", count, "block_until", now_ms + block_ms)
  redis.call("PEXPIRE", key, block_ms)
  return {0, block_ms}
end

redis.call("HSET", key, "count", count)
redis.call("PEXPIRE", key, window_ms * 2)
return {1, 0}
`)

// RedisLimiter shares rate state across instances through Redis.
type RedisLimiter struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisLimiter(client redis.UniversalClient, prefix string) *RedisLimiter {
	if prefix == "" {
		prefix = "rategate"
	}
	return &RedisLimiter{client: client, prefix: prefix}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	if l.client == nil {
		return Decision{}, fmt.Errorf("redis client is nil")
	}
	if key == "" {
		key = "unknown"
	}

	raw, err := slidingWindowScript.Run(
		ctx,
		l.client,
		[]string{l.prefix + ":" + key},
		time.Now().UnixMilli(),
		Window.Milliseconds(),
		Threshold,
		BlockDuration.Milliseconds(),
	).Result()
	if err != nil {
		return Decision{}, err
	}

	values, ok := raw.([]interface{})
	if !ok || len(values) != 2 {
		return Decision{}, fmt.Errorf("unexpected redis script response %T", raw)
	}
	allowed, ok := values[0].(int64)
	if !ok {
		return Decision{}, fmt.Errorf("unexpected redis script response element %T", values[0])
	}
	retryMS, ok := values[1].(int64)
	if !ok {
		return Decision{}, fmt.Errorf("unexpected redis script response element %T", values[1])
	}

	return Decision{
		Allowed:    allowed == 1,
		RetryAfter: time.Duration(retryMS) * time.Millisecond,
	}, nil
}
