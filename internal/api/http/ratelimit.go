package http

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/cms-service/internal/config"
	"github.com/spec-kit/cms-service/pkg/envelope"
)

const (
	rateLimitKeyPrefix = "ratelimit:ip:"

	msgTooManyRequests = "Too many requests, please try again later"
)

// tokenBucketScript implements an atomic token bucket: refill based on
// elapsed time, then consume one token if available.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])
	local burst = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])
	local ttl = tonumber(ARGV[4])

	local data = redis.call('HMGET', key, 'tokens', 'last_update')
	local tokens = tonumber(data[1]) or burst
	local last_update = tonumber(data[2]) or now

	local elapsed = now - last_update
	tokens = math.min(burst, tokens + (elapsed * rate))

	local allowed = 0
	local retry_after = 0

	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	else
		retry_after = math.ceil((1 - tokens) / rate)
	end

	redis.call('HMSET', key, 'tokens', tokens, 'last_update', now)
	redis.call('EXPIRE', key, ttl)

	return {allowed, retry_after}
`)

// RateLimiter throttles requests per client IP using Redis. When Redis is
// unreachable the limiter fails open so the API stays available.
type RateLimiter struct {
	client *redis.Client
	logger *zap.Logger
	rate   float64
	burst  int
	ttl    int
}

// NewRateLimiter builds a limiter from configuration. Returns nil when
// disabled, which callers treat as "no limiting".
func NewRateLimiter(cfg config.RateLimitConfig, client *redis.Client, logger *zap.Logger) *RateLimiter {
	if !cfg.Enabled || client == nil || cfg.Max <= 0 || cfg.WindowSeconds <= 0 {
		return nil
	}
	return &RateLimiter{
		client: client,
		logger: logger,
		rate:   float64(cfg.Max) / float64(cfg.WindowSeconds),
		burst:  cfg.Max,
		ttl:    cfg.WindowSeconds * 2,
	}
}

// Handle is the Fiber middleware entry point.
func (l *RateLimiter) Handle(c *fiber.Ctx) error {
	key := rateLimitKeyPrefix + hashIP(c.IP())

	result, err := tokenBucketScript.Run(c.Context(), l.client,
		[]string{key},
		l.rate, l.burst, time.Now().Unix(), l.ttl,
	).Int64Slice()
	if err != nil {
		l.logger.Warn("rate limiter unavailable, allowing request", zap.Error(err))
		return c.Next()
	}

	if len(result) < 2 || result[0] == 1 {
		return c.Next()
	}

	c.Set(fiber.HeaderRetryAfter, strconv.FormatInt(result[1], 10))
	return envelope.Fail(c, msgTooManyRequests, http.StatusTooManyRequests, nil)
}

// hashIP stores a truncated SHA256 of the address instead of the raw IP.
func hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:8])
}
