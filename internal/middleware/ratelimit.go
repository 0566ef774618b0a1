package middleware

import (
	"context"
	"sync"
	"time"

	"campusjobs_backend/internal/logger"
	"campusjobs_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Limiter решает, укладывается ли очередной запрос с ключом key в лимит окна
type Limiter interface {
	Allow(key string, limit int, window time.Duration) bool
}

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

// RedisLimiter - фиксированное окно на INCR+PEXPIRE. При недоступности redis пропускает запросы.
type RedisLimiter struct {
	client *redis.Client
	script *redis.Script
}

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	if client == nil {
		return nil
	}
	return &RedisLimiter{
		client: client,
		script: redis.NewScript(rateLimitScript),
	}
}

func (l *RedisLimiter) Allow(key string, limit int, window time.Duration) bool {
	if l == nil || l.client == nil {
		return true
	}
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	ttl := window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}
	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	allowed, err := l.script.Run(ctx, l.client, []string{key}, ttl, limit).Int64()
	if err != nil {
		logger.Warn("rate limiter unavailable", "error", err)
		return true
	}
	return allowed == 1
}

// MemoryLimiter - лимитер в памяти процесса, используется без redis
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rateBucket
	now     func() time.Time
}

type rateBucket struct {
	count     int
	windowEnd time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{buckets: make(map[string]*rateBucket), now: time.Now}
}

func (m *MemoryLimiter) Allow(key string, limit int, window time.Duration) bool {
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	bucket, ok := m.buckets[key]
	if !ok || now.After(bucket.windowEnd) {
		m.buckets[key] = &rateBucket{count: 1, windowEnd: now.Add(window)}
		return true
	}
	if bucket.count >= limit {
		return false
	}
	bucket.count++
	return true
}

// RateLimitMiddleware ограничивает число запросов с одного IP в окне
func RateLimitMiddleware(limiter Limiter, prefix string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		key := "ratelimit:" + prefix + ":" + c.ClientIP()
		if !limiter.Allow(key, limit, window) {
			apperrors.HandleError(c, apperrors.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
