package app

import (
	"github.com/redis/go-redis/v9"

	"github.com/edusphere/edusphere-backend/internal/logger"
)

// newRedisClient returns nil when REDIS_ADDR is unset; the SSE hub then
// runs single-instance.
func newRedisClient(cfg Config, log *logger.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		log.Info("Redis not configured; SSE fan-out is local only")
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
}
