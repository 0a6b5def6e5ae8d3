package app

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/crm/internal/redisx"
)

// initRedis подключает Redis-кеш отчётов если addr не пустой.
// Недоступный Redis не валит запуск: сервис работает без кеша.
func initRedis(ctx context.Context, addr string, logger *log.Entry) *redis.Client {
	if addr == "" {
		return nil
	}

	rdb := redisx.New(addr)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := redisx.Ping(pingCtx, rdb); err != nil {
		logger.WithError(err).Warn("redis is not reachable, continuing without report cache")
		_ = rdb.Close()
		return nil
	}

	logger.WithField("addr", addr).Info("redis report cache initialized")
	return rdb
}
