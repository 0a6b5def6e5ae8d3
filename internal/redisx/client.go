package redisx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// New создаёт Redis-клиент с коротким таймаутом операций.
func New(addr string) *redis.Client {
	r := redis.NewClient(&redis.Options{Addr: addr})
	_ = r.WithTimeout(2 * time.Second)
	return r
}

// Ping проверяет доступность Redis.
func Ping(ctx context.Context, rdb *redis.Client) error {
	return rdb.Ping(ctx).Err()
}
