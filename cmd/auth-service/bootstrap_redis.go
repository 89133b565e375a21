package main

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	config "github.com/NordCoder/Cookbook/internal/config/auth-service"
)

// initRedis connects to the denylist store. A dead Redis is not fatal: the
// revocation store degrades to its in-process fallback, so we log and go on.
func initRedis(ctx context.Context, cfg *config.Config, logger *zap.Logger) redis.UniversalClient {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pctx, cancel := context.WithTimeout(ctx, cfg.Redis.Timeout)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		logger.Warn("redis ping", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	} else {
		logger.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	}
	return rdb
}
