package main

import (
	"context"

	"go.uber.org/zap"

	config "github.com/NordCoder/Cookbook/internal/config/auth-service"
	pg "github.com/NordCoder/Cookbook/internal/repository/postgres"
)

func initDB(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pg.DB, error) {
	return pg.NewDB(ctx, cfg.DB)
}
