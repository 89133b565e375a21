package main

import (
	"context"

	"go.uber.org/zap"

	config "github.com/NordCoder/Cookbook/internal/config/auth-service"
	"github.com/NordCoder/Cookbook/internal/obs"
)

func initOTel(ctx context.Context, cfg *config.Config, logger *zap.Logger) (func(context.Context) error, error) {
	closer, err := obs.SetupOTel(ctx, cfg.OTEL.AsOTELConfig())
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context) error { return closer.Shutdown(ctx) }, nil
}
