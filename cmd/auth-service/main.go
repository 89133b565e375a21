package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	config "github.com/NordCoder/Cookbook/internal/config/auth-service"
	"github.com/NordCoder/Cookbook/internal/obs"
	"github.com/NordCoder/Cookbook/internal/repository/kafka"
	pg "github.com/NordCoder/Cookbook/internal/repository/postgres"
	"github.com/NordCoder/Cookbook/internal/revocation"
	"github.com/NordCoder/Cookbook/internal/services/auth-service/auth"
	"github.com/NordCoder/Cookbook/internal/token"
)

func wiring(cfg *config.Config, db *pg.DB, store *revocation.Store, producer *kafka.Producer, logger *zap.Logger) *auth.Usecase {
	codec := token.NewCodec([]byte(cfg.Auth.JWTSecret))
	issuer := token.NewIssuer(codec, cfg.Auth.AccessTTL, cfg.Auth.ResetTTL)
	validator := token.NewValidator(codec, store)

	return auth.NewUsecase(auth.Deps{
		Users:     pg.NewUserRepo(db),
		Codes:     pg.NewVerificationRepo(db),
		Tx:        pg.NewTransactor(db, logger),
		Issuer:    issuer,
		Validator: validator,
		Codec:     codec,
		Revoked:   store,
		Mail:      kafka.NewMailJobsKafka(producer, logger),
		Logger:    logger,
	}, auth.Config{FrontendURL: cfg.Auth.FrontendURL})
}

func main() {
	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load("../config/auth-service.yaml")
	if err != nil {
		panic(err)
	}

	logger, err := initLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting auth-service", zap.String("env", cfg.App.Env), zap.String("ver", cfg.App.Version))

	otelShutdown, err := initOTel(rootCtx, cfg, logger)
	if err != nil {
		logger.Fatal("otel init", zap.Error(err))
	}
	defer func() { _ = otelShutdown(rootCtx) }()

	db, err := initDB(rootCtx, cfg, logger)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	rdb := initRedis(rootCtx, cfg, logger)
	defer func() { _ = rdb.Close() }()
	store := revocation.New(rdb, cfg.Redis.Timeout, logger)

	producer := kafka.NewProducer(cfg.Out.Brokers, cfg.Out.Topic)
	defer func() { _ = producer.Close() }()

	uc := wiring(cfg, db, store, producer, logger)

	grpcServer, grpcLn, err := buildGRPCServer(cfg, logger, uc)
	if err != nil {
		logger.Fatal("build grpc", zap.Error(err))
	}

	grpcErrCh := make(chan error, 1)
	go func() { grpcErrCh <- serveGRPC(grpcServer, grpcLn, cfg, logger) }()

	ms := obs.BootstrapMetricsServer(cfg.Server.MetricsAddr, func(ctx context.Context) error {
		hctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
		defer cancel()
		return db.Pool.Ping(hctx)
	}, logger)

	var runErr error
	select {
	case <-rootCtx.Done():
		logger.Info("shutdown signal", zap.String("reason", "context canceled"))
	case runErr = <-grpcErrCh:
		if runErr != nil {
			logger.Error("grpc serve", zap.Error(runErr))
		}
	}

	shCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()

	_ = ms.Shutdown(shCtx)
	gracefulStopGRPC(grpcServer)

	time.Sleep(100 * time.Millisecond)
	logger.Info("bye")
}
