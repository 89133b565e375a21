package main

import (
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	config "github.com/NordCoder/Cookbook/internal/config/auth-service"
	"github.com/NordCoder/Cookbook/internal/obs"
	"github.com/NordCoder/Cookbook/internal/services/auth-service/auth"
	"github.com/NordCoder/Cookbook/internal/services/auth-service/authmw"
)

var publicFullMethods = map[string]bool{
	"/grpc.health.v1.Health/Check": true,
	"/grpc.health.v1.Health/Watch": true,
}

func buildGRPCServer(cfg *config.Config, logger *zap.Logger, uc *auth.Usecase) (*grpc.Server, net.Listener, error) {
	opts := obs.GRPCServerOpts()
	opts = append(opts,
		grpc.ChainUnaryInterceptor(
			authmw.UnaryAuthInterceptor(uc.ValidateAccess, publicFullMethods),
		),
	)

	grpcServer := grpc.NewServer(opts...)
	healthpb.RegisterHealthServer(grpcServer, health.NewServer())
	reflection.Register(grpcServer)

	ln, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		return nil, nil, err
	}
	return grpcServer, ln, nil
}

func serveGRPC(s *grpc.Server, ln net.Listener, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("grpc listening", zap.String("addr", cfg.Server.GRPCAddr))
	return s.Serve(ln)
}

func gracefulStopGRPC(s *grpc.Server) { s.GracefulStop() }
