package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/vasapolrittideah/mobile-onboarding/services/api-gateway/internal/config"
	"github.com/vasapolrittideah/mobile-onboarding/services/api-gateway/internal/handler"
	"github.com/vasapolrittideah/mobile-onboarding/shared/logger"
	"github.com/vasapolrittideah/mobile-onboarding/shared/otprpc"
	"github.com/vasapolrittideah/mobile-onboarding/shared/utilities"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := logger.New("api-gateway", "info", "json")
		bootLogger.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(cfg.ServiceName, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	target := utilities.DialTarget(cfg.ConsulAddr, cfg.AuthService.Name, cfg.AuthService.Addr)
	conn, err := grpc.NewClient(target,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultServiceConfig(`{"loadBalancingPolicy":"round_robin"}`),
	)
	if err != nil {
		log.Fatal().Err(err).Str("target", target).Msg("failed to create auth service client")
	}
	defer conn.Close()

	authHandler := handler.NewAuthHTTPHandler(otprpc.NewOTPServiceClient(conn), log)
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.NewRouter(authHandler, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("auth_target", target).Msg("api gateway listening")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down api gateway")
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server stopped unexpectedly")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("failed to shut down http server cleanly")
	}
}
