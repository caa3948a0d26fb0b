package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/vasapolrittideah/mobile-onboarding/services/mobile-client/internal/app"
	"github.com/vasapolrittideah/mobile-onboarding/services/mobile-client/internal/config"
	"github.com/vasapolrittideah/mobile-onboarding/services/mobile-client/internal/otpclient"
	"github.com/vasapolrittideah/mobile-onboarding/services/mobile-client/internal/preference"
	"github.com/vasapolrittideah/mobile-onboarding/services/mobile-client/internal/terminal"
	"github.com/vasapolrittideah/mobile-onboarding/shared/logger"
	"github.com/vasapolrittideah/mobile-onboarding/shared/utilities"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := logger.New("mobile-client", "info", "console")
		bootLogger.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New("mobile-client", cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var prefs preference.Store = preference.NewMemory()
	if cfg.PreferencesPath != "" {
		sqliteStore, err := preference.OpenSQLite(cfg.PreferencesPath)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.PreferencesPath).Msg("failed to open preferences, keeping them in memory")
		} else {
			defer sqliteStore.Close()
			prefs = sqliteStore
		}
	}

	target := utilities.DialTarget(cfg.ConsulAddr, cfg.AuthService.Name, cfg.AuthService.Addr)
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatal().Err(err).Str("target", target).Msg("failed to create auth service client")
	}
	defer conn.Close()

	client := otpclient.New(conn, cfg.AuthService.VerifyTimeout, log)
	term := terminal.New(os.Stdin, os.Stdout, log)

	a, err := app.New(ctx, app.Deps{
		Preferences:   prefs,
		Verifier:      client,
		Sender:        client,
		Revoker:       client,
		Renderer:      term,
		RevokeTimeout: cfg.AuthService.RevokeTimeout,
		Logger:        log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start client")
	}
	defer a.Close()

	if err := term.Run(ctx, a); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("onboarding stopped")
	}
}
