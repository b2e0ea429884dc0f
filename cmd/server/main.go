package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"campus-recruit/internal/app"
	"campus-recruit/internal/config"
	"campus-recruit/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := logger.New("campus-recruit", "production", "info")
		l.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(cfg.App.AppName, cfg.App.Environment, cfg.App.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, cleanup, err := app.Bootstrap(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to bootstrap app")
	}
	defer func() {
		if err := cleanup(); err != nil {
			log.Error().Err(err).Msg("cleanup error")
		}
	}()

	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid HTTP port")
	}

	if err := application.Run(ctx, addr); err != nil {
		log.Error().Err(err).Msg("server error")
	}
	log.Info().Msg("server stopped")
}
