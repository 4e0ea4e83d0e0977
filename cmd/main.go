package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/orgball2608/insta-downloader/internal/app"
	"github.com/orgball2608/insta-downloader/pkg/config"
	"github.com/orgball2608/insta-downloader/pkg/logger"
	"go.uber.org/fx"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Opts{Env: cfg.App.Env})

	options := []fx.Option{
		fx.Logger(log),
		app.Module,
	}
	if cfg.Telegram.Token != "" {
		options = append(options, app.TelegramModule)
	} else {
		log.Info("TELEGRAM_TOKEN not set, running without the bot")
	}

	application := fx.New(options...)

	// Start the application
	if err := application.Start(context.Background()); err != nil {
		log.Error("Failed to start application", "error", err)
		os.Exit(1)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	// Gracefully shutdown the application
	if err := application.Stop(context.Background()); err != nil {
		log.Error("Failed to stop application", "error", err)
		os.Exit(1)
	}
}
