package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/orgball2608/insta-downloader/internal/command"
	"github.com/orgball2608/insta-downloader/internal/command/commandimpl"
	"github.com/orgball2608/insta-downloader/internal/instagram"
	"github.com/orgball2608/insta-downloader/internal/instagram/downloader"
	"github.com/orgball2608/insta-downloader/internal/instagram/extractor"
	"github.com/orgball2608/insta-downloader/internal/server"
	"github.com/orgball2608/insta-downloader/internal/telegram"
	"github.com/orgball2608/insta-downloader/internal/telegram/telegramimpl"
	"github.com/orgball2608/insta-downloader/pkg/config"
	"github.com/orgball2608/insta-downloader/pkg/httputil"
	"github.com/orgball2608/insta-downloader/pkg/logger"
	"go.uber.org/fx"
)

const commandRestartDelay = 5 * time.Second

// Module serves the HTTP API.
var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		newHTTPClient,
	),
	fx.Provide(
		fx.Annotate(
			extractor.New,
			fx.As(new(instagram.Client)),
		),
		fx.Annotate(
			downloader.New,
			fx.As(new(instagram.Downloader)),
		),
		server.New,
	),
	fx.Invoke(runHTTPServer),
)

// TelegramModule adds the bot front end on top of Module.
var TelegramModule = fx.Options(
	fx.Provide(
		fx.Annotate(
			telegramimpl.New,
			fx.As(new(telegram.Client)),
		),
		fx.Annotate(
			commandimpl.New,
			fx.As(new(command.Client)),
		),
	),
	fx.Invoke(runCommandHandler),
)

func newHTTPClient(cfg *config.Config) *http.Client {
	return httputil.NewClient(cfg.Instagram.MaxRedirects)
}

func runHTTPServer(lc fx.Lifecycle, log logger.Logger, cfg *config.Config, srv *server.Server) {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// No write timeout: proxied videos stream for as long as the upstream takes.
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", httpServer.Addr)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", httpServer.Addr, err)
			}

			log.Info("Starting server", "addr", httpServer.Addr, "env", cfg.App.Env)

			go func() {
				if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("Server stopped unexpectedly", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, cfg.HTTP.ShutdownTimeout)
			defer cancel()

			log.Info("Shutting down server")
			return httpServer.Shutdown(ctx)
		},
	})
}

func runCommandHandler(lc fx.Lifecycle, log logger.Logger, cmdClient command.Client) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				for {
					err := cmdClient.HandleCommand(ctx)
					if ctx.Err() != nil {
						return
					}
					log.Error("Command handler stopped, restarting", "error", err, "delay", commandRestartDelay)

					select {
					case <-ctx.Done():
						return
					case <-time.After(commandRestartDelay):
					}
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
