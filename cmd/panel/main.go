package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/go-telegram/bot"
	"github.com/reshetovitsme/news-panel/internal/di"
	carouselService "github.com/reshetovitsme/news-panel/internal/modules/carousel/service"
	refreshService "github.com/reshetovitsme/news-panel/internal/modules/refresh/service"
	"github.com/reshetovitsme/news-panel/internal/shared/config"
	"github.com/reshetovitsme/news-panel/internal/shared/logging"
	httpServer "github.com/reshetovitsme/news-panel/internal/transport/http"
	"github.com/reshetovitsme/news-panel/internal/transport/tui"
	"github.com/samber/do/v2"
)

func main() {
	// Setup dependency injection
	injector, err := di.Setup()
	if err != nil {
		slog.Error("Failed to setup dependency injection", "error", err)
		os.Exit(1)
	}

	cfg, err := do.Invoke[*config.Config](injector)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging; the terminal shell moves logs to a file
	_, logCloser, err := logging.Setup(cfg.LogLevel, cfg.LogFile, cfg.RunsTUI())
	if err != nil {
		slog.Error("Failed to setup logging", "error", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	defer func() {
		if err := di.Shutdown(injector); err != nil {
			slog.Error("Error during shutdown", "error", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Get services from DI container
	carousel := do.MustInvoke[*carouselService.Controller](injector)
	refresher := do.MustInvoke[*refreshService.Service](injector)

	// Start feed refreshing
	refresher.Start(ctx)

	if cfg.RunsHTTP() {
		server := do.MustInvoke[*httpServer.Server](injector)
		go func() {
			if err := server.Start(); err != nil {
				slog.Error("Failed to start HTTP server", "error", err)
				cancel()
			}
		}()
		slog.Info("Kiosk page available", "port", cfg.HTTPPort)
	}

	if !cfg.RunsTUI() {
		// Nobody else ticks the carousel in headless mode
		go carousel.Run(ctx, clock.New(), time.Second/4)
	}

	if cfg.TelegramBotToken != "" {
		b, err := do.Invoke[*bot.Bot](injector)
		if err != nil {
			slog.Error("Failed to create telegram bot", "error", err)
		} else {
			go b.Start(ctx)
			slog.Info("Telegram remote control enabled", "allowed_users", len(cfg.AllowedUsers))
		}
	}

	slog.Info("Application started", "feed", cfg.FeedURL, "ui", cfg.UI.String(), "app_env", cfg.AppEnv.String(), "update_interval", cfg.UpdateEvery(), "slide_interval", cfg.SlideEvery())

	if cfg.RunsTUI() {
		model := do.MustInvoke[tui.Model](injector)
		if err := tui.Run(ctx, model); err != nil {
			slog.Error("Terminal shell failed", "error", err)
		}
		cancel()
	} else {
		slog.Info("Press Ctrl+C to stop")
		<-ctx.Done()
	}

	slog.Info("Shutting down...")
}
