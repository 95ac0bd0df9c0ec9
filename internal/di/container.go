package di

import (
	"context"
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/go-telegram/bot"
	carouselService "github.com/reshetovitsme/news-panel/internal/modules/carousel/service"
	feedService "github.com/reshetovitsme/news-panel/internal/modules/feed/service"
	newsService "github.com/reshetovitsme/news-panel/internal/modules/news/service"
	refreshService "github.com/reshetovitsme/news-panel/internal/modules/refresh/service"
	"github.com/reshetovitsme/news-panel/internal/shared/config"
	httpServer "github.com/reshetovitsme/news-panel/internal/transport/http"
	telegramHandler "github.com/reshetovitsme/news-panel/internal/transport/telegram"
	"github.com/reshetovitsme/news-panel/internal/transport/tui"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

// Setup initializes the dependency injection container
func Setup() (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	// Register Clock
	do.Provide(injector, func(i do.Injector) (clock.Clock, error) {
		return clock.New(), nil
	})

	// Register Feed Fetcher
	do.Provide(injector, func(i do.Injector) (*feedService.Fetcher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return feedService.NewFetcher(cfg.FeedURL, cfg.MaxItems, cfg.FetchTimeoutDuration()), nil
	})

	// Register Feed Publisher
	do.Provide(injector, func(i do.Injector) (*feedService.Publisher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return feedService.NewPublisher(cfg.PanelTitle), nil
	})

	// Register Sanitizer
	do.Provide(injector, func(i do.Injector) (*newsService.Sanitizer, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return newsService.NewSanitizer(cfg.TitleLimit, cfg.DescLimit, cfg.CreditMarkers), nil
	})

	// Register Image Resolver
	do.Provide(injector, func(i do.Injector) (*newsService.ImageResolver, error) {
		cfg := do.MustInvoke[*config.Config](i)
		var pageImage newsService.PageImageFunc
		if cfg.ExtractPageImages {
			pageImage = newsService.ReadabilityPageImage(cfg.FetchTimeoutDuration())
		}
		return newsService.NewImageResolver(cfg.PlaceholderImage, cfg.ImageProbeTimeoutDuration(), pageImage), nil
	})

	// Register QR Generator
	do.Provide(injector, func(i do.Injector) (*newsService.QRGenerator, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return newsService.NewQRGenerator(cfg.QRSize), nil
	})

	// Register Snapshot Builder
	do.Provide(injector, func(i do.Injector) (*newsService.Builder, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return newsService.NewBuilder(
			do.MustInvoke[*newsService.Sanitizer](i),
			do.MustInvoke[*newsService.ImageResolver](i),
			do.MustInvoke[*newsService.QRGenerator](i),
			cfg.DateFormat,
		), nil
	})

	// Register Carousel Controller
	do.Provide(injector, func(i do.Injector) (*carouselService.Controller, error) {
		cfg := do.MustInvoke[*config.Config](i)
		clk := do.MustInvoke[clock.Clock](i)
		return carouselService.NewController(clk, cfg.SlideEvery()), nil
	})

	// Register Refresh Service
	do.Provide(injector, func(i do.Injector) (*refreshService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return refreshService.New(
			do.MustInvoke[*feedService.Fetcher](i),
			do.MustInvoke[*newsService.Builder](i),
			do.MustInvoke[*carouselService.Controller](i),
			do.MustInvoke[clock.Clock](i),
			cfg.UpdateEvery(),
		), nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		server := httpServer.New(
			cfg,
			do.MustInvoke[*carouselService.Controller](i),
			do.MustInvoke[*refreshService.Service](i),
			do.MustInvoke[*feedService.Publisher](i),
			do.MustInvoke[*newsService.ImageResolver](i),
		)
		server.SetLogger(slog.Default())
		return server, nil
	})

	// Register Terminal Shell
	do.Provide(injector, func(i do.Injector) (tui.Model, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return tui.NewModel(
			do.MustInvoke[*carouselService.Controller](i),
			do.MustInvoke[*refreshService.Service](i),
			tui.Options{
				PanelTitle:   cfg.PanelTitle,
				ProbeTimeout: cfg.ImageProbeTimeoutDuration(),
				Images:       do.MustInvoke[*newsService.ImageResolver](i),
			},
		), nil
	})

	// Register Telegram Handler
	do.Provide(injector, func(i do.Injector) (*telegramHandler.Handler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return telegramHandler.New(
			cfg,
			do.MustInvoke[*carouselService.Controller](i),
			do.MustInvoke[*refreshService.Service](i),
		), nil
	})

	// Register Bot (only resolved when a token is configured)
	do.Provide(injector, func(i do.Injector) (*bot.Bot, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.TelegramBotToken == "" {
			return nil, oops.Errorf("telegram bot token not configured")
		}
		handler := do.MustInvoke[*telegramHandler.Handler](i)

		opts := []bot.Option{
			bot.WithDefaultHandler(handler.HandleUpdate),
		}

		b, err := bot.New(cfg.TelegramBotToken, opts...)
		if err != nil {
			return nil, oops.With("context", "failed to create telegram bot").Wrap(err)
		}

		// Register bot commands
		handler.RegisterCommands(b)

		return b, nil
	})

	return injector, nil
}

// Shutdown gracefully shuts down all services
func Shutdown(injector do.Injector) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Stop the refresh loop first
	if refresher, err := do.Invoke[*refreshService.Service](injector); err == nil && refresher != nil {
		refresher.Stop()
	}

	// Shutdown bot if it exists
	if cfg, err := do.Invoke[*config.Config](injector); err == nil && cfg.TelegramBotToken != "" {
		if b, err := do.Invoke[*bot.Bot](injector); err == nil && b != nil {
			b.Close(ctx)
		}
	}

	if server, err := do.Invoke[*httpServer.Server](injector); err == nil && server != nil {
		if err := server.Shutdown(ctx); err != nil {
			return oops.With("context", "failed to stop http server").Wrap(err)
		}
	}

	return nil
}
