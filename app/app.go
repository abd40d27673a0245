// Package app assembles the picker bot from the core runtime and the
// domain packages.
package app

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/m3rciful/pickbot/bot"
	"github.com/m3rciful/pickbot/catalog"
	"github.com/m3rciful/pickbot/core/bootstrap"
	"github.com/m3rciful/pickbot/core/logger"
	coretelegram "github.com/m3rciful/pickbot/core/telegram"
	"github.com/m3rciful/pickbot/core/telegram/router"
	"github.com/m3rciful/pickbot/flow"
	"github.com/m3rciful/pickbot/session"
	"github.com/m3rciful/pickbot/storage"
)

// App holds the assembled runtime pieces.
type App struct {
	cfg      *Config
	engine   *flow.Engine
	handlers *bot.Handlers
}

// Bootstrap initializes infrastructure and wires the conversation engine.
func Bootstrap(cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config provided")
	}

	boot, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Load(cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("app: catalog load failed: %w", err)
	}
	logger.SVCCatalog.Info("catalog loaded",
		slog.String("event", "catalog.load"),
		slog.String("source", cfg.Catalog.Source),
		slog.String("mode", string(cat.Mode())),
		slog.Int("count", cat.Len()),
	)

	resetMode, err := cfg.ResetMode()
	if err != nil {
		return nil, err
	}

	repo := storage.NewRetrying(storage.NewPostgres(boot.DB), 0, 0)
	engine := flow.NewEngine(cat, session.NewStore(), repo, resetMode)

	return &App{
		cfg:      cfg,
		engine:   engine,
		handlers: bot.NewHandlers(engine),
	}, nil
}

// TelegramRunOptions builds the runtime wiring for RunTelegram.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	if err := a.handlers.Register(reg); err != nil {
		return coretelegram.RunOptions{}, fmt.Errorf("app: handler registration failed: %w", err)
	}

	coreCfg := a.cfg.CoreConfig()

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: coreCfg.Telegram.AdminID,
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoute(reg, router.TextOptions{}))

	return coretelegram.RunOptions{
		Config:      coreCfg,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(coreCfg, nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, rt coretelegram.Runtime) error {
			logger.SVCSessions.Info("picker ready",
				slog.String("event", "sessions.ready"),
				slog.Int("count", a.engine.ActiveSessions()),
			)
			return nil
		},
	}, nil
}
