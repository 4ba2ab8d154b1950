// Package app assembles the tracker bot: storage, ledger, flows, and the
// Telegram runtime options consumed by the shared runner.
package app

import (
	"context"
	"fmt"

	"github.com/m3rciful/trackerbot/core/bootstrap"
	coretelegram "github.com/m3rciful/trackerbot/core/telegram"
	"github.com/m3rciful/trackerbot/core/telegram/flow"
	"github.com/m3rciful/trackerbot/core/telegram/router"
	"github.com/m3rciful/trackerbot/core/telegram/ui"
	"github.com/m3rciful/trackerbot/internal/handlers"
	"github.com/m3rciful/trackerbot/internal/ledger"
	"github.com/m3rciful/trackerbot/internal/storage"
)

// App holds the assembled application.
type App struct {
	cfg      *Config
	store    *storage.Store
	mux      *flow.Mux
	handlers *handlers.Handlers
}

// Bootstrap initializes logging, the database with migrations, seeds
// default categories, and wires the domain services.
func Bootstrap(cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config")
	}

	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	store := storage.New(res.DB)

	modules := bootstrap.Modules{
		Seeders: []bootstrap.Seeder{categorySeeder(cfg.Seed.Categories)},
	}
	for _, seeder := range modules.Seeders {
		if err := seeder.Seed(context.Background(), store); err != nil {
			_ = res.DB.Close()
			return nil, err
		}
	}

	mux := flow.NewMux(flow.NewEngine(flow.NewMemoryStore()))
	ldg := ledger.New(store.Categories())

	return &App{
		cfg:      cfg,
		store:    store,
		mux:      mux,
		handlers: handlers.New(store, ldg, mux),
	}, nil
}

// TelegramRunOptions builds the registry, routes, and middleware chain for
// the shared Telegram runner.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.handlers.Register(reg)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
	})
	var fb ui.FallbackProvider = a.handlers
	routes = append(routes, router.TextRoutes(a.mux, reg, router.TextOptions{
		UnknownText:     fb.UnknownText(),
		UnknownDocument: fb.UnknownDocument(),
	})...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{
		NotFound: fb.UnknownCallback(),
	}))

	return coretelegram.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg.CoreConfig(), nil),
		Routes:      routes,
		OnStop: func(ctx context.Context, rt coretelegram.Runtime) error {
			return a.store.Close()
		},
	}, nil
}
