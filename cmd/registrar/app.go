package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"command-registrar/internal/adapters/discord"
	"command-registrar/internal/adapters/metrics"
	"command-registrar/internal/adapters/storage/postgres"
	"command-registrar/internal/config"
	"command-registrar/internal/core/domain"
	"command-registrar/internal/core/ports"
	"command-registrar/internal/core/services/compiler"
	"command-registrar/internal/core/services/registrar"
)

type App struct {
	config    *config.Config
	store     ports.HistoryStore
	registrar *registrar.Service
	out       io.Writer
}

func NewApp(ctx context.Context, cfg *config.Config, out io.Writer) (*App, error) {
	session, err := discord.NewSession(cfg)
	if err != nil {
		return nil, err
	}

	deps := registrar.Dependencies{
		Publisher:    discord.NewAdapter(session),
		Target:       cfg.Target(),
		PostInterval: cfg.PostInterval,
	}

	app := &App{config: cfg, out: out}

	if cfg.DatabaseURL != "" {
		store, err := postgres.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("Failed to connect to storage", "error", err)
			return nil, err
		}
		app.store = store
		deps.History = store
	}

	app.registrar = registrar.NewService(deps)
	return app, nil
}

// Shutdown pushes collected metrics when a Pushgateway is configured and
// releases the history store.
func (a *App) Shutdown(ctx context.Context) {
	if a.config != nil && a.config.PushgatewayURL != "" {
		if err := metrics.Push(ctx, a.config.PushgatewayURL, a.config.Target().String()); err != nil {
			slog.Warn("Failed to push metrics", "url", a.config.PushgatewayURL, "error", err)
		}
	}

	if a.store != nil {
		a.store.Close()
	}
}

func (a *App) sync(ctx context.Context, batch compiler.Batch, opts registrar.SubmitOptions) error {
	result, err := a.registrar.Submit(ctx, batch, opts)
	if err != nil {
		return err
	}
	if result.Skipped {
		// Nothing was sent; print what Discord currently holds instead.
		return a.list(ctx)
	}
	return a.print(result.Commands)
}

func (a *App) list(ctx context.Context) error {
	commands, err := a.registrar.List(ctx)
	if err != nil {
		return err
	}
	return a.print(commands)
}

func (a *App) delete(ctx context.Context, commandID string) error {
	return a.registrar.Delete(ctx, commandID)
}

// clear replaces the registered set with an empty one.
func (a *App) clear(ctx context.Context) error {
	result, err := a.registrar.Submit(ctx, compiler.Batch{}, registrar.SubmitOptions{
		Mode:       domain.ModeBulk,
		AllowEmpty: true,
		Force:      true,
	})
	if err != nil {
		return err
	}
	return a.print(result.Commands)
}

func (a *App) history(ctx context.Context, limit int) error {
	deployments, err := a.registrar.History(ctx, limit)
	if err != nil {
		return err
	}
	return a.print(deployments)
}

func (a *App) print(v any) error {
	return printJSON(a.out, v)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
