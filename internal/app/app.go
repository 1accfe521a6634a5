// Package app wires the daemon together: config, store, model clients,
// pipeline, and the HTTP server.
package app

import (
	"context"
	"fmt"

	"github.com/AlfredSjoqvist/gideon/internal/analysis"
	"github.com/AlfredSjoqvist/gideon/internal/archive"
	"github.com/AlfredSjoqvist/gideon/internal/briefing"
	"github.com/AlfredSjoqvist/gideon/internal/config"
	"github.com/AlfredSjoqvist/gideon/internal/ensemble"
	"github.com/AlfredSjoqvist/gideon/internal/notify"
	"github.com/AlfredSjoqvist/gideon/internal/run"
	"github.com/AlfredSjoqvist/gideon/internal/server"
	"github.com/AlfredSjoqvist/gideon/internal/store"
	"github.com/AlfredSjoqvist/gideon/internal/trial"
)

type App struct {
	cfg      *config.Config
	store    *store.Store
	clients  *run.Clients
	pipeline *run.Pipeline
	server   *server.Server
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return NewWithConfig(context.Background(), cfg)
}

func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	st, err := store.New(cfg.DatabaseURL, cfg.StorePath())
	if err != nil {
		return nil, fmt.Errorf("app: store: %w", err)
	}

	jobs := trial.DefaultJobs()
	models := make([]string, 0, len(jobs))
	for _, j := range jobs {
		models = append(models, j.Model)
	}
	clients, err := run.NewClients(ctx, cfg, models...)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	arc, err := archive.New(cfg.Archive)
	if err != nil {
		clients.Close()
		_ = st.Close()
		return nil, err
	}

	events := run.NewEmitter()
	p := &run.Pipeline{
		Store:    st,
		Rank:     clients.Rank,
		Rankers:  clients.Rankers,
		Board:    ensemble.NewBoard(clients.Board...),
		Analyzer: analysis.NewDeepAnalyzer(clients.Writer),
		Composer: briefing.NewComposer(clients.Writer),
		Notifier: notify.NewNotifier(cfg.PushcutURL, clients.Writer),
		Archive:  arc,
		Jobs:     jobs,
		Broker:   clients.Broker,
		Meter:    clients.Meter,
		Events:   events,
	}

	svc := server.NewService(st, events, func(ctx context.Context) error {
		_, err := p.Run(ctx)
		return err
	})
	srv := server.New(cfg.Port, server.BuildMux(svc))

	return &App{cfg: cfg, store: st, clients: clients, pipeline: p, server: srv}, nil
}

// Pipeline exposes the wired pipeline for one-shot runs.
func (a *App) Pipeline() *run.Pipeline { return a.pipeline }

func (a *App) Config() *config.Config { return a.cfg }

func (a *App) Start() error { return a.server.Start() }

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	a.clients.Close()
	if cerr := a.store.Close(); err == nil {
		err = cerr
	}
	return err
}
