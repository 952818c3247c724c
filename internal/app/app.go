package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/specialistvlad/suiteplan/internal/ctxlog"
	"github.com/specialistvlad/suiteplan/internal/distribution"
	"github.com/specialistvlad/suiteplan/internal/events"
	"github.com/specialistvlad/suiteplan/internal/fetch"
	"github.com/specialistvlad/suiteplan/internal/manifest"
	"github.com/specialistvlad/suiteplan/internal/resolver"
)

// ErrPartialPlan is returned by Run when resolution produced a plan in which
// some nodes are failed or blocked.
var ErrPartialPlan = errors.New("partial build plan")

// socketDialTimeout bounds the wait for the events sink connection.
const socketDialTimeout = 15 * time.Second

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	loader manifest.Loader
}

// NewApp is the constructor for the main application. Command output goes
// to outW and logs go to logW, each App having its own isolated logger.
func NewApp(outW, logW io.Writer, cfg *Config, loader manifest.Loader) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")
	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		loader: loader,
	}
}

// Logger returns the application's logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// session loads the manifest and plans it.
func (a *App) session(ctx context.Context, reporter events.Reporter) (*resolver.Session, error) {
	logger := ctxlog.FromContext(ctx)

	records, err := a.loader.Load(ctx, a.config.ManifestPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	m, err := manifest.Load(records)
	if err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	logger.Debug("Manifest validated.", "entities", m.Len())

	var cache *fetch.Cache
	if a.config.CacheDir != "" {
		cache = fetch.NewCache(a.config.CacheDir)
	}
	mux := fetch.NewDefaultMux(a.config.FetchTimeout, a.config.Offline)

	return resolver.New(ctx, m, resolver.Options{
		Policy: distribution.Policy{
			BundleLibraries: a.config.BundleLibraries,
			StripProvided:   a.config.StripProvided,
		},
		Workers:  a.config.Workers,
		Resolver: fetch.NewResolver(mux, cache),
		Reporter: reporter,
	})
}

// reporter assembles the event sinks for this run.
func (a *App) reporter(ctx context.Context) (events.Reporter, error) {
	sinks := []events.Reporter{events.LogReporter{}}
	if a.config.EventsURL != "" {
		sio, err := events.DialSocketIO(ctx, a.config.EventsURL, socketDialTimeout)
		if err != nil {
			return nil, fmt.Errorf("connecting events sink: %w", err)
		}
		sinks = append(sinks, sio)
	}
	return events.Multi(sinks...), nil
}
