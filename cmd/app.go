package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/zjrosen/opcalc/internal/cache"
	"github.com/zjrosen/opcalc/internal/calculator"
	"github.com/zjrosen/opcalc/internal/config"
	"github.com/zjrosen/opcalc/internal/dispatcher"
	"github.com/zjrosen/opcalc/internal/flags"
	"github.com/zjrosen/opcalc/internal/history"
	"github.com/zjrosen/opcalc/internal/infrastructure/sqlite"
	"github.com/zjrosen/opcalc/internal/log"
	"github.com/zjrosen/opcalc/internal/registry"
	"github.com/zjrosen/opcalc/internal/tracing"

	// Builtin providers register themselves in the catalog.
	_ "github.com/zjrosen/opcalc/internal/providers/basic"
	_ "github.com/zjrosen/opcalc/internal/providers/extended"
)

// app is the composed calculator and the resources it owns.
type app struct {
	registry   *registry.Registry
	calculator *calculator.Calculator
	closers    []func(context.Context) error
}

// buildRegistry composes the enabled builtin providers. A composition error,
// including an enabled key that selects no builtin, is fatal to startup.
func buildRegistry(ops config.OperatorsConfig) (*registry.Registry, error) {
	var opts []registry.Option
	if ops.RejectDuplicates {
		opts = append(opts, registry.WithRejectDuplicates())
	}
	reg := registry.New(opts...)
	src := registry.FilterSource{Inner: registry.Builtin(), Allow: ops.Enabled, Strict: true}
	if err := registry.Compose(reg, src); err != nil {
		return nil, fmt.Errorf("composing providers: %w", err)
	}
	return reg, nil
}

// newApp wires the registry, the middleware chain and the calculator.
//
// Chain order, outermost first: logging, tracing, slow-dispatch warning,
// history, result cache. Cache hits are therefore still traced and recorded.
func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	reg, err := buildRegistry(cfg.Operators)
	if err != nil {
		return nil, err
	}
	a := &app{registry: reg}
	ff := flags.New(cfg.Flags)

	tp, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("initializing tracing: %w", err)
	}
	a.closers = append(a.closers, tp.Shutdown)

	middlewares := []dispatcher.Middleware{dispatcher.NewLoggingMiddleware()}
	if tp.Enabled() {
		middlewares = append(middlewares, tracing.NewMiddleware(tp.Tracer()))
	}
	middlewares = append(middlewares, dispatcher.NewSlowDispatchMiddleware(cfg.Dispatch.SlowThreshold))

	if ff.Enabled(flags.FlagHistoryPersistence) {
		db, err := sqlite.NewDB(cfg.History.Path)
		if err != nil {
			_ = a.Close(ctx)
			return nil, fmt.Errorf("opening history database: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return db.Close() })
		middlewares = append(middlewares, history.NewMiddleware(db.HistoryRepository()))
	}
	if ff.Enabled(flags.FlagResultCache) {
		middlewares = append(middlewares, cache.NewResultCache(cfg.Cache.TTL).Middleware())
	}

	d := dispatcher.New(reg, dispatcher.WithMiddleware(middlewares...))
	a.calculator = calculator.New(d)

	log.Info(log.CatDispatch, "calculator ready",
		"providers", reg.Len(),
		"tracing", tp.Enabled(),
		"result_cache", ff.Enabled(flags.FlagResultCache),
		"history", ff.Enabled(flags.FlagHistoryPersistence),
	)
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
