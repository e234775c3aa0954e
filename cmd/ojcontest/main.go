package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/rw-r-r-0644/oj-contest/ojapi"
	_ "github.com/rw-r-r-0644/oj-contest/ojapi/script"
	"github.com/rw-r-r-0644/oj-contest/snapshot"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:                      "ojcontest",
		Usage:                     "inspect online-judge contests",
		DisableSliceFlagSeparator: true,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "ojcontest.yaml", Usage: "Path to config file"},
			&cli.StringFlag{Name: "backend", Usage: "Backend ID (e.g. qduoj_session, script)"},
			&cli.StringSliceFlag{Name: "S", Usage: "Backend settings (key=value), can be repeated"},
			&cli.StringFlag{Name: "cache", Usage: "Snapshot cache file"},
			&cli.BoolFlag{Name: "offline", Usage: "Answer from the snapshot cache only"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
			&cli.StringFlag{Name: "trace", Usage: `Write spans as JSON to "stderr" or a file`},
		},
		Commands: []*cli.Command{
			backendsCommand(),
			showCommand(),
			problemsCommand(),
			watchCommand(),
			serveCommand(),
			cacheCommand(),
		},
	}
}

// env is what every contest command needs once global flags are resolved.
type env struct {
	cfg      *Config
	client   ojapi.Client
	logger   *slog.Logger
	registry *prometheus.Registry
	cache    *snapshot.Store

	shutdownTracing func(context.Context) error
}

func (e *env) Close() error {
	var errs []error
	if e.cache != nil {
		errs = append(errs, e.cache.Close())
	}
	if e.shutdownTracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		errs = append(errs, e.shutdownTracing(ctx))
	}
	return errors.Join(errs...)
}

// resolveConfig loads the config file and applies the global flags on top.
func resolveConfig(c *cli.Context) (*Config, error) {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if v := c.String("backend"); v != "" {
		cfg.Backend = v
	}
	if err := cfg.mergeSettings(c.StringSlice("S")); err != nil {
		return nil, err
	}
	if v := c.String("cache"); v != "" {
		cfg.Cache = v
	}
	if v := c.String("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v := c.String("trace"); v != "" {
		cfg.Trace = v
	}
	return cfg, nil
}

func setup(c *cli.Context) (*env, error) {
	cfg, err := resolveConfig(c)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.level()}))
	slog.SetDefault(logger)

	return newEnv(cfg, logger, c.Bool("offline"))
}

// newEnv builds the judge client stack for cfg. Offline runs answer from the cache
// alone, so no backend is built and its settings are not checked.
func newEnv(cfg *Config, logger *slog.Logger, offline bool) (*env, error) {
	shutdown, err := setupTracing(cfg.Trace)
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, logger: logger, registry: prometheus.NewRegistry(), shutdownTracing: shutdown}
	fail := func(err error) (*env, error) {
		_ = e.Close()
		return nil, err
	}

	if offline {
		if cfg.Cache == "" {
			return fail(fmt.Errorf("--offline needs a cache file"))
		}
		cache, err := snapshot.Open(cfg.Cache)
		if err != nil {
			return fail(fmt.Errorf("open cache: %w", err))
		}
		e.cache = cache
		e.client = &snapshot.Client{Store: cache, Offline: true, Logger: logger}
		return e, nil
	}

	if cfg.Backend == "" {
		return fail(fmt.Errorf("backend type is required (via --backend or config file)"))
	}
	client, err := ojapi.Build(cfg.Backend, cfg.Settings)
	if err != nil {
		return fail(fmt.Errorf("create backend: %w", err))
	}
	metrics, err := ojapi.NewMetrics(e.registry)
	if err != nil {
		return fail(err)
	}
	ojapi.Instrument(client, metrics, logger)
	e.client = client

	if cfg.Cache == "" {
		return e, nil
	}
	cache, err := snapshot.Open(cfg.Cache)
	if err != nil {
		return fail(fmt.Errorf("open cache: %w", err))
	}
	e.cache = cache
	e.client = &snapshot.Client{Next: client, Store: cache, Logger: logger}
	return e, nil
}
