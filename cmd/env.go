package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/masterreview/internal/config"
	"github.com/abhisek/masterreview/internal/curriculum"
	"github.com/abhisek/masterreview/internal/lessons"
	"github.com/abhisek/masterreview/internal/library"
	"github.com/abhisek/masterreview/internal/llm"
	"github.com/abhisek/masterreview/internal/logging"
	"github.com/abhisek/masterreview/internal/store"
)

// env is everything a command may need, built from config and flags.
type env struct {
	cfg     *config.Config
	log     *zap.Logger
	store   *store.Store
	catalog *curriculum.Catalog
	library *library.Library
	// lessons is nil when no provider could be configured; providerErr
	// then says why.
	lessons     *lessons.Service
	providerErr error
	closers     []func()
}

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

// requireLessons returns the lesson service or an error explaining why
// none is configured.
func (e *env) requireLessons() (*lessons.Service, error) {
	if e.lessons == nil {
		return nil, fmt.Errorf("no AI provider configured: %w", e.providerErr)
	}
	return e.lessons, nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.Storage.DB = p
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then config and the MASTERREVIEW_DB env var, then the default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	p, err := cfg.DBPath()
	if err != nil {
		return "", err
	}
	return p, store.EnsureDir(p)
}

// openEnv loads config, opens the store and, when withProvider is set,
// builds the lesson service. A missing provider is not an error.
func openEnv(cmd *cobra.Command, withProvider bool) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, catalog: curriculum.Default()}

	log, sync, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return nil, err
	}
	e.log = log
	e.closers = append(e.closers, sync)

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	e.store = st
	e.closers = append(e.closers, func() { _ = st.Close() })

	if withProvider {
		e.lessons, e.providerErr = newLessonService(cmd.Context(), cfg, st, log)
		if e.providerErr != nil {
			log.Info("running without provider", zap.Error(e.providerErr))
		}
	}

	var gen library.Generator
	if e.lessons != nil {
		gen = e.lessons
	}
	e.library = library.New(e.catalog, st.LessonRepo(), gen, log)
	return e, nil
}

func newLessonService(ctx context.Context, cfg *config.Config, st *store.Store, log *zap.Logger) (*lessons.Service, error) {
	if err := cfg.LLM.Validate(); err != nil {
		return nil, err
	}
	events := st.EventRepo()
	provider, err := llm.NewProvider(ctx, cfg.LLM, events, log)
	if err != nil {
		return nil, err
	}
	lookup, err := llm.NewProvider(ctx, cfg.LLM.ForLookup(), events, log)
	if err != nil {
		return nil, fmt.Errorf("lookup provider: %w", err)
	}

	opts := []lessons.Option{
		lessons.WithLookupProvider(lookup),
		lessons.WithDefinitionCache(st.DefinitionRepo()),
		lessons.WithLogger(log),
	}
	images, err := llm.NewImageGenerator(ctx, cfg.LLM, events, log)
	switch {
	case err == nil:
		opts = append(opts, lessons.WithImageGenerator(images))
	case errors.Is(err, llm.ErrImagesUnsupported):
		log.Debug("visual aids disabled", zap.String("provider", cfg.LLM.Provider))
	default:
		log.Warn("image generator unavailable", zap.Error(err))
	}
	return lessons.NewService(provider, cfg.Lessons, opts...), nil
}

// requestContext bounds a single command's model calls.
func (e *env) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.cfg.LLM.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.cfg.LLM.Timeout)
}
