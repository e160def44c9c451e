// Package app provides the shared entry point for the concierge binary.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/concierge-chat/concierge/internal/composer"
	"github.com/concierge-chat/concierge/internal/config"
	"github.com/concierge-chat/concierge/internal/gateway"
	"github.com/concierge-chat/concierge/internal/knowledge"
	"github.com/concierge-chat/concierge/internal/maintenance"
	"github.com/concierge-chat/concierge/internal/session"
	"github.com/concierge-chat/concierge/internal/telemetry"
	transcriptsqlite "github.com/concierge-chat/concierge/modules/transcript/sqlite"
)

// RunParams configures the main application loop.
type RunParams struct {
	// ConfigPath is an explicit path to the YAML configuration file.
	// If empty, ResolveConfigPath is called automatically.
	ConfigPath string

	// Version, Commit, and Date are injected at build time via ldflags.
	Version string
	Commit  string
	Date    string

	// LogLevel sets the minimum log level. Defaults to slog.LevelInfo.
	LogLevel slog.Level
}

// Run loads configuration, wires the chat core, starts the gateway and the
// maintenance scheduler, and blocks until a shutdown signal is received.
func Run(params RunParams) error {
	cfgPath := params.ConfigPath
	if cfgPath == "" {
		resolved, err := ResolveConfigPath()
		if err != nil {
			return err
		}
		cfgPath = resolved
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: params.LogLevel,
	}))

	store, err := buildKnowledgeStore(cfg.Knowledge, logger)
	if err != nil {
		return err
	}
	searcher := knowledge.NewSearcher(store)

	comp := composer.New(composer.Options{
		MaxResponseChars: cfg.Composer.MaxResponseChars,
	})

	sessions := session.NewInMemoryStore()
	sessions.SetMaxSessions(cfg.Sessions.Max)

	var transcripts session.TranscriptStore
	if cfg.Sessions.Transcript.Path != "" {
		ts, db, err := transcriptsqlite.Open(cfg.Sessions.Transcript.Path)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		transcripts = ts
		logger.Info("transcripts enabled", "path", cfg.Sessions.Transcript.Path)
	}

	deps := gateway.Deps{
		Store:       store,
		Searcher:    searcher,
		Composer:    comp,
		Sessions:    sessions,
		Transcripts: transcripts,
	}

	var provider *telemetry.Provider
	if cfg.Telemetry.Enabled {
		provider, err = telemetry.Setup(context.Background(), cfg.Telemetry.Endpoint, params.Version, logger)
		if err != nil {
			return err
		}
		deps.Tracer = provider.Tracer()
	}

	gw := gateway.New(cfg.Gateway, logger, deps)
	if err := gw.Start(); err != nil {
		return err
	}

	scheduler := maintenance.NewScheduler(logger)
	if err := scheduler.RegisterJob(&maintenance.SessionPruneJob{
		Store:        sessions,
		MaxIdle:      cfg.Sessions.IdleTTL,
		Logger:       logger,
		ScheduleExpr: cfg.Maintenance.PruneSchedule,
	}); err != nil {
		return err
	}
	if err := scheduler.RegisterJob(&maintenance.KnowledgeStatsJob{
		Store:        store,
		Logger:       logger,
		ScheduleExpr: cfg.Maintenance.StatsSchedule,
	}); err != nil {
		return err
	}
	if err := scheduler.Start(); err != nil {
		return err
	}

	logger.Info("concierge started",
		"version", params.Version,
		"bind", cfg.Gateway.Bind,
		"knowledge_entries", store.Len(),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	sig := <-sigCh
	logger.Info("shutdown signal received", "signal", sig.String())

	shutdownCtx := context.Background()
	if err := scheduler.Stop(shutdownCtx); err != nil {
		logger.Error("scheduler stop failed", "error", err)
	}
	if err := gw.Stop(shutdownCtx); err != nil {
		logger.Error("gateway stop failed", "error", err)
	}
	if provider != nil {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown failed", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}

// buildKnowledgeStore constructs and seeds the knowledge store per config.
func buildKnowledgeStore(cfg config.KnowledgeConfig, logger *slog.Logger) (*knowledge.Store, error) {
	store := knowledge.NewStore()

	if !cfg.DisableBuiltinSeed {
		report := store.BulkImport(knowledge.SeedEntries())
		logger.Debug("builtin seed loaded", "imported", report.Imported)
	}

	if cfg.SeedFile != "" {
		entries, err := LoadSeedFile(cfg.SeedFile)
		if err != nil {
			return nil, err
		}
		report := store.BulkImport(entries)
		logger.Info("seed file loaded",
			"path", cfg.SeedFile,
			"imported", report.Imported,
			"skipped", report.Skipped,
		)
	}

	return store, nil
}

// ResolveConfigPath searches for a config file in standard locations.
// Search order: $XDG_CONFIG_HOME/concierge/concierge.yaml →
// ~/.config/concierge/concierge.yaml → ./concierge.yaml
func ResolveConfigPath() (string, error) {
	var candidates []string

	if xdg, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		candidates = append(candidates, filepath.Join(xdg, "concierge", "concierge.yaml"))
	} else if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "concierge", "concierge.yaml"))
	}

	candidates = append(candidates, "concierge.yaml")

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("no configuration file found (searched: %v)", candidates)
}
