package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/shoplist/internal/config"
	"github.com/jask/shoplist/internal/database"
	"github.com/jask/shoplist/internal/database/repository"
	"github.com/jask/shoplist/internal/logging"
	"github.com/jask/shoplist/internal/metrics"
	"github.com/jask/shoplist/internal/presenter"
	"github.com/jask/shoplist/internal/store"
	"github.com/jask/shoplist/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "path to config.toml")
	writeConfig := flag.String("write-config", "", "write the effective config to this path and exit")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *writeConfig != "" {
		if err := config.Save(cfg, *writeConfig); err != nil {
			log.Fatalf("write config: %v", err)
		}
		fmt.Printf("wrote %s\n", *writeConfig)
		return
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Path)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	m := metrics.New()

	st, closeDB, err := openStore(ctx, cfg, logger, m)
	if err != nil {
		logger.Error("open store", zap.Error(err))
		log.Fatalf("store: %v", err)
	}
	defer closeDB()

	feed := tui.NewFeed()
	pres := presenter.New(st, feed, logger)
	if err := pres.Bind(ctx); err != nil {
		log.Fatalf("bind: %v", err)
	}

	p := tea.NewProgram(tui.New(ctx, pres, feed, cfg.UI.Title), tea.WithAltScreen())
	_, runErr := p.Run()

	cancel()
	feed.Close()
	pres.Close()
	st.Close()

	if cfg.Metrics.Textfile != "" {
		if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Warn("metrics export failed", zap.Error(err))
		}
	}
	if runErr != nil {
		logger.Error("ui exited", zap.Error(runErr))
		fmt.Fprintf(os.Stderr, "error: %v\n", runErr)
		os.Exit(1)
	}
}

// openStore builds the store for cfg. With the sqlite backend it migrates,
// seeds and loads the database first; the returned func closes it.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger, rec store.Recorder) (*store.Store, func(), error) {
	policy, err := store.ParsePolicy(cfg.Store.NamePolicy, cfg.Store.MaxDistance)
	if err != nil {
		return nil, nil, err
	}
	opts := []store.Option{
		store.WithPolicy(policy),
		store.WithLogger(logger),
		store.WithRecorder(rec),
	}

	if cfg.Store.Backend != config.BackendSQLite {
		logger.Info("using in-memory store")
		return store.New(opts...), func() {}, nil
	}

	db, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	st := store.New(append(opts, store.WithBackend(repository.NewItemRepo(db)))...)
	if err := st.Load(ctx); err != nil {
		st.Close()
		db.Close()
		return nil, nil, fmt.Errorf("load items: %w", err)
	}
	logger.Info("store loaded",
		zap.String("driver", cfg.Database.Driver),
		zap.String("path", cfg.Database.Path),
		zap.Int("items", st.Snapshot().Len()),
	)
	return st, func() { db.Close() }, nil
}

func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(cfg.Driver, cfg.Path); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.Driver, cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := database.SeedItems(ctx, db, cfg.Seed); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed items: %w", err)
	}
	return db, nil
}
