package main

import (
	"context"
	"fmt"

	"financepro/internal/cli"
	"financepro/internal/config"
	"financepro/internal/log"
	"financepro/internal/services"
	"financepro/internal/storage"
)

// appEnv lazily opens the stored ledger for the subcommand that needs it.
type appEnv struct {
	logger *log.Logger
	cfg    *config.Config
	repo   *storage.SQLiteRepository
	svc    *services.LedgerService
}

// loadConfig validates configuration once.
func (e *appEnv) loadConfig() (*config.Config, error) {
	if e.cfg != nil {
		return e.cfg, nil
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e.cfg = cfg
	return cfg, nil
}

// service opens storage and restores the latest snapshot. The CLI never
// publishes events, so it works without a broker.
func (e *appEnv) service(ctx context.Context) (*services.LedgerService, error) {
	if e.svc != nil {
		return e.svc, nil
	}
	cfg, err := e.loadConfig()
	if err != nil {
		return nil, err
	}
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath, e.logger)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	snapshotCfg := *cfg
	snapshotCfg.PersistSnapshots = true
	svc, err := cli.NewLedgerService(ctx, e.logger, &snapshotCfg, repo, nil)
	if err != nil {
		repo.Close()
		return nil, err
	}
	e.repo, e.svc = repo, svc
	return svc, nil
}

func (e *appEnv) close() {
	if e.svc != nil {
		if err := e.svc.Close(); err != nil {
			e.logger.Warn("Failed to close ledger", log.FieldError, err)
		}
	}
}

func envFrom(args []interface{}) *appEnv {
	for _, a := range args {
		if env, ok := a.(*appEnv); ok {
			return env
		}
	}
	panic("financepro-cli: missing application environment")
}
