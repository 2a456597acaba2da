package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"financepro/internal/cli"
	apphttp "financepro/internal/http"
	"financepro/internal/log"
)

const (
	shutdownTimeout  = 30 * time.Second
	reminderInterval = time.Hour
	janitorInterval  = 10 * time.Minute
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := cli.GracefulShutdown(logger)
	defer stop()

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	client := cli.ConnectAMQP(logger, cfg)

	svc, err := cli.NewLedgerService(ctx, logger, cfg, repo, client)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize ledger service", err)
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Error("Failed to close ledger service", log.FieldError, err)
		}
	}()

	renderer, janitor := cli.NewReportRenderer(logger, cfg)
	srv := apphttp.NewServer(":"+cfg.Port, svc, renderer, apphttp.ServerOptions{Logger: logger})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting financepro server",
			log.FieldOperation, log.OpStartup,
			"port", cfg.Port,
			"strict", cfg.Strict,
			"persist_snapshots", cfg.PersistSnapshots,
			"amqp", client != nil,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		checkReminders(gctx, logger, svc.CheckReminders)
		ticker := time.NewTicker(reminderInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				checkReminders(gctx, logger, svc.CheckReminders)
			}
		}
	})

	if janitor != nil {
		g.Go(func() error {
			janitor.Run(gctx, janitorInterval)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		cli.Fatal(logger, "Server error", err)
	}
	logger.Info("Server stopped gracefully")
}
