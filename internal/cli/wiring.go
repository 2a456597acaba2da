package cli

import (
	"context"
	"fmt"
	"os"

	"financepro/internal/amqp"
	"financepro/internal/cache"
	"financepro/internal/config"
	"financepro/internal/ledger"
	"financepro/internal/log"
	"financepro/internal/report"
	"financepro/internal/services"
	"financepro/internal/sheets"
	gsheet "financepro/internal/sheets/google"
	"financepro/internal/sheets/memory"
	"financepro/internal/storage"
)

// reportCacheSize bounds the number of rendered reports kept in memory.
const reportCacheSize = 32

// ConnectAMQP returns a client when AMQP is configured. Connection failures
// are logged and leave publishing disabled.
func ConnectAMQP(logger *log.Logger, cfg *config.Config) *amqp.Client {
	if !cfg.AMQPEnabled() {
		logger.Info("AMQP not configured, ledger events will not be published")
		return nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to connect to AMQP", log.FieldError, err)
		return nil
	}
	logger.Info("Connected to AMQP", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	return client
}

// NewLedgerService wires the ledger with storage and the optional publisher.
func NewLedgerService(ctx context.Context, logger *log.Logger, cfg *config.Config, repo *storage.SQLiteRepository, client *amqp.Client) (*services.LedgerService, error) {
	var publisher services.EventPublisher
	if client != nil {
		publisher = client
	}
	return services.NewLedgerService(ctx, repo, publisher, services.ServiceOptions{
		Ledger: ledger.Options{
			Strict:    cfg.Strict,
			UndoDepth: cfg.UndoDepth,
			Logger:    logger,
		},
		PersistSnapshots: cfg.PersistSnapshots,
	})
}

// NewReportRenderer builds the CSV renderer and the janitor sweeping its
// cache. A zero TTL disables caching and the janitor is nil.
func NewReportRenderer(logger *log.Logger, cfg *config.Config) (*report.Renderer, *cache.Janitor) {
	if cfg.ReportTTL == 0 {
		return report.NewRenderer(cfg.Currency, nil, logger), nil
	}
	c := cache.NewLRUCache[[]byte](reportCacheSize, cfg.ReportTTL)
	return report.NewRenderer(cfg.Currency, c, logger), cache.NewJanitor(logger, c)
}

// NewMirror selects the mirror backend.
func NewMirror(ctx context.Context, logger *log.Logger, cfg *config.Config) (sheets.LedgerMirror, error) {
	switch cfg.MirrorBackend {
	case config.MirrorSheets:
		gcfg := gsheet.Config{
			SpreadsheetID:     cfg.GoogleSpreadsheetID,
			TransactionsSheet: cfg.GoogleSheetName,
			TransfersSheet:    cfg.GoogleTransfersSheetName,
			CredentialsJSON:   cfg.GoogleCredentialsJSON,
			CredentialsFile:   cfg.GoogleCredentialsFile,
		}
		client, err := gsheet.New(ctx, gcfg, logger)
		if err != nil {
			return nil, fmt.Errorf("init Google Sheets mirror: %w", err)
		}
		logger.Info("Initialized Google Sheets mirror", "spreadsheet", cfg.GoogleSpreadsheetID)
		return client, nil
	default:
		logger.Info("Initialized memory mirror")
		return memory.New(), nil
	}
}

// Fatal logs err and exits.
func Fatal(logger *log.Logger, msg string, err error) {
	logger.Error(msg, log.FieldError, err)
	os.Exit(1)
}
