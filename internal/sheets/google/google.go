package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"financepro/internal/core"
	"financepro/internal/log"
	ports "financepro/internal/sheets"
)

// Config locates the spreadsheet and the service account used to reach it.
type Config struct {
	SpreadsheetID     string
	TransactionsSheet string
	TransfersSheet    string
	CredentialsJSON   string
	CredentialsFile   string
}

// Client mirrors ledger rows into a Google spreadsheet, one sheet for
// transactions and one for transfers. Rows are located by the id in column A.
type Client struct {
	svc               *gsheet.Service
	spreadsheetID     string
	transactionsSheet string
	transfersSheet    string
	logger            *log.Logger
}

// Ensure interface conformance
var _ ports.LedgerMirror = (*Client)(nil)

// New creates a Sheets client. Extra options replace the service account
// credentials, e.g. to point the client at a test endpoint.
func New(ctx context.Context, cfg Config, logger *log.Logger, opts ...goption.ClientOption) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	if cfg.TransactionsSheet == "" {
		cfg.TransactionsSheet = "Movimientos"
	}
	if cfg.TransfersSheet == "" {
		cfg.TransfersSheet = "Transferencias"
	}
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentSheets)

	var (
		svc *gsheet.Service
		err error
	)
	if len(opts) > 0 {
		svc, err = gsheet.NewService(ctx, opts...)
	} else {
		svc, err = newSheetsService(ctx, cfg, logger)
	}
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:               svc,
		spreadsheetID:     cfg.SpreadsheetID,
		transactionsSheet: cfg.TransactionsSheet,
		transfersSheet:    cfg.TransfersSheet,
		logger:            logger,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account
// credentials: inline JSON first, then a file, then
// GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context, cfg Config, logger *log.Logger) (*gsheet.Service, error) {
	credsJSON := strings.TrimSpace(cfg.CredentialsJSON)
	credsFile := strings.TrimSpace(cfg.CredentialsFile)
	if credsJSON == "" && credsFile == "" {
		credsFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentials []byte
	switch {
	case credsJSON != "":
		logger.InfoContext(ctx, "Using inline JSON credentials")
		credentials = []byte(credsJSON)
	case credsFile != "":
		logger.InfoContext(ctx, "Reading credentials from file", "path", credsFile)
		b, err := os.ReadFile(credsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentials = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentials),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

func (c *Client) UpsertTransaction(ctx context.Context, tx core.Transaction) (string, error) {
	return c.upsertRow(ctx, c.transactionsSheet, ports.TransactionHeader, ports.TransactionRow(tx))
}

func (c *Client) RemoveTransaction(ctx context.Context, id string) error {
	return c.clearRow(ctx, c.transactionsSheet, len(ports.TransactionHeader), id)
}

func (c *Client) UpsertTransfer(ctx context.Context, t core.InternalTransfer) (string, error) {
	return c.upsertRow(ctx, c.transfersSheet, ports.TransferHeader, ports.TransferRow(t))
}

func (c *Client) RemoveTransfer(ctx context.Context, id string) error {
	return c.clearRow(ctx, c.transfersSheet, len(ports.TransferHeader), id)
}

// upsertRow rewrites the row holding row[0] in column A, or appends after the
// last used row. An empty sheet gets the header first.
func (c *Client) upsertRow(ctx context.Context, sheet string, header, row []string) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	ids, err := c.readIDs(ctx, sheet)
	if err != nil {
		return "", err
	}

	n := findRow(ids, row[0])
	if n == 0 {
		if len(ids) == 0 {
			if _, err := c.writeRow(ctx, sheet, 1, header); err != nil {
				return "", fmt.Errorf("write header to %s: %w", sheet, err)
			}
			ids = []string{header[0]}
		}
		n = len(ids) + 1
	}

	ref, err := c.writeRow(ctx, sheet, n, row)
	if err != nil {
		return "", fmt.Errorf("update row %d in sheet %s: %w", n, sheet, err)
	}
	c.logger.DebugContext(ctx, "Mirrored row", "sheet", sheet, "ref", ref)
	return ref, nil
}

func (c *Client) writeRow(ctx context.Context, sheet string, n int, row []string) (string, error) {
	rng := rowRange(sheet, n, len(row))
	values := make([]any, len(row))
	for i, v := range row {
		values[i] = v
	}
	vr := &gsheet.ValueRange{Values: [][]any{values}}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	return rng, err
}

func (c *Client) clearRow(ctx context.Context, sheet string, width int, id string) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	ids, err := c.readIDs(ctx, sheet)
	if err != nil {
		return err
	}
	n := findRow(ids, id)
	if n == 0 {
		return ports.ErrRowNotFound
	}
	rng := rowRange(sheet, n, width)
	_, err = c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear %s: %w", rng, err)
	}
	return nil
}

// readIDs returns column A; index i holds row i+1.
func (c *Client) readIDs(ctx context.Context, sheet string) ([]string, error) {
	rng := fmt.Sprintf("%s!A:A", sheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read ids from %s: %w", sheet, err)
	}
	ids := make([]string, len(resp.Values))
	for i, row := range resp.Values {
		if len(row) > 0 {
			ids[i] = strings.TrimSpace(fmt.Sprint(row[0]))
		}
	}
	return ids, nil
}

// findRow returns the 1-based row of id, skipping the header, or 0.
func findRow(ids []string, id string) int {
	for i := 1; i < len(ids); i++ {
		if ids[i] == id {
			return i + 1
		}
	}
	return 0
}

func rowRange(sheet string, n, width int) string {
	return fmt.Sprintf("%s!A%d:%s%d", sheet, n, columnName(width), n)
}

// columnName converts a 1-based column index into A1 notation.
func columnName(n int) string {
	name := ""
	for n > 0 {
		n--
		name = string(rune('A'+n%26)) + name
		n /= 26
	}
	return name
}
