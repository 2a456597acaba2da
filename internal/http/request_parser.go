package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"financepro/internal/core"
	"financepro/internal/ledger"
	"financepro/internal/report"
)

const (
	maxBodyBytes = 1 << 20
	dateLayout   = "2006-01-02"
)

var errEmptyBody = errors.New("request body is empty")

// decodeJSON reads a single JSON document into v, rejecting unknown fields
// and oversized bodies.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if dec.More() {
		return errors.New("invalid JSON body: trailing data")
	}
	return nil
}

// parseDate accepts YYYY-MM-DD in the server's location or RFC 3339.
// Empty input yields the zero time, which the ledger reads as now.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.ParseInLocation(dateLayout, s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
	}
	return t, nil
}

// transactionRequest is the body of POST /api/transactions. The amount is
// kept as text; the ledger decides whether it parses.
type transactionRequest struct {
	Amount      string               `json:"amount"`
	Type        core.TransactionType `json:"type"`
	IsWeekStart bool                 `json:"isWeekStart"`
	CategoryID  string               `json:"categoryId"`
	MethodID    string               `json:"methodId"`
	DebtID      string               `json:"debtId"`
	Description string               `json:"description"`
	Date        string               `json:"date"`
}

func (req transactionRequest) command() (ledger.ApplyTransaction, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return ledger.ApplyTransaction{}, err
	}
	return ledger.ApplyTransaction{
		Amount:      strings.TrimSpace(req.Amount),
		Type:        req.Type,
		IsWeekStart: req.IsWeekStart,
		CategoryID:  sanitizeInput(req.CategoryID),
		MethodID:    sanitizeInput(req.MethodID),
		DebtID:      sanitizeInput(req.DebtID),
		Description: sanitizeInput(req.Description),
		Date:        date,
	}, nil
}

type updateTransactionRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

// transferRequest is the body of POST /api/transfers.
type transferRequest struct {
	FromID     string `json:"fromId"`
	ToID       string `json:"toId"`
	Amount     string `json:"amount"`
	Commission string `json:"commission"`
	Date       string `json:"date"`
}

func (req transferRequest) command() (ledger.Transfer, error) {
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		return ledger.Transfer{}, err
	}
	commission := decimal.Zero
	if strings.TrimSpace(req.Commission) != "" {
		if commission, err = core.ParseAmount(req.Commission); err != nil {
			return ledger.Transfer{}, err
		}
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return ledger.Transfer{}, err
	}
	return ledger.Transfer{
		FromID:     sanitizeInput(req.FromID),
		ToID:       sanitizeInput(req.ToID),
		Amount:     amount,
		Commission: commission,
		Date:       date,
	}, nil
}

// parseReportOptions reads the export query. Sections default to included.
func parseReportOptions(r *http.Request) (report.Options, error) {
	q := r.URL.Query()
	period, err := report.ParsePeriod(strings.TrimSpace(q.Get("period")))
	if err != nil {
		return report.Options{}, err
	}
	opts := report.Options{Period: period}
	for _, f := range []struct {
		key string
		dst *bool
	}{
		{"transactions", &opts.Transactions},
		{"budgets", &opts.Budgets},
		{"debts", &opts.Debts},
	} {
		*f.dst = true
		if v := strings.TrimSpace(q.Get(f.key)); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return report.Options{}, fmt.Errorf("invalid %s flag %q", f.key, v)
			}
			*f.dst = b
		}
	}
	return opts, nil
}
