// Package report renders the ledger's CSV export.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"financepro/internal/core"
	"financepro/internal/ledger"
)

// Period selects which transactions a report lists.
type Period string

const (
	PeriodAll          Period = "all"
	PeriodCurrentMonth Period = "current_month"
	PeriodLastMonth    Period = "last_month"
)

// ErrInvalidPeriod is returned by ParsePeriod for unknown period names.
var ErrInvalidPeriod = errors.New("invalid report period")

// ParsePeriod maps a query value to a Period. Empty means PeriodAll.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "", PeriodAll:
		return PeriodAll, nil
	case PeriodCurrentMonth, PeriodLastMonth:
		return Period(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
}

// Label is the human-readable period name printed in the report header.
func (p Period) Label() string {
	switch p {
	case PeriodCurrentMonth:
		return "This month"
	case PeriodLastMonth:
		return "Last month"
	default:
		return "All time"
	}
}

// Contains reports whether t falls in the period relative to now. Months
// are evaluated in now's location.
func (p Period) Contains(t, now time.Time) bool {
	t = t.In(now.Location())
	switch p {
	case PeriodCurrentMonth:
		return t.Year() == now.Year() && t.Month() == now.Month()
	case PeriodLastMonth:
		last := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())
		return t.Year() == last.Year() && t.Month() == last.Month()
	default:
		return true
	}
}

// Options controls which optional sections a report includes.
type Options struct {
	Period       Period
	Budgets      bool
	Debts        bool
	Transactions bool
}

// DefaultOptions includes every section over the whole history.
func DefaultOptions() Options {
	return Options{Period: PeriodAll, Budgets: true, Debts: true, Transactions: true}
}

const (
	reportTitle = "FINANCE PRO REPORT"
	dateLayout  = "2006-01-02"
	bom         = "\ufeff"
)

// Write renders the CSV report for s into w.
func Write(w io.Writer, s ledger.State, opts Options, currency string, now time.Time) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	cw := csv.NewWriter(w)
	fmtMoney := func(d decimal.Decimal) string { return FormatMoney(d, currency) }

	rows := [][]string{
		{reportTitle},
		{"Report date", now.Format(dateLayout)},
		{"Period", opts.Period.Label()},
		{},
		{"GENERAL SUMMARY"},
		{"Weekly available balance", fmtMoney(s.WeeklyBalance)},
		{"Total spent (budget)", fmtMoney(s.Spent.Total())},
		{},
	}

	if opts.Budgets {
		rows = append(rows,
			[]string{"BUDGET (50-30-20)"},
			[]string{"Category", "Allocated (est.)", "Spent", "Status"},
		)
		for _, line := range ledger.BudgetTargets(s) {
			rows = append(rows, []string{
				fmt.Sprintf("%s (%d%%)", line.Title, line.Percent),
				fmtMoney(line.Target),
				fmtMoney(line.Spent),
				percent(line.Spent, line.Target) + "%",
			})
		}
		rows = append(rows, []string{})
	}

	if opts.Debts && len(s.Debts) > 0 {
		rows = append(rows,
			[]string{"DEBTS"},
			[]string{"Name", "Detail", "Initial total", "Current balance", "Progress"},
		)
		for _, d := range s.Debts {
			rows = append(rows, []string{
				d.Name,
				d.Subtitle,
				fmtMoney(d.Initial),
				fmtMoney(d.Current),
				percent(d.Initial.Sub(d.Current), d.Initial) + "% paid",
			})
		}
		rows = append(rows, []string{})
	}

	if opts.Transactions {
		rows = append(rows,
			[]string{"TRANSACTIONS"},
			[]string{"Date", "Type", "Amount", "Category/Debt", "Payment method", "Description"},
		)
		for _, tx := range filterTransactions(s.Transactions, opts.Period, now) {
			rows = append(rows, transactionRow(tx))
		}
	}

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func filterTransactions(txs []core.Transaction, p Period, now time.Time) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if p.Contains(tx.Date, now) {
			out = append(out, tx)
		}
	}
	return out
}

func transactionRow(tx core.Transaction) []string {
	return []string{
		tx.Date.Format(dateLayout),
		strings.ToUpper(string(tx.Type)),
		tx.Amount.StringFixed(2),
		tx.Classification(),
		tx.MethodName,
		tx.Description,
	}
}

// percent returns part/whole as a whole-number percentage, 0 when whole is
// not positive.
func percent(part, whole decimal.Decimal) string {
	if !whole.IsPositive() {
		return "0"
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100)).Round(0).String()
}
