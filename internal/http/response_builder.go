package http

import (
	"errors"

	"github.com/shopspring/decimal"

	"financepro/internal/core"
	"financepro/internal/ledger"
)

// commandResponse is the JSON answer of every command endpoint.
type commandResponse struct {
	Changed     bool                   `json:"changed"`
	Revision    uint64                 `json:"revision"`
	Kind        ledger.EventKind       `json:"kind,omitempty"`
	Reason      string                 `json:"reason,omitempty"`
	Transaction *core.Transaction      `json:"transaction,omitempty"`
	Transfer    *core.InternalTransfer `json:"transfer,omitempty"`
	Method      *core.PaymentMethod    `json:"method,omitempty"`
	Total       *decimal.Decimal       `json:"total,omitempty"`
	Reminders   int                    `json:"reminders,omitempty"`
}

func newCommandResponse(res ledger.Result) commandResponse {
	out := commandResponse{
		Changed:     res.Changed,
		Revision:    res.Revision,
		Kind:        res.Kind,
		Transaction: res.Transaction,
		Transfer:    res.Transfer,
		Method:      res.Method,
		Reminders:   res.Reminders,
	}
	if res.Reason != nil {
		out.Reason = res.Reason.Error()
	}
	return out
}

// newSetupResponse adds the liquid total reported by the methods setup.
// The settings-mode report is not a skip worth surfacing.
func newSetupResponse(res ledger.Result) commandResponse {
	out := newCommandResponse(res)
	total := res.Total
	out.Total = &total
	if errors.Is(res.Reason, core.ErrNoChange) {
		out.Reason = ""
	}
	return out
}

// snapshotResponse is the read model served by GET /api/snapshot.
type snapshotResponse struct {
	Revision           uint64              `json:"revision"`
	OnboardingComplete bool                `json:"onboardingComplete"`
	State              ledger.State        `json:"state"`
	Budget             []ledger.BudgetLine `json:"budget"`
	LiquidTotal        decimal.Decimal     `json:"liquidTotal"`
}

type driftResponse struct {
	Revision   uint64   `json:"revision"`
	Consistent bool     `json:"consistent"`
	Drift      []string `json:"drift"`
}

func newDriftResponse(drift []ledger.Drift, revision uint64) driftResponse {
	out := driftResponse{Revision: revision, Consistent: len(drift) == 0, Drift: make([]string, 0, len(drift))}
	for _, d := range drift {
		out.Drift = append(out.Drift, d.String())
	}
	return out
}
