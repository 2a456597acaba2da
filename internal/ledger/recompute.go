package ledger

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"financepro/internal/core"
)

// Aggregates are the values Recompute derives from history.
type Aggregates struct {
	WeeklyBalance    decimal.Decimal
	Spent            core.Spent
	TransactionCount int
	MethodBalances   map[string]decimal.Decimal
}

// Drift is one aggregate whose incremental value disagrees with the fold.
type Drift struct {
	Field       string
	Incremental decimal.Decimal
	Recomputed  decimal.Decimal
}

func (d Drift) String() string {
	return fmt.Sprintf("%s: incremental %s, recomputed %s", d.Field, d.Incremental, d.Recomputed)
}

type foldStep struct {
	seq int64
	tx  *core.Transaction
	adj *Adjustment
}

// Recompute folds the surviving transactions and adjustments in sequence
// order, replaying the same rules the processors apply incrementally.
//
// The fold sees only what is still in history, so it diverges from the
// incremental view when a clamp fired or when an entry older than the latest
// week start was reverted.
func Recompute(s State) Aggregates {
	steps := make([]foldStep, 0, len(s.Transactions)+len(s.Adjustments))
	for i := range s.Transactions {
		steps = append(steps, foldStep{seq: s.Transactions[i].Seq, tx: &s.Transactions[i]})
	}
	for i := range s.Adjustments {
		steps = append(steps, foldStep{seq: s.Adjustments[i].Seq, adj: &s.Adjustments[i]})
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i].seq < steps[j].seq })

	var f State
	f.Methods = make([]core.PaymentMethod, len(s.Methods))
	for i, m := range s.Methods {
		f.Methods[i] = core.PaymentMethod{ID: m.ID}
	}

	for _, st := range steps {
		if st.adj != nil {
			switch st.adj.Kind {
			case WeeklySet:
				f.WeeklyBalance = st.adj.Amount
			case WeeklyAdd:
				f.WeeklyBalance = f.WeeklyBalance.Add(st.adj.Amount)
			case MethodDelta:
				adjustMethod(&f, st.adj.MethodID, st.adj.Amount)
			}
			continue
		}
		tx := st.tx
		switch tx.Type {
		case core.Income:
			adjustMethod(&f, tx.MethodID, tx.Amount)
			applyIncome(&f, tx.Amount, tx.IsWeekStart)
		case core.Expense:
			adjustMethod(&f, tx.MethodID, tx.Amount.Neg())
			f.WeeklyBalance = core.FloorZero(f.WeeklyBalance.Sub(tx.Amount))
			if tx.Bucket.IsValid() {
				addSpent(&f, tx.Bucket, tx.Amount)
			}
			adjustMethod(&f, tx.SavingsMethodID, tx.Amount)
		}
		countTransaction(&f, *tx)
	}

	for _, t := range s.Transfers {
		moveFunds(&f, t, false)
	}

	agg := Aggregates{
		WeeklyBalance:    f.WeeklyBalance,
		Spent:            f.Spent,
		TransactionCount: f.TransactionCount,
		MethodBalances:   make(map[string]decimal.Decimal, len(f.Methods)),
	}
	for _, m := range f.Methods {
		agg.MethodBalances[m.ID] = m.Balance
	}
	return agg
}

// Verify compares the incremental aggregates with Recompute and lists every
// disagreement. An empty result means the materialized view is consistent.
func Verify(s State) []Drift {
	agg := Recompute(s)
	var drifts []Drift
	check := func(field string, inc, rec decimal.Decimal) {
		if !inc.Equal(rec) {
			drifts = append(drifts, Drift{Field: field, Incremental: inc, Recomputed: rec})
		}
	}
	check("weeklyBalance", s.WeeklyBalance, agg.WeeklyBalance)
	for _, b := range core.Buckets {
		check("spent."+string(b), s.Spent.Get(b), agg.Spent.Get(b))
	}
	check("transactionCount", decimal.NewFromInt(int64(s.TransactionCount)), decimal.NewFromInt(int64(agg.TransactionCount)))
	for _, m := range s.Methods {
		check("method."+m.ID, m.Balance, agg.MethodBalances[m.ID])
	}
	return drifts
}
