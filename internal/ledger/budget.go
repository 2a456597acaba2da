package ledger

import (
	"github.com/shopspring/decimal"

	"financepro/internal/core"
)

// applyIncome implements the weekly cycle: a week-start income replaces the
// weekly balance and zeroes needs and wants, while savings carries over.
func applyIncome(s *State, amount decimal.Decimal, weekStart bool) {
	if weekStart {
		s.WeeklyBalance = amount
		s.Spent = core.Spent{Savings: s.Spent.Savings}
		return
	}
	s.WeeklyBalance = s.WeeklyBalance.Add(amount)
}

func countTransaction(s *State, tx core.Transaction) {
	if tx.Type == core.Income && tx.IsWeekStart {
		s.TransactionCount = 1
		return
	}
	s.TransactionCount++
}

func uncountTransaction(s *State) {
	if s.TransactionCount > 0 {
		s.TransactionCount--
	}
}

// addSpent moves a bucket total, flooring it at zero.
func addSpent(s *State, b core.Bucket, delta decimal.Decimal) {
	s.Spent = s.Spent.With(b, core.FloorZero(s.Spent.Get(b).Add(delta)))
}

// BudgetLine is one row of the 50/30/20 allocation.
type BudgetLine struct {
	Bucket      core.Bucket     `json:"bucket"`
	Title       string          `json:"title"`
	Percent     int             `json:"percent"`
	Target      decimal.Decimal `json:"target"`
	Spent       decimal.Decimal `json:"spent"`
	Remaining   decimal.Decimal `json:"remaining"`
	UsedPercent decimal.Decimal `json:"usedPercent"`
}

// BudgetTargets splits the week's funds (what is left plus what was spent)
// across the buckets by their target percentages. The targets are
// informational; nothing caps spending at them.
func BudgetTargets(s State) []BudgetLine {
	base := s.WeeklyBalance.Add(s.Spent.Total())
	hundred := decimal.NewFromInt(100)

	lines := make([]BudgetLine, 0, len(core.Buckets))
	for _, b := range core.Buckets {
		line := BudgetLine{Bucket: b, Title: string(b), Percent: b.TargetPercent(), Spent: s.Spent.Get(b)}
		for _, sec := range s.Sections {
			if sec.ID == b {
				line.Title = sec.Title
			}
		}
		line.Target = base.Mul(decimal.NewFromInt(int64(line.Percent))).Div(hundred)
		line.Remaining = line.Target.Sub(line.Spent)
		if line.Target.IsPositive() {
			line.UsedPercent = line.Spent.Div(line.Target).Mul(hundred).Round(1)
		}
		lines = append(lines, line)
	}
	return lines
}
