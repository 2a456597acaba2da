package ledger

import (
	"github.com/shopspring/decimal"

	"financepro/internal/core"
)

// materializeSavings credits an expense filed under a savings category to
// the account named after that category, creating a read-only cash account
// on first use. It returns the id of the credited account.
func materializeSavings(s *State, name string, amount decimal.Decimal, env Env) string {
	if m := s.methodByName(name); m != nil {
		m.Balance = m.Balance.Add(amount)
		return m.ID
	}
	m := core.PaymentMethod{
		ID:       env.newID(),
		Name:     name,
		Subtitle: SavingsSubtitle,
		Balance:  amount,
		Kind:     core.Cash,
		Label:    SavingsLabel,
		ReadOnly: true,
	}
	s.Methods = append(s.Methods, m)
	return m.ID
}

// adjustSavings mirrors an edit or revert into the savings account, never
// taking it below zero.
func adjustSavings(s *State, id string, delta decimal.Decimal) {
	if m := s.method(id); m != nil {
		m.Balance = core.FloorZero(m.Balance.Add(delta))
	}
}
