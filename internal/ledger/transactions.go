package ledger

import (
	"slices"

	"github.com/shopspring/decimal"

	"financepro/internal/core"
)

func applyTransaction(s *State, c ApplyTransaction, env Env) Outcome {
	amount, err := core.ParseAmount(c.Amount)
	if err != nil {
		return skipped(err)
	}
	if !c.Type.IsValid() {
		return skipped(core.ErrInvalidType)
	}
	date := c.Date
	if date.IsZero() {
		date = env.now()
	}

	tx := core.Transaction{
		ID:          env.newID(),
		Seq:         s.nextSeq(),
		Type:        c.Type,
		Amount:      amount,
		Date:        date,
		MethodName:  UnknownMethodName,
		Description: c.Description,
	}
	if m := s.method(c.MethodID); m != nil {
		tx.MethodID, tx.MethodName = m.ID, m.Name
	}

	debtsChanged := false
	switch c.Type {
	case core.Income:
		tx.IsWeekStart = c.IsWeekStart
		adjustMethod(s, tx.MethodID, amount)
		applyIncome(s, amount, c.IsWeekStart)
	case core.Expense:
		adjustMethod(s, tx.MethodID, amount.Neg())
		s.WeeklyBalance = core.FloorZero(s.WeeklyBalance.Sub(amount))
		item, bucket, hasCategory := s.category(c.CategoryID)
		if hasCategory {
			tx.CategoryID, tx.CategoryName = item.ID, item.Name
		}
		// A debt reference wins over the category: the name is kept but
		// nothing is counted toward a bucket.
		if c.DebtID != "" {
			tx.IsDebtPayment = true
			if d := s.debt(c.DebtID); d != nil {
				tx.DebtID, tx.DebtName = d.ID, d.Name
				payDebt(d, amount)
				debtsChanged = true
			}
		} else if hasCategory {
			tx.Bucket = bucket
			addSpent(s, bucket, amount)
			if bucket == core.Savings {
				tx.SavingsMethodID = materializeSavings(s, item.Name, amount, env)
			}
		}
	}
	countTransaction(s, tx)
	s.Transactions = append([]core.Transaction{tx}, s.Transactions...)

	out := Outcome{Changed: true, Kind: TransactionApplied, Transaction: &tx}
	if debtsChanged {
		out.Reminders = scanReminders(s, env.now())
	}
	return out
}

// updateTransaction applies the amount delta to every aggregate the entry
// touched, instead of reverting and reapplying it.
func updateTransaction(s *State, c UpdateTransaction, env Env) Outcome {
	i := s.transactionIndex(c.ID)
	if i < 0 {
		return skipped(core.ErrTransactionNotFound)
	}
	amount, err := core.ParseAmount(c.Amount)
	if err != nil {
		return skipped(err)
	}
	tx := s.Transactions[i]
	diff := amount.Sub(tx.Amount)
	if diff.IsZero() && c.Description == tx.Description {
		return skipped(core.ErrNoChange)
	}

	debtsChanged := false
	switch tx.Type {
	case core.Income:
		adjustMethod(s, tx.MethodID, diff)
		s.WeeklyBalance = core.FloorZero(s.WeeklyBalance.Add(diff))
	case core.Expense:
		adjustMethod(s, tx.MethodID, diff.Neg())
		s.WeeklyBalance = core.FloorZero(s.WeeklyBalance.Sub(diff))
		if tx.Bucket.IsValid() {
			addSpent(s, tx.Bucket, diff)
		}
		adjustSavings(s, tx.SavingsMethodID, diff)
		if d := s.debt(tx.DebtID); d != nil {
			payDebt(d, diff)
			debtsChanged = true
		}
	}
	tx.Amount = amount
	tx.Description = c.Description
	s.Transactions[i] = tx

	out := Outcome{Changed: true, Kind: TransactionUpdated, Transaction: &tx}
	if debtsChanged {
		out.Reminders = scanReminders(s, env.now())
	}
	return out
}

// deleteTransaction reverts an entry. Reverting a week-start income does not
// bring back the needs and wants totals it zeroed.
func deleteTransaction(s *State, c DeleteTransaction, env Env) Outcome {
	i := s.transactionIndex(c.ID)
	if i < 0 {
		return skipped(core.ErrTransactionNotFound)
	}
	tx := s.Transactions[i]

	debtsChanged := false
	switch tx.Type {
	case core.Income:
		adjustMethod(s, tx.MethodID, tx.Amount.Neg())
		s.WeeklyBalance = core.FloorZero(s.WeeklyBalance.Sub(tx.Amount))
		if tx.IsWeekStart {
			uncountTransaction(s)
		}
	case core.Expense:
		adjustMethod(s, tx.MethodID, tx.Amount)
		s.WeeklyBalance = s.WeeklyBalance.Add(tx.Amount)
		if tx.Bucket.IsValid() {
			addSpent(s, tx.Bucket, tx.Amount.Neg())
		}
		adjustSavings(s, tx.SavingsMethodID, tx.Amount.Neg())
		if d := s.debt(tx.DebtID); d != nil {
			payDebt(d, tx.Amount.Neg())
			debtsChanged = true
		}
	}
	s.Transactions = slices.Delete(s.Transactions, i, i+1)
	uncountTransaction(s)

	out := Outcome{Changed: true, Kind: TransactionDeleted, Transaction: &tx}
	if debtsChanged {
		out.Reminders = scanReminders(s, env.now())
	}
	return out
}

// adjustMethod moves a method balance. Balances are not floored: a method
// may be overdrawn.
func adjustMethod(s *State, id string, delta decimal.Decimal) {
	if m := s.method(id); m != nil {
		m.Balance = m.Balance.Add(delta)
	}
}

// payDebt lowers the outstanding amount, keeping it within [0, initial].
func payDebt(d *core.DebtItem, amount decimal.Decimal) {
	d.Current = core.Clamp(d.Current.Sub(amount), decimal.Zero, d.Initial)
}
