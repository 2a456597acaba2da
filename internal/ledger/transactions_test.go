package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financepro/internal/core"
)

func TestWeeklyCycleScenario(t *testing.T) {
	f := newFixture(t)

	income := f.mustChange(ApplyTransaction{Amount: "1000", Type: core.Income, IsWeekStart: true}).Transaction
	requireDec(t, "1000", f.state.WeeklyBalance)
	assert.True(t, f.state.Spent.Needs.IsZero())
	assert.True(t, f.state.Spent.Wants.IsZero())
	assert.Equal(t, 1, f.state.TransactionCount)

	expense := f.mustChange(ApplyTransaction{Amount: "200", Type: core.Expense, CategoryID: "needs-housing"}).Transaction
	requireDec(t, "800", f.state.WeeklyBalance)
	requireDec(t, "200", f.state.Spent.Needs)
	assert.Equal(t, core.Needs, expense.Bucket)
	assert.Equal(t, "Vivienda", expense.CategoryName)

	f.mustChange(DeleteTransaction{ID: expense.ID})
	requireDec(t, "1000", f.state.WeeklyBalance)
	requireDec(t, "0", f.state.Spent.Needs)

	f.mustChange(UpdateTransaction{ID: income.ID, Amount: "1200"})
	requireDec(t, "1200", f.state.WeeklyBalance)
	assert.Empty(t, Verify(f.state))
}

func TestApplyInvalidAmountIsNoop(t *testing.T) {
	for _, in := range []string{"", "abc", "NaN", "1,2,3"} {
		f := newFixture(t)
		before := f.state
		out := f.do(ApplyTransaction{Amount: in, Type: core.Expense})
		assert.False(t, out.Changed, in)
		assert.ErrorIs(t, out.Reason, core.ErrInvalidAmount)
		assert.Equal(t, before, f.state)
	}
}

func TestApplyUnknownMethodFallsBack(t *testing.T) {
	f := newFixture(t)
	tx := f.mustChange(ApplyTransaction{Amount: "10", Type: core.Income, MethodID: "missing"}).Transaction
	assert.Equal(t, UnknownMethodName, tx.MethodName)
	assert.Empty(t, tx.MethodID)
	requireDec(t, "10", f.state.WeeklyBalance)
}

func TestApplyMovesMethodBalance(t *testing.T) {
	f := newFixture(t)
	wallet := f.addMethod("Wallet", core.Cash, "100")

	f.mustChange(ApplyTransaction{Amount: "40,5", Type: core.Income, MethodID: wallet})
	requireDec(t, "140.5", f.balance(wallet))

	tx := f.mustChange(ApplyTransaction{Amount: "0.5", Type: core.Expense, MethodID: wallet, CategoryID: "wants-dining"}).Transaction
	requireDec(t, "140", f.balance(wallet))
	assert.Equal(t, "Wallet", tx.MethodName)
	requireDec(t, "0.5", f.state.Spent.Wants)
}

func TestExpenseDebtTakesPrecedence(t *testing.T) {
	f := newFixture(t)
	f.mustChange(ReplaceDebts{Debts: []core.DebtItem{{ID: "card", Name: "Card", Initial: dec("500"), Current: dec("300")}}})

	tx := f.mustChange(ApplyTransaction{Amount: "100", Type: core.Expense, DebtID: "card", CategoryID: "needs-food"}).Transaction
	assert.True(t, tx.IsDebtPayment)
	assert.Equal(t, "Card", tx.DebtName)
	assert.Equal(t, "Alimentación", tx.CategoryName)
	assert.Empty(t, tx.Bucket)
	assert.True(t, f.state.Spent.Total().IsZero())

	d, _ := f.state.Debt("card")
	requireDec(t, "200", d.Current)

	// Reverting leaves the buckets untouched as well.
	f.mustChange(DeleteTransaction{ID: tx.ID})
	assert.True(t, f.state.Spent.Total().IsZero())
}

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		cmd  ApplyTransaction
	}{
		{"needs expense", ApplyTransaction{Amount: "50", Type: core.Expense, CategoryID: "needs-food"}},
		{"wants expense", ApplyTransaction{Amount: "12.75", Type: core.Expense, CategoryID: "wants-entertainment"}},
		{"uncategorized expense", ApplyTransaction{Amount: "30", Type: core.Expense}},
		{"plain income", ApplyTransaction{Amount: "80", Type: core.Income}},
		{"debt payment", ApplyTransaction{Amount: "25", Type: core.Expense, DebtID: "loan"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			bank := f.addMethod("Bank", core.Debit, "400")
			f.mustChange(ReplaceDebts{Debts: []core.DebtItem{{ID: "loan", Name: "Loan", Initial: dec("100"), Current: dec("100")}}})
			f.mustChange(ApplyTransaction{Amount: "300", Type: core.Income, MethodID: bank})

			before := f.state
			cmd := tc.cmd
			cmd.MethodID = bank
			tx := f.mustChange(cmd).Transaction
			f.mustChange(DeleteTransaction{ID: tx.ID})

			requireDec(t, before.WeeklyBalance.String(), f.state.WeeklyBalance)
			assert.True(t, before.Spent.Equal(f.state.Spent))
			assert.Equal(t, before.TransactionCount, f.state.TransactionCount)
			requireDec(t, "700", f.balance(bank))
			assert.Len(t, f.state.Transactions, len(before.Transactions))
			assert.Empty(t, Verify(f.state))
		})
	}
}

func TestUpdateSameValuesIsNoop(t *testing.T) {
	f := newFixture(t)
	tx := f.mustChange(ApplyTransaction{Amount: "20", Type: core.Expense, CategoryID: "needs-food", Description: "market"}).Transaction
	before := f.state

	out := f.do(UpdateTransaction{ID: tx.ID, Amount: "20.00", Description: "market"})
	assert.False(t, out.Changed)
	assert.ErrorIs(t, out.Reason, core.ErrNoChange)
	assert.Equal(t, before, f.state)

	out = f.do(UpdateTransaction{ID: "nope", Amount: "1"})
	assert.ErrorIs(t, out.Reason, core.ErrTransactionNotFound)
}

func TestUpdateDescriptionOnly(t *testing.T) {
	f := newFixture(t)
	tx := f.mustChange(ApplyTransaction{Amount: "20", Type: core.Expense, CategoryID: "needs-food"}).Transaction
	f.mustChange(UpdateTransaction{ID: tx.ID, Amount: "20", Description: "groceries"})

	got, ok := f.state.Transaction(tx.ID)
	require.True(t, ok)
	assert.Equal(t, "groceries", got.Description)
	requireDec(t, "20", f.state.Spent.Needs)
}

func TestUpdateAppliesDelta(t *testing.T) {
	f := newFixture(t)
	bank := f.addMethod("Bank", core.Debit, "0")
	f.mustChange(ReplaceDebts{Debts: []core.DebtItem{{ID: "loan", Name: "Loan", Initial: dec("500"), Current: dec("500")}}})
	f.mustChange(ApplyTransaction{Amount: "1000", Type: core.Income, IsWeekStart: true, MethodID: bank})
	expense := f.mustChange(ApplyTransaction{Amount: "100", Type: core.Expense, MethodID: bank, CategoryID: "needs-food"}).Transaction
	payment := f.mustChange(ApplyTransaction{Amount: "100", Type: core.Expense, MethodID: bank, DebtID: "loan"}).Transaction

	f.mustChange(UpdateTransaction{ID: expense.ID, Amount: "150"})
	requireDec(t, "150", f.state.Spent.Needs)
	requireDec(t, "750", f.state.WeeklyBalance)
	requireDec(t, "750", f.balance(bank))

	f.mustChange(UpdateTransaction{ID: payment.ID, Amount: "60"})
	d, _ := f.state.Debt("loan")
	requireDec(t, "440", d.Current)
	requireDec(t, "790", f.state.WeeklyBalance)
	assert.Empty(t, Verify(f.state))
}

func TestNonNegativeAggregates(t *testing.T) {
	f := newFixture(t)
	f.mustChange(ApplyTransaction{Amount: "50", Type: core.Income, IsWeekStart: true})
	e1 := f.mustChange(ApplyTransaction{Amount: "80", Type: core.Expense, CategoryID: "needs-food"}).Transaction
	requireDec(t, "0", f.state.WeeklyBalance)

	// Shrinking the amount below what was recorded cannot drive spent negative.
	f.mustChange(UpdateTransaction{ID: e1.ID, Amount: "10"})
	assert.False(t, f.state.Spent.Needs.IsNegative())
	assert.False(t, f.state.WeeklyBalance.IsNegative())

	inc := f.mustChange(ApplyTransaction{Amount: "5", Type: core.Income}).Transaction
	f.mustChange(ApplyTransaction{Amount: "500", Type: core.Expense})
	f.mustChange(DeleteTransaction{ID: inc.ID})
	requireDec(t, "0", f.state.WeeklyBalance)

	for _, b := range core.Buckets {
		assert.False(t, f.state.Spent.Get(b).IsNegative(), b)
	}
}

func TestDebtStaysWithinBounds(t *testing.T) {
	f := newFixture(t)
	f.mustChange(ReplaceDebts{Debts: []core.DebtItem{{ID: "loan", Name: "Loan", Initial: dec("100"), Current: dec("80")}}})

	pay := f.mustChange(ApplyTransaction{Amount: "120", Type: core.Expense, DebtID: "loan"}).Transaction
	d, _ := f.state.Debt("loan")
	requireDec(t, "0", d.Current)

	f.mustChange(UpdateTransaction{ID: pay.ID, Amount: "200"})
	d, _ = f.state.Debt("loan")
	requireDec(t, "0", d.Current)

	f.mustChange(DeleteTransaction{ID: pay.ID})
	d, _ = f.state.Debt("loan")
	requireDec(t, "100", d.Current, "revert must not exceed the initial amount")
}

func TestWeekStartRevertKeepsZeroedBuckets(t *testing.T) {
	f := newFixture(t)
	f.mustChange(ApplyTransaction{Amount: "500", Type: core.Income, IsWeekStart: true})
	f.mustChange(ApplyTransaction{Amount: "40", Type: core.Expense, CategoryID: "needs-food"})
	f.mustChange(ApplyTransaction{Amount: "30", Type: core.Expense, CategoryID: "savings-emergency"})
	assert.Equal(t, 3, f.state.TransactionCount)

	week := f.mustChange(ApplyTransaction{Amount: "600", Type: core.Income, IsWeekStart: true}).Transaction
	requireDec(t, "0", f.state.Spent.Needs)
	requireDec(t, "30", f.state.Spent.Savings)
	assert.Equal(t, 1, f.state.TransactionCount)

	f.mustChange(DeleteTransaction{ID: week.ID})
	requireDec(t, "0", f.state.Spent.Needs, "needs is not restored")
	requireDec(t, "30", f.state.Spent.Savings)
	requireDec(t, "0", f.state.WeeklyBalance)
	assert.Equal(t, 0, f.state.TransactionCount, "week-start revert decrements twice")
}

func TestHistoryIsNewestFirst(t *testing.T) {
	f := newFixture(t)
	a := f.mustChange(ApplyTransaction{Amount: "1", Type: core.Income}).Transaction
	b := f.mustChange(ApplyTransaction{Amount: "2", Type: core.Income}).Transaction
	require.Len(t, f.state.Transactions, 2)
	assert.Equal(t, b.ID, f.state.Transactions[0].ID)
	assert.Equal(t, a.ID, f.state.Transactions[1].ID)
	assert.Greater(t, b.Seq, a.Seq)
}

func TestRenameKeepsHistoryLinked(t *testing.T) {
	f := newFixture(t)
	bank := f.addMethod("Bank", core.Debit, "100")
	tx := f.mustChange(ApplyTransaction{Amount: "10", Type: core.Expense, MethodID: bank}).Transaction

	m, _ := f.state.Method(bank)
	m.Name = "Main bank"
	f.mustChange(SaveMethod{Method: m})

	f.mustChange(DeleteTransaction{ID: tx.ID})
	requireDec(t, "100", f.balance(bank))
}

func TestApplyRejectsOutOfRangeAmount(t *testing.T) {
	f := newFixture(t)
	a := f.addMethod("A", core.Cash, "100")
	tx := f.mustChange(ApplyTransaction{Amount: "10", Type: core.Expense, MethodID: a}).Transaction

	for _, amount := range []string{"1e2000000000", "1E3", "10000000000000000"} {
		out := f.do(ApplyTransaction{Amount: amount, Type: core.Expense, MethodID: a})
		assert.False(t, out.Changed, amount)
		assert.ErrorIs(t, out.Reason, core.ErrInvalidAmount, amount)

		out = f.do(UpdateTransaction{ID: tx.ID, Amount: amount})
		assert.False(t, out.Changed, amount)
		assert.ErrorIs(t, out.Reason, core.ErrInvalidAmount, amount)
	}
	requireDec(t, "90", f.balance(a))
	assert.Len(t, f.state.Transactions, 1)
}
