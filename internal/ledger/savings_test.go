package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financepro/internal/core"
)

func savingsAccounts(s State) []core.PaymentMethod {
	var out []core.PaymentMethod
	for _, m := range s.Methods {
		if m.ReadOnly {
			out = append(out, m)
		}
	}
	return out
}

func TestSavingsExpenseMaterializesAccount(t *testing.T) {
	f := newFixture(t)
	bank := f.addMethod("Bank", core.Debit, "1000")

	first := f.mustChange(ApplyTransaction{Amount: "100", Type: core.Expense, MethodID: bank, CategoryID: "savings-emergency"}).Transaction
	accounts := savingsAccounts(f.state)
	require.Len(t, accounts, 1)
	acc := accounts[0]
	assert.Equal(t, "Fondo Emergencia", acc.Name)
	assert.Equal(t, core.Cash, acc.Kind)
	assert.Equal(t, SavingsSubtitle, acc.Subtitle)
	assert.Equal(t, acc.ID, first.SavingsMethodID)
	requireDec(t, "100", acc.Balance)
	requireDec(t, "900", f.balance(bank))
	requireDec(t, "100", f.state.Spent.Savings)

	f.mustChange(ApplyTransaction{Amount: "50", Type: core.Expense, MethodID: bank, CategoryID: "savings-emergency"})
	require.Len(t, savingsAccounts(f.state), 1, "one account per savings category")
	requireDec(t, "150", f.balance(acc.ID))

	f.mustChange(ApplyTransaction{Amount: "10", Type: core.Expense, CategoryID: "savings-investments"})
	assert.Len(t, savingsAccounts(f.state), 2)
	assert.Empty(t, Verify(f.state))
}

func TestSavingsAccountFollowsEditsAndReverts(t *testing.T) {
	f := newFixture(t)
	tx := f.mustChange(ApplyTransaction{Amount: "100", Type: core.Expense, CategoryID: "savings-investments"}).Transaction
	acc := tx.SavingsMethodID

	f.mustChange(UpdateTransaction{ID: tx.ID, Amount: "130"})
	requireDec(t, "130", f.balance(acc))
	requireDec(t, "130", f.state.Spent.Savings)

	f.mustChange(DeleteTransaction{ID: tx.ID})
	requireDec(t, "0", f.balance(acc))
	requireDec(t, "0", f.state.Spent.Savings)
}

func TestSavingsAccountIsReadOnly(t *testing.T) {
	f := newFixture(t)
	tx := f.mustChange(ApplyTransaction{Amount: "100", Type: core.Expense, CategoryID: "savings-investments"}).Transaction
	acc, _ := f.state.Method(tx.SavingsMethodID)

	acc.Balance = dec("1000000")
	out := f.do(SaveMethod{Method: acc})
	assert.False(t, out.Changed)
	assert.ErrorIs(t, out.Reason, core.ErrReadOnlyMethod)
	requireDec(t, "100", f.balance(acc.ID))
}

func TestSavingsCreditsExistingMethodWithSameName(t *testing.T) {
	f := newFixture(t)
	own := f.addMethod("Inversiones", core.Debit, "10")
	tx := f.mustChange(ApplyTransaction{Amount: "5", Type: core.Expense, CategoryID: "savings-investments"}).Transaction
	assert.Equal(t, own, tx.SavingsMethodID)
	requireDec(t, "15", f.balance(own))
	assert.Empty(t, savingsAccounts(f.state))
}
