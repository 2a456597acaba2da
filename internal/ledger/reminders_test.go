package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financepro/internal/core"
)

func TestNextPaymentDate(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		day  int
		want time.Time
	}{
		{"later this month", testNow, 17, time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)},
		{"today already started", testNow, 10, time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)},
		{"passed rolls over", testNow, 2, time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)},
		{"clamps to month end", time.Date(2025, 2, 20, 12, 0, 0, 0, time.UTC), 31, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)},
		{"rolls over the year", time.Date(2025, 12, 30, 8, 0, 0, 0, time.UTC), 5, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NextPaymentDate(tc.now, tc.day))
		})
	}
}

func TestRemindersFireSixOrSevenDaysOut(t *testing.T) {
	f := newFixture(t)
	out := f.mustChange(ReplaceDebts{Debts: []core.DebtItem{
		{ID: "seven", Name: "Card", Initial: dec("100"), Current: dec("100"), PaymentDay: 17},
		{ID: "six", Name: "Loan", Initial: dec("100"), Current: dec("100"), PaymentDay: 16},
		{ID: "eight", Name: "Car", Initial: dec("100"), Current: dec("100"), PaymentDay: 18},
		{ID: "none", Name: "Friend", Initial: dec("100"), Current: dec("100")},
	}})
	assert.Equal(t, 2, out.Reminders)
	require.Len(t, f.state.Notifications, 2)

	ids := []string{f.state.Notifications[0].ID, f.state.Notifications[1].ID}
	assert.ElementsMatch(t, []string{"remind-seven-2025-03-17", "remind-six-2025-03-16"}, ids)
	n := f.state.Notifications[0]
	assert.Equal(t, ReminderTitle, n.Title)
	assert.Equal(t, core.NotificationInfo, n.Type)
	assert.False(t, n.Read)
	assert.Contains(t, n.Message, "day 16")
}

func TestRemindersDeduplicate(t *testing.T) {
	f := newFixture(t)
	debts := []core.DebtItem{{ID: "card", Name: "Card", Initial: dec("100"), Current: dec("100"), PaymentDay: 17}}
	f.mustChange(ReplaceDebts{Debts: debts})
	require.Len(t, f.state.Notifications, 1)

	out := f.do(CheckReminders{})
	assert.False(t, out.Changed)
	f.mustChange(ReplaceDebts{Debts: debts})
	f.mustChange(ApplyTransaction{Amount: "10", Type: core.Expense, DebtID: "card"})
	assert.Len(t, f.state.Notifications, 1)

	// A dismissed reminder for the same cycle comes back on the next scan.
	f.mustChange(DismissNotification{ID: "remind-card-2025-03-17"})
	assert.Equal(t, 1, f.mustChange(CheckReminders{}).Reminders)
}
