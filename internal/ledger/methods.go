package ledger

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"financepro/internal/core"
)

func saveMethod(s *State, c SaveMethod, env Env) Outcome {
	m := c.Method
	if err := m.Validate(); err != nil {
		return skipped(fmt.Errorf("%w: %v", core.ErrInvalidEntity, err))
	}
	// Only the savings materializer creates read-only accounts.
	m.ReadOnly = false
	if m.ID == "" {
		m.ID = env.newID()
	}

	if old := s.method(m.ID); old != nil {
		if old.ReadOnly {
			return skipped(core.ErrReadOnlyMethod)
		}
		delta := m.Balance.Sub(old.Balance)
		*old = m
		if !delta.IsZero() {
			s.adjust(MethodDelta, m.ID, delta)
		}
		return Outcome{Changed: true, Kind: MethodSaved, Method: &m}
	}

	s.Methods = append(s.Methods, m)
	if !m.Balance.IsZero() {
		s.adjust(MethodDelta, m.ID, m.Balance)
	}
	// New owned funds become spendable this week.
	if m.Kind != core.Credit && m.Balance.IsPositive() {
		s.WeeklyBalance = s.WeeklyBalance.Add(m.Balance)
		s.adjust(WeeklyAdd, m.ID, m.Balance)
	}
	return Outcome{Changed: true, Kind: MethodSaved, Method: &m}
}

// finishMethodsSetup reports total liquid assets. During first-time setup
// the total seeds the weekly balance; from settings it only reports.
func finishMethodsSetup(s *State, c FinishMethodsSetup) Outcome {
	total := s.LiquidTotal()
	if c.SettingsMode {
		return Outcome{Total: total, Reason: core.ErrNoChange}
	}
	s.WeeklyBalance = total
	s.adjust(WeeklySet, "", total)
	return Outcome{Changed: true, Kind: MethodsSetupFinished, Total: total}
}

// replaceDebts swaps in the edited debt list. Existing debts keep the
// initial amount they were created with.
func replaceDebts(s *State, c ReplaceDebts, env Env) Outcome {
	debts := make([]core.DebtItem, 0, len(c.Debts))
	for _, d := range c.Debts {
		if err := d.Validate(); err != nil {
			return skipped(fmt.Errorf("%w: debt %q: %v", core.ErrInvalidEntity, d.Name, err))
		}
		if d.ID == "" {
			d.ID = env.newID()
		}
		if old := s.debt(d.ID); old != nil {
			d.Initial = old.Initial
		} else if d.Initial.IsZero() {
			d.Initial = d.Current
		}
		d.Current = core.Clamp(d.Current, decimal.Zero, d.Initial)
		debts = append(debts, d)
	}
	s.Debts = debts
	return Outcome{Changed: true, Kind: DebtsReplaced, Reminders: scanReminders(s, env.now())}
}

func replaceSections(s *State, c ReplaceSections, env Env) Outcome {
	sections := make([]core.BudgetSection, 0, len(c.Sections))
	for _, sec := range c.Sections {
		if !sec.ID.IsValid() {
			return skipped(fmt.Errorf("%w: unknown bucket %q", core.ErrInvalidEntity, sec.ID))
		}
		items := make([]core.CategoryItem, 0, len(sec.Items))
		for _, item := range sec.Items {
			if item.Name == "" {
				return skipped(fmt.Errorf("%w: empty category name in %s", core.ErrInvalidEntity, sec.ID))
			}
			if item.ID == "" {
				item.ID = env.newID()
			}
			items = append(items, item)
		}
		sec.Items = items
		sections = append(sections, sec)
	}
	s.Sections = sections
	return Outcome{Changed: true, Kind: SectionsReplaced}
}

func markNotificationsRead(s *State) Outcome {
	changed := false
	for i := range s.Notifications {
		if !s.Notifications[i].Read {
			s.Notifications[i].Read = true
			changed = true
		}
	}
	if !changed {
		return skipped(core.ErrNoChange)
	}
	return Outcome{Changed: true, Kind: NotificationsRead}
}

func dismissNotification(s *State, c DismissNotification) Outcome {
	i := slices.IndexFunc(s.Notifications, func(n core.Notification) bool { return n.ID == c.ID })
	if i < 0 {
		return skipped(core.ErrNotificationNotFound)
	}
	s.Notifications = slices.Delete(s.Notifications, i, i+1)
	return Outcome{Changed: true, Kind: NotificationRemoved}
}

// resetLedger drops history and aggregates. Method balances survive and are
// rebased as opening adjustments.
func resetLedger(s *State) Outcome {
	s.Transactions = nil
	s.Transfers = nil
	s.WeeklyBalance = decimal.Zero
	s.Spent = core.Spent{}
	s.TransactionCount = 0
	s.Adjustments = nil
	for _, m := range s.Methods {
		if !m.Balance.IsZero() {
			s.adjust(MethodDelta, m.ID, m.Balance)
		}
	}
	return Outcome{Changed: true, Kind: LedgerReset}
}
