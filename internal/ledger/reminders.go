package ledger

import (
	"fmt"
	"math"
	"time"

	"financepro/internal/core"
)

// Reminders fire when the next payment is this many whole days away.
const (
	reminderMinDays = 6
	reminderMaxDays = 7
)

// NextPaymentDate returns the next occurrence of day-of-month at local
// midnight, rolling into next month once this month's date has passed.
// Days past the end of a month clamp to its last day.
func NextPaymentDate(now time.Time, day int) time.Time {
	due := paymentDate(now.Year(), now.Month(), day, now.Location())
	if due.Before(now) {
		due = paymentDate(now.Year(), now.Month()+1, day, now.Location())
	}
	return due
}

func paymentDate(year int, month time.Month, day int, loc *time.Location) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}
	return first.AddDate(0, 0, day-1)
}

// ReminderID is deterministic per debt and cycle.
func ReminderID(debtID string, due time.Time) string {
	return fmt.Sprintf("remind-%s-%s", debtID, due.Format("2006-01-02"))
}

// scanReminders is level triggered: every call inspects all debts and only
// prepends reminders whose id is not already present. It returns how many
// were added.
func scanReminders(s *State, now time.Time) int {
	added := 0
	for _, d := range s.Debts {
		if d.PaymentDay <= 0 {
			continue
		}
		due := NextPaymentDate(now, d.PaymentDay)
		days := int(math.Ceil(due.Sub(now).Hours() / 24))
		if days < reminderMinDays || days > reminderMaxDays {
			continue
		}
		id := ReminderID(d.ID, due)
		if s.hasNotification(id) {
			continue
		}
		n := core.Notification{
			ID:      id,
			Title:   ReminderTitle,
			Message: fmt.Sprintf("Your %q payment is due in 1 week (day %d).", d.Name, d.PaymentDay),
			Date:    now,
			Type:    core.NotificationInfo,
		}
		s.Notifications = append([]core.Notification{n}, s.Notifications...)
		added++
	}
	return added
}

func checkReminders(s *State, env Env) Outcome {
	n := scanReminders(s, env.now())
	if n == 0 {
		return skipped(core.ErrNoChange)
	}
	return Outcome{Changed: true, Kind: RemindersChecked, Reminders: n}
}
