package main

import (
	"context"

	"financepro/internal/ledger"
	"financepro/internal/log"
)

// checkReminders runs one reminder scan. Payment reminders only fire on the
// days leading up to a due date, so the scan has to repeat while the
// process is up.
func checkReminders(ctx context.Context, logger *log.Logger, check func(context.Context) (ledger.Result, error)) {
	res, err := check(ctx)
	if err != nil {
		logger.Warn("Reminder check failed", log.FieldError, err)
		return
	}
	if res.Reminders > 0 {
		logger.Info("Payment reminders added", "count", res.Reminders, log.FieldRevision, res.Revision)
	}
}
