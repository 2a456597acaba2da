package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"financepro/internal/core"
)

// Command is one of the tagged variants accepted by Reduce.
type Command interface {
	Name() string
	isCommand()
}

type (
	// ApplyTransaction records a new income or expense. Amount is raw user
	// text; unparseable text makes the command a no-op.
	ApplyTransaction struct {
		Amount      string
		Type        core.TransactionType
		IsWeekStart bool
		CategoryID  string
		MethodID    string
		DebtID      string
		Description string
		Date        time.Time // zero means Env.Now
	}

	// UpdateTransaction replaces amount and description of an existing
	// entry. Type and references are immutable.
	UpdateTransaction struct {
		ID          string
		Amount      string
		Description string
	}

	DeleteTransaction struct {
		ID string
	}

	Transfer struct {
		FromID     string
		ToID       string
		Amount     decimal.Decimal
		Commission decimal.Decimal
		Date       time.Time
	}

	DeleteTransfer struct {
		ID string
	}

	// SaveMethod upserts a payment method by id; an empty id creates one.
	SaveMethod struct {
		Method core.PaymentMethod
	}

	// FinishMethodsSetup totals liquid balances. Outside settings mode the
	// total becomes the weekly balance.
	FinishMethodsSetup struct {
		SettingsMode bool
	}

	ReplaceDebts struct {
		Debts []core.DebtItem
	}

	ReplaceSections struct {
		Sections []core.BudgetSection
	}

	MarkNotificationsRead struct{}

	DismissNotification struct {
		ID string
	}

	// CheckReminders re-evaluates debt reminders against the current time.
	CheckReminders struct{}

	// ResetLedger clears history and aggregates but keeps the configured
	// methods, sections and debts.
	ResetLedger struct{}
)

func (ApplyTransaction) Name() string      { return "apply_transaction" }
func (UpdateTransaction) Name() string     { return "update_transaction" }
func (DeleteTransaction) Name() string     { return "delete_transaction" }
func (Transfer) Name() string              { return "transfer" }
func (DeleteTransfer) Name() string        { return "delete_transfer" }
func (SaveMethod) Name() string            { return "save_method" }
func (FinishMethodsSetup) Name() string    { return "finish_methods_setup" }
func (ReplaceDebts) Name() string          { return "replace_debts" }
func (ReplaceSections) Name() string       { return "replace_sections" }
func (MarkNotificationsRead) Name() string { return "mark_notifications_read" }
func (DismissNotification) Name() string   { return "dismiss_notification" }
func (CheckReminders) Name() string        { return "check_reminders" }
func (ResetLedger) Name() string           { return "reset_ledger" }

func (ApplyTransaction) isCommand()      {}
func (UpdateTransaction) isCommand()     {}
func (DeleteTransaction) isCommand()     {}
func (Transfer) isCommand()              {}
func (DeleteTransfer) isCommand()        {}
func (SaveMethod) isCommand()            {}
func (FinishMethodsSetup) isCommand()    {}
func (ReplaceDebts) isCommand()          {}
func (ReplaceSections) isCommand()       {}
func (MarkNotificationsRead) isCommand() {}
func (DismissNotification) isCommand()   {}
func (CheckReminders) isCommand()        {}
func (ResetLedger) isCommand()           {}

// EventKind names what a changing command did.
type EventKind string

const (
	TransactionApplied   EventKind = "transaction.applied"
	TransactionUpdated   EventKind = "transaction.updated"
	TransactionDeleted   EventKind = "transaction.deleted"
	TransferRecorded     EventKind = "transfer.recorded"
	TransferDeleted      EventKind = "transfer.deleted"
	MethodSaved          EventKind = "method.saved"
	MethodsSetupFinished EventKind = "methods.setup_finished"
	DebtsReplaced        EventKind = "debts.replaced"
	SectionsReplaced     EventKind = "sections.replaced"
	NotificationsRead    EventKind = "notifications.read"
	NotificationRemoved  EventKind = "notification.dismissed"
	RemindersChecked     EventKind = "reminders.checked"
	LedgerReset          EventKind = "ledger.reset"
	LedgerUndone         EventKind = "ledger.undone"
)

// Env supplies the side-effect free reducer with time, ids and strictness.
type Env struct {
	Now    func() time.Time
	NewID  func() string
	Strict bool
}

// DefaultEnv uses the wall clock and random UUIDs.
func DefaultEnv() Env {
	return Env{Now: time.Now, NewID: uuid.NewString}
}

func (e Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e Env) newID() string {
	if e.NewID == nil {
		return uuid.NewString()
	}
	return e.NewID()
}

// Outcome reports what a command did. Reason explains why an unchanged
// command was skipped.
type Outcome struct {
	Changed     bool
	Kind        EventKind
	Reason      error
	Transaction *core.Transaction
	Transfer    *core.InternalTransfer
	Method      *core.PaymentMethod
	Total       decimal.Decimal // FinishMethodsSetup only
	Reminders   int             // reminders added by this command
}

func skipped(reason error) Outcome {
	return Outcome{Reason: reason}
}
