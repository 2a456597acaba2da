package ledger

import "financepro/internal/core"

// Reduce is the single entry point for every state change. It never mutates
// s: the returned state is a new value, or s itself when the command was
// skipped.
func Reduce(s State, cmd Command, env Env) (State, Outcome) {
	next := s.Clone()
	var out Outcome
	switch c := cmd.(type) {
	case ApplyTransaction:
		out = applyTransaction(&next, c, env)
	case UpdateTransaction:
		out = updateTransaction(&next, c, env)
	case DeleteTransaction:
		out = deleteTransaction(&next, c, env)
	case Transfer:
		out = recordTransfer(&next, c, env)
	case DeleteTransfer:
		out = deleteTransfer(&next, c)
	case SaveMethod:
		out = saveMethod(&next, c, env)
	case FinishMethodsSetup:
		out = finishMethodsSetup(&next, c)
	case ReplaceDebts:
		out = replaceDebts(&next, c, env)
	case ReplaceSections:
		out = replaceSections(&next, c, env)
	case MarkNotificationsRead:
		out = markNotificationsRead(&next)
	case DismissNotification:
		out = dismissNotification(&next, c)
	case CheckReminders:
		out = checkReminders(&next, env)
	case ResetLedger:
		out = resetLedger(&next)
	default:
		return s, skipped(core.ErrUnknownCommand)
	}
	if !out.Changed {
		return s, out
	}
	return next, out
}
