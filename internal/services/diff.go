package services

import (
	"financepro/internal/amqp"
	"financepro/internal/core"
	"financepro/internal/ledger"
)

// diffEvents describes how the transactions and transfers of after differ
// from before, as the events that would have produced the change.
func diffEvents(before, after ledger.State, revision uint64) []*amqp.LedgerEventMessage {
	var msgs []*amqp.LedgerEventMessage
	event := func(kind ledger.EventKind, tx *core.Transaction, tr *core.InternalTransfer) {
		msgs = append(msgs, amqp.NewLedgerEventMessage(string(kind), revision, tx, tr))
	}

	old := make(map[string]core.Transaction, len(before.Transactions))
	for _, tx := range before.Transactions {
		old[tx.ID] = tx
	}
	for _, tx := range after.Transactions {
		prev, ok := old[tx.ID]
		delete(old, tx.ID)
		switch {
		case !ok:
			event(ledger.TransactionApplied, &tx, nil)
		case !prev.Amount.Equal(tx.Amount) || prev.Description != tx.Description:
			event(ledger.TransactionUpdated, &tx, nil)
		}
	}
	for _, tx := range before.Transactions {
		if gone, ok := old[tx.ID]; ok {
			event(ledger.TransactionDeleted, &gone, nil)
		}
	}

	oldTr := make(map[string]core.InternalTransfer, len(before.Transfers))
	for _, tr := range before.Transfers {
		oldTr[tr.ID] = tr
	}
	for _, tr := range after.Transfers {
		if _, ok := oldTr[tr.ID]; ok {
			delete(oldTr, tr.ID)
			continue
		}
		event(ledger.TransferRecorded, nil, &tr)
	}
	for _, tr := range before.Transfers {
		if gone, ok := oldTr[tr.ID]; ok {
			event(ledger.TransferDeleted, nil, &gone)
		}
	}
	return msgs
}
