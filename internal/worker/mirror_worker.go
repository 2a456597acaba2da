// Package worker applies ledger events to the read-only mirror.
package worker

import (
	"context"
	"errors"
	"fmt"

	"financepro/internal/amqp"
	"financepro/internal/ledger"
	"financepro/internal/log"
	"financepro/internal/sheets"
)

// MirrorWorker keeps a sheets.LedgerMirror in step with ledger events.
type MirrorWorker struct {
	mirror sheets.LedgerMirror
	logger *log.Logger
}

func NewMirrorWorker(mirror sheets.LedgerMirror, logger *log.Logger) *MirrorWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &MirrorWorker{mirror: mirror, logger: logger.WithComponent(log.ComponentWorker)}
}

// HandleEvent processes a single ledger event from AMQP. A returned error
// asks the consumer to redeliver the message.
func (w *MirrorWorker) HandleEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	w.logger.InfoContext(ctx, "Processing ledger event",
		log.FieldEventKind, msg.Kind,
		log.FieldRevision, msg.Revision,
	)

	switch ledger.EventKind(msg.Kind) {
	case ledger.TransactionApplied, ledger.TransactionUpdated:
		if msg.Transaction == nil {
			return w.malformed(ctx, msg)
		}
		ref, err := w.mirror.UpsertTransaction(ctx, *msg.Transaction)
		if err != nil {
			return fmt.Errorf("mirror transaction %s: %w", msg.Transaction.ID, err)
		}
		w.logger.DebugContext(ctx, "Transaction mirrored", log.FieldTransactionID, msg.Transaction.ID, "row", ref)

	case ledger.TransactionDeleted:
		if msg.Transaction == nil {
			return w.malformed(ctx, msg)
		}
		return w.remove(ctx, msg, msg.Transaction.ID, w.mirror.RemoveTransaction)

	case ledger.TransferRecorded:
		if msg.Transfer == nil {
			return w.malformed(ctx, msg)
		}
		ref, err := w.mirror.UpsertTransfer(ctx, *msg.Transfer)
		if err != nil {
			return fmt.Errorf("mirror transfer %s: %w", msg.Transfer.ID, err)
		}
		w.logger.DebugContext(ctx, "Transfer mirrored", log.FieldTransferID, msg.Transfer.ID, "row", ref)

	case ledger.TransferDeleted:
		if msg.Transfer == nil {
			return w.malformed(ctx, msg)
		}
		return w.remove(ctx, msg, msg.Transfer.ID, w.mirror.RemoveTransfer)

	case ledger.LedgerReset:
		w.logger.WarnContext(ctx, "Ledger was reset; mirror rows are kept as history", log.FieldRevision, msg.Revision)

	default:
		w.logger.DebugContext(ctx, "Event not mirrored", log.FieldEventKind, msg.Kind)
	}
	return nil
}

// remove clears a mirrored row. A row that was never mirrored is not worth
// a redelivery.
func (w *MirrorWorker) remove(ctx context.Context, msg *amqp.LedgerEventMessage, id string, fn func(context.Context, string) error) error {
	err := fn(ctx, id)
	if errors.Is(err, sheets.ErrRowNotFound) {
		w.logger.WarnContext(ctx, "Mirror row not found, nothing to remove", log.FieldEventKind, msg.Kind, "id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("remove mirror row %s: %w", id, err)
	}
	return nil
}

func (w *MirrorWorker) malformed(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	w.logger.ErrorContext(ctx, "Ledger event without payload, dropping",
		log.FieldEventKind, msg.Kind,
		log.FieldRevision, msg.Revision,
	)
	return nil
}
