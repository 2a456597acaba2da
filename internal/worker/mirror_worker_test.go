package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"financepro/internal/amqp"
	"financepro/internal/core"
	"financepro/internal/ledger"
	"financepro/internal/sheets/memory"
)

func txEvent(kind ledger.EventKind, tx core.Transaction) *amqp.LedgerEventMessage {
	return amqp.NewLedgerEventMessage(string(kind), 1, &tx, nil)
}

func TestMirrorWorker_TransactionLifecycle(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	w := NewMirrorWorker(store, nil)

	tx := core.Transaction{
		ID: "t1", Type: core.Expense, Amount: decimal.RequireFromString("12.5"),
		Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), CategoryName: "Vivienda", MethodName: "Wallet",
	}
	if err := w.HandleEvent(ctx, txEvent(ledger.TransactionApplied, tx)); err != nil {
		t.Fatalf("applied: %v", err)
	}

	tx.Amount = decimal.RequireFromString("20")
	tx.Description = "fixed"
	if err := w.HandleEvent(ctx, txEvent(ledger.TransactionUpdated, tx)); err != nil {
		t.Fatalf("updated: %v", err)
	}

	rows := store.TransactionRows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0][3] != "20.00" || rows[0][6] != "fixed" {
		t.Errorf("row not rewritten: %v", rows[0])
	}

	if err := w.HandleEvent(ctx, txEvent(ledger.TransactionDeleted, tx)); err != nil {
		t.Fatalf("deleted: %v", err)
	}
	if n := len(store.TransactionRows()); n != 0 {
		t.Errorf("expected row cleared, %d left", n)
	}

	// Deleting again is acknowledged so the message is not redelivered forever.
	if err := w.HandleEvent(ctx, txEvent(ledger.TransactionDeleted, tx)); err != nil {
		t.Errorf("repeated delete should be ignored, got %v", err)
	}
}

func TestMirrorWorker_Transfers(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	w := NewMirrorWorker(store, nil)

	tr := core.InternalTransfer{ID: "x1", FromName: "Bank", ToName: "Wallet", Amount: decimal.NewFromInt(50)}
	if err := w.HandleEvent(ctx, amqp.NewLedgerEventMessage(string(ledger.TransferRecorded), 2, nil, &tr)); err != nil {
		t.Fatalf("recorded: %v", err)
	}
	if n := len(store.TransferRows()); n != 1 {
		t.Fatalf("expected 1 transfer row, got %d", n)
	}
	if err := w.HandleEvent(ctx, amqp.NewLedgerEventMessage(string(ledger.TransferDeleted), 3, nil, &tr)); err != nil {
		t.Fatalf("deleted: %v", err)
	}
	if n := len(store.TransferRows()); n != 0 {
		t.Fatalf("expected transfer row cleared, %d left", n)
	}
}

func TestMirrorWorker_IgnoredEvents(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	w := NewMirrorWorker(store, nil)

	tests := []*amqp.LedgerEventMessage{
		amqp.NewLedgerEventMessage(string(ledger.LedgerReset), 4, nil, nil),
		amqp.NewLedgerEventMessage(string(ledger.MethodSaved), 5, nil, nil),
		amqp.NewLedgerEventMessage(string(ledger.TransactionApplied), 6, nil, nil),
	}
	for _, msg := range tests {
		if err := w.HandleEvent(ctx, msg); err != nil {
			t.Errorf("%s: unexpected error %v", msg.Kind, err)
		}
	}
	if len(store.TransactionRows())+len(store.TransferRows()) != 0 {
		t.Errorf("ignored events must not write rows")
	}
}

type failingMirror struct{ *memory.Store }

func (failingMirror) UpsertTransaction(context.Context, core.Transaction) (string, error) {
	return "", errors.New("quota exceeded")
}

func TestMirrorWorker_ErrorRequestsRedelivery(t *testing.T) {
	w := NewMirrorWorker(failingMirror{memory.New()}, nil)
	err := w.HandleEvent(context.Background(), txEvent(ledger.TransactionApplied, core.Transaction{ID: "t1"}))
	if err == nil {
		t.Fatalf("expected mirror error to propagate")
	}
}
