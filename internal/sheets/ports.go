// Package sheets defines the read-only mirror collaborator: a tabular copy
// of the ledger history, kept in sync from ledger events.
package sheets

import (
	"context"
	"errors"

	"financepro/internal/core"
)

var ErrRowNotFound = errors.New("row not found")

// Ports for outbound adapters.
type (
	// TransactionMirror keeps one row per transaction, keyed by id.
	TransactionMirror interface {
		UpsertTransaction(ctx context.Context, tx core.Transaction) (rowRef string, err error)
		RemoveTransaction(ctx context.Context, id string) error
	}

	// TransferMirror keeps one row per internal transfer, keyed by id.
	TransferMirror interface {
		UpsertTransfer(ctx context.Context, t core.InternalTransfer) (rowRef string, err error)
		RemoveTransfer(ctx context.Context, id string) error
	}

	LedgerMirror interface {
		TransactionMirror
		TransferMirror
	}
)
