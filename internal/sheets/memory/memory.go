package memory

import (
	"context"
	"fmt"
	"sync"

	"financepro/internal/core"
	ports "financepro/internal/sheets"
)

var _ ports.LedgerMirror = (*Store)(nil)

type table struct {
	rows  [][]string
	index map[string]int
}

func newTable() *table {
	return &table{index: map[string]int{}}
}

func (t *table) upsert(prefix string, row []string) string {
	id := row[0]
	if i, ok := t.index[id]; ok {
		t.rows[i] = row
		return fmt.Sprintf("%s:%d", prefix, i+1)
	}
	t.rows = append(t.rows, row)
	t.index[id] = len(t.rows) - 1
	return fmt.Sprintf("%s:%d", prefix, len(t.rows))
}

// remove blanks the row in place, the way clearing a spreadsheet range does.
func (t *table) remove(id string) error {
	i, ok := t.index[id]
	if !ok {
		return ports.ErrRowNotFound
	}
	t.rows[i] = nil
	delete(t.index, id)
	return nil
}

// Store is an in-memory LedgerMirror used in development and tests.
type Store struct {
	mu           sync.Mutex
	transactions *table
	transfers    *table
}

func New() *Store {
	return &Store{transactions: newTable(), transfers: newTable()}
}

func (s *Store) UpsertTransaction(_ context.Context, tx core.Transaction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transactions.upsert("mem-tx", ports.TransactionRow(tx)), nil
}

func (s *Store) RemoveTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transactions.remove(id)
}

func (s *Store) UpsertTransfer(_ context.Context, t core.InternalTransfer) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transfers.upsert("mem-tr", ports.TransferRow(t)), nil
}

func (s *Store) RemoveTransfer(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transfers.remove(id)
}

// TransactionRows returns the non-blank transaction rows in sheet order.
func (s *Store) TransactionRows() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return liveRows(s.transactions.rows)
}

// TransferRows returns the non-blank transfer rows in sheet order.
func (s *Store) TransferRows() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return liveRows(s.transfers.rows)
}

func liveRows(rows [][]string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		if r != nil {
			out = append(out, append([]string(nil), r...))
		}
	}
	return out
}
