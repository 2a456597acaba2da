package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx runs the queries inside tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const getSetting = `SELECT value FROM settings WHERE key = ?`

func (q *Queries) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := q.db.QueryRowContext(ctx, getSetting, key).Scan(&value)
	return value, err
}

const upsertSetting = `INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

type UpsertSettingParams struct {
	Key       string
	Value     string
	UpdatedAt int64
}

func (q *Queries) UpsertSetting(ctx context.Context, arg UpsertSettingParams) error {
	_, err := q.db.ExecContext(ctx, upsertSetting, arg.Key, arg.Value, arg.UpdatedAt)
	return err
}

const deleteSetting = `DELETE FROM settings WHERE key = ?`

func (q *Queries) DeleteSetting(ctx context.Context, key string) error {
	_, err := q.db.ExecContext(ctx, deleteSetting, key)
	return err
}

const insertSnapshot = `INSERT INTO ledger_snapshots (revision, payload, created_at) VALUES (?, ?, ?)`

type InsertSnapshotParams struct {
	Revision  int64
	Payload   string
	CreatedAt int64
}

func (q *Queries) InsertSnapshot(ctx context.Context, arg InsertSnapshotParams) error {
	_, err := q.db.ExecContext(ctx, insertSnapshot, arg.Revision, arg.Payload, arg.CreatedAt)
	return err
}

const getLatestSnapshot = `SELECT id, revision, payload, created_at FROM ledger_snapshots
ORDER BY id DESC LIMIT 1`

type LedgerSnapshot struct {
	ID        int64
	Revision  int64
	Payload   string
	CreatedAt int64
}

func (q *Queries) GetLatestSnapshot(ctx context.Context) (LedgerSnapshot, error) {
	var s LedgerSnapshot
	err := q.db.QueryRowContext(ctx, getLatestSnapshot).Scan(&s.ID, &s.Revision, &s.Payload, &s.CreatedAt)
	return s, err
}

const pruneSnapshots = `DELETE FROM ledger_snapshots WHERE id NOT IN (
    SELECT id FROM ledger_snapshots ORDER BY id DESC LIMIT ?
)`

func (q *Queries) PruneSnapshots(ctx context.Context, keep int64) error {
	_, err := q.db.ExecContext(ctx, pruneSnapshots, keep)
	return err
}

const deleteSnapshots = `DELETE FROM ledger_snapshots`

func (q *Queries) DeleteSnapshots(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteSnapshots)
	return err
}
