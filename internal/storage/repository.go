package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"financepro/internal/log"
)

const (
	onboardingKey = "onboarding_complete"
	// snapshotsKept bounds the snapshot table; only the latest is ever read.
	snapshotsKept = 10
)

// Snapshot is a serialized ledger state at one revision.
type Snapshot struct {
	Revision  uint64
	Payload   []byte
	CreatedAt time.Time
}

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	logger  *log.Logger
	now     func() time.Time
}

// NewSQLiteRepository opens (creating if needed) the database at dbPath and
// applies pending migrations.
func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	if logger == nil {
		logger = log.Discard()
	}
	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		logger:  logger.WithComponent(log.ComponentStorage),
		now:     time.Now,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// OnboardingComplete reads the durable onboarding flag. A missing row means
// onboarding has not happened yet.
func (r *SQLiteRepository) OnboardingComplete(ctx context.Context) (bool, error) {
	v, err := r.queries.GetSetting(ctx, onboardingKey)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get onboarding flag: %w", err)
	}
	done, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parse onboarding flag %q: %w", v, err)
	}
	return done, nil
}

// SetOnboardingComplete stores the flag; clearing it removes the row.
func (r *SQLiteRepository) SetOnboardingComplete(ctx context.Context, done bool) error {
	if !done {
		if err := r.queries.DeleteSetting(ctx, onboardingKey); err != nil {
			return fmt.Errorf("clear onboarding flag: %w", err)
		}
		return nil
	}
	err := r.queries.UpsertSetting(ctx, UpsertSettingParams{
		Key:       onboardingKey,
		Value:     strconv.FormatBool(true),
		UpdatedAt: r.now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("set onboarding flag: %w", err)
	}
	r.logger.InfoContext(ctx, "Onboarding marked complete")
	return nil
}

// SaveSnapshot stores payload for revision and prunes old snapshots in the
// same transaction.
func (r *SQLiteRepository) SaveSnapshot(ctx context.Context, revision uint64, payload []byte) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.InsertSnapshot(ctx, InsertSnapshotParams{
		Revision:  int64(revision),
		Payload:   string(payload),
		CreatedAt: r.now().Unix(),
	}); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	if err := q.PruneSnapshots(ctx, snapshotsKept); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}

	r.logger.DebugContext(ctx, "Ledger snapshot saved", log.FieldRevision, revision, "bytes", len(payload))
	return nil
}

// LatestSnapshot returns the most recent snapshot; ok is false when none
// exists.
func (r *SQLiteRepository) LatestSnapshot(ctx context.Context) (Snapshot, bool, error) {
	row, err := r.queries.GetLatestSnapshot(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("get latest snapshot: %w", err)
	}
	return Snapshot{
		Revision:  uint64(row.Revision),
		Payload:   []byte(row.Payload),
		CreatedAt: time.Unix(row.CreatedAt, 0),
	}, true, nil
}

// DeleteSnapshots drops every stored snapshot.
func (r *SQLiteRepository) DeleteSnapshots(ctx context.Context) error {
	if err := r.queries.DeleteSnapshots(ctx); err != nil {
		return fmt.Errorf("delete snapshots: %w", err)
	}
	return nil
}
