package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"financepro/internal/amqp"
	"financepro/internal/core"
	"financepro/internal/ledger"
	"financepro/internal/log"
	"financepro/internal/storage"
)

// Store is the durable side of the ledger: the onboarding flag and the
// optional state snapshots. *storage.SQLiteRepository implements it.
type Store interface {
	Ping(ctx context.Context) error
	OnboardingComplete(ctx context.Context) (bool, error)
	SetOnboardingComplete(ctx context.Context, done bool) error
	SaveSnapshot(ctx context.Context, revision uint64, payload []byte) error
	LatestSnapshot(ctx context.Context) (storage.Snapshot, bool, error)
	DeleteSnapshots(ctx context.Context) error
	Close() error
}

// EventPublisher delivers ledger events to the bus. *amqp.Client implements it.
type EventPublisher interface {
	Publish(ctx context.Context, msg *amqp.LedgerEventMessage) error
	Close() error
}

// ServiceOptions configures a LedgerService.
type ServiceOptions struct {
	Ledger           ledger.Options
	PersistSnapshots bool
}

// LedgerService orchestrates ledger commands across storage and AMQP.
// Commands are applied in memory first; persistence and publishing
// failures are logged and never fail the command.
type LedgerService struct {
	ledger    *ledger.Ledger
	store     Store
	publisher EventPublisher
	persist   bool
	logger    *log.Logger

	persistMu     sync.Mutex
	lastPersisted uint64
}

// NewLedgerService builds the service and, when snapshots are enabled,
// restores the latest one. A nil publisher disables event publishing.
func NewLedgerService(ctx context.Context, store Store, publisher EventPublisher, opts ServiceOptions) (*LedgerService, error) {
	logger := opts.Ledger.Logger
	if logger == nil {
		logger = log.Discard()
	}
	opts.Ledger.Logger = logger

	s := &LedgerService{
		store:     store,
		publisher: publisher,
		persist:   opts.PersistSnapshots,
		logger:    logger.WithComponent(log.ComponentService),
	}

	initial := ledger.NewState()
	var revision uint64
	if s.persist && store != nil {
		snap, ok, err := store.LatestSnapshot(ctx)
		if err != nil {
			return nil, fmt.Errorf("load snapshot: %w", err)
		}
		if ok {
			if err := json.Unmarshal(snap.Payload, &initial); err != nil {
				return nil, fmt.Errorf("decode snapshot: %w", err)
			}
			revision = snap.Revision
			s.logger.Info("Ledger restored from snapshot",
				log.FieldOperation, log.OpRestore,
				log.FieldRevision, revision,
				"transactions", len(initial.Transactions),
			)
		}
	}

	s.ledger = ledger.New(initial, opts.Ledger)
	if revision > 0 {
		s.ledger.Restore(initial, revision)
		s.lastPersisted = revision
	}
	return s, nil
}

// Ledger exposes the underlying ledger, mostly for observers.
func (s *LedgerService) Ledger() *ledger.Ledger { return s.ledger }

// Strict reports whether skipped commands surface their reason.
func (s *LedgerService) Strict() bool { return s.ledger.Strict() }

// Execute dispatches cmd and, if it changed the ledger, persists and
// publishes the result.
func (s *LedgerService) Execute(ctx context.Context, cmd ledger.Command) (ledger.Result, error) {
	res, err := s.ledger.Dispatch(cmd)
	if err != nil {
		return res, err
	}
	if !res.Changed {
		return res, nil
	}
	s.afterChange(ctx, amqp.NewLedgerEventMessage(string(res.Kind), res.Revision, res.Transaction, res.Transfer))
	return res, nil
}

func (s *LedgerService) ApplyTransaction(ctx context.Context, cmd ledger.ApplyTransaction) (ledger.Result, error) {
	return s.Execute(ctx, cmd)
}

func (s *LedgerService) UpdateTransaction(ctx context.Context, cmd ledger.UpdateTransaction) (ledger.Result, error) {
	return s.Execute(ctx, cmd)
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) (ledger.Result, error) {
	return s.Execute(ctx, ledger.DeleteTransaction{ID: id})
}

func (s *LedgerService) Transfer(ctx context.Context, cmd ledger.Transfer) (ledger.Result, error) {
	return s.Execute(ctx, cmd)
}

func (s *LedgerService) DeleteTransfer(ctx context.Context, id string) (ledger.Result, error) {
	return s.Execute(ctx, ledger.DeleteTransfer{ID: id})
}

func (s *LedgerService) SaveMethod(ctx context.Context, m core.PaymentMethod) (ledger.Result, error) {
	return s.Execute(ctx, ledger.SaveMethod{Method: m})
}

// FinishMethodsSetup totals the liquid balances. Until onboarding is
// complete the total also becomes the weekly balance.
func (s *LedgerService) FinishMethodsSetup(ctx context.Context) (ledger.Result, error) {
	done, err := s.OnboardingComplete(ctx)
	if err != nil {
		return ledger.Result{}, err
	}
	res, err := s.Execute(ctx, ledger.FinishMethodsSetup{SettingsMode: done})
	if done && errors.Is(err, core.ErrNoChange) {
		return res, nil
	}
	return res, err
}

func (s *LedgerService) ReplaceDebts(ctx context.Context, debts []core.DebtItem) (ledger.Result, error) {
	return s.Execute(ctx, ledger.ReplaceDebts{Debts: debts})
}

func (s *LedgerService) ReplaceSections(ctx context.Context, sections []core.BudgetSection) (ledger.Result, error) {
	return s.Execute(ctx, ledger.ReplaceSections{Sections: sections})
}

func (s *LedgerService) MarkNotificationsRead(ctx context.Context) (ledger.Result, error) {
	return s.Execute(ctx, ledger.MarkNotificationsRead{})
}

func (s *LedgerService) DismissNotification(ctx context.Context, id string) (ledger.Result, error) {
	return s.Execute(ctx, ledger.DismissNotification{ID: id})
}

func (s *LedgerService) CheckReminders(ctx context.Context) (ledger.Result, error) {
	return s.Execute(ctx, ledger.CheckReminders{})
}

// Undo reverts the last changing command. Besides the undo event it
// publishes the row-level changes the revert implies, so mirrors that only
// understand transaction and transfer events stay in line.
//
// A reset cannot be undone: it also clears the onboarding flag and the
// stored snapshots, which live outside the ledger.
func (s *LedgerService) Undo(ctx context.Context) (uint64, error) {
	r, err := s.ledger.Revert()
	if err != nil {
		return r.Revision, err
	}

	msgs := append([]*amqp.LedgerEventMessage{
		amqp.NewLedgerEventMessage(string(ledger.LedgerUndone), r.Revision, nil, nil),
	}, diffEvents(r.Before, r.After, r.Revision)...)
	s.afterChange(ctx, msgs...)
	return r.Revision, nil
}

// Reset clears the ledger history, the onboarding flag and any stored
// snapshots.
func (s *LedgerService) Reset(ctx context.Context) (ledger.Result, error) {
	res, err := s.ledger.Dispatch(ledger.ResetLedger{})
	if err != nil {
		return res, err
	}
	if s.store != nil {
		if err := s.store.SetOnboardingComplete(ctx, false); err != nil {
			return res, fmt.Errorf("clear onboarding flag: %w", err)
		}
		if err := s.store.DeleteSnapshots(ctx); err != nil {
			s.logger.ErrorContext(ctx, "Failed to delete snapshots", log.FieldError, err)
		}
	}
	s.persistMu.Lock()
	s.lastPersisted = 0
	s.persistMu.Unlock()

	if res.Changed {
		s.afterChange(ctx, amqp.NewLedgerEventMessage(string(res.Kind), res.Revision, nil, nil))
	}
	s.logger.InfoContext(ctx, "Ledger reset", log.FieldOperation, log.OpReset, log.FieldRevision, res.Revision)
	return res, nil
}

func (s *LedgerService) OnboardingComplete(ctx context.Context) (bool, error) {
	if s.store == nil {
		return false, nil
	}
	done, err := s.store.OnboardingComplete(ctx)
	if err != nil {
		return false, fmt.Errorf("read onboarding flag: %w", err)
	}
	return done, nil
}

func (s *LedgerService) CompleteOnboarding(ctx context.Context) error {
	if s.store == nil {
		return errors.New("no store configured")
	}
	if err := s.store.SetOnboardingComplete(ctx, true); err != nil {
		return fmt.Errorf("set onboarding flag: %w", err)
	}
	return nil
}

// Snapshot returns a copy of the current state and its revision.
func (s *LedgerService) Snapshot() (ledger.State, uint64) {
	return s.ledger.Snapshot()
}

// Verify refolds history and lists aggregates that drifted.
func (s *LedgerService) Verify() ([]ledger.Drift, uint64) {
	st, rev := s.ledger.Snapshot()
	return ledger.Verify(st), rev
}

// Ready checks the store is reachable.
func (s *LedgerService) Ready(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	return s.store.Ping(ctx)
}

func (s *LedgerService) afterChange(ctx context.Context, msgs ...*amqp.LedgerEventMessage) {
	if s.persist {
		if err := s.persistSnapshot(ctx); err != nil {
			s.logger.ErrorContext(ctx, "Failed to persist snapshot", log.FieldError, err)
		}
	}
	for _, msg := range msgs {
		if err := s.publish(ctx, msg); err != nil {
			s.logger.ErrorContext(ctx, "Failed to publish ledger event",
				log.FieldEventKind, msg.Kind,
				log.FieldRevision, msg.Revision,
				log.FieldError, err,
			)
		}
	}
}

// persistSnapshot stores the current state unless a newer revision has
// already been written by a concurrent command.
func (s *LedgerService) persistSnapshot(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	st, rev := s.ledger.Snapshot()
	if rev <= s.lastPersisted {
		return nil
	}
	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.store.SaveSnapshot(ctx, rev, payload); err != nil {
		return err
	}
	s.lastPersisted = rev
	s.logger.DebugContext(ctx, "Snapshot persisted", log.FieldOperation, log.OpSnapshot, log.FieldRevision, rev)
	return nil
}

func (s *LedgerService) publish(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	if s.publisher == nil {
		s.logger.WarnContext(ctx, "AMQP client not available, skipping event", log.FieldEventKind, msg.Kind)
		return nil
	}
	return s.publisher.Publish(ctx, msg)
}

// Close closes both storage and AMQP connections
func (s *LedgerService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %w", errors.Join(errs...))
	}
	return nil
}
