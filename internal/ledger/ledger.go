package ledger

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"financepro/internal/core"
	"financepro/internal/log"
)

// DefaultUndoDepth bounds the undo stack when Options leaves it unset.
const DefaultUndoDepth = 20

// Event is emitted to observers after every command that changed state.
type Event struct {
	Kind        EventKind              `json:"kind"`
	Revision    uint64                 `json:"revision"`
	Transaction *core.Transaction      `json:"transaction,omitempty"`
	Transfer    *core.InternalTransfer `json:"transfer,omitempty"`
	At          time.Time              `json:"at"`
}

// Observer receives events synchronously while the ledger lock is held; it
// must not dispatch commands back into the ledger.
type Observer func(Event)

// Result is an Outcome stamped with the revision it produced.
type Result struct {
	Outcome
	Revision uint64
}

type Options struct {
	Strict    bool
	UndoDepth int // 0 uses DefaultUndoDepth, negative disables undo
	Logger    *log.Logger
	Now       func() time.Time
	NewID     func() string
}

// Ledger serializes commands against one State. Every command runs to
// completion before the next starts, so readers never see torn state.
type Ledger struct {
	mu        sync.Mutex
	state     State
	revision  uint64
	env       Env
	undo      []State
	depth     int
	observers []Observer
	logger    *log.Logger
}

func New(initial State, opts Options) *Ledger {
	env := Env{Now: opts.Now, NewID: opts.NewID, Strict: opts.Strict}
	if env.Now == nil {
		env.Now = time.Now
	}
	if env.NewID == nil {
		env.NewID = uuid.NewString
	}
	depth := opts.UndoDepth
	if depth == 0 {
		depth = DefaultUndoDepth
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	return &Ledger{
		state:  initial.Clone(),
		env:    env,
		depth:  depth,
		logger: logger.WithComponent(log.ComponentLedger),
	}
}

// Observe registers fn for all future events.
func (l *Ledger) Observe(fn Observer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observers = append(l.observers, fn)
}

// Dispatch runs cmd through Reduce. Skipped commands return a nil error in
// permissive mode; in strict mode the skip reason is returned.
func (l *Ledger) Dispatch(cmd Command) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next, out := Reduce(l.state, cmd, l.env)
	if !out.Changed {
		l.logger.Debug("command skipped",
			log.NewFields().WithCommand(cmd.Name(), l.revision, false).ToSlice()...,
		)
		if out.Reason != nil {
			l.logger.Debug("skip reason", log.FieldCommand, cmd.Name(), log.FieldReason, out.Reason.Error())
		}
		res := Result{Outcome: out, Revision: l.revision}
		if l.env.Strict && out.Reason != nil {
			return res, out.Reason
		}
		return res, nil
	}

	if out.Kind == LedgerReset {
		l.undo = nil
	} else {
		l.pushUndo(l.state)
	}
	l.state = next
	l.revision++
	l.logger.Debug("command applied",
		log.NewFields().WithCommand(cmd.Name(), l.revision, true).ToSlice()...,
	)
	l.emit(Event{Kind: out.Kind, Revision: l.revision, Transaction: out.Transaction, Transfer: out.Transfer, At: l.env.Now()})
	return Result{Outcome: out, Revision: l.revision}, nil
}

// Reverted describes one undo: the state it replaced and the state it
// restored, both taken under the same lock as the undo itself.
type Reverted struct {
	Revision uint64
	Before   State
	After    State
}

// Undo restores the state before the last changing command. Undo itself
// counts as a new revision.
func (l *Ledger) Undo() (uint64, error) {
	r, err := l.Revert()
	return r.Revision, err
}

// Revert is Undo returning the replaced and restored states. A reset closes
// the undo history, so nothing before it can be reverted.
func (l *Ledger) Revert() (Reverted, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.undo) == 0 {
		return Reverted{Revision: l.revision}, core.ErrNothingToUndo
	}
	before := l.state
	l.state = l.undo[len(l.undo)-1]
	l.undo = l.undo[:len(l.undo)-1]
	l.revision++
	l.logger.Debug("command undone", log.FieldRevision, l.revision)
	l.emit(Event{Kind: LedgerUndone, Revision: l.revision, At: l.env.Now()})
	return Reverted{Revision: l.revision, Before: before.Clone(), After: l.state.Clone()}, nil
}

// Restore replaces the whole state, e.g. from a persisted snapshot, and
// clears the undo stack.
func (l *Ledger) Restore(s State, revision uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = s.Clone()
	l.revision = revision
	l.undo = nil
}

// Snapshot returns a deep copy of the current state and its revision.
func (l *Ledger) Snapshot() (State, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Clone(), l.revision
}

func (l *Ledger) Revision() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.revision
}

// Strict reports whether skip reasons are surfaced to callers.
func (l *Ledger) Strict() bool {
	return l.env.Strict
}

func (l *Ledger) pushUndo(s State) {
	if l.depth < 0 {
		return
	}
	l.undo = append(l.undo, s)
	if len(l.undo) > l.depth {
		l.undo = l.undo[len(l.undo)-l.depth:]
	}
}

func (l *Ledger) emit(ev Event) {
	for _, fn := range l.observers {
		fn(ev)
	}
}
