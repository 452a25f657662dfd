// Package session owns the live ledger snapshot. Mutations are applied as
// whole-snapshot swaps and observers hear about each one afterwards.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"katha/internal/core"
	"katha/internal/ledger"
	"katha/internal/snapshot"
)

// Observer is told about every successful mutation, after the new snapshot
// is visible. Returned errors are logged and never undo the mutation.
type Observer interface {
	Observe(ctx context.Context, snap ledger.Snapshot, ev ledger.Event) error
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, snap ledger.Snapshot, ev ledger.Event) error

func (f ObserverFunc) Observe(ctx context.Context, snap ledger.Snapshot, ev ledger.Event) error {
	return f(ctx, snap, ev)
}

type Session struct {
	mu   sync.RWMutex
	snap ledger.Snapshot

	// notifyMu keeps observer calls in revision order without holding mu.
	notifyMu  sync.Mutex
	observers []Observer
	now       func() time.Time
}

// New creates a session around snap. now defaults to time.Now.
func New(snap ledger.Snapshot, now func() time.Time, observers ...Observer) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{snap: snap, now: now, observers: observers}
}

// Open loads both collections from store, falling back to the given
// defaults per collection, and returns a session around them. Stored records
// that fail validation are dropped.
func Open(ctx context.Context, store snapshot.Store, defKathas []core.Katha, defEntries []core.LedgerEntry, now func() time.Time, observers ...Observer) *Session {
	kathas := snapshot.Valid(ctx, snapshot.KeyKathas, snapshot.Load(ctx, store, snapshot.KeyKathas, defKathas))
	entries := snapshot.Valid(ctx, snapshot.KeyEntries, snapshot.Load(ctx, store, snapshot.KeyEntries, defEntries))
	slog.InfoContext(ctx, "Ledger snapshot loaded", "kathas", len(kathas), "entries", len(entries))
	return New(ledger.NewSnapshot(kathas, entries), now, observers...)
}

// Snapshot returns the current snapshot. Callers must not modify its slices.
func (s *Session) Snapshot() ledger.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Apply runs m against the current snapshot. On success the new snapshot
// replaces the old one and observers are notified.
func (s *Session) Apply(ctx context.Context, m ledger.Mutation) (ledger.Snapshot, ledger.Event, error) {
	s.mu.Lock()
	cur := s.snap
	next, ev, err := cur.Apply(m, s.now())
	if err != nil {
		s.mu.Unlock()
		return cur, ledger.Event{}, err
	}
	s.snap = next
	s.notifyMu.Lock()
	s.mu.Unlock()

	defer s.notifyMu.Unlock()
	for _, o := range s.observers {
		if oerr := o.Observe(ctx, next, ev); oerr != nil {
			slog.WarnContext(ctx, "Mutation observer failed",
				"kind", ev.Kind, "revision", ev.Revision, "error", oerr)
		}
	}
	return next, ev, nil
}

// Persister writes the changed collection to a snapshot store.
type Persister struct {
	Store snapshot.Store
}

func (p Persister) Observe(ctx context.Context, snap ledger.Snapshot, ev ledger.Event) error {
	switch ev.Kind {
	case ledger.KathaCreated:
		snapshot.Save(ctx, p.Store, snapshot.KeyKathas, snap.Kathas)
	default:
		snapshot.Save(ctx, p.Store, snapshot.KeyEntries, snap.Entries)
	}
	return nil
}

// Flush writes both collections of snap, so a store that started empty holds
// the same ledger the session serves.
func (p Persister) Flush(ctx context.Context, snap ledger.Snapshot) bool {
	okK := snapshot.Save(ctx, p.Store, snapshot.KeyKathas, snap.Kathas)
	okE := snapshot.Save(ctx, p.Store, snapshot.KeyEntries, snap.Entries)
	return okK && okE
}
