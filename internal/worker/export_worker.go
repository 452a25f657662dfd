// Package worker mirrors the persisted ledger into an external exporter.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"katha/internal/amqp"
	"katha/internal/core"
	"katha/internal/ledger"
	"katha/internal/sheets"
	"katha/internal/snapshot"
	"katha/internal/storage"
)

// Tracker remembers the last export per target.
type Tracker interface {
	LastExport(ctx context.Context, target string) (storage.ExportRecord, bool, error)
	RecordExport(ctx context.Context, rec storage.ExportRecord) error
}

// ExportWorker rebuilds the workbook from the shared snapshot store and
// hands it to the exporter. Exports are serialised.
type ExportWorker struct {
	store    snapshot.Store
	exporter sheets.LedgerExporter
	tracker  Tracker
	target   string
	loc      *time.Location
	now      func() time.Time

	mu sync.Mutex
}

type Option func(*ExportWorker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(w *ExportWorker) { w.now = now }
}

// WithLocation sets the zone that decides "today" for weekly figures.
func WithLocation(loc *time.Location) Option {
	return func(w *ExportWorker) { w.loc = loc }
}

func NewExportWorker(store snapshot.Store, exporter sheets.LedgerExporter, tracker Tracker, target string, opts ...Option) *ExportWorker {
	w := &ExportWorker{
		store:    store,
		exporter: exporter,
		tracker:  tracker,
		target:   target,
		loc:      time.UTC,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// HandleMutation processes one mutation message from AMQP. Messages
// published before the last export started are already reflected in it
// and are acknowledged without work.
func (w *ExportWorker) HandleMutation(ctx context.Context, msg *amqp.MutationMessage) error {
	slog.InfoContext(ctx, "Processing mutation message",
		"kind", msg.Kind,
		"revision", msg.Revision,
		"entry_id", msg.EntryID)

	last, ok, err := w.tracker.LastExport(ctx, w.target)
	if err != nil {
		slog.WarnContext(ctx, "Could not read last export, exporting anyway", "target", w.target, "error", err)
	} else if ok && msg.Timestamp.Before(last.StartedAt) {
		slog.InfoContext(ctx, "Skipping stale mutation message",
			"revision", msg.Revision,
			"published_at", msg.Timestamp,
			"last_export_started_at", last.StartedAt)
		return nil
	}

	if err := w.Export(ctx, msg.Revision); err != nil {
		return fmt.Errorf("export revision %d: %w", msg.Revision, err)
	}
	return nil
}

// Export reads the snapshot store and writes a full workbook. revision
// labels the export; the store itself carries no revision.
func (w *ExportWorker) Export(ctx context.Context, revision int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	started := w.now()
	snap, err := w.load(ctx)
	if err != nil {
		return err
	}
	snap.Revision = revision

	wb := sheets.BuildWorkbook(snap, core.Today(started.In(w.loc)))
	if err := w.exporter.ExportLedger(ctx, wb); err != nil {
		return fmt.Errorf("export ledger: %w", err)
	}

	rec := storage.ExportRecord{Target: w.target, Revision: revision, Rows: wb.Rows(), StartedAt: started}
	if err := w.tracker.RecordExport(ctx, rec); err != nil {
		// The export itself worked; the next message just repeats it.
		slog.ErrorContext(ctx, "Failed to record export", "target", w.target, "error", err)
	}

	slog.InfoContext(ctx, "Ledger exported",
		"target", w.target,
		"revision", revision,
		"kathas", len(snap.Kathas),
		"entries", len(snap.Entries))
	return nil
}

// load reads both collections strictly. A read failure aborts the export so
// a transient error never blanks the sheet.
func (w *ExportWorker) load(ctx context.Context) (ledger.Snapshot, error) {
	kathas, _, err := snapshot.Read[[]core.Katha](ctx, w.store, snapshot.KeyKathas)
	if err != nil {
		return ledger.Snapshot{}, fmt.Errorf("load kathas: %w", err)
	}
	entries, _, err := snapshot.Read[[]core.LedgerEntry](ctx, w.store, snapshot.KeyEntries)
	if err != nil {
		return ledger.Snapshot{}, fmt.Errorf("load entries: %w", err)
	}
	kathas = snapshot.Valid(ctx, snapshot.KeyKathas, kathas)
	entries = snapshot.Valid(ctx, snapshot.KeyEntries, entries)
	return ledger.NewSnapshot(kathas, entries), nil
}

// StartupExport writes the current store once, covering messages that were
// lost while the worker was down.
func (w *ExportWorker) StartupExport(ctx context.Context) error {
	last, ok, err := w.tracker.LastExport(ctx, w.target)
	if err != nil {
		return fmt.Errorf("get last export: %w", err)
	}
	var rev int64
	if ok {
		rev = last.Revision
	}
	slog.InfoContext(ctx, "Running startup export", "target", w.target, "previous_revision", rev)
	return w.Export(ctx, rev)
}

// RunPeriodicExport re-exports every interval until ctx is done.
func (w *ExportWorker) RunPeriodicExport(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.StartupExport(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic export failed", "error", err)
			}
		}
	}
}

// MemoryTracker keeps export records in process memory, for stores that
// have no bookkeeping table.
type MemoryTracker struct {
	mu      sync.Mutex
	records map[string]storage.ExportRecord
}

func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{records: map[string]storage.ExportRecord{}}
}

func (t *MemoryTracker) LastExport(_ context.Context, target string) (storage.ExportRecord, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, ok := t.records[target]
	return rec, ok, nil
}

func (t *MemoryTracker) RecordExport(_ context.Context, rec storage.ExportRecord) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records[rec.Target] = rec
	return nil
}

var (
	_ Tracker = (*MemoryTracker)(nil)
	_ Tracker = (*storage.SQLiteRepository)(nil)
)
