package tui

import (
	"context"
	"time"

	"katha/internal/core"
	"katha/internal/ledger"
	"katha/internal/log"
	"katha/internal/services"
	"katha/internal/session"
	"katha/internal/snapshot"
)

// StoreLoader reads both collections from store on every call. Unlike the
// server it surfaces read errors instead of falling back to empty data, so a
// broken store shows up in the status bar.
func StoreLoader(store snapshot.Store, loc *time.Location, logger *log.Logger) Loader {
	return func(ctx context.Context) (*services.LedgerService, error) {
		kathas, _, err := snapshot.Read[[]core.Katha](ctx, store, snapshot.KeyKathas)
		if err != nil {
			return nil, err
		}
		entries, _, err := snapshot.Read[[]core.LedgerEntry](ctx, store, snapshot.KeyEntries)
		if err != nil {
			return nil, err
		}
		kathas = snapshot.Valid(ctx, snapshot.KeyKathas, kathas)
		entries = snapshot.Valid(ctx, snapshot.KeyEntries, entries)
		now := func() time.Time { return time.Now().In(loc) }
		sess := session.New(ledger.NewSnapshot(kathas, entries), now)
		return services.NewLedgerService(sess, services.Options{
			Now:      now,
			Location: loc,
			Logger:   logger,
		}), nil
	}
}
