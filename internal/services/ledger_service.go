// Package services exposes the ledger views and mutations used by the
// interaction layer.
package services

import (
	"context"
	"fmt"
	"time"

	"katha/internal/cache"
	"katha/internal/core"
	"katha/internal/ids"
	"katha/internal/ledger"
	"katha/internal/log"
	"katha/internal/session"
	"katha/internal/sheets"
)

// Options configures a LedgerService. Zero values fall back to defaults.
type Options struct {
	Now       func() time.Time
	Location  *time.Location
	IDs       ids.Generator
	CacheSize int
	CacheTTL  time.Duration
	Logger    *log.Logger
}

// LedgerService computes views over the session snapshot and applies
// mutations to it. Views are memoised per snapshot revision and day.
type LedgerService struct {
	session *session.Session
	now     func() time.Time
	loc     *time.Location
	newID   ids.Generator
	log     *log.StructuredLogger

	dashboards *cache.Memo[Dashboard]
	ledgers    *cache.Memo[LedgerView]
	kathas     *cache.Memo[KathasView]
	insights   *cache.Memo[InsightsView]
}

func NewLedgerService(s *session.Session, opts Options) *LedgerService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.IDs == nil {
		opts.IDs = ids.New
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 256
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = log.New(log.Config{Component: log.ComponentLedger})
	}

	return &LedgerService{
		session:    s,
		now:        opts.Now,
		loc:        opts.Location,
		newID:      opts.IDs,
		log:        log.NewStructuredLogger(opts.Logger),
		dashboards: cache.NewMemo(cache.NewLRUCache[Dashboard](opts.CacheSize, opts.CacheTTL)),
		ledgers:    cache.NewMemo(cache.NewLRUCache[LedgerView](opts.CacheSize, opts.CacheTTL)),
		kathas:     cache.NewMemo(cache.NewLRUCache[KathasView](opts.CacheSize, opts.CacheTTL)),
		insights:   cache.NewMemo(cache.NewLRUCache[InsightsView](opts.CacheSize, opts.CacheTTL)),
	}
}

// RegisterCaches hands the view caches to m for periodic expiry.
func (s *LedgerService) RegisterCaches(m *cache.Manager) {
	m.Register(s.dashboards.Cache())
	m.Register(s.ledgers.Cache())
	m.Register(s.kathas.Cache())
	m.Register(s.insights.Cache())
}

// CacheStats reports lookups per view cache.
func (s *LedgerService) CacheStats() map[string]cache.Stats {
	return map[string]cache.Stats{
		"dashboard": s.dashboards.Cache().Stats(),
		"ledger":    s.ledgers.Cache().Stats(),
		"kathas":    s.kathas.Cache().Stats(),
		"insights":  s.insights.Cache().Stats(),
	}
}

// Today returns the current calendar date in the service's zone.
func (s *LedgerService) Today() core.Date {
	return core.Today(s.now().In(s.loc))
}

// Snapshot returns the current snapshot.
func (s *LedgerService) Snapshot() ledger.Snapshot {
	return s.session.Snapshot()
}

func viewKey(snap ledger.Snapshot, today core.Date, parts ...string) string {
	key := fmt.Sprintf("%d|%s", snap.Revision, today)
	for _, p := range parts {
		key += "|" + p
	}
	return key
}

// Dashboard returns the totals and header figures. selected is the katha the
// caller has focused, if any.
func (s *LedgerService) Dashboard(selected string) (Dashboard, error) {
	snap, today := s.session.Snapshot(), s.Today()
	active := ledger.ActiveKathaID(snap.Kathas, selected)

	return s.dashboards.Get(viewKey(snap, today, active), func() (Dashboard, error) {
		return Dashboard{
			Totals:          ledger.ComputeTotals(snap.Entries, today),
			KathaCount:      len(snap.Kathas),
			EntryCount:      len(snap.Entries),
			ActiveKathaID:   active,
			ActiveKathaName: ledger.KathaName(snap.Kathas, active),
			Today:           today.String(),
			Revision:        snap.Revision,
		}, nil
	})
}

// Ledger returns the active katha's entries grouped by day. With no kathas
// every entry is shown.
func (s *LedgerService) Ledger(selected string, f ledger.LedgerFilter) (LedgerView, error) {
	snap, today := s.session.Snapshot(), s.Today()
	active := ledger.ActiveKathaID(snap.Kathas, selected)
	if f.Type == "" {
		f.Type = ledger.AllTypes
	}

	return s.ledgers.Get(viewKey(snap, today, active, string(f.Type), f.Query), func() (LedgerView, error) {
		days := ledger.GroupByDate(scoped(snap.Entries, active), f)
		shown := 0
		for _, d := range days {
			shown += len(d.Items)
		}
		return LedgerView{
			ActiveKathaID: active,
			Filter:        f.Type,
			Query:         f.Query,
			Days:          days,
			Shown:         shown,
			Revision:      snap.Revision,
		}, nil
	})
}

// Kathas returns one overview per katha over all entries.
func (s *LedgerService) Kathas(selected string) (KathasView, error) {
	snap, today := s.session.Snapshot(), s.Today()
	active := ledger.ActiveKathaID(snap.Kathas, selected)

	return s.kathas.Get(viewKey(snap, today, active), func() (KathasView, error) {
		return KathasView{
			ActiveKathaID: active,
			Kathas:        ledger.Overviews(snap.Kathas, snap.Entries, today),
			Revision:      snap.Revision,
		}, nil
	})
}

// Insights summarises the active katha's entries. Katha names are resolved
// against every katha.
func (s *LedgerService) Insights(selected string) (InsightsView, error) {
	snap, today := s.session.Snapshot(), s.Today()
	active := ledger.ActiveKathaID(snap.Kathas, selected)

	return s.insights.Get(viewKey(snap, today, active), func() (InsightsView, error) {
		in := ledger.DeriveInsights(scoped(snap.Entries, active), snap.Kathas)
		hl := in.Highlights(snap.Kathas)
		if hl == nil {
			hl = []ledger.Highlight{}
		}
		return InsightsView{
			ActiveKathaID: active,
			Insights:      in,
			Highlights:    hl,
			Empty:         in.Empty(),
			Revision:      snap.Revision,
		}, nil
	})
}

// Categories suggests known categories for query, drawn from every katha.
func (s *LedgerService) Categories(query string, limit int) CategoriesView {
	snap := s.session.Snapshot()
	return CategoriesView{
		Query:       query,
		Suggestions: ledger.SuggestCategories(snap.Entries, query, limit),
		Revision:    snap.Revision,
	}
}

// Workbook lays out the whole ledger as export rows, dated in the service's
// time zone.
func (s *LedgerService) Workbook() sheets.Workbook {
	return sheets.BuildWorkbook(s.session.Snapshot(), s.Today())
}

func scoped(entries []core.LedgerEntry, active string) []core.LedgerEntry {
	if active == "" {
		return entries
	}
	return ledger.FilterByKatha(entries, active)
}

// CreateKatha validates in and adds the katha at the head of the list.
func (s *LedgerService) CreateKatha(ctx context.Context, in core.KathaInput) (core.Katha, error) {
	k, err := core.NewKatha(in, s.newID(ids.KathaPrefix), s.Today())
	if err != nil {
		return core.Katha{}, err
	}
	_, ev, err := s.session.Apply(ctx, ledger.CreateKatha{Katha: k})
	if err != nil {
		return core.Katha{}, err
	}
	s.log.LogKathaCreated(ctx, k.ID, k.Name, ev.Revision)
	return k, nil
}

// RecordEntry validates in and adds the entry. An entry without a katha goes
// to the active katha, resolved from selected.
func (s *LedgerService) RecordEntry(ctx context.Context, in core.EntryInput, selected string) (core.LedgerEntry, error) {
	snap := s.session.Snapshot()
	if len(snap.Kathas) == 0 {
		return core.LedgerEntry{}, core.ErrNoKathas
	}
	if in.KathaID == "" {
		in.KathaID = ledger.ActiveKathaID(snap.Kathas, selected)
	}

	e, err := core.NewEntry(in, s.newID(ids.EntryPrefix), s.Today())
	if err != nil {
		return core.LedgerEntry{}, err
	}
	next, ev, err := s.session.Apply(ctx, ledger.RecordEntry{Entry: e})
	if err != nil {
		return core.LedgerEntry{}, err
	}
	if stored, ok := next.Entry(e.ID); ok {
		e = stored
	}
	s.log.LogEntryRecorded(ctx, e.KathaID, e.ID, string(e.Type), e.Amount.Cents, e.Category, ev.Revision)
	return e, nil
}

// DeleteEntry removes the entry with id.
func (s *LedgerService) DeleteEntry(ctx context.Context, id string) error {
	_, ev, err := s.session.Apply(ctx, ledger.DeleteEntry{ID: id})
	if err != nil {
		return err
	}
	s.log.LogEntryDeleted(ctx, ev.KathaID, id, ev.Revision)
	return nil
}
