package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"katha/internal/core"
	"katha/internal/ledger"
	"katha/internal/snapshot"
	"katha/internal/snapshot/memory"
)

func fixedClock() time.Time { return time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC) }

func testEntry(id, katha string) core.LedgerEntry {
	return core.LedgerEntry{
		ID: id, KathaID: katha, Date: core.NewDate(2024, 5, 10),
		Amount: core.Rupees(100), Type: core.Deposit, Category: core.DefaultCategory,
	}
}

func TestOpenUsesDefaultsThenStoredData(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	kathas, entries := snapshot.Seed(core.NewDate(2024, 5, 10))

	s := Open(ctx, store, kathas, entries, fixedClock)
	if got := s.Snapshot(); len(got.Kathas) != 2 || len(got.Entries) != 5 || got.NextSeq != 6 {
		t.Fatalf("seeded snapshot = %d kathas, %d entries, next seq %d", len(got.Kathas), len(got.Entries), got.NextSeq)
	}

	snapshot.Save(ctx, store, snapshot.KeyEntries, []core.LedgerEntry{testEntry("only", "katha_staff")})
	s = Open(ctx, store, kathas, entries, fixedClock)
	got := s.Snapshot()
	if len(got.Entries) != 1 || got.Entries[0].ID != "only" {
		t.Fatalf("stored entries not loaded: %+v", got.Entries)
	}
	if len(got.Kathas) != 2 {
		t.Fatalf("kathas should fall back to defaults independently, got %d", len(got.Kathas))
	}
}

func TestOpenDropsInvalidStoredEntries(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	kathas, _ := snapshot.Seed(core.NewDate(2024, 5, 10))

	_ = store.Put(ctx, snapshot.KeyEntries, []byte(`[
		{"id":"ok","kathaId":"katha_staff","date":"2024-05-10","amount":100,"type":"deposit","category":"General"},
		{"id":"zero","kathaId":"katha_staff","date":"2024-05-10","amount":0,"type":"deposit","category":"General"},
		{"id":"neg","kathaId":"katha_staff","date":"2024-05-10","amount":-50,"type":"deposit","category":"General"},
		{"id":"odd","kathaId":"katha_staff","date":"2024-05-10","amount":10,"type":"refund","category":"General"}
	]`))

	s := Open(ctx, store, kathas, nil, fixedClock)
	got := s.Snapshot()
	if len(got.Entries) != 1 || got.Entries[0].ID != "ok" {
		t.Fatalf("entries = %+v", got.Entries)
	}
	if bal := ledger.KathaBalance("katha_staff", got.Entries); bal.Cents != 10000 {
		t.Fatalf("balance = %d", bal.Cents)
	}
}

func TestApplyPersistsChangedCollection(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	s := New(ledger.NewSnapshot(nil, nil), fixedClock, Persister{Store: store})

	if _, _, err := s.Apply(ctx, ledger.CreateKatha{Katha: core.Katha{ID: "k", Name: "K"}}); err != nil {
		t.Fatalf("create katha: %v", err)
	}
	if _, ok, _ := store.Get(ctx, snapshot.KeyKathas); !ok {
		t.Fatalf("kathas not persisted")
	}
	if _, ok, _ := store.Get(ctx, snapshot.KeyEntries); ok {
		t.Fatalf("entries written although unchanged")
	}

	if _, _, err := s.Apply(ctx, ledger.RecordEntry{Entry: testEntry("e", "k")}); err != nil {
		t.Fatalf("record entry: %v", err)
	}
	persisted := snapshot.Load[[]core.LedgerEntry](ctx, store, snapshot.KeyEntries, nil)
	if len(persisted) != 1 || persisted[0].Seq != 1 {
		t.Fatalf("persisted entries = %+v", persisted)
	}
}

func TestApplyErrorLeavesSnapshotAndSkipsObservers(t *testing.T) {
	called := 0
	obs := ObserverFunc(func(context.Context, ledger.Snapshot, ledger.Event) error {
		called++
		return nil
	})
	s := New(ledger.NewSnapshot(nil, nil), fixedClock, obs)

	_, _, err := s.Apply(context.Background(), ledger.RecordEntry{Entry: testEntry("e", "k")})
	if !errors.Is(err, core.ErrNoKathas) {
		t.Fatalf("err = %v, want ErrNoKathas", err)
	}
	if called != 0 || s.Snapshot().Revision != 0 {
		t.Fatalf("observer called %d times, revision %d", called, s.Snapshot().Revision)
	}
}

func TestObserverFailureDoesNotFailMutation(t *testing.T) {
	failing := ObserverFunc(func(context.Context, ledger.Snapshot, ledger.Event) error {
		return errors.New("broker down")
	})
	s := New(ledger.NewSnapshot(nil, nil), fixedClock, failing)
	_, ev, err := s.Apply(context.Background(), ledger.CreateKatha{Katha: core.Katha{ID: "k", Name: "K"}})
	if err != nil || ev.Revision != 1 {
		t.Fatalf("apply = %+v, %v", ev, err)
	}
}

func TestObserversSeeRevisionsInOrder(t *testing.T) {
	var mu sync.Mutex
	var seen []int64
	obs := ObserverFunc(func(_ context.Context, snap ledger.Snapshot, ev ledger.Event) error {
		mu.Lock()
		defer mu.Unlock()
		if snap.Revision != ev.Revision {
			t.Errorf("snapshot revision %d != event revision %d", snap.Revision, ev.Revision)
		}
		seen = append(seen, ev.Revision)
		return nil
	})
	s := New(ledger.NewSnapshot([]core.Katha{{ID: "k", Name: "K"}}, nil), fixedClock, obs)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e := testEntry(fmt.Sprintf("e%d", i), "k")
			if _, _, err := s.Apply(context.Background(), ledger.RecordEntry{Entry: e}); err != nil {
				t.Errorf("apply %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	if len(seen) != 50 {
		t.Fatalf("observer saw %d events, want 50", len(seen))
	}
	for i, rev := range seen {
		if rev != int64(i+1) {
			t.Fatalf("event %d has revision %d", i, rev)
		}
	}
	if got := s.Snapshot(); len(got.Entries) != 50 || got.Revision != 50 {
		t.Fatalf("final snapshot = %d entries, revision %d", len(got.Entries), got.Revision)
	}
}

func TestPersisterFlushWritesBothCollections(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	kathas, entries := snapshot.Seed(core.NewDate(2024, 5, 10))

	if !(Persister{Store: store}).Flush(ctx, ledger.NewSnapshot(kathas, entries)) {
		t.Fatal("Flush reported a failed write")
	}
	gotK := snapshot.Load[[]core.Katha](ctx, store, snapshot.KeyKathas, nil)
	gotE := snapshot.Load[[]core.LedgerEntry](ctx, store, snapshot.KeyEntries, nil)
	if len(gotK) != 2 || len(gotE) != 5 {
		t.Fatalf("flushed %d kathas, %d entries", len(gotK), len(gotE))
	}
}
