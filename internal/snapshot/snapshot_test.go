package snapshot

import (
	"context"
	"errors"
	"testing"

	"katha/internal/core"
	"katha/internal/snapshot/memory"
)

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("disk gone")
}

func (failingStore) Put(context.Context, string, []byte) error {
	return errors.New("disk gone")
}

func TestLoadFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	def := []core.Katha{{ID: "default", Name: "Default"}}

	store := memory.New()
	if got := Load(ctx, store, KeyKathas, def); len(got) != 1 || got[0].ID != "default" {
		t.Fatalf("missing key: got %+v", got)
	}

	_ = store.Put(ctx, KeyKathas, []byte("{not json"))
	if got := Load(ctx, store, KeyKathas, def); got[0].ID != "default" {
		t.Fatalf("corrupt value: got %+v", got)
	}

	if got := Load(ctx, failingStore{}, KeyKathas, def); got[0].ID != "default" {
		t.Fatalf("read error: got %+v", got)
	}
}

func TestReadReportsFailures(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	if _, ok, err := Read[[]core.Katha](ctx, store, KeyKathas); ok || err != nil {
		t.Fatalf("missing key: ok=%v err=%v", ok, err)
	}

	_ = store.Put(ctx, KeyKathas, []byte("{not json"))
	if _, _, err := Read[[]core.Katha](ctx, store, KeyKathas); err == nil {
		t.Fatal("corrupt value should fail")
	}

	if _, _, err := Read[[]core.Katha](ctx, failingStore{}, KeyKathas); err == nil {
		t.Fatal("read error should fail")
	}

	_ = store.Put(ctx, KeyKathas, []byte(`[{"id":"A","name":"Community"}]`))
	got, ok, err := Read[[]core.Katha](ctx, store, KeyKathas)
	if err != nil || !ok || len(got) != 1 || got[0].Name != "Community" {
		t.Fatalf("Read = %+v %v %v", got, ok, err)
	}
}

func TestSaveThenLoad(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	_, entries := Seed(core.NewDate(2024, 5, 10))

	if !Save(ctx, store, KeyEntries, entries) {
		t.Fatalf("save reported failure")
	}
	got := Load[[]core.LedgerEntry](ctx, store, KeyEntries, nil)
	if len(got) != len(entries) {
		t.Fatalf("loaded %d entries, want %d", len(got), len(entries))
	}
	for i := range entries {
		if got[i].ID != entries[i].ID || got[i].Amount != entries[i].Amount || got[i].Date.String() != entries[i].Date.String() {
			t.Fatalf("entry %d = %+v, want %+v", i, got[i], entries[i])
		}
	}
}

func TestSaveSwallowsFailures(t *testing.T) {
	if Save(context.Background(), failingStore{}, KeyKathas, []core.Katha{}) {
		t.Fatalf("save should report failure")
	}
}

func TestSeedIsRelativeToToday(t *testing.T) {
	today := core.NewDate(2024, 5, 10)
	kathas, entries := Seed(today)
	if len(kathas) != 2 || len(entries) != 5 {
		t.Fatalf("seed sizes = %d kathas, %d entries", len(kathas), len(entries))
	}
	if entries[0].Date.String() != "2024-05-10" || entries[4].Date.String() != "2024-05-08" {
		t.Fatalf("seed dates = %s .. %s", entries[0].Date, entries[4].Date)
	}
	ids := map[string]bool{}
	for _, k := range kathas {
		if err := k.Validate(); err != nil {
			t.Fatalf("seed katha %s invalid: %v", k.ID, err)
		}
		ids[k.ID] = true
	}
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			t.Fatalf("seed entry %s invalid: %v", e.ID, err)
		}
		if !ids[e.KathaID] {
			t.Fatalf("seed entry %s references unknown katha %s", e.ID, e.KathaID)
		}
	}
}

func TestValidDropsBrokenRecords(t *testing.T) {
	ctx := context.Background()
	good := core.LedgerEntry{ID: "e1", KathaID: "k1", Date: core.NewDate(2024, 5, 10), Amount: core.Rupees(10), Type: core.Deposit}

	zero := good
	zero.ID, zero.Amount = "e2", core.Money{}
	negative := good
	negative.ID, negative.Amount = "e3", core.Money{Cents: -500}
	unknown := good
	unknown.ID, unknown.Type = "e4", core.EntryType("refund")

	got := Valid(ctx, KeyEntries, []core.LedgerEntry{good, zero, negative, unknown})
	if len(got) != 1 || got[0].ID != "e1" {
		t.Fatalf("Valid kept %+v", got)
	}
	if got := Valid[core.LedgerEntry](ctx, KeyEntries, nil); got == nil || len(got) != 0 {
		t.Fatalf("nil input should give an empty slice, got %#v", got)
	}

	kathas := Valid(ctx, KeyKathas, []core.Katha{{ID: "k1", Name: "Community"}, {ID: "k2"}})
	if len(kathas) != 1 || kathas[0].ID != "k1" {
		t.Fatalf("Valid kept kathas %+v", kathas)
	}
}
