package ledger

import (
	"reflect"
	"testing"

	"katha/internal/core"
)

func TestGroupByDateScenario(t *testing.T) {
	groups := GroupByDate(scenarioEntries(), LedgerFilter{Type: AllTypes})
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
	if groups[0].Date != "2024-05-02" || groups[1].Date != "2024-05-01" {
		t.Fatalf("groups not date descending: %s, %s", groups[0].Date, groups[1].Date)
	}
	if groups[1].Total != core.Rupees(1700) {
		t.Fatalf("2024-05-01 total = %v, want 1700", groups[1].Total)
	}
}

func TestGroupByDateFilters(t *testing.T) {
	entries := scenarioEntries()
	entries[0].Note = "Collected by SUNITA"

	tests := []struct {
		name   string
		filter LedgerFilter
		want   []string
	}{
		{"all", LedgerFilter{Type: AllTypes}, []string{"e3", "e1", "e2"}},
		{"zero value means all", LedgerFilter{}, []string{"e3", "e1", "e2"}},
		{"type", LedgerFilter{Type: TypeFilter(core.Expense)}, []string{"e2"}},
		{"category case-insensitive", LedgerFilter{Type: AllTypes, Query: "LOAN"}, []string{"e2"}},
		{"note", LedgerFilter{Type: AllTypes, Query: "sunita"}, []string{"e1"}},
		{"type and query", LedgerFilter{Type: TypeFilter(core.Deposit), Query: "general"}, []string{"e3"}},
		{"no match", LedgerFilter{Type: TypeFilter(core.Income)}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := GroupByDate(entries, tt.filter)
			if groups == nil {
				t.Fatalf("groups must be non-nil")
			}
			var got []string
			seen := map[string]bool{}
			for _, g := range groups {
				var net int64
				for _, e := range g.Items {
					if seen[e.ID] {
						t.Fatalf("%s appears in two groups", e.ID)
					}
					seen[e.ID] = true
					got = append(got, e.ID)
					net += e.Signed()
				}
				if g.Total.Cents != net {
					t.Fatalf("group %s total %d, want %d", g.Date, g.Total.Cents, net)
				}
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ids = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGroupByDateOrdersNewestRecordedFirst(t *testing.T) {
	a := entry("a", "A", core.Deposit, 1, "2024-05-01", "")
	b := entry("b", "A", core.Deposit, 1, "2024-05-01", "")
	c := entry("c", "A", core.Deposit, 1, "2024-05-01", "")
	a.Seq, b.Seq, c.Seq = 1, 3, 2

	groups := GroupByDate([]core.LedgerEntry{a, b, c}, LedgerFilter{})
	var ids []string
	for _, e := range groups[0].Items {
		ids = append(ids, e.ID)
	}
	if !reflect.DeepEqual(ids, []string{"b", "c", "a"}) {
		t.Fatalf("order = %v, want [b c a]", ids)
	}

	// Without sequence numbers the collection order is kept.
	x := entry("x", "A", core.Deposit, 1, "2024-05-01", "")
	y := entry("y", "A", core.Deposit, 1, "2024-05-01", "")
	groups = GroupByDate([]core.LedgerEntry{x, y}, LedgerFilter{})
	if groups[0].Items[0].ID != "x" {
		t.Fatalf("legacy order = %s first, want x", groups[0].Items[0].ID)
	}
}

func TestParseTypeFilter(t *testing.T) {
	for in, want := range map[string]TypeFilter{"": AllTypes, "ALL": AllTypes, "Income": TypeFilter(core.Income)} {
		got, err := ParseTypeFilter(in)
		if err != nil || got != want {
			t.Fatalf("ParseTypeFilter(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseTypeFilter("refund"); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestFilterByKatha(t *testing.T) {
	got := FilterByKatha(scenarioEntries(), "B")
	if len(got) != 1 || got[0].ID != "e3" {
		t.Fatalf("FilterByKatha = %+v", got)
	}
	if got := FilterByKatha(scenarioEntries(), "missing"); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}
