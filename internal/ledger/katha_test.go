package ledger

import (
	"testing"

	"katha/internal/core"
)

func TestKathaBalance(t *testing.T) {
	entries := scenarioEntries()
	if got := KathaBalance("A", entries); got != core.Rupees(1700) {
		t.Fatalf("balance A = %v, want 1700", got)
	}
	if got := KathaBalance("none", entries); got.Cents != 0 {
		t.Fatalf("balance of katha without entries = %v, want 0", got)
	}
}

func TestWeeklyContribution(t *testing.T) {
	today := core.NewDate(2024, 5, 10)
	entries := []core.LedgerEntry{
		entry("today", "A", core.Deposit, 100, "2024-05-10", ""),
		entry("payout", "A", core.Withdrawal, 40, "2024-05-08", ""),
		entry("edge", "A", core.Deposit, 5, "2024-05-03", ""),
		entry("old", "A", core.Deposit, 1000, "2024-05-02", ""),
		entry("future", "A", core.Deposit, 7000, "2024-05-11", ""),
		entry("other", "B", core.Deposit, 9000, "2024-05-10", ""),
	}
	// Amounts are unsigned: 100 + 40 + 5.
	if got := WeeklyContribution("A", entries, today); got != core.Rupees(145) {
		t.Fatalf("weekly = %v, want 145", got)
	}
}

func TestGoalProgress(t *testing.T) {
	tests := []struct {
		name    string
		balance int64
		goal    int64
		want    float64
		wantOK  bool
	}{
		{"no goal", 500, 0, 0, false},
		{"no entries", 0, 10000, 0, true},
		{"half", 5000, 10000, 50, true},
		{"clamped", 12000, 10000, 100, true},
		{"exact", 10000, 10000, 100, true},
		{"negative", -2500, 10000, -25, true},
		{"fraction", 1, 3, 33.33, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := GoalProgress(core.Rupees(tt.balance), core.Rupees(tt.goal))
			if ok != tt.wantOK || got != tt.want {
				t.Fatalf("GoalProgress = %v, %v; want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestOverviewForClampsAtGoal(t *testing.T) {
	k := core.Katha{ID: "A", Name: "Community", GoalAmount: core.Rupees(10000), Members: []string{"Sunita", "Rajesh"}}
	entries := []core.LedgerEntry{
		entry("a", "A", core.Deposit, 9000, "2024-05-01", ""),
		entry("b", "A", core.Income, 3000, "2024-05-01", ""),
	}
	ov := OverviewFor(k, entries, core.NewDate(2024, 5, 1))
	if ov.Balance != core.Rupees(12000) {
		t.Fatalf("balance = %v, want 12000", ov.Balance)
	}
	if !ov.HasProgress || ov.Progress != 100 {
		t.Fatalf("progress = %v (%v), want 100", ov.Progress, ov.HasProgress)
	}
	if ov.MemberCount != 2 || ov.EntryCount != 2 {
		t.Fatalf("counts = %d members, %d entries", ov.MemberCount, ov.EntryCount)
	}
	if ov.WeeklyContribution != core.Rupees(12000) {
		t.Fatalf("weekly = %v, want 12000", ov.WeeklyContribution)
	}
}

func TestBalancesByKathaKeepsOrder(t *testing.T) {
	kathas := append(scenarioKathas(), core.Katha{ID: "C", Name: "Empty"})
	rows := BalancesByKatha(kathas, scenarioEntries())
	want := []struct {
		id  string
		bal int64
	}{{"A", 1700}, {"B", 1800}, {"C", 0}}
	if len(rows) != len(want) {
		t.Fatalf("rows = %d, want %d", len(rows), len(want))
	}
	for i, w := range want {
		if rows[i].Katha.ID != w.id || rows[i].Balance != core.Rupees(w.bal) {
			t.Fatalf("row %d = %s %v, want %s %d", i, rows[i].Katha.ID, rows[i].Balance, w.id, w.bal)
		}
	}
}

func TestActiveKathaID(t *testing.T) {
	kathas := scenarioKathas()
	tests := []struct {
		name     string
		kathas   []core.Katha
		selected string
		want     string
	}{
		{"selected exists", kathas, "B", "B"},
		{"selected gone", kathas, "Z", "A"},
		{"nothing selected", kathas, "", "A"},
		{"no kathas", nil, "A", ""},
	}
	for _, tt := range tests {
		if got := ActiveKathaID(tt.kathas, tt.selected); got != tt.want {
			t.Fatalf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}
