package sheets

import (
	"testing"

	"katha/internal/core"
	"katha/internal/ledger"
)

func TestBuildWorkbook(t *testing.T) {
	kathas := []core.Katha{
		{ID: "A", Name: "Community", GoalAmount: core.Rupees(100000), Members: []string{"Asha", "Ravi"}, StartDate: core.NewDate(2024, 4, 1)},
		{ID: "B", Name: "Staff"},
	}
	entries := []core.LedgerEntry{
		{ID: "e3", KathaID: "B", Type: core.Deposit, Amount: core.Rupees(1800), Date: core.NewDate(2024, 5, 2), Category: "General", Seq: 3},
		{ID: "e2", KathaID: "A", Type: core.Expense, Amount: core.Rupees(1500), Date: core.NewDate(2024, 5, 1), Category: "Loan disbursement", Note: "Ravi", Seq: 2},
		{ID: "e1", KathaID: "A", Type: core.Deposit, Amount: core.Money{Cents: 320050}, Date: core.NewDate(2024, 5, 1), Category: "Daily savings", Seq: 1},
		{ID: "e0", KathaID: "gone", Type: core.Withdrawal, Amount: core.Rupees(10), Date: core.NewDate(2024, 4, 30), Category: "General", Seq: 0},
	}
	snap := ledger.NewSnapshot(kathas, entries)
	snap.Revision = 9

	wb := BuildWorkbook(snap, core.NewDate(2024, 5, 3))

	if wb.Revision != 9 {
		t.Errorf("Revision = %d, want 9", wb.Revision)
	}
	if wb.Rows() != 6 {
		t.Fatalf("Rows() = %d, want 6", wb.Rows())
	}

	wantIDs := []string{"e3", "e2", "e1", "e0"}
	for i, id := range wantIDs {
		row := wb.Ledger[i+1]
		if row[7] != id {
			t.Errorf("ledger row %d id = %v, want %s", i+1, row[7], id)
		}
	}

	e2 := wb.Ledger[2]
	if e2[0] != "2024-05-01" || e2[1] != "Community" || e2[2] != "expense" {
		t.Errorf("e2 row = %v", e2)
	}
	if e2[5] != "1500.00" || e2[6] != "-1500.00" {
		t.Errorf("e2 amounts = %v, %v", e2[5], e2[6])
	}
	if got := wb.Ledger[3][5]; got != "3200.50" {
		t.Errorf("e1 amount = %v, want 3200.50", got)
	}
	if got := wb.Ledger[4][1]; got != "gone" {
		t.Errorf("orphan katha column = %v, want katha id", got)
	}

	community := wb.Summary[1]
	if community[0] != "Community" || community[1] != 2 || community[2] != "100000.00" {
		t.Errorf("community summary = %v", community)
	}
	if community[3] != "1700.50" || community[4] != "4700.50" {
		t.Errorf("community balance/week = %v, %v", community[3], community[4])
	}
	if community[5] != 1.7 {
		t.Errorf("community progress = %v, want 1.7", community[5])
	}
	if community[6] != 2 || community[7] != "2024-04-01" {
		t.Errorf("community counts = %v", community)
	}

	staff := wb.Summary[2]
	if staff[2] != "" || staff[5] != "" {
		t.Errorf("staff without goal = %v", staff)
	}
}

func TestBuildWorkbook_Empty(t *testing.T) {
	wb := BuildWorkbook(ledger.NewSnapshot(nil, nil), core.NewDate(2024, 5, 3))

	if len(wb.Ledger) != 1 || len(wb.Summary) != 1 {
		t.Fatalf("empty workbook should only carry headers, got %d/%d rows", len(wb.Ledger), len(wb.Summary))
	}
	if wb.Rows() != 0 {
		t.Errorf("Rows() = %d, want 0", wb.Rows())
	}
}
