package sheets

import (
	"katha/internal/core"
	"katha/internal/ledger"
)

var (
	LedgerHeader  = []any{"Date", "Katha", "Type", "Category", "Note", "Amount", "Signed", "Entry ID"}
	SummaryHeader = []any{"Katha", "Members", "Goal", "Balance", "This week", "Progress %", "Entries", "Start date"}
)

// Workbook is the export of one snapshot revision. Both tables start with
// their header row.
type Workbook struct {
	Revision int64
	Ledger   [][]any
	Summary  [][]any
}

// Rows returns the number of data rows, headers excluded.
func (wb Workbook) Rows() int {
	n := 0
	if len(wb.Ledger) > 0 {
		n += len(wb.Ledger) - 1
	}
	if len(wb.Summary) > 0 {
		n += len(wb.Summary) - 1
	}
	return n
}

// BuildWorkbook renders snap as spreadsheet rows. Entries are listed newest
// day first, in the same order the ledger view shows them. Entries whose
// katha no longer exists keep their katha id in the Katha column.
func BuildWorkbook(snap ledger.Snapshot, today core.Date) Workbook {
	wb := Workbook{
		Revision: snap.Revision,
		Ledger:   [][]any{LedgerHeader},
		Summary:  [][]any{SummaryHeader},
	}

	for _, day := range ledger.GroupByDate(snap.Entries, ledger.LedgerFilter{}) {
		for _, e := range day.Items {
			name := ledger.KathaName(snap.Kathas, e.KathaID)
			if name == "" {
				name = e.KathaID
			}
			wb.Ledger = append(wb.Ledger, []any{
				day.Date,
				name,
				string(e.Type),
				e.Category,
				e.Note,
				amount(e.Amount),
				amount(core.Money{Cents: e.Signed()}),
				e.ID,
			})
		}
	}

	for _, ov := range ledger.Overviews(snap.Kathas, snap.Entries, today) {
		var progress any = ""
		if ov.HasProgress {
			progress = ov.Progress
		}
		goal := ""
		if ov.Katha.HasGoal() {
			goal = amount(ov.Katha.GoalAmount)
		}
		wb.Summary = append(wb.Summary, []any{
			ov.Katha.Name,
			ov.MemberCount,
			goal,
			amount(ov.Balance),
			amount(ov.WeeklyContribution),
			progress,
			ov.EntryCount,
			ov.Katha.StartDate.String(),
		})
	}
	return wb
}

// amount renders rupees with two decimals so USER_ENTERED parses it as a number.
func amount(m core.Money) string {
	return m.Decimal().StringFixed(2)
}
