package ledger

import "katha/internal/core"

func entry(id, katha string, typ core.EntryType, rupees int64, date string, category string) core.LedgerEntry {
	d, err := core.ParseDate(date)
	if err != nil {
		panic(err)
	}
	if category == "" {
		category = core.DefaultCategory
	}
	return core.LedgerEntry{
		ID:       id,
		KathaID:  katha,
		Date:     d,
		Amount:   core.Rupees(rupees),
		Type:     typ,
		Category: category,
	}
}

func scenarioEntries() []core.LedgerEntry {
	return []core.LedgerEntry{
		entry("e1", "A", core.Deposit, 3200, "2024-05-01", "Daily savings"),
		entry("e2", "A", core.Expense, 1500, "2024-05-01", "Loan disbursement"),
		entry("e3", "B", core.Deposit, 1800, "2024-05-02", ""),
	}
}

func scenarioKathas() []core.Katha {
	return []core.Katha{
		{ID: "A", Name: "Community"},
		{ID: "B", Name: "Staff"},
	}
}
