// Package ledger computes the derived views of a katha ledger: totals,
// grouped ledgers, per-katha balances, goal progress and insights. Every
// function here is pure and recomputes from the collections it is given.
package ledger

import "katha/internal/core"

// Totals are the headline figures across a set of entries.
type Totals struct {
	TotalDeposits    core.Money `json:"totalDeposits"`
	TotalWithdrawals core.Money `json:"totalWithdrawals"`
	TotalBalance     core.Money `json:"totalBalance"`
	TodayNet         core.Money `json:"todayNet"`
	EntryCount       int        `json:"entryCount"`
}

// ComputeTotals sums credits and debits and the signed net of entries dated today.
func ComputeTotals(entries []core.LedgerEntry, today core.Date) Totals {
	var t Totals
	for _, e := range entries {
		switch {
		case e.Type.IsCredit():
			t.TotalDeposits.Cents += e.Amount.Cents
		case e.Type.IsDebit():
			t.TotalWithdrawals.Cents += e.Amount.Cents
		}
		if e.Date.Equal(today.Time) {
			t.TodayNet.Cents += e.Signed()
		}
	}
	t.TotalBalance = t.TotalDeposits.Sub(t.TotalWithdrawals)
	t.EntryCount = len(entries)
	return t
}

// NetOf returns the signed sum of the entries.
func NetOf(entries []core.LedgerEntry) core.Money {
	var net core.Money
	for _, e := range entries {
		net.Cents += e.Signed()
	}
	return net
}
