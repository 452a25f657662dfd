package ledger

import (
	"github.com/shopspring/decimal"

	"katha/internal/core"
)

// WeeklyWindowDays is the trailing window, inclusive of today, counted as "this week".
const WeeklyWindowDays = 7

var hundred = decimal.NewFromInt(100)

// KathaOverview is the per-katha card: balance, weekly inflow and goal progress.
type KathaOverview struct {
	Katha              core.Katha `json:"katha"`
	Balance            core.Money `json:"balance"`
	WeeklyContribution core.Money `json:"weeklyContribution"`
	Progress           float64    `json:"progress"`
	HasProgress        bool       `json:"hasProgress"`
	MemberCount        int        `json:"memberCount"`
	EntryCount         int        `json:"entryCount"`
}

// KathaBalanceRow pairs a katha with its balance.
type KathaBalanceRow struct {
	Katha   core.Katha `json:"katha"`
	Balance core.Money `json:"balance"`
}

// KathaBalance returns credits minus debits over the entries of kathaID.
// A katha without entries has a zero balance.
func KathaBalance(kathaID string, entries []core.LedgerEntry) core.Money {
	var bal core.Money
	for _, e := range entries {
		if e.KathaID == kathaID {
			bal.Cents += e.Signed()
		}
	}
	return bal
}

// WeeklyContribution sums the unsigned amounts of kathaID's entries dated
// within the last WeeklyWindowDays days up to and including today.
// Entries dated after today are not counted.
func WeeklyContribution(kathaID string, entries []core.LedgerEntry, today core.Date) core.Money {
	var sum core.Money
	for _, e := range entries {
		if e.KathaID != kathaID {
			continue
		}
		diff := today.DaysSince(e.Date)
		if diff >= 0 && diff <= WeeklyWindowDays {
			sum.Cents += e.Amount.Cents
		}
	}
	return sum
}

// GoalProgress returns balance as a percentage of goal, capped at 100.
// A negative balance gives a negative percentage. ok is false when no
// goal is set.
func GoalProgress(balance, goal core.Money) (percent float64, ok bool) {
	if goal.Cents <= 0 {
		return 0, false
	}
	p := decimal.NewFromInt(balance.Cents).Mul(hundred).Div(decimal.NewFromInt(goal.Cents))
	if p.GreaterThan(hundred) {
		p = hundred
	}
	f, _ := p.Round(2).Float64()
	return f, true
}

// OverviewFor computes the overview card of one katha.
func OverviewFor(k core.Katha, entries []core.LedgerEntry, today core.Date) KathaOverview {
	ov := KathaOverview{
		Katha:              k,
		Balance:            KathaBalance(k.ID, entries),
		WeeklyContribution: WeeklyContribution(k.ID, entries, today),
		MemberCount:        len(k.Members),
	}
	for _, e := range entries {
		if e.KathaID == k.ID {
			ov.EntryCount++
		}
	}
	ov.Progress, ov.HasProgress = GoalProgress(ov.Balance, k.GoalAmount)
	return ov
}

// Overviews returns one overview per katha, in katha order.
func Overviews(kathas []core.Katha, entries []core.LedgerEntry, today core.Date) []KathaOverview {
	out := make([]KathaOverview, 0, len(kathas))
	for _, k := range kathas {
		out = append(out, OverviewFor(k, entries, today))
	}
	return out
}

// BalancesByKatha computes the balance of every katha, keeping katha order.
func BalancesByKatha(kathas []core.Katha, entries []core.LedgerEntry) []KathaBalanceRow {
	byID := make(map[string]int64, len(kathas))
	for _, e := range entries {
		byID[e.KathaID] += e.Signed()
	}
	rows := make([]KathaBalanceRow, 0, len(kathas))
	for _, k := range kathas {
		rows = append(rows, KathaBalanceRow{Katha: k, Balance: core.Money{Cents: byID[k.ID]}})
	}
	return rows
}

// ActiveKathaID resolves which katha a view is scoped to: the selected one
// if it still exists, otherwise the first katha, otherwise none.
func ActiveKathaID(kathas []core.Katha, selected string) string {
	if selected != "" {
		for _, k := range kathas {
			if k.ID == selected {
				return selected
			}
		}
	}
	if len(kathas) == 0 {
		return ""
	}
	return kathas[0].ID
}

// KathaName returns the display name of id, or "" for an unknown katha.
func KathaName(kathas []core.Katha, id string) string {
	for _, k := range kathas {
		if k.ID == id {
			return k.Name
		}
	}
	return ""
}
