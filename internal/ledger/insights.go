package ledger

import (
	"sort"

	"katha/internal/core"
)

// DateNet is the signed net cashflow of one date.
type DateNet struct {
	Date string     `json:"date"`
	Net  core.Money `json:"net"`
}

// CategoryNet is the signed net cashflow of one category.
type CategoryNet struct {
	Category string     `json:"category"`
	Net      core.Money `json:"net"`
}

// Insights are independent facts about a set of entries. A nil field means
// the fact does not apply.
type Insights struct {
	LargestContribution *core.LedgerEntry `json:"largestContribution,omitempty"`
	LargestPayout       *core.LedgerEntry `json:"largestPayout,omitempty"`
	BusiestDay          *DateNet          `json:"busiestDay,omitempty"`
	StandoutCategory    *CategoryNet      `json:"standoutCategory,omitempty"`
	HealthiestKatha     *KathaBalanceRow  `json:"healthiestKatha,omitempty"`
}

// Empty reports whether no insight applies.
func (in Insights) Empty() bool {
	return in.LargestContribution == nil && in.LargestPayout == nil &&
		in.BusiestDay == nil && in.StandoutCategory == nil && in.HealthiestKatha == nil
}

// DeriveInsights computes every insight from entries. kathas is used for the
// healthiest katha only. With no entries, nothing is derived.
func DeriveInsights(entries []core.LedgerEntry, kathas []core.Katha) Insights {
	if len(entries) == 0 {
		return Insights{}
	}
	return Insights{
		LargestContribution: largest(entries, core.EntryType.IsCredit),
		LargestPayout:       largest(entries, core.EntryType.IsDebit),
		BusiestDay:          busiestDay(entries),
		StandoutCategory:    standoutCategory(entries),
		HealthiestKatha:     healthiest(kathas, entries),
	}
}

// largest picks the entry with the highest amount among those matching
// class. Ties go to the higher Seq, then to the earlier collection position.
func largest(entries []core.LedgerEntry, class func(core.EntryType) bool) *core.LedgerEntry {
	var candidates []core.LedgerEntry
	for _, e := range entries {
		if class(e.Type) {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Amount.Cents != b.Amount.Cents {
			return a.Amount.Cents > b.Amount.Cents
		}
		return a.Seq > b.Seq
	})
	top := candidates[0]
	return &top
}

// netBucket accumulates a signed net under a key, remembering first appearance.
type netBucket struct {
	keys []string
	net  map[string]int64
}

func newNetBucket() *netBucket {
	return &netBucket{net: map[string]int64{}}
}

func (b *netBucket) add(key string, cents int64) {
	if _, ok := b.net[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.net[key] += cents
}

// max returns the key whose net has the greatest absolute value; the
// earliest key wins a tie.
func (b *netBucket) max() (string, int64, bool) {
	if len(b.keys) == 0 {
		return "", 0, false
	}
	best := b.keys[0]
	for _, k := range b.keys[1:] {
		if abs(b.net[k]) > abs(b.net[best]) {
			best = k
		}
	}
	return best, b.net[best], true
}

func busiestDay(entries []core.LedgerEntry) *DateNet {
	b := newNetBucket()
	for _, e := range entries {
		b.add(e.Date.String(), e.Signed())
	}
	date, net, ok := b.max()
	if !ok {
		return nil
	}
	return &DateNet{Date: date, Net: core.Money{Cents: net}}
}

func standoutCategory(entries []core.LedgerEntry) *CategoryNet {
	b := newNetBucket()
	for _, e := range entries {
		b.add(e.Category, e.Signed())
	}
	cat, net, ok := b.max()
	if !ok {
		return nil
	}
	return &CategoryNet{Category: cat, Net: core.Money{Cents: net}}
}

// healthiest returns the katha with the highest strictly positive balance;
// the earlier katha wins a tie.
func healthiest(kathas []core.Katha, entries []core.LedgerEntry) *KathaBalanceRow {
	var best *KathaBalanceRow
	for _, row := range BalancesByKatha(kathas, entries) {
		if row.Balance.Cents <= 0 {
			continue
		}
		if best == nil || row.Balance.Cents > best.Balance.Cents {
			r := row
			best = &r
		}
	}
	return best
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
