package ledger

import (
	"sort"
	"strings"

	"katha/internal/core"
)

// AllTypes is the TypeFilter that lets every entry through.
const AllTypes TypeFilter = "all"

// TypeFilter is either AllTypes or a single entry type.
type TypeFilter string

// ParseTypeFilter maps "" and "all" to AllTypes and anything else to an entry type.
func ParseTypeFilter(s string) (TypeFilter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == string(AllTypes) {
		return AllTypes, nil
	}
	t, err := core.ParseEntryType(s)
	if err != nil {
		return "", err
	}
	return TypeFilter(t), nil
}

// LedgerFilter narrows the grouped ledger view.
type LedgerFilter struct {
	Type  TypeFilter
	Query string
}

// Match reports whether e passes both the type and the text filter.
func (f LedgerFilter) Match(e core.LedgerEntry) bool {
	if f.Type != "" && f.Type != AllTypes && core.EntryType(f.Type) != e.Type {
		return false
	}
	q := strings.ToLower(f.Query)
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(e.Category), q) {
		return true
	}
	return e.Note != "" && strings.Contains(strings.ToLower(e.Note), q)
}

// DayGroup is one date of the grouped ledger with its signed total.
type DayGroup struct {
	Date  string             `json:"date"`
	Items []core.LedgerEntry `json:"items"`
	Total core.Money         `json:"total"`
}

// GroupByDate filters entries and groups them by date, newest date first.
// Within a day, entries are ordered newest recorded first: by Seq, then by
// their position in the collection (which is newest-first).
func GroupByDate(entries []core.LedgerEntry, f LedgerFilter) []DayGroup {
	byDate := map[string][]ranked{}
	for i, e := range entries {
		if !f.Match(e) {
			continue
		}
		key := e.Date.String()
		byDate[key] = append(byDate[key], ranked{entry: e, pos: i})
	}

	groups := make([]DayGroup, 0, len(byDate))
	for date, items := range byDate {
		sortNewestFirst(items)
		g := DayGroup{Date: date, Items: make([]core.LedgerEntry, len(items))}
		for i, r := range items {
			g.Items[i] = r.entry
			g.Total.Cents += r.entry.Signed()
		}
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Date > groups[j].Date })
	return groups
}

// FilterByKatha returns the entries recorded against kathaID.
func FilterByKatha(entries []core.LedgerEntry, kathaID string) []core.LedgerEntry {
	out := make([]core.LedgerEntry, 0, len(entries))
	for _, e := range entries {
		if e.KathaID == kathaID {
			out = append(out, e)
		}
	}
	return out
}

// ranked keeps an entry's collection position as the last tie-break.
type ranked struct {
	entry core.LedgerEntry
	pos   int
}

func sortNewestFirst(items []ranked) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].entry.Seq != items[j].entry.Seq {
			return items[i].entry.Seq > items[j].entry.Seq
		}
		return items[i].pos < items[j].pos
	})
}
