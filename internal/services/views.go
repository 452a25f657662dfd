package services

import "katha/internal/ledger"

// Dashboard is the header and summary-card view. Totals cover every entry,
// whatever katha is selected.
type Dashboard struct {
	Totals          ledger.Totals `json:"totals"`
	KathaCount      int           `json:"kathaCount"`
	EntryCount      int           `json:"entryCount"`
	ActiveKathaID   string        `json:"activeKathaId,omitempty"`
	ActiveKathaName string        `json:"activeKathaName,omitempty"`
	Today           string        `json:"today"`
	Revision        int64         `json:"revision"`
}

// LedgerView is the day-grouped ledger of the active katha.
type LedgerView struct {
	ActiveKathaID string            `json:"activeKathaId,omitempty"`
	Filter        ledger.TypeFilter `json:"type"`
	Query         string            `json:"query,omitempty"`
	Days          []ledger.DayGroup `json:"days"`
	Shown         int               `json:"shown"`
	Revision      int64             `json:"revision"`
}

// KathasView lists every katha with its derived figures.
type KathasView struct {
	ActiveKathaID string                 `json:"activeKathaId,omitempty"`
	Kathas        []ledger.KathaOverview `json:"kathas"`
	Revision      int64                  `json:"revision"`
}

// InsightsView summarises the active katha's entries.
type InsightsView struct {
	ActiveKathaID string             `json:"activeKathaId,omitempty"`
	Insights      ledger.Insights    `json:"insights"`
	Highlights    []ledger.Highlight `json:"highlights"`
	Empty         bool               `json:"empty"`
	Revision      int64              `json:"revision"`
}

// CategoriesView lists category suggestions for a partially typed name.
type CategoriesView struct {
	Query       string                      `json:"query,omitempty"`
	Suggestions []ledger.CategorySuggestion `json:"suggestions"`
	Revision    int64                       `json:"revision"`
}
