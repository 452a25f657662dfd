package core

import "strings"

// KathaInput holds the raw values captured when creating a katha.
type KathaInput struct {
	Name              string `json:"name"`
	GoalAmount        string `json:"goalAmount"`
	DailyContribution string `json:"dailyContribution"`
	Members           string `json:"members"` // comma separated
	StartDate         string `json:"startDate"`
	Description       string `json:"description"`
}

// EntryInput holds the raw values captured when recording an entry.
type EntryInput struct {
	KathaID  string `json:"kathaId"`
	Date     string `json:"date"`
	Amount   string `json:"amount"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Note     string `json:"note"`
}

// NewKatha validates in and builds a Katha with the given id.
// An empty start date defaults to today.
func NewKatha(in KathaInput, id string, today Date) (Katha, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Katha{}, ErrEmptyName
	}
	goal, err := ParseOptionalAmount(in.GoalAmount)
	if err != nil {
		return Katha{}, err
	}
	daily, err := ParseOptionalAmount(in.DailyContribution)
	if err != nil {
		return Katha{}, err
	}
	start := today
	if strings.TrimSpace(in.StartDate) != "" {
		if start, err = ParseDate(in.StartDate); err != nil {
			return Katha{}, err
		}
	}

	k := Katha{
		ID:                id,
		Name:              name,
		GoalAmount:        goal,
		DailyContribution: daily,
		Members:           SplitMembers(in.Members),
		StartDate:         start,
		Description:       strings.TrimSpace(in.Description),
	}
	return k, k.Validate()
}

// NewEntry validates in and builds a LedgerEntry with the given id.
// The katha reference is checked against the snapshot, not here.
func NewEntry(in EntryInput, id string, today Date) (LedgerEntry, error) {
	kathaID := strings.TrimSpace(in.KathaID)
	if kathaID == "" {
		return LedgerEntry{}, ErrMissingKatha
	}
	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return LedgerEntry{}, err
	}
	typ := Deposit
	if strings.TrimSpace(in.Type) != "" {
		if typ, err = ParseEntryType(in.Type); err != nil {
			return LedgerEntry{}, err
		}
	}
	date := today
	if strings.TrimSpace(in.Date) != "" {
		if date, err = ParseDate(in.Date); err != nil {
			return LedgerEntry{}, err
		}
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = DefaultCategory
	}

	e := LedgerEntry{
		ID:       id,
		KathaID:  kathaID,
		Date:     date,
		Amount:   amount,
		Type:     typ,
		Category: category,
		Note:     strings.TrimSpace(in.Note),
	}
	return e, e.Validate()
}

// SplitMembers splits a comma separated member list, dropping blanks.
func SplitMembers(s string) []string {
	out := []string{}
	for _, m := range strings.Split(s, ",") {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	return out
}
