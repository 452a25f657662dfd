package core

import (
	"errors"
	"strings"
	"time"
)

// DefaultCategory is used when an entry is recorded without a category.
const DefaultCategory = "General"

type (
	Date struct {
		time.Time
	}

	Katha struct {
		ID                string   `json:"id"`
		Name              string   `json:"name"`
		GoalAmount        Money    `json:"goalAmount"`
		DailyContribution Money    `json:"dailyContribution"`
		Members           []string `json:"members"`
		StartDate         Date     `json:"startDate"`
		Description       string   `json:"description,omitempty"`
	}

	LedgerEntry struct {
		ID       string    `json:"id"`
		KathaID  string    `json:"kathaId"`
		Date     Date      `json:"date"`
		Amount   Money     `json:"amount"`
		Type     EntryType `json:"type"`
		Category string    `json:"category"`
		Note     string    `json:"note,omitempty"`
		Seq      int64     `json:"seq,omitempty"` // insertion sequence, assigned by the snapshot
	}
)

var (
	ErrEmptyID          = errors.New("empty id")
	ErrEmptyName        = errors.New("empty name")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrNegativeAmount   = errors.New("amount cannot be negative")
	ErrInvalidEntryType = errors.New("invalid entry type")
	ErrInvalidDate      = errors.New("invalid date")
	ErrMissingKatha     = errors.New("katha not found")
	ErrNoKathas         = errors.New("no katha exists yet")
	ErrDuplicateID      = errors.New("duplicate id")
	ErrEntryNotFound    = errors.New("entry not found")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the calendar date of now in now's location.
func Today(now time.Time) Date {
	y, m, d := now.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String returns the ISO form used as grouping key.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(time.DateOnly)
}

// AddDays returns the date n days later (or earlier when n is negative).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// DaysSince returns the whole number of days elapsed between earlier and d.
func (d Date) DaysSince(earlier Date) int {
	return int(d.Time.Sub(earlier.Time).Hours() / 24)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	// Older snapshots may carry a full timestamp; keep the date part.
	if len(s) > 10 {
		s = s[:10]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (k Katha) Validate() error {
	if strings.TrimSpace(k.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(k.Name) == "" {
		return ErrEmptyName
	}
	if k.GoalAmount.Cents < 0 || k.DailyContribution.Cents < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// HasGoal reports whether a goal amount has been set.
func (k Katha) HasGoal() bool {
	return k.GoalAmount.Cents > 0
}

func (e LedgerEntry) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(e.KathaID) == "" {
		return ErrMissingKatha
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if !e.Type.Valid() {
		return ErrInvalidEntryType
	}
	return nil
}

// Signed returns the amount in cents with the sign of the entry's classification.
func (e LedgerEntry) Signed() int64 {
	return e.Type.Sign() * e.Amount.Cents
}
