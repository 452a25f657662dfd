package core

import "strings"

const (
	Deposit    EntryType = "deposit"
	Income     EntryType = "income"
	Withdrawal EntryType = "withdrawal"
	Expense    EntryType = "expense"
)

// EntryType classifies a ledger entry; its direction comes only from here.
type EntryType string

// signs is the single classification table shared by every aggregation.
var signs = map[EntryType]int64{
	Deposit:    1,
	Income:     1,
	Withdrawal: -1,
	Expense:    -1,
}

// EntryTypes returns all entry types in display order.
func EntryTypes() []EntryType {
	return []EntryType{Deposit, Income, Withdrawal, Expense}
}

// ParseEntryType parses a type name case-insensitively.
func ParseEntryType(s string) (EntryType, error) {
	t := EntryType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", ErrInvalidEntryType
	}
	return t, nil
}

func (t EntryType) Valid() bool {
	_, ok := signs[t]
	return ok
}

// Sign returns +1 for credit-classified types, -1 for debit-classified ones
// and 0 for anything else.
func (t EntryType) Sign() int64 {
	return signs[t]
}

func (t EntryType) IsCredit() bool { return t.Sign() > 0 }

func (t EntryType) IsDebit() bool { return t.Sign() < 0 }

func (t EntryType) String() string { return string(t) }
