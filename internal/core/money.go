// Package core provides the ledger's domain values.
//
// This file contains the Money type and the parsing of user supplied
// amounts. Amounts are kept in paise so aggregation is exact; the JSON form
// is a decimal rupee number, matching how snapshots have always been stored.
package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type Money struct {
	Cents int64
}

// MaxAmountCents bounds any single amount (₹1,00,00,00,00,000) so that sums
// over a ledger stay far from int64 overflow.
const MaxAmountCents int64 = 1e13

var maxAmount = decimal.NewFromInt(MaxAmountCents)

// Rupees builds a Money from a whole rupee amount.
func Rupees(r int64) Money {
	return Money{Cents: r * 100}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Decimal returns the rupee value as an exact decimal.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }

func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }

func (m Money) Abs() Money {
	if m.Cents < 0 {
		return Money{Cents: -m.Cents}
	}
	return m
}

func (m Money) String() string {
	return FormatINR(m.Cents)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal().String()), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	cents, ok := toCents(d)
	if !ok {
		return fmt.Errorf("amount %s: %w", d.String(), ErrInvalidAmount)
	}
	m.Cents = cents
	return nil
}

// ParseAmount converts a user supplied amount to Money.
//
// It accepts an optional rupee sign and comma digit grouping, rounds half-up
// to two decimals and rejects anything that is not strictly positive or
// exceeds MaxAmountCents.
//
// Examples:
//
//	ParseAmount("3200")      -> 320000 paise
//	ParseAmount("1,500.50")  -> 150050 paise
//	ParseAmount("12.345")    -> 1235 paise
func ParseAmount(s string) (Money, error) {
	s = normalizeAmount(s)
	if s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	cents, ok := toCents(d)
	if !ok {
		return Money{}, ErrInvalidAmount
	}
	m := Money{Cents: cents}
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	return m, nil
}

// ParseOptionalAmount parses a target such as a goal: empty or unparseable
// input means "not set" (zero), negative input is rejected.
func ParseOptionalAmount(s string) (Money, error) {
	s = normalizeAmount(s)
	if s == "" {
		return Money{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, nil
	}
	if d.IsNegative() {
		return Money{}, ErrNegativeAmount
	}
	cents, ok := toCents(d)
	if !ok {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents}, nil
}

func normalizeAmount(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "₹")
	s = strings.ReplaceAll(s, ",", "")
	return strings.TrimSpace(s)
}

// toCents rounds d to paise. ok is false when the magnitude exceeds
// MaxAmountCents.
func toCents(d decimal.Decimal) (cents int64, ok bool) {
	c := d.Shift(2).Round(0)
	if c.Abs().GreaterThan(maxAmount) {
		return 0, false
	}
	return c.IntPart(), true
}

// FormatINR formats paise as rupees with Indian digit grouping,
// e.g. 15000000 -> "₹1,50,000.00".
func FormatINR(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	whole := strconv.FormatInt(cents/100, 10)
	frac := cents % 100

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString("₹")
	b.WriteString(groupIndian(whole))
	b.WriteByte('.')
	if frac < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(frac, 10))
	return b.String()
}

// groupIndian groups the last three digits, then every two.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(append(parts, tail), ",")
}
