package core

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"3200", 320000, true},
		{"1.23", 123, true},
		{"12.345", 1235, true}, // half-up rounding
		{"1,500.50", 150050, true},
		{"₹ 250", 25000, true},
		{" 2.50 ", 250, true},
		{"0.001", 0, false},
		{"-1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"100000000000", 10000000000000, true},
		{"100000000000.01", 0, false},
		{"184467440737095516.17", 0, false},
		{"1e20", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestParseOptionalAmount(t *testing.T) {
	if m, err := ParseOptionalAmount(""); err != nil || m.Cents != 0 {
		t.Fatalf("empty should be zero, got %d (err=%v)", m.Cents, err)
	}
	if m, err := ParseOptionalAmount("lots"); err != nil || m.Cents != 0 {
		t.Fatalf("garbage should be zero, got %d (err=%v)", m.Cents, err)
	}
	if m, _ := ParseOptionalAmount("150000"); m.Cents != 15000000 {
		t.Fatalf("unexpected cents %d", m.Cents)
	}
	if _, err := ParseOptionalAmount("-5"); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}
	if _, err := ParseOptionalAmount("184467440737095516.17"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for an oversized goal, got %v", err)
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(Money{Cents: 320050})
	if err != nil || string(b) != "3200.5" {
		t.Fatalf("unexpected json %s (err=%v)", b, err)
	}
	var m Money
	if err := json.Unmarshal([]byte("1800"), &m); err != nil || m.Cents != 180000 {
		t.Fatalf("unexpected cents %d (err=%v)", m.Cents, err)
	}
	if err := json.Unmarshal([]byte("12.345"), &m); err != nil || m.Cents != 1235 {
		t.Fatalf("unexpected cents %d (err=%v)", m.Cents, err)
	}
	for _, raw := range []string{"1e20", "-1e20", "184467440737095516.17"} {
		if err := json.Unmarshal([]byte(raw), &m); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("%s: expected ErrInvalidAmount, got %v (cents=%d)", raw, err, m.Cents)
		}
	}
}

func TestFormatINR(t *testing.T) {
	cases := map[int64]string{
		0:          "₹0.00",
		5:          "₹0.05",
		150000:     "₹1,500.00",
		15000000:   "₹1,50,000.00",
		1234567890: "₹1,23,45,678.90",
		-170000:    "-₹1,700.00",
	}
	for cents, want := range cases {
		if got := FormatINR(cents); got != want {
			t.Fatalf("%d: expected %s, got %s", cents, want, got)
		}
	}
}
