package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"12", "12"},
		{" 12.5 ", "12.5"},
		{"+0.25", "0.25"},
		{"-3.10", "-3.1"},
		{".5", "0.5"},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("Parse(%q) unexpected error: %v", tc.in, err)
		}
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("Parse(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseRejects(t *testing.T) {
	for _, in := range []string{"", "abc", "1.2.3", "--1", "5.", "-", "1e3"} {
		if _, err := Parse(in); err != ErrInvalidAmount {
			t.Fatalf("Parse(%q) expected ErrInvalidAmount, got %v", in, err)
		}
	}
	if _, err := Parse("1.234"); err != ErrTooManyDecimals {
		t.Fatalf("expected ErrTooManyDecimals, got %v", err)
	}
}

func TestParseRate(t *testing.T) {
	rate, err := ParseRate("0.015")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rate.Equal(decimal.RequireFromString("0.015")) {
		t.Fatalf("unexpected rate: %s", rate)
	}
	if _, err := ParseRate("-0.01"); err != nil {
		t.Fatalf("negative rates are allowed, got %v", err)
	}
	if _, err := ParseRate("0.0000001"); err != ErrInvalidRate {
		t.Fatalf("expected ErrInvalidRate, got %v", err)
	}
	if _, err := ParseRate("x"); err != ErrInvalidRate {
		t.Fatalf("expected ErrInvalidRate, got %v", err)
	}
}

func TestFormat(t *testing.T) {
	if got := Format(decimal.RequireFromString("101.24")); got != "101.24" {
		t.Fatalf("unexpected format: %s", got)
	}
	if got := Format(decimal.RequireFromString("-5")); got != "-5.00" {
		t.Fatalf("unexpected format: %s", got)
	}
	if got := FormatWithCurrency(decimal.RequireFromString("12.4"), "USD"); got != "12.40 USD" {
		t.Fatalf("unexpected format: %s", got)
	}
}
