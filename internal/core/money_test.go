package core

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.001", "0.001", true},
		{" 2.50 ", "2.5", true},
		{"-1", "-1", true},
		{"+7", "7", true},
		{"0", "0", true},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"1,234.5", "", false},
		{"NaN", "", false},
		{"-Inf", "", false},
		{"", "", false},
		{"1000000000000000", "1000000000000000", true},
		{"-1000000000000000", "-1000000000000000", true},
		{"1000000000000000.01", "", false},
		{"0.12345678", "0.12345678", true},
		{"0.123456789", "", false},
		{"1e2000000000", "", false},
		{"1E5", "", false},
		{"2e-3", "", false},
		{"12abc", "", false},
		{"1" + strings.Repeat("0", 60), "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(decimal.RequireFromString(tc.out)) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err != ErrInvalidAmount {
			t.Fatalf("%q expected ErrInvalidAmount, got %v", tc.in, err)
		}
	}
}

func TestParseBalanceFallsBackToZero(t *testing.T) {
	if !ParseBalance("garbage").IsZero() {
		t.Fatalf("expected zero for unparseable balance")
	}
	if !ParseBalance("150,5").Equal(decimal.RequireFromString("150.5")) {
		t.Fatalf("expected 150.5")
	}
}

func TestClamp(t *testing.T) {
	lo, hi := decimal.Zero, decimal.NewFromInt(10)
	if got := Clamp(decimal.NewFromInt(-3), lo, hi); !got.Equal(lo) {
		t.Fatalf("expected lower bound, got %s", got)
	}
	if got := Clamp(decimal.NewFromInt(12), lo, hi); !got.Equal(hi) {
		t.Fatalf("expected upper bound, got %s", got)
	}
	if got := FloorZero(decimal.NewFromInt(-1)); !got.IsZero() {
		t.Fatalf("expected zero, got %s", got)
	}
}

func TestValidAmount(t *testing.T) {
	cases := []struct {
		name string
		in   decimal.Decimal
		want bool
	}{
		{"zero", decimal.Zero, true},
		{"bound", MaxAmount, true},
		{"negative bound", MaxAmount.Neg(), true},
		{"above bound", MaxAmount.Add(decimal.NewFromInt(1)), false},
		{"huge exponent", decimal.New(1, 2000000000), false},
		{"tiny exponent", decimal.New(1, -2000000000), false},
		{"eight decimals", decimal.New(1, -8), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidAmount(tc.in); got != tc.want {
				t.Fatalf("ValidAmount = %v, want %v", got, tc.want)
			}
		})
	}
}
