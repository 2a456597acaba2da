// Package core provides the ledger domain types and amount handling.
//
// This file contains the parsing of user supplied amount text into exact
// decimals. Balances never round-trip through text inside the ledger.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// MaxFractionDigits is the finest amount precision the ledger keeps.
	MaxFractionDigits = 8
	maxAmountText     = 40
)

// MaxAmount bounds the magnitude of any amount or balance.
var MaxAmount = decimal.New(1, 15)

// ParseAmount converts amount text into an exact decimal.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and an
// optional sign. Empty input, NaN, infinities, exponent notation, amounts
// outside ValidAmount and any other text that is not a plain finite number
// return ErrInvalidAmount.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount(" 1000 ") -> 1000, nil
//	ParseAmount("abc")   -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxAmountText || strings.ContainsAny(s, "eE") {
		return decimal.Zero, ErrInvalidAmount
	}
	// One separator only; "1,234.5" is ambiguous and rejected.
	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") || strings.Count(s, ",") > 1 {
			return decimal.Zero, ErrInvalidAmount
		}
		s = strings.ReplaceAll(s, ",", ".")
	}
	switch strings.ToLower(strings.TrimLeft(s, "+-")) {
	case "nan", "inf", "infinity":
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !ValidAmount(d) {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// ValidAmount reports whether d has at most MaxFractionDigits decimals and
// a magnitude no larger than MaxAmount. The exponent is checked first so
// oversized values are never rescaled.
func ValidAmount(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp < -MaxFractionDigits || exp > 15 {
		return false
	}
	return d.Abs().LessThanOrEqual(MaxAmount)
}

// ParseBalance is the lenient parse used for balances typed into setup
// forms: unparseable text counts as zero.
func ParseBalance(s string) decimal.Decimal {
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FloorZero returns d, or zero when d is negative.
func FloorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Clamp bounds d into [lo, hi].
func Clamp(d, lo, hi decimal.Decimal) decimal.Decimal {
	if d.LessThan(lo) {
		return lo
	}
	if d.GreaterThan(hi) {
		return hi
	}
	return d
}
