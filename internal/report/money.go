package report

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currencies lists the display currencies a report can be rendered in.
var Currencies = []string{"USD", "EUR", "MXN", "COP", "ARS", "CLP", "BRL", "GBP"}

// SupportedCurrency reports whether code is one of Currencies.
func SupportedCurrency(code string) bool {
	code = strings.ToUpper(code)
	for _, c := range Currencies {
		if c == code {
			return true
		}
	}
	return false
}

// FormatMoney renders amount in the currency's display format. Amounts are
// rounded to the currency's minor unit. Unknown currencies fall back to a
// plain two-place decimal.
func FormatMoney(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(strings.ToUpper(currency))
	if cur == nil {
		return amount.StringFixed(2)
	}
	factor := decimal.New(1, int32(cur.Fraction))
	minor := amount.Mul(factor).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}
