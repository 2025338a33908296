// Package report renders holdings as human-readable text.
package report

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatMoney renders amount in the currency's conventional format, rounded
// to the currency's minor unit. Unknown codes fall back to two decimals
// followed by the code.
func FormatMoney(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2) + " " + currency
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// FormatNullMoney renders a possibly absent amount; absent values print as "n/a".
func FormatNullMoney(amount decimal.NullDecimal, currency string) string {
	if !amount.Valid {
		return "n/a"
	}
	return FormatMoney(amount.Decimal, currency)
}

// FormatPercent renders a percentage with two decimals.
func FormatPercent(pct decimal.NullDecimal) string {
	if !pct.Valid {
		return "n/a"
	}
	s := pct.Decimal.StringFixed(2) + "%"
	if pct.Decimal.IsPositive() {
		return "+" + s
	}
	return s
}
