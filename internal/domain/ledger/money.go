// Package ledger contains the pure aggregation and arithmetic core of the
// marketplace: per-counterparty rollups, transaction filtering, and cart
// totals. Nothing in this package performs I/O; all inputs are pre-fetched
// by the caller.
package ledger

import "github.com/shopspring/decimal"

// RoundCurrency rounds a derived monetary amount (tax, GST, commission,
// coupon discount) to whole currency units, half away from zero. This is
// the single rounding rule for the whole system; call sites must not round
// any other way.
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}

// Percent returns amount * percent / 100, rounded per RoundCurrency.
func Percent(amount decimal.Decimal, percent decimal.Decimal) decimal.Decimal {
	return RoundCurrency(amount.Mul(percent).Div(decimal.NewFromInt(100)))
}
