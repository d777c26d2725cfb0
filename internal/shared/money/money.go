// Package money formats and parses the decimal amounts used for cash and prices.
package money

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// CentsPlaces is the number of fractional digits kept for cash balances.
const CentsPlaces = 2

// USD formats d as a dollar amount, e.g. "$1,234.56".
func USD(d decimal.Decimal) string {
	cents := d.Round(CentsPlaces).Shift(CentsPlaces).IntPart()
	return money.New(cents, money.USD).Display()
}

// Cents rounds d to whole cents.
func Cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(CentsPlaces)
}
