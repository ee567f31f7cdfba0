// Package core holds the transaction domain model shared by the store, the
// aggregation engine, and the HTTP surfaces.
//
// This file contains amount parsing. Amounts are exact decimals with two
// fractional digits; binary floating point never enters the arithmetic.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string into a positive two-decimal amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// performs half-up rounding on the third decimal place. Signs are rejected:
// an amount is always a magnitude, the credit/debit type carries the sign.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,34")  -> 12.34, nil
//	ParseAmount("12.345") -> 12.35, nil (rounds up)
//	ParseAmount("-1")     -> error
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	d = d.Round(2)
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// AmountString returns the canonical two-decimal string form of an amount,
// e.g. "1000.00". This is the form used on the wire and matched by the
// free-text search.
func AmountString(d decimal.Decimal) string {
	return d.StringFixed(2)
}
