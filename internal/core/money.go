// Package core provides the ledger domain types and money handling utilities.
//
// Amounts are kept in integer cents end to end; conversion to dollars only
// happens at presentation time through Money.Dollars.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseDecimalToCents converts a signed decimal string to cents with half-up rounding.
//
// It accepts an optional leading sign and currency symbol ($) and both
// 1,234.56 and 1.234,56 notations. A lone comma followed by one or two digits
// is a decimal separator (12,34); any other comma must group thousands.
// Rounding happens on the third decimal place, away from zero.
//
// Examples:
//
//	ParseDecimalToCents("12.34")     -> 1234, nil
//	ParseDecimalToCents("-12,34")    -> -1234, nil
//	ParseDecimalToCents("$1,234.56") -> 123456, nil
//	ParseDecimalToCents("1,234")     -> 123400, nil
//	ParseDecimalToCents("$12.345")   -> 1235, nil
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = strings.TrimSpace(s[1:])
	}
	s = strings.TrimPrefix(s, "$")
	s, ok := normalizeSeparators(s)
	if !ok || s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	cents := d.Shift(2).Round(0)
	if !cents.IsInteger() || cents.GreaterThan(decimal.NewFromInt(1<<62)) {
		return 0, ErrInvalidAmount
	}
	v := cents.IntPart()
	if neg {
		v = -v
	}
	return v, nil
}

// normalizeSeparators rewrites s to use a dot decimal separator and no
// grouping. The last of '.' and ',' is the decimal mark when both appear.
func normalizeSeparators(s string) (string, bool) {
	dot := strings.LastIndex(s, ".")
	comma := strings.LastIndex(s, ",")
	switch {
	case comma < 0:
		return s, true
	case dot < 0:
		if strings.Count(s, ",") == 1 {
			if frac := len(s) - comma - 1; frac == 1 || frac == 2 {
				return s[:comma] + "." + s[comma+1:], true
			}
		}
		return ungroup(s, ",")
	case dot > comma:
		intPart, ok := ungroup(s[:dot], ",")
		return intPart + s[dot:], ok
	default:
		intPart, ok := ungroup(s[:comma], ".")
		return intPart + "." + s[comma+1:], ok
	}
}

// ungroup strips thousands separators, requiring groups of exactly three
// digits after the first.
func ungroup(s, sep string) (string, bool) {
	groups := strings.Split(s, sep)
	if len(groups) == 1 {
		return s, true
	}
	if n := len(groups[0]); n == 0 || n > 3 {
		return "", false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return "", false
		}
	}
	return strings.Join(groups, ""), true
}

// Dollars returns the exact dollar value for display purposes.
// Use cents for calculations.
func (m Money) Dollars() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String formats the amount as dollars with two decimals, e.g. "-12.50".
func (m Money) String() string {
	return m.Dollars().StringFixed(2)
}
