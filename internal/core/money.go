// Package core provides the session data model and money handling utilities.
//
// Prices are kept as exact decimals and converted to integer minor units
// (cents, paise) before any arithmetic happens.
package core

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// MinorPerMajor is the number of minor units in one major currency unit.
const MinorPerMajor = 100

// MaxMinorUnits bounds any line total or session total in minor units.
// Amounts up to 2^53 stay exact both as int64 and as float64 shares.
const MaxMinorUnits int64 = 1 << 53

var (
	hundred  = decimal.NewFromInt(MinorPerMajor)
	maxMinor = decimal.NewFromInt(MaxMinorUnits)
)

// ParseUnitPrice converts a user-entered price into an exact decimal.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Returns ErrInvalidPrice for malformed, signed or zero amounts, and for
// prices that round to zero or more than MaxMinorUnits minor units.
//
// Examples:
//
//	ParseUnitPrice("12.34") -> 12.34, nil
//	ParseUnitPrice("12,5")  -> 12.5, nil
//	ParseUnitPrice("0.001") -> error (rounds to zero minor units)
func ParseUnitPrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidPrice
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only positive values allowed
		return decimal.Zero, ErrInvalidPrice
	}
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, ErrInvalidPrice
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidPrice
	}
	if !priceInRange(d) {
		return decimal.Zero, ErrInvalidPrice
	}
	return d, nil
}

// ParseQuantity converts a user-entered quantity into a positive integer.
func ParseQuantity(s string) (int, error) {
	q, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || q <= 0 || int64(q) > MaxMinorUnits {
		return 0, ErrInvalidQuantity
	}
	return q, nil
}

func priceInRange(price decimal.Decimal) bool {
	minor := price.Mul(hundred).Round(0)
	return price.IsPositive() && minor.IsPositive() && minor.LessThanOrEqual(maxMinor)
}

// CheckLineTotal reports whether price*quantity can be computed exactly.
// It returns ErrInvalidPrice when the unit price is out of range and
// ErrInvalidQuantity when the line total would exceed MaxMinorUnits.
// The check runs on decimals, so it never overflows itself.
func CheckLineTotal(price decimal.Decimal, quantity int) error {
	if !priceInRange(price) {
		return ErrInvalidPrice
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	line := price.Mul(hundred).Round(0).Mul(decimal.NewFromInt(int64(quantity)))
	if line.GreaterThan(maxMinor) {
		return ErrInvalidQuantity
	}
	return nil
}

// TotalMinor sums the line totals of expenses whose lines already passed
// CheckLineTotal. It returns ErrAmountTooLarge once the sum would exceed
// MaxMinorUnits.
func TotalMinor(expenses []Expense) (int64, error) {
	var total int64
	for _, e := range expenses {
		line := LineTotal(e.UnitPrice, e.Quantity)
		if line > MaxMinorUnits-total {
			return 0, ErrAmountTooLarge
		}
		total += line
	}
	return total, nil
}

// MinorUnits rounds price*100 to the nearest integer, half away from zero.
// The rounding happens once per unit price, never on a line total.
func MinorUnits(price decimal.Decimal) int64 {
	return price.Mul(hundred).Round(0).IntPart()
}

// LineTotal returns the cost of an expense line in minor units. Callers
// validate the line with CheckLineTotal first.
func LineTotal(price decimal.Decimal, quantity int) int64 {
	return MinorUnits(price) * int64(quantity)
}

// FormatMinor renders a minor-unit amount as symbol + major units with two
// decimals, e.g. FormatMinor("₹", 1250) -> "₹12.50".
// Fractional minor units are rounded for display only.
func FormatMinor(symbol string, minor float64) string {
	major := minor / MinorPerMajor
	if math.Abs(major) < 0.005 {
		major = 0
	}
	neg := major < 0
	if neg {
		major = -major
	}
	s := symbol + strconv.FormatFloat(major, 'f', 2, 64)
	if neg {
		return "-" + s
	}
	return s
}
