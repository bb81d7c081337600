// Package money holds the fixed-point helpers every price computation goes through.
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrNegativeAmount  = errors.New("amount cannot be negative")
	ErrTooManyDecimals = errors.New("amount has too many decimal places")
	ErrAmountTooLarge  = errors.New("amount is too large")
)

// Scale is the number of decimals stored for every amount except unit prices.
const (
	Scale          int32 = 2
	UnitPriceScale int32 = 4
)

var (
	Zero    = decimal.Zero
	Hundred = decimal.NewFromInt(100)
	// Limit is the first amount the NUMERIC(12,2) columns cannot hold.
	Limit = decimal.New(1, 10)
)

// Round2 rounds half away from zero, which equals half-up for the non-negative amounts used here.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func FloorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return Zero
	}
	return d
}

func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Fits reports whether d is a storable amount with at most places decimals.
func Fits(d decimal.Decimal, places int32) error {
	switch {
	case d.IsNegative():
		return ErrNegativeAmount
	case !d.Equal(d.Truncate(places)):
		return ErrTooManyDecimals
	case !d.LessThan(Limit):
		return ErrAmountTooLarge
	}
	return nil
}

func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func MustParse(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
