package coupon

import (
	"errors"
	"regexp"
	"strings"

	"retail-core/internal/domain/money"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCouponCode      = errors.New("invalid coupon code format")
	ErrInvalidDiscountAmount  = errors.New("fixed discount must be a positive amount with at most 2 decimals")
	ErrInvalidDiscountPercent = errors.New("percentage discount must be greater than 0 and at most 100 with at most 2 decimals")
	ErrInvalidDiscountKind    = errors.New("unknown discount kind")
)

var couponCodeRegex = regexp.MustCompile(`^[A-Z0-9_-]{3,32}$`)

// Code is always stored upper-cased so lookups are case-insensitive.
type Code string

func NewCouponCode(code string) (Code, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if !couponCodeRegex.MatchString(code) {
		return Code(""), ErrInvalidCouponCode
	}
	return Code(code), nil
}

func (c Code) String() string {
	return string(c)
}

type DiscountKind string

const (
	KindPercentage DiscountKind = "percentage"
	KindFixed      DiscountKind = "fixed"
)

func (k DiscountKind) IsValid() bool {
	switch k {
	case KindPercentage, KindFixed:
		return true
	default:
		return false
	}
}

type Discount struct {
	kind  DiscountKind
	value decimal.Decimal
}

func NewFixedDiscount(amount decimal.Decimal) (Discount, error) {
	if !amount.IsPositive() || money.Fits(amount, money.Scale) != nil {
		return Discount{}, ErrInvalidDiscountAmount
	}
	return Discount{kind: KindFixed, value: amount}, nil
}

func NewPercentageDiscount(percent decimal.Decimal) (Discount, error) {
	if !percent.IsPositive() || percent.GreaterThan(money.Hundred) || money.Fits(percent, money.Scale) != nil {
		return Discount{}, ErrInvalidDiscountPercent
	}
	return Discount{kind: KindPercentage, value: percent}, nil
}

func NewDiscount(kind DiscountKind, value decimal.Decimal) (Discount, error) {
	switch kind {
	case KindPercentage:
		return NewPercentageDiscount(value)
	case KindFixed:
		return NewFixedDiscount(value)
	default:
		return Discount{}, ErrInvalidDiscountKind
	}
}

func (d Discount) Kind() DiscountKind     { return d.kind }
func (d Discount) Value() decimal.Decimal { return d.value }
func (d Discount) IsPercentage() bool     { return d.kind == KindPercentage }

// AmountFor never returns more than subtotal.
func (d Discount) AmountFor(subtotal decimal.Decimal) decimal.Decimal {
	if !subtotal.IsPositive() {
		return money.Zero
	}

	var amount decimal.Decimal
	if d.IsPercentage() {
		amount = money.Round2(subtotal.Mul(d.value).Div(money.Hundred))
	} else {
		amount = money.Round2(d.value)
	}
	return money.Min(amount, subtotal)
}
