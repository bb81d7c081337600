package order

import (
	"retail-core/internal/domain/money"

	"github.com/shopspring/decimal"
)

type Pricing struct {
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	DeliveryFee   decimal.Decimal
	Total         decimal.Decimal
	CouponApplied bool
}

// Subtotal rounds once after summation, never per line.
func Subtotal(items []LineItem) decimal.Decimal {
	sum := money.Zero
	for _, li := range items {
		sum = sum.Add(li.Amount())
	}
	return money.Round2(sum)
}

// Price computes amounts without any coupon.
func Price(items []LineItem, deliveryFee decimal.Decimal) (Pricing, error) {
	if len(items) == 0 {
		return Pricing{}, ErrNoLineItems
	}
	if money.Fits(deliveryFee, money.Scale) != nil {
		return Pricing{}, ErrInvalidDeliveryFee
	}
	p := Pricing{
		Subtotal:    Subtotal(items),
		Discount:    money.Zero,
		DeliveryFee: deliveryFee,
	}
	if !p.Subtotal.Add(p.DeliveryFee).LessThan(money.Limit) {
		return Pricing{}, ErrOrderTooLarge
	}
	p.Total = p.total()
	return p, nil
}

// ApplyDiscount caps the discount at the subtotal and recomputes the total.
func (p Pricing) ApplyDiscount(discount decimal.Decimal) Pricing {
	p.Discount = money.Min(money.FloorZero(money.Round2(discount)), p.Subtotal)
	p.CouponApplied = true
	p.Total = p.total()
	return p
}

func (p Pricing) total() decimal.Decimal {
	return money.FloorZero(money.Round2(p.Subtotal.Sub(p.Discount).Add(p.DeliveryFee)))
}
