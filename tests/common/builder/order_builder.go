//go:build unit || e2e

package builder

import (
	"time"

	"retail-core/internal/domain/money"
	"retail-core/internal/domain/order"
	reqdto "retail-core/internal/handler/dto/request"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderLine struct {
	ProductID string
	UnitPrice string
	Quantity  int
}

type OrderBuilder struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	Lines         []OrderLine
	DeliveryFee   string
	CouponCode    string
	Customer      order.Customer
	PaymentMethod string
	Now           time.Time
}

func NewOrderBuilder() *OrderBuilder {
	return &OrderBuilder{
		ID:       uuid.New(),
		TenantID: uuid.New(),
		Lines: []OrderLine{
			{ProductID: "sku-espresso", UnitPrice: "40.00", Quantity: 2},
			{ProductID: "sku-croissant", UnitPrice: "20.00", Quantity: 1},
		},
		DeliveryFee: "5.00",
		Customer: order.Customer{
			Name:    "Dana Buyer",
			Email:   "dana@example.com",
			Phone:   "+15550111",
			Address: "1 Market St",
		},
		PaymentMethod: "card",
		Now:           time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
	}
}

func (b *OrderBuilder) With(mutate func(*OrderBuilder)) *OrderBuilder {
	mutate(b)
	return b
}

func (b *OrderBuilder) WithTenant(id uuid.UUID) *OrderBuilder {
	b.TenantID = id
	return b
}

func (b *OrderBuilder) WithCoupon(code string) *OrderBuilder {
	b.CouponCode = code
	return b
}

func (b *OrderBuilder) WithLines(lines ...OrderLine) *OrderBuilder {
	b.Lines = lines
	return b
}

func (b *OrderBuilder) BuildPricingRequestDTO() reqdto.PricingRequest {
	items := make([]reqdto.LineItem, len(b.Lines))
	for i, l := range b.Lines {
		items[i] = reqdto.LineItem{
			ProductID: l.ProductID,
			UnitPrice: money.MustParse(l.UnitPrice),
			Quantity:  l.Quantity,
		}
	}
	req := reqdto.PricingRequest{
		Items:       items,
		DeliveryFee: money.MustParse(b.DeliveryFee),
	}
	if b.CouponCode != "" {
		code := b.CouponCode
		req.CouponCode = &code
	}
	return req
}

func (b *OrderBuilder) BuildPlaceOrderRequestDTO() reqdto.PlaceOrderRequest {
	return reqdto.PlaceOrderRequest{
		PricingRequest: b.BuildPricingRequestDTO(),
		Customer: reqdto.Customer{
			Name:    b.Customer.Name,
			Email:   b.Customer.Email,
			Phone:   b.Customer.Phone,
			Address: b.Customer.Address,
		},
		PaymentMethod: b.PaymentMethod,
	}
}

func (b *OrderBuilder) LineItems() ([]order.LineItem, error) {
	items := make([]order.LineItem, 0, len(b.Lines))
	for _, l := range b.Lines {
		li, err := order.NewLineItem(l.ProductID, money.MustParse(l.UnitPrice), l.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, li)
	}
	return items, nil
}

// BuildDomain prices the lines and applies discount when it is positive.
func (b *OrderBuilder) BuildDomain(discount decimal.Decimal) (*order.Order, error) {
	items, err := b.LineItems()
	if err != nil {
		return nil, err
	}
	pricing, err := order.Price(items, money.MustParse(b.DeliveryFee))
	if err != nil {
		return nil, err
	}
	var code *string
	if discount.IsPositive() {
		pricing = pricing.ApplyDiscount(discount)
		c := b.CouponCode
		code = &c
	}
	return order.NewOrder(b.ID, b.TenantID, items, pricing, code, nil, b.Customer, b.PaymentMethod, b.Now)
}
