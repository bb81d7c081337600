package order

import (
	"errors"
	"strings"
	"time"

	"retail-core/internal/domain/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNoLineItems        = errors.New("order must contain at least one line item")
	ErrInvalidProductID   = errors.New("product id is required")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrInvalidUnitPrice   = errors.New("unit price must be a non-negative amount with at most 4 decimals")
	ErrInvalidDeliveryFee = errors.New("delivery fee must be a non-negative amount with at most 2 decimals")
	ErrOrderTooLarge      = errors.New("order total is too large")
	ErrInvalidTenant      = errors.New("tenant is required")
)

type Status string

const (
	StatusReceived  Status = "received"
	StatusConfirmed Status = "confirmed"
)

type LineItem struct {
	ProductID string
	UnitPrice decimal.Decimal
	Quantity  int
}

func NewLineItem(productID string, unitPrice decimal.Decimal, quantity int) (LineItem, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return LineItem{}, ErrInvalidProductID
	}
	if quantity <= 0 {
		return LineItem{}, ErrInvalidQuantity
	}
	if money.Fits(unitPrice, money.UnitPriceScale) != nil {
		return LineItem{}, ErrInvalidUnitPrice
	}
	return LineItem{ProductID: productID, UnitPrice: unitPrice, Quantity: quantity}, nil
}

func (li LineItem) Amount() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Customer is carried through to fulfilment untouched.
type Customer struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

type Order struct {
	id            uuid.UUID
	tenantID      uuid.UUID
	items         []LineItem
	pricing       Pricing
	couponCode    *string
	reservationID *uuid.UUID
	customer      Customer
	paymentMethod string
	status        Status
	createdAt     time.Time
	updatedAt     time.Time
}

// NewOrder takes the id from the caller so it can hold a coupon reservation before the order is written.
func NewOrder(
	id, tenantID uuid.UUID,
	items []LineItem,
	pricing Pricing,
	couponCode *string,
	reservationID *uuid.UUID,
	customer Customer,
	paymentMethod string,
	now time.Time,
) (*Order, error) {
	if tenantID == uuid.Nil {
		return nil, ErrInvalidTenant
	}
	if len(items) == 0 {
		return nil, ErrNoLineItems
	}
	if !pricing.CouponApplied {
		couponCode, reservationID = nil, nil
	}
	return &Order{
		id:            id,
		tenantID:      tenantID,
		items:         append([]LineItem(nil), items...),
		pricing:       pricing,
		couponCode:    couponCode,
		reservationID: reservationID,
		customer:      customer,
		paymentMethod: paymentMethod,
		status:        StatusReceived,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

func ReconstructOrder(
	id, tenantID uuid.UUID,
	items []LineItem,
	pricing Pricing,
	couponCode *string,
	reservationID *uuid.UUID,
	customer Customer,
	paymentMethod string,
	status Status,
	createdAt, updatedAt time.Time,
) *Order {
	return &Order{
		id:            id,
		tenantID:      tenantID,
		items:         items,
		pricing:       pricing,
		couponCode:    couponCode,
		reservationID: reservationID,
		customer:      customer,
		paymentMethod: paymentMethod,
		status:        status,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (o *Order) ID() uuid.UUID                { return o.id }
func (o *Order) TenantID() uuid.UUID          { return o.tenantID }
func (o *Order) Items() []LineItem            { return o.items }
func (o *Order) Pricing() Pricing             { return o.pricing }
func (o *Order) Subtotal() decimal.Decimal    { return o.pricing.Subtotal }
func (o *Order) Discount() decimal.Decimal    { return o.pricing.Discount }
func (o *Order) DeliveryFee() decimal.Decimal { return o.pricing.DeliveryFee }
func (o *Order) Total() decimal.Decimal       { return o.pricing.Total }
func (o *Order) CouponCode() *string          { return o.couponCode }
func (o *Order) ReservationID() *uuid.UUID    { return o.reservationID }
func (o *Order) Customer() Customer           { return o.customer }
func (o *Order) PaymentMethod() string        { return o.paymentMethod }
func (o *Order) Status() Status               { return o.status }
func (o *Order) CreatedAt() time.Time         { return o.createdAt }
func (o *Order) UpdatedAt() time.Time         { return o.updatedAt }
