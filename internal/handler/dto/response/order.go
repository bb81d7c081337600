package response

import (
	"time"

	"retail-core/internal/domain/order"
	"retail-core/internal/usecase/queries"

	"github.com/google/uuid"
)

type PricingResponse struct {
	Subtotal      string `json:"subtotal"`
	Discount      string `json:"discount"`
	DeliveryFee   string `json:"deliveryFee"`
	Total         string `json:"total"`
	CouponApplied bool   `json:"couponApplied"`
}

type OrderResponse struct {
	ID         uuid.UUID `json:"id"`
	Status     string    `json:"status"`
	CouponCode *string   `json:"couponCode,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	PricingResponse
}

type OrderItemResponse struct {
	ProductID string `json:"productId"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
}

type OrderViewResponse struct {
	ID              uuid.UUID           `json:"id"`
	Status          string              `json:"status"`
	Items           []OrderItemResponse `json:"items"`
	Subtotal        string              `json:"subtotal"`
	Discount        string              `json:"discount"`
	DeliveryFee     string              `json:"deliveryFee"`
	Total           string              `json:"total"`
	CouponApplied   bool                `json:"couponApplied"`
	CouponCode      *string             `json:"couponCode,omitempty"`
	CustomerName    string              `json:"customerName"`
	CustomerEmail   string              `json:"customerEmail"`
	CustomerPhone   string              `json:"customerPhone"`
	DeliveryAddress string              `json:"deliveryAddress"`
	PaymentMethod   string              `json:"paymentMethod"`
	CreatedAt       time.Time           `json:"createdAt"`
}

func FromPricing(p order.Pricing) PricingResponse {
	return PricingResponse{
		Subtotal:      money(p.Subtotal),
		Discount:      money(p.Discount),
		DeliveryFee:   money(p.DeliveryFee),
		Total:         money(p.Total),
		CouponApplied: p.CouponApplied,
	}
}

func FromOrder(o *order.Order) *OrderResponse {
	return &OrderResponse{
		ID:              o.ID(),
		Status:          string(o.Status()),
		CouponCode:      o.CouponCode(),
		CreatedAt:       o.CreatedAt(),
		PricingResponse: FromPricing(o.Pricing()),
	}
}

func FromOrderView(v *queries.OrderView) (*OrderViewResponse, error) {
	return fromView[OrderViewResponse](v)
}
