package request

import (
	"fmt"
	"strings"

	"retail-core/internal/domain/money"
	"retail-core/internal/domain/order"
	"retail-core/internal/pkg/patch"
	"retail-core/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LineItem struct {
	ProductID string          `json:"productId" binding:"required"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity" binding:"required,min=1"`
}

type PricingRequest struct {
	Items       []LineItem      `json:"items" binding:"required,min=1,dive"`
	CouponCode  *string         `json:"couponCode,omitempty"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
}

type Customer struct {
	Name    string `json:"name" binding:"max=200"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone" binding:"max=32"`
	Address string `json:"address" binding:"max=500"`
}

type PlaceOrderRequest struct {
	PricingRequest
	Customer      Customer `json:"customer"`
	PaymentMethod string   `json:"paymentMethod" binding:"max=32"`
}

// Validate rejects amounts with more precision or magnitude than the ledger stores.
func (r PricingRequest) Validate() error {
	for i, it := range r.Items {
		if err := money.Fits(it.UnitPrice, money.UnitPriceScale); err != nil {
			return fmt.Errorf("items[%d].unitPrice: %w", i, err)
		}
	}
	if err := money.Fits(r.DeliveryFee, money.Scale); err != nil {
		return fmt.Errorf("deliveryFee: %w", err)
	}
	return nil
}

func (r PricingRequest) ToCommand(tenantID uuid.UUID) commands.PricingRequest {
	items := make([]commands.LineItemInput, len(r.Items))
	for i, it := range r.Items {
		items[i] = commands.LineItemInput{
			ProductID: strings.TrimSpace(it.ProductID),
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		}
	}
	return commands.PricingRequest{
		TenantID:    tenantID,
		Items:       items,
		CouponCode:  trimmed(r.CouponCode),
		DeliveryFee: r.DeliveryFee,
	}
}

func (r PlaceOrderRequest) ToCommand(tenantID uuid.UUID) commands.PlaceOrderRequest {
	return commands.PlaceOrderRequest{
		PricingRequest: r.PricingRequest.ToCommand(tenantID),
		Customer: order.Customer{
			Name:    strings.TrimSpace(r.Customer.Name),
			Email:   strings.TrimSpace(r.Customer.Email),
			Phone:   strings.TrimSpace(r.Customer.Phone),
			Address: strings.TrimSpace(r.Customer.Address),
		},
		PaymentMethod: strings.TrimSpace(r.PaymentMethod),
	}
}

func trimmed(s *string) string {
	return patch.Coalesce(patch.TrimmedOrNil(s), "")
}
