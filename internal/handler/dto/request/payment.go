package request

import (
	"encoding/json"
	"strings"

	"retail-core/internal/usecase/commands"

	"github.com/google/uuid"
)

type OpenSubscriptionRequest struct {
	PlanID       uuid.UUID `json:"planId" binding:"required"`
	BillingCycle string    `json:"billingCycle" binding:"required,oneof=monthly yearly"`
	Method       string    `json:"method" binding:"required"`
	CouponCode   *string   `json:"couponCode,omitempty"`
	Redeemer     string    `json:"redeemer" binding:"omitempty,email"`
}

func (r OpenSubscriptionRequest) ToCommand(tenantID uuid.UUID) commands.OpenSubscriptionRequest {
	return commands.OpenSubscriptionRequest{
		TenantID:     tenantID,
		PlanID:       r.PlanID,
		BillingCycle: r.BillingCycle,
		Method:       r.Method,
		CouponCode:   trimmed(r.CouponCode),
		Redeemer:     strings.TrimSpace(r.Redeemer),
	}
}

type OpenForOrderRequest struct {
	OrderID uuid.UUID `json:"orderId" binding:"required"`
	Method  string    `json:"method" binding:"required"`
}

// SucceedRequest carries the raw gateway response stored with a terminal attempt.
type SucceedRequest struct {
	Payload json.RawMessage `json:"payload"`
}

type FailRequest struct {
	Code    string          `json:"code" binding:"required,max=64"`
	Message string          `json:"message" binding:"max=500"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}
