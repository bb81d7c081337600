package response

import (
	"time"

	"retail-core/internal/usecase/queries"

	"github.com/google/uuid"
)

type CouponResponse struct {
	Code           string     `json:"code"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	DiscountKind   string     `json:"discountKind"`
	DiscountValue  string     `json:"discountValue"`
	MinOrderTotal  string     `json:"minOrderTotal"`
	StartsAt       *time.Time `json:"startsAt,omitempty"`
	EndsAt         *time.Time `json:"endsAt,omitempty"`
	RemainingUses  *int       `json:"remainingUses,omitempty"`
	PlanID         *uuid.UUID `json:"planId,omitempty"`
	BillingCycle   *string    `json:"billingCycle,omitempty"`
	DurationMonths int        `json:"durationMonths"`
}

type CouponCreatedResponse struct {
	ID uuid.UUID `json:"id"`
}

func FromCouponView(v *queries.CouponView) (*CouponResponse, error) {
	return fromView[CouponResponse](v)
}
