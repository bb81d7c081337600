package request

import (
	"fmt"
	"strings"
	"time"

	"retail-core/internal/domain/money"
	"retail-core/internal/pkg/patch"
	"retail-core/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateCouponRequest struct {
	Code           string          `json:"code" binding:"required"`
	Title          string          `json:"title" binding:"max=200"`
	Description    string          `json:"description" binding:"max=2000"`
	Kind           string          `json:"kind" binding:"required,oneof=percentage fixed"`
	Value          decimal.Decimal `json:"value"`
	StartsAt       *time.Time      `json:"startsAt,omitempty"`
	EndsAt         *time.Time      `json:"endsAt,omitempty"`
	MaxUses        int             `json:"maxUses" binding:"min=0"`
	MinOrderTotal  decimal.Decimal `json:"minOrderTotal"`
	PlanID         *uuid.UUID      `json:"planId,omitempty"`
	BillingCycle   *string         `json:"billingCycle,omitempty" binding:"omitempty,oneof=monthly yearly"`
	DurationMonths int             `json:"durationMonths" binding:"min=0"`
}

func (r CreateCouponRequest) Validate() error {
	if err := money.Fits(r.Value, money.Scale); err != nil {
		return fmt.Errorf("value: %w", err)
	}
	if err := money.Fits(r.MinOrderTotal, money.Scale); err != nil {
		return fmt.Errorf("minOrderTotal: %w", err)
	}
	return nil
}

func (r CreateCouponRequest) ToCommand(tenantID uuid.UUID) commands.CreateCouponRequest {
	return commands.CreateCouponRequest{
		TenantID:       tenantID,
		Code:           r.Code,
		Title:          strings.TrimSpace(r.Title),
		Description:    strings.TrimSpace(r.Description),
		Kind:           r.Kind,
		Value:          r.Value,
		StartsAt:       r.StartsAt,
		EndsAt:         r.EndsAt,
		MaxUses:        r.MaxUses,
		MinOrderTotal:  r.MinOrderTotal,
		PlanID:         r.PlanID,
		BillingCycle:   patch.TrimmedOrNil(r.BillingCycle),
		DurationMonths: r.DurationMonths,
	}
}
