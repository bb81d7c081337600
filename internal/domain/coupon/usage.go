package coupon

import (
	"errors"
	"strings"
	"time"

	"retail-core/internal/domain/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrMissingRedeemer = errors.New("redeemer is required")

type UsageStatus string

const (
	UsageActive    UsageStatus = "active"
	UsageExpired   UsageStatus = "expired"
	UsageCancelled UsageStatus = "cancelled"
)

// Usage is the audit row written once per consumed reservation.
// Only its status changes after creation.
type Usage struct {
	id            uuid.UUID
	couponID      uuid.UUID
	reservationID uuid.UUID
	tenantID      uuid.UUID
	redeemer      string
	originalPrice decimal.Decimal
	discount      decimal.Decimal
	finalPrice    decimal.Decimal
	planID        *uuid.UUID
	billingCycle  *string
	status        UsageStatus
	appliedAt     time.Time
	expiresAt     *time.Time
}

type UsageParams struct {
	Redeemer      string
	OriginalPrice decimal.Decimal
	PlanID        *uuid.UUID
	BillingCycle  *string
}

func NewUsage(c *Coupon, r *Reservation, p UsageParams, appliedAt time.Time) (*Usage, error) {
	redeemer := strings.TrimSpace(p.Redeemer)
	if redeemer == "" {
		return nil, ErrMissingRedeemer
	}
	original := money.Round2(p.OriginalPrice)
	return &Usage{
		id:            uuid.New(),
		couponID:      c.ID(),
		reservationID: r.ID(),
		tenantID:      c.TenantID(),
		redeemer:      redeemer,
		originalPrice: original,
		discount:      r.Discount(),
		finalPrice:    money.FloorZero(original.Sub(r.Discount())),
		planID:        p.PlanID,
		billingCycle:  p.BillingCycle,
		status:        UsageActive,
		appliedAt:     appliedAt,
		expiresAt:     c.UsageExpiry(appliedAt),
	}, nil
}

func ReconstructUsage(
	id, couponID, reservationID, tenantID uuid.UUID,
	redeemer string,
	originalPrice, discount, finalPrice decimal.Decimal,
	planID *uuid.UUID,
	billingCycle *string,
	status UsageStatus,
	appliedAt time.Time,
	expiresAt *time.Time,
) *Usage {
	return &Usage{
		id:            id,
		couponID:      couponID,
		reservationID: reservationID,
		tenantID:      tenantID,
		redeemer:      redeemer,
		originalPrice: originalPrice,
		discount:      discount,
		finalPrice:    finalPrice,
		planID:        planID,
		billingCycle:  billingCycle,
		status:        status,
		appliedAt:     appliedAt,
		expiresAt:     expiresAt,
	}
}

func (u *Usage) ID() uuid.UUID                  { return u.id }
func (u *Usage) CouponID() uuid.UUID            { return u.couponID }
func (u *Usage) ReservationID() uuid.UUID       { return u.reservationID }
func (u *Usage) TenantID() uuid.UUID            { return u.tenantID }
func (u *Usage) Redeemer() string               { return u.redeemer }
func (u *Usage) OriginalPrice() decimal.Decimal { return u.originalPrice }
func (u *Usage) Discount() decimal.Decimal      { return u.discount }
func (u *Usage) FinalPrice() decimal.Decimal    { return u.finalPrice }
func (u *Usage) PlanID() *uuid.UUID             { return u.planID }
func (u *Usage) BillingCycle() *string          { return u.billingCycle }
func (u *Usage) Status() UsageStatus            { return u.status }
func (u *Usage) AppliedAt() time.Time           { return u.appliedAt }
func (u *Usage) ExpiresAt() *time.Time          { return u.expiresAt }
