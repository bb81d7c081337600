package coupon

import (
	"errors"
	"time"

	"retail-core/internal/domain/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Each constraint has its own error for logging; callers must not show them to shoppers.
var (
	ErrCouponInactive      = errors.New("coupon is inactive")
	ErrCouponNotYetValid   = errors.New("coupon is not yet valid")
	ErrCouponExpired       = errors.New("coupon has expired")
	ErrCouponExhausted     = errors.New("coupon redemption limit reached")
	ErrBelowMinimumTotal   = errors.New("order total below coupon minimum")
	ErrPlanMismatch        = errors.New("coupon does not apply to this plan")
	ErrInvalidWindow       = errors.New("coupon window ends before it starts")
	ErrInvalidMaxUses      = errors.New("max uses cannot be negative")
	ErrInvalidMinimumTotal = errors.New("minimum order total must be a non-negative amount with at most 2 decimals")
)

type Coupon struct {
	id             uuid.UUID
	tenantID       uuid.UUID
	code           Code
	title          string
	description    string
	discount       Discount
	startsAt       *time.Time
	endsAt         *time.Time
	maxUses        int
	usedCount      int
	minOrderTotal  decimal.Decimal
	active         bool
	planID         *uuid.UUID
	billingCycle   *string
	durationMonths int
	createdAt      time.Time
	updatedAt      time.Time
}

type Params struct {
	TenantID       uuid.UUID
	Code           string
	Title          string
	Description    string
	Kind           DiscountKind
	Value          decimal.Decimal
	StartsAt       *time.Time
	EndsAt         *time.Time
	MaxUses        int
	MinOrderTotal  decimal.Decimal
	PlanID         *uuid.UUID
	BillingCycle   *string
	DurationMonths int
}

func NewCoupon(p Params, now time.Time) (*Coupon, error) {
	code, err := NewCouponCode(p.Code)
	if err != nil {
		return nil, err
	}

	discount, err := NewDiscount(p.Kind, p.Value)
	if err != nil {
		return nil, err
	}

	if p.StartsAt != nil && p.EndsAt != nil && p.EndsAt.Before(*p.StartsAt) {
		return nil, ErrInvalidWindow
	}
	if p.MaxUses < 0 {
		return nil, ErrInvalidMaxUses
	}
	if money.Fits(p.MinOrderTotal, money.Scale) != nil {
		return nil, ErrInvalidMinimumTotal
	}

	return &Coupon{
		id:             uuid.New(),
		tenantID:       p.TenantID,
		code:           code,
		title:          p.Title,
		description:    p.Description,
		discount:       discount,
		startsAt:       p.StartsAt,
		endsAt:         p.EndsAt,
		maxUses:        p.MaxUses,
		minOrderTotal:  p.MinOrderTotal,
		active:         true,
		planID:         p.PlanID,
		billingCycle:   p.BillingCycle,
		durationMonths: p.DurationMonths,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

func ReconstructCoupon(
	id uuid.UUID,
	p Params,
	usedCount int,
	active bool,
	createdAt, updatedAt time.Time,
) (*Coupon, error) {
	code, err := NewCouponCode(p.Code)
	if err != nil {
		return nil, err
	}
	discount, err := NewDiscount(p.Kind, p.Value)
	if err != nil {
		return nil, err
	}
	return &Coupon{
		id:             id,
		tenantID:       p.TenantID,
		code:           code,
		title:          p.Title,
		description:    p.Description,
		discount:       discount,
		startsAt:       p.StartsAt,
		endsAt:         p.EndsAt,
		maxUses:        p.MaxUses,
		usedCount:      usedCount,
		minOrderTotal:  p.MinOrderTotal,
		active:         active,
		planID:         p.PlanID,
		billingCycle:   p.BillingCycle,
		durationMonths: p.DurationMonths,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}, nil
}

func (c *Coupon) IsExhausted() bool {
	return c.maxUses > 0 && c.usedCount >= c.maxUses
}

// Evaluate returns the discount for subtotal or the first constraint that fails.
// Both window ends are inclusive.
func (c *Coupon) Evaluate(subtotal decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	switch {
	case !c.active:
		return money.Zero, ErrCouponInactive
	case c.startsAt != nil && now.Before(*c.startsAt):
		return money.Zero, ErrCouponNotYetValid
	case c.endsAt != nil && now.After(*c.endsAt):
		return money.Zero, ErrCouponExpired
	case c.IsExhausted():
		return money.Zero, ErrCouponExhausted
	case subtotal.LessThan(c.minOrderTotal):
		return money.Zero, ErrBelowMinimumTotal
	}
	return c.discount.AmountFor(subtotal), nil
}

// AppliesToPlan is true for coupons without plan scoping.
func (c *Coupon) AppliesToPlan(planID uuid.UUID, billingCycle string) bool {
	if c.planID != nil && *c.planID != planID {
		return false
	}
	if c.billingCycle != nil && *c.billingCycle != billingCycle {
		return false
	}
	return true
}

// Remaining is nil for unlimited coupons.
func (c *Coupon) Remaining() *int {
	if c.maxUses == 0 {
		return nil
	}
	left := c.maxUses - c.usedCount
	if left < 0 {
		left = 0
	}
	return &left
}

// UsageExpiry is nil when the discount lasts for the whole subscription.
func (c *Coupon) UsageExpiry(appliedAt time.Time) *time.Time {
	if c.durationMonths <= 0 {
		return nil
	}
	t := appliedAt.AddDate(0, c.durationMonths, 0)
	return &t
}

func (c *Coupon) ID() uuid.UUID                  { return c.id }
func (c *Coupon) TenantID() uuid.UUID            { return c.tenantID }
func (c *Coupon) Code() Code                     { return c.code }
func (c *Coupon) Title() string                  { return c.title }
func (c *Coupon) Description() string            { return c.description }
func (c *Coupon) Discount() Discount             { return c.discount }
func (c *Coupon) StartsAt() *time.Time           { return c.startsAt }
func (c *Coupon) EndsAt() *time.Time             { return c.endsAt }
func (c *Coupon) MaxUses() int                   { return c.maxUses }
func (c *Coupon) UsedCount() int                 { return c.usedCount }
func (c *Coupon) MinOrderTotal() decimal.Decimal { return c.minOrderTotal }
func (c *Coupon) IsActive() bool                 { return c.active }
func (c *Coupon) PlanID() *uuid.UUID             { return c.planID }
func (c *Coupon) BillingCycle() *string          { return c.billingCycle }
func (c *Coupon) DurationMonths() int            { return c.durationMonths }
func (c *Coupon) CreatedAt() time.Time           { return c.createdAt }
func (c *Coupon) UpdatedAt() time.Time           { return c.updatedAt }
