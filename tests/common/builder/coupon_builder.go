//go:build unit || e2e

package builder

import (
	"time"

	"retail-core/internal/domain/coupon"
	"retail-core/internal/domain/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CouponBuilder struct {
	TenantID       uuid.UUID
	Code           string
	Title          string
	Description    string
	Kind           coupon.DiscountKind
	Value          decimal.Decimal
	StartsAt       *time.Time
	EndsAt         *time.Time
	MaxUses        int
	UsedCount      int
	MinOrderTotal  decimal.Decimal
	Active         bool
	PlanID         *uuid.UUID
	BillingCycle   *string
	DurationMonths int
	Now            time.Time
}

func NewCouponBuilder() *CouponBuilder {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	starts := now.AddDate(0, -1, 0)
	ends := now.AddDate(0, 1, 0)
	return &CouponBuilder{
		TenantID:      uuid.New(),
		Code:          "SPRING10",
		Title:         "Spring sale",
		Description:   "10% off everything",
		Kind:          coupon.KindPercentage,
		Value:         decimal.NewFromInt(10),
		StartsAt:      &starts,
		EndsAt:        &ends,
		MaxUses:       100,
		MinOrderTotal: money.MustParse("50.00"),
		Active:        true,
		Now:           now,
	}
}

func (b *CouponBuilder) With(mutate func(*CouponBuilder)) *CouponBuilder {
	mutate(b)
	return b
}

func (b *CouponBuilder) WithCode(code string) *CouponBuilder {
	b.Code = code
	return b
}

func (b *CouponBuilder) WithTenant(id uuid.UUID) *CouponBuilder {
	b.TenantID = id
	return b
}

func (b *CouponBuilder) WithPercentage(v string) *CouponBuilder {
	b.Kind = coupon.KindPercentage
	b.Value = money.MustParse(v)
	return b
}

func (b *CouponBuilder) WithFixed(v string) *CouponBuilder {
	b.Kind = coupon.KindFixed
	b.Value = money.MustParse(v)
	return b
}

func (b *CouponBuilder) WithWindow(starts, ends *time.Time) *CouponBuilder {
	b.StartsAt = starts
	b.EndsAt = ends
	return b
}

func (b *CouponBuilder) WithMaxUses(maxUses, used int) *CouponBuilder {
	b.MaxUses = maxUses
	b.UsedCount = used
	return b
}

func (b *CouponBuilder) WithMinOrderTotal(v string) *CouponBuilder {
	b.MinOrderTotal = money.MustParse(v)
	return b
}

func (b *CouponBuilder) WithDurationMonths(n int) *CouponBuilder {
	b.DurationMonths = n
	return b
}

func (b *CouponBuilder) WithPlan(planID uuid.UUID, cycle string) *CouponBuilder {
	b.PlanID = &planID
	b.BillingCycle = &cycle
	return b
}

func (b *CouponBuilder) Inactive() *CouponBuilder {
	b.Active = false
	return b
}

func (b *CouponBuilder) Params() coupon.Params {
	return coupon.Params{
		TenantID:       b.TenantID,
		Code:           b.Code,
		Title:          b.Title,
		Description:    b.Description,
		Kind:           b.Kind,
		Value:          b.Value,
		StartsAt:       b.StartsAt,
		EndsAt:         b.EndsAt,
		MaxUses:        b.MaxUses,
		MinOrderTotal:  b.MinOrderTotal,
		PlanID:         b.PlanID,
		BillingCycle:   b.BillingCycle,
		DurationMonths: b.DurationMonths,
	}
}

func (b *CouponBuilder) BuildDomain() (*coupon.Coupon, error) {
	return coupon.NewCoupon(b.Params(), b.Now)
}

// BuildStored returns the coupon as it would be loaded back from storage.
func (b *CouponBuilder) BuildStored() (*coupon.Coupon, error) {
	return coupon.ReconstructCoupon(uuid.New(), b.Params(), b.UsedCount, b.Active, b.Now, b.Now)
}

func (b *CouponBuilder) MustBuildStored() *coupon.Coupon {
	c, err := b.BuildStored()
	if err != nil {
		panic(err)
	}
	return c
}
