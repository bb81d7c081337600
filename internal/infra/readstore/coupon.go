package readstore

import (
	"context"

	"retail-core/internal/infra"
	"retail-core/internal/infra/db"
	"retail-core/internal/infra/pgconv"
	"retail-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type CouponReadStore struct {
	db db.DBTX
}

func NewCouponReadStore(db db.DBTX) *CouponReadStore {
	return &CouponReadStore{db: db}
}

func (r *CouponReadStore) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*queries.CouponView, error) {
	var (
		v                queries.CouponView
		startsAt, endsAt pgtype.Timestamptz
		planID           pgtype.UUID
		billingCycle     pgtype.Text
		maxUses, used    int
	)
	err := r.db.QueryRow(ctx, `
		SELECT code, title, description, discount_kind, discount_value, min_order_total,
			starts_at, ends_at, max_uses, used_count, plan_id, billing_cycle, duration_months, is_active
		FROM coupons
		WHERE tenant_id = $1 AND lower(code) = lower($2)`,
		tenantID, code,
	).Scan(
		&v.Code, &v.Title, &v.Description, &v.DiscountKind, &v.DiscountValue, &v.MinOrderTotal,
		&startsAt, &endsAt, &maxUses, &used, &planID, &billingCycle, &v.DurationMonths, &v.Active,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon by code", err)
	}

	v.StartsAt = pgconv.TimePtr(startsAt)
	v.EndsAt = pgconv.TimePtr(endsAt)
	v.PlanID = pgconv.UUIDPtr(planID)
	v.BillingCycle = pgconv.TextPtr(billingCycle)
	v.RemainingUses = remainingUses(maxUses, used)
	return &v, nil
}

// remainingUses is nil for unlimited coupons.
func remainingUses(maxUses, used int) *int {
	if maxUses == 0 {
		return nil
	}
	left := maxUses - used
	if left < 0 {
		left = 0
	}
	return &left
}
