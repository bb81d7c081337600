package repository

import (
	"context"

	"retail-core/internal/domain/coupon"
	"retail-core/internal/infra"
	"retail-core/internal/infra/db"
	"retail-core/internal/infra/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const couponColumns = `id, tenant_id, code, title, description, discount_kind, discount_value,
	starts_at, ends_at, max_uses, used_count, min_order_total, is_active,
	plan_id, billing_cycle, duration_months, created_at, updated_at`

type CouponRepository struct {
	db db.DBTX
}

func NewCouponRepository(db db.DBTX) *CouponRepository {
	return &CouponRepository{db: db}
}

func (r *CouponRepository) Create(ctx context.Context, c *coupon.Coupon) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO coupons (`+couponColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		c.ID(), c.TenantID(), c.Code().String(), c.Title(), c.Description(),
		string(c.Discount().Kind()), c.Discount().Value(),
		pgconv.TimestamptzFromPtr(c.StartsAt()), pgconv.TimestamptzFromPtr(c.EndsAt()),
		c.MaxUses(), c.UsedCount(), c.MinOrderTotal(), c.IsActive(),
		pgconv.UUIDFromPtr(c.PlanID()), pgconv.TextFromPtr(c.BillingCycle()), c.DurationMonths(),
		c.CreatedAt(), c.UpdatedAt(),
	)
	if err != nil {
		if pgconv.IsUniqueViolation(err) {
			return infra.WrapRepoErr("coupon code already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create coupon", err)
	}
	return nil
}

func (r *CouponRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code coupon.Code) (*coupon.Coupon, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+couponColumns+`
		FROM coupons
		WHERE tenant_id = $1 AND lower(code) = lower($2)`,
		tenantID, code.String(),
	)
	c, err := scanCoupon(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon by code", err)
	}
	return c, nil
}

func (r *CouponRepository) FindByID(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error) {
	row := r.db.QueryRow(ctx, `SELECT `+couponColumns+` FROM coupons WHERE id = $1`, id)
	c, err := scanCoupon(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon by ID", err)
	}
	return c, nil
}

// IncrementUsage is the only way used_count grows. The predicate and the
// increment are one statement, so concurrent callers cannot oversell.
func (r *CouponRepository) IncrementUsage(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE coupons
		SET used_count = used_count + 1, updated_at = now()
		WHERE id = $1 AND (max_uses = 0 OR used_count < max_uses)`,
		id,
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to increment coupon usage", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *CouponRepository) DecrementUsage(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		UPDATE coupons
		SET used_count = used_count - 1, updated_at = now()
		WHERE id = $1 AND used_count > 0`,
		id,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to decrement coupon usage", err)
	}
	return nil
}

func (r *CouponRepository) Deactivate(ctx context.Context, tenantID uuid.UUID, code coupon.Code) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE coupons
		SET is_active = false, updated_at = now()
		WHERE tenant_id = $1 AND lower(code) = lower($2)`,
		tenantID, code.String(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to deactivate coupon", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	return nil
}

func scanCoupon(row pgx.Row) (*coupon.Coupon, error) {
	var (
		id, tenantID         uuid.UUID
		code, title, desc    string
		kind                 string
		value, minOrderTotal decimal.Decimal
		startsAt, endsAt     pgtype.Timestamptz
		maxUses, usedCount   int
		active               bool
		planID               pgtype.UUID
		billingCycle         pgtype.Text
		durationMonths       int
		createdAt, updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(
		&id, &tenantID, &code, &title, &desc, &kind, &value,
		&startsAt, &endsAt, &maxUses, &usedCount, &minOrderTotal, &active,
		&planID, &billingCycle, &durationMonths, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	return coupon.ReconstructCoupon(id, coupon.Params{
		TenantID:       tenantID,
		Code:           code,
		Title:          title,
		Description:    desc,
		Kind:           coupon.DiscountKind(kind),
		Value:          value,
		StartsAt:       pgconv.TimePtr(startsAt),
		EndsAt:         pgconv.TimePtr(endsAt),
		MaxUses:        maxUses,
		MinOrderTotal:  minOrderTotal,
		PlanID:         pgconv.UUIDPtr(planID),
		BillingCycle:   pgconv.TextPtr(billingCycle),
		DurationMonths: durationMonths,
	}, usedCount, active, createdAt.Time, updatedAt.Time)
}
