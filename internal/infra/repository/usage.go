package repository

import (
	"context"
	"time"

	"retail-core/internal/domain/coupon"
	"retail-core/internal/infra"
	"retail-core/internal/infra/db"
	"retail-core/internal/infra/pgconv"

	"github.com/google/uuid"
)

type UsageRepository struct {
	db db.DBTX
}

func NewUsageRepository(db db.DBTX) *UsageRepository {
	return &UsageRepository{db: db}
}

// Create fails with KindDuplicateKey when the reservation already has a usage row.
func (r *UsageRepository) Create(ctx context.Context, u *coupon.Usage) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO coupon_usages (
			id, coupon_id, reservation_id, tenant_id, redeemer,
			original_price, discount_amount, final_price,
			plan_id, billing_cycle, status, applied_at, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		u.ID(), u.CouponID(), u.ReservationID(), u.TenantID(), u.Redeemer(),
		u.OriginalPrice(), u.Discount(), u.FinalPrice(),
		pgconv.UUIDFromPtr(u.PlanID()), pgconv.TextFromPtr(u.BillingCycle()),
		string(u.Status()), u.AppliedAt(), pgconv.TimestamptzFromPtr(u.ExpiresAt()),
	)
	if err != nil {
		if pgconv.IsUniqueViolation(err) {
			return infra.WrapRepoErr("usage already recorded for reservation", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create coupon usage", err)
	}
	return nil
}

func (r *UsageRepository) CancelByReservation(ctx context.Context, reservationID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE coupon_usages SET status = 'cancelled'
		WHERE reservation_id = $1 AND status <> 'cancelled'`,
		reservationID,
	)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to cancel coupon usage", err)
	}
	return tag.RowsAffected(), nil
}

func (r *UsageRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE coupon_usages SET status = 'expired'
		WHERE status = 'active' AND expires_at IS NOT NULL AND expires_at < $1`,
		now,
	)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to expire coupon usages", err)
	}
	return tag.RowsAffected(), nil
}
