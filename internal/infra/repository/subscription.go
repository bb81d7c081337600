package repository

import (
	"context"

	"retail-core/internal/domain/company"
	"retail-core/internal/infra"
	"retail-core/internal/infra/db"
	"retail-core/internal/infra/pgconv"
)

type SubscriptionRepository struct {
	db db.DBTX
}

func NewSubscriptionRepository(db db.DBTX) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, s *company.Subscription) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO subscriptions (id, tenant_id, plan_id, billing_cycle, payment_attempt_id, status, started_at, renews_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID(), s.TenantID(), s.PlanID(), s.BillingCycle(), s.PaymentAttemptID(),
		string(s.Status()), s.StartedAt(), s.RenewsAt(),
	)
	if err != nil {
		if pgconv.IsUniqueViolation(err) {
			return infra.WrapRepoErr("subscription already unlocked by this payment", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create subscription", err)
	}
	return nil
}
