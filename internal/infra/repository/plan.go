package repository

import (
	"context"

	"retail-core/internal/domain/payment"
	"retail-core/internal/infra"
	"retail-core/internal/infra/db"
	"retail-core/internal/infra/pgconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PlanRepository struct {
	db db.DBTX
}

func NewPlanRepository(db db.DBTX) *PlanRepository {
	return &PlanRepository{db: db}
}

// PlanPrice returns the list price of an active plan for the billing cycle.
func (r *PlanRepository) PlanPrice(ctx context.Context, planID uuid.UUID, cycle payment.BillingCycle) (decimal.Decimal, error) {
	var price decimal.Decimal
	err := r.db.QueryRow(ctx, `
		SELECT CASE WHEN $2 = 'yearly' THEN yearly_price ELSE monthly_price END
		FROM subscription_plans
		WHERE id = $1 AND is_active`,
		planID, string(cycle),
	).Scan(&price)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return decimal.Zero, infra.WrapRepoErr("plan not found", err, infra.KindNotFound)
		}
		return decimal.Zero, infra.WrapRepoErr("failed to load plan price", err)
	}
	return price, nil
}
