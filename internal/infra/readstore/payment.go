package readstore

import (
	"context"
	"encoding/json"
	"time"

	"retail-core/internal/domain/payment"
	"retail-core/internal/infra"
	"retail-core/internal/infra/db"
	"retail-core/internal/infra/pgconv"
	"retail-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const paymentListColumns = `id, target_kind, status, method, final_amount, attempt_number, created_at`

type PaymentReadStore struct {
	db db.DBTX
}

func NewPaymentReadStore(db db.DBTX) *PaymentReadStore {
	return &PaymentReadStore{db: db}
}

func (r *PaymentReadStore) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*queries.PaymentReport, error) {
	var (
		v                                          queries.PaymentReport
		planID, orderID, unlockedID, retriedByID   pgtype.UUID
		billingCycle, couponCode                   pgtype.Text
		history                                    []byte
		startedAt, confirmedAt, failedAt, cancelAt pgtype.Timestamptz
		durationMs                                 pgtype.Int8
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, tenant_id, target_kind, plan_id, billing_cycle, order_id, method, status,
			base_amount, discount_amount, final_amount, attempt_number, previous_attempts,
			failure_code, failure_message, coupon_code, unlocked_resource_id, retried_by_id, cancel_reason,
			processing_started_at, confirmed_at, failed_at, cancelled_at, processing_duration_ms,
			created_at, updated_at
		FROM payment_attempts
		WHERE id = $1 AND tenant_id = $2`,
		id, tenantID,
	).Scan(
		&v.ID, &v.TenantID, &v.TargetKind, &planID, &billingCycle, &orderID, &v.Method, &v.Status,
		&v.BaseAmount, &v.DiscountAmount, &v.FinalAmount, &v.AttemptNumber, &history,
		&v.FailureCode, &v.FailureMessage, &couponCode, &unlockedID, &retriedByID, &v.CancelReason,
		&startedAt, &confirmedAt, &failedAt, &cancelAt, &durationMs,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment attempt not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment attempt", err)
	}

	previous, err := decodeHistory(history)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode attempt history", err)
	}
	v.PreviousAttempts = previous
	v.PlanID = pgconv.UUIDPtr(planID)
	v.OrderID = pgconv.UUIDPtr(orderID)
	v.BillingCycle = pgconv.TextPtr(billingCycle)
	v.CouponCode = pgconv.TextPtr(couponCode)
	v.UnlockedResourceID = pgconv.UUIDPtr(unlockedID)
	v.RetriedByID = pgconv.UUIDPtr(retriedByID)
	v.ProcessingStartedAt = pgconv.TimePtr(startedAt)
	v.ConfirmedAt = pgconv.TimePtr(confirmedAt)
	v.FailedAt = pgconv.TimePtr(failedAt)
	v.CancelledAt = pgconv.TimePtr(cancelAt)
	if durationMs.Valid {
		ms := durationMs.Int64
		v.ProcessingDurationMs = &ms
	}
	return &v, nil
}

func (r *PaymentReadStore) ListFirstPage(ctx context.Context, tenantID uuid.UUID, status *string, limit int32) ([]*queries.PaymentListItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+paymentListColumns+`
		FROM payment_attempts
		WHERE tenant_id = $1 AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3`,
		tenantID, pgconv.TextFromPtr(status), limit,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list payment attempts", err)
	}
	return collectPaymentItems(rows)
}

func (r *PaymentReadStore) ListKeyset(ctx context.Context, tenantID uuid.UUID, status *string, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.PaymentListItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+paymentListColumns+`
		FROM payment_attempts
		WHERE tenant_id = $1 AND ($2::text IS NULL OR status = $2)
			AND (created_at, id) < ($3, $4)
		ORDER BY created_at DESC, id DESC
		LIMIT $5`,
		tenantID, pgconv.TextFromPtr(status), lastCreatedAt, lastID, limit,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list payment attempts", err)
	}
	return collectPaymentItems(rows)
}

func collectPaymentItems(rows pgx.Rows) ([]*queries.PaymentListItem, error) {
	defer rows.Close()

	items := []*queries.PaymentListItem{}
	for rows.Next() {
		var it queries.PaymentListItem
		if err := rows.Scan(&it.ID, &it.TargetKind, &it.Status, &it.Method, &it.FinalAmount, &it.AttemptNumber, &it.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan payment attempt", err)
		}
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate payment attempts", err)
	}
	return items, nil
}

func decodeHistory(raw []byte) ([]queries.FailedAttemptView, error) {
	var records []payment.FailureRecord
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, err
		}
	}
	views := make([]queries.FailedAttemptView, 0, len(records))
	for _, rec := range records {
		views = append(views, queries.FailedAttemptView{
			AttemptNumber: rec.AttemptNumber,
			FailedAt:      rec.FailedAt,
			Code:          rec.Code,
			Message:       rec.Message,
		})
	}
	return views, nil
}
