package repository

import (
	"context"
	"encoding/json"
	"time"

	"retail-core/internal/domain/payment"
	"retail-core/internal/infra"
	"retail-core/internal/infra/db"
	"retail-core/internal/infra/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	openBillingKeyIndex = "payment_attempts_open_billing_key"
	retriedByIndex      = "payment_attempts_retried_by_key"
)

const paymentColumns = `id, tenant_id, target_kind, plan_id, billing_cycle, order_id,
	base_amount, discount_amount, final_amount, method, status, attempt_number,
	previous_attempts, gateway_payload, failure_code, failure_message,
	reservation_id, coupon_code, redeemer, unlocked_resource_id, retried_by_id, cancel_reason,
	processing_started_at, confirmed_at, failed_at, cancelled_at, processing_duration_ms,
	version, created_at, updated_at`

type PaymentRepository struct {
	db db.DBTX
}

func NewPaymentRepository(db db.DBTX) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, a *payment.Attempt) error {
	s := a.Snapshot()
	history, err := marshalHistory(s.PreviousAttempts)
	if err != nil {
		return infra.WrapRepoErr("failed to encode attempt history", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO payment_attempts (
			id, tenant_id, target_kind, plan_id, billing_cycle, order_id, billing_key,
			base_amount, discount_amount, final_amount, method, status, attempt_number,
			previous_attempts, reservation_id, coupon_code, redeemer, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		s.ID, s.TenantID, string(s.Target.Kind), pgconv.UUIDFromPtr(s.Target.PlanID),
		cycleText(s.Target.BillingCycle), pgconv.UUIDFromPtr(s.Target.OrderID), a.BillingKey(),
		s.Amounts.Base, s.Amounts.Discount, s.Amounts.Final, string(s.Method), string(s.Status), s.AttemptNumber,
		history, pgconv.UUIDFromPtr(s.ReservationID), pgconv.TextFromPtr(s.CouponCode), s.Redeemer,
		s.Version, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		switch {
		case pgconv.IsUniqueViolationOn(err, openBillingKeyIndex):
			return infra.WrapRepoErr("an open payment attempt already exists for this billing cycle", err, infra.KindConflict)
		case pgconv.IsUniqueViolation(err):
			return infra.WrapRepoErr("payment attempt already exists", err, infra.KindDuplicateKey)
		case pgconv.IsForeignKeyViolation(err):
			return infra.WrapRepoErr("payment attempt references unknown order or reservation", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to create payment attempt", err)
	}
	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*payment.Attempt, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+paymentColumns+`
		FROM payment_attempts
		WHERE id = $1 AND tenant_id = $2`,
		id, tenantID,
	)
	a, err := scanAttempt(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment attempt not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment attempt", err)
	}
	return a, nil
}

// Update writes every mutable column if the row still has the version the attempt was loaded with.
func (r *PaymentRepository) Update(ctx context.Context, a *payment.Attempt) error {
	s := a.Snapshot()
	tag, err := r.db.Exec(ctx, `
		UPDATE payment_attempts SET
			status = $3,
			gateway_payload = $4,
			failure_code = $5,
			failure_message = $6,
			unlocked_resource_id = $7,
			retried_by_id = $8,
			cancel_reason = $9,
			processing_started_at = $10,
			confirmed_at = $11,
			failed_at = $12,
			cancelled_at = $13,
			processing_duration_ms = $14,
			updated_at = $15,
			version = version + 1
		WHERE id = $1 AND version = $2`,
		s.ID, s.Version, string(s.Status), nullJSON(s.GatewayPayload), s.FailureCode, s.FailureMessage,
		pgconv.UUIDFromPtr(s.UnlockedResourceID), pgconv.UUIDFromPtr(s.RetriedByID), s.CancelReason,
		pgconv.TimestamptzFromPtr(s.ProcessingStartedAt), pgconv.TimestamptzFromPtr(s.ConfirmedAt),
		pgconv.TimestamptzFromPtr(s.FailedAt), pgconv.TimestamptzFromPtr(s.CancelledAt),
		durationMillis(s.ProcessingDuration), s.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsUniqueViolationOn(err, retriedByIndex) {
			return infra.WrapRepoErr("payment attempt already retried", err, infra.KindConflict)
		}
		return infra.WrapRepoErr("failed to update payment attempt", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("payment attempt changed concurrently", nil, infra.KindConflict)
	}
	return nil
}

func scanAttempt(row pgx.Row) (*payment.Attempt, error) {
	var (
		s                                          payment.Snapshot
		targetKind, method, status                 string
		planID, orderID, reservationID             pgtype.UUID
		unlockedID, retriedByID                    pgtype.UUID
		billingCycle, couponCode                   pgtype.Text
		history, gatewayPayload                    []byte
		startedAt, confirmedAt, failedAt, cancelAt pgtype.Timestamptz
		durationMs                                 pgtype.Int8
	)
	if err := row.Scan(
		&s.ID, &s.TenantID, &targetKind, &planID, &billingCycle, &orderID,
		&s.Amounts.Base, &s.Amounts.Discount, &s.Amounts.Final, &method, &status, &s.AttemptNumber,
		&history, &gatewayPayload, &s.FailureCode, &s.FailureMessage,
		&reservationID, &couponCode, &s.Redeemer, &unlockedID, &retriedByID, &s.CancelReason,
		&startedAt, &confirmedAt, &failedAt, &cancelAt, &durationMs,
		&s.Version, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(history, &s.PreviousAttempts); err != nil {
		return nil, err
	}

	s.Target = payment.Target{
		Kind:    payment.TargetKind(targetKind),
		PlanID:  pgconv.UUIDPtr(planID),
		OrderID: pgconv.UUIDPtr(orderID),
	}
	if billingCycle.Valid {
		c := payment.BillingCycle(billingCycle.String)
		s.Target.BillingCycle = &c
	}
	s.Method = payment.Method(method)
	s.Status = payment.Status(status)
	if len(gatewayPayload) > 0 {
		s.GatewayPayload = json.RawMessage(gatewayPayload)
	}
	s.ReservationID = pgconv.UUIDPtr(reservationID)
	s.CouponCode = pgconv.TextPtr(couponCode)
	s.UnlockedResourceID = pgconv.UUIDPtr(unlockedID)
	s.RetriedByID = pgconv.UUIDPtr(retriedByID)
	s.ProcessingStartedAt = pgconv.TimePtr(startedAt)
	s.ConfirmedAt = pgconv.TimePtr(confirmedAt)
	s.FailedAt = pgconv.TimePtr(failedAt)
	s.CancelledAt = pgconv.TimePtr(cancelAt)
	if durationMs.Valid {
		d := time.Duration(durationMs.Int64) * time.Millisecond
		s.ProcessingDuration = &d
	}
	return payment.Reconstruct(s), nil
}

func marshalHistory(h []payment.FailureRecord) ([]byte, error) {
	if h == nil {
		h = []payment.FailureRecord{}
	}
	return json.Marshal(h)
}

func cycleText(c *payment.BillingCycle) pgtype.Text {
	if c == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: string(*c), Valid: true}
}

func durationMillis(d *time.Duration) pgtype.Int8 {
	if d == nil {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: d.Milliseconds(), Valid: true}
}

func nullJSON(b json.RawMessage) any {
	if len(b) == 0 {
		return nil
	}
	return []byte(b)
}
