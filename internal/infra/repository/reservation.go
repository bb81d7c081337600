package repository

import (
	"context"
	"time"

	"retail-core/internal/domain/coupon"
	"retail-core/internal/infra"
	"retail-core/internal/infra/db"
	"retail-core/internal/infra/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const reservationColumns = `id, coupon_id, tenant_id, status, holder_kind, holder_id,
	discount_amount, expires_at, created_at, updated_at`

type ReservationRepository struct {
	db db.DBTX
}

func NewReservationRepository(db db.DBTX) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) Create(ctx context.Context, res *coupon.Reservation) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO coupon_reservations (`+reservationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		res.ID(), res.CouponID(), res.TenantID(), string(res.Status()), string(res.Holder()), res.HolderID(),
		res.Discount(), res.ExpiresAt(), res.CreatedAt(), res.UpdatedAt(),
	)
	if err != nil {
		if pgconv.IsUniqueViolation(err) {
			return infra.WrapRepoErr("reservation already exists", err, infra.KindDuplicateKey)
		}
		if pgconv.IsForeignKeyViolation(err) {
			return infra.WrapRepoErr("reservation references unknown coupon", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to create coupon reservation", err)
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*coupon.Reservation, error) {
	row := r.db.QueryRow(ctx, `SELECT `+reservationColumns+` FROM coupon_reservations WHERE id = $1`, id)
	res, err := scanReservation(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon reservation", err)
	}
	return res, nil
}

func (r *ReservationRepository) Transition(ctx context.Context, id uuid.UUID, from, to coupon.ReservationStatus) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE coupon_reservations
		SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2`,
		id, string(from), string(to),
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to transition coupon reservation", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *ReservationRepository) Reassign(ctx context.Context, id uuid.UUID, holderID uuid.UUID, expiresAt time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE coupon_reservations
		SET holder_id = $2, expires_at = $3, updated_at = now()
		WHERE id = $1 AND status = 'reserved'`,
		id, holderID, expiresAt,
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to reassign coupon reservation", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListExpired skips reservations whose holder is a payment attempt that is still open.
func (r *ReservationRepository) ListExpired(ctx context.Context, now time.Time, limit int) ([]*coupon.Reservation, error) {
	rows, err := r.db.Query(ctx, `
		SELECT r.id, r.coupon_id, r.tenant_id, r.status, r.holder_kind, r.holder_id,
			r.discount_amount, r.expires_at, r.created_at, r.updated_at
		FROM coupon_reservations r
		WHERE r.status = 'reserved'
			AND r.expires_at < $1
			AND NOT EXISTS (
				SELECT 1 FROM payment_attempts p
				WHERE p.id = r.holder_id AND p.status IN ('pending', 'processing')
			)
		ORDER BY r.expires_at
		LIMIT $2`,
		now, limit,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list expired reservations", err)
	}
	defer rows.Close()

	var out []*coupon.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan expired reservation", err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate expired reservations", err)
	}
	return out, nil
}

func scanReservation(row pgx.Row) (*coupon.Reservation, error) {
	var (
		id, couponID, tenantID, holderID uuid.UUID
		status, holder                   string
		discount                         decimal.Decimal
		expiresAt, createdAt, updatedAt  time.Time
	)
	if err := row.Scan(&id, &couponID, &tenantID, &status, &holder, &holderID,
		&discount, &expiresAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return coupon.ReconstructReservation(
		id, couponID, tenantID,
		coupon.ReservationStatus(status), coupon.HolderKind(holder), holderID,
		discount, expiresAt, createdAt, updatedAt,
	), nil
}
