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

type VerificationReadStore struct {
	db db.DBTX
}

func NewVerificationReadStore(db db.DBTX) *VerificationReadStore {
	return &VerificationReadStore{db: db}
}

func (r *VerificationReadStore) FindStatus(ctx context.Context, id uuid.UUID) (*queries.VerificationStatusView, error) {
	var (
		v        queries.VerificationStatusView
		promoted pgtype.UUID
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, status, email_verified, sms_verified, max_attempts - attempts, expires_at, promoted_company_id
		FROM verifications
		WHERE id = $1`,
		id,
	).Scan(&v.ID, &v.Status, &v.EmailVerified, &v.SMSVerified, &v.RemainingAttempts, &v.ExpiresAt, &promoted)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("verification not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find verification", err)
	}
	v.PromotedCompanyID = pgconv.UUIDPtr(promoted)
	return &v, nil
}
