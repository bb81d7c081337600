package repository

import (
	"context"
	"encoding/json"

	"retail-core/internal/domain/verification"
	"retail-core/internal/infra"
	"retail-core/internal/infra/db"
	"retail-core/internal/infra/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type VerificationRepository struct {
	db db.DBTX
}

func NewVerificationRepository(db db.DBTX) *VerificationRepository {
	return &VerificationRepository{db: db}
}

func (r *VerificationRepository) Create(ctx context.Context, v *verification.Verification) error {
	payload, err := json.Marshal(v.Payload())
	if err != nil {
		return infra.WrapRepoErr("failed to encode signup payload", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO verifications (
			id, tenant_id, email, phone, email_code_hash, sms_code_hash,
			email_verified, sms_verified, attempts, max_attempts, expires_at,
			payload, status, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		v.ID(), v.TenantID(), v.Email(), v.Phone(), v.EmailCodeHash(), v.SMSCodeHash(),
		v.EmailVerified(), v.SMSVerified(), v.Attempts(), v.MaxAttempts(), v.ExpiresAt(),
		payload, string(v.Status()), v.Version(), v.CreatedAt(), v.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create verification", err)
	}
	return nil
}

func (r *VerificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*verification.Verification, error) {
	var (
		s         verification.Snapshot
		status    string
		payload   []byte
		companyID pgtype.UUID
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, tenant_id, email, phone, email_code_hash, sms_code_hash,
			email_verified, sms_verified, attempts, max_attempts, expires_at,
			payload, status, promoted_company_id, version, created_at, updated_at
		FROM verifications
		WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.TenantID, &s.Email, &s.Phone, &s.EmailCodeHash, &s.SMSCodeHash,
		&s.EmailVerified, &s.SMSVerified, &s.Attempts, &s.MaxAttempts, &s.ExpiresAt,
		&payload, &status, &companyID, &s.Version, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("verification not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find verification", err)
	}
	if err := json.Unmarshal(payload, &s.Payload); err != nil {
		return nil, infra.WrapRepoErr("failed to decode signup payload", err)
	}
	s.Status = verification.Status(status)
	s.PromotedCompanyID = pgconv.UUIDPtr(companyID)
	return verification.Reconstruct(s), nil
}

// Update is a compare-and-swap on version; a lost race surfaces as KindConflict.
func (r *VerificationRepository) Update(ctx context.Context, v *verification.Verification) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE verifications SET
			email_code_hash = $3,
			sms_code_hash = $4,
			email_verified = $5,
			sms_verified = $6,
			attempts = $7,
			status = $8,
			promoted_company_id = $9,
			updated_at = $10,
			version = version + 1
		WHERE id = $1 AND version = $2`,
		v.ID(), v.Version(), v.EmailCodeHash(), v.SMSCodeHash(),
		v.EmailVerified(), v.SMSVerified(), v.Attempts(), string(v.Status()),
		pgconv.UUIDFromPtr(v.PromotedCompanyID()), v.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update verification", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("verification changed concurrently", nil, infra.KindConflict)
	}
	return nil
}
