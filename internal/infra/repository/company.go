package repository

import (
	"context"

	"retail-core/internal/domain/company"
	"retail-core/internal/domain/user"
	"retail-core/internal/infra"
	"retail-core/internal/infra/db"
	"retail-core/internal/infra/pgconv"

	"github.com/google/uuid"
)

type CompanyRepository struct {
	db db.DBTX
}

func NewCompanyRepository(db db.DBTX) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// CreateFromVerification inserts the company unless one was already promoted
// from the same verification. It returns the stored id and whether this call created it.
func (r *CompanyRepository) CreateFromVerification(ctx context.Context, c *company.Company) (uuid.UUID, bool, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx, `
		INSERT INTO companies (id, parent_tenant_id, name, source_verification_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (source_verification_id) DO NOTHING
		RETURNING id`,
		c.ID(), c.ParentTenantID(), c.Name(), c.SourceVerificationID(), c.CreatedAt(),
	).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if !pgconv.IsNoRows(err) {
		return uuid.Nil, false, infra.WrapRepoErr("failed to create company", err)
	}

	err = r.db.QueryRow(ctx, `
		SELECT id FROM companies WHERE source_verification_id = $1`,
		c.SourceVerificationID(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, false, infra.WrapRepoErr("failed to load promoted company", err)
	}
	return id, false, nil
}

func (r *CompanyRepository) CreateUser(ctx context.Context, u *user.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, company_id, email, name, phone, password_hash, role, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (company_id, email) DO NOTHING`,
		u.ID(), u.CompanyID(), u.Email().Value(), u.Name(), u.Phone(), u.PasswordHash(),
		u.Role().String(), u.IsActive(), u.CreatedAt(),
	)
	if err != nil {
		if pgconv.IsForeignKeyViolation(err) {
			return infra.WrapRepoErr("user references unknown company", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to create user", err)
	}
	return nil
}
