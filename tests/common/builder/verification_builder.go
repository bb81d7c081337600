//go:build unit || e2e

package builder

import (
	"time"

	"retail-core/internal/domain/verification"
	reqdto "retail-core/internal/handler/dto/request"

	"github.com/google/uuid"
)

type VerificationBuilder struct {
	TenantID    uuid.UUID
	Email       string
	Phone       string
	CompanyName string
	OwnerName   string
	Password    string
	MaxAttempts int
	TTL         time.Duration
	Now         time.Time
}

func NewVerificationBuilder() *VerificationBuilder {
	return &VerificationBuilder{
		TenantID:    uuid.New(),
		Email:       "owner@example.com",
		Phone:       "+15550100",
		CompanyName: "Corner Bakery",
		OwnerName:   "Ann Owner",
		Password:    "s3cret-pass",
		MaxAttempts: 5,
		TTL:         15 * time.Minute,
		Now:         time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
	}
}

func (b *VerificationBuilder) With(mutate func(*VerificationBuilder)) *VerificationBuilder {
	mutate(b)
	return b
}

func (b *VerificationBuilder) WithTenant(id uuid.UUID) *VerificationBuilder {
	b.TenantID = id
	return b
}

func (b *VerificationBuilder) BuildStartRequestDTO() reqdto.StartVerificationRequest {
	return reqdto.StartVerificationRequest{
		TenantID:    b.TenantID,
		Email:       b.Email,
		Phone:       b.Phone,
		CompanyName: b.CompanyName,
		OwnerName:   b.OwnerName,
		Password:    b.Password,
	}
}

func (b *VerificationBuilder) BuildDomain() (*verification.Verification, error) {
	return verification.New(verification.StartParams{
		TenantID:      b.TenantID,
		Email:         b.Email,
		Phone:         b.Phone,
		EmailCodeHash: "email-hash",
		SMSCodeHash:   "sms-hash",
		Payload: verification.SignupPayload{
			CompanyName:  b.CompanyName,
			OwnerName:    b.OwnerName,
			PasswordHash: "password-hash",
		},
		MaxAttempts: b.MaxAttempts,
		TTL:         b.TTL,
	}, b.Now)
}
