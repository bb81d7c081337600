package response

import (
	"time"

	"retail-core/internal/domain/verification"
	"retail-core/internal/usecase/commands"
	"retail-core/internal/usecase/queries"

	"github.com/google/uuid"
)

type VerificationStartedResponse struct {
	ID          uuid.UUID `json:"id"`
	Status      string    `json:"status"`
	ExpiresAt   time.Time `json:"expiresAt"`
	MaxAttempts int       `json:"maxAttempts"`
}

type CheckCodeResponse struct {
	Status            string `json:"status"`
	EmailVerified     bool   `json:"emailVerified"`
	SMSVerified       bool   `json:"smsVerified"`
	RemainingAttempts int    `json:"remainingAttempts"`
}

type PromoteResponse struct {
	CompanyID uuid.UUID `json:"companyId"`
}

type VerificationStatusResponse struct {
	ID                uuid.UUID  `json:"id"`
	Status            string     `json:"status"`
	EmailVerified     bool       `json:"emailVerified"`
	SMSVerified       bool       `json:"smsVerified"`
	RemainingAttempts int        `json:"remainingAttempts"`
	ExpiresAt         time.Time  `json:"expiresAt"`
	PromotedCompanyID *uuid.UUID `json:"promotedCompanyId,omitempty"`
}

func FromVerification(v *verification.Verification) *VerificationStartedResponse {
	return &VerificationStartedResponse{
		ID:          v.ID(),
		Status:      string(v.Status()),
		ExpiresAt:   v.ExpiresAt(),
		MaxAttempts: v.MaxAttempts(),
	}
}

func FromCheckResult(r *commands.CheckResult) *CheckCodeResponse {
	return &CheckCodeResponse{
		Status:            string(r.Status),
		EmailVerified:     r.EmailVerified,
		SMSVerified:       r.SMSVerified,
		RemainingAttempts: r.RemainingAttempts,
	}
}

func FromVerificationStatus(v *queries.VerificationStatusView) (*VerificationStatusResponse, error) {
	return fromView[VerificationStatusResponse](v)
}
