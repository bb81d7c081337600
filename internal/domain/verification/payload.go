package verification

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidPayload = errors.New("company name and owner name are required")

// SignupPayload is buffered until both channels are verified and then becomes the company and its owner.
type SignupPayload struct {
	CompanyName       string `json:"companyName"`
	OwnerName         string `json:"ownerName"`
	PasswordHash      string `json:"passwordHash"`
	PlanID            string `json:"planId,omitempty"`
	BillingCycle      string `json:"billingCycle,omitempty"`
	MarketingOptIn    bool   `json:"marketingOptIn,omitempty"`
	PreferredLanguage string `json:"preferredLanguage,omitempty"`
}

func (p SignupPayload) Validate() error {
	if strings.TrimSpace(p.CompanyName) == "" || strings.TrimSpace(p.OwnerName) == "" {
		return ErrInvalidPayload
	}
	return nil
}

type Snapshot struct {
	ID                uuid.UUID
	TenantID          uuid.UUID
	Email             string
	Phone             string
	EmailCodeHash     string
	SMSCodeHash       string
	EmailVerified     bool
	SMSVerified       bool
	Attempts          int
	MaxAttempts       int
	ExpiresAt         time.Time
	Payload           SignupPayload
	Status            Status
	PromotedCompanyID *uuid.UUID
	Version           int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func Reconstruct(s Snapshot) *Verification {
	return &Verification{
		id:                s.ID,
		tenantID:          s.TenantID,
		email:             s.Email,
		phone:             s.Phone,
		emailCodeHash:     s.EmailCodeHash,
		smsCodeHash:       s.SMSCodeHash,
		emailVerified:     s.EmailVerified,
		smsVerified:       s.SMSVerified,
		attempts:          s.Attempts,
		maxAttempts:       s.MaxAttempts,
		expiresAt:         s.ExpiresAt,
		payload:           s.Payload,
		status:            s.Status,
		promotedCompanyID: s.PromotedCompanyID,
		version:           s.Version,
		createdAt:         s.CreatedAt,
		updatedAt:         s.UpdatedAt,
	}
}

func (v *Verification) Snapshot() Snapshot {
	return Snapshot{
		ID:                v.id,
		TenantID:          v.tenantID,
		Email:             v.email,
		Phone:             v.phone,
		EmailCodeHash:     v.emailCodeHash,
		SMSCodeHash:       v.smsCodeHash,
		EmailVerified:     v.emailVerified,
		SMSVerified:       v.smsVerified,
		Attempts:          v.attempts,
		MaxAttempts:       v.maxAttempts,
		ExpiresAt:         v.expiresAt,
		Payload:           v.payload,
		Status:            v.status,
		PromotedCompanyID: v.promotedCompanyID,
		Version:           v.version,
		CreatedAt:         v.createdAt,
		UpdatedAt:         v.updatedAt,
	}
}
