package request

import (
	"strings"

	"retail-core/internal/usecase/commands"

	"github.com/google/uuid"
)

type StartVerificationRequest struct {
	TenantID          uuid.UUID `json:"tenantId" binding:"required"`
	Email             string    `json:"email" binding:"required,email"`
	Phone             string    `json:"phone" binding:"required"`
	CompanyName       string    `json:"companyName" binding:"required,max=200"`
	OwnerName         string    `json:"ownerName" binding:"required,max=200"`
	Password          string    `json:"password" binding:"required,min=8"`
	PlanID            string    `json:"planId,omitempty"`
	BillingCycle      string    `json:"billingCycle,omitempty" binding:"omitempty,oneof=monthly yearly"`
	MarketingOptIn    bool      `json:"marketingOptIn"`
	PreferredLanguage string    `json:"preferredLanguage,omitempty" binding:"max=16"`
}

func (r StartVerificationRequest) ToCommand() commands.StartVerificationRequest {
	return commands.StartVerificationRequest{
		TenantID:          r.TenantID,
		Email:             strings.TrimSpace(r.Email),
		Phone:             strings.TrimSpace(r.Phone),
		CompanyName:       strings.TrimSpace(r.CompanyName),
		OwnerName:         strings.TrimSpace(r.OwnerName),
		Password:          r.Password,
		PlanID:            strings.TrimSpace(r.PlanID),
		BillingCycle:      r.BillingCycle,
		MarketingOptIn:    r.MarketingOptIn,
		PreferredLanguage: strings.TrimSpace(r.PreferredLanguage),
	}
}

type CheckCodeRequest struct {
	Channel string `json:"channel" binding:"required,oneof=email sms"`
	Code    string `json:"code" binding:"required"`
}

type ResendCodeRequest struct {
	Channel string `json:"channel" binding:"required,oneof=email sms"`
}
