package queries

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Read models (DTO for read side)

// CouponView is the public face of a coupon. Usage counters stay private; only what is left is shown.
type CouponView struct {
	Code           string          `json:"code"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	DiscountKind   string          `json:"discount_kind"`
	DiscountValue  decimal.Decimal `json:"discount_value"`
	MinOrderTotal  decimal.Decimal `json:"min_order_total"`
	StartsAt       *time.Time      `json:"starts_at,omitempty"`
	EndsAt         *time.Time      `json:"ends_at,omitempty"`
	RemainingUses  *int            `json:"remaining_uses,omitempty"`
	PlanID         *uuid.UUID      `json:"plan_id,omitempty"`
	BillingCycle   *string         `json:"billing_cycle,omitempty"`
	DurationMonths int             `json:"duration_months"`
	Active         bool            `json:"active"`
}

type OrderItemView struct {
	ProductID string          `json:"product_id"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

type OrderView struct {
	ID              uuid.UUID       `json:"id"`
	TenantID        uuid.UUID       `json:"tenant_id"`
	Status          string          `json:"status"`
	Items           []OrderItemView `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Discount        decimal.Decimal `json:"discount"`
	DeliveryFee     decimal.Decimal `json:"delivery_fee"`
	Total           decimal.Decimal `json:"total"`
	CouponApplied   bool            `json:"coupon_applied"`
	CouponCode      *string         `json:"coupon_code,omitempty"`
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"customer_email"`
	CustomerPhone   string          `json:"customer_phone"`
	DeliveryAddress string          `json:"delivery_address"`
	PaymentMethod   string          `json:"payment_method"`
	CreatedAt       time.Time       `json:"created_at"`
}

type FailedAttemptView struct {
	AttemptNumber int       `json:"attempt_number"`
	FailedAt      time.Time `json:"failed_at"`
	Code          string    `json:"code"`
	Message       string    `json:"message"`
}

// PaymentReport never carries the gateway payload.
type PaymentReport struct {
	ID                   uuid.UUID           `json:"id"`
	TenantID             uuid.UUID           `json:"tenant_id"`
	TargetKind           string              `json:"target_kind"`
	PlanID               *uuid.UUID          `json:"plan_id,omitempty"`
	BillingCycle         *string             `json:"billing_cycle,omitempty"`
	OrderID              *uuid.UUID          `json:"order_id,omitempty"`
	Method               string              `json:"method"`
	Status               string              `json:"status"`
	BaseAmount           decimal.Decimal     `json:"base_amount"`
	DiscountAmount       decimal.Decimal     `json:"discount_amount"`
	FinalAmount          decimal.Decimal     `json:"final_amount"`
	AttemptNumber        int                 `json:"attempt_number"`
	PreviousAttempts     []FailedAttemptView `json:"previous_attempts"`
	FailureCode          string              `json:"failure_code,omitempty"`
	FailureMessage       string              `json:"failure_message,omitempty"`
	CouponCode           *string             `json:"coupon_code,omitempty"`
	UnlockedResourceID   *uuid.UUID          `json:"unlocked_resource_id,omitempty"`
	RetriedByID          *uuid.UUID          `json:"retried_by_id,omitempty"`
	CancelReason         string              `json:"cancel_reason,omitempty"`
	ProcessingStartedAt  *time.Time          `json:"processing_started_at,omitempty"`
	ConfirmedAt          *time.Time          `json:"confirmed_at,omitempty"`
	FailedAt             *time.Time          `json:"failed_at,omitempty"`
	CancelledAt          *time.Time          `json:"cancelled_at,omitempty"`
	ProcessingDurationMs *int64              `json:"processing_duration_ms,omitempty"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

type PaymentListItem struct {
	ID            uuid.UUID       `json:"id"`
	TargetKind    string          `json:"target_kind"`
	Status        string          `json:"status"`
	Method        string          `json:"method"`
	FinalAmount   decimal.Decimal `json:"final_amount"`
	AttemptNumber int             `json:"attempt_number"`
	CreatedAt     time.Time       `json:"created_at"`
}

type PaymentFilters struct {
	Status *string
}

// VerificationStatusView exposes progress only. Contacts and codes stay in the store.
type VerificationStatusView struct {
	ID                uuid.UUID  `json:"id"`
	Status            string     `json:"status"`
	EmailVerified     bool       `json:"email_verified"`
	SMSVerified       bool       `json:"sms_verified"`
	RemainingAttempts int        `json:"remaining_attempts"`
	ExpiresAt         time.Time  `json:"expires_at"`
	PromotedCompanyID *uuid.UUID `json:"promoted_company_id,omitempty"`
}
