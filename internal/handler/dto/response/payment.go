package response

import (
	"time"

	"retail-core/internal/domain/payment"
	"retail-core/internal/usecase/queries"

	"github.com/google/uuid"
)

type PaymentAttemptResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Status             string     `json:"status"`
	TargetKind         string     `json:"targetKind"`
	Method             string     `json:"method"`
	BaseAmount         string     `json:"baseAmount"`
	DiscountAmount     string     `json:"discountAmount"`
	FinalAmount        string     `json:"finalAmount"`
	AttemptNumber      int        `json:"attemptNumber"`
	CouponCode         *string    `json:"couponCode,omitempty"`
	UnlockedResourceID *uuid.UUID `json:"unlockedResourceId,omitempty"`
	RetriedByID        *uuid.UUID `json:"retriedById,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

type FailedAttemptResponse struct {
	AttemptNumber int       `json:"attemptNumber"`
	FailedAt      time.Time `json:"failedAt"`
	Code          string    `json:"code"`
	Message       string    `json:"message"`
}

type PaymentReportResponse struct {
	ID                   uuid.UUID               `json:"id"`
	TargetKind           string                  `json:"targetKind"`
	PlanID               *uuid.UUID              `json:"planId,omitempty"`
	BillingCycle         *string                 `json:"billingCycle,omitempty"`
	OrderID              *uuid.UUID              `json:"orderId,omitempty"`
	Method               string                  `json:"method"`
	Status               string                  `json:"status"`
	BaseAmount           string                  `json:"baseAmount"`
	DiscountAmount       string                  `json:"discountAmount"`
	FinalAmount          string                  `json:"finalAmount"`
	AttemptNumber        int                     `json:"attemptNumber"`
	PreviousAttempts     []FailedAttemptResponse `json:"previousAttempts"`
	FailureCode          string                  `json:"failureCode,omitempty"`
	FailureMessage       string                  `json:"failureMessage,omitempty"`
	CouponCode           *string                 `json:"couponCode,omitempty"`
	UnlockedResourceID   *uuid.UUID              `json:"unlockedResourceId,omitempty"`
	RetriedByID          *uuid.UUID              `json:"retriedById,omitempty"`
	CancelReason         string                  `json:"cancelReason,omitempty"`
	ProcessingStartedAt  *time.Time              `json:"processingStartedAt,omitempty"`
	ConfirmedAt          *time.Time              `json:"confirmedAt,omitempty"`
	FailedAt             *time.Time              `json:"failedAt,omitempty"`
	CancelledAt          *time.Time              `json:"cancelledAt,omitempty"`
	ProcessingDurationMs *int64                  `json:"processingDurationMs,omitempty"`
	CreatedAt            time.Time               `json:"createdAt"`
	UpdatedAt            time.Time               `json:"updatedAt"`
}

type PaymentListItemResponse struct {
	ID            uuid.UUID `json:"id"`
	TargetKind    string    `json:"targetKind"`
	Status        string    `json:"status"`
	Method        string    `json:"method"`
	FinalAmount   string    `json:"finalAmount"`
	AttemptNumber int       `json:"attemptNumber"`
	CreatedAt     time.Time `json:"createdAt"`
}

type PaymentListResponse struct {
	Items      []PaymentListItemResponse `json:"items"`
	NextCursor string                    `json:"nextCursor,omitempty"`
}

func FromAttempt(a *payment.Attempt) *PaymentAttemptResponse {
	s := a.Snapshot()
	return &PaymentAttemptResponse{
		ID:                 s.ID,
		Status:             string(s.Status),
		TargetKind:         string(s.Target.Kind),
		Method:             string(s.Method),
		BaseAmount:         money(s.Amounts.Base),
		DiscountAmount:     money(s.Amounts.Discount),
		FinalAmount:        money(s.Amounts.Final),
		AttemptNumber:      s.AttemptNumber,
		CouponCode:         s.CouponCode,
		UnlockedResourceID: s.UnlockedResourceID,
		RetriedByID:        s.RetriedByID,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

func FromPaymentReport(v *queries.PaymentReport) (*PaymentReportResponse, error) {
	return fromView[PaymentReportResponse](v)
}

func FromPaymentList(items []*queries.PaymentListItem, next *queries.Cursor) (*PaymentListResponse, error) {
	resp := &PaymentListResponse{Items: []PaymentListItemResponse{}}
	for _, it := range items {
		out, err := fromView[PaymentListItemResponse](it)
		if err != nil {
			return nil, err
		}
		resp.Items = append(resp.Items, *out)
	}
	if next != nil {
		resp.NextCursor = next.After
	}
	return resp, nil
}
