package payment

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Snapshot is the persisted form of an Attempt.
type Snapshot struct {
	ID                  uuid.UUID
	TenantID            uuid.UUID
	Target              Target
	Amounts             Amounts
	Method              Method
	Status              Status
	AttemptNumber       int
	PreviousAttempts    []FailureRecord
	GatewayPayload      json.RawMessage
	FailureCode         string
	FailureMessage      string
	ReservationID       *uuid.UUID
	CouponCode          *string
	Redeemer            string
	UnlockedResourceID  *uuid.UUID
	RetriedByID         *uuid.UUID
	CancelReason        string
	ProcessingStartedAt *time.Time
	ConfirmedAt         *time.Time
	FailedAt            *time.Time
	CancelledAt         *time.Time
	ProcessingDuration  *time.Duration
	Version             int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func Reconstruct(s Snapshot) *Attempt {
	return &Attempt{
		id:                  s.ID,
		tenantID:            s.TenantID,
		target:              s.Target,
		amounts:             s.Amounts,
		method:              s.Method,
		status:              s.Status,
		attemptNumber:       s.AttemptNumber,
		previousAttempts:    s.PreviousAttempts,
		gatewayPayload:      s.GatewayPayload,
		failureCode:         s.FailureCode,
		failureMessage:      s.FailureMessage,
		reservationID:       s.ReservationID,
		couponCode:          s.CouponCode,
		redeemer:            s.Redeemer,
		unlockedResourceID:  s.UnlockedResourceID,
		retriedByID:         s.RetriedByID,
		cancelReason:        s.CancelReason,
		processingStartedAt: s.ProcessingStartedAt,
		confirmedAt:         s.ConfirmedAt,
		failedAt:            s.FailedAt,
		cancelledAt:         s.CancelledAt,
		processingDuration:  s.ProcessingDuration,
		version:             s.Version,
		createdAt:           s.CreatedAt,
		updatedAt:           s.UpdatedAt,
	}
}

func (a *Attempt) Snapshot() Snapshot {
	return Snapshot{
		ID:                  a.id,
		TenantID:            a.tenantID,
		Target:              a.target,
		Amounts:             a.amounts,
		Method:              a.method,
		Status:              a.status,
		AttemptNumber:       a.attemptNumber,
		PreviousAttempts:    a.previousAttempts,
		GatewayPayload:      a.gatewayPayload,
		FailureCode:         a.failureCode,
		FailureMessage:      a.failureMessage,
		ReservationID:       a.reservationID,
		CouponCode:          a.couponCode,
		Redeemer:            a.redeemer,
		UnlockedResourceID:  a.unlockedResourceID,
		RetriedByID:         a.retriedByID,
		CancelReason:        a.cancelReason,
		ProcessingStartedAt: a.processingStartedAt,
		ConfirmedAt:         a.confirmedAt,
		FailedAt:            a.failedAt,
		CancelledAt:         a.cancelledAt,
		ProcessingDuration:  a.processingDuration,
		Version:             a.version,
		CreatedAt:           a.createdAt,
		UpdatedAt:           a.updatedAt,
	}
}
