package payment

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidTransition = errors.New("payment status transition not allowed")
	ErrMissingPayload    = errors.New("gateway confirmation payload is required")
	ErrAlreadyRetried    = errors.New("payment attempt has already been retried")
	ErrMissingResource   = errors.New("unlocked resource id is required")
	ErrMissingFailure    = errors.New("failure code is required")
)

// FailureRecord is one entry of the append-only retry history.
type FailureRecord struct {
	AttemptNumber int       `json:"attemptNumber"`
	FailedAt      time.Time `json:"failedAt"`
	Code          string    `json:"code"`
	Message       string    `json:"message"`
}

type Attempt struct {
	id                  uuid.UUID
	tenantID            uuid.UUID
	target              Target
	amounts             Amounts
	method              Method
	status              Status
	attemptNumber       int
	previousAttempts    []FailureRecord
	gatewayPayload      json.RawMessage
	failureCode         string
	failureMessage      string
	reservationID       *uuid.UUID
	couponCode          *string
	redeemer            string
	unlockedResourceID  *uuid.UUID
	retriedByID         *uuid.UUID
	cancelReason        string
	processingStartedAt *time.Time
	confirmedAt         *time.Time
	failedAt            *time.Time
	cancelledAt         *time.Time
	processingDuration  *time.Duration
	version             int
	createdAt           time.Time
	updatedAt           time.Time
}

type OpenParams struct {
	TenantID      uuid.UUID
	Target        Target
	Amounts       Amounts
	Method        Method
	ReservationID *uuid.UUID
	CouponCode    *string
	Redeemer      string
}

// NewAttempt opens the first attempt for a billing action.
func NewAttempt(p OpenParams, now time.Time) (*Attempt, error) {
	return newAttempt(uuid.New(), p, now)
}

// NewAttemptWithID is used when the id must be known before the attempt exists,
// e.g. to make it the holder of a coupon reservation.
func NewAttemptWithID(id uuid.UUID, p OpenParams, now time.Time) (*Attempt, error) {
	return newAttempt(id, p, now)
}

func newAttempt(id uuid.UUID, p OpenParams, now time.Time) (*Attempt, error) {
	if err := p.Target.Validate(); err != nil {
		return nil, err
	}
	if err := p.Amounts.Validate(); err != nil {
		return nil, err
	}
	if _, err := NewMethod(string(p.Method)); err != nil {
		return nil, err
	}
	return &Attempt{
		id:            id,
		tenantID:      p.TenantID,
		target:        p.Target,
		amounts:       p.Amounts,
		method:        p.Method,
		status:        StatusPending,
		attemptNumber: 1,
		reservationID: p.ReservationID,
		couponCode:    p.CouponCode,
		redeemer:      strings.TrimSpace(p.Redeemer),
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

func (a *Attempt) StartProcessing(now time.Time) error {
	if a.status != StatusPending {
		return ErrInvalidTransition
	}
	a.status = StatusProcessing
	a.processingStartedAt = &now
	a.updatedAt = now
	return nil
}

func (a *Attempt) Succeed(payload json.RawMessage, resourceID uuid.UUID, now time.Time) error {
	if a.status != StatusProcessing {
		return ErrInvalidTransition
	}
	if !hasPayload(payload) {
		return ErrMissingPayload
	}
	if resourceID == uuid.Nil {
		return ErrMissingResource
	}
	a.status = StatusSuccess
	a.gatewayPayload = payload
	a.unlockedResourceID = &resourceID
	a.confirmedAt = &now
	a.stampDuration(now)
	a.updatedAt = now
	return nil
}

func (a *Attempt) Fail(code, message string, payload json.RawMessage, now time.Time) error {
	if a.status != StatusProcessing {
		return ErrInvalidTransition
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrMissingFailure
	}
	a.status = StatusFailed
	a.failureCode = code
	a.failureMessage = message
	if hasPayload(payload) {
		a.gatewayPayload = payload
	}
	a.failedAt = &now
	a.stampDuration(now)
	a.updatedAt = now
	return nil
}

// Cancel is a cooperative flag; it never interrupts a gateway call in flight.
func (a *Attempt) Cancel(reason string, now time.Time) error {
	if !a.status.IsOpen() {
		return ErrInvalidTransition
	}
	a.status = StatusCancelled
	a.cancelReason = strings.TrimSpace(reason)
	a.cancelledAt = &now
	a.updatedAt = now
	return nil
}

// Retry turns a failed attempt into its successor. The history, amounts and
// coupon reservation carry forward so the coupon is not validated again.
func (a *Attempt) Retry(now time.Time) (*Attempt, error) {
	if a.status != StatusFailed {
		return nil, ErrInvalidTransition
	}
	if a.retriedByID != nil {
		return nil, ErrAlreadyRetried
	}

	history := make([]FailureRecord, 0, len(a.previousAttempts)+1)
	history = append(history, a.previousAttempts...)
	history = append(history, FailureRecord{
		AttemptNumber: a.attemptNumber,
		FailedAt:      *a.failedAt,
		Code:          a.failureCode,
		Message:       a.failureMessage,
	})

	next := &Attempt{
		id:               uuid.New(),
		tenantID:         a.tenantID,
		target:           a.target,
		amounts:          a.amounts,
		method:           a.method,
		status:           StatusPending,
		attemptNumber:    a.attemptNumber + 1,
		previousAttempts: history,
		reservationID:    a.reservationID,
		couponCode:       a.couponCode,
		redeemer:         a.redeemer,
		version:          1,
		createdAt:        now,
		updatedAt:        now,
	}

	id := next.id
	a.retriedByID = &id
	a.updatedAt = now
	return next, nil
}

func (a *Attempt) stampDuration(now time.Time) {
	if a.processingStartedAt == nil {
		return
	}
	d := now.Sub(*a.processingStartedAt)
	a.processingDuration = &d
}

func hasPayload(p json.RawMessage) bool {
	s := strings.TrimSpace(string(p))
	return s != "" && s != "null" && s != "{}"
}

func (a *Attempt) ID() uuid.UUID                      { return a.id }
func (a *Attempt) TenantID() uuid.UUID                { return a.tenantID }
func (a *Attempt) Target() Target                     { return a.target }
func (a *Attempt) Amounts() Amounts                   { return a.amounts }
func (a *Attempt) Method() Method                     { return a.method }
func (a *Attempt) Status() Status                     { return a.status }
func (a *Attempt) AttemptNumber() int                 { return a.attemptNumber }
func (a *Attempt) PreviousAttempts() []FailureRecord  { return a.previousAttempts }
func (a *Attempt) GatewayPayload() json.RawMessage    { return a.gatewayPayload }
func (a *Attempt) FailureCode() string                { return a.failureCode }
func (a *Attempt) FailureMessage() string             { return a.failureMessage }
func (a *Attempt) ReservationID() *uuid.UUID          { return a.reservationID }
func (a *Attempt) CouponCode() *string                { return a.couponCode }
func (a *Attempt) Redeemer() string                   { return a.redeemer }
func (a *Attempt) UnlockedResourceID() *uuid.UUID     { return a.unlockedResourceID }
func (a *Attempt) RetriedByID() *uuid.UUID            { return a.retriedByID }
func (a *Attempt) CancelReason() string               { return a.cancelReason }
func (a *Attempt) ProcessingStartedAt() *time.Time    { return a.processingStartedAt }
func (a *Attempt) ConfirmedAt() *time.Time            { return a.confirmedAt }
func (a *Attempt) FailedAt() *time.Time               { return a.failedAt }
func (a *Attempt) CancelledAt() *time.Time            { return a.cancelledAt }
func (a *Attempt) ProcessingDuration() *time.Duration { return a.processingDuration }
func (a *Attempt) Version() int                       { return a.version }
func (a *Attempt) CreatedAt() time.Time               { return a.createdAt }
func (a *Attempt) UpdatedAt() time.Time               { return a.updatedAt }
func (a *Attempt) BillingKey() string                 { return a.target.BillingKey() }
func (a *Attempt) IsSubscription() bool               { return a.target.Kind == TargetSubscription }
