package company

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string

const SubscriptionActive SubscriptionStatus = "active"

// Subscription is unlocked by a successful subscription payment.
type Subscription struct {
	id               uuid.UUID
	tenantID         uuid.UUID
	planID           uuid.UUID
	billingCycle     string
	paymentAttemptID uuid.UUID
	status           SubscriptionStatus
	startedAt        time.Time
	renewsAt         time.Time
}

func NewSubscription(tenantID, planID uuid.UUID, billingCycle string, paymentAttemptID uuid.UUID, now time.Time) *Subscription {
	renews := now.AddDate(0, 1, 0)
	if billingCycle == "yearly" {
		renews = now.AddDate(1, 0, 0)
	}
	return &Subscription{
		id:               uuid.New(),
		tenantID:         tenantID,
		planID:           planID,
		billingCycle:     billingCycle,
		paymentAttemptID: paymentAttemptID,
		status:           SubscriptionActive,
		startedAt:        now,
		renewsAt:         renews,
	}
}

func (s *Subscription) ID() uuid.UUID               { return s.id }
func (s *Subscription) TenantID() uuid.UUID         { return s.tenantID }
func (s *Subscription) PlanID() uuid.UUID           { return s.planID }
func (s *Subscription) BillingCycle() string        { return s.billingCycle }
func (s *Subscription) PaymentAttemptID() uuid.UUID { return s.paymentAttemptID }
func (s *Subscription) Status() SubscriptionStatus  { return s.status }
func (s *Subscription) StartedAt() time.Time        { return s.startedAt }
func (s *Subscription) RenewsAt() time.Time         { return s.renewsAt }
