//go:build unit

package memstore

import (
	"context"

	"retail-core/internal/domain/company"
	"retail-core/internal/domain/coupon"
	"retail-core/internal/domain/order"
	"retail-core/internal/domain/payment"
	"retail-core/internal/domain/user"
	"retail-core/internal/domain/verification"
	"retail-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (s *Store) SeedCoupon(c *coupon.Coupon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = couponRepo{s}.Create(context.Background(), c)
}

func (s *Store) SeedPlan(planID uuid.UUID, cycle payment.BillingCycle, price decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.plans[planKey(planID, cycle)] = price
}

func (s *Store) Coupon(id uuid.UUID) *coupon.Coupon {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.st.coupons[id]
	if !ok {
		return nil
	}
	return row.toDomain(id)
}

func (s *Store) Reservation(id uuid.UUID) *coupon.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.st.reservations[id]
	if !ok {
		return nil
	}
	return row.toDomain(id)
}

func (s *Store) Reservations() []*coupon.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*coupon.Reservation, 0, len(s.st.reservations))
	for id, row := range s.st.reservations {
		out = append(out, row.toDomain(id))
	}
	return out
}

// ExpireReservation moves a reservation's expiry so the janitor picks it up.
func (s *Store) ExpireReservation(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.st.reservations[id]
	row.expiresAt = row.createdAt.Add(-1)
	s.st.reservations[id] = row
}

func (s *Store) Usages() []*coupon.Usage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*coupon.Usage, 0, len(s.st.usages))
	for _, row := range s.st.usages {
		out = append(out, row.toDomain())
	}
	return out
}

func (s *Store) Order(id uuid.UUID) *order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.st.orders[id]
	if !ok {
		return nil
	}
	return row.toDomain()
}

func (s *Store) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.orders)
}

func (s *Store) Attempt(id uuid.UUID) *payment.Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.st.payments[id]
	if !ok {
		return nil
	}
	return payment.Reconstruct(snap)
}

func (s *Store) Subscriptions() []*company.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*company.Subscription(nil), s.st.subscriptions...)
}

func (s *Store) Verification(id uuid.UUID) *verification.Verification {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.st.verifications[id]
	if !ok {
		return nil
	}
	return verification.Reconstruct(snap)
}

func (s *Store) CompanyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.companies)
}

func (s *Store) Users() []*user.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*user.User(nil), s.st.users...)
}

func (s *Store) Jobs() []shared.NotificationJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]shared.NotificationJob(nil), s.st.jobs...)
}
