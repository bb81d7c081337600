//go:build unit

// Package memstore is an in-memory UnitOfWork for usecase tests. Transactions run
// one at a time under a single lock and roll back by restoring a copy of the state.
package memstore

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

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

type couponRow struct {
	params    coupon.Params
	usedCount int
	active    bool
	createdAt time.Time
	updatedAt time.Time
}

type reservationRow struct {
	couponID  uuid.UUID
	tenantID  uuid.UUID
	status    coupon.ReservationStatus
	holder    coupon.HolderKind
	holderID  uuid.UUID
	discount  decimal.Decimal
	expiresAt time.Time
	createdAt time.Time
	updatedAt time.Time
}

type usageRow struct {
	usage  *coupon.Usage
	status coupon.UsageStatus
}

type orderRow struct {
	order  *order.Order
	status order.Status
}

type state struct {
	coupons       map[uuid.UUID]couponRow
	reservations  map[uuid.UUID]reservationRow
	usages        map[uuid.UUID]usageRow
	orders        map[uuid.UUID]orderRow
	payments      map[uuid.UUID]payment.Snapshot
	verifications map[uuid.UUID]verification.Snapshot
	companies     map[uuid.UUID]*company.Company
	users         []*user.User
	subscriptions []*company.Subscription
	jobs          []shared.NotificationJob
	plans         map[string]decimal.Decimal
}

func (s state) clone() state {
	return state{
		coupons:       maps.Clone(s.coupons),
		reservations:  maps.Clone(s.reservations),
		usages:        maps.Clone(s.usages),
		orders:        maps.Clone(s.orders),
		payments:      maps.Clone(s.payments),
		verifications: maps.Clone(s.verifications),
		companies:     maps.Clone(s.companies),
		users:         slices.Clone(s.users),
		subscriptions: slices.Clone(s.subscriptions),
		jobs:          slices.Clone(s.jobs),
		plans:         maps.Clone(s.plans),
	}
}

type Store struct {
	mu       sync.Mutex
	st       state
	failures map[string][]error
	commits  int

	lostAckAt  int
	lostAckErr error
}

func New() *Store {
	return &Store{
		st: state{
			coupons:       map[uuid.UUID]couponRow{},
			reservations:  map[uuid.UUID]reservationRow{},
			usages:        map[uuid.UUID]usageRow{},
			orders:        map[uuid.UUID]orderRow{},
			payments:      map[uuid.UUID]payment.Snapshot{},
			verifications: map[uuid.UUID]verification.Snapshot{},
			companies:     map[uuid.UUID]*company.Company{},
			plans:         map[string]decimal.Decimal{},
		},
		failures: map[string][]error{},
	}
}

var _ shared.UnitOfWork = (*Store)(nil)

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return s.run(ctx, fn)
}

func (s *Store) WithDB(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return s.run(ctx, fn)
}

func (s *Store) run(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := s.st.clone()
	if err := fn(ctx, &memTx{s: s}); err != nil {
		s.st = saved
		return err
	}
	if err := s.popFailure("commit"); err != nil {
		s.st = saved
		return err
	}
	s.commits++
	if s.commits == s.lostAckAt {
		return s.lostAckErr
	}
	return nil
}

// LoseAck keeps the nth commit from now but reports err to the caller, as when
// the connection drops before the commit acknowledgement arrives.
func (s *Store) LoseAck(n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lostAckAt = s.commits + n
	s.lostAckErr = err
}

// FailNext makes the next call of op return err. op is "<table>.<method>" such as
// "orders.create", or "commit" to roll back after the body succeeded.
func (s *Store) FailNext(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = append(s.failures[op], err)
}

func (s *Store) popFailure(op string) error {
	queue := s.failures[op]
	if len(queue) == 0 {
		return nil
	}
	s.failures[op] = queue[1:]
	return queue[0]
}

func (s *Store) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

type memTx struct {
	s *Store
}

func (t *memTx) Coupons() shared.CouponRepository             { return couponRepo{t.s} }
func (t *memTx) Reservations() shared.ReservationRepository   { return reservationRepo{t.s} }
func (t *memTx) Usages() shared.UsageRepository               { return usageRepo{t.s} }
func (t *memTx) Orders() shared.OrderRepository               { return orderRepo{t.s} }
func (t *memTx) Payments() shared.PaymentRepository           { return paymentRepo{t.s} }
func (t *memTx) Subscriptions() shared.SubscriptionRepository { return subscriptionRepo{t.s} }
func (t *memTx) Verifications() shared.VerificationRepository { return verificationRepo{t.s} }
func (t *memTx) Companies() shared.CompanyRepository          { return companyRepo{t.s} }
func (t *memTx) Notifications() shared.NotificationRepository { return notificationRepo{t.s} }
func (t *memTx) Plans() shared.PlanCatalog                    { return planCatalog{t.s} }
