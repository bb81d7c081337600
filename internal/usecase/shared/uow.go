package shared

import (
	"context"
	"time"

	"retail-core/internal/domain/company"
	"retail-core/internal/domain/coupon"
	"retail-core/internal/domain/order"
	"retail-core/internal/domain/payment"
	"retail-core/internal/domain/user"
	"retail-core/internal/domain/verification"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single statement operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx hands out repositories bound to the current transaction (or to the pool for WithDB).
type Tx interface {
	Coupons() CouponRepository
	Reservations() ReservationRepository
	Usages() UsageRepository
	Orders() OrderRepository
	Payments() PaymentRepository
	Subscriptions() SubscriptionRepository
	Verifications() VerificationRepository
	Companies() CompanyRepository
	Notifications() NotificationRepository
	Plans() PlanCatalog
}

type CouponRepository interface {
	Create(ctx context.Context, c *coupon.Coupon) error
	FindByCode(ctx context.Context, tenantID uuid.UUID, code coupon.Code) (*coupon.Coupon, error)
	FindByID(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error)
	// IncrementUsage claims one redemption slot. It reports false when the coupon is exhausted.
	IncrementUsage(ctx context.Context, id uuid.UUID) (bool, error)
	DecrementUsage(ctx context.Context, id uuid.UUID) error
	Deactivate(ctx context.Context, tenantID uuid.UUID, code coupon.Code) error
}

type ReservationRepository interface {
	Create(ctx context.Context, r *coupon.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*coupon.Reservation, error)
	// Transition moves a reservation between states only if it is still in from.
	Transition(ctx context.Context, id uuid.UUID, from, to coupon.ReservationStatus) (bool, error)
	Reassign(ctx context.Context, id uuid.UUID, holderID uuid.UUID, expiresAt time.Time) (bool, error)
	ListExpired(ctx context.Context, now time.Time, limit int) ([]*coupon.Reservation, error)
}

type UsageRepository interface {
	Create(ctx context.Context, u *coupon.Usage) error
	CancelByReservation(ctx context.Context, reservationID uuid.UUID) (int64, error)
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
}

type OrderRepository interface {
	Create(ctx context.Context, o *order.Order) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*order.Order, error)
	MarkConfirmed(ctx context.Context, id uuid.UUID) error
}

type PaymentRepository interface {
	// Create fails with a conflict while another attempt for the same billing key is open.
	Create(ctx context.Context, a *payment.Attempt) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*payment.Attempt, error)
	// Update is a compare-and-swap on the version the attempt was loaded with.
	Update(ctx context.Context, a *payment.Attempt) error
}

type SubscriptionRepository interface {
	Create(ctx context.Context, s *company.Subscription) error
}

type VerificationRepository interface {
	Create(ctx context.Context, v *verification.Verification) error
	FindByID(ctx context.Context, id uuid.UUID) (*verification.Verification, error)
	Update(ctx context.Context, v *verification.Verification) error
}

type CompanyRepository interface {
	// CreateFromVerification returns the id of the company promoted from the
	// verification, inserting it only if none exists yet.
	CreateFromVerification(ctx context.Context, c *company.Company) (uuid.UUID, bool, error)
	CreateUser(ctx context.Context, u *user.User) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, job NotificationJob) error
}

type PlanCatalog interface {
	PlanPrice(ctx context.Context, planID uuid.UUID, cycle payment.BillingCycle) (decimal.Decimal, error)
}
