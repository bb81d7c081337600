package commands

import (
	"context"
	"errors"
	"time"

	"retail-core/internal/domain/coupon"
	"retail-core/internal/infra"
	"retail-core/internal/metrics"
	"retail-core/internal/pkg/clock"
	"retail-core/internal/pkg/config"
	"retail-core/internal/pkg/errs"
	"retail-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	releaseBatchSize    = 100
	compensationTimeout = 30 * time.Second
)

// CouponQuote is the outcome of a successful validation. Token becomes the
// reservation id, so a reserve retried after a lost acknowledgement finds its own row.
type CouponQuote struct {
	CouponID uuid.UUID
	TenantID uuid.UUID
	Code     coupon.Code
	Discount decimal.Decimal
	Token    uuid.UUID
}

type ValidateCouponRequest struct {
	TenantID     uuid.UUID
	Code         string
	Subtotal     decimal.Decimal
	PlanID       *uuid.UUID
	BillingCycle string
}

type ReserveCouponRequest struct {
	Quote    CouponQuote
	Holder   coupon.HolderKind
	HolderID uuid.UUID
}

type CreateCouponRequest struct {
	TenantID       uuid.UUID
	Code           string
	Title          string
	Description    string
	Kind           string
	Value          decimal.Decimal
	StartsAt       *time.Time
	EndsAt         *time.Time
	MaxUses        int
	MinOrderTotal  decimal.Decimal
	PlanID         *uuid.UUID
	BillingCycle   *string
	DurationMonths int
}

type CouponCommands interface {
	Create(ctx context.Context, req CreateCouponRequest) (uuid.UUID, error)
	Deactivate(ctx context.Context, tenantID uuid.UUID, code string) error
	Validate(ctx context.Context, req ValidateCouponRequest) (*CouponQuote, error)
	Reserve(ctx context.Context, req ReserveCouponRequest) (*coupon.Reservation, error)
	// Consume turns a held reservation into a usage row inside the caller's transaction.
	Consume(ctx context.Context, tx shared.Tx, token uuid.UUID, p coupon.UsageParams) (*coupon.Usage, error)
	// Release gives the slot back. It is idempotent and keeps retrying until ctx ends.
	Release(ctx context.Context, token uuid.UUID) error
	// ReleaseTx is Release inside the caller's transaction. It reports whether this call released the slot.
	ReleaseTx(ctx context.Context, tx shared.Tx, token uuid.UUID) (bool, error)
	ReleaseExpired(ctx context.Context) (int, error)
	ExpireUsages(ctx context.Context) (int64, error)
}

type couponUseCaseImpl struct {
	uow   shared.UnitOfWork
	retry shared.RetryPolicy
	clock clock.Clock
	ttl   time.Duration
}

func NewCouponUseCase(uow shared.UnitOfWork, retry shared.RetryPolicy, clk clock.Clock, cfg config.CheckoutConfig) CouponCommands {
	return &couponUseCaseImpl{
		uow:   uow,
		retry: retry,
		clock: clk,
		ttl:   cfg.ReservationTTL,
	}
}

// notApplicable hides the concrete reason behind the generic coupon failure.
func notApplicable(err error) error {
	return errs.Mark(errs.Mark(err, errs.ErrCouponNotApplicable), errs.ErrValidation)
}

func exhausted(err error) error {
	return errs.Mark(errs.Mark(err, errs.ErrCouponNotApplicable), errs.ErrExhausted)
}

func (uc *couponUseCaseImpl) Create(ctx context.Context, req CreateCouponRequest) (uuid.UUID, error) {
	c, err := coupon.NewCoupon(coupon.Params{
		TenantID:       req.TenantID,
		Code:           req.Code,
		Title:          req.Title,
		Description:    req.Description,
		Kind:           coupon.DiscountKind(req.Kind),
		Value:          req.Value,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		MaxUses:        req.MaxUses,
		MinOrderTotal:  req.MinOrderTotal,
		PlanID:         req.PlanID,
		BillingCycle:   req.BillingCycle,
		DurationMonths: req.DurationMonths,
	}, uc.clock.Now())
	if err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrValidation)
	}

	err = uc.retry.Do(ctx, func(ctx context.Context) error {
		return uc.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
			return tx.Coupons().Create(ctx, c)
		})
	})
	if err != nil {
		return uuid.Nil, shared.Classify(err)
	}
	return c.ID(), nil
}

func (uc *couponUseCaseImpl) Deactivate(ctx context.Context, tenantID uuid.UUID, code string) error {
	cc, err := coupon.NewCouponCode(code)
	if err != nil {
		return errs.Mark(err, errs.ErrValidation)
	}
	err = uc.retry.Do(ctx, func(ctx context.Context) error {
		return uc.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
			return tx.Coupons().Deactivate(ctx, tenantID, cc)
		})
	})
	return shared.Classify(err)
}

func (uc *couponUseCaseImpl) Validate(ctx context.Context, req ValidateCouponRequest) (*CouponQuote, error) {
	code, err := coupon.NewCouponCode(req.Code)
	if err != nil {
		return nil, notApplicable(err)
	}

	var c *coupon.Coupon
	err = uc.retry.Do(ctx, func(ctx context.Context) error {
		return uc.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
			var ferr error
			c, ferr = tx.Coupons().FindByCode(ctx, req.TenantID, code)
			return ferr
		})
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, notApplicable(err)
		}
		return nil, shared.Classify(err)
	}

	if !appliesTo(c, req) {
		return nil, notApplicable(coupon.ErrPlanMismatch)
	}

	discount, err := c.Evaluate(req.Subtotal, uc.clock.Now())
	if err != nil {
		if errors.Is(err, coupon.ErrCouponExhausted) {
			return nil, exhausted(err)
		}
		return nil, notApplicable(err)
	}

	return &CouponQuote{
		CouponID: c.ID(),
		TenantID: c.TenantID(),
		Code:     c.Code(),
		Discount: discount,
		Token:    uuid.New(),
	}, nil
}

// Plan-scoped coupons only apply to subscription purchases of that plan.
func appliesTo(c *coupon.Coupon, req ValidateCouponRequest) bool {
	if c.PlanID() == nil && c.BillingCycle() == nil {
		return true
	}
	return req.PlanID != nil && c.AppliesToPlan(*req.PlanID, req.BillingCycle)
}

func (uc *couponUseCaseImpl) Reserve(ctx context.Context, req ReserveCouponRequest) (*coupon.Reservation, error) {
	now := uc.clock.Now()

	var res *coupon.Reservation
	err := uc.retry.Do(ctx, func(ctx context.Context) error {
		return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			c, err := tx.Coupons().FindByID(ctx, req.Quote.CouponID)
			if err != nil {
				return err
			}
			r, err := coupon.NewReservation(req.Quote.Token, c, req.Holder, req.HolderID, req.Quote.Discount, uc.ttl, now)
			if err != nil {
				return errs.Mark(err, errs.ErrValidation)
			}

			won, err := tx.Coupons().IncrementUsage(ctx, c.ID())
			if err != nil {
				return err
			}
			if !won {
				return exhausted(coupon.ErrCouponExhausted)
			}
			if err := tx.Reservations().Create(ctx, r); err != nil {
				return err
			}
			res = r
			return nil
		})
	})

	if infra.IsKind(err, infra.KindDuplicateKey) {
		if existing, ferr := uc.findReservation(ctx, req.Quote.Token); ferr == nil && existing.IsHeld() {
			metrics.CouponReservationsTotal.WithLabelValues("reserved").Inc()
			return existing, nil
		}
	}

	switch {
	case err == nil:
		metrics.CouponReservationsTotal.WithLabelValues("reserved").Inc()
		return res, nil
	case errs.Is(err, errs.ErrExhausted):
		metrics.CouponReservationsTotal.WithLabelValues("exhausted").Inc()
		return nil, err
	case infra.IsKind(err, infra.KindNotFound):
		return nil, notApplicable(err)
	default:
		metrics.CouponReservationsTotal.WithLabelValues("error").Inc()
		return nil, shared.Classify(err)
	}
}

func (uc *couponUseCaseImpl) findReservation(ctx context.Context, id uuid.UUID) (*coupon.Reservation, error) {
	var res *coupon.Reservation
	err := uc.retry.Do(ctx, func(ctx context.Context) error {
		return uc.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
			var ferr error
			res, ferr = tx.Reservations().FindByID(ctx, id)
			return ferr
		})
	})
	return res, err
}

func (uc *couponUseCaseImpl) Consume(ctx context.Context, tx shared.Tx, token uuid.UUID, p coupon.UsageParams) (*coupon.Usage, error) {
	res, err := tx.Reservations().FindByID(ctx, token)
	if err != nil {
		return nil, err
	}
	won, err := tx.Reservations().Transition(ctx, token, coupon.ReservationReserved, coupon.ReservationConsumed)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, errs.Mark(coupon.ErrReservationNotHeld, errs.ErrConflict)
	}

	c, err := tx.Coupons().FindByID(ctx, res.CouponID())
	if err != nil {
		return nil, err
	}
	u, err := coupon.NewUsage(c, res, p, uc.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}
	if err := tx.Usages().Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (uc *couponUseCaseImpl) Release(ctx context.Context, token uuid.UUID) error {
	return uc.release(ctx, token, "compensation")
}

func (uc *couponUseCaseImpl) release(ctx context.Context, token uuid.UUID, trigger string) error {
	var released bool
	err := uc.retry.UntilDone(ctx, func(ctx context.Context) error {
		return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			var rerr error
			released, rerr = uc.ReleaseTx(ctx, tx, token)
			return rerr
		})
	})
	if err != nil {
		return shared.Classify(err)
	}
	if released {
		metrics.CouponReleasesTotal.WithLabelValues(trigger).Inc()
	}
	return nil
}

// ReleaseTx only decrements used_count when its own status swap wins, so
// replays and concurrent releases give the slot back exactly once.
func (uc *couponUseCaseImpl) ReleaseTx(ctx context.Context, tx shared.Tx, token uuid.UUID) (bool, error) {
	res, err := tx.Reservations().FindByID(ctx, token)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return false, nil
		}
		return false, err
	}

	won, err := tx.Reservations().Transition(ctx, token, coupon.ReservationReserved, coupon.ReservationReleased)
	if err != nil || !won {
		return false, err
	}
	if err := tx.Coupons().DecrementUsage(ctx, res.CouponID()); err != nil {
		return false, err
	}
	if _, err := tx.Usages().CancelByReservation(ctx, token); err != nil {
		return false, err
	}
	return true, nil
}

func (uc *couponUseCaseImpl) ReleaseExpired(ctx context.Context) (int, error) {
	var expired []*coupon.Reservation
	err := uc.retry.Do(ctx, func(ctx context.Context) error {
		return uc.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
			var lerr error
			expired, lerr = tx.Reservations().ListExpired(ctx, uc.clock.Now(), releaseBatchSize)
			return lerr
		})
	})
	if err != nil {
		return 0, shared.Classify(err)
	}

	released := 0
	for _, r := range expired {
		if err := uc.release(ctx, r.ID(), "expired"); err != nil {
			return released, err
		}
		released++
	}
	return released, nil
}

func (uc *couponUseCaseImpl) ExpireUsages(ctx context.Context) (int64, error) {
	var n int64
	err := uc.retry.Do(ctx, func(ctx context.Context) error {
		return uc.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
			var eerr error
			n, eerr = tx.Usages().ExpireDue(ctx, uc.clock.Now())
			return eerr
		})
	})
	return n, shared.Classify(err)
}

// compensationContext outlives the request so a client disconnect does not abandon a release.
func compensationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
}
