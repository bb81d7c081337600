package commands

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"retail-core/internal/domain/company"
	"retail-core/internal/domain/coupon"
	"retail-core/internal/domain/money"
	"retail-core/internal/domain/payment"
	"retail-core/internal/infra"
	"retail-core/internal/metrics"
	"retail-core/internal/pkg/clock"
	"retail-core/internal/pkg/config"
	"retail-core/internal/pkg/errs"
	"retail-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OpenSubscriptionRequest struct {
	TenantID     uuid.UUID
	PlanID       uuid.UUID
	BillingCycle string
	Method       string
	CouponCode   string
	Redeemer     string
}

type OpenForOrderRequest struct {
	TenantID uuid.UUID
	OrderID  uuid.UUID
	Method   string
}

type SucceedRequest struct {
	TenantID  uuid.UUID
	AttemptID uuid.UUID
	Payload   json.RawMessage
}

type FailRequest struct {
	TenantID  uuid.UUID
	AttemptID uuid.UUID
	Code      string
	Message   string
	Payload   json.RawMessage
}

type CancelRequest struct {
	TenantID  uuid.UUID
	AttemptID uuid.UUID
	Reason    string
}

type PaymentCommands interface {
	OpenSubscription(ctx context.Context, req OpenSubscriptionRequest) (*payment.Attempt, error)
	OpenForOrder(ctx context.Context, req OpenForOrderRequest) (*payment.Attempt, error)
	StartProcessing(ctx context.Context, tenantID, attemptID uuid.UUID) (*payment.Attempt, error)
	Succeed(ctx context.Context, req SucceedRequest) (*payment.Attempt, error)
	Fail(ctx context.Context, req FailRequest) (*payment.Attempt, error)
	// Retry returns the new attempt opened in place of a failed one.
	Retry(ctx context.Context, tenantID, attemptID uuid.UUID) (*payment.Attempt, error)
	Cancel(ctx context.Context, req CancelRequest) (*payment.Attempt, error)
}

type paymentUseCaseImpl struct {
	couponSaga
	uow   shared.UnitOfWork
	retry shared.RetryPolicy
	clock clock.Clock
	ttl   time.Duration
}

func NewPaymentUseCase(
	uow shared.UnitOfWork,
	coupons CouponCommands,
	retry shared.RetryPolicy,
	clk clock.Clock,
	cfg config.CheckoutConfig,
) PaymentCommands {
	return &paymentUseCaseImpl{
		couponSaga: couponSaga{coupons: coupons, policy: cfg.CouponFailurePolicy},
		uow:        uow,
		retry:      retry,
		clock:      clk,
		ttl:        cfg.ReservationTTL,
	}
}

func paymentError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, payment.ErrInvalidTransition), errors.Is(err, payment.ErrAlreadyRetried):
		return errs.Mark(err, errs.ErrConflict)
	case errors.Is(err, payment.ErrMissingPayload),
		errors.Is(err, payment.ErrMissingFailure),
		errors.Is(err, payment.ErrMissingResource),
		errors.Is(err, payment.ErrInvalidMethod),
		errors.Is(err, payment.ErrInvalidBillingCycle),
		errors.Is(err, payment.ErrInvalidTarget),
		errors.Is(err, payment.ErrInvalidAmounts):
		return errs.Mark(err, errs.ErrValidation)
	}
	return shared.Classify(err)
}

func (uc *paymentUseCaseImpl) OpenSubscription(ctx context.Context, req OpenSubscriptionRequest) (*payment.Attempt, error) {
	method, err := payment.NewMethod(req.Method)
	if err != nil {
		return nil, paymentError(err)
	}
	cycle, err := payment.NewBillingCycle(req.BillingCycle)
	if err != nil {
		return nil, paymentError(err)
	}

	var price decimal.Decimal
	err = uc.retry.Do(ctx, func(ctx context.Context) error {
		return uc.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
			var perr error
			price, perr = tx.Plans().PlanPrice(ctx, req.PlanID, cycle)
			return perr
		})
	})
	if err != nil {
		return nil, shared.Classify(err)
	}

	attemptID := uuid.New()
	amounts := payment.Amounts{Base: price, Discount: money.Zero, Final: price}

	var res *coupon.Reservation
	var couponCode *string
	if code := strings.TrimSpace(req.CouponCode); code != "" {
		planID := req.PlanID
		res, err = uc.reserve(ctx, ValidateCouponRequest{
			TenantID:     req.TenantID,
			Code:         code,
			Subtotal:     price,
			PlanID:       &planID,
			BillingCycle: string(cycle),
		}, coupon.HolderPayment, attemptID)
		if err != nil {
			return nil, err
		}
	}

	var reservationID *uuid.UUID
	if res != nil {
		id := res.ID()
		reservationID = &id
		normalized := strings.ToUpper(strings.TrimSpace(req.CouponCode))
		couponCode = &normalized
		amounts.Discount = res.Discount()
		amounts.Final = money.FloorZero(price.Sub(res.Discount()))
	}

	redeemer := strings.TrimSpace(req.Redeemer)
	if redeemer == "" {
		redeemer = "tenant:" + req.TenantID.String()
	}

	a, err := payment.NewAttemptWithID(attemptID, payment.OpenParams{
		TenantID:      req.TenantID,
		Target:        payment.SubscriptionTarget(req.PlanID, cycle),
		Amounts:       amounts,
		Method:        method,
		ReservationID: reservationID,
		CouponCode:    couponCode,
		Redeemer:      redeemer,
	}, uc.clock.Now())
	if err != nil {
		uc.compensate(ctx, res)
		return nil, paymentError(err)
	}

	if err := uc.insert(ctx, a); err != nil {
		uc.compensate(ctx, res)
		return nil, err
	}
	metrics.PaymentTransitionsTotal.WithLabelValues(string(payment.StatusPending)).Inc()
	return a, nil
}

func (uc *paymentUseCaseImpl) OpenForOrder(ctx context.Context, req OpenForOrderRequest) (*payment.Attempt, error) {
	method, err := payment.NewMethod(req.Method)
	if err != nil {
		return nil, paymentError(err)
	}

	var a *payment.Attempt
	err = uc.retry.Do(ctx, func(ctx context.Context) error {
		return uc.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
			o, err := tx.Orders().FindByID(ctx, req.TenantID, req.OrderID)
			if err != nil {
				return err
			}
			redeemer := redeemerFor(o)
			// The discount was consumed when the order was placed.
			a, err = payment.NewAttempt(payment.OpenParams{
				TenantID: req.TenantID,
				Target:   payment.OrderTarget(o.ID()),
				Amounts: payment.Amounts{
					Base:     o.Subtotal().Add(o.DeliveryFee()),
					Discount: o.Discount(),
					Final:    o.Total(),
				},
				Method:     method,
				CouponCode: o.CouponCode(),
				Redeemer:   redeemer,
			}, uc.clock.Now())
			return err
		})
	})
	if err != nil {
		return nil, paymentError(err)
	}

	if err := uc.insert(ctx, a); err != nil {
		return nil, err
	}
	metrics.PaymentTransitionsTotal.WithLabelValues(string(payment.StatusPending)).Inc()
	return a, nil
}

// insert treats finding its own row after a lost acknowledgement as success.
func (uc *paymentUseCaseImpl) insert(ctx context.Context, a *payment.Attempt) error {
	err := uc.retry.Do(ctx, func(ctx context.Context) error {
		return uc.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
			return tx.Payments().Create(ctx, a)
		})
	})
	if err == nil {
		return nil
	}
	if infra.IsKind(err, infra.KindDuplicateKey) || infra.IsKind(err, infra.KindConflict) {
		if uc.exists(ctx, a.TenantID(), a.ID()) {
			return nil
		}
	}
	return paymentError(err)
}

func (uc *paymentUseCaseImpl) exists(ctx context.Context, tenantID, id uuid.UUID) bool {
	err := uc.retry.Do(ctx, func(ctx context.Context) error {
		return uc.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
			_, ferr := tx.Payments().FindByID(ctx, tenantID, id)
			return ferr
		})
	})
	return err == nil
}

// transition loads the attempt and applies fn in one transaction; fn must persist through tx.
func (uc *paymentUseCaseImpl) transition(
	ctx context.Context,
	tenantID, attemptID uuid.UUID,
	fn func(ctx context.Context, tx shared.Tx, a *payment.Attempt, now time.Time) error,
) (*payment.Attempt, error) {
	var out *payment.Attempt
	err := uc.retry.Do(ctx, func(ctx context.Context) error {
		return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			a, err := tx.Payments().FindByID(ctx, tenantID, attemptID)
			if err != nil {
				return err
			}
			if err := fn(ctx, tx, a, uc.clock.Now()); err != nil {
				return err
			}
			out = a
			return nil
		})
	})
	if err != nil {
		return nil, paymentError(err)
	}
	return out, nil
}

func (uc *paymentUseCaseImpl) StartProcessing(ctx context.Context, tenantID, attemptID uuid.UUID) (*payment.Attempt, error) {
	a, err := uc.transition(ctx, tenantID, attemptID, func(ctx context.Context, tx shared.Tx, a *payment.Attempt, now time.Time) error {
		if err := a.StartProcessing(now); err != nil {
			return err
		}
		return tx.Payments().Update(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	observeTransition(a)
	return a, nil
}

func (uc *paymentUseCaseImpl) Succeed(ctx context.Context, req SucceedRequest) (*payment.Attempt, error) {
	a, err := uc.transition(ctx, req.TenantID, req.AttemptID, func(ctx context.Context, tx shared.Tx, a *payment.Attempt, now time.Time) error {
		target := a.Target()

		var sub *company.Subscription
		var resourceID uuid.UUID
		if a.IsSubscription() {
			sub = company.NewSubscription(a.TenantID(), *target.PlanID, string(*target.BillingCycle), a.ID(), now)
			resourceID = sub.ID()
		} else {
			resourceID = *target.OrderID
		}

		if err := a.Succeed(req.Payload, resourceID, now); err != nil {
			return err
		}
		if err := tx.Payments().Update(ctx, a); err != nil {
			return err
		}

		if sub != nil {
			if err := tx.Subscriptions().Create(ctx, sub); err != nil {
				return err
			}
		} else if err := tx.Orders().MarkConfirmed(ctx, resourceID); err != nil {
			return err
		}

		return uc.consumeReservation(ctx, tx, a)
	})
	if err != nil {
		return nil, err
	}
	observeTransition(a)
	return a, nil
}

func (uc *paymentUseCaseImpl) consumeReservation(ctx context.Context, tx shared.Tx, a *payment.Attempt) error {
	if a.ReservationID() == nil {
		return nil
	}
	params := coupon.UsageParams{
		Redeemer:      a.Redeemer(),
		OriginalPrice: a.Amounts().Base,
	}
	if t := a.Target(); t.Kind == payment.TargetSubscription {
		cycle := string(*t.BillingCycle)
		params.PlanID = t.PlanID
		params.BillingCycle = &cycle
	}

	_, err := uc.coupons.Consume(ctx, tx, *a.ReservationID(), params)
	if errors.Is(err, coupon.ErrReservationNotHeld) {
		slog.Warn("reservation released before payment succeeded; no usage recorded",
			"attempt_id", a.ID(), "reservation_id", *a.ReservationID())
		return nil
	}
	return err
}

func (uc *paymentUseCaseImpl) Fail(ctx context.Context, req FailRequest) (*payment.Attempt, error) {
	a, err := uc.transition(ctx, req.TenantID, req.AttemptID, func(ctx context.Context, tx shared.Tx, a *payment.Attempt, now time.Time) error {
		if err := a.Fail(req.Code, req.Message, req.Payload, now); err != nil {
			return err
		}
		return tx.Payments().Update(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	observeTransition(a)
	return a, nil
}

func (uc *paymentUseCaseImpl) Cancel(ctx context.Context, req CancelRequest) (*payment.Attempt, error) {
	var released bool
	a, err := uc.transition(ctx, req.TenantID, req.AttemptID, func(ctx context.Context, tx shared.Tx, a *payment.Attempt, now time.Time) error {
		if err := a.Cancel(req.Reason, now); err != nil {
			return err
		}
		if err := tx.Payments().Update(ctx, a); err != nil {
			return err
		}
		if a.ReservationID() == nil {
			return nil
		}
		var rerr error
		released, rerr = uc.coupons.ReleaseTx(ctx, tx, *a.ReservationID())
		return rerr
	})
	if err != nil {
		return nil, err
	}
	if released {
		metrics.CouponReleasesTotal.WithLabelValues("cancel").Inc()
	}
	observeTransition(a)
	return a, nil
}

func (uc *paymentUseCaseImpl) Retry(ctx context.Context, tenantID, attemptID uuid.UUID) (*payment.Attempt, error) {
	var next *payment.Attempt
	_, err := uc.transition(ctx, tenantID, attemptID, func(ctx context.Context, tx shared.Tx, a *payment.Attempt, now time.Time) error {
		n, err := a.Retry(now)
		if err != nil {
			return err
		}
		if err := tx.Payments().Update(ctx, a); err != nil {
			return err
		}

		if id := n.ReservationID(); id != nil {
			held, err := tx.Reservations().Reassign(ctx, *id, n.ID(), now.Add(uc.ttl))
			if err != nil {
				return err
			}
			if !held {
				slog.Warn("retried attempt carries a released reservation",
					"attempt_id", n.ID(), "reservation_id", *id)
			}
		}

		if err := tx.Payments().Create(ctx, n); err != nil {
			return err
		}
		next = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.PaymentTransitionsTotal.WithLabelValues(string(payment.StatusPending)).Inc()
	return next, nil
}

func observeTransition(a *payment.Attempt) {
	metrics.PaymentTransitionsTotal.WithLabelValues(string(a.Status())).Inc()
	if a.Status().IsTerminal() && a.ProcessingDuration() != nil {
		metrics.PaymentProcessingDuration.Observe(a.ProcessingDuration().Seconds())
	}
}
