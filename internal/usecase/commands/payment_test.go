//go:build unit

package commands_test

import (
	"context"
	"encoding/json"
	"testing"

	"retail-core/internal/domain/coupon"
	"retail-core/internal/domain/money"
	"retail-core/internal/domain/order"
	"retail-core/internal/domain/payment"
	"retail-core/internal/pkg/errs"
	"retail-core/internal/usecase/commands"
	"retail-core/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var gatewayOK = json.RawMessage(`{"gateway":"stripe","charge":"ch_123"}`)

func (f *fixture) seedPlan() uuid.UUID {
	planID := uuid.New()
	f.store.SeedPlan(planID, payment.CycleMonthly, money.MustParse("49.00"))
	f.store.SeedPlan(planID, payment.CycleYearly, money.MustParse("490.00"))
	return planID
}

func (f *fixture) openSubscription(t *testing.T, planID uuid.UUID, couponCode string) *payment.Attempt {
	t.Helper()
	a, err := f.payments.OpenSubscription(context.Background(), commands.OpenSubscriptionRequest{
		TenantID:     f.tenantID,
		PlanID:       planID,
		BillingCycle: "monthly",
		Method:       "card",
		CouponCode:   couponCode,
		Redeemer:     "owner@example.com",
	})
	require.NoError(t, err)
	return a
}

func (f *fixture) process(t *testing.T, id uuid.UUID) {
	t.Helper()
	_, err := f.payments.StartProcessing(context.Background(), f.tenantID, id)
	require.NoError(t, err)
}

func (f *fixture) fail(t *testing.T, id uuid.UUID, code string) {
	t.Helper()
	_, err := f.payments.Fail(context.Background(), commands.FailRequest{
		TenantID: f.tenantID, AttemptID: id, Code: code, Message: code + " from gateway",
	})
	require.NoError(t, err)
}

func (f *fixture) retryAttempt(t *testing.T, id uuid.UUID) *payment.Attempt {
	t.Helper()
	next, err := f.payments.Retry(context.Background(), f.tenantID, id)
	require.NoError(t, err)
	return next
}

func TestPayment_FailFailSucceed(t *testing.T) {
	f := newFixture(t)
	planID := f.seedPlan()
	ctx := context.Background()

	first := f.openSubscription(t, planID, "")
	f.process(t, first.ID())
	f.fail(t, first.ID(), "card_declined")

	second := f.retryAttempt(t, first.ID())
	f.process(t, second.ID())
	f.fail(t, second.ID(), "insufficient_funds")

	third := f.retryAttempt(t, second.ID())
	f.process(t, third.ID())
	done, err := f.payments.Succeed(ctx, commands.SucceedRequest{TenantID: f.tenantID, AttemptID: third.ID(), Payload: gatewayOK})
	require.NoError(t, err)

	assert.Equal(t, payment.StatusSuccess, done.Status())
	assert.Equal(t, 3, done.AttemptNumber())
	history := done.PreviousAttempts()
	require.Len(t, history, 2)
	assert.Equal(t, 1, history[0].AttemptNumber)
	assert.Equal(t, "card_declined", history[0].Code)
	assert.Equal(t, 2, history[1].AttemptNumber)
	assert.Equal(t, "insufficient_funds", history[1].Code)
	assert.NotNil(t, done.ConfirmedAt())
	assert.NotNil(t, done.ProcessingDuration())

	subs := f.store.Subscriptions()
	require.Len(t, subs, 1)
	assert.Equal(t, subs[0].ID(), *done.UnlockedResourceID())
	assert.Equal(t, third.ID(), subs[0].PaymentAttemptID())

	stored := f.store.Attempt(first.ID())
	require.NotNil(t, stored.RetriedByID())
	assert.Equal(t, second.ID(), *stored.RetriedByID())
}

func TestPayment_SubscriptionCouponLifecycle(t *testing.T) {
	f := newFixture(t)
	planID := f.seedPlan()
	c := f.seedCoupon(func(b *builder.CouponBuilder) {
		b.WithMinOrderTotal("0").WithPlan(planID, "monthly").WithDurationMonths(3)
	})
	ctx := context.Background()

	a := f.openSubscription(t, planID, "spring10")
	assert.Equal(t, "49.00", money.Format(a.Amounts().Base))
	assert.Equal(t, "4.90", money.Format(a.Amounts().Discount))
	assert.Equal(t, "44.10", money.Format(a.Amounts().Final))
	require.NotNil(t, a.ReservationID())
	res := f.store.Reservation(*a.ReservationID())
	assert.Equal(t, coupon.HolderPayment, res.Holder())
	assert.Equal(t, a.ID(), res.HolderID())

	f.process(t, a.ID())
	_, err := f.payments.Succeed(ctx, commands.SucceedRequest{TenantID: f.tenantID, AttemptID: a.ID(), Payload: gatewayOK})
	require.NoError(t, err)

	assert.Equal(t, coupon.ReservationConsumed, f.store.Reservation(*a.ReservationID()).Status())
	usages := f.store.Usages()
	require.Len(t, usages, 1)
	u := usages[0]
	assert.Equal(t, "owner@example.com", u.Redeemer())
	assert.Equal(t, planID, *u.PlanID())
	assert.Equal(t, "monthly", *u.BillingCycle())
	require.NotNil(t, u.ExpiresAt())
	assert.Equal(t, baseTime.AddDate(0, 3, 0), *u.ExpiresAt())
	assert.Equal(t, 1, f.store.Coupon(c.ID()).UsedCount())

	f.clock.Set(baseTime.AddDate(0, 4, 0))
	n, err := f.coupons.ExpireUsages(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, coupon.UsageExpired, f.store.Usages()[0].Status())
}

func TestPayment_OpenConflictReleasesCoupon(t *testing.T) {
	f := newFixture(t)
	planID := f.seedPlan()
	c := f.seedCoupon(func(b *builder.CouponBuilder) { b.WithMinOrderTotal("0") })

	f.openSubscription(t, planID, "")

	_, err := f.payments.OpenSubscription(context.Background(), commands.OpenSubscriptionRequest{
		TenantID:     f.tenantID,
		PlanID:       planID,
		BillingCycle: "monthly",
		Method:       "card",
		CouponCode:   "SPRING10",
	})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrConflict))
	assert.Equal(t, 0, f.store.Coupon(c.ID()).UsedCount())

	// A different cycle is a different billing key.
	_, err = f.payments.OpenSubscription(context.Background(), commands.OpenSubscriptionRequest{
		TenantID:     f.tenantID,
		PlanID:       planID,
		BillingCycle: "yearly",
		Method:       "card",
	})
	assert.NoError(t, err)
}

func TestPayment_CancelReleasesReservation(t *testing.T) {
	f := newFixture(t)
	planID := f.seedPlan()
	c := f.seedCoupon(func(b *builder.CouponBuilder) { b.WithMinOrderTotal("0") })
	ctx := context.Background()

	a := f.openSubscription(t, planID, "SPRING10")
	assert.Equal(t, 1, f.store.Coupon(c.ID()).UsedCount())

	cancelled, err := f.payments.Cancel(ctx, commands.CancelRequest{TenantID: f.tenantID, AttemptID: a.ID(), Reason: "user left"})
	require.NoError(t, err)
	assert.Equal(t, payment.StatusCancelled, cancelled.Status())
	assert.Equal(t, 0, f.store.Coupon(c.ID()).UsedCount())
	assert.Equal(t, coupon.ReservationReleased, f.store.Reservation(*a.ReservationID()).Status())

	_, err = f.payments.Cancel(ctx, commands.CancelRequest{TenantID: f.tenantID, AttemptID: a.ID()})
	assert.True(t, errs.Is(err, errs.ErrConflict))
	_, err = f.payments.StartProcessing(ctx, f.tenantID, a.ID())
	assert.True(t, errs.Is(err, errs.ErrConflict))
}

func TestPayment_IllegalTransitions(t *testing.T) {
	f := newFixture(t)
	planID := f.seedPlan()
	ctx := context.Background()
	a := f.openSubscription(t, planID, "")

	_, err := f.payments.Succeed(ctx, commands.SucceedRequest{TenantID: f.tenantID, AttemptID: a.ID(), Payload: gatewayOK})
	assert.True(t, errs.Is(err, errs.ErrConflict), "succeed from pending")

	_, err = f.payments.Retry(ctx, f.tenantID, a.ID())
	assert.True(t, errs.Is(err, errs.ErrConflict), "retry from pending")

	f.process(t, a.ID())
	_, err = f.payments.Succeed(ctx, commands.SucceedRequest{TenantID: f.tenantID, AttemptID: a.ID()})
	assert.True(t, errs.Is(err, errs.ErrValidation), "succeed without payload")

	_, err = f.payments.Fail(ctx, commands.FailRequest{TenantID: f.tenantID, AttemptID: a.ID()})
	assert.True(t, errs.Is(err, errs.ErrValidation), "fail without code")

	f.fail(t, a.ID(), "card_declined")
	f.retryAttempt(t, a.ID())
	_, err = f.payments.Retry(ctx, f.tenantID, a.ID())
	assert.True(t, errs.Is(err, errs.ErrConflict), "second retry")

	_, err = f.payments.StartProcessing(ctx, uuid.New(), a.ID())
	assert.True(t, errs.Is(err, errs.ErrNotFound), "other tenant")
}

func TestPayment_OpenForOrder(t *testing.T) {
	f := newFixture(t)
	f.seedCoupon(nil)
	ctx := context.Background()

	o, err := f.orders.PlaceOrder(ctx, f.orderRequest("SPRING10"))
	require.NoError(t, err)

	a, err := f.payments.OpenForOrder(ctx, commands.OpenForOrderRequest{TenantID: f.tenantID, OrderID: o.ID(), Method: "bank_transfer"})
	require.NoError(t, err)
	assert.Equal(t, "105.00", money.Format(a.Amounts().Base))
	assert.Equal(t, "10.00", money.Format(a.Amounts().Discount))
	assert.Equal(t, "95.00", money.Format(a.Amounts().Final))
	assert.Nil(t, a.ReservationID())

	f.process(t, a.ID())
	done, err := f.payments.Succeed(ctx, commands.SucceedRequest{TenantID: f.tenantID, AttemptID: a.ID(), Payload: gatewayOK})
	require.NoError(t, err)

	assert.Equal(t, o.ID(), *done.UnlockedResourceID())
	assert.Equal(t, order.StatusConfirmed, f.store.Order(o.ID()).Status())
	assert.Len(t, f.store.Usages(), 1)

	_, err = f.payments.OpenForOrder(ctx, commands.OpenForOrderRequest{TenantID: f.tenantID, OrderID: uuid.New(), Method: "card"})
	assert.True(t, errs.Is(err, errs.ErrNotFound))
}

func TestPayment_RetryCarriesReservation(t *testing.T) {
	f := newFixture(t)
	planID := f.seedPlan()
	c := f.seedCoupon(func(b *builder.CouponBuilder) { b.WithMinOrderTotal("0") })
	ctx := context.Background()

	a := f.openSubscription(t, planID, "SPRING10")
	f.store.ExpireReservation(*a.ReservationID())

	n, err := f.coupons.ReleaseExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "held by an open attempt")

	f.process(t, a.ID())
	f.fail(t, a.ID(), "card_declined")
	next := f.retryAttempt(t, a.ID())

	require.NotNil(t, next.ReservationID())
	assert.Equal(t, *a.ReservationID(), *next.ReservationID())
	assert.Equal(t, "4.90", money.Format(next.Amounts().Discount))
	res := f.store.Reservation(*next.ReservationID())
	assert.Equal(t, next.ID(), res.HolderID())
	assert.True(t, res.ExpiresAt().After(baseTime))

	f.process(t, next.ID())
	_, err = f.payments.Succeed(ctx, commands.SucceedRequest{TenantID: f.tenantID, AttemptID: next.ID(), Payload: gatewayOK})
	require.NoError(t, err)
	assert.Len(t, f.store.Usages(), 1)
	assert.Equal(t, 1, f.store.Coupon(c.ID()).UsedCount())
}

func TestPayment_SucceedAfterJanitorReleaseRecordsNoUsage(t *testing.T) {
	f := newFixture(t)
	planID := f.seedPlan()
	c := f.seedCoupon(func(b *builder.CouponBuilder) { b.WithMinOrderTotal("0") })
	ctx := context.Background()

	a := f.openSubscription(t, planID, "SPRING10")
	f.process(t, a.ID())
	f.fail(t, a.ID(), "card_declined")

	f.store.ExpireReservation(*a.ReservationID())
	n, err := f.coupons.ReleaseExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	next := f.retryAttempt(t, a.ID())
	f.process(t, next.ID())
	_, err = f.payments.Succeed(ctx, commands.SucceedRequest{TenantID: f.tenantID, AttemptID: next.ID(), Payload: gatewayOK})
	require.NoError(t, err)

	assert.Empty(t, f.store.Usages())
	assert.Equal(t, 0, f.store.Coupon(c.ID()).UsedCount())
}
