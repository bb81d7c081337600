//go:build unit

package commands_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"retail-core/internal/domain/coupon"
	"retail-core/internal/domain/money"
	"retail-core/internal/domain/order"
	"retail-core/internal/infra"
	"retail-core/internal/pkg/config"
	"retail-core/internal/pkg/errs"
	"retail-core/internal/usecase/commands"
	"retail-core/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) orderRequest(couponCode string, items ...commands.LineItemInput) commands.PlaceOrderRequest {
	if len(items) == 0 {
		items = []commands.LineItemInput{
			{ProductID: "tea-001", UnitPrice: money.MustParse("25.00"), Quantity: 2},
			{ProductID: "cup-002", UnitPrice: money.MustParse("50.00"), Quantity: 1},
		}
	}
	return commands.PlaceOrderRequest{
		PricingRequest: commands.PricingRequest{
			TenantID:    f.tenantID,
			Items:       items,
			CouponCode:  couponCode,
			DeliveryFee: money.MustParse("5.00"),
		},
		Customer:      order.Customer{Name: "Kim Lee", Email: "kim@example.com", Phone: "+15550101"},
		PaymentMethod: "card",
	}
}

func TestPlaceOrder_WithCoupon(t *testing.T) {
	f := newFixture(t)
	c := f.seedCoupon(nil)

	o, err := f.orders.PlaceOrder(context.Background(), f.orderRequest("spring10"))
	require.NoError(t, err)

	assert.Equal(t, "100.00", money.Format(o.Subtotal()))
	assert.Equal(t, "10.00", money.Format(o.Discount()))
	assert.Equal(t, "95.00", money.Format(o.Total()))
	assert.True(t, o.Pricing().CouponApplied)
	require.NotNil(t, o.CouponCode())
	assert.Equal(t, "SPRING10", *o.CouponCode())

	require.NotNil(t, f.store.Order(o.ID()))
	assert.Equal(t, 1, f.store.Coupon(c.ID()).UsedCount())
	assert.Equal(t, coupon.ReservationConsumed, f.store.Reservation(*o.ReservationID()).Status())

	usages := f.store.Usages()
	require.Len(t, usages, 1)
	assert.Equal(t, "kim@example.com", usages[0].Redeemer())
	assert.Equal(t, "10.00", money.Format(usages[0].Discount()))
	assert.Equal(t, "90.00", money.Format(usages[0].FinalPrice()))
}

func TestPlaceOrder_CouponFailurePolicy(t *testing.T) {
	below := []commands.LineItemInput{{ProductID: "tea-001", UnitPrice: money.MustParse("30.00"), Quantity: 1}}

	tests := []struct {
		name     string
		policy   config.CouponFailurePolicy
		mutate   func(*builder.CouponBuilder)
		items    []commands.LineItemInput
		wantKind error
		wantSub  string
	}{
		{name: "degrade below minimum", policy: config.CouponPolicyDegrade, items: below, wantSub: "30.00"},
		{name: "reject below minimum", policy: config.CouponPolicyReject, items: below, wantKind: errs.ErrValidation},
		{
			name:    "degrade exhausted",
			policy:  config.CouponPolicyDegrade,
			mutate:  func(b *builder.CouponBuilder) { b.WithMaxUses(3, 3) },
			wantSub: "100.00",
		},
		{
			name:     "reject exhausted",
			policy:   config.CouponPolicyReject,
			mutate:   func(b *builder.CouponBuilder) { b.WithMaxUses(3, 3) },
			wantKind: errs.ErrExhausted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, withPolicy(tt.policy))
			f.seedCoupon(tt.mutate)

			o, err := f.orders.PlaceOrder(context.Background(), f.orderRequest("SPRING10", tt.items...))

			if tt.wantKind != nil {
				require.Error(t, err)
				assert.True(t, errs.Is(err, tt.wantKind))
				assert.True(t, errs.Is(err, errs.ErrCouponNotApplicable))
				assert.Equal(t, 0, f.store.OrderCount())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSub, money.Format(o.Subtotal()))
			assert.True(t, o.Discount().IsZero())
			assert.False(t, o.Pricing().CouponApplied)
			assert.Nil(t, o.CouponCode())
			assert.Empty(t, f.store.Usages())
		})
	}
}

func TestPlaceOrder_WriteFailureReleasesReservation(t *testing.T) {
	f := newFixture(t)
	c := f.seedCoupon(nil)
	for i := 0; i < 3; i++ {
		f.store.FailNext("orders.create", infra.WrapRepoErr("insert order", errors.New("connection reset")))
	}

	_, err := f.orders.PlaceOrder(context.Background(), f.orderRequest("SPRING10"))
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrInternal))

	assert.Equal(t, 0, f.store.OrderCount())
	assert.Equal(t, 0, f.store.Coupon(c.ID()).UsedCount())
	reservations := f.store.Reservations()
	require.Len(t, reservations, 1)
	assert.Equal(t, coupon.ReservationReleased, reservations[0].Status())
}

func TestPlaceOrder_LostCommitAcknowledgement(t *testing.T) {
	f := newFixture(t)
	c := f.seedCoupon(nil)
	// Commits: coupon lookup, reserve, then the order transaction.
	f.store.LoseAck(3, infra.WrapRepoErr("commit", context.DeadlineExceeded))

	o, err := f.orders.PlaceOrder(context.Background(), f.orderRequest("SPRING10"))
	require.NoError(t, err)

	assert.NotNil(t, f.store.Order(o.ID()))
	assert.Equal(t, 1, f.store.Coupon(c.ID()).UsedCount())
	assert.Len(t, f.store.Usages(), 1)
	assert.Equal(t, coupon.ReservationConsumed, f.store.Reservation(*o.ReservationID()).Status())
}

func TestPlaceOrder_FailedCommitIsRetried(t *testing.T) {
	f := newFixture(t)
	f.store.FailNext("commit", infra.WrapRepoErr("commit transaction", io.ErrUnexpectedEOF))

	o, err := f.orders.PlaceOrder(context.Background(), f.orderRequest(""))
	require.NoError(t, err)

	assert.NotNil(t, f.store.Order(o.ID()))
	assert.Equal(t, 1, f.store.OrderCount())
	assert.Equal(t, 1, f.store.Commits())
}

func TestPlaceOrder_FullyDiscountedTotalIsZero(t *testing.T) {
	f := newFixture(t)
	f.seedCoupon(func(b *builder.CouponBuilder) { b.WithFixed("100.00").WithMinOrderTotal("0") })

	req := f.orderRequest("SPRING10", commands.LineItemInput{ProductID: "tea-001", UnitPrice: money.MustParse("40.00"), Quantity: 1})
	req.DeliveryFee = money.Zero

	o, err := f.orders.PlaceOrder(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "40.00", money.Format(o.Discount()))
	assert.Equal(t, "0.00", money.Format(o.Total()))
}

func TestPlaceOrder_InvalidItems(t *testing.T) {
	f := newFixture(t)

	_, err := f.orders.PlaceOrder(context.Background(), f.orderRequest("",
		commands.LineItemInput{ProductID: "tea-001", UnitPrice: money.MustParse("10.00"), Quantity: 0}))
	assert.True(t, errs.Is(err, errs.ErrValidation))

	_, err = f.orders.PlaceOrder(context.Background(), commands.PlaceOrderRequest{PricingRequest: commands.PricingRequest{TenantID: f.tenantID}})
	assert.True(t, errs.Is(err, errs.ErrValidation))
}

func TestQuote_DoesNotReserve(t *testing.T) {
	f := newFixture(t)
	c := f.seedCoupon(nil)

	p, err := f.orders.Quote(context.Background(), f.orderRequest("SPRING10").PricingRequest)
	require.NoError(t, err)

	assert.Equal(t, "10.00", money.Format(p.Discount))
	assert.Equal(t, "95.00", money.Format(p.Total))
	assert.Equal(t, 0, f.store.Coupon(c.ID()).UsedCount())
	assert.Empty(t, f.store.Reservations())
	assert.Equal(t, 0, f.store.OrderCount())
}
