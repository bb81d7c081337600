//go:build unit

package commands_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"retail-core/internal/domain/coupon"
	"retail-core/internal/domain/money"
	"retail-core/internal/infra"
	"retail-core/internal/pkg/errs"
	"retail-core/internal/usecase/commands"
	"retail-core/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func (f *fixture) seedCoupon(mutate func(*builder.CouponBuilder)) *coupon.Coupon {
	b := builder.NewCouponBuilder().WithTenant(f.tenantID)
	if mutate != nil {
		b.With(mutate)
	}
	c := b.MustBuildStored()
	f.store.SeedCoupon(c)
	return c
}

func (f *fixture) validate(t *testing.T, code, subtotal string) *commands.CouponQuote {
	t.Helper()
	q, err := f.coupons.Validate(context.Background(), commands.ValidateCouponRequest{
		TenantID: f.tenantID,
		Code:     code,
		Subtotal: money.MustParse(subtotal),
	})
	require.NoError(t, err)
	return q
}

func TestCouponValidate(t *testing.T) {
	planID := uuid.New()

	tests := []struct {
		name         string
		mutate       func(*builder.CouponBuilder)
		code         string
		subtotal     string
		tenant       func(f *fixture) uuid.UUID
		wantDiscount string
		wantKind     error
	}{
		{
			name:         "percentage of subtotal",
			code:         "SPRING10",
			subtotal:     "100.00",
			wantDiscount: "10.00",
		},
		{
			name:         "code is case-insensitive",
			code:         "spring10",
			subtotal:     "100.00",
			wantDiscount: "10.00",
		},
		{
			name:         "fixed amount capped at subtotal",
			mutate:       func(b *builder.CouponBuilder) { b.WithFixed("80.00").WithMinOrderTotal("0") },
			code:         "SPRING10",
			subtotal:     "60.00",
			wantDiscount: "60.00",
		},
		{
			name:     "below minimum order total",
			code:     "SPRING10",
			subtotal: "30.00",
			wantKind: errs.ErrValidation,
		},
		{
			name:     "unknown code",
			code:     "NOPE99",
			subtotal: "100.00",
			wantKind: errs.ErrValidation,
		},
		{
			name:     "other tenant's coupon",
			code:     "SPRING10",
			subtotal: "100.00",
			tenant:   func(*fixture) uuid.UUID { return uuid.New() },
			wantKind: errs.ErrValidation,
		},
		{
			name:     "inactive",
			mutate:   func(b *builder.CouponBuilder) { b.Inactive() },
			code:     "SPRING10",
			subtotal: "100.00",
			wantKind: errs.ErrValidation,
		},
		{
			name: "window over",
			mutate: func(b *builder.CouponBuilder) {
				starts, ends := baseTime.AddDate(0, -2, 0), baseTime.AddDate(0, 0, -1)
				b.WithWindow(&starts, &ends)
			},
			code:     "SPRING10",
			subtotal: "100.00",
			wantKind: errs.ErrValidation,
		},
		{
			name:     "exhausted",
			mutate:   func(b *builder.CouponBuilder) { b.WithMaxUses(1, 1) },
			code:     "SPRING10",
			subtotal: "100.00",
			wantKind: errs.ErrExhausted,
		},
		{
			name:     "plan coupon on a cart",
			mutate:   func(b *builder.CouponBuilder) { b.WithPlan(planID, "monthly") },
			code:     "SPRING10",
			subtotal: "100.00",
			wantKind: errs.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.seedCoupon(tt.mutate)

			tenant := f.tenantID
			if tt.tenant != nil {
				tenant = tt.tenant(f)
			}
			q, err := f.coupons.Validate(context.Background(), commands.ValidateCouponRequest{
				TenantID: tenant,
				Code:     tt.code,
				Subtotal: money.MustParse(tt.subtotal),
			})

			if tt.wantKind != nil {
				require.Error(t, err)
				assert.True(t, errs.Is(err, tt.wantKind), "got %v", err)
				assert.True(t, errs.Is(err, errs.ErrCouponNotApplicable))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDiscount, money.Format(q.Discount))
			assert.NotEqual(t, uuid.Nil, q.Token)
		})
	}
}

func TestCouponReserve_ConcurrentClaimsNeverExceedMaxUses(t *testing.T) {
	tests := []struct {
		name    string
		maxUses int
		callers int
	}{
		{name: "five slots, twenty callers", maxUses: 5, callers: 20},
		{name: "single slot, two callers", maxUses: 1, callers: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			c := f.seedCoupon(func(b *builder.CouponBuilder) { b.WithMaxUses(tt.maxUses, 0) })

			var reserved, exhausted atomic.Int32
			var g errgroup.Group
			for i := 0; i < tt.callers; i++ {
				g.Go(func() error {
					ctx := context.Background()
					q, err := f.coupons.Validate(ctx, commands.ValidateCouponRequest{
						TenantID: f.tenantID,
						Code:     "SPRING10",
						Subtotal: money.MustParse("100.00"),
					})
					if err == nil {
						_, err = f.coupons.Reserve(ctx, commands.ReserveCouponRequest{
							Quote:    *q,
							Holder:   coupon.HolderOrder,
							HolderID: uuid.New(),
						})
					}
					switch {
					case err == nil:
						reserved.Add(1)
					case errs.Is(err, errs.ErrExhausted):
						exhausted.Add(1)
					default:
						return err
					}
					return nil
				})
			}
			require.NoError(t, g.Wait())

			assert.Equal(t, int32(tt.maxUses), reserved.Load())
			assert.Equal(t, int32(tt.callers-tt.maxUses), exhausted.Load())
			assert.Equal(t, tt.maxUses, f.store.Coupon(c.ID()).UsedCount())
		})
	}
}

func TestCouponReserve(t *testing.T) {
	t.Run("replayed reserve returns the same reservation", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedCoupon(nil)
		q := f.validate(t, "SPRING10", "100.00")
		req := commands.ReserveCouponRequest{Quote: *q, Holder: coupon.HolderOrder, HolderID: uuid.New()}

		first, err := f.coupons.Reserve(context.Background(), req)
		require.NoError(t, err)
		second, err := f.coupons.Reserve(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, first.ID(), second.ID())
		assert.Equal(t, 1, f.store.Coupon(c.ID()).UsedCount())
	})

	t.Run("transient store failure is retried", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedCoupon(nil)
		q := f.validate(t, "SPRING10", "100.00")
		f.store.FailNext("coupons.incrementUsage", infra.WrapRepoErr("increment", errors.New("connection reset")))

		res, err := f.coupons.Reserve(context.Background(), commands.ReserveCouponRequest{
			Quote: *q, Holder: coupon.HolderOrder, HolderID: uuid.New(),
		})
		require.NoError(t, err)
		assert.Equal(t, coupon.ReservationReserved, res.Status())
		assert.Equal(t, 1, f.store.Coupon(c.ID()).UsedCount())
	})

	t.Run("timeouts surface as internal, never as exhausted", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedCoupon(nil)
		q := f.validate(t, "SPRING10", "100.00")
		for i := 0; i < 3; i++ {
			f.store.FailNext("coupons.incrementUsage", infra.WrapRepoErr("increment", context.DeadlineExceeded))
		}

		_, err := f.coupons.Reserve(context.Background(), commands.ReserveCouponRequest{
			Quote: *q, Holder: coupon.HolderOrder, HolderID: uuid.New(),
		})
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrInternal))
		assert.False(t, errs.Is(err, errs.ErrExhausted))
		assert.Equal(t, 0, f.store.Coupon(c.ID()).UsedCount())
	})
}

func TestCouponRelease(t *testing.T) {
	reserve := func(t *testing.T, f *fixture) *coupon.Reservation {
		t.Helper()
		q := f.validate(t, "SPRING10", "100.00")
		res, err := f.coupons.Reserve(context.Background(), commands.ReserveCouponRequest{
			Quote: *q, Holder: coupon.HolderOrder, HolderID: uuid.New(),
		})
		require.NoError(t, err)
		return res
	}

	t.Run("release is idempotent", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedCoupon(nil)
		res := reserve(t, f)

		require.NoError(t, f.coupons.Release(context.Background(), res.ID()))
		require.NoError(t, f.coupons.Release(context.Background(), res.ID()))

		assert.Equal(t, 0, f.store.Coupon(c.ID()).UsedCount())
		assert.Equal(t, coupon.ReservationReleased, f.store.Reservation(res.ID()).Status())
	})

	t.Run("unknown token is a no-op", func(t *testing.T) {
		f := newFixture(t)
		assert.NoError(t, f.coupons.Release(context.Background(), uuid.New()))
	})

	t.Run("janitor releases expired reservations", func(t *testing.T) {
		f := newFixture(t)
		c := f.seedCoupon(nil)
		res := reserve(t, f)
		kept := reserve(t, f)
		f.store.ExpireReservation(res.ID())

		n, err := f.coupons.ReleaseExpired(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 1, n)
		assert.Equal(t, coupon.ReservationReleased, f.store.Reservation(res.ID()).Status())
		assert.Equal(t, coupon.ReservationReserved, f.store.Reservation(kept.ID()).Status())
		assert.Equal(t, 1, f.store.Coupon(c.ID()).UsedCount())
	})

	t.Run("caller context ending stops the retry loop", func(t *testing.T) {
		f := newFixture(t)
		f.seedCoupon(nil)
		res := reserve(t, f)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		for i := 0; i < 1000; i++ {
			f.store.FailNext("reservations.transition", infra.WrapRepoErr("transition", errors.New("connection refused")))
		}

		err := f.coupons.Release(ctx, res.ID())
		assert.Error(t, err)
		assert.Equal(t, coupon.ReservationReserved, f.store.Reservation(res.ID()).Status())
	})
}

func TestCouponCreateAndDeactivate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.coupons.Create(ctx, commands.CreateCouponRequest{
		TenantID:      f.tenantID,
		Code:          "welcome5",
		Title:         "Welcome",
		Kind:          string(coupon.KindFixed),
		Value:         money.MustParse("5.00"),
		MinOrderTotal: money.Zero,
	})
	require.NoError(t, err)
	assert.Equal(t, coupon.Code("WELCOME5"), f.store.Coupon(id).Code())

	_, err = f.coupons.Create(ctx, commands.CreateCouponRequest{
		TenantID: f.tenantID,
		Code:     "WELCOME5",
		Kind:     string(coupon.KindFixed),
		Value:    money.MustParse("5.00"),
	})
	assert.True(t, errs.Is(err, errs.ErrConflict))

	_, err = f.coupons.Create(ctx, commands.CreateCouponRequest{
		TenantID: f.tenantID,
		Code:     "BAD50",
		Kind:     string(coupon.KindPercentage),
		Value:    money.MustParse("150"),
	})
	assert.True(t, errs.Is(err, errs.ErrValidation))

	require.NoError(t, f.coupons.Deactivate(ctx, f.tenantID, "welcome5"))
	assert.False(t, f.store.Coupon(id).IsActive())
	assert.True(t, errs.Is(f.coupons.Deactivate(ctx, f.tenantID, "MISSING1"), errs.ErrNotFound))
}
