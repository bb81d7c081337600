package commands

import (
	"context"
	"log/slog"

	"retail-core/internal/domain/coupon"
	"retail-core/internal/pkg/config"
	"retail-core/internal/pkg/errs"

	"github.com/google/uuid"
)

// couponSaga reserves a coupon for a holder and releases it when the holder is not written.
type couponSaga struct {
	coupons CouponCommands
	policy  config.CouponFailurePolicy
}

// degrade reports whether a coupon failure lets the purchase continue at full price.
// Store failures never degrade.
func (s couponSaga) degrade(err error) bool {
	return s.policy == config.CouponPolicyDegrade && errs.Is(err, errs.ErrCouponNotApplicable)
}

// reserve returns nil without error when the coupon is skipped under the degrade policy.
func (s couponSaga) reserve(ctx context.Context, req ValidateCouponRequest, holder coupon.HolderKind, holderID uuid.UUID) (*coupon.Reservation, error) {
	quote, err := s.coupons.Validate(ctx, req)
	if err != nil {
		if s.degrade(err) {
			slog.Info("continuing without coupon", "holder", holder, "holder_id", holderID, "error", err.Error())
			return nil, nil
		}
		return nil, err
	}

	res, err := s.coupons.Reserve(ctx, ReserveCouponRequest{
		Quote:    *quote,
		Holder:   holder,
		HolderID: holderID,
	})
	if err == nil {
		return res, nil
	}
	if s.degrade(err) {
		slog.Info("continuing without coupon", "holder", holder, "holder_id", holderID, "error", err.Error())
		return nil, nil
	}
	if errs.Is(err, errs.ErrInternal) {
		// The reserve may have committed before the failure surfaced.
		s.releaseToken(ctx, quote.Token)
	}
	return nil, err
}

func (s couponSaga) compensate(ctx context.Context, res *coupon.Reservation) {
	if res == nil {
		return
	}
	s.releaseToken(ctx, res.ID())
}

func (s couponSaga) releaseToken(ctx context.Context, token uuid.UUID) {
	cctx, cancel := compensationContext(ctx)
	defer cancel()
	if err := s.coupons.Release(cctx, token); err != nil {
		// The janitor releases it once the reservation expires.
		slog.Error("coupon release failed", "reservation_id", token, "error", err.Error())
	}
}
