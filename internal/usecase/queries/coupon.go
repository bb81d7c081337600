package queries

import (
	"context"

	"retail-core/internal/domain/coupon"
	"retail-core/internal/infra"
	"retail-core/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrCouponNotFound = errs.Mark(errs.New("coupon not found"), errs.ErrNotFound)

type CouponReadStore interface {
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*CouponView, error)
}

// CouponInvalidator is implemented by read stores that keep copies of coupon views.
type CouponInvalidator interface {
	Invalidate(ctx context.Context, tenantID uuid.UUID, code string) error
}

type CouponQueries interface {
	Lookup(ctx context.Context, tenantID uuid.UUID, code string) (*CouponView, error)
	// Forget drops any cached view so the next lookup sees the ledger.
	Forget(ctx context.Context, tenantID uuid.UUID, code string) error
}

type couponQueriesImpl struct {
	readStore CouponReadStore
}

func NewCouponQueries(readStore CouponReadStore) CouponQueries {
	return &couponQueriesImpl{readStore: readStore}
}

// Lookup hides inactive coupons behind the same not-found answer as unknown codes.
func (q *couponQueriesImpl) Lookup(ctx context.Context, tenantID uuid.UUID, code string) (*CouponView, error) {
	normalized, err := coupon.NewCouponCode(code)
	if err != nil {
		return nil, ErrCouponNotFound
	}

	view, err := q.readStore.FindByCode(ctx, tenantID, normalized.String())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, errs.Mark(err, errs.ErrInternal)
	}
	if !view.Active {
		return nil, ErrCouponNotFound
	}
	return view, nil
}

func (q *couponQueriesImpl) Forget(ctx context.Context, tenantID uuid.UUID, code string) error {
	inv, ok := q.readStore.(CouponInvalidator)
	if !ok {
		return nil
	}
	normalized, err := coupon.NewCouponCode(code)
	if err != nil {
		return nil
	}
	return inv.Invalidate(ctx, tenantID, normalized.String())
}
