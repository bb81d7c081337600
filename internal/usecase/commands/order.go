package commands

import (
	"context"
	"strings"

	"retail-core/internal/domain/coupon"
	"retail-core/internal/domain/order"
	"retail-core/internal/infra"
	"retail-core/internal/metrics"
	"retail-core/internal/pkg/clock"
	"retail-core/internal/pkg/config"
	"retail-core/internal/pkg/errs"
	"retail-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LineItemInput struct {
	ProductID string
	UnitPrice decimal.Decimal
	Quantity  int
}

type PricingRequest struct {
	TenantID    uuid.UUID
	Items       []LineItemInput
	CouponCode  string
	DeliveryFee decimal.Decimal
}

type PlaceOrderRequest struct {
	PricingRequest
	Customer      order.Customer
	PaymentMethod string
}

type OrderCommands interface {
	// Quote prices a cart without reserving the coupon or writing anything.
	Quote(ctx context.Context, req PricingRequest) (order.Pricing, error)
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*order.Order, error)
}

type orderUseCaseImpl struct {
	couponSaga
	uow   shared.UnitOfWork
	retry shared.RetryPolicy
	clock clock.Clock
}

func NewOrderUseCase(
	uow shared.UnitOfWork,
	coupons CouponCommands,
	retry shared.RetryPolicy,
	clk clock.Clock,
	cfg config.CheckoutConfig,
) OrderCommands {
	return &orderUseCaseImpl{
		couponSaga: couponSaga{coupons: coupons, policy: cfg.CouponFailurePolicy},
		uow:        uow,
		retry:      retry,
		clock:      clk,
	}
}

func buildItems(in []LineItemInput) ([]order.LineItem, error) {
	items := make([]order.LineItem, 0, len(in))
	for _, li := range in {
		item, err := order.NewLineItem(li.ProductID, li.UnitPrice, li.Quantity)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrValidation)
		}
		items = append(items, item)
	}
	return items, nil
}

func priceRequest(req PricingRequest) ([]order.LineItem, order.Pricing, error) {
	if req.TenantID == uuid.Nil {
		return nil, order.Pricing{}, errs.Mark(order.ErrInvalidTenant, errs.ErrValidation)
	}
	items, err := buildItems(req.Items)
	if err != nil {
		return nil, order.Pricing{}, err
	}
	pricing, err := order.Price(items, req.DeliveryFee)
	if err != nil {
		return nil, order.Pricing{}, errs.Mark(err, errs.ErrValidation)
	}
	return items, pricing, nil
}

func (uc *orderUseCaseImpl) Quote(ctx context.Context, req PricingRequest) (order.Pricing, error) {
	_, pricing, err := priceRequest(req)
	if err != nil {
		return order.Pricing{}, err
	}
	code := strings.TrimSpace(req.CouponCode)
	if code == "" {
		return pricing, nil
	}

	quote, err := uc.coupons.Validate(ctx, ValidateCouponRequest{
		TenantID: req.TenantID,
		Code:     code,
		Subtotal: pricing.Subtotal,
	})
	if err != nil {
		if uc.degrade(err) {
			return pricing, nil
		}
		return order.Pricing{}, err
	}
	return pricing.ApplyDiscount(quote.Discount), nil
}

func (uc *orderUseCaseImpl) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*order.Order, error) {
	items, pricing, err := priceRequest(req.PricingRequest)
	if err != nil {
		return nil, err
	}

	orderID := uuid.New()
	code := strings.TrimSpace(req.CouponCode)

	var res *coupon.Reservation
	if code != "" {
		res, err = uc.reserve(ctx, ValidateCouponRequest{
			TenantID: req.TenantID,
			Code:     code,
			Subtotal: pricing.Subtotal,
		}, coupon.HolderOrder, orderID)
		if err != nil {
			return nil, err
		}
	}

	var couponCode *string
	var reservationID *uuid.UUID
	if res != nil {
		pricing = pricing.ApplyDiscount(res.Discount())
		id := res.ID()
		reservationID = &id
		normalized := strings.ToUpper(code)
		couponCode = &normalized
	}

	o, err := order.NewOrder(orderID, req.TenantID, items, pricing, couponCode, reservationID, req.Customer, req.PaymentMethod, uc.clock.Now())
	if err != nil {
		uc.compensate(ctx, res)
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	err = uc.retry.Do(ctx, func(ctx context.Context) error {
		return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			if err := tx.Orders().Create(ctx, o); err != nil {
				return err
			}
			if res == nil {
				return nil
			}
			_, err := uc.coupons.Consume(ctx, tx, res.ID(), coupon.UsageParams{
				Redeemer:      redeemerFor(o),
				OriginalPrice: pricing.Subtotal,
			})
			return err
		})
	})
	// An earlier attempt committed but its acknowledgement was lost.
	if infra.IsKind(err, infra.KindDuplicateKey) {
		err = nil
	}
	if err != nil {
		uc.compensate(ctx, res)
		return nil, shared.Classify(err)
	}

	label := "none"
	if pricing.CouponApplied {
		label = "applied"
	}
	metrics.OrdersPlacedTotal.WithLabelValues(label).Inc()
	return o, nil
}

func redeemerFor(o *order.Order) string {
	if email := strings.TrimSpace(o.Customer().Email); email != "" {
		return email
	}
	return "order:" + o.ID().String()
}
