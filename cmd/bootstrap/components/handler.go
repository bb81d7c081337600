package components

import (
	"retail-core/internal/handler"
	"retail-core/internal/handler/api"
	"retail-core/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewOrderHandler,
		api.NewCouponHandler,
		api.NewPaymentHandler,
		api.NewVerificationHandler,
		middleware.NewAuthMiddleware,
		NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

type handlerParams struct {
	fx.In

	Orders        *api.OrderHandler
	Coupons       *api.CouponHandler
	Payments      *api.PaymentHandler
	Verifications *api.VerificationHandler
}

func NewHandlers(p handlerParams) handler.Handlers {
	return handler.Handlers{
		Orders:        p.Orders,
		Coupons:       p.Coupons,
		Payments:      p.Payments,
		Verifications: p.Verifications,
	}
}
