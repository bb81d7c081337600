package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"retail-core/internal/domain/user"
	"retail-core/internal/handler/api"
	"retail-core/internal/handler/middleware"
	"retail-core/internal/metrics"
	"retail-core/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Orders        *api.OrderHandler
	Coupons       *api.CouponHandler
	Payments      *api.PaymentHandler
	Verifications *api.VerificationHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, h, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(metrics.Middleware())
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", metrics.Handler())

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		// Signup runs before any tenant user exists, so the tenant comes in the body.
		signup := apiGroup.Group("/signup/verifications")
		addRoutes(signup, []route{
			{Method: http.MethodPost, Path: "", Handler: h.Verifications.Start},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Verifications.Status},
			{Method: http.MethodPost, Path: "/:id/check", Handler: h.Verifications.Check},
			{Method: http.MethodPost, Path: "/:id/resend", Handler: h.Verifications.Resend},
			{Method: http.MethodPost, Path: "/:id/promote", Handler: h.Verifications.Promote},
		})

		orders := apiGroup.Group("/orders")
		orders.Use(authMiddleware.RequireTenant())
		addRoutes(orders, []route{
			{Method: http.MethodPost, Path: "/quote", Handler: h.Orders.Quote},
			{Method: http.MethodPost, Path: "", Handler: h.Orders.PlaceOrder},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Orders.GetOrder},
		})

		adminOnly := []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(user.RoleAdmin)}

		coupons := apiGroup.Group("/coupons")
		coupons.Use(authMiddleware.RequireTenant())
		addRoutes(coupons, []route{
			{Method: http.MethodPost, Path: "", Handler: h.Coupons.Create, Mw: adminOnly},
			{Method: http.MethodGet, Path: "/:code", Handler: h.Coupons.Lookup},
			{Method: http.MethodPost, Path: "/:code/deactivate", Handler: h.Coupons.Deactivate, Mw: adminOnly},
		})

		payments := apiGroup.Group("/payments")
		payments.Use(authMiddleware.RequireTenant())
		addRoutes(payments, []route{
			{Method: http.MethodPost, Path: "/subscriptions", Handler: h.Payments.OpenSubscription},
			{Method: http.MethodPost, Path: "/orders", Handler: h.Payments.OpenForOrder},
			{Method: http.MethodGet, Path: "", Handler: h.Payments.List},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Payments.Report},
			{Method: http.MethodPost, Path: "/:id/processing", Handler: h.Payments.StartProcessing},
			// Gateway outcomes
			{Method: http.MethodPost, Path: "/:id/success", Handler: h.Payments.Succeed, Mw: adminOnly},
			{Method: http.MethodPost, Path: "/:id/failure", Handler: h.Payments.Fail, Mw: adminOnly},
			{Method: http.MethodPost, Path: "/:id/retry", Handler: h.Payments.Retry},
			{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Payments.Cancel},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
