package api

import (
	"log/slog"
	"net/http"

	reqdto "retail-core/internal/handler/dto/request"
	resdto "retail-core/internal/handler/dto/response"
	"retail-core/internal/handler/httperr"
	"retail-core/internal/usecase/commands"
	"retail-core/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type CouponHandler struct {
	couponCommands commands.CouponCommands
	couponQueries  queries.CouponQueries
}

func NewCouponHandler(couponCommands commands.CouponCommands, couponQueries queries.CouponQueries) *CouponHandler {
	return &CouponHandler{
		couponCommands: couponCommands,
		couponQueries:  couponQueries,
	}
}

// @Summary Look up coupon
// @Description Public details of an active coupon
// @Tags coupons
// @Produce json
// @Security BearerAuth
// @Param code path string true "Coupon code"
// @Success 200 {object} resdto.CouponResponse
// @Failure 404 {object} httperr.Response
// @Router /coupons/{code} [get]
func (h *CouponHandler) Lookup(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	view, err := h.couponQueries.Lookup(c.Request.Context(), tenantID, c.Param("code"))
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	resp, err := resdto.FromCouponView(view)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Create coupon
// @Tags coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateCouponRequest true "Coupon"
// @Success 201 {object} resdto.CouponCreatedResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /coupons [post]
func (h *CouponHandler) Create(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}
	var req reqdto.CreateCouponRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := h.couponCommands.Create(c.Request.Context(), req.ToCommand(tenantID))
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.CouponCreatedResponse{ID: id})
}

// @Summary Deactivate coupon
// @Tags coupons
// @Security BearerAuth
// @Param code path string true "Coupon code"
// @Success 204
// @Failure 404 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /coupons/{code}/deactivate [post]
func (h *CouponHandler) Deactivate(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}
	code := c.Param("code")

	if err := h.couponCommands.Deactivate(c.Request.Context(), tenantID, code); err != nil {
		httperr.Abort(c, err)
		return
	}
	if err := h.couponQueries.Forget(c.Request.Context(), tenantID, code); err != nil {
		slog.Warn("failed to drop cached coupon", slog.String("code", code), slog.String("error", err.Error()))
	}
	c.Status(http.StatusNoContent)
}
