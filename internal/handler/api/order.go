package api

import (
	"net/http"

	reqdto "retail-core/internal/handler/dto/request"
	resdto "retail-core/internal/handler/dto/response"
	"retail-core/internal/handler/httperr"
	"retail-core/internal/usecase/commands"
	"retail-core/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderCommands commands.OrderCommands
	orderQueries  queries.OrderQueries
}

func NewOrderHandler(orderCommands commands.OrderCommands, orderQueries queries.OrderQueries) *OrderHandler {
	return &OrderHandler{
		orderCommands: orderCommands,
		orderQueries:  orderQueries,
	}
}

// @Summary Quote order
// @Description Price a cart without reserving the coupon
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.PricingRequest true "Pricing request"
// @Success 200 {object} resdto.PricingResponse
// @Failure 400 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /orders/quote [post]
func (h *OrderHandler) Quote(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}
	var req reqdto.PricingRequest
	if !bindJSON(c, &req) {
		return
	}

	pricing, err := h.orderCommands.Quote(c.Request.Context(), req.ToCommand(tenantID))
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPricing(pricing))
}

// @Summary Place order
// @Description Price a cart, reserve its coupon and persist the order
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.PlaceOrderRequest true "Order request"
// @Success 201 {object} resdto.OrderResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /orders [post]
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}
	var req reqdto.PlaceOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	o, err := h.orderCommands.PlaceOrder(c.Request.Context(), req.ToCommand(tenantID))
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromOrder(o))
}

// @Summary Get order
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} resdto.OrderViewResponse
// @Failure 404 {object} httperr.Response
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	view, err := h.orderQueries.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	resp, err := resdto.FromOrderView(view)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
