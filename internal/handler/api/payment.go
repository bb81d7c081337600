package api

import (
	"net/http"
	"strconv"

	reqdto "retail-core/internal/handler/dto/request"
	resdto "retail-core/internal/handler/dto/response"
	"retail-core/internal/handler/httperr"
	"retail-core/internal/pkg/errs"
	"retail-core/internal/usecase/commands"
	"retail-core/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentHandler struct {
	paymentCommands commands.PaymentCommands
	paymentQueries  queries.PaymentQueries
}

func NewPaymentHandler(paymentCommands commands.PaymentCommands, paymentQueries queries.PaymentQueries) *PaymentHandler {
	return &PaymentHandler{
		paymentCommands: paymentCommands,
		paymentQueries:  paymentQueries,
	}
}

// @Summary Open subscription payment
// @Description Open a pending attempt for a plan, reserving the coupon if one is given
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.OpenSubscriptionRequest true "Subscription payment"
// @Success 201 {object} resdto.PaymentAttemptResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /payments/subscriptions [post]
func (h *PaymentHandler) OpenSubscription(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}
	var req reqdto.OpenSubscriptionRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.paymentCommands.OpenSubscription(c.Request.Context(), req.ToCommand(tenantID))
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromAttempt(a))
}

// @Summary Open order payment
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.OpenForOrderRequest true "Order payment"
// @Success 201 {object} resdto.PaymentAttemptResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /payments/orders [post]
func (h *PaymentHandler) OpenForOrder(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}
	var req reqdto.OpenForOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.paymentCommands.OpenForOrder(c.Request.Context(), commands.OpenForOrderRequest{
		TenantID: tenantID,
		OrderID:  req.OrderID,
		Method:   req.Method,
	})
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromAttempt(a))
}

// @Summary Start processing
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attempt ID"
// @Success 200 {object} resdto.PaymentAttemptResponse
// @Failure 409 {object} httperr.Response
// @Router /payments/{id}/processing [post]
func (h *PaymentHandler) StartProcessing(c *gin.Context) {
	h.withAttempt(c, func(tenantID, id uuid.UUID) (*resdto.PaymentAttemptResponse, error) {
		a, err := h.paymentCommands.StartProcessing(c.Request.Context(), tenantID, id)
		if err != nil {
			return nil, err
		}
		return resdto.FromAttempt(a), nil
	})
}

// @Summary Record gateway success
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attempt ID"
// @Param request body reqdto.SucceedRequest true "Gateway payload"
// @Success 200 {object} resdto.PaymentAttemptResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /payments/{id}/success [post]
func (h *PaymentHandler) Succeed(c *gin.Context) {
	var req reqdto.SucceedRequest
	if !bindJSON(c, &req) {
		return
	}
	h.withAttempt(c, func(tenantID, id uuid.UUID) (*resdto.PaymentAttemptResponse, error) {
		a, err := h.paymentCommands.Succeed(c.Request.Context(), commands.SucceedRequest{
			TenantID:  tenantID,
			AttemptID: id,
			Payload:   req.Payload,
		})
		if err != nil {
			return nil, err
		}
		return resdto.FromAttempt(a), nil
	})
}

// @Summary Record gateway failure
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attempt ID"
// @Param request body reqdto.FailRequest true "Failure"
// @Success 200 {object} resdto.PaymentAttemptResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /payments/{id}/failure [post]
func (h *PaymentHandler) Fail(c *gin.Context) {
	var req reqdto.FailRequest
	if !bindJSON(c, &req) {
		return
	}
	h.withAttempt(c, func(tenantID, id uuid.UUID) (*resdto.PaymentAttemptResponse, error) {
		a, err := h.paymentCommands.Fail(c.Request.Context(), commands.FailRequest{
			TenantID:  tenantID,
			AttemptID: id,
			Code:      req.Code,
			Message:   req.Message,
			Payload:   req.Payload,
		})
		if err != nil {
			return nil, err
		}
		return resdto.FromAttempt(a), nil
	})
}

// @Summary Retry failed attempt
// @Description Open the next attempt in place of a failed one
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attempt ID"
// @Success 201 {object} resdto.PaymentAttemptResponse
// @Failure 409 {object} httperr.Response
// @Router /payments/{id}/retry [post]
func (h *PaymentHandler) Retry(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	next, err := h.paymentCommands.Retry(c.Request.Context(), tenantID, id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromAttempt(next))
}

// @Summary Cancel attempt
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attempt ID"
// @Param request body reqdto.CancelRequest false "Reason"
// @Success 200 {object} resdto.PaymentAttemptResponse
// @Failure 409 {object} httperr.Response
// @Router /payments/{id}/cancel [post]
func (h *PaymentHandler) Cancel(c *gin.Context) {
	var req reqdto.CancelRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	h.withAttempt(c, func(tenantID, id uuid.UUID) (*resdto.PaymentAttemptResponse, error) {
		a, err := h.paymentCommands.Cancel(c.Request.Context(), commands.CancelRequest{
			TenantID:  tenantID,
			AttemptID: id,
			Reason:    req.Reason,
		})
		if err != nil {
			return nil, err
		}
		return resdto.FromAttempt(a), nil
	})
}

// @Summary Payment attempt report
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attempt ID"
// @Success 200 {object} resdto.PaymentReportResponse
// @Failure 404 {object} httperr.Response
// @Router /payments/{id} [get]
func (h *PaymentHandler) Report(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	report, err := h.paymentQueries.Report(c.Request.Context(), tenantID, id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	resp, err := resdto.FromPaymentReport(report)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List payment attempts
// @Description Newest first, keyset paginated
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param after query string false "Cursor from a previous page"
// @Param limit query int false "Page size (max 200)"
// @Success 200 {object} resdto.PaymentListResponse
// @Failure 400 {object} httperr.Response
// @Router /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	var filters queries.PaymentFilters
	if status := c.Query("status"); status != "" {
		filters.Status = &status
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httperr.Abort(c, errs.Mark(errs.Wrap(err, "invalid limit"), errs.ErrValidation))
			return
		}
		limit = n
	}
	var cursor *queries.Cursor
	if after := c.Query("after"); after != "" {
		cursor = &queries.Cursor{After: after}
	}

	items, next, err := h.paymentQueries.ListByTenant(c.Request.Context(), tenantID, filters, cursor, limit)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	resp, err := resdto.FromPaymentList(items, next)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PaymentHandler) withAttempt(c *gin.Context, fn func(tenantID, id uuid.UUID) (*resdto.PaymentAttemptResponse, error)) {
	tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	resp, err := fn(tenantID, id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
