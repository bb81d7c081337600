//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"retail-core/internal/domain/money"
	"retail-core/internal/domain/order"
	"retail-core/internal/handler/api"
	resdto "retail-core/internal/handler/dto/response"
	"retail-core/internal/pkg/errs"
	"retail-core/internal/usecase/commands"
	"retail-core/internal/usecase/queries"
	"retail-core/tests/common/builder"
	"retail-core/tests/common/httptest"
	"retail-core/tests/common/testutil"
	commandsmock "retail-core/tests/mock/commands"
	queriesmock "retail-core/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type OrderHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockOrderCommands
	mockQueries  *queriesmock.MockOrderQueries
	tenantID     uuid.UUID
}

func (s *OrderHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockOrderCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockOrderQueries(s.mockCtrl)
	s.tenantID = uuid.New()
	h := api.NewOrderHandler(s.mockCommands, s.mockQueries)

	auth := fakeTenantAuth(s.tenantID)
	s.router.POST("/orders/quote", auth, h.Quote)
	s.router.POST("/orders", auth, h.PlaceOrder)
	s.router.GET("/orders/:id", auth, h.GetOrder)
	// no tenant middleware: a routing mistake must not leak data
	s.router.GET("/unscoped/orders/:id", h.GetOrder)
}

func (s *OrderHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestOrderHandlerSuite(t *testing.T) {
	suite.Run(t, new(OrderHandlerTestSuite))
}

type testCaseOrder struct {
	name       string
	mutate     func(m map[string]any)
	expectCode int
}

// ================================================================================
// TestQuote
// ================================================================================

func (s *OrderHandlerTestSuite) TestQuote() {
	url := "/orders/quote"
	reqBody := builder.NewOrderBuilder().WithCoupon(" save10 ").BuildPricingRequestDTO()
	pricing := order.Pricing{
		Subtotal:      money.MustParse("100.00"),
		Discount:      money.MustParse("10.00"),
		DeliveryFee:   money.MustParse("5.00"),
		Total:         money.MustParse("95.00"),
		CouponApplied: true,
	}

	s.Run("success: tenant and trimmed coupon reach the command", func() {
		s.mockCommands.EXPECT().Quote(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, req commands.PricingRequest) (order.Pricing, error) {
				s.Equal(s.tenantID, req.TenantID)
				s.Equal("save10", req.CouponCode)
				s.Len(req.Items, 2)
				s.True(req.DeliveryFee.Equal(decimal.NewFromInt(5)))
				return pricing, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, bearer)

		var body resdto.PricingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("100.00", body.Subtotal)
		s.Equal("10.00", body.Discount)
		s.Equal("95.00", body.Total)
		s.True(body.CouponApplied)
	})

	s.Run("error: 400 Bad Request on malformed carts", func() {
		cases := []testCaseOrder{
			{name: "missing items", mutate: testutil.Field("items", nil), expectCode: http.StatusBadRequest},
			{name: "empty items", mutate: testutil.Field("items", []any{}), expectCode: http.StatusBadRequest},
			{name: "zero quantity", mutate: testutil.Field("items", []any{
				map[string]any{"productId": "sku-1", "unitPrice": "1.00", "quantity": 0},
			}), expectCode: http.StatusBadRequest},
			{name: "missing product", mutate: testutil.Field("items", []any{
				map[string]any{"unitPrice": "1.00", "quantity": 1},
			}), expectCode: http.StatusBadRequest},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, bearer)
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "Invalid request format")
			})
		}
	})

	s.Run("error: 400 Bad Request on amounts the ledger cannot store", func() {
		cases := []struct {
			name   string
			mutate func(map[string]any)
			msg    string
		}{
			{name: "fee with three decimals", mutate: testutil.Field("deliveryFee", "4.999"), msg: "deliveryFee: amount has too many decimal places"},
			{name: "unit price with five decimals", mutate: testutil.Field("items", []any{
				map[string]any{"productId": "sku-1", "unitPrice": "0.00001", "quantity": 1},
			}), msg: "items[0].unitPrice: amount has too many decimal places"},
			{name: "unit price beyond storage", mutate: testutil.Field("items", []any{
				map[string]any{"productId": "sku-1", "unitPrice": "10000000000", "quantity": 1},
			}), msg: "items[0].unitPrice: amount is too large"},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, bearer)
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, tc.msg)
			})
		}
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "coupon rejected",
				commandsError:  errs.Mark(errs.Mark(errors.New("coupon window closed"), errs.ErrCouponNotApplicable), errs.ErrValidation),
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "coupon not applicable",
			},
			{
				name:           "invalid delivery fee",
				commandsError:  errs.Mark(order.ErrInvalidDeliveryFee, errs.ErrValidation),
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    order.ErrInvalidDeliveryFee.Error(),
			},
			{
				name:           "store down",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Quote(gomock.Any(), gomock.Any()).
					Return(order.Pricing{}, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, bearer)
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestPlaceOrder
// ================================================================================

func (s *OrderHandlerTestSuite) TestPlaceOrder() {
	url := "/orders"
	b := builder.NewOrderBuilder().WithTenant(s.tenantID).WithCoupon("SAVE10")
	reqBody := b.BuildPlaceOrderRequestDTO()

	s.Run("success: returns 201 Created with the priced order", func() {
		placed, err := b.BuildDomain(money.MustParse("10.00"))
		s.Require().NoError(err)

		s.mockCommands.EXPECT().PlaceOrder(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, req commands.PlaceOrderRequest) (*order.Order, error) {
				s.Equal(s.tenantID, req.TenantID)
				s.Equal("Dana Buyer", req.Customer.Name)
				s.Equal("card", req.PaymentMethod)
				return placed, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, bearer)

		var body resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(placed.ID(), body.ID)
		s.Equal("100.00", body.Subtotal)
		s.Equal("10.00", body.Discount)
		s.Equal("95.00", body.Total)
		s.Require().NotNil(body.CouponCode)
		s.Equal("SAVE10", *body.CouponCode)
	})

	s.Run("error: invalid customer email", func() {
		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Nested("customer", "email", "not-an-email"))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, bearer)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("error: exhausted coupon is a conflict", func() {
		exhausted := errs.Mark(errs.Mark(errors.New("no uses left"), errs.ErrCouponNotApplicable), errs.ErrExhausted)
		s.mockCommands.EXPECT().PlaceOrder(gomock.Any(), gomock.Any()).Return(nil, exhausted).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, bearer)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "coupon not applicable")
	})
}

// ================================================================================
// TestGetOrder
// ================================================================================

func (s *OrderHandlerTestSuite) TestGetOrder() {
	id := uuid.New()
	code := "SAVE10"
	view := &queries.OrderView{
		ID:       id,
		TenantID: s.tenantID,
		Status:   string(order.StatusReceived),
		Items: []queries.OrderItemView{
			{ProductID: "sku-espresso", UnitPrice: money.MustParse("40"), Quantity: 2},
		},
		Subtotal:      money.MustParse("80"),
		Discount:      money.MustParse("8"),
		DeliveryFee:   money.MustParse("5"),
		Total:         money.MustParse("77"),
		CouponApplied: true,
		CouponCode:    &code,
	}

	s.Run("success: returns the stored order", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.tenantID, id).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/orders/"+id.String(), nil, bearer)

		var body resdto.OrderViewResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(id, body.ID)
		s.Equal("77.00", body.Total)
		s.Require().Len(body.Items, 1)
		s.Equal("40.00", body.Items[0].UnitPrice)
	})

	s.Run("error: 404 when the order belongs to nobody in this tenant", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.tenantID, id).Return(nil, queries.ErrOrderNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/orders/"+id.String(), nil, bearer)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "")
	})

	s.Run("error: 400 on malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/orders/not-a-uuid", nil, bearer)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id format")
	})

	s.Run("error: 500 when no tenant is in scope", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/unscoped/orders/"+id.String(), nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}
