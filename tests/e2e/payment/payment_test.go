//go:build e2e

package payment

import (
	"encoding/json"
	"net/http"
	"testing"

	"retail-core/internal/domain/user"
	"retail-core/internal/handler/dto/request"
	"retail-core/internal/handler/dto/response"
	"retail-core/tests/common/authtest"
	"retail-core/tests/common/builder"
	"retail-core/tests/common/dbtest"
	"retail-core/tests/common/httptest"
	"retail-core/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type PaymentE2ESuite struct {
	e2e.SharedSuite
	tenantID uuid.UUID
	token    string
	planID   uuid.UUID
}

func TestPaymentE2ESuite(t *testing.T) {
	suite.Run(t, new(PaymentE2ESuite))
}

func (s *PaymentE2ESuite) SetupTest() {
	s.SharedSuite.SetupTest()
	s.tenantID = uuid.New()
	s.token = authtest.NewJWTHelper(s.Config.JWT).GenerateToken(s.T(), s.tenantID, user.RoleAdmin)
	s.planID = dbtest.CreateTestPlan(s.T(), s.DB, "Starter", "29.00", "290.00")
}

func (s *PaymentE2ESuite) post(path string, body any, target any, status int) {
	s.T().Helper()
	w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, path, body, s.token)
	httptest.AssertSuccessResponse(s.T(), w, status, target)
}

func (s *PaymentE2ESuite) openSubscription(coupon *string) response.PaymentAttemptResponse {
	s.T().Helper()
	var a response.PaymentAttemptResponse
	s.post("/api/payments/subscriptions", request.OpenSubscriptionRequest{
		PlanID:       s.planID,
		BillingCycle: "monthly",
		Method:       "card",
		CouponCode:   coupon,
		Redeemer:     "owner@example.com",
	}, &a, http.StatusCreated)
	return a
}

func (s *PaymentE2ESuite) TestFailedAttemptRetriesToSuccess() {
	first := s.openSubscription(nil)
	assert.Equal(s.T(), "pending", first.Status)
	assert.Equal(s.T(), "29.00", first.FinalAmount)
	assert.Equal(s.T(), 1, first.AttemptNumber)

	base := "/api/payments/" + first.ID.String()

	var a response.PaymentAttemptResponse
	s.post(base+"/processing", nil, &a, http.StatusOK)
	assert.Equal(s.T(), "processing", a.Status)

	s.post(base+"/failure", request.FailRequest{Code: "card_declined", Message: "insufficient funds"}, &a, http.StatusOK)
	assert.Equal(s.T(), "failed", a.Status)

	s.Run("success is refused once failed", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, base+"/success",
			request.SucceedRequest{Payload: json.RawMessage(`{"ref":"late"}`)}, s.token)
		httptest.AssertErrorResponse(s.T(), w, http.StatusConflict, "")
	})

	var next response.PaymentAttemptResponse
	s.post(base+"/retry", nil, &next, http.StatusCreated)
	assert.NotEqual(s.T(), first.ID, next.ID)
	assert.Equal(s.T(), 2, next.AttemptNumber)
	assert.Equal(s.T(), "pending", next.Status)
	assert.Equal(s.T(), first.FinalAmount, next.FinalAmount)

	s.Run("a failed attempt retries once", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, base+"/retry", nil, s.token)
		httptest.AssertErrorResponse(s.T(), w, http.StatusConflict, "")
	})

	nextBase := "/api/payments/" + next.ID.String()
	s.post(nextBase+"/processing", nil, &a, http.StatusOK)

	s.Run("success needs a gateway payload", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, nextBase+"/success",
			request.SucceedRequest{Payload: json.RawMessage(`{}`)}, s.token)
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "")
	})

	s.post(nextBase+"/success", request.SucceedRequest{Payload: json.RawMessage(`{"ref":"ch_123"}`)}, &a, http.StatusOK)
	assert.Equal(s.T(), "success", a.Status)
	assert.NotNil(s.T(), a.UnlockedResourceID)

	w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, nextBase, nil, s.token)
	var report response.PaymentReportResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &report)
	assert.Equal(s.T(), "success", report.Status)
	assert.Equal(s.T(), 2, report.AttemptNumber)
	require.Len(s.T(), report.PreviousAttempts, 1)
	assert.Equal(s.T(), 1, report.PreviousAttempts[0].AttemptNumber)
	assert.Equal(s.T(), "card_declined", report.PreviousAttempts[0].Code)
	assert.NotNil(s.T(), report.ConfirmedAt)
	assert.NotNil(s.T(), report.ProcessingDurationMs)

	w = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/payments/"+first.ID.String(), nil, s.token)
	var old response.PaymentReportResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &old)
	assert.Equal(s.T(), "failed", old.Status)
	require.NotNil(s.T(), old.RetriedByID)
	assert.Equal(s.T(), next.ID, *old.RetriedByID)

	w = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/payments?status=success", nil, s.token)
	var list response.PaymentListResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &list)
	require.Len(s.T(), list.Items, 1)
	assert.Equal(s.T(), next.ID, list.Items[0].ID)
}

func (s *PaymentE2ESuite) TestOpenAttemptIsExclusive() {
	s.openSubscription(nil)

	w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/payments/subscriptions", request.OpenSubscriptionRequest{
		PlanID:       s.planID,
		BillingCycle: "monthly",
		Method:       "card",
	}, s.token)
	httptest.AssertErrorResponse(s.T(), w, http.StatusConflict, "")
}

func (s *PaymentE2ESuite) TestCancelReleasesCoupon() {
	cycle := "monthly"
	couponID := dbtest.CreateTestCoupon(s.T(), s.DB, dbtest.CouponSeed{
		TenantID:     s.tenantID,
		Code:         "STARTER10",
		Kind:         "percentage",
		Value:        "10",
		MaxUses:      1,
		PlanID:       &s.planID,
		BillingCycle: &cycle,
	})

	code := "starter10"
	a := s.openSubscription(&code)
	assert.Equal(s.T(), "29.00", a.BaseAmount)
	assert.Equal(s.T(), "2.90", a.DiscountAmount)
	assert.Equal(s.T(), "26.10", a.FinalAmount)
	assert.Equal(s.T(), 1, dbtest.CouponUsedCount(s.T(), s.DB, couponID))

	var cancelled response.PaymentAttemptResponse
	s.post("/api/payments/"+a.ID.String()+"/cancel", request.CancelRequest{Reason: "changed mind"}, &cancelled, http.StatusOK)
	assert.Equal(s.T(), "cancelled", cancelled.Status)
	assert.Zero(s.T(), dbtest.CouponUsedCount(s.T(), s.DB, couponID))

	s.Run("cancelled attempts stay cancelled", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/payments/"+a.ID.String()+"/processing", nil, s.token)
		httptest.AssertErrorResponse(s.T(), w, http.StatusConflict, "")
	})
}

func (s *PaymentE2ESuite) TestCouponConsumedOnSuccess() {
	couponID := dbtest.CreateTestCoupon(s.T(), s.DB, dbtest.CouponSeed{
		TenantID: s.tenantID,
		Code:     "WELCOME5",
		Kind:     "fixed",
		Value:    "5",
	})

	code := "WELCOME5"
	a := s.openSubscription(&code)
	assert.Equal(s.T(), "24.00", a.FinalAmount)

	base := "/api/payments/" + a.ID.String()
	var out response.PaymentAttemptResponse
	s.post(base+"/processing", nil, &out, http.StatusOK)
	s.post(base+"/success", request.SucceedRequest{Payload: json.RawMessage(`{"ref":"ch_9"}`)}, &out, http.StatusOK)

	assert.Equal(s.T(), 1, dbtest.CouponUsedCount(s.T(), s.DB, couponID))
	assert.Equal(s.T(), 1, dbtest.CountUsages(s.T(), s.DB, couponID))
}

func (s *PaymentE2ESuite) TestOrderPayment() {
	req := builder.NewOrderBuilder().BuildPlaceOrderRequestDTO()
	w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/orders", req, s.token)
	var placed response.OrderResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &placed)

	var a response.PaymentAttemptResponse
	s.post("/api/payments/orders", request.OpenForOrderRequest{OrderID: placed.ID, Method: "cash"}, &a, http.StatusCreated)
	assert.Equal(s.T(), "order", a.TargetKind)
	assert.Equal(s.T(), placed.Total, a.FinalAmount)

	s.Run("unknown order", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/payments/orders",
			request.OpenForOrderRequest{OrderID: uuid.New(), Method: "cash"}, s.token)
		httptest.AssertErrorResponse(s.T(), w, http.StatusNotFound, "")
	})
}

func (s *PaymentE2ESuite) TestGatewayOutcomesNeedAdmin() {
	a := s.openSubscription(nil)
	member := authtest.NewJWTHelper(s.Config.JWT).GenerateToken(s.T(), s.tenantID, user.RoleMember)

	w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/payments/"+a.ID.String()+"/processing", nil, member)
	require.Equal(s.T(), http.StatusOK, w.Code)

	w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/payments/"+a.ID.String()+"/success",
		request.SucceedRequest{Payload: json.RawMessage(`{"ref":"ch_forged"}`)}, member)
	httptest.AssertErrorResponse(s.T(), w, http.StatusForbidden, "Insufficient permissions")

	w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/payments/"+a.ID.String()+"/failure",
		request.FailRequest{Code: "card_declined"}, member)
	httptest.AssertErrorResponse(s.T(), w, http.StatusForbidden, "Insufficient permissions")

	var report response.PaymentReportResponse
	w = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/payments/"+a.ID.String(), nil, member)
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &report)
	assert.Equal(s.T(), "processing", report.Status)
}

func (s *PaymentE2ESuite) TestTenantIsolation() {
	a := s.openSubscription(nil)

	other := authtest.NewJWTHelper(s.Config.JWT).GenerateToken(s.T(), uuid.New(), user.RoleAdmin)
	w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/payments/"+a.ID.String(), nil, other)
	httptest.AssertErrorResponse(s.T(), w, http.StatusNotFound, "")

	w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/payments/"+a.ID.String()+"/processing", nil, other)
	httptest.AssertErrorResponse(s.T(), w, http.StatusNotFound, "")
}
