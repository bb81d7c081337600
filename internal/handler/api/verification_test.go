//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"retail-core/internal/domain/verification"
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
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type VerificationHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockVerificationCommands
	mockQueries  *queriesmock.MockVerificationQueries
}

func (s *VerificationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockVerificationCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockVerificationQueries(s.mockCtrl)
	h := api.NewVerificationHandler(s.mockCommands, s.mockQueries)

	s.router.POST("/verifications", h.Start)
	s.router.GET("/verifications/:id", h.Status)
	s.router.POST("/verifications/:id/check", h.Check)
	s.router.POST("/verifications/:id/resend", h.Resend)
	s.router.POST("/verifications/:id/promote", h.Promote)
}

func (s *VerificationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestVerificationHandlerSuite(t *testing.T) {
	suite.Run(t, new(VerificationHandlerTestSuite))
}

func (s *VerificationHandlerTestSuite) TestStart() {
	url := "/verifications"
	b := builder.NewVerificationBuilder()
	reqBody := b.BuildStartRequestDTO()

	s.Run("success: returns 201 Created without exposing codes", func() {
		v, err := b.BuildDomain()
		s.Require().NoError(err)

		s.mockCommands.EXPECT().Start(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, req commands.StartVerificationRequest) (*verification.Verification, error) {
				s.Equal(b.TenantID, req.TenantID)
				s.Equal("owner@example.com", req.Email)
				return v, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(v.ID().String(), body["id"])
		s.Equal("pending", body["status"])
		s.EqualValues(5, body["maxAttempts"])
		s.NotContains(rec.Body.String(), "hash")
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing tenant", mutate: testutil.Field("tenantId", nil)},
			{name: "missing email", mutate: testutil.Field("email", nil)},
			{name: "malformed email", mutate: testutil.Field("email", "owner")},
			{name: "missing phone", mutate: testutil.Field("phone", nil)},
			{name: "missing company", mutate: testutil.Field("companyName", nil)},
			{name: "short password", mutate: testutil.Field("password", "short")},
			{name: "unknown cycle", mutate: testutil.Field("billingCycle", "weekly")},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
			})
		}
	})
}

func (s *VerificationHandlerTestSuite) TestCheck() {
	id := uuid.New()
	url := "/verifications/" + id.String() + "/check"
	reqBody := map[string]any{"channel": "email", "code": "123456"}

	s.Run("success: reports channel progress", func() {
		s.mockCommands.EXPECT().Check(gomock.Any(), commands.CheckCodeRequest{
			VerificationID: id,
			Channel:        "email",
			Code:           "123456",
		}).Return(&commands.CheckResult{
			Status:            verification.StatusPending,
			EmailVerified:     true,
			RemainingAttempts: 5,
		}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var body resdto.CheckCodeResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("pending", body.Status)
		s.True(body.EmailVerified)
		s.False(body.SMSVerified)
	})

	s.Run("error: mismatch tells how many tries are left", func() {
		mismatch := errs.WithRemainingAttempts(errs.Mark(verification.ErrCodeMismatch, errs.ErrValidation), 3)
		s.mockCommands.EXPECT().Check(gomock.Any(), gomock.Any()).Return(nil, mismatch).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, verification.ErrCodeMismatch.Error())
		httptest.AssertRemainingAttempts(s.T(), rec, http.StatusBadRequest, 3)
		s.NotContains(rec.Body.String(), "123456")
	})

	s.Run("error: statuses per failure kind", func() {
		cases := []struct {
			name   string
			err    error
			status int
		}{
			{name: "blocked", err: errs.Mark(verification.ErrVerificationBlocked, errs.ErrBlocked), status: http.StatusLocked},
			{name: "expired", err: errs.Mark(verification.ErrVerificationExpired, errs.ErrExpired), status: http.StatusGone},
			{name: "unknown", err: queries.ErrVerificationNotFound, status: http.StatusNotFound},
			{name: "store down", err: errors.New("connection reset"), status: http.StatusInternalServerError},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Check(gomock.Any(), gomock.Any()).Return(nil, tc.err).Times(1)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.status, "")
			})
		}
	})

	s.Run("error: unknown channel never reaches the command", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"channel": "fax", "code": "123456"}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})
}

func (s *VerificationHandlerTestSuite) TestResend() {
	id := uuid.New()

	s.Run("success: 202 Accepted", func() {
		s.mockCommands.EXPECT().Resend(gomock.Any(), id, "sms").Return(nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/verifications/"+id.String()+"/resend",
			map[string]any{"channel": "sms"}, "")
		s.Equal(http.StatusAccepted, rec.Code)
	})

	s.Run("error: already verified channel", func() {
		s.mockCommands.EXPECT().Resend(gomock.Any(), id, "email").
			Return(errs.Mark(verification.ErrAlreadyVerified, errs.ErrConflict)).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/verifications/"+id.String()+"/resend",
			map[string]any{"channel": "email"}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, verification.ErrAlreadyVerified.Error())
	})
}

func (s *VerificationHandlerTestSuite) TestPromote() {
	id := uuid.New()
	companyID := uuid.New()

	s.Run("success: returns the company id", func() {
		s.mockCommands.EXPECT().Promote(gomock.Any(), id).Return(companyID, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/verifications/"+id.String()+"/promote", nil, "")

		var body resdto.PromoteResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(companyID, body.CompanyID)
	})

	s.Run("error: not verified yet", func() {
		s.mockCommands.EXPECT().Promote(gomock.Any(), id).
			Return(uuid.Nil, errs.Mark(verification.ErrNotVerified, errs.ErrConflict)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/verifications/"+id.String()+"/promote", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, verification.ErrNotVerified.Error())
	})
}

func (s *VerificationHandlerTestSuite) TestStatus() {
	id := uuid.New()
	expires := time.Date(2026, 3, 15, 12, 15, 0, 0, time.UTC)

	s.Run("success: returns progress", func() {
		s.mockQueries.EXPECT().Status(gomock.Any(), id).Return(&queries.VerificationStatusView{
			ID:                id,
			Status:            "expired",
			EmailVerified:     true,
			RemainingAttempts: 2,
			ExpiresAt:         expires,
		}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/verifications/"+id.String(), nil, "")

		var body resdto.VerificationStatusResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("expired", body.Status)
		s.Equal(2, body.RemainingAttempts)
		s.True(body.ExpiresAt.Equal(expires))
		s.Nil(body.PromotedCompanyID)
	})

	s.Run("error: 404", func() {
		s.mockQueries.EXPECT().Status(gomock.Any(), id).Return(nil, queries.ErrVerificationNotFound).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/verifications/"+id.String(), nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "verification not found")
	})
}
