//go:build unit

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"retail-core/internal/domain/user"
	"retail-core/internal/pkg/config"
	"retail-core/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	claims *jwt.Claims
	err    error
}

func (v stubValidator) ValidateToken(string) (*jwt.Claims, error) {
	return v.claims, v.err
}

func tenantEngine(v TokenValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewAuthMiddleware(v).RequireTenant())
	r.GET("/whoami", func(c *gin.Context) {
		tenantID, ok := GetTenantID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, tenantID.String())
	})
	return r
}

func TestRequireTenant(t *testing.T) {
	tenantID := uuid.New()

	cases := []struct {
		name      string
		validator stubValidator
		header    string
		status    int
	}{
		{
			name:      "valid token pins tenant",
			validator: stubValidator{claims: &jwt.Claims{UserID: uuid.New(), TenantID: tenantID}},
			header:    "Bearer good",
			status:    http.StatusOK,
		},
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "basic scheme", header: "Basic abc", status: http.StatusUnauthorized},
		{
			name:      "rejected token",
			validator: stubValidator{err: errors.New("expired")},
			header:    "Bearer bad",
			status:    http.StatusUnauthorized,
		},
		{
			name:      "token without tenant",
			validator: stubValidator{claims: &jwt.Claims{UserID: uuid.New()}},
			header:    "Bearer good",
			status:    http.StatusUnauthorized,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			tenantEngine(tc.validator).ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, tenantID.String(), rec.Body.String())
			}
		})
	}
}

func TestRequireRoleAtLeast(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		role   user.Role
		status int
	}{
		{role: user.RoleMember, status: http.StatusForbidden},
		{role: user.RoleAdmin, status: http.StatusOK},
		{role: user.RoleOwner, status: http.StatusOK},
		{role: user.Role("viewer"), status: http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			auth := NewAuthMiddleware(stubValidator{claims: &jwt.Claims{
				UserID:   uuid.New(),
				TenantID: uuid.New(),
				Role:     string(tc.role),
			}})
			r := gin.New()
			r.Use(auth.RequireTenant())
			r.POST("/admin", auth.RequireRoleAtLeast(user.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodPost, "/admin", nil)
			req.Header.Set("Authorization", "Bearer good")
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
		})
	}

	t.Run("without RequireTenant", func(t *testing.T) {
		r := gin.New()
		r.POST("/admin", NewAuthMiddleware(stubValidator{}).RequireRoleAtLeast(user.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(LoggingMiddleware(nil, config.LogConfig{Level: "error"}))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	t.Run("issues an id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

		id := rec.Header().Get(requestIDHeader)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, id, rec.Body.String())
	})

	t.Run("keeps caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(requestIDHeader, "trace-42")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, "trace-42", rec.Header().Get(requestIDHeader))
	})
}

func TestErrorHandler_RecoversPanics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CustomRecovery(), ErrorHandler())
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":{"message":"Internal server error"}}`, rec.Body.String())
}
