//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"retail-core/internal/domain/user"
	"retail-core/internal/pkg/config"
	"retail-core/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

// GenerateToken issues a token scoped to tenantID for a fresh user with role.
func (h *JWTHelper) GenerateToken(t *testing.T, tenantID uuid.UUID, role user.Role) string {
	t.Helper()
	service := jwt.NewService(h.cfg.Secret, h.cfg.Duration)
	token, err := service.GenerateToken(uuid.New(), tenantID, "staff@example.com", role)
	require.NoError(t, err)
	return token
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, tenantID uuid.UUID) string {
	t.Helper()
	service := jwt.NewService(h.cfg.Secret, time.Millisecond)
	token, err := service.GenerateToken(uuid.New(), tenantID, "staff@example.com", user.RoleAdmin)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	return token
}
