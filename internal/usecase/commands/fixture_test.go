//go:build unit

package commands_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"retail-core/internal/infra/notifier"
	"retail-core/internal/pkg/clock"
	"retail-core/internal/pkg/config"
	"retail-core/internal/usecase/commands"
	"retail-core/internal/usecase/shared"
	"retail-core/tests/common/memstore"

	"github.com/google/uuid"
)

var baseTime = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store         *memstore.Store
	clock         *clock.MockClock
	codes         *sequenceCodes
	coupons       commands.CouponCommands
	orders        commands.OrderCommands
	payments      commands.PaymentCommands
	verifications commands.VerificationCommands
	tenantID      uuid.UUID
}

type fixtureOption func(*config.Config)

func withPolicy(p config.CouponFailurePolicy) fixtureOption {
	return func(c *config.Config) { c.Checkout.CouponFailurePolicy = p }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()

	cfg := config.NewTestConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	store := memstore.New()
	clk := clock.NewMockClock(baseTime)
	codes := &sequenceCodes{}
	retry := shared.RetryPolicy{Attempts: 2, BaseDelay: time.Millisecond, Timeout: time.Second}

	coupons := commands.NewCouponUseCase(store, retry, clk, cfg.Checkout)
	return &fixture{
		store:         store,
		clock:         clk,
		codes:         codes,
		coupons:       coupons,
		orders:        commands.NewOrderUseCase(store, coupons, retry, clk, cfg.Checkout),
		payments:      commands.NewPaymentUseCase(store, coupons, retry, clk, cfg.Checkout),
		verifications: commands.NewVerificationUseCase(store, notifier.NewOutbox(clk), codes, retry, clk, cfg.Verification),
		tenantID:      uuid.New(),
	}
}

// sequenceCodes hands out predictable codes and remembers them in order.
type sequenceCodes struct {
	mu     sync.Mutex
	issued []string
}

func (s *sequenceCodes) Generate(length int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code := fmt.Sprintf("%0*d", length, 100000+len(s.issued))
	s.issued = append(s.issued, code)
	return code, nil
}

func (s *sequenceCodes) last(n int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.issued[len(s.issued)-n:]...)
}
