//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// DBLike is satisfied by both a pool and a transaction.
type DBLike interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func CreateTestPlan(t *testing.T, db DBLike, name, monthly, yearly string) uuid.UUID {
	t.Helper()

	var planID uuid.UUID
	err := db.QueryRow(context.Background(), `
		INSERT INTO subscription_plans (name, monthly_price, yearly_price) VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET monthly_price = EXCLUDED.monthly_price, yearly_price = EXCLUDED.yearly_price
		RETURNING id`, name, monthly, yearly).Scan(&planID)
	require.NoError(t, err)

	return planID
}

// CouponSeed is the subset of coupon columns tests set directly.
type CouponSeed struct {
	TenantID      uuid.UUID
	Code          string
	Kind          string
	Value         string
	MaxUses       int
	MinOrderTotal string
	StartsAt      *time.Time
	EndsAt        *time.Time
	PlanID        *uuid.UUID
	BillingCycle  *string
}

func CreateTestCoupon(t *testing.T, db DBLike, c CouponSeed) uuid.UUID {
	t.Helper()

	if c.MinOrderTotal == "" {
		c.MinOrderTotal = "0"
	}
	couponID := uuid.New()
	_, err := db.Exec(context.Background(), `
		INSERT INTO coupons (id, tenant_id, code, discount_kind, discount_value, max_uses, min_order_total,
		                     starts_at, ends_at, plan_id, billing_cycle)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		couponID, c.TenantID, c.Code, c.Kind, c.Value, c.MaxUses, c.MinOrderTotal,
		c.StartsAt, c.EndsAt, c.PlanID, c.BillingCycle)
	require.NoError(t, err)

	return couponID
}

func CouponUsedCount(t *testing.T, db DBLike, couponID uuid.UUID) int {
	t.Helper()

	var used int
	err := db.QueryRow(context.Background(), "SELECT used_count FROM coupons WHERE id = $1", couponID).Scan(&used)
	require.NoError(t, err)
	return used
}

func CountUsages(t *testing.T, db DBLike, couponID uuid.UUID) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM coupon_usages WHERE coupon_id = $1 AND status = 'active'", couponID).Scan(&n)
	require.NoError(t, err)
	return n
}

// LatestCode reads the code most recently queued for delivery on channel.
func LatestCode(t *testing.T, db DBLike, verificationID uuid.UUID, channel string) string {
	t.Helper()

	var code string
	err := db.QueryRow(context.Background(), `
		SELECT payload->>'code' FROM notification_jobs
		WHERE payload->>'verificationId' = $1 AND channel = $2
		ORDER BY created_at DESC, run_at DESC LIMIT 1`, verificationID.String(), channel).Scan(&code)
	require.NoError(t, err)
	return code
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO subscription_plans (name, monthly_price, yearly_price) VALUES
		    ('Starter', 29.00, 290.00),
		    ('Growth', 99.00, 990.00)
		ON CONFLICT (name) DO NOTHING;
	`)
	return err
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('goose_db_version')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
