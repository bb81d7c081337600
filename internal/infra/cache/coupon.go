// Package cache keeps read-side projections in Redis in front of the PostgreSQL read stores.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"retail-core/internal/metrics"
	"retail-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const couponKeyPrefix = "coupon:"

type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CouponReadStore serves public coupon lookups from Redis and falls back to next on a miss.
// Remaining uses may lag the ledger by up to ttl; reservations never read from here.
type CouponReadStore struct {
	next   queries.CouponReadStore
	client RedisClient
	ttl    time.Duration
}

func NewCouponReadStore(next queries.CouponReadStore, client RedisClient, ttl time.Duration) *CouponReadStore {
	return &CouponReadStore{next: next, client: client, ttl: ttl}
}

func (c *CouponReadStore) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*queries.CouponView, error) {
	key := couponKey(tenantID, code)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var view queries.CouponView
		if jerr := json.Unmarshal(raw, &view); jerr == nil {
			metrics.CouponCacheLookupsTotal.WithLabelValues("hit").Inc()
			return &view, nil
		}
		slog.Warn("discarding undecodable cached coupon", slog.String("key", key))
	case !errors.Is(err, redis.Nil):
		slog.Warn("coupon cache unavailable", slog.String("error", err.Error()))
	}
	metrics.CouponCacheLookupsTotal.WithLabelValues("miss").Inc()

	view, err := c.next.FindByCode(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(view); err == nil {
		if err := c.client.Set(ctx, key, b, c.ttl).Err(); err != nil {
			slog.Warn("failed to cache coupon", slog.String("error", err.Error()))
		}
	}
	return view, nil
}

func (c *CouponReadStore) Invalidate(ctx context.Context, tenantID uuid.UUID, code string) error {
	return c.client.Del(ctx, couponKey(tenantID, code)).Err()
}

func couponKey(tenantID uuid.UUID, code string) string {
	return couponKeyPrefix + tenantID.String() + ":" + strings.ToUpper(code)
}
