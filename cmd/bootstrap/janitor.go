package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"retail-core/internal/pkg/config"
	"retail-core/internal/usecase/commands"

	"go.uber.org/fx"
)

var JanitorModule = fx.Module("janitor",
	fx.Invoke(StartJanitor),
)

// StartJanitor periodically releases expired coupon holds and expires stale usages.
func StartJanitor(lc fx.Lifecycle, cfg config.Config, coupons commands.CouponCommands, logger *slog.Logger) {
	if !cfg.Janitor.Enabled {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(cfg.Janitor.Interval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						sweep(ctx, coupons, logger)
					}
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}

func sweep(ctx context.Context, coupons commands.CouponCommands, logger *slog.Logger) {
	released, err := coupons.ReleaseExpired(ctx)
	if err != nil {
		logger.Error("failed to release expired coupon reservations", "error", err)
	} else if released > 0 {
		logger.Info("released expired coupon reservations", "count", released)
	}

	expired, err := coupons.ExpireUsages(ctx)
	if err != nil {
		logger.Error("failed to expire coupon usages", "error", err)
	} else if expired > 0 {
		logger.Info("expired coupon usages", "count", expired)
	}
}
