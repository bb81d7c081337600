package bootstrap

import (
	"context"
	"time"

	"retail-core/internal/infra/db"
	"retail-core/internal/metrics"
	"retail-core/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

const poolStatsInterval = 15 * time.Second

var DBModule = fx.Module("db",
	fx.Provide(
		NewDB,
		func(pool *pgxpool.Pool) db.DBTX { return pool },
	),
)

func NewDB(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go metrics.StartPoolStatsCollector(ctx, pool, poolStatsInterval)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return pool, nil
}
