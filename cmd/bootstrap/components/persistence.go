package components

import (
	"retail-core/internal/infra/cache"
	"retail-core/internal/infra/db"
	"retail-core/internal/infra/notifier"
	"retail-core/internal/infra/readstore"
	"retail-core/internal/infra/uow"
	"retail-core/internal/pkg/config"
	"retail-core/internal/usecase/queries"
	"retail-core/internal/usecase/shared"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	readstoreModule,
	repositoryModule,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		NewCouponReadStore,
		fx.Annotate(
			readstore.NewOrderReadStore,
			fx.As(new(queries.OrderReadStore)),
		),
		fx.Annotate(
			readstore.NewPaymentReadStore,
			fx.As(new(queries.PaymentReadStore)),
		),
		fx.Annotate(
			readstore.NewVerificationReadStore,
			fx.As(new(queries.VerificationReadStore)),
		),
	),
)

var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		// UnitOfWork hands out the repositories bound to each transaction.
		uow.NewPostgresUoW,
		fx.Annotate(
			notifier.NewOutbox,
			fx.As(new(shared.Notifier)),
		),
	),
)

// NewCouponReadStore puts the redis cache in front of the database when one is configured.
func NewCouponReadStore(conn db.DBTX, client *redis.Client, cfg config.Config) queries.CouponReadStore {
	store := readstore.NewCouponReadStore(conn)
	if client == nil {
		return store
	}
	return cache.NewCouponReadStore(store, client, cfg.Redis.CouponTTL)
}
