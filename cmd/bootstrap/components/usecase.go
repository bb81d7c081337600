package components

import (
	"retail-core/internal/pkg/clock"
	"retail-core/internal/usecase/commands"
	"retail-core/internal/usecase/queries"
	"retail-core/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	shared.NewRetryPolicy,
	commands.NewCodeGenerator,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewCouponUseCase,
		commands.NewOrderUseCase,
		commands.NewPaymentUseCase,
		commands.NewVerificationUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewCouponQueries,
		queries.NewOrderQueries,
		queries.NewPaymentQueries,
		queries.NewVerificationQueries,
	),
)
