package bootstrap

import (
	"retail-core/internal/pkg/config"

	"go.uber.org/fx"
)

// ConfigSections splits the loaded Config into the sections use cases depend on.
var ConfigSections = fx.Provide(
	func(cfg config.Config) config.CheckoutConfig { return cfg.Checkout },
	func(cfg config.Config) config.VerificationConfig { return cfg.Verification },
)

var ConfigModule = fx.Module("config",
	fx.Provide(config.LoadConfig),
	ConfigSections,
)
