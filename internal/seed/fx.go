package seed

import (
	"context"

	"github.com/Vignesh4110/finance-modernization/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("seed",
	fx.Provide(New),
	fx.Invoke(seedOnStartup),
)

func seedOnStartup(lc fx.Lifecycle, cfg config.Config, seeder *Seeder) {
	if !cfg.SeedOnStartup {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return seeder.Ensure(ctx)
		},
	})
}
