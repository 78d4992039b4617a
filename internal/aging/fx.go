package aging

import (
	"github.com/Vignesh4110/finance-modernization/internal/aging/repository"
	"github.com/Vignesh4110/finance-modernization/internal/aging/service"
	"go.uber.org/fx"
)

var Module = fx.Module("aging.service",
	fx.Provide(repository.ProvideSnapshots),
	fx.Provide(service.New),
)
