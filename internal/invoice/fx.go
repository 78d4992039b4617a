package invoice

import (
	"github.com/Vignesh4110/finance-modernization/internal/invoice/repository"
	"github.com/Vignesh4110/finance-modernization/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
