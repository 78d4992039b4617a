package customer

import (
	"github.com/Vignesh4110/finance-modernization/internal/customer/repository"
	"github.com/Vignesh4110/finance-modernization/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
