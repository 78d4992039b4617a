package payment

import (
	"github.com/Vignesh4110/finance-modernization/internal/payment/repository"
	"github.com/Vignesh4110/finance-modernization/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
