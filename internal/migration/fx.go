package migration

import (
	agingrepo "github.com/Vignesh4110/finance-modernization/internal/aging/repository"
	"github.com/Vignesh4110/finance-modernization/internal/config"
	customerdomain "github.com/Vignesh4110/finance-modernization/internal/customer/domain"
	invoicedomain "github.com/Vignesh4110/finance-modernization/internal/invoice/domain"
	paymentdomain "github.com/Vignesh4110/finance-modernization/internal/payment/domain"
	schedulerdomain "github.com/Vignesh4110/finance-modernization/internal/scheduler/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}

		// sqlite and mysql dev targets get schema from the models; the
		// versioned SQL only tracks the production postgres database.
		return conn.AutoMigrate(
			&customerdomain.Customer{},
			&invoicedomain.Invoice{},
			&paymentdomain.Payment{},
			&agingrepo.SnapshotModel{},
			&schedulerdomain.JobRun{},
		)
	}),
)
