package main

import (
	"github.com/Vignesh4110/finance-modernization/internal/aging"
	"github.com/Vignesh4110/finance-modernization/internal/clock"
	"github.com/Vignesh4110/finance-modernization/internal/config"
	"github.com/Vignesh4110/finance-modernization/internal/customer"
	"github.com/Vignesh4110/finance-modernization/internal/invoice"
	"github.com/Vignesh4110/finance-modernization/internal/migration"
	"github.com/Vignesh4110/finance-modernization/internal/observability"
	"github.com/Vignesh4110/finance-modernization/internal/payment"
	"github.com/Vignesh4110/finance-modernization/internal/scheduler"
	"github.com/Vignesh4110/finance-modernization/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Domain services the snapshot job depends on.
		customer.Module,
		invoice.Module,
		payment.Module,
		aging.Module,

		// No server module: this binary only runs the batch loop.
		scheduler.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
