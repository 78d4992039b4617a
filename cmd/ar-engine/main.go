package main

import (
	"github.com/Vignesh4110/finance-modernization/internal/clock"
	"github.com/Vignesh4110/finance-modernization/internal/config"
	"github.com/Vignesh4110/finance-modernization/internal/migration"
	"github.com/Vignesh4110/finance-modernization/internal/observability"
	"github.com/Vignesh4110/finance-modernization/internal/scheduler"
	"github.com/Vignesh4110/finance-modernization/internal/server"
	"github.com/Vignesh4110/finance-modernization/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

// Single binary running the API and the snapshot scheduler together,
// for small deployments and local development.
func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		server.Module,
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
