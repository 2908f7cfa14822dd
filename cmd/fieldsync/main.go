package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/smallretail/fieldsync/internal/clock"
	"github.com/smallretail/fieldsync/internal/config"
	"github.com/smallretail/fieldsync/internal/migration"
	"github.com/smallretail/fieldsync/internal/observability"
	"github.com/smallretail/fieldsync/internal/server"
	"github.com/smallretail/fieldsync/pkg/db"
	"github.com/smallretail/fieldsync/pkg/log"
)

func main() {
	app := fx.New(
		config.Module,
		log.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
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
