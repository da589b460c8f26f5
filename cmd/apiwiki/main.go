package main

import (
	"os"
	"strconv"

	"github.com/apiwikihq/apiwiki/internal/config"
	"github.com/apiwikihq/apiwiki/internal/migration"
	"github.com/apiwikihq/apiwiki/internal/observability"
	"github.com/apiwikihq/apiwiki/internal/server"
	"github.com/apiwikihq/apiwiki/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	nodeID := int64(1)
	if raw := os.Getenv("SNOWFLAKE_NODE_ID"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			nodeID = parsed
		}
	}

	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		panic(err)
	}
	return node
}
