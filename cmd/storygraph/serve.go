package main

import (
	"context"

	"github.com/spf13/cobra"

	"storygraph/internal/config"
	"storygraph/internal/mcp"
	"storygraph/internal/store"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		RunE:  runServe,
	}
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadProjectConfig("storygraph.yaml")
	if err != nil {
		return err
	}

	system, _, err := buildSystem(cfg)
	if err != nil {
		return err
	}

	var db store.Store
	if cfg.Database.Driver != "" {
		db, err = openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close(ctx)
		if _, err := loadStoredEvents(ctx, db, system); err != nil {
			return err
		}
	}

	server := mcp.NewServer(system, db, version)
	return server.Run(ctx, &sdk.StdioTransport{})
}
