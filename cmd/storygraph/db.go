package main

import (
	"context"
	"fmt"

	"storygraph/internal/config"
	"storygraph/internal/store"
	"storygraph/internal/store/postgres"
	"storygraph/internal/store/sqlite"
)

func openStore(ctx context.Context, cfg *config.ProjectConfig) (store.Store, error) {
	var (
		client store.Store
		err    error
	)
	switch cfg.Database.Driver {
	case "sqlite":
		client, err = sqlite.New(ctx, cfg.Database.DSN)
	case "postgres":
		client, err = postgres.New(ctx, cfg.Database.DSN)
	case "":
		return nil, fmt.Errorf("no database configured in storygraph.yaml")
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := client.EnsureSchema(ctx); err != nil {
		client.Close(ctx)
		return nil, err
	}
	return client, nil
}
