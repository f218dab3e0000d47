package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"storygraph/internal/config"
	"storygraph/internal/registry"
)

func querySearchCmd() *cobra.Command {
	var entityType string
	var tag string
	var limit int
	var searchEvents bool
	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Relevance-ranked search over entities, or full-text search over events",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if searchEvents {
				return runQuerySearchEvents(args[0])
			}
			return runQuerySearchEntities(args[0], entityType, tag, limit)
		},
	}
	cmd.Flags().StringVar(&entityType, "type", "", "Entity type to filter")
	cmd.Flags().StringVar(&tag, "tag", "", "Tag to filter")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results")
	cmd.Flags().BoolVar(&searchEvents, "events", false, "Search stored timeline events instead of entities")
	return cmd
}

func runQuerySearchEntities(query, entityType, tag string, limit int) error {
	cfg, err := config.LoadProjectConfig("storygraph.yaml")
	if err != nil {
		return err
	}

	system, _, err := buildSystem(cfg)
	if err != nil {
		return err
	}

	opts := registry.SearchOptions{Query: query, Tag: tag, Limit: limit}
	if entityType != "" {
		opts.Types = []registry.EntityType{registry.EntityType(entityType)}
	}

	results := system.Registry.Search(opts)
	if len(results) == 0 {
		fmt.Fprintln(os.Stdout, "No matches found.")
		return nil
	}

	for _, result := range results {
		fmt.Fprintf(os.Stdout, "%s (%s) score=%.0f\n", result.Entity.Name, result.Entity.Type, result.Score)
	}
	return nil
}

func runQuerySearchEvents(query string) error {
	ctx := context.Background()

	cfg, err := config.LoadProjectConfig("storygraph.yaml")
	if err != nil {
		return err
	}

	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	events, err := db.SearchEvents(ctx, query)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintln(os.Stdout, "No matches found.")
		return nil
	}

	for _, event := range events {
		fmt.Fprintf(os.Stdout, "%s [%s] %s\n", event.Name, eventWhen(&event), event.Description)
	}
	return nil
}
