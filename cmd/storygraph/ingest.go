package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"storygraph/internal/config"
)

var ingestRecord bool

func ingestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Rebuild the registry and timeline from the world directory",
		RunE:  runIngest,
	}
	cmd.Flags().BoolVar(&ingestRecord, "record", false, "Persist state changes and check findings to the database")
	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadProjectConfig("storygraph.yaml")
	if err != nil {
		return err
	}

	system, result, err := buildSystem(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "Ingestion complete.")
	fmt.Fprintf(os.Stdout, "  Entities upserted:      %d\n", result.Entities)
	fmt.Fprintf(os.Stdout, "  Relationships upserted: %d\n", result.Relationships)
	fmt.Fprintf(os.Stdout, "  Views seeded:           %d\n", result.Views)
	fmt.Fprintf(os.Stdout, "  Snapshots recorded:     %d\n", result.Snapshots)

	if ingestRecord {
		db, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close(ctx)

		recorded := 0
		for _, state := range system.Consistency.History() {
			if err := db.SaveStateChanges(ctx, state.StoryID, state.ChapterNumber, state.ChangeLog); err != nil {
				return err
			}
			if err := db.SaveResults(ctx, state.StoryID, state.ChapterNumber, state.Checks); err != nil {
				return err
			}
			recorded++
		}
		fmt.Fprintf(os.Stdout, "  Audit trail written for %d snapshots\n", recorded)
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintf(os.Stdout, "\nWarnings (%d):\n", len(result.Warnings))
		for _, warning := range result.Warnings {
			fmt.Fprintf(os.Stdout, "  - %s\n", warning)
		}
		return fmt.Errorf("ingestion completed with warnings")
	}

	return nil
}
