package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"storygraph/internal/config"
)

func queryTimelineCmd() *cobra.Command {
	var viewName string
	var entityID string
	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Display the timeline through a named view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryTimeline(viewName, entityID)
		},
	}
	cmd.Flags().StringVar(&viewName, "view", "", "View name (defaults to the active view)")
	cmd.Flags().StringVar(&entityID, "entity", "", "Show only events involving this entity")
	return cmd
}

func runQueryTimeline(viewName, entityID string) error {
	ctx := context.Background()

	cfg, err := config.LoadProjectConfig("storygraph.yaml")
	if err != nil {
		return err
	}

	system, _, err := buildSystem(cfg)
	if err != nil {
		return err
	}

	if cfg.Database.Driver != "" {
		db, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close(ctx)
		if _, err := loadStoredEvents(ctx, db, system); err != nil {
			return err
		}
	}

	if entityID != "" {
		events := system.EventsByEntity(entityID)
		if len(events) == 0 {
			fmt.Fprintf(os.Stdout, "No events involve %q.\n", entityID)
			return nil
		}
		for _, event := range events {
			fmt.Fprintf(os.Stdout, "  [%s] %s\n", eventWhen(event), event.Name)
		}
		return nil
	}

	viewID := ""
	if viewName == "" {
		active := system.Timeline.ActiveView()
		if active == nil {
			return fmt.Errorf("no active view; pass --view")
		}
		viewID = active.ID
	} else {
		for _, view := range system.Timeline.Views() {
			if strings.EqualFold(view.Name, viewName) {
				viewID = view.ID
				break
			}
		}
		if viewID == "" {
			return fmt.Errorf("no view named %q", viewName)
		}
	}

	resolved, err := system.Timeline.Resolve(viewID)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%s (%s)\n", resolved.View.Name, resolved.View.Scope)
	for _, group := range resolved.Groups {
		if group.Key != "" && group.Key != "none" {
			fmt.Fprintf(os.Stdout, "%s:\n", group.Key)
		}
		for _, event := range group.Events {
			line := fmt.Sprintf("  [%s] %s", eventWhen(event), event.Name)
			if event.PlotImpact.Importance > 0 {
				line += fmt.Sprintf(" (importance %d)", event.PlotImpact.Importance)
			}
			fmt.Fprintln(os.Stdout, line)
		}
	}
	return nil
}
