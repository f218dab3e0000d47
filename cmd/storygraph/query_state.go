package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"storygraph/internal/config"
	"storygraph/internal/consistency"
)

func queryStateCmd() *cobra.Command {
	var showHistory bool
	cmd := &cobra.Command{
		Use:   "state <story-id>",
		Short: "Display the latest recorded world state for a story",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryState(args[0], showHistory)
		},
	}
	cmd.Flags().BoolVar(&showHistory, "history", false, "Include the persisted change history")
	return cmd
}

func runQueryState(storyID string, showHistory bool) error {
	ctx := context.Background()

	cfg, err := config.LoadProjectConfig("storygraph.yaml")
	if err != nil {
		return err
	}

	system, _, err := buildSystem(cfg)
	if err != nil {
		return err
	}

	var latest *consistency.WorldState
	for _, state := range system.Consistency.History() {
		if state.StoryID == storyID {
			latest = state
		}
	}
	if latest == nil {
		fmt.Fprintf(os.Stdout, "No recorded state for story %q.\n", storyID)
		return nil
	}

	fmt.Fprintf(os.Stdout, "Story %s, chapter %d\n", latest.StoryID, latest.ChapterNumber)

	if len(latest.Characters) > 0 {
		fmt.Fprintln(os.Stdout, "Characters:")
		for _, id := range sortedStateKeys(latest.Characters) {
			character := latest.Characters[id]
			status := "alive"
			if !character.Alive {
				status = "dead"
			}
			fmt.Fprintf(os.Stdout, "  %s: level %d, %s", character.Name, character.Level, status)
			if character.Location != "" {
				fmt.Fprintf(os.Stdout, ", at %s", character.Location)
			}
			fmt.Fprintln(os.Stdout, "")
			if len(character.Inventory) > 0 {
				fmt.Fprintf(os.Stdout, "    carrying: %s\n", joinValues(character.Inventory))
			}
		}
	}

	if len(latest.Locations) > 0 {
		fmt.Fprintln(os.Stdout, "Locations:")
		for _, id := range sortedStateKeys(latest.Locations) {
			location := latest.Locations[id]
			line := fmt.Sprintf("  %s", location.Name)
			if location.Destroyed {
				line += " (destroyed)"
			}
			if len(location.Occupants) > 0 {
				line += fmt.Sprintf(": %s", joinValues(location.Occupants))
			}
			fmt.Fprintln(os.Stdout, line)
		}
	}

	if len(latest.Items) > 0 {
		fmt.Fprintln(os.Stdout, "Items:")
		for _, id := range sortedStateKeys(latest.Items) {
			item := latest.Items[id]
			line := fmt.Sprintf("  %s", item.Name)
			if item.Destroyed {
				line += " (destroyed)"
			}
			if item.Holder != "" {
				line += fmt.Sprintf(", held by %s", item.Holder)
			}
			fmt.Fprintln(os.Stdout, line)
		}
	}

	if len(latest.ChangeLog) > 0 {
		fmt.Fprintln(os.Stdout, "Changes this chapter:")
		printChanges(latest.ChangeLog)
	}

	if showHistory {
		db, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close(ctx)

		changes, err := db.ListStateChanges(ctx, storyID)
		if err != nil {
			return err
		}
		if len(changes) > 0 {
			fmt.Fprintln(os.Stdout, "Recorded history:")
			printChanges(changes)
		}
	}
	return nil
}

func printChanges(changes []consistency.StateChange) {
	for _, change := range changes {
		line := fmt.Sprintf("  %s %s.%s: %v -> %v", change.Type, change.TargetID, change.Property, change.OldValue, change.NewValue)
		if change.Automatic {
			line += " (auto)"
		}
		fmt.Fprintln(os.Stdout, line)
	}
}

func sortedStateKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
