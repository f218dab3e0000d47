package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"storygraph/internal/config"
	"storygraph/internal/registry"
	"storygraph/internal/timeline"
)

func eventCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Record story events",
	}
	cmd.AddCommand(eventAddCmd())
	return cmd
}

func eventAddCmd() *cobra.Command {
	var (
		description string
		scope       string
		storyID     string
		chapterID   string
		day         int
		involves    []string
		importance  int
		tags        []string
	)
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an event to the timeline and persist it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			event := timeline.Event{
				Name:        args[0],
				Description: description,
				Scope:       timeline.Scope(scope),
				Time:        timeline.TimePoint{IsApproximate: true, StoryDay: day},
				PlotImpact:  timeline.PlotImpact{Importance: importance},
				Tags:        tags,
				IsCanon:     true,
			}
			if storyID != "" || chapterID != "" {
				event.StoryContext = &timeline.StoryContext{StoryID: storyID, ChapterID: chapterID}
			}
			return runEventAdd(event, involves)
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "What happens")
	cmd.Flags().StringVar(&scope, "scope", "story", "Scope: story, character, or world")
	cmd.Flags().StringVar(&storyID, "story", "", "Story the event belongs to")
	cmd.Flags().StringVar(&chapterID, "chapter", "", "Chapter the event belongs to")
	cmd.Flags().IntVar(&day, "day", 0, "Approximate day in the story")
	cmd.Flags().StringSliceVar(&involves, "involves", nil, "Entity ids involved in the event")
	cmd.Flags().IntVar(&importance, "importance", 0, "Plot importance from 1 to 5")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tags for the event")
	return cmd
}

func runEventAdd(event timeline.Event, involves []string) error {
	ctx := context.Background()

	cfg, err := config.LoadProjectConfig("storygraph.yaml")
	if err != nil {
		return err
	}

	system, _, err := buildSystem(cfg)
	if err != nil {
		return err
	}

	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	if _, err := loadStoredEvents(ctx, db, system); err != nil {
		return err
	}

	for _, id := range involves {
		ref := registry.Ref{ID: id}
		if entity := system.FindEntity(id); entity != nil {
			ref = entity.Ref()
		} else {
			fmt.Fprintf(os.Stdout, "Warning: unknown entity %q\n", id)
		}
		event.InvolvedEntities = append(event.InvolvedEntities, ref)
	}

	id := system.CreateStoryEvent(event)
	stored := system.Timeline.Event(id)
	if err := db.SaveEvent(ctx, *stored); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Recorded event %s.\n", id)
	return nil
}
