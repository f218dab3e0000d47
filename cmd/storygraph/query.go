package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"storygraph/internal/timeline"
)

func queryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query the registry and timeline from the CLI",
	}
	cmd.AddCommand(queryEntityCmd())
	cmd.AddCommand(queryRelationsCmd())
	cmd.AddCommand(querySearchCmd())
	cmd.AddCommand(queryTimelineCmd())
	cmd.AddCommand(queryStateCmd())
	return cmd
}

func eventWhen(e *timeline.Event) string {
	if e.Time.IsApproximate {
		return fmt.Sprintf("day %d", e.Time.StoryDay)
	}
	if !e.Time.Timestamp.IsZero() {
		return e.Time.Timestamp.Format("2006-01-02")
	}
	return "undated"
}

func joinValues(values []string) string {
	return strings.Join(values, ", ")
}
