package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"storygraph/internal/config"
	"storygraph/internal/registry"
)

func queryRelationsCmd() *cobra.Command {
	var relType string
	cmd := &cobra.Command{
		Use:   "relations <id>",
		Short: "Display relationships for an entity",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryRelations(args[0], relType)
		},
	}
	cmd.Flags().StringVar(&relType, "type", "", "Relationship type to filter")
	return cmd
}

func runQueryRelations(id, relType string) error {
	cfg, err := config.LoadProjectConfig("storygraph.yaml")
	if err != nil {
		return err
	}

	system, _, err := buildSystem(cfg)
	if err != nil {
		return err
	}

	if system.FindEntity(id) == nil {
		fmt.Fprintf(os.Stdout, "No entity found for %q.\n", id)
		return nil
	}

	rels := system.Registry.RelationshipsFor(id)
	var filtered []registry.Relationship
	for _, rel := range rels {
		if relType != "" && string(rel.Type) != relType {
			continue
		}
		filtered = append(filtered, rel)
	}
	if len(filtered) == 0 {
		fmt.Fprintf(os.Stdout, "No relationships found for %q.\n", id)
		return nil
	}

	for _, rel := range filtered {
		line := fmt.Sprintf("%s (%s) -%s-> %s (%s)",
			rel.From.Name, rel.From.Type, rel.Type, rel.To.Name, rel.To.Type)
		if rel.Description != "" {
			line += fmt.Sprintf(" [%s]", rel.Description)
		}
		fmt.Fprintln(os.Stdout, line)
	}
	return nil
}
