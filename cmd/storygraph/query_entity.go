package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"storygraph/internal/config"
)

func queryEntityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entity <id-or-name>",
		Short: "Display an entity, its tags, and its relationships",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryEntity(args[0])
		},
	}
	return cmd
}

func runQueryEntity(key string) error {
	cfg, err := config.LoadProjectConfig("storygraph.yaml")
	if err != nil {
		return err
	}

	system, _, err := buildSystem(cfg)
	if err != nil {
		return err
	}

	entity := system.FindEntity(key)
	if entity == nil {
		matches := system.FindEntitiesByName(key)
		if len(matches) == 0 {
			fmt.Fprintf(os.Stdout, "No entity found for %q.\n", key)
			return nil
		}
		if len(matches) > 1 {
			fmt.Fprintf(os.Stdout, "Multiple entities match %q:\n", key)
			for _, match := range matches {
				fmt.Fprintf(os.Stdout, "  - %s (%s) id=%s\n", match.Name, match.Type, match.ID)
			}
			return nil
		}
		entity = matches[0]
	}

	fmt.Fprintf(os.Stdout, "Name: %s\n", entity.Name)
	fmt.Fprintf(os.Stdout, "Type: %s\n", entity.Type)
	fmt.Fprintf(os.Stdout, "ID:   %s\n", entity.ID)
	if len(entity.Tags) > 0 {
		fmt.Fprintf(os.Stdout, "Tags: %s\n", joinValues(entity.Tags))
	}

	if len(entity.Metadata) > 0 {
		keys := make([]string, 0, len(entity.Metadata))
		for key := range entity.Metadata {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		fmt.Fprintln(os.Stdout, "Metadata:")
		for _, key := range keys {
			fmt.Fprintf(os.Stdout, "  %s: %v\n", key, entity.Metadata[key])
		}
	}

	rels := system.Registry.RelationshipsFor(entity.ID)
	if len(rels) > 0 {
		fmt.Fprintln(os.Stdout, "Relationships:")
		for _, rel := range rels {
			fmt.Fprintf(os.Stdout, "  %s -%s-> %s\n", rel.From.Name, rel.Type, rel.To.Name)
		}
	}
	return nil
}
