package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	var projectName string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new storygraph project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(projectName) == "" {
				return fmt.Errorf("--name is required")
			}
			return runInit(projectName)
		},
	}
	cmd.Flags().StringVar(&projectName, "name", "", "Project name")
	return cmd
}

func runInit(projectName string) error {
	configPath := "storygraph.yaml"
	worldDir := "world"
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}
	if _, err := os.Stat(worldDir); err == nil {
		return fmt.Errorf("%s already exists", worldDir)
	}

	configContents := fmt.Sprintf(`project: %s
version: 1
world_dir: ./world

database:
  driver: sqlite
  dsn: storygraph.db

rules:
  - id: monotonic-level
    enabled: true
  - id: dead-character
    enabled: true

views:
  - name: Story Timeline
    scope: story
    group_by: story
    sort_by: chronological
    active: true
`, projectName)

	charactersContents := `- id: c1
  name: Protagonist
  role: protagonist
  level: 1
  tags: [pov]
`

	storiesContents := `- id: s1
  title: Working Title
  status: draft
  characters: [c1]
  chapters:
    - id: ch1
      title: Chapter One
      number: 1
`

	statesContents := `- story: s1
  chapter: ch1
  number: 1
  characters:
    c1:
      name: Protagonist
      level: 1
      alive: true
`

	if err := os.WriteFile(configPath, []byte(configContents), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", configPath, err)
	}
	if err := os.MkdirAll(worldDir, 0o750); err != nil {
		return fmt.Errorf("creating %s: %w", worldDir, err)
	}

	files := map[string]string{
		"characters.yaml": charactersContents,
		"stories.yaml":    storiesContents,
		"states.yaml":     statesContents,
	}
	for name, contents := range files {
		path := filepath.Join(worldDir, name)
		if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}

	fmt.Fprintf(os.Stdout, "Initialised %s. Edit %s and the files under %s/, then run storygraph ingest.\n", projectName, configPath, worldDir)
	return nil
}
