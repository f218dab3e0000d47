package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"storygraph/internal/consistency"
)

type ProjectConfig struct {
	Project  string                   `yaml:"project"`
	Version  int                      `yaml:"version"`
	WorldDir string                   `yaml:"world_dir"`
	Database DatabaseConfig           `yaml:"database"`
	Rules    []consistency.RuleConfig `yaml:"rules"`
	Views    []ViewConfig             `yaml:"views"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite or postgres
	DSN    string `yaml:"dsn"`
}

type ViewConfig struct {
	Name    string `yaml:"name"`
	Scope   string `yaml:"scope"`
	GroupBy string `yaml:"group_by"`
	SortBy  string `yaml:"sort_by"`
	Active  bool   `yaml:"active"`
}

func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return &cfg, nil
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if strings.TrimSpace(cfg.WorldDir) == "" {
		return fmt.Errorf("world_dir is required")
	}

	switch cfg.Database.Driver {
	case "", "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
	if cfg.Database.Driver != "" && strings.TrimSpace(cfg.Database.DSN) == "" {
		return fmt.Errorf("database dsn is required when a driver is set")
	}

	seenRules := make(map[string]struct{})
	for i, rule := range cfg.Rules {
		if strings.TrimSpace(rule.ID) == "" {
			return fmt.Errorf("rule %d id is required", i)
		}
		if _, exists := seenRules[rule.ID]; exists {
			return fmt.Errorf("duplicate rule config: %s", rule.ID)
		}
		seenRules[rule.ID] = struct{}{}
	}

	seenViews := make(map[string]struct{})
	for i, view := range cfg.Views {
		if strings.TrimSpace(view.Name) == "" {
			return fmt.Errorf("view %d name is required", i)
		}
		key := strings.ToLower(view.Name)
		if _, exists := seenViews[key]; exists {
			return fmt.Errorf("duplicate view name: %s", view.Name)
		}
		seenViews[key] = struct{}{}
	}

	return nil
}
