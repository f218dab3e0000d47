package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"storygraph/internal/config"
	"storygraph/internal/consistency"
	"storygraph/internal/store"
)

var validateSave bool

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run continuity checks across the registry, timeline, and world states",
		RunE:  runValidate,
	}
	cmd.Flags().BoolVar(&validateSave, "save", false, "Persist the findings to the database")
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadProjectConfig("storygraph.yaml")
	if err != nil {
		return err
	}

	system, _, err := buildSystem(cfg)
	if err != nil {
		return err
	}

	var db store.Store
	if cfg.Database.Driver != "" {
		db, err = openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close(ctx)
		if _, err := loadStoredEvents(ctx, db, system); err != nil {
			return err
		}
	}

	report := system.ValidateConsistency()

	var errorIssues []consistency.Result
	var warnIssues []consistency.Result
	var infoIssues []consistency.Result
	for _, issue := range report.Issues {
		switch issue.Type {
		case consistency.LevelError:
			errorIssues = append(errorIssues, issue)
		case consistency.LevelWarning:
			warnIssues = append(warnIssues, issue)
		default:
			infoIssues = append(infoIssues, issue)
		}
	}

	if len(report.Issues) == 0 {
		fmt.Fprintln(os.Stdout, "No issues found.")
		return nil
	}

	if len(errorIssues) > 0 {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stdout, "Errors (%d):\n", len(errorIssues))
		printIssues(errorIssues)
	}
	if len(warnIssues) > 0 {
		if len(errorIssues) > 0 {
			fmt.Fprintln(os.Stdout, "")
		}
		color.New(color.FgYellow, color.Bold).Fprintf(os.Stdout, "Warnings (%d):\n", len(warnIssues))
		printIssues(warnIssues)
	}
	if len(infoIssues) > 0 {
		if len(errorIssues)+len(warnIssues) > 0 {
			fmt.Fprintln(os.Stdout, "")
		}
		color.New(color.FgCyan).Fprintf(os.Stdout, "Notes (%d):\n", len(infoIssues))
		printIssues(infoIssues)
	}

	if validateSave {
		if db == nil {
			return fmt.Errorf("--save requires a database in storygraph.yaml")
		}
		latest := system.Consistency.Latest()
		if latest == nil {
			return fmt.Errorf("--save requires at least one recorded chapter state")
		}
		if err := db.SaveResults(ctx, latest.StoryID, latest.ChapterNumber, report.Issues); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "\nSaved %d findings for %s chapter %d.\n", len(report.Issues), latest.StoryID, latest.ChapterNumber)
	}

	if !report.IsValid {
		return fmt.Errorf("validation found errors")
	}
	return nil
}

func printIssues(issues []consistency.Result) {
	for _, issue := range issues {
		fmt.Fprintf(os.Stdout, "  - [%s] %s (severity %d)\n", issue.Category, issue.Description, issue.Severity)
		if issue.Details != "" {
			fmt.Fprintf(os.Stdout, "    %s\n", issue.Details)
		}
		if issue.SuggestedFix != "" {
			fmt.Fprintf(os.Stdout, "    fix: %s\n", issue.SuggestedFix)
		}
	}
}
