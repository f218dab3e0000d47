package sqlite

import (
	"context"
	"testing"
	"time"

	"storygraph/internal/consistency"
	"storygraph/internal/registry"
	"storygraph/internal/timeline"
)

func TestParseDSN(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "bare path", input: "storygraph.db", expected: "storygraph.db"},
		{name: "memory", input: ":memory:", expected: ":memory:"},
		{name: "sqlite url", input: "sqlite://data/storygraph.db", expected: "data/storygraph.db"},
		{name: "empty", input: "", wantErr: true},
		{name: "url without path", input: "sqlite://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDSN(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseDSN(%q) expected error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.expected {
				t.Errorf("parseDSN(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	ctx := context.Background()
	client, err := New(ctx, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { client.Close(ctx) })
	if err := client.EnsureSchema(ctx); err != nil {
		t.Fatal(err)
	}
	return client
}

func TestEventRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	event := timeline.Event{
		ID:          "ev1",
		Name:        "Kara crosses the rift",
		Description: "The crossing that starts the war",
		Scope:       timeline.ScopeStory,
		Time:        timeline.TimePoint{IsApproximate: true, StoryDay: 3},
		InvolvedEntities: []registry.Ref{
			{ID: "c1", Type: registry.TypeCharacter, Name: "Kara"},
		},
		StoryContext: &timeline.StoryContext{StoryID: "s1", ChapterID: "ch1"},
		PlotImpact:   timeline.PlotImpact{Importance: 4, PlotThreads: []string{"the war"}},
		Tags:         []string{"pivotal"},
		Status:       timeline.StatusActive,
		IsCanon:      true,
	}
	if err := client.SaveEvent(ctx, event); err != nil {
		t.Fatal(err)
	}

	// upsert under the same id
	event.Name = "Kara crosses the rift alone"
	if err := client.SaveEvent(ctx, event); err != nil {
		t.Fatal(err)
	}

	events, err := client.ListEvents(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	got := events[0]
	if got.Name != "Kara crosses the rift alone" {
		t.Errorf("expected upserted name, got %q", got.Name)
	}
	if !got.Time.IsApproximate || got.Time.StoryDay != 3 {
		t.Errorf("time point not restored: %+v", got.Time)
	}
	if len(got.InvolvedEntities) != 1 || got.InvolvedEntities[0].ID != "c1" {
		t.Errorf("involved entities not restored: %+v", got.InvolvedEntities)
	}
	if got.StoryContext == nil || got.StoryContext.StoryID != "s1" {
		t.Errorf("story context not restored: %+v", got.StoryContext)
	}
	if got.PlotImpact.Importance != 4 {
		t.Errorf("plot impact not restored: %+v", got.PlotImpact)
	}
	if !got.IsCanon {
		t.Error("canon flag not restored")
	}
}

func TestSearchEvents(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	for id, name := range map[string]string{
		"ev1": "Kara crosses the rift",
		"ev2": "Dorn burns the archive",
	} {
		if err := client.SaveEvent(ctx, timeline.Event{ID: id, Name: name, Scope: timeline.ScopeStory}); err != nil {
			t.Fatal(err)
		}
	}

	results, err := client.SearchEvents(ctx, "rift")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].ID != "ev1" {
		t.Fatalf("expected ev1 only, got %+v", results)
	}

	if _, err := client.SearchEvents(ctx, "  "); err == nil {
		t.Error("expected error for empty query")
	}
}

func TestAuditRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	changes := []consistency.StateChange{
		{
			Type:      consistency.ChangeUpdate,
			TargetID:  "c1",
			Property:  "level",
			OldValue:  4,
			NewValue:  5,
			Reason:    "level regression repaired",
			Automatic: true,
			At:        time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	if err := client.SaveStateChanges(ctx, "s1", 3, changes); err != nil {
		t.Fatal(err)
	}

	restored, err := client.ListStateChanges(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(restored) != 1 {
		t.Fatalf("expected 1 change, got %d", len(restored))
	}
	if !restored[0].Automatic || restored[0].Property != "level" {
		t.Errorf("change not restored verbatim: %+v", restored[0])
	}

	results := []consistency.Result{
		{
			Type:             consistency.LevelError,
			Category:         consistency.CategoryCharacter,
			Description:      "character level regressed between chapters",
			AffectedElements: []string{"c1"},
			Severity:         3,
			AutoFixable:      true,
			DetectedAt:       time.Date(2026, 2, 1, 0, 0, 1, 0, time.UTC),
		},
	}
	if err := client.SaveResults(ctx, "s1", 3, results); err != nil {
		t.Fatal(err)
	}

	restoredResults, err := client.ListResults(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(restoredResults) != 1 {
		t.Fatalf("expected 1 result, got %d", len(restoredResults))
	}
	if restoredResults[0].Severity != 3 || restoredResults[0].Category != consistency.CategoryCharacter {
		t.Errorf("result not restored verbatim: %+v", restoredResults[0])
	}

	if changes, err := client.ListStateChanges(ctx, "other"); err != nil || len(changes) != 0 {
		t.Errorf("expected no changes for other story, got %v (%v)", changes, err)
	}
}
