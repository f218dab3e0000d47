package unified

import (
	"testing"

	"storygraph/internal/adapt"
	"storygraph/internal/consistency"
	"storygraph/internal/registry"
	"storygraph/internal/timeline"
)

func testSnapshot() adapt.Snapshot {
	return adapt.Snapshot{
		Characters: []adapt.Character{
			{ID: "c1", Name: "Kara", Role: "protagonist", Level: 5},
			{ID: "c2", Name: "Dorn", Role: "rival"},
		},
		Stories: []adapt.Story{
			{
				ID:           "s1",
				Title:        "The Rift",
				CharacterIDs: []string{"c1", "c2"},
				Chapters: []adapt.Chapter{
					{ID: "ch1", Title: "Arrival", Number: 1},
					{ID: "ch2", Title: "Descent", Number: 2},
				},
			},
		},
		Series: []adapt.Series{
			{ID: "ser1", Title: "Riftworks", Books: []adapt.Book{
				{ID: "b1", Title: "Vol. 1", Number: 1, StoryID: "s1"},
			}},
		},
	}
}

func TestBootstrap_PopulatesRegistryAndViews(t *testing.T) {
	s := New()
	result := s.Bootstrap(testSnapshot())

	// 2 characters + 1 story + 2 chapters + 1 series + 1 book
	if result.Entities != 7 {
		t.Errorf("expected 7 entities, got %d", result.Entities)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
	if result.Views != 3 {
		t.Errorf("expected 3 seeded views, got %d", result.Views)
	}
	if view := s.Timeline.ActiveView(); view == nil || view.Scope != timeline.ScopeStory {
		t.Error("expected story view active after bootstrap")
	}
}

func TestBootstrap_Rerunnable(t *testing.T) {
	s := New()
	s.Bootstrap(testSnapshot())
	s.Bootstrap(testSnapshot())

	if s.Registry.Len() != 7 {
		t.Errorf("expected 7 entities after re-run, got %d", s.Registry.Len())
	}
	if len(s.Timeline.Views()) != 3 {
		t.Errorf("expected 3 views after re-run, got %d", len(s.Timeline.Views()))
	}
}

func TestBootstrap_SkipsMalformedWithWarning(t *testing.T) {
	s := New()
	snap := testSnapshot()
	snap.Characters = append(snap.Characters, adapt.Character{ID: "c3"}) // no name

	result := s.Bootstrap(snap)
	if len(result.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", result.Warnings)
	}
	if s.Registry.Get("c3") != nil {
		t.Error("malformed record must not be registered")
	}
}

func TestFindRelatedEntities_ParticipationScenario(t *testing.T) {
	s := New()
	s.Bootstrap(testSnapshot())

	related := s.FindRelatedEntities("s1")
	ids := make(map[string]bool)
	for _, ref := range related {
		ids[ref.ID] = true
	}
	if !ids["c1"] {
		t.Errorf("expected c1 related to s1, got %v", related)
	}
	if !ids["ch1"] || !ids["ch2"] {
		t.Errorf("expected chapters related to s1, got %v", related)
	}
}

func TestCreateStoryEventAndQueryByEntity(t *testing.T) {
	s := New()
	s.Bootstrap(testSnapshot())

	id := s.CreateStoryEvent(timeline.Event{
		Name: "Kara crosses the rift",
		Time: timeline.TimePoint{IsApproximate: true, StoryDay: 2},
		InvolvedEntities: []registry.Ref{
			{ID: "c1", Type: registry.TypeCharacter, Name: "Kara"},
		},
		StoryContext: &timeline.StoryContext{StoryID: "s1", ChapterID: "ch1"},
	})
	if id == "" {
		t.Fatal("expected event id")
	}

	events := s.EventsByEntity("c1")
	if len(events) != 1 || events[0].ID != id {
		t.Fatalf("expected the created event, got %+v", events)
	}
	if events[0].Scope != timeline.ScopeStory {
		t.Errorf("expected defaulted story scope, got %s", events[0].Scope)
	}
}

func TestValidateConsistency_DanglingEdge(t *testing.T) {
	s := New()
	s.Bootstrap(testSnapshot())
	s.Registry.AddRelationship(registry.Relationship{
		From: registry.Ref{ID: "c1", Type: registry.TypeCharacter},
		To:   registry.Ref{ID: "ghost", Type: registry.TypeCharacter},
		Type: registry.RelEnemy,
	})

	report := s.ValidateConsistency()
	if report.IsValid {
		t.Error("expected report to be invalid")
	}
	var dangling bool
	for _, issue := range report.Issues {
		if issue.Category == consistency.CategoryReference && issue.Type == consistency.LevelError {
			dangling = true
		}
	}
	if !dangling {
		t.Error("expected a dangling reference error")
	}
}

func TestValidateConsistency_IncludesSnapshotChecks(t *testing.T) {
	s := New()
	snap := testSnapshot()
	snap.States = []adapt.ChapterState{
		{StoryID: "s1", ChapterID: "ch1", ChapterNumber: 1, Characters: map[string]consistency.CharacterState{
			"c1": {Name: "Kara", Level: 5, Alive: true},
		}},
		{StoryID: "s1", ChapterID: "ch2", ChapterNumber: 2, Characters: map[string]consistency.CharacterState{
			"c1": {Name: "Kara", Level: 4, Alive: true},
		}},
	}
	result := s.Bootstrap(snap)
	if result.Snapshots != 2 {
		t.Fatalf("expected 2 snapshots, got %d", result.Snapshots)
	}

	report := s.ValidateConsistency()
	var regression bool
	for _, issue := range report.Issues {
		if issue.Category == consistency.CategoryCharacter && issue.Severity >= 3 {
			regression = true
		}
	}
	if !regression {
		t.Error("expected the level regression finding in the report")
	}
}
