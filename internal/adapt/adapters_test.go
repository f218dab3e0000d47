package adapt

import (
	"reflect"
	"testing"

	"storygraph/internal/registry"
)

func TestAdaptStory(t *testing.T) {
	story := Story{
		ID:           "s1",
		Title:        "The Rift",
		Genre:        "fantasy",
		SeriesID:     "ser1",
		CharacterIDs: []string{"c1", "c1", "c2"},
	}

	entity, edges, ok := Adapt(registry.TypeStory, story)
	if !ok {
		t.Fatal("expected story to adapt")
	}
	if entity.ID != "s1" || entity.Name != "The Rift" || entity.Type != registry.TypeStory {
		t.Errorf("unexpected entity: %+v", entity)
	}

	// part_of series + one participates edge per distinct character
	if len(edges) != 3 {
		t.Fatalf("expected 3 deduped edges, got %d", len(edges))
	}
	var participates int
	for _, edge := range edges {
		if edge.Type == registry.RelParticipates {
			participates++
			if !edge.Bidirectional {
				t.Error("participates edge should be bidirectional")
			}
		}
	}
	if participates != 2 {
		t.Errorf("expected 2 participates edges, got %d", participates)
	}
}

func TestAdapt_SkipsMalformedRecords(t *testing.T) {
	tests := []struct {
		name       string
		domainType registry.EntityType
		record     any
	}{
		{"story without id", registry.TypeStory, Story{Title: "x"}},
		{"story without title", registry.TypeStory, Story{ID: "s1"}},
		{"character without name", registry.TypeCharacter, Character{ID: "c1"}},
		{"wrong record type", registry.TypeCharacter, Story{ID: "s1", Title: "x"}},
		{"unknown domain type", registry.EntityType("widget"), Story{ID: "s1", Title: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, ok := Adapt(tt.domainType, tt.record); ok {
				t.Error("expected record to be skipped")
			}
		})
	}
}

func TestAdapt_Idempotent(t *testing.T) {
	character := Character{ID: "c1", Name: "Kara", Role: "protagonist", Level: 5}

	e1, edges1, ok1 := Adapt(registry.TypeCharacter, character)
	e2, edges2, ok2 := Adapt(registry.TypeCharacter, character)

	if !ok1 || !ok2 {
		t.Fatal("expected both runs to adapt")
	}
	if !reflect.DeepEqual(e1, e2) {
		t.Errorf("entities differ between runs: %+v vs %+v", e1, e2)
	}
	if !reflect.DeepEqual(edges1, edges2) {
		t.Errorf("edges differ between runs: %+v vs %+v", edges1, edges2)
	}
}

func TestAdaptChapter_EmitsPartOfEdge(t *testing.T) {
	chapter := Chapter{ID: "ch1", Title: "Arrival", Number: 1, StoryID: "s1"}

	entity, edges, ok := Adapt(registry.TypeChapter, chapter)
	if !ok {
		t.Fatal("expected chapter to adapt")
	}
	if entity.Metadata["number"] != 1 {
		t.Errorf("expected chapter number in metadata, got %v", entity.Metadata["number"])
	}
	if len(edges) != 1 || edges[0].Type != registry.RelPartOf || edges[0].To.ID != "s1" {
		t.Errorf("expected part_of edge to story, got %+v", edges)
	}
}

func TestAdaptBook_LinksSeriesAndStory(t *testing.T) {
	book := Book{ID: "b1", Title: "Vol. 1", Number: 1, StoryID: "s1", SeriesID: "ser1"}

	_, edges, ok := Adapt(registry.TypeBook, book)
	if !ok {
		t.Fatal("expected book to adapt")
	}
	if len(edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(edges))
	}
	if edges[0].Type != registry.RelParentOf || edges[0].From.ID != "ser1" {
		t.Errorf("expected series parent_of book, got %+v", edges[0])
	}
	if edges[1].Type != registry.RelPartOf || edges[1].To.ID != "s1" {
		t.Errorf("expected book part_of story, got %+v", edges[1])
	}
}
