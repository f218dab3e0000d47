package mcp

import (
	"context"
	"testing"

	"storygraph/internal/adapt"
	"storygraph/internal/unified"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	system := unified.New()
	system.Bootstrap(adapt.Snapshot{
		Characters: []adapt.Character{{ID: "c1", Name: "Kara", Role: "protagonist"}},
		Stories: []adapt.Story{
			{ID: "s1", Title: "The Rift", CharacterIDs: []string{"c1"}},
		},
	})
	return NewServer(system, nil, "test")
}

func TestFindEntity_RequiresIDOrName(t *testing.T) {
	server := testServer(t)

	if _, _, err := server.handleFindEntity(context.Background(), nil, FindEntityInput{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestFindEntity_ByIDAndByName(t *testing.T) {
	server := testServer(t)

	_, output, err := server.handleFindEntity(context.Background(), nil, FindEntityInput{ID: "c1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(output.Entities) != 1 || output.Entities[0].Name != "Kara" {
		t.Errorf("unexpected output: %+v", output)
	}

	_, output, err = server.handleFindEntity(context.Background(), nil, FindEntityInput{Name: "the rift"})
	if err != nil {
		t.Fatal(err)
	}
	if len(output.Entities) != 1 || output.Entities[0].ID != "s1" {
		t.Errorf("unexpected output: %+v", output)
	}
}

func TestSearchEntities(t *testing.T) {
	server := testServer(t)

	_, output, err := server.handleSearchEntities(context.Background(), nil, SearchEntitiesInput{Query: "kara"})
	if err != nil {
		t.Fatal(err)
	}
	if len(output.Results) != 1 || output.Results[0].ID != "c1" {
		t.Errorf("unexpected results: %+v", output.Results)
	}
}

func TestCreateEventAndGetTimeline(t *testing.T) {
	server := testServer(t)

	_, created, err := server.handleCreateEvent(context.Background(), nil, CreateEventInput{
		Name:             "Kara crosses the rift",
		StoryDay:         2,
		StoryID:          "s1",
		InvolvedEntities: []string{"c1"},
		Importance:       4,
	})
	if err != nil {
		t.Fatal(err)
	}
	if created.EventID == "" {
		t.Fatal("expected event id")
	}

	_, output, err := server.handleGetTimeline(context.Background(), nil, GetTimelineInput{EntityID: "c1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(output.Events) != 1 || output.Events[0].ID != created.EventID {
		t.Errorf("unexpected timeline: %+v", output.Events)
	}
	if output.Events[0].StoryDay != 2 {
		t.Errorf("expected story day 2, got %d", output.Events[0].StoryDay)
	}
}

func TestCheckConsistency(t *testing.T) {
	server := testServer(t)

	_, output, err := server.handleCheckConsistency(context.Background(), nil, CheckConsistencyInput{})
	if err != nil {
		t.Fatal(err)
	}
	if !output.IsValid {
		t.Errorf("expected valid report, got issues %+v", output.Issues)
	}
}
