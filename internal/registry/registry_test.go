package registry

import (
	"testing"
	"time"
)

func newTestRegistry() (*Registry, *time.Time) {
	r := New()
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return r, &clock
}

func TestAddEntity_UpsertKeepsOneRecord(t *testing.T) {
	r, _ := newTestRegistry()

	r.AddEntity(Entity{ID: "c1", Name: "Kara", Type: TypeCharacter})
	first := *r.Get("c1")

	r.AddEntity(Entity{ID: "c1", Name: "Kara Voss", Type: TypeCharacter})

	if r.Len() != 1 {
		t.Fatalf("expected 1 entity after upsert, got %d", r.Len())
	}
	updated := r.Get("c1")
	if updated.Name != "Kara Voss" {
		t.Errorf("expected overwritten name, got %q", updated.Name)
	}
	if !updated.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt changed on upsert: %v -> %v", first.CreatedAt, updated.CreatedAt)
	}
	if !updated.UpdatedAt.After(first.UpdatedAt) {
		t.Errorf("UpdatedAt not advanced: %v -> %v", first.UpdatedAt, updated.UpdatedAt)
	}
}

func TestGet_AbsentReturnsNil(t *testing.T) {
	r, _ := newTestRegistry()
	if got := r.Get("missing"); got != nil {
		t.Fatalf("expected nil for absent id, got %+v", got)
	}
}

func TestEntities_CreationOrderSurvivesUpsert(t *testing.T) {
	r, _ := newTestRegistry()
	r.AddEntity(Entity{ID: "a", Name: "A", Type: TypeStory})
	r.AddEntity(Entity{ID: "b", Name: "B", Type: TypeStory})
	r.AddEntity(Entity{ID: "a", Name: "A2", Type: TypeStory})

	entities := r.Entities()
	if len(entities) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(entities))
	}
	if entities[0].ID != "a" || entities[1].ID != "b" {
		t.Errorf("creation order broken: %s, %s", entities[0].ID, entities[1].ID)
	}
}

func TestAddRelationship_DedupesByFromToType(t *testing.T) {
	r, _ := newTestRegistry()
	edge := Relationship{
		From: Ref{ID: "c1", Type: TypeCharacter, Name: "Kara"},
		To:   Ref{ID: "s1", Type: TypeStory, Name: "The Rift"},
		Type: RelParticipates,
	}
	r.AddRelationship(edge)
	edge.Strength = 8
	r.AddRelationship(edge)

	edges := r.Relationships()
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge after dedupe, got %d", len(edges))
	}
	if edges[0].Strength != 8 {
		t.Errorf("expected upserted strength 8, got %v", edges[0].Strength)
	}
}

func TestRelationshipsFor_BidirectionalSynthesized(t *testing.T) {
	r, _ := newTestRegistry()
	r.AddRelationship(Relationship{
		From:          Ref{ID: "a", Type: TypeCharacter, Name: "A"},
		To:            Ref{ID: "b", Type: TypeCharacter, Name: "B"},
		Type:          RelAlly,
		Bidirectional: true,
	})
	r.AddRelationship(Relationship{
		From: Ref{ID: "c", Type: TypeCharacter, Name: "C"},
		To:   Ref{ID: "b", Type: TypeCharacter, Name: "B"},
		Type: RelEnemy,
	})

	fromB := r.RelationshipsFor("b")
	if len(fromB) != 1 {
		t.Fatalf("expected 1 traversable edge from b, got %d", len(fromB))
	}
	if fromB[0].From.ID != "b" || fromB[0].To.ID != "a" {
		t.Errorf("expected synthesized reverse b->a, got %s->%s", fromB[0].From.ID, fromB[0].To.ID)
	}
}

func TestRelated_IncludesBothDirections(t *testing.T) {
	r, _ := newTestRegistry()
	r.AddEntity(Entity{ID: "c1", Name: "Kara", Type: TypeCharacter})
	r.AddEntity(Entity{ID: "s1", Name: "The Rift", Type: TypeStory})
	r.AddRelationship(Relationship{
		From: Ref{ID: "c1", Type: TypeCharacter, Name: "Kara"},
		To:   Ref{ID: "s1", Type: TypeStory, Name: "The Rift"},
		Type: RelParticipates,
	})

	related := r.Related("s1")
	if len(related) != 1 || related[0].ID != "c1" {
		t.Fatalf("expected related [c1], got %+v", related)
	}
}

func TestFindByName_ExactBeatsPartial(t *testing.T) {
	r, _ := newTestRegistry()
	r.AddEntity(Entity{ID: "1", Name: "Aria", Type: TypeCharacter})
	r.AddEntity(Entity{ID: "2", Name: "Arianna", Type: TypeCharacter})

	got := r.FindByName("aria")
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("expected exact match only, got %+v", got)
	}

	got = r.FindByName("arian")
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("expected partial match, got %+v", got)
	}
}
