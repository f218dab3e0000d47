package timeline

import (
	"fmt"
	"testing"
	"time"

	"storygraph/internal/registry"
)

func newTestEngine() *Engine {
	g := NewEngine()
	seq := 0
	g.newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	return g
}

func approxEvent(name string, day int, involved ...string) Event {
	e := Event{
		Name:  name,
		Scope: ScopeStory,
		Time:  TimePoint{IsApproximate: true, StoryDay: day},
	}
	for _, id := range involved {
		e.InvolvedEntities = append(e.InvolvedEntities, registry.Ref{ID: id, Type: registry.TypeCharacter})
	}
	return e
}

func TestAddEvent_AssignsIDAndUpserts(t *testing.T) {
	g := newTestEngine()

	id := g.AddEvent(approxEvent("first", 1))
	if id == "" {
		t.Fatal("expected assigned id")
	}

	g.AddEvent(Event{ID: id, Name: "renamed", Scope: ScopeStory})
	if len(g.Events()) != 1 {
		t.Fatalf("expected 1 event after upsert, got %d", len(g.Events()))
	}
	if g.Event(id).Name != "renamed" {
		t.Errorf("expected overwritten event, got %q", g.Event(id).Name)
	}
}

func TestResolve_ApproximateEventsOrderByStoryDay(t *testing.T) {
	g := newTestEngine()
	g.AddEvent(approxEvent("day one", 1))
	g.AddEvent(approxEvent("day three", 3))
	g.AddEvent(approxEvent("day two", 2))

	viewID := g.CreateView(View{Name: "test", Scope: ScopeStory})
	resolved, err := g.Resolve(viewID)
	if err != nil {
		t.Fatal(err)
	}
	events := resolved.Groups[0].Events
	want := []string{"day one", "day two", "day three"}
	for i, name := range want {
		if events[i].Name != name {
			t.Errorf("position %d: expected %q, got %q", i, name, events[i].Name)
		}
	}
}

func TestResolve_InterleavesExactAndApproximate(t *testing.T) {
	g := newTestEngine()
	anchor := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	g.AddEvent(approxEvent("approx day 2", 2))
	g.AddEvent(Event{Name: "exact day 0", Scope: ScopeStory, Time: TimePoint{Timestamp: anchor}})
	g.AddEvent(Event{Name: "exact day 3", Scope: ScopeStory, Time: TimePoint{Timestamp: anchor.AddDate(0, 0, 3)}})
	g.AddEvent(approxEvent("approx day 3", 3))

	viewID := g.CreateView(View{Name: "test", Scope: ScopeStory})
	resolved, err := g.Resolve(viewID)
	if err != nil {
		t.Fatal(err)
	}
	events := resolved.Groups[0].Events
	want := []string{"exact day 0", "approx day 2", "exact day 3", "approx day 3"}
	if len(events) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(events))
	}
	for i, name := range want {
		if events[i].Name != name {
			t.Errorf("position %d: expected %q, got %q", i, name, events[i].Name)
		}
	}
}

func TestResolve_FiltersByScopeAndGroups(t *testing.T) {
	g := newTestEngine()
	e := approxEvent("story beat", 1)
	e.StoryContext = &StoryContext{StoryID: "s1"}
	g.AddEvent(e)
	e2 := approxEvent("another beat", 2)
	e2.StoryContext = &StoryContext{StoryID: "s2"}
	g.AddEvent(e2)
	g.AddEvent(Event{Name: "world event", Scope: ScopeWorld, Time: TimePoint{IsApproximate: true, StoryDay: 1}})

	viewID := g.CreateView(View{Name: "by story", Scope: ScopeStory, GroupBy: GroupStory})
	resolved, err := g.Resolve(viewID)
	if err != nil {
		t.Fatal(err)
	}
	if len(resolved.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(resolved.Groups))
	}
	if resolved.Groups[0].Key != "s1" || resolved.Groups[1].Key != "s2" {
		t.Errorf("unexpected group keys: %q, %q", resolved.Groups[0].Key, resolved.Groups[1].Key)
	}
}

func TestEventsByEntity(t *testing.T) {
	g := newTestEngine()
	g.AddEvent(approxEvent("with kara", 2, "c1"))
	g.AddEvent(approxEvent("earlier with kara", 1, "c1"))
	g.AddEvent(approxEvent("without kara", 1, "c2"))
	g.AddEvent(approxEvent("no entities", 1))

	events := g.EventsByEntity("c1")
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Name != "earlier with kara" {
		t.Errorf("expected chronological order, got %q first", events[0].Name)
	}
}

func TestSetActiveView(t *testing.T) {
	g := newTestEngine()
	viewID := g.CreateView(View{Name: "a", Scope: ScopeStory})

	if err := g.SetActiveView("missing"); err == nil {
		t.Error("expected error for unknown view id")
	}
	if err := g.SetActiveView(viewID); err != nil {
		t.Fatal(err)
	}
	if g.ActiveView() == nil || g.ActiveView().ID != viewID {
		t.Error("active view not set")
	}
}

func TestCreateView_SameNameReplacesConfig(t *testing.T) {
	g := newTestEngine()
	id1 := g.CreateView(View{Name: "main", Scope: ScopeStory})
	id2 := g.CreateView(View{Name: "main", Scope: ScopeWorld})

	if id1 != id2 {
		t.Fatalf("expected stable view id for same name, got %s and %s", id1, id2)
	}
	if len(g.Views()) != 1 {
		t.Fatalf("expected 1 view, got %d", len(g.Views()))
	}
	if g.Views()[0].Scope != ScopeWorld {
		t.Errorf("expected replaced config, got scope %s", g.Views()[0].Scope)
	}
}
