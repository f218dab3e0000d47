package timeline

import (
	"fmt"

	"github.com/google/uuid"
)

// Engine owns the shared event set and the named views over it. Views hold
// configuration only; every read resolves the projection from scratch.
type Engine struct {
	events     map[string]*Event
	order      []string
	views      map[string]*View
	viewOrder  []string
	activeView string

	newID func() string
}

func NewEngine() *Engine {
	return &Engine{
		events: make(map[string]*Event),
		views:  make(map[string]*View),
		newID:  func() string { return uuid.NewString() },
	}
}

// AddEvent stores the event, assigning an id when absent, and returns the id.
// Re-adding an existing id overwrites in place.
func (g *Engine) AddEvent(e Event) string {
	if e.ID == "" {
		e.ID = g.newID()
	}
	if e.Status == "" {
		e.Status = StatusActive
	}
	if _, ok := g.events[e.ID]; !ok {
		g.order = append(g.order, e.ID)
	}
	stored := e
	g.events[e.ID] = &stored
	return e.ID
}

func (g *Engine) Event(id string) *Event {
	return g.events[id]
}

// Events returns all events in insertion order.
func (g *Engine) Events() []*Event {
	out := make([]*Event, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.events[id])
	}
	return out
}

// EventsByEntity returns events whose involved entities include the id,
// sorted by the active view's sort order (chronological when no view is
// active). Events with no involved entities never match.
func (g *Engine) EventsByEntity(entityID string) []*Event {
	var out []*Event
	for _, id := range g.order {
		if g.events[id].Involves(entityID) {
			out = append(out, g.events[id])
		}
	}
	sortKey := SortChronological
	if view := g.ActiveView(); view != nil && view.SortBy != "" {
		sortKey = view.SortBy
	}
	sortEvents(out, sortKey)
	return out
}

// CreateView registers a view configuration and returns its id. A view with
// the same name replaces the previous configuration under the same id, which
// keeps bootstrap seeding idempotent.
func (g *Engine) CreateView(v View) string {
	if v.SortBy == "" {
		v.SortBy = SortChronological
	}
	if existingID := g.viewIDByName(v.Name); existingID != "" {
		v.ID = existingID
		stored := v
		g.views[existingID] = &stored
		return existingID
	}
	if v.ID == "" {
		v.ID = g.newID()
	}
	stored := v
	g.views[v.ID] = &stored
	g.viewOrder = append(g.viewOrder, v.ID)
	return v.ID
}

func (g *Engine) viewIDByName(name string) string {
	if name == "" {
		return ""
	}
	for _, id := range g.viewOrder {
		if g.views[id].Name == name {
			return id
		}
	}
	return ""
}

// SetActiveView switches the active projection. Pure state reassignment;
// events are never touched.
func (g *Engine) SetActiveView(viewID string) error {
	if _, ok := g.views[viewID]; !ok {
		return fmt.Errorf("no view with id %s", viewID)
	}
	g.activeView = viewID
	return nil
}

func (g *Engine) ActiveView() *View {
	return g.views[g.activeView]
}

func (g *Engine) Views() []*View {
	out := make([]*View, 0, len(g.viewOrder))
	for _, id := range g.viewOrder {
		out = append(out, g.views[id])
	}
	return out
}

type Group struct {
	Key    string
	Events []*Event
}

type ResolvedView struct {
	View   View
	Groups []Group
}

// Resolve computes the projection for a view: filter by scope, sort, group.
func (g *Engine) Resolve(viewID string) (*ResolvedView, error) {
	view, ok := g.views[viewID]
	if !ok {
		return nil, fmt.Errorf("no view with id %s", viewID)
	}

	var filtered []*Event
	for _, id := range g.order {
		e := g.events[id]
		if view.Scope != "" && e.Scope != view.Scope {
			continue
		}
		filtered = append(filtered, e)
	}

	sortEvents(filtered, view.SortBy)

	return &ResolvedView{View: *view, Groups: groupEvents(filtered, view.GroupBy)}, nil
}

func groupEvents(events []*Event, key GroupKey) []Group {
	if key == "" || key == GroupNone {
		return []Group{{Key: string(GroupNone), Events: events}}
	}

	index := make(map[string]int)
	var groups []Group
	for _, e := range events {
		k := groupKeyFor(e, key)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Events = append(groups[i].Events, e)
	}
	return groups
}

func groupKeyFor(e *Event, key GroupKey) string {
	switch key {
	case GroupStory:
		if e.StoryContext != nil {
			return e.StoryContext.StoryID
		}
		return ""
	case GroupChapter:
		if e.StoryContext != nil {
			return e.StoryContext.ChapterID
		}
		return ""
	case GroupStatus:
		return string(e.Status)
	case GroupImportance:
		return fmt.Sprintf("%d", e.PlotImpact.Importance)
	}
	return ""
}
