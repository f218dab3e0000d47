package unified

import (
	"fmt"

	"storygraph/internal/adapt"
	"storygraph/internal/consistency"
	"storygraph/internal/registry"
	"storygraph/internal/timeline"
)

// System is the bootstrap glue over the three engines. It pulls every record
// from the domain snapshot through the adapters into the registry, seeds the
// default timeline views, and feeds authored chapter states through the
// consistency engine. It holds no algorithm of its own.
type System struct {
	Registry    *registry.Registry
	Timeline    *timeline.Engine
	Consistency *consistency.Engine
}

func New() *System {
	s := &System{
		Registry:    registry.New(),
		Timeline:    timeline.NewEngine(),
		Consistency: consistency.NewEngine(),
	}
	for _, rule := range consistency.DefaultRules() {
		s.Consistency.Register(rule)
	}
	return s
}

type BootstrapResult struct {
	Entities      int
	Relationships int
	Views         int
	Snapshots     int
	Warnings      []string
}

// Bootstrap is safe to re-run: entity and edge inserts are upserts and view
// seeding is keyed by name. One bad record is skipped with a warning; it
// never blocks the rest of the batch.
func (s *System) Bootstrap(snap adapt.Snapshot) *BootstrapResult {
	result := &BootstrapResult{}

	for _, character := range snap.Characters {
		s.ingest(result, registry.TypeCharacter, character, character.ID)
	}
	for _, story := range snap.Stories {
		s.ingest(result, registry.TypeStory, story, story.ID)
		for _, chapter := range story.Chapters {
			s.ingest(result, registry.TypeChapter, chapter, chapter.ID)
		}
	}
	for _, series := range snap.Series {
		s.ingest(result, registry.TypeSeries, series, series.ID)
		for _, book := range series.Books {
			s.ingest(result, registry.TypeBook, book, book.ID)
		}
	}

	for _, view := range timeline.DefaultViews() {
		id := s.Timeline.CreateView(view)
		if view.Scope == timeline.ScopeStory {
			_ = s.Timeline.SetActiveView(id)
		}
		result.Views++
	}

	for _, state := range snap.States {
		if _, err := s.Consistency.Append(consistency.WorldState{
			StoryID:       state.StoryID,
			ChapterID:     state.ChapterID,
			ChapterNumber: state.ChapterNumber,
			Characters:    state.Characters,
			Locations:     state.Locations,
			Items:         state.Items,
			World:         state.World,
		}); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("skipping state for chapter %d: %v", state.ChapterNumber, err))
			continue
		}
		result.Snapshots++
	}

	return result
}

func (s *System) ingest(result *BootstrapResult, domainType registry.EntityType, record any, id string) {
	entity, edges, ok := adapt.Adapt(domainType, record)
	if !ok {
		result.Warnings = append(result.Warnings, fmt.Sprintf("skipping malformed %s record %q", domainType, id))
		return
	}
	s.Registry.AddEntity(*entity)
	result.Entities++
	for _, edge := range edges {
		s.Registry.AddRelationship(edge)
		result.Relationships++
	}
}

// FindEntity returns nil when the id is unknown.
func (s *System) FindEntity(id string) *registry.Entity {
	return s.Registry.Get(id)
}

func (s *System) FindEntitiesByName(name string) []*registry.Entity {
	return s.Registry.FindByName(name)
}

func (s *System) FindRelatedEntities(entityID string) []registry.Ref {
	return s.Registry.Related(entityID)
}

// CreateStoryEvent stores a writer-authored event and returns its id.
func (s *System) CreateStoryEvent(e timeline.Event) string {
	if e.Scope == "" {
		e.Scope = timeline.ScopeStory
	}
	return s.Timeline.AddEvent(e)
}

func (s *System) EventsByEntity(entityID string) []*timeline.Event {
	return s.Timeline.EventsByEntity(entityID)
}
