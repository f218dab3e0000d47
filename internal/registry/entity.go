package registry

import "time"

type EntityType string

const (
	TypeCharacter EntityType = "character"
	TypeStory     EntityType = "story"
	TypeChapter   EntityType = "chapter"
	TypeSeries    EntityType = "series"
	TypeBook      EntityType = "book"
	TypeLocation  EntityType = "location"
	TypeItem      EntityType = "item"
	TypeEvent     EntityType = "event"
)

// Entity is a generic node in the graph. Domain records are mapped into this
// shape by the adapt package; the registry itself knows nothing about what a
// story or a character means.
type Entity struct {
	ID        string
	Name      string
	Type      EntityType
	Tags      []string
	Metadata  map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Ref identifies an entity without owning it. Edges and events hold Refs so
// the graph stays a flat arena instead of a nest of owning pointers.
type Ref struct {
	ID   string
	Type EntityType
	Name string
}

func (e *Entity) Ref() Ref {
	return Ref{ID: e.ID, Type: e.Type, Name: e.Name}
}

func (e *Entity) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
