package timeline

import (
	"time"

	"storygraph/internal/registry"
)

type Scope string

const (
	ScopeStory     Scope = "story"
	ScopeCharacter Scope = "character"
	ScopeWorld     Scope = "world"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
)

// TimePoint anchors an event either to an exact timestamp or, for
// approximate events, to a relative day in the story.
type TimePoint struct {
	Timestamp     time.Time
	IsApproximate bool
	StoryDay      int
}

type StoryContext struct {
	StoryID   string
	ChapterID string
}

type PlotImpact struct {
	Importance   int // 1 minor - 5 pivotal
	PlotThreads  []string
	Consequences []string
}

type Event struct {
	ID               string
	Name             string
	Description      string
	Type             string
	Scope            Scope
	Time             TimePoint
	InvolvedEntities []registry.Ref
	StoryContext     *StoryContext
	PlotImpact       PlotImpact
	Tags             []string
	Status           Status
	IsCanon          bool
}

func (e *Event) Involves(entityID string) bool {
	for _, ref := range e.InvolvedEntities {
		if ref.ID == entityID {
			return true
		}
	}
	return false
}
