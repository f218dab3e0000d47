package timeline

type DisplayMode string

const (
	DisplayLinear    DisplayMode = "linear"
	DisplayBranching DisplayMode = "branching"
)

type ZoomLevel string

const (
	ZoomScenes   ZoomLevel = "scenes"
	ZoomDays     ZoomLevel = "days"
	ZoomChapters ZoomLevel = "chapters"
	ZoomArcs     ZoomLevel = "arcs"
)

type GroupKey string

const (
	GroupNone       GroupKey = "none"
	GroupStory      GroupKey = "story"
	GroupChapter    GroupKey = "chapter"
	GroupStatus     GroupKey = "status"
	GroupImportance GroupKey = "importance"
)

type SortKey string

const (
	SortChronological SortKey = "chronological"
	SortImportance    SortKey = "importance"
	SortName          SortKey = "name"
)

// View is a named projection over the shared event set: configuration only,
// no copy of event data. Resolving a view recomputes the projection from the
// events on every read.
type View struct {
	ID               string
	Name             string
	Scope            Scope
	DisplayMode      DisplayMode
	ZoomLevel        ZoomLevel
	GroupBy          GroupKey
	SortBy           SortKey
	ColorScheme      string
	ShowDependencies bool
	ShowConflicts    bool
	ShowDetails      bool
	AllowEditing     bool
	AllowReordering  bool
}

// DefaultViews seeds one projection per scope. The story view is the active
// view after bootstrap.
func DefaultViews() []View {
	return []View{
		{
			Name:         "Story Timeline",
			Scope:        ScopeStory,
			DisplayMode:  DisplayLinear,
			ZoomLevel:    ZoomChapters,
			GroupBy:      GroupStory,
			SortBy:       SortChronological,
			ColorScheme:  "plot",
			ShowDetails:  true,
			AllowEditing: true,
		},
		{
			Name:             "Character Arcs",
			Scope:            ScopeCharacter,
			DisplayMode:      DisplayBranching,
			ZoomLevel:        ZoomScenes,
			GroupBy:          GroupNone,
			SortBy:           SortChronological,
			ColorScheme:      "character",
			ShowDependencies: true,
		},
		{
			Name:        "World History",
			Scope:       ScopeWorld,
			DisplayMode: DisplayLinear,
			ZoomLevel:   ZoomArcs,
			GroupBy:     GroupImportance,
			SortBy:      SortChronological,
			ColorScheme: "era",
		},
	}
}
