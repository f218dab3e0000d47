package consistency

import "time"

// WorldState is a snapshot of narrative state at a chapter boundary. The
// snapshot sequence is append-only; each snapshot carries the field-level
// diff from its predecessor in ChangeLog and accumulates findings in Checks.
type WorldState struct {
	StoryID       string
	ChapterID     string
	ChapterNumber int
	Timestamp     time.Time
	Characters    map[string]CharacterState
	Locations     map[string]LocationState
	Items         map[string]ItemState
	World         map[string]any
	ChangeLog     []StateChange
	Checks        []Result
}

type CharacterState struct {
	Name       string
	Level      int
	Alive      bool
	Location   string
	Inventory  []string
	Attributes map[string]any
}

type LocationState struct {
	Name      string
	Destroyed bool
	Occupants []string
}

type ItemState struct {
	Name      string
	Destroyed bool
	Holder    string
}

type ChangeType string

const (
	ChangeCreate ChangeType = "create"
	ChangeUpdate ChangeType = "update"
	ChangeDelete ChangeType = "delete"
)

// StateChange is one field-level mutation in the audit trail. Records are
// immutable once appended; auto-fixes mark Automatic.
type StateChange struct {
	Type      ChangeType
	TargetID  string
	Property  string
	OldValue  any
	NewValue  any
	Reason    string
	Automatic bool
	At        time.Time
}

// Clone deep-copies the snapshot so auto-fixes can produce a corrected
// replacement without mutating the recorded original.
func (w *WorldState) Clone() *WorldState {
	out := *w

	out.Characters = make(map[string]CharacterState, len(w.Characters))
	for id, c := range w.Characters {
		c.Inventory = append([]string(nil), c.Inventory...)
		c.Attributes = cloneMap(c.Attributes)
		out.Characters[id] = c
	}
	out.Locations = make(map[string]LocationState, len(w.Locations))
	for id, l := range w.Locations {
		l.Occupants = append([]string(nil), l.Occupants...)
		out.Locations[id] = l
	}
	out.Items = make(map[string]ItemState, len(w.Items))
	for id, it := range w.Items {
		out.Items[id] = it
	}
	out.World = cloneMap(w.World)
	out.ChangeLog = append([]StateChange(nil), w.ChangeLog...)
	out.Checks = append([]Result(nil), w.Checks...)
	return &out
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
