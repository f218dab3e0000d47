package consistency

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultRules returns the built-in continuity rules in registration order.
func DefaultRules() []Rule {
	return []Rule{
		&DeadCharacterRule{},
		&DualPresenceRule{},
		&MonotonicLevelRule{},
		&DestroyedItemRule{},
	}
}

// MonotonicLevelRule flags a character whose level dropped since the
// previous chapter. The fix restores the previous level.
type MonotonicLevelRule struct{}

func (r *MonotonicLevelRule) ID() string       { return "monotonic-level" }
func (r *MonotonicLevelRule) Name() string     { return "Character level must not regress" }
func (r *MonotonicLevelRule) Category() string { return CategoryCharacter }
func (r *MonotonicLevelRule) Priority() int    { return 50 }

func (r *MonotonicLevelRule) Evaluate(current, previous *WorldState) (*Result, error) {
	if previous == nil {
		return nil, nil
	}
	var affected []string
	for _, id := range sortedCharacterIDs(current) {
		prev, ok := previous.Characters[id]
		if !ok {
			continue
		}
		if current.Characters[id].Level < prev.Level {
			affected = append(affected, id)
		}
	}
	if len(affected) == 0 {
		return nil, nil
	}
	return &Result{
		Type:             LevelError,
		Category:         CategoryCharacter,
		Description:      "character level regressed between chapters",
		Details:          fmt.Sprintf("regressed: %s", strings.Join(affected, ", ")),
		AffectedElements: affected,
		Severity:         3,
		AutoFixable:      true,
		SuggestedFix:     "restore the previous chapter's level",
	}, nil
}

func (r *MonotonicLevelRule) Fix(current, previous *WorldState) (*WorldState, []StateChange, error) {
	if previous == nil {
		return current, nil, nil
	}
	fixed := current.Clone()
	var changes []StateChange
	for _, id := range sortedCharacterIDs(fixed) {
		prev, ok := previous.Characters[id]
		if !ok {
			continue
		}
		c := fixed.Characters[id]
		if c.Level >= prev.Level {
			continue
		}
		changes = append(changes, StateChange{
			Type:     ChangeUpdate,
			TargetID: id,
			Property: "level",
			OldValue: c.Level,
			NewValue: prev.Level,
			Reason:   "level regression repaired",
		})
		c.Level = prev.Level
		fixed.Characters[id] = c
	}
	return fixed, changes, nil
}

// DualPresenceRule flags a character occupying more than one location in the
// same snapshot. The fix keeps the location matching the character's own
// Location field (or the first occurrence) and drops the rest.
type DualPresenceRule struct{}

func (r *DualPresenceRule) ID() string       { return "dual-presence" }
func (r *DualPresenceRule) Name() string     { return "Character cannot be in two places at once" }
func (r *DualPresenceRule) Category() string { return CategoryLocation }
func (r *DualPresenceRule) Priority() int    { return 80 }

func (r *DualPresenceRule) Evaluate(current, previous *WorldState) (*Result, error) {
	dual := dualPresences(current)
	if len(dual) == 0 {
		return nil, nil
	}
	var affected []string
	for _, id := range sortedKeys(dual) {
		affected = append(affected, id)
	}
	return &Result{
		Type:             LevelError,
		Category:         CategoryLocation,
		Description:      "character present in multiple locations",
		Details:          fmt.Sprintf("characters in more than one place: %s", strings.Join(affected, ", ")),
		AffectedElements: affected,
		Severity:         4,
		AutoFixable:      true,
		SuggestedFix:     "keep the character's declared location only",
	}, nil
}

func (r *DualPresenceRule) Fix(current, previous *WorldState) (*WorldState, []StateChange, error) {
	dual := dualPresences(current)
	if len(dual) == 0 {
		return current, nil, nil
	}
	fixed := current.Clone()
	var changes []StateChange
	for _, charID := range sortedKeys(dual) {
		locIDs := dual[charID]
		keep := locIDs[0]
		if c, ok := fixed.Characters[charID]; ok && c.Location != "" {
			for _, locID := range locIDs {
				if locID == c.Location {
					keep = locID
					break
				}
			}
		}
		for _, locID := range locIDs {
			if locID == keep {
				continue
			}
			loc := fixed.Locations[locID]
			loc.Occupants = removeString(loc.Occupants, charID)
			fixed.Locations[locID] = loc
			changes = append(changes, StateChange{
				Type:     ChangeUpdate,
				TargetID: locID,
				Property: "occupants",
				OldValue: charID,
				NewValue: nil,
				Reason:   fmt.Sprintf("%s kept at %s only", charID, keep),
			})
		}
	}
	return fixed, changes, nil
}

// dualPresences maps character id to the locations listing it, for
// characters listed more than once.
func dualPresences(w *WorldState) map[string][]string {
	presence := make(map[string][]string)
	for _, locID := range sortedLocationIDs(w) {
		for _, charID := range w.Locations[locID].Occupants {
			presence[charID] = append(presence[charID], locID)
		}
	}
	for charID, locs := range presence {
		if len(locs) < 2 {
			delete(presence, charID)
		}
	}
	return presence
}

// DestroyedItemRule flags inventories still referencing an item destroyed in
// the current snapshot. The fix drops the reference.
type DestroyedItemRule struct{}

func (r *DestroyedItemRule) ID() string       { return "destroyed-item" }
func (r *DestroyedItemRule) Name() string     { return "Inventory cannot reference a destroyed item" }
func (r *DestroyedItemRule) Category() string { return CategoryItem }
func (r *DestroyedItemRule) Priority() int    { return 40 }

func (r *DestroyedItemRule) Evaluate(current, previous *WorldState) (*Result, error) {
	holders := destroyedItemHolders(current)
	if len(holders) == 0 {
		return nil, nil
	}
	return &Result{
		Type:             LevelError,
		Category:         CategoryItem,
		Description:      "character holds a destroyed item",
		Details:          strings.Join(holders, ", "),
		AffectedElements: holders,
		Severity:         3,
		AutoFixable:      true,
		SuggestedFix:     "remove the destroyed item from the inventory",
	}, nil
}

func (r *DestroyedItemRule) Fix(current, previous *WorldState) (*WorldState, []StateChange, error) {
	fixed := current.Clone()
	var changes []StateChange
	for _, charID := range sortedCharacterIDs(fixed) {
		c := fixed.Characters[charID]
		var kept []string
		for _, itemID := range c.Inventory {
			if item, ok := fixed.Items[itemID]; ok && item.Destroyed {
				changes = append(changes, StateChange{
					Type:     ChangeUpdate,
					TargetID: charID,
					Property: "inventory",
					OldValue: itemID,
					NewValue: nil,
					Reason:   "destroyed item removed from inventory",
				})
				continue
			}
			kept = append(kept, itemID)
		}
		c.Inventory = kept
		fixed.Characters[charID] = c
	}
	return fixed, changes, nil
}

func destroyedItemHolders(w *WorldState) []string {
	var holders []string
	for _, charID := range sortedCharacterIDs(w) {
		for _, itemID := range w.Characters[charID].Inventory {
			if item, ok := w.Items[itemID]; ok && item.Destroyed {
				holders = append(holders, charID)
				break
			}
		}
	}
	return holders
}

// DeadCharacterRule flags a character who died in an earlier chapter but
// appears in the current one. No automatic repair; the writer has to decide
// whether the death or the appearance is the mistake.
type DeadCharacterRule struct{}

func (r *DeadCharacterRule) ID() string       { return "dead-character" }
func (r *DeadCharacterRule) Name() string     { return "Dead characters stay dead" }
func (r *DeadCharacterRule) Category() string { return CategoryCharacter }
func (r *DeadCharacterRule) Priority() int    { return 90 }

func (r *DeadCharacterRule) Evaluate(current, previous *WorldState) (*Result, error) {
	if previous == nil {
		return nil, nil
	}
	var affected []string
	for _, id := range sortedCharacterIDs(previous) {
		prev := previous.Characters[id]
		if prev.Alive {
			continue
		}
		if curr, ok := current.Characters[id]; ok && curr.Alive {
			affected = append(affected, id)
			continue
		}
		if occupiesAnywhere(current, id) {
			affected = append(affected, id)
		}
	}
	if len(affected) == 0 {
		return nil, nil
	}
	return &Result{
		Type:             LevelError,
		Category:         CategoryCharacter,
		Description:      "dead character appears in a later chapter",
		Details:          strings.Join(affected, ", "),
		AffectedElements: affected,
		Severity:         5,
		SuggestedFix:     "revisit the death scene or remove the later appearance",
	}, nil
}

func occupiesAnywhere(w *WorldState, charID string) bool {
	for _, loc := range w.Locations {
		for _, occupant := range loc.Occupants {
			if occupant == charID {
				return true
			}
		}
	}
	return false
}

func sortedCharacterIDs(w *WorldState) []string {
	ids := make([]string, 0, len(w.Characters))
	for id := range w.Characters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortedLocationIDs(w *WorldState) []string {
	ids := make([]string, 0, len(w.Locations))
	for id := range w.Locations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func removeString(values []string, target string) []string {
	var out []string
	for _, v := range values {
		if v != target {
			out = append(out, v)
		}
	}
	return out
}
