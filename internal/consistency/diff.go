package consistency

import (
	"fmt"
	"sort"
)

// diffStates computes the field-level changes from prev to curr. The result
// is the snapshot's authored change log; order is deterministic (characters,
// locations, items, world properties, each sorted by id).
func diffStates(prev, curr *WorldState) []StateChange {
	var changes []StateChange
	if prev == nil {
		return changes
	}

	for _, id := range sortedCharacterIDs(curr) {
		c := curr.Characters[id]
		p, ok := prev.Characters[id]
		if !ok {
			changes = append(changes, StateChange{Type: ChangeCreate, TargetID: id, Property: "character", NewValue: c.Name})
			continue
		}
		changes = append(changes, fieldDiffs(id, p, c)...)
	}
	for _, id := range sortedCharacterIDs(prev) {
		if _, ok := curr.Characters[id]; !ok {
			changes = append(changes, StateChange{Type: ChangeDelete, TargetID: id, Property: "character", OldValue: prev.Characters[id].Name})
		}
	}

	for _, id := range sortedLocationIDs(curr) {
		l := curr.Locations[id]
		p, ok := prev.Locations[id]
		if !ok {
			changes = append(changes, StateChange{Type: ChangeCreate, TargetID: id, Property: "location", NewValue: l.Name})
			continue
		}
		if p.Destroyed != l.Destroyed {
			changes = append(changes, StateChange{Type: ChangeUpdate, TargetID: id, Property: "destroyed", OldValue: p.Destroyed, NewValue: l.Destroyed})
		}
	}

	for _, id := range sortedItemIDs(curr) {
		it := curr.Items[id]
		p, ok := prev.Items[id]
		if !ok {
			changes = append(changes, StateChange{Type: ChangeCreate, TargetID: id, Property: "item", NewValue: it.Name})
			continue
		}
		if p.Destroyed != it.Destroyed {
			changes = append(changes, StateChange{Type: ChangeUpdate, TargetID: id, Property: "destroyed", OldValue: p.Destroyed, NewValue: it.Destroyed})
		}
		if p.Holder != it.Holder {
			changes = append(changes, StateChange{Type: ChangeUpdate, TargetID: id, Property: "holder", OldValue: p.Holder, NewValue: it.Holder})
		}
	}

	for _, key := range sortedWorldKeys(curr) {
		v := curr.World[key]
		pv, ok := prev.World[key]
		if !ok {
			changes = append(changes, StateChange{Type: ChangeCreate, TargetID: key, Property: "world", NewValue: v})
			continue
		}
		if fmt.Sprintf("%v", pv) != fmt.Sprintf("%v", v) {
			changes = append(changes, StateChange{Type: ChangeUpdate, TargetID: key, Property: "world", OldValue: pv, NewValue: v})
		}
	}

	return changes
}

func fieldDiffs(id string, prev, curr CharacterState) []StateChange {
	var changes []StateChange
	if prev.Level != curr.Level {
		changes = append(changes, StateChange{Type: ChangeUpdate, TargetID: id, Property: "level", OldValue: prev.Level, NewValue: curr.Level})
	}
	if prev.Alive != curr.Alive {
		changes = append(changes, StateChange{Type: ChangeUpdate, TargetID: id, Property: "alive", OldValue: prev.Alive, NewValue: curr.Alive})
	}
	if prev.Location != curr.Location {
		changes = append(changes, StateChange{Type: ChangeUpdate, TargetID: id, Property: "location", OldValue: prev.Location, NewValue: curr.Location})
	}
	for _, itemID := range curr.Inventory {
		if !containsString(prev.Inventory, itemID) {
			changes = append(changes, StateChange{Type: ChangeUpdate, TargetID: id, Property: "inventory", NewValue: itemID})
		}
	}
	for _, itemID := range prev.Inventory {
		if !containsString(curr.Inventory, itemID) {
			changes = append(changes, StateChange{Type: ChangeUpdate, TargetID: id, Property: "inventory", OldValue: itemID})
		}
	}
	return changes
}

func sortedItemIDs(w *WorldState) []string {
	ids := make([]string, 0, len(w.Items))
	for id := range w.Items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortedWorldKeys(w *WorldState) []string {
	keys := make([]string, 0, len(w.World))
	for key := range w.World {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
