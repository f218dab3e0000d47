package consistency

import "testing"

func TestDiffStates(t *testing.T) {
	prev := &WorldState{
		Characters: map[string]CharacterState{
			"c1": {Name: "Kara", Level: 4, Alive: true, Location: "l1", Inventory: []string{"i1"}},
			"c2": {Name: "Dorn", Level: 2, Alive: true},
		},
		Items: map[string]ItemState{
			"i1": {Name: "Blade", Holder: "c1"},
		},
	}
	curr := &WorldState{
		Characters: map[string]CharacterState{
			"c1": {Name: "Kara", Level: 5, Alive: true, Location: "l2", Inventory: nil},
			"c3": {Name: "Mira", Level: 1, Alive: true},
		},
		Items: map[string]ItemState{
			"i1": {Name: "Blade", Destroyed: true},
		},
	}

	changes := diffStates(prev, curr)

	wantProps := map[string]int{
		"level": 1, "location": 1, "inventory": 1, // c1
		"character": 2, // c3 created, c2 deleted
		"destroyed": 1, "holder": 1, // i1
	}
	got := make(map[string]int)
	for _, change := range changes {
		got[change.Property]++
	}
	for prop, count := range wantProps {
		if got[prop] != count {
			t.Errorf("property %q: expected %d changes, got %d (%+v)", prop, count, got[prop], changes)
		}
	}
}

func TestDiffStates_NilPrevious(t *testing.T) {
	curr := &WorldState{Characters: map[string]CharacterState{"c1": {Name: "Kara"}}}
	if changes := diffStates(nil, curr); len(changes) != 0 {
		t.Errorf("expected no changes for first snapshot, got %d", len(changes))
	}
}
