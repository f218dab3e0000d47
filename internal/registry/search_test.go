package registry

import "testing"

func searchFixture(t *testing.T) *Registry {
	t.Helper()
	r, _ := newTestRegistry()
	r.AddEntity(Entity{ID: "1", Name: "Aria", Type: TypeCharacter})
	r.AddEntity(Entity{ID: "2", Name: "Arianna", Type: TypeCharacter})
	r.AddEntity(Entity{ID: "3", Name: "Bob", Type: TypeCharacter, Tags: []string{"aria"}})
	r.AddEntity(Entity{ID: "4", Name: "The Rift", Type: TypeStory})
	return r
}

func TestSearch_RankingExactSubstringTag(t *testing.T) {
	r := searchFixture(t)

	results := r.Search(SearchOptions{Query: "Aria"})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	want := []string{"1", "2", "3"}
	for i, id := range want {
		if results[i].Entity.ID != id {
			t.Errorf("rank %d: expected id %s, got %s (score %v)", i, id, results[i].Entity.ID, results[i].Score)
		}
	}
}

func TestSearch_TieBrokenByMostRecentUpdate(t *testing.T) {
	r, _ := newTestRegistry()
	r.AddEntity(Entity{ID: "old", Name: "Echo", Type: TypeLocation})
	r.AddEntity(Entity{ID: "new", Name: "Echo", Type: TypeItem})

	results := r.Search(SearchOptions{Query: "echo"})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Entity.ID != "new" {
		t.Errorf("expected most recently updated first, got %s", results[0].Entity.ID)
	}
}

func TestSearch_EmptyQueryReturnsAllInCreationOrder(t *testing.T) {
	r := searchFixture(t)

	results := r.Search(SearchOptions{})
	if len(results) != 4 {
		t.Fatalf("expected full entity set, got %d", len(results))
	}
	for i, id := range []string{"1", "2", "3", "4"} {
		if results[i].Entity.ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, results[i].Entity.ID)
		}
	}
}

func TestSearch_Filters(t *testing.T) {
	r := searchFixture(t)
	r.AddRelationship(Relationship{
		From: Ref{ID: "1", Type: TypeCharacter, Name: "Aria"},
		To:   Ref{ID: "4", Type: TypeStory, Name: "The Rift"},
		Type: RelParticipates,
	})

	tests := []struct {
		name string
		opts SearchOptions
		want []string
	}{
		{
			name: "type filter",
			opts: SearchOptions{Types: []EntityType{TypeStory}},
			want: []string{"4"},
		},
		{
			name: "tag filter",
			opts: SearchOptions{Tag: "aria"},
			want: []string{"3"},
		},
		{
			name: "related-to filter",
			opts: SearchOptions{RelatedTo: "4"},
			want: []string{"1"},
		},
		{
			name: "limit truncates",
			opts: SearchOptions{Limit: 2},
			want: []string{"1", "2"},
		},
		{
			name: "limit larger than result set",
			opts: SearchOptions{Query: "bob", Limit: 10},
			want: []string{"3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := r.Search(tt.opts)
			if len(results) != len(tt.want) {
				t.Fatalf("expected %d results, got %d", len(tt.want), len(results))
			}
			for i, id := range tt.want {
				if results[i].Entity.ID != id {
					t.Errorf("position %d: expected %s, got %s", i, id, results[i].Entity.ID)
				}
			}
		})
	}
}

func TestSearch_IncludeRelationships(t *testing.T) {
	r := searchFixture(t)
	r.AddRelationship(Relationship{
		From: Ref{ID: "1", Type: TypeCharacter, Name: "Aria"},
		To:   Ref{ID: "4", Type: TypeStory, Name: "The Rift"},
		Type: RelParticipates,
	})

	results := r.Search(SearchOptions{Query: "Aria", IncludeRelationships: true})
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	if len(results[0].Relationships) != 1 {
		t.Errorf("expected 1 relationship on top result, got %d", len(results[0].Relationships))
	}
}
