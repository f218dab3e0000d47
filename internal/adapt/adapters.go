package adapt

import (
	"strings"

	"storygraph/internal/registry"
)

// Adapter maps one domain record to a generic entity plus the relationships
// implied by the record's own fields. Adapters are pure and total: a record
// missing required fields yields ok=false and is skipped by the caller,
// never an error that aborts the batch.
type Adapter func(record any) (entity *registry.Entity, edges []registry.Relationship, ok bool)

// Adapters is the closed dispatch table over domain types.
func Adapters() map[registry.EntityType]Adapter {
	return map[registry.EntityType]Adapter{
		registry.TypeStory:     adaptStory,
		registry.TypeChapter:   adaptChapter,
		registry.TypeCharacter: adaptCharacter,
		registry.TypeSeries:    adaptSeries,
		registry.TypeBook:      adaptBook,
	}
}

// Adapt dispatches a record to the adapter for its domain type.
func Adapt(domainType registry.EntityType, record any) (*registry.Entity, []registry.Relationship, bool) {
	adapter, ok := Adapters()[domainType]
	if !ok {
		return nil, nil, false
	}
	return adapter(record)
}

func adaptStory(record any) (*registry.Entity, []registry.Relationship, bool) {
	s, ok := record.(Story)
	if !ok || invalid(s.ID, s.Title) {
		return nil, nil, false
	}
	entity := &registry.Entity{
		ID:   s.ID,
		Name: s.Title,
		Type: registry.TypeStory,
		Tags: s.Tags,
		Metadata: map[string]any{
			"genre":   s.Genre,
			"status":  s.Status,
			"summary": s.Summary,
		},
	}

	var edges []registry.Relationship
	if s.SeriesID != "" {
		edges = append(edges, registry.Relationship{
			From:     registry.Ref{ID: s.ID, Type: registry.TypeStory, Name: s.Title},
			To:       registry.Ref{ID: s.SeriesID, Type: registry.TypeSeries},
			Type:     registry.RelPartOf,
			Strength: 10,
		})
	}
	for _, charID := range s.CharacterIDs {
		if charID == "" {
			continue
		}
		edges = append(edges, registry.Relationship{
			From:          registry.Ref{ID: charID, Type: registry.TypeCharacter},
			To:            registry.Ref{ID: s.ID, Type: registry.TypeStory, Name: s.Title},
			Type:          registry.RelParticipates,
			Strength:      5,
			Bidirectional: true,
		})
	}
	return entity, dedupeEdges(edges), true
}

func adaptChapter(record any) (*registry.Entity, []registry.Relationship, bool) {
	c, ok := record.(Chapter)
	if !ok || invalid(c.ID, c.Title) {
		return nil, nil, false
	}
	entity := &registry.Entity{
		ID:   c.ID,
		Name: c.Title,
		Type: registry.TypeChapter,
		Metadata: map[string]any{
			"number":  c.Number,
			"summary": c.Summary,
		},
	}
	var edges []registry.Relationship
	if c.StoryID != "" {
		edges = append(edges, registry.Relationship{
			From:     registry.Ref{ID: c.ID, Type: registry.TypeChapter, Name: c.Title},
			To:       registry.Ref{ID: c.StoryID, Type: registry.TypeStory},
			Type:     registry.RelPartOf,
			Strength: 10,
		})
	}
	return entity, edges, true
}

func adaptCharacter(record any) (*registry.Entity, []registry.Relationship, bool) {
	c, ok := record.(Character)
	if !ok || invalid(c.ID, c.Name) {
		return nil, nil, false
	}
	entity := &registry.Entity{
		ID:   c.ID,
		Name: c.Name,
		Type: registry.TypeCharacter,
		Tags: c.Tags,
		Metadata: map[string]any{
			"role":   c.Role,
			"level":  c.Level,
			"traits": strings.Join(c.Traits, ", "),
		},
	}
	return entity, nil, true
}

func adaptSeries(record any) (*registry.Entity, []registry.Relationship, bool) {
	s, ok := record.(Series)
	if !ok || invalid(s.ID, s.Title) {
		return nil, nil, false
	}
	entity := &registry.Entity{
		ID:       s.ID,
		Name:     s.Title,
		Type:     registry.TypeSeries,
		Metadata: map[string]any{"books": len(s.Books)},
	}
	return entity, nil, true
}

func adaptBook(record any) (*registry.Entity, []registry.Relationship, bool) {
	b, ok := record.(Book)
	if !ok || invalid(b.ID, b.Title) {
		return nil, nil, false
	}
	entity := &registry.Entity{
		ID:       b.ID,
		Name:     b.Title,
		Type:     registry.TypeBook,
		Metadata: map[string]any{"number": b.Number},
	}
	var edges []registry.Relationship
	if b.SeriesID != "" {
		edges = append(edges, registry.Relationship{
			From:     registry.Ref{ID: b.SeriesID, Type: registry.TypeSeries},
			To:       registry.Ref{ID: b.ID, Type: registry.TypeBook, Name: b.Title},
			Type:     registry.RelParentOf,
			Strength: 10,
		})
	}
	if b.StoryID != "" {
		edges = append(edges, registry.Relationship{
			From:     registry.Ref{ID: b.ID, Type: registry.TypeBook, Name: b.Title},
			To:       registry.Ref{ID: b.StoryID, Type: registry.TypeStory},
			Type:     registry.RelPartOf,
			Strength: 8,
		})
	}
	return entity, dedupeEdges(edges), true
}

func invalid(id, name string) bool {
	return strings.TrimSpace(id) == "" || strings.TrimSpace(name) == ""
}

// dedupeEdges collapses edges sharing (from, to, type), keeping the first.
func dedupeEdges(edges []registry.Relationship) []registry.Relationship {
	type key struct {
		from, to string
		relType  registry.RelationType
	}
	seen := make(map[key]struct{}, len(edges))
	var out []registry.Relationship
	for _, edge := range edges {
		k := key{from: edge.From.ID, to: edge.To.ID, relType: edge.Type}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, edge)
	}
	return out
}
