package registry

import (
	"fmt"
	"sort"
	"strings"
)

type SortOrder string

const (
	SortCreated   SortOrder = "created"
	SortUpdated   SortOrder = "updated"
	SortName      SortOrder = "name"
	SortRelevance SortOrder = "relevance"
)

type SearchOptions struct {
	Query                string
	Types                []EntityType
	Tag                  string
	RelatedTo            string // only entities with an edge to/from this id
	SortBy               SortOrder
	Limit                int
	IncludeRelationships bool
}

type SearchResult struct {
	Entity        *Entity
	Score         float64
	Relationships []Relationship
}

const (
	scoreExactName = 100
	scoreSubstring = 50
	scoreTag       = 25
	scoreMetadata  = 10
)

// Search runs relevance-ranked text search over name, tags, and metadata,
// combined with structural filters. An empty query with no filters returns
// the full entity set in creation order. Limit truncates the ranked result.
func (r *Registry) Search(opts SearchOptions) []SearchResult {
	query := strings.ToLower(strings.TrimSpace(opts.Query))

	var results []SearchResult
	for _, id := range r.order {
		e := r.entities[id]
		if !matchesType(e, opts.Types) {
			continue
		}
		if opts.Tag != "" && !e.HasTag(opts.Tag) {
			continue
		}
		if opts.RelatedTo != "" && !r.hasEdgeWith(e.ID, opts.RelatedTo) {
			continue
		}
		score := float64(0)
		if query != "" {
			score = scoreEntity(e, query)
			if score == 0 {
				continue
			}
		}
		result := SearchResult{Entity: e, Score: score}
		if opts.IncludeRelationships {
			result.Relationships = r.RelationshipsFor(e.ID)
		}
		results = append(results, result)
	}

	sortResults(results, opts.SortBy, query != "")

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results
}

// scoreEntity ranks exact name match above substring match above tag match,
// with metadata hits weakest.
func scoreEntity(e *Entity, query string) float64 {
	name := strings.ToLower(e.Name)
	score := float64(0)
	switch {
	case name == query:
		score += scoreExactName
	case strings.Contains(name, query):
		score += scoreSubstring
	}
	for _, tag := range e.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			score += scoreTag
			break
		}
	}
	for _, value := range e.Metadata {
		if strings.Contains(strings.ToLower(fmt.Sprintf("%v", value)), query) {
			score += scoreMetadata
			break
		}
	}
	return score
}

func sortResults(results []SearchResult, order SortOrder, ranked bool) {
	switch {
	case order == SortName:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Entity.Name < results[j].Entity.Name
		})
	case order == SortUpdated:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Entity.UpdatedAt.After(results[j].Entity.UpdatedAt)
		})
	case ranked && (order == "" || order == SortRelevance):
		sort.SliceStable(results, func(i, j int) bool {
			if results[i].Score != results[j].Score {
				return results[i].Score > results[j].Score
			}
			return results[i].Entity.UpdatedAt.After(results[j].Entity.UpdatedAt)
		})
	default:
		// creation order, already the iteration order
	}
}

func matchesType(e *Entity, types []EntityType) bool {
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if e.Type == t {
			return true
		}
	}
	return false
}

func (r *Registry) hasEdgeWith(id, otherID string) bool {
	for _, edge := range r.edges {
		if edge.From.ID == id && edge.To.ID == otherID {
			return true
		}
		if edge.To.ID == id && edge.From.ID == otherID {
			return true
		}
	}
	return false
}
