package registry

import (
	"strings"
	"time"
)

type edgeKey struct {
	fromID  string
	toID    string
	relType RelationType
}

// Registry holds the entity graph in flat arenas: a map for O(1) id lookup,
// an insertion-order slice for stable iteration, and a single edge list with
// a dedupe index keyed by (from, to, type).
type Registry struct {
	entities map[string]*Entity
	order    []string
	edges    []Relationship
	edgeIdx  map[edgeKey]int

	now func() time.Time
}

func New() *Registry {
	return &Registry{
		entities: make(map[string]*Entity),
		edgeIdx:  make(map[edgeKey]int),
		now:      time.Now,
	}
}

// AddEntity upserts by id. Re-adding an existing id overwrites in place and
// refreshes UpdatedAt; CreatedAt survives from the first insert.
func (r *Registry) AddEntity(e Entity) {
	now := r.now()
	if existing, ok := r.entities[e.ID]; ok {
		e.CreatedAt = existing.CreatedAt
		e.UpdatedAt = now
		*existing = e
		return
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
	stored := e
	r.entities[e.ID] = &stored
	r.order = append(r.order, e.ID)
}

// Get returns nil when no entity has the given id.
func (r *Registry) Get(id string) *Entity {
	return r.entities[id]
}

// Entities returns all entities in creation order.
func (r *Registry) Entities() []*Entity {
	out := make([]*Entity, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.entities[id])
	}
	return out
}

func (r *Registry) Len() int { return len(r.entities) }

// AddRelationship upserts by (from, to, type). Endpoints need not exist yet;
// dangling edges are surfaced by consistency validation, not rejected here.
func (r *Registry) AddRelationship(rel Relationship) {
	key := edgeKey{fromID: rel.From.ID, toID: rel.To.ID, relType: rel.Type}
	if i, ok := r.edgeIdx[key]; ok {
		r.edges[i] = rel
		return
	}
	r.edgeIdx[key] = len(r.edges)
	r.edges = append(r.edges, rel)
}

// Relationships returns every stored edge. Bidirectional edges appear once.
func (r *Registry) Relationships() []Relationship {
	out := make([]Relationship, len(r.edges))
	copy(out, r.edges)
	return out
}

// RelationshipsFor returns edges traversable from the given entity: outgoing
// edges as stored, plus reversed views of bidirectional incoming edges.
func (r *Registry) RelationshipsFor(id string) []Relationship {
	var out []Relationship
	for _, edge := range r.edges {
		if edge.From.ID == id {
			out = append(out, edge)
			continue
		}
		if edge.To.ID == id && edge.Bidirectional {
			out = append(out, edge.reversed())
		}
	}
	return out
}

// Related returns refs of entities reachable over one hop from id, including
// sources of incoming edges regardless of direction. Duplicate neighbors are
// collapsed.
func (r *Registry) Related(id string) []Ref {
	seen := make(map[string]struct{})
	var out []Ref
	add := func(ref Ref) {
		if ref.ID == id {
			return
		}
		if _, ok := seen[ref.ID]; ok {
			return
		}
		seen[ref.ID] = struct{}{}
		out = append(out, ref)
	}
	for _, edge := range r.edges {
		if edge.From.ID == id {
			add(edge.To)
		}
		if edge.To.ID == id {
			add(edge.From)
		}
	}
	return out
}

// FindByName returns entities whose name matches exactly (case-insensitive)
// or, when none do, entities whose name contains the query.
func (r *Registry) FindByName(name string) []*Entity {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil
	}
	var exact, partial []*Entity
	for _, id := range r.order {
		e := r.entities[id]
		lower := strings.ToLower(e.Name)
		if lower == needle {
			exact = append(exact, e)
		} else if strings.Contains(lower, needle) {
			partial = append(partial, e)
		}
	}
	if len(exact) > 0 {
		return exact
	}
	return partial
}
