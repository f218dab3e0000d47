package registry

type RelationType string

const (
	RelPartOf       RelationType = "part_of"
	RelParticipates RelationType = "participates"
	RelParentOf     RelationType = "parent_of"
	RelAlly         RelationType = "ally"
	RelEnemy        RelationType = "enemy"
	RelLocatedIn    RelationType = "located_in"
	RelOwns         RelationType = "owns"
)

// Relationship is a directed edge between two entities. A bidirectional edge
// is stored once; the reverse traversal is synthesized at query time so the
// two directions can never drift apart.
type Relationship struct {
	From          Ref
	To            Ref
	Type          RelationType
	Strength      float64
	Bidirectional bool
	Description   string
}

func (r Relationship) reversed() Relationship {
	return Relationship{
		From:          r.To,
		To:            r.From,
		Type:          r.Type,
		Strength:      r.Strength,
		Bidirectional: r.Bidirectional,
		Description:   r.Description,
	}
}
