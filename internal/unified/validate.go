package unified

import (
	"fmt"
	"time"

	"storygraph/internal/consistency"
)

type Report struct {
	IsValid     bool
	Issues      []consistency.Result
	Suggestions []string
}

// ValidateConsistency reads the registry and timeline and combines
// structural findings (dangling references, orphaned entities) with the
// accumulated checks from the latest world state snapshot. Dangling edges
// are legal at insert time; this is where they surface.
func (s *System) ValidateConsistency() *Report {
	report := &Report{}
	now := time.Now()

	for _, edge := range s.Registry.Relationships() {
		for _, endpoint := range []string{edge.From.ID, edge.To.ID} {
			if s.Registry.Get(endpoint) != nil {
				continue
			}
			report.Issues = append(report.Issues, consistency.Result{
				Type:             consistency.LevelError,
				Category:         consistency.CategoryReference,
				Description:      "relationship references a missing entity",
				Details:          fmt.Sprintf("%s edge %s -> %s", edge.Type, edge.From.ID, edge.To.ID),
				AffectedElements: []string{endpoint},
				Severity:         3,
				SuggestedFix:     fmt.Sprintf("add entity %s or remove the edge", endpoint),
				DetectedAt:       now,
			})
		}
	}

	for _, event := range s.Timeline.Events() {
		for _, ref := range event.InvolvedEntities {
			if s.Registry.Get(ref.ID) != nil {
				continue
			}
			report.Issues = append(report.Issues, consistency.Result{
				Type:             consistency.LevelWarning,
				Category:         consistency.CategoryReference,
				Description:      "timeline event involves a missing entity",
				Details:          fmt.Sprintf("event %q involves %s", event.Name, ref.ID),
				AffectedElements: []string{event.ID, ref.ID},
				Severity:         2,
				DetectedAt:       now,
			})
		}
	}

	for _, entity := range s.Registry.Entities() {
		if len(s.Registry.Related(entity.ID)) > 0 {
			continue
		}
		report.Issues = append(report.Issues, consistency.Result{
			Type:             consistency.LevelInfo,
			Category:         consistency.CategoryReference,
			Description:      "entity has no relationships",
			AffectedElements: []string{entity.ID},
			Severity:         1,
			DetectedAt:       now,
		})
	}

	if latest := s.Consistency.Latest(); latest != nil {
		report.Issues = append(report.Issues, latest.Checks...)
	}

	report.IsValid = true
	for _, issue := range report.Issues {
		if issue.Type == consistency.LevelError {
			report.IsValid = false
		}
		if issue.SuggestedFix != "" {
			report.Suggestions = append(report.Suggestions, issue.SuggestedFix)
		}
	}
	return report
}
