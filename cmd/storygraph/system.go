package main

import (
	"context"

	"storygraph/internal/adapt"
	"storygraph/internal/config"
	"storygraph/internal/store"
	"storygraph/internal/timeline"
	"storygraph/internal/unified"
)

// buildSystem rebuilds the in-memory engines from the world directory. Rule
// overrides apply before bootstrap so recorded states are checked under the
// configured rule set; configured views are layered over the defaults.
func buildSystem(cfg *config.ProjectConfig) (*unified.System, *unified.BootstrapResult, error) {
	snap, err := adapt.LoadSnapshot(cfg.WorldDir)
	if err != nil {
		return nil, nil, err
	}

	system := unified.New()
	system.Consistency.Configure(cfg.Rules)
	result := system.Bootstrap(snap)

	for _, vc := range cfg.Views {
		id := system.Timeline.CreateView(timeline.View{
			Name:    vc.Name,
			Scope:   timeline.Scope(vc.Scope),
			GroupBy: timeline.GroupKey(vc.GroupBy),
			SortBy:  timeline.SortKey(vc.SortBy),
		})
		if vc.Active {
			if err := system.Timeline.SetActiveView(id); err != nil {
				return nil, nil, err
			}
		}
	}

	return system, result, nil
}

func loadStoredEvents(ctx context.Context, db store.Store, system *unified.System) (int, error) {
	events, err := db.ListEvents(ctx)
	if err != nil {
		return 0, err
	}
	for _, event := range events {
		system.Timeline.AddEvent(event)
	}
	return len(events), nil
}
