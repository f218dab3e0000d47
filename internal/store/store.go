package store

import (
	"context"

	"storygraph/internal/consistency"
	"storygraph/internal/timeline"
)

// Store persists what cannot be rebuilt from the domain stores: authored
// timeline events and the accumulated state-change and consistency-check
// history. Everything else is reconstructed by re-running the adapters.
type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	SaveEvent(ctx context.Context, e timeline.Event) error
	ListEvents(ctx context.Context) ([]timeline.Event, error)
	SearchEvents(ctx context.Context, query string) ([]timeline.Event, error)

	SaveStateChanges(ctx context.Context, storyID string, chapter int, changes []consistency.StateChange) error
	ListStateChanges(ctx context.Context, storyID string) ([]consistency.StateChange, error)

	SaveResults(ctx context.Context, storyID string, chapter int, results []consistency.Result) error
	ListResults(ctx context.Context, storyID string) ([]consistency.Result, error)
}
