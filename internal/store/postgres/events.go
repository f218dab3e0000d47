package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"storygraph/internal/registry"
	"storygraph/internal/timeline"
)

func (c *Client) SaveEvent(ctx context.Context, e timeline.Event) error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("event id is required")
	}

	involved, err := json.Marshal(e.InvolvedEntities)
	if err != nil {
		return fmt.Errorf("marshaling involved entities: %w", err)
	}
	impact, err := json.Marshal(e.PlotImpact)
	if err != nil {
		return fmt.Errorf("marshaling plot impact: %w", err)
	}
	tags, err := json.Marshal(e.Tags)
	if err != nil {
		return fmt.Errorf("marshaling tags: %w", err)
	}
	var storyContext []byte
	if e.StoryContext != nil {
		if storyContext, err = json.Marshal(e.StoryContext); err != nil {
			return fmt.Errorf("marshaling story context: %w", err)
		}
	}

	var timestamp *time.Time
	if !e.Time.Timestamp.IsZero() {
		ts := e.Time.Timestamp.UTC()
		timestamp = &ts
	}

	query := `
	INSERT INTO events (id, name, description, event_type, scope, timestamp, is_approximate,
		story_day, involved_entities, story_context, plot_impact, tags, status, is_canon)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		description = EXCLUDED.description,
		event_type = EXCLUDED.event_type,
		scope = EXCLUDED.scope,
		timestamp = EXCLUDED.timestamp,
		is_approximate = EXCLUDED.is_approximate,
		story_day = EXCLUDED.story_day,
		involved_entities = EXCLUDED.involved_entities,
		story_context = EXCLUDED.story_context,
		plot_impact = EXCLUDED.plot_impact,
		tags = EXCLUDED.tags,
		status = EXCLUDED.status,
		is_canon = EXCLUDED.is_canon
	`

	_, err = c.pool.Exec(ctx, query,
		e.ID, e.Name, e.Description, e.Type, string(e.Scope), timestamp, e.Time.IsApproximate,
		e.Time.StoryDay, involved, storyContext, impact, tags, string(e.Status), e.IsCanon)
	if err != nil {
		return fmt.Errorf("saving event: %w", err)
	}
	return nil
}

func (c *Client) ListEvents(ctx context.Context) ([]timeline.Event, error) {
	query := eventColumns + ` FROM events ORDER BY inserted_at ASC`
	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// SearchEvents matches event names and descriptions case-insensitively.
func (c *Client) SearchEvents(ctx context.Context, query string) ([]timeline.Event, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	sqlQuery := eventColumns + `
	FROM events
	WHERE name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%'
	ORDER BY inserted_at ASC
	LIMIT 50
	`
	rows, err := c.pool.Query(ctx, sqlQuery, query)
	if err != nil {
		return nil, fmt.Errorf("searching events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

const eventColumns = `
	SELECT id, name, description, event_type, scope, timestamp, is_approximate,
		story_day, involved_entities, story_context, plot_impact, tags, status, is_canon`

func scanEvents(rows pgx.Rows) ([]timeline.Event, error) {
	events := make([]timeline.Event, 0)
	for rows.Next() {
		var (
			e            timeline.Event
			scope        string
			status       string
			timestamp    *time.Time
			involved     []byte
			storyContext []byte
			impact       []byte
			tags         []byte
		)
		err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.Type, &scope, &timestamp,
			&e.Time.IsApproximate, &e.Time.StoryDay, &involved, &storyContext, &impact,
			&tags, &status, &e.IsCanon)
		if err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}

		e.Scope = timeline.Scope(scope)
		e.Status = timeline.Status(status)
		if timestamp != nil {
			e.Time.Timestamp = *timestamp
		}
		if len(involved) > 0 {
			var refs []registry.Ref
			if err := json.Unmarshal(involved, &refs); err != nil {
				return nil, fmt.Errorf("unmarshaling involved entities: %w", err)
			}
			e.InvolvedEntities = refs
		}
		if len(storyContext) > 0 {
			var sc timeline.StoryContext
			if err := json.Unmarshal(storyContext, &sc); err != nil {
				return nil, fmt.Errorf("unmarshaling story context: %w", err)
			}
			e.StoryContext = &sc
		}
		if len(impact) > 0 {
			if err := json.Unmarshal(impact, &e.PlotImpact); err != nil {
				return nil, fmt.Errorf("unmarshaling plot impact: %w", err)
			}
		}
		if len(tags) > 0 {
			if err := json.Unmarshal(tags, &e.Tags); err != nil {
				return nil, fmt.Errorf("unmarshaling tags: %w", err)
			}
		}

		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}
	return events, nil
}
