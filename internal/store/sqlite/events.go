package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

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
	var storyContext any
	if e.StoryContext != nil {
		data, err := json.Marshal(e.StoryContext)
		if err != nil {
			return fmt.Errorf("marshaling story context: %w", err)
		}
		storyContext = string(data)
	}

	var timestamp string
	if !e.Time.Timestamp.IsZero() {
		timestamp = e.Time.Timestamp.UTC().Format(time.RFC3339Nano)
	}

	query := `
	INSERT INTO events (id, name, description, event_type, scope, timestamp, is_approximate,
		story_day, involved_entities, story_context, plot_impact, tags, status, is_canon)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		name = excluded.name,
		description = excluded.description,
		event_type = excluded.event_type,
		scope = excluded.scope,
		timestamp = excluded.timestamp,
		is_approximate = excluded.is_approximate,
		story_day = excluded.story_day,
		involved_entities = excluded.involved_entities,
		story_context = excluded.story_context,
		plot_impact = excluded.plot_impact,
		tags = excluded.tags,
		status = excluded.status,
		is_canon = excluded.is_canon
	`

	_, err = c.db.ExecContext(ctx, query,
		e.ID, e.Name, e.Description, e.Type, string(e.Scope), timestamp,
		boolToInt(e.Time.IsApproximate), e.Time.StoryDay, string(involved), storyContext,
		string(impact), string(tags), string(e.Status), boolToInt(e.IsCanon))
	if err != nil {
		return fmt.Errorf("saving event: %w", err)
	}
	return nil
}

func (c *Client) ListEvents(ctx context.Context) ([]timeline.Event, error) {
	query := `
	SELECT id, name, description, event_type, scope, timestamp, is_approximate,
		story_day, involved_entities, story_context, plot_impact, tags, status, is_canon
	FROM events
	ORDER BY rowid ASC
	`
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// SearchEvents runs a full-text query over event names, descriptions, and
// tags via the FTS index.
func (c *Client) SearchEvents(ctx context.Context, query string) ([]timeline.Event, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	sqlQuery := `
	SELECT e.id, e.name, e.description, e.event_type, e.scope, e.timestamp, e.is_approximate,
		e.story_day, e.involved_entities, e.story_context, e.plot_impact, e.tags, e.status, e.is_canon
	FROM events_fts
	JOIN events e ON events_fts.rowid = e.rowid
	WHERE events_fts MATCH ?
	ORDER BY bm25(events_fts, 10.0, 4.0, 1.0)
	LIMIT 50
	`
	rows, err := c.db.QueryContext(ctx, sqlQuery, query)
	if err != nil {
		return nil, fmt.Errorf("searching events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]timeline.Event, error) {
	events := make([]timeline.Event, 0)
	for rows.Next() {
		var (
			e            timeline.Event
			scope        string
			status       string
			timestamp    string
			approximate  int
			canon        int
			involved     []byte
			storyContext sql.NullString
			impact       []byte
			tags         []byte
		)
		err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.Type, &scope, &timestamp, &approximate,
			&e.Time.StoryDay, &involved, &storyContext, &impact, &tags, &status, &canon)
		if err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}

		e.Scope = timeline.Scope(scope)
		e.Status = timeline.Status(status)
		e.Time.IsApproximate = approximate != 0
		e.IsCanon = canon != 0
		if timestamp != "" {
			ts, err := time.Parse(time.RFC3339Nano, timestamp)
			if err != nil {
				return nil, fmt.Errorf("parsing event timestamp: %w", err)
			}
			e.Time.Timestamp = ts
		}
		if len(involved) > 0 {
			var refs []registry.Ref
			if err := json.Unmarshal(involved, &refs); err != nil {
				return nil, fmt.Errorf("unmarshaling involved entities: %w", err)
			}
			e.InvolvedEntities = refs
		}
		if storyContext.Valid && storyContext.String != "" {
			var sc timeline.StoryContext
			if err := json.Unmarshal([]byte(storyContext.String), &sc); err != nil {
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

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
