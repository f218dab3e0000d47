package postgres

import (
	"context"
	"fmt"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id                TEXT PRIMARY KEY,
			name              TEXT NOT NULL,
			description       TEXT DEFAULT '',
			event_type        TEXT DEFAULT '',
			scope             TEXT NOT NULL,
			timestamp         TIMESTAMPTZ,
			is_approximate    BOOLEAN DEFAULT FALSE,
			story_day         INTEGER DEFAULT 0,
			involved_entities JSONB DEFAULT '[]',
			story_context     JSONB,
			plot_impact       JSONB DEFAULT '{}',
			tags              JSONB DEFAULT '[]',
			status            TEXT DEFAULT 'active',
			is_canon          BOOLEAN DEFAULT FALSE,
			inserted_at       BIGSERIAL
		)`,
		`CREATE TABLE IF NOT EXISTS state_changes (
			id          BIGSERIAL PRIMARY KEY,
			story_id    TEXT NOT NULL,
			chapter     INTEGER NOT NULL,
			change_type TEXT NOT NULL,
			target_id   TEXT NOT NULL,
			property    TEXT NOT NULL,
			old_value   JSONB,
			new_value   JSONB,
			reason      TEXT DEFAULT '',
			automatic   BOOLEAN DEFAULT FALSE,
			changed_at  TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS consistency_results (
			id            BIGSERIAL PRIMARY KEY,
			story_id      TEXT NOT NULL,
			chapter       INTEGER NOT NULL,
			level         TEXT NOT NULL,
			category      TEXT NOT NULL,
			description   TEXT NOT NULL,
			details       TEXT DEFAULT '',
			affected      JSONB DEFAULT '[]',
			severity      INTEGER NOT NULL,
			auto_fixable  BOOLEAN DEFAULT FALSE,
			suggested_fix TEXT DEFAULT '',
			detected_at   TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_scope ON events (scope)`,
		`CREATE INDEX IF NOT EXISTS idx_changes_story ON state_changes (story_id, chapter)`,
		`CREATE INDEX IF NOT EXISTS idx_results_story ON consistency_results (story_id, chapter)`,
	}

	for _, stmt := range statements {
		if _, err := c.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensuring schema: %w", err)
		}
	}
	return nil
}
