package sqlite

import (
	"context"
	"fmt"
	"strings"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS events (
		id                TEXT PRIMARY KEY,
		name              TEXT NOT NULL,
		description       TEXT DEFAULT '',
		event_type        TEXT DEFAULT '',
		scope             TEXT NOT NULL,
		timestamp         TEXT DEFAULT '',
		is_approximate    INTEGER DEFAULT 0,
		story_day         INTEGER DEFAULT 0,
		involved_entities TEXT DEFAULT '[]',
		story_context     TEXT,
		plot_impact       TEXT DEFAULT '{}',
		tags              TEXT DEFAULT '[]',
		status            TEXT DEFAULT 'active',
		is_canon          INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS state_changes (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		story_id    TEXT NOT NULL,
		chapter     INTEGER NOT NULL,
		change_type TEXT NOT NULL,
		target_id   TEXT NOT NULL,
		property    TEXT NOT NULL,
		old_value   TEXT,
		new_value   TEXT,
		reason      TEXT DEFAULT '',
		automatic   INTEGER DEFAULT 0,
		changed_at  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS consistency_results (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		story_id    TEXT NOT NULL,
		chapter     INTEGER NOT NULL,
		level       TEXT NOT NULL,
		category    TEXT NOT NULL,
		description TEXT NOT NULL,
		details     TEXT DEFAULT '',
		affected    TEXT DEFAULT '[]',
		severity    INTEGER NOT NULL,
		auto_fixable INTEGER DEFAULT 0,
		suggested_fix TEXT DEFAULT '',
		detected_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_scope ON events (scope);
	CREATE INDEX IF NOT EXISTS idx_changes_story ON state_changes (story_id, chapter);
	CREATE INDEX IF NOT EXISTS idx_results_story ON consistency_results (story_id, chapter);

	CREATE VIRTUAL TABLE IF NOT EXISTS events_fts USING fts5(
		name,
		description,
		tags,
		content=events
	);

	CREATE TRIGGER IF NOT EXISTS events_ai AFTER INSERT ON events BEGIN
		INSERT INTO events_fts(rowid, name, description, tags)
		VALUES (new.rowid, new.name, new.description, new.tags);
	END;

	CREATE TRIGGER IF NOT EXISTS events_ad AFTER DELETE ON events BEGIN
		INSERT INTO events_fts(events_fts, rowid, name, description, tags)
		VALUES ('delete', old.rowid, old.name, old.description, old.tags);
	END;

	CREATE TRIGGER IF NOT EXISTS events_au AFTER UPDATE ON events BEGIN
		INSERT INTO events_fts(events_fts, rowid, name, description, tags)
		VALUES ('delete', old.rowid, old.name, old.description, old.tags);
		INSERT INTO events_fts(rowid, name, description, tags)
		VALUES (new.rowid, new.name, new.description, new.tags);
	END;
	`

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range splitStatements(ddl) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing DDL: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}

	return nil
}

func splitStatements(ddl string) []string {
	var statements []string
	var current strings.Builder
	depth := 0

	for _, line := range strings.Split(ddl, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		upper := strings.ToUpper(stripped)
		if strings.Contains(upper, "BEGIN") && strings.HasPrefix(upper, "CREATE TRIGGER") {
			depth++
		}
		if depth > 0 {
			if strings.HasPrefix(upper, "END;") {
				depth--
			} else {
				continue
			}
		}

		if strings.HasSuffix(stripped, ";") && depth == 0 {
			statements = append(statements, current.String())
			current.Reset()
		}
	}

	if strings.TrimSpace(current.String()) != "" {
		statements = append(statements, current.String())
	}

	return statements
}
