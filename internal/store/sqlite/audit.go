package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"storygraph/internal/consistency"
)

func (c *Client) SaveStateChanges(ctx context.Context, storyID string, chapter int, changes []consistency.StateChange) error {
	if len(changes) == 0 {
		return nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO state_changes (story_id, chapter, change_type, target_id, property,
		old_value, new_value, reason, automatic, changed_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, change := range changes {
		oldValue, err := encodeValue(change.OldValue)
		if err != nil {
			return fmt.Errorf("encoding old value: %w", err)
		}
		newValue, err := encodeValue(change.NewValue)
		if err != nil {
			return fmt.Errorf("encoding new value: %w", err)
		}
		_, err = tx.ExecContext(ctx, query,
			storyID, chapter, string(change.Type), change.TargetID, change.Property,
			oldValue, newValue, change.Reason, boolToInt(change.Automatic),
			change.At.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("saving state change: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing state changes: %w", err)
	}
	return nil
}

func (c *Client) ListStateChanges(ctx context.Context, storyID string) ([]consistency.StateChange, error) {
	query := `
	SELECT change_type, target_id, property, old_value, new_value, reason, automatic, changed_at
	FROM state_changes
	WHERE story_id = ?
	ORDER BY chapter ASC, id ASC
	`
	rows, err := c.db.QueryContext(ctx, query, storyID)
	if err != nil {
		return nil, fmt.Errorf("listing state changes: %w", err)
	}
	defer rows.Close()

	changes := make([]consistency.StateChange, 0)
	for rows.Next() {
		var (
			change     consistency.StateChange
			changeType string
			oldValue   sql.NullString
			newValue   sql.NullString
			automatic  int
			changedAt  string
		)
		if err := rows.Scan(&changeType, &change.TargetID, &change.Property,
			&oldValue, &newValue, &change.Reason, &automatic, &changedAt); err != nil {
			return nil, fmt.Errorf("scanning state change: %w", err)
		}
		change.Type = consistency.ChangeType(changeType)
		change.Automatic = automatic != 0
		if change.OldValue, err = decodeValue(oldValue); err != nil {
			return nil, err
		}
		if change.NewValue, err = decodeValue(newValue); err != nil {
			return nil, err
		}
		if change.At, err = time.Parse(time.RFC3339Nano, changedAt); err != nil {
			return nil, fmt.Errorf("parsing change timestamp: %w", err)
		}
		changes = append(changes, change)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating state changes: %w", err)
	}
	return changes, nil
}

func (c *Client) SaveResults(ctx context.Context, storyID string, chapter int, results []consistency.Result) error {
	if len(results) == 0 {
		return nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO consistency_results (story_id, chapter, level, category, description,
		details, affected, severity, auto_fixable, suggested_fix, detected_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, result := range results {
		affected, err := json.Marshal(result.AffectedElements)
		if err != nil {
			return fmt.Errorf("marshaling affected elements: %w", err)
		}
		_, err = tx.ExecContext(ctx, query,
			storyID, chapter, string(result.Type), result.Category, result.Description,
			result.Details, string(affected), result.Severity, boolToInt(result.AutoFixable),
			result.SuggestedFix, result.DetectedAt.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("saving consistency result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing consistency results: %w", err)
	}
	return nil
}

func (c *Client) ListResults(ctx context.Context, storyID string) ([]consistency.Result, error) {
	query := `
	SELECT level, category, description, details, affected, severity, auto_fixable, suggested_fix, detected_at
	FROM consistency_results
	WHERE story_id = ?
	ORDER BY chapter ASC, id ASC
	`
	rows, err := c.db.QueryContext(ctx, query, storyID)
	if err != nil {
		return nil, fmt.Errorf("listing consistency results: %w", err)
	}
	defer rows.Close()

	results := make([]consistency.Result, 0)
	for rows.Next() {
		var (
			result      consistency.Result
			level       string
			affected    []byte
			autoFixable int
			detectedAt  string
		)
		if err := rows.Scan(&level, &result.Category, &result.Description, &result.Details,
			&affected, &result.Severity, &autoFixable, &result.SuggestedFix, &detectedAt); err != nil {
			return nil, fmt.Errorf("scanning consistency result: %w", err)
		}
		result.Type = consistency.Level(level)
		result.AutoFixable = autoFixable != 0
		if len(affected) > 0 {
			if err := json.Unmarshal(affected, &result.AffectedElements); err != nil {
				return nil, fmt.Errorf("unmarshaling affected elements: %w", err)
			}
		}
		if result.DetectedAt, err = time.Parse(time.RFC3339Nano, detectedAt); err != nil {
			return nil, fmt.Errorf("parsing result timestamp: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating consistency results: %w", err)
	}
	return results, nil
}

func encodeValue(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func decodeValue(v sql.NullString) (any, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	var out any
	if err := json.Unmarshal([]byte(v.String), &out); err != nil {
		return nil, fmt.Errorf("decoding stored value: %w", err)
	}
	return out, nil
}
