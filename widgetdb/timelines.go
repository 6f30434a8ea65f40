package widgetdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"widgetry.dev/internal/logging"
	"widgetry.dev/internal/timeline"
)

var ErrNotFound = errors.New("timeline not found")

// SaveTimeline stores the attributes and model of a timeline under id,
// replacing what was stored before. Dates keep millisecond precision.
func (c *Client) SaveTimeline(ctx context.Context, id string, t *timeline.Timeline, m *timeline.Model) error {
	attrs, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("error encoding timeline attributes: %w", err)
	}
	record := m.Record()

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer logging.SafeRollbackWithLogging(tx, c.logger, "save_timeline")

	_, err = tx.ExecContext(ctx, `
		INSERT INTO timelines (id, attrs, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET attrs = excluded.attrs, updated_at = excluded.updated_at;
	`, id, string(attrs), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("error upserting timeline: %w", err)
	}

	for _, table := range []string{"timeline_events", "timeline_groups"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE timeline_id = ?", id); err != nil {
			return fmt.Errorf("error clearing %s: %w", table, err)
		}
	}

	if err := insertGroups(ctx, tx, id, record.Groups); err != nil {
		return err
	}
	if err := insertEvents(ctx, tx, id, record.Events); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

func insertGroups(ctx context.Context, tx *sql.Tx, id string, groups []timeline.Group) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO timeline_groups (
			timeline_id, position, group_id, content, title, style_class
		) VALUES (?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer stmt.Close() // nolint:errcheck

	for i, g := range groups {
		if _, err := stmt.ExecContext(ctx, id, i, g.ID, g.Content, g.Title, g.StyleClass); err != nil {
			return fmt.Errorf("error inserting group %q: %w", g.ID, err)
		}
	}
	return nil
}

func insertEvents(ctx context.Context, tx *sql.Tx, id string, events []timeline.EventRecord) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO timeline_events (
			timeline_id, position, event_id, data, start_ms, end_ms,
			editable, editable_time, editable_group, editable_remove,
			group_name, title, style_class
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer stmt.Close() // nolint:errcheck

	for i, e := range events {
		var data sql.NullString
		if e.Data != nil {
			b, err := json.Marshal(e.Data)
			if err != nil {
				return fmt.Errorf("error encoding data of event %q: %w", e.ID, err)
			}
			data = sql.NullString{String: string(b), Valid: true}
		}
		var end sql.NullInt64
		if e.End != nil {
			end = sql.NullInt64{Int64: e.End.UnixMilli(), Valid: true}
		}

		_, err := stmt.ExecContext(ctx,
			id, i, e.ID, data, e.Start.UnixMilli(), end,
			nullBool(e.Editable), nullBool(e.EditableTime), nullBool(e.EditableGroup), nullBool(e.EditableRemove),
			e.Group, e.Title, e.StyleClass,
		)
		if err != nil {
			return fmt.Errorf("error inserting event %q: %w", e.ID, err)
		}
	}
	return nil
}

// LoadTimeline reads a stored timeline. Attributes absent from the stored
// JSON keep their defaults.
func (c *Client) LoadTimeline(ctx context.Context, id string) (*timeline.Timeline, *timeline.Model, error) {
	var attrs string
	err := c.DB.QueryRowContext(ctx, "SELECT attrs FROM timelines WHERE id = ?", id).Scan(&attrs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("error querying timeline: %w", err)
	}

	t := timeline.NewTimeline(id)
	if err := json.Unmarshal([]byte(attrs), t); err != nil {
		return nil, nil, fmt.Errorf("error decoding timeline attributes: %w", err)
	}

	var record timeline.Record
	if record.Groups, err = c.queryGroups(ctx, id); err != nil {
		return nil, nil, err
	}
	if record.Events, err = c.queryEvents(ctx, id); err != nil {
		return nil, nil, err
	}
	m, err := record.Model()
	if err != nil {
		return nil, nil, fmt.Errorf("error rebuilding timeline model: %w", err)
	}
	return t, m, nil
}

func (c *Client) queryGroups(ctx context.Context, id string) ([]timeline.Group, error) {
	rows, err := c.DB.QueryContext(ctx, `
		SELECT group_id, content, title, style_class
		FROM timeline_groups WHERE timeline_id = ? ORDER BY position;
	`, id)
	if err != nil {
		return nil, fmt.Errorf("error querying groups: %w", err)
	}
	defer rows.Close() // nolint:errcheck

	var groups []timeline.Group
	for rows.Next() {
		var g timeline.Group
		if err := rows.Scan(&g.ID, &g.Content, &g.Title, &g.StyleClass); err != nil {
			return nil, fmt.Errorf("error scanning group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (c *Client) queryEvents(ctx context.Context, id string) ([]timeline.EventRecord, error) {
	rows, err := c.DB.QueryContext(ctx, `
		SELECT event_id, data, start_ms, end_ms,
			editable, editable_time, editable_group, editable_remove,
			group_name, title, style_class
		FROM timeline_events WHERE timeline_id = ? ORDER BY position;
	`, id)
	if err != nil {
		return nil, fmt.Errorf("error querying events: %w", err)
	}
	defer rows.Close() // nolint:errcheck

	var events []timeline.EventRecord
	for rows.Next() {
		var e timeline.EventRecord
		var data sql.NullString
		var start int64
		var end sql.NullInt64
		var editable, editTime, editGroup, editRemove sql.NullBool
		err := rows.Scan(&e.ID, &data, &start, &end,
			&editable, &editTime, &editGroup, &editRemove,
			&e.Group, &e.Title, &e.StyleClass)
		if err != nil {
			return nil, fmt.Errorf("error scanning event: %w", err)
		}

		if data.Valid {
			if err := json.Unmarshal([]byte(data.String), &e.Data); err != nil {
				return nil, fmt.Errorf("error decoding data of event %q: %w", e.ID, err)
			}
		}
		e.Start = time.UnixMilli(start).UTC()
		if end.Valid {
			t := time.UnixMilli(end.Int64).UTC()
			e.End = &t
		}
		e.Editable = boolPtr(editable)
		e.EditableTime = boolPtr(editTime)
		e.EditableGroup = boolPtr(editGroup)
		e.EditableRemove = boolPtr(editRemove)
		events = append(events, e)
	}
	return events, rows.Err()
}

// DeleteTimeline removes a timeline and reports whether it existed.
func (c *Client) DeleteTimeline(ctx context.Context, id string) (bool, error) {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("error starting transaction: %w", err)
	}
	defer logging.SafeRollbackWithLogging(tx, c.logger, "delete_timeline")
	for _, table := range []string{"timeline_events", "timeline_groups"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE timeline_id = ?", id); err != nil {
			return false, fmt.Errorf("error clearing %s: %w", table, err)
		}
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM timelines WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("error deleting timeline: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("error committing transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListTimelines returns the stored timeline ids in order.
func (c *Client) ListTimelines(ctx context.Context) ([]string, error) {
	rows, err := c.DB.QueryContext(ctx, "SELECT id FROM timelines ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("error querying timelines: %w", err)
	}
	defer rows.Close() // nolint:errcheck

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning timeline id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

func boolPtr(b sql.NullBool) *bool {
	if !b.Valid {
		return nil
	}
	v := b.Bool
	return &v
}
