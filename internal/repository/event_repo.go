package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"interval_timer/internal/models"

	"github.com/google/uuid"
)

type EventSQLite struct {
	db *sql.DB
}

func NewEventSQLite(db *sql.DB) *EventSQLite { return &EventSQLite{db: db} }

const (
	insertEventSQL = `
		INSERT INTO timer_events (id, occurred_at, seq, type, message, meta)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	selectEventsSQL = `SELECT id, occurred_at, seq, type, message, meta FROM timer_events`
	orderEventsSQL  = ` ORDER BY occurred_at ASC, seq ASC`

	sqliteTimestampLayout = "2006-01-02 15:04:05"
)

// Append inserts a new event. If EventID or OccurredAt are empty, they're set.
func (r *EventSQLite) Append(ctx context.Context, e models.TimerEvent) error {
	e = withEventDefaults(e)

	var metaPtr *string
	if e.Metadata != nil {
		if b, err := json.Marshal(e.Metadata); err == nil {
			s := string(b)
			metaPtr = &s
		}
	}

	_, err := r.db.ExecContext(ctx, insertEventSQL,
		e.EventID,
		e.OccurredAt.Format(sqliteTimestampLayout),
		e.Seq,
		e.Type,
		e.Description,
		metaPtr,
	)
	if err != nil {
		return fmt.Errorf("insert timer event: %w", err)
	}
	return nil
}

// List returns events filtered by [from, to] (inclusive) and/or type, ordered ASC.
func (r *EventSQLite) List(ctx context.Context, from, to time.Time, typ string) ([]models.TimerEvent, error) {
	var (
		conds []string
		args  []any
	)

	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC().Format(sqliteTimestampLayout))
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC().Format(sqliteTimestampLayout))
	}
	if typ = normalizeType(typ); typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, typ)
	}

	q := selectEventsSQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += orderEventsSQL

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query timer events: %w", err)
	}
	defer rows.Close()

	out := make([]models.TimerEvent, 0, 64)
	for rows.Next() {
		var ev models.TimerEvent
		var metaStr sql.NullString
		if err := rows.Scan(&ev.EventID, &ev.OccurredAt, &ev.Seq, &ev.Type, &ev.Description, &metaStr); err != nil {
			return nil, fmt.Errorf("scan timer event: %w", err)
		}
		ev.OccurredAt = ev.OccurredAt.UTC()

		if metaStr.Valid && metaStr.String != "" {
			var v any
			if err := json.Unmarshal([]byte(metaStr.String), &v); err == nil {
				ev.Metadata = v
			} else {
				ev.Metadata = metaStr.String // keep raw if malformed
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// withEventDefaults fills in ID and timestamp and normalizes the type.
func withEventDefaults(e models.TimerEvent) models.TimerEvent {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	} else {
		e.OccurredAt = e.OccurredAt.UTC()
	}
	e.Type = normalizeType(e.Type)
	return e
}

func normalizeType(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
