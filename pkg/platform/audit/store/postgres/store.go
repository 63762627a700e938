package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	audit "placement/pkg/platform/audit"
	txcontext "placement/pkg/platform/tx"
)

// Store appends moderation events to the moderation_audit table.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const eventColumns = `id, category, occurred_at, action, target_type, target_id, actor_id, actor_name,
	reason, changed, request_id`

// Append joins the caller's transaction when one is bound to ctx.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	category := event.Action.Category()
	_, err := txcontext.Execer(ctx, s.db).ExecContext(ctx, `
		INSERT INTO moderation_audit (`+eventColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING`,
		event.ID, string(category), event.Timestamp, string(event.Action), event.TargetType, event.TargetID,
		event.ActorID, event.ActorName, event.Reason, event.Changed, event.RequestID,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (s *Store) ListByTarget(ctx context.Context, targetID string, limit int) ([]audit.Event, error) {
	return s.query(ctx, `
		SELECT * FROM (
			SELECT `+eventColumns+` FROM moderation_audit
			WHERE target_id = $1 ORDER BY occurred_at DESC LIMIT $2
		) recent ORDER BY occurred_at`, targetID, limitOrAll(limit))
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	return s.query(ctx, `
		SELECT `+eventColumns+` FROM moderation_audit
		ORDER BY occurred_at DESC LIMIT $1`, limitOrAll(limit))
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]audit.Event, error) {
	rows, err := txcontext.Execer(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	events := make([]audit.Event, 0)
	for rows.Next() {
		var (
			e                audit.Event
			category, action string
		)
		if err := rows.Scan(&e.ID, &category, &e.Timestamp, &action, &e.TargetType, &e.TargetID,
			&e.ActorID, &e.ActorName, &e.Reason, &e.Changed, &e.RequestID); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Category = audit.Category(category)
		e.Action = audit.Action(action)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}

// limitOrAll maps a non-positive limit to no limit; LIMIT NULL returns every row.
func limitOrAll(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}
