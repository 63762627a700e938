package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"placement/internal/notification/models"
	"placement/internal/platform/postgres"
	id "placement/pkg/domain"
	"placement/pkg/platform/sentinel"
	"placement/pkg/platform/tx"
)

// PostgresStore persists notifications in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const notificationColumns = `id, recipient_id, recipient_type, type, title, message, action_type,
	affected_item_id, affected_item_type, metadata, read, read_at, priority, created_at, expires_at`

func (s *PostgresStore) Create(ctx context.Context, n *models.Notification) error {
	metadata, err := marshalMetadata(n.Metadata)
	if err != nil {
		return err
	}
	_, err = tx.Execer(ctx, s.db).ExecContext(ctx, `
		INSERT INTO notifications (id, recipient_id, recipient_type, type, title, message, action_type,
			affected_item_id, affected_item_type, metadata, priority, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		n.ID.String(), n.RecipientID, string(n.RecipientType), string(n.Type), n.Title, n.Message, n.ActionType,
		n.AffectedItemID, n.AffectedItemType, metadata, string(n.Priority), n.CreatedAt, n.ExpiresAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("notification %s: %w", n.ID, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

const bulkColumnCount = 13

// CreateBulk inserts the batch in one round trip using unnest over parallel arrays.
func (s *PostgresStore) CreateBulk(ctx context.Context, ns []*models.Notification) (int, error) {
	if len(ns) == 0 {
		return 0, nil
	}
	cols := make([][]string, bulkColumnCount)
	for i := range cols {
		cols[i] = make([]string, 0, len(ns))
	}
	for _, n := range ns {
		meta, err := marshalMetadata(n.Metadata)
		if err != nil {
			return 0, err
		}
		row := [bulkColumnCount]string{
			n.ID.String(), n.RecipientID, string(n.RecipientType), string(n.Type), n.Title, n.Message,
			n.ActionType, n.AffectedItemID, n.AffectedItemType, string(meta), string(n.Priority),
			n.CreatedAt.UTC().Format(time.RFC3339Nano), n.ExpiresAt.UTC().Format(time.RFC3339Nano),
		}
		for i, v := range row {
			cols[i] = append(cols[i], v)
		}
	}
	args := make([]any, bulkColumnCount)
	for i := range cols {
		args[i] = pq.Array(cols[i])
	}

	res, err := tx.Execer(ctx, s.db).ExecContext(ctx, `
		INSERT INTO notifications (id, recipient_id, recipient_type, type, title, message, action_type,
			affected_item_id, affected_item_type, metadata, priority, created_at, expires_at)
		SELECT u.id, u.recipient_id, u.recipient_type, u.type, u.title, u.message, u.action_type,
			u.affected_item_id, u.affected_item_type, u.metadata::jsonb, u.priority,
			u.created_at::timestamptz, u.expires_at::timestamptz
		FROM unnest($1::text[], $2::text[], $3::text[], $4::text[], $5::text[], $6::text[], $7::text[],
			$8::text[], $9::text[], $10::text[], $11::text[], $12::text[], $13::text[])
			AS u(id, recipient_id, recipient_type, type, title, message, action_type,
				affected_item_id, affected_item_type, metadata, priority, created_at, expires_at)
		ON CONFLICT (id) DO NOTHING`, args...)
	if err != nil {
		return 0, fmt.Errorf("bulk insert notifications: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("bulk insert notifications: %w", err)
	}
	return int(affected), nil
}

func (s *PostgresStore) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, now time.Time, limit int) ([]*models.Notification, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := tx.Execer(ctx, s.db).QueryContext(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE recipient_id = $1 AND expires_at > $2 AND ($3::boolean = FALSE OR read = FALSE)
		ORDER BY created_at DESC
		LIMIT $4`, recipientID, now, unreadOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) CountUnread(ctx context.Context, recipientID string, now time.Time) (int, error) {
	var count int
	err := tx.Execer(ctx, s.db).QueryRowContext(ctx, `
		SELECT COUNT(*) FROM notifications
		WHERE recipient_id = $1 AND read = FALSE AND expires_at > $2`, recipientID, now).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) MarkRead(ctx context.Context, recipientID string, nid id.NotificationID, now time.Time) (*models.Notification, error) {
	row := tx.Execer(ctx, s.db).QueryRowContext(ctx, `
		UPDATE notifications
		SET read = TRUE, read_at = COALESCE(read_at, $3)
		WHERE id = $1 AND recipient_id = $2
		RETURNING `+notificationColumns, nid.String(), recipientID, now)
	n, err := scanNotification(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("notification %s: %w", nid, sentinel.ErrNotFound)
		}
		return nil, err
	}
	return n, nil
}

func (s *PostgresStore) MarkAllRead(ctx context.Context, recipientID string, now time.Time) (int, error) {
	res, err := tx.Execer(ctx, s.db).ExecContext(ctx, `
		UPDATE notifications SET read = TRUE, read_at = $2
		WHERE recipient_id = $1 AND read = FALSE`, recipientID, now)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return int(affected), nil
}

func (s *PostgresStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := tx.Execer(ctx, s.db).ExecContext(ctx, `DELETE FROM notifications WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired notifications: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired notifications: %w", err)
	}
	return int(affected), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotification(row rowScanner) (*models.Notification, error) {
	var (
		n                            models.Notification
		nid, recipientType, typ, pri string
		metadata                     []byte
		readAt                       sql.NullTime
	)
	err := row.Scan(&nid, &n.RecipientID, &recipientType, &typ, &n.Title, &n.Message, &n.ActionType,
		&n.AffectedItemID, &n.AffectedItemType, &metadata, &n.Read, &readAt, &pri, &n.CreatedAt, &n.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan notification: %w", err)
	}
	n.ID = id.NotificationID(nid)
	n.RecipientType = models.RecipientType(recipientType)
	n.Type = models.Type(typ)
	n.Priority = models.Priority(pri)
	if readAt.Valid {
		t := readAt.Time
		n.ReadAt = &t
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &n.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal notification metadata: %w", err)
		}
	}
	return &n, nil
}

func marshalMetadata(m map[string]string) ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal notification metadata: %w", err)
	}
	return raw, nil
}
