package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Tibrahi/portfolio/internal/contact"
)

// MessageStore archives contact form submissions.
type MessageStore struct {
	db *DB
}

func NewMessageStore(db *DB) *MessageStore {
	return &MessageStore{db: db}
}

// SaveMessage implements contact.Archive.
func (s *MessageStore) SaveMessage(ctx context.Context, m contact.Archived) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	_, err := s.db.conn.ExecContext(ctx, `
		INSERT INTO messages (id, name, email, subject, body, mode, delivered, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID.String(), m.Name, m.Email, m.Subject, m.Message, m.Mode, m.Delivered,
		sql.NullString{String: m.Error, Valid: m.Error != ""}, m.CreatedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save message: %w", err)
	}
	return nil
}

// List returns archived messages, newest first.
func (s *MessageStore) List(ctx context.Context, limit int) ([]contact.Archived, error) {
	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT id, name, email, subject, body, mode, delivered, COALESCE(error, ''), created_at
		FROM messages
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var out []contact.Archived
	for rows.Next() {
		var (
			m  contact.Archived
			id string
			at int64
		)
		if err := rows.Scan(&id, &m.Name, &m.Email, &m.Subject, &m.Message, &m.Mode, &m.Delivered, &m.Error, &at); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if m.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse message id %q: %w", id, err)
		}
		m.CreatedAt = time.UnixMilli(at).UTC()
		out = append(out, m)
	}
	return out, rows.Err()
}
