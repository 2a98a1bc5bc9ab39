package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kharelpawan/uaebackend/internal/model"
)

// CreateMessage inserts a contact form submission. The ID and CreatedAt
// fields on msg are populated after a successful insert.
func (s *Store) CreateMessage(ctx context.Context, msg *model.Message) error {
	msg.CreatedAt = time.Now().UTC()

	const q = `INSERT INTO messages (name, phone, body, is_read, created_at)
		VALUES (:name, :phone, :body, :is_read, :created_at)`

	id, err := s.insertID(ctx, q, msg)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	msg.ID = id
	return nil
}

// GetMessage returns a message by ID.
func (s *Store) GetMessage(ctx context.Context, id int64) (*model.Message, error) {
	var msg model.Message
	q := s.rebind("SELECT * FROM messages WHERE id = ?")
	if err := s.db.GetContext(ctx, &msg, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get message: %w", err)
	}
	return &msg, nil
}

// ListMessages returns one page of messages, newest first, along with the
// total row count for pagination.
func (s *Store) ListMessages(ctx context.Context, limit, offset int) ([]model.Message, int64, error) {
	var messages []model.Message
	q := s.rebind("SELECT * FROM messages ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?")
	if err := s.db.SelectContext(ctx, &messages, q, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("list messages: %w", err)
	}

	var total int64
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM messages"); err != nil {
		return nil, 0, fmt.Errorf("count messages: %w", err)
	}
	return messages, total, nil
}

// CountUnreadMessages returns the number of messages not yet marked read.
func (s *Store) CountUnreadMessages(ctx context.Context) (int64, error) {
	var count int64
	q := s.rebind("SELECT COUNT(*) FROM messages WHERE is_read = ?")
	if err := s.db.GetContext(ctx, &count, q, false); err != nil {
		return 0, fmt.Errorf("count unread messages: %w", err)
	}
	return count, nil
}

// MarkMessageRead flags a message as read.
func (s *Store) MarkMessageRead(ctx context.Context, id int64) error {
	q := s.rebind("UPDATE messages SET is_read = ? WHERE id = ?")
	result, err := s.db.ExecContext(ctx, q, true, id)
	if err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark message read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMessage removes a message by ID.
func (s *Store) DeleteMessage(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, s.rebind("DELETE FROM messages WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete message rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
