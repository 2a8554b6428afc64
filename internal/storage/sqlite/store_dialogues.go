package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openagora/ludics/internal/storage"
)

// CreateDialogue inserts one dialogue root.
func (s *Store) CreateDialogue(ctx context.Context, dialogue storage.Dialogue) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	id := strings.TrimSpace(dialogue.ID)
	if id == "" {
		return fmt.Errorf("dialogue id is required")
	}
	createdAt := dialogue.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO dialogues (id, topic, created_at) VALUES (?, ?, ?)`,
		id,
		strings.TrimSpace(dialogue.Topic),
		toMillis(createdAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create dialogue: %w", err)
	}
	return nil
}

// GetDialogue returns one dialogue by id.
func (s *Store) GetDialogue(ctx context.Context, id string) (storage.Dialogue, error) {
	if err := ctx.Err(); err != nil {
		return storage.Dialogue{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Dialogue{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.Dialogue{}, fmt.Errorf("dialogue id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, topic, created_at FROM dialogues WHERE id = ?`,
		id,
	)

	var dialogue storage.Dialogue
	var createdAt int64
	if err := row.Scan(&dialogue.ID, &dialogue.Topic, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Dialogue{}, storage.ErrNotFound
		}
		return storage.Dialogue{}, fmt.Errorf("get dialogue: %w", err)
	}
	dialogue.CreatedAt = fromMillis(createdAt)
	return dialogue, nil
}
