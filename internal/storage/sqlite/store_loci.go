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

// PutLocus inserts one locus node if absent. An existing node at the same
// path is left untouched, masked names included.
func (s *Store) PutLocus(ctx context.Context, loc storage.Locus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	dialogueID := strings.TrimSpace(loc.DialogueID)
	path := strings.TrimSpace(loc.Path)
	if dialogueID == "" {
		return fmt.Errorf("dialogue id is required")
	}
	if path == "" {
		return fmt.Errorf("locus path is required")
	}
	createdAt := loc.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO loci (dialogue_id, path, parent_path, masked, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (dialogue_id, path) DO NOTHING`,
		dialogueID,
		path,
		strings.TrimSpace(loc.ParentPath),
		loc.Masked,
		toMillis(createdAt),
	)
	if err != nil {
		return fmt.Errorf("put locus: %w", err)
	}
	return nil
}

// InsertLoci inserts a batch of locus nodes in one transaction. Any node
// whose path is already taken fails the whole batch with ErrAlreadyExists,
// so two concurrent allocations of the same child names cannot both land.
func (s *Store) InsertLoci(ctx context.Context, loci []storage.Locus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if len(loci) == 0 {
		return nil
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert loci: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	for _, loc := range loci {
		dialogueID := strings.TrimSpace(loc.DialogueID)
		path := strings.TrimSpace(loc.Path)
		if dialogueID == "" {
			return fmt.Errorf("dialogue id is required")
		}
		if path == "" {
			return fmt.Errorf("locus path is required")
		}
		createdAt := loc.CreatedAt.UTC()
		if createdAt.IsZero() {
			createdAt = now
		}
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO loci (dialogue_id, path, parent_path, masked, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			dialogueID,
			path,
			strings.TrimSpace(loc.ParentPath),
			loc.Masked,
			toMillis(createdAt),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return storage.ErrAlreadyExists
			}
			return fmt.Errorf("insert locus %s: %w", path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert loci: %w", err)
	}
	return nil
}

// GetLocus returns one locus node.
func (s *Store) GetLocus(ctx context.Context, dialogueID, path string) (storage.Locus, error) {
	if err := ctx.Err(); err != nil {
		return storage.Locus{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Locus{}, err
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT dialogue_id, path, parent_path, masked, created_at
		   FROM loci
		  WHERE dialogue_id = ? AND path = ?`,
		strings.TrimSpace(dialogueID),
		strings.TrimSpace(path),
	)

	var loc storage.Locus
	var createdAt int64
	if err := row.Scan(&loc.DialogueID, &loc.Path, &loc.ParentPath, &loc.Masked, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Locus{}, storage.ErrNotFound
		}
		return storage.Locus{}, fmt.Errorf("get locus: %w", err)
	}
	loc.CreatedAt = fromMillis(createdAt)
	return loc, nil
}

// ListChildren returns the direct children of a locus in path order.
func (s *Store) ListChildren(ctx context.Context, dialogueID, parentPath string) ([]storage.Locus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT dialogue_id, path, parent_path, masked, created_at
		   FROM loci
		  WHERE dialogue_id = ? AND parent_path = ?
		  ORDER BY path ASC`,
		strings.TrimSpace(dialogueID),
		strings.TrimSpace(parentPath),
	)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer rows.Close()

	var out []storage.Locus
	for rows.Next() {
		var loc storage.Locus
		var createdAt int64
		if err := rows.Scan(&loc.DialogueID, &loc.Path, &loc.ParentPath, &loc.Masked, &createdAt); err != nil {
			return nil, fmt.Errorf("list children: %w", err)
		}
		loc.CreatedAt = fromMillis(createdAt)
		out = append(out, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	return out, nil
}

// SetMasked replaces the masked child names of a locus.
func (s *Store) SetMasked(ctx context.Context, dialogueID, path, masked string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	res, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE loci SET masked = ? WHERE dialogue_id = ? AND path = ?`,
		masked,
		strings.TrimSpace(dialogueID),
		strings.TrimSpace(path),
	)
	if err != nil {
		return fmt.Errorf("set masked: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set masked: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
