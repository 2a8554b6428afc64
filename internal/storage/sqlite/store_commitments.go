package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openagora/ludics/internal/storage"
)

// PutElement inserts or refreshes one commitment element.
func (s *Store) PutElement(ctx context.Context, el storage.Element) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	id := strings.TrimSpace(el.ID)
	if id == "" {
		return fmt.Errorf("element id is required")
	}
	if strings.TrimSpace(el.DialogueID) == "" {
		return fmt.Errorf("dialogue id is required")
	}
	if strings.TrimSpace(el.Owner) == "" {
		return fmt.Errorf("owner is required")
	}
	if strings.TrimSpace(el.Label) == "" {
		return fmt.Errorf("label is required")
	}
	now := time.Now().UTC()
	createdAt := el.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = now
	}
	updatedAt := el.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = now
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO commitment_elements (
		   id, dialogue_id, owner, locus_path, label, base_polarity,
		   entitled, negation_of, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   label = excluded.label,
		   base_polarity = excluded.base_polarity,
		   entitled = excluded.entitled,
		   negation_of = excluded.negation_of,
		   updated_at = excluded.updated_at`,
		id,
		strings.TrimSpace(el.DialogueID),
		strings.TrimSpace(el.Owner),
		strings.TrimSpace(el.LocusPath),
		el.Label,
		el.BasePolarity,
		boolToInt(el.Entitled),
		el.NegationOf,
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("put element: %w", err)
	}
	return nil
}

// SetEntitled flips the entitlement flag of one element.
func (s *Store) SetEntitled(ctx context.Context, dialogueID, elementID string, entitled bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	res, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE commitment_elements
		    SET entitled = ?, updated_at = ?
		  WHERE dialogue_id = ? AND id = ?`,
		boolToInt(entitled),
		toMillis(time.Now().UTC()),
		strings.TrimSpace(dialogueID),
		strings.TrimSpace(elementID),
	)
	if err != nil {
		return fmt.Errorf("set entitled: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set entitled: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListElements returns every element asserted by an owner in a dialogue.
func (s *Store) ListElements(ctx context.Context, dialogueID, owner string) ([]storage.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, dialogue_id, owner, locus_path, label, base_polarity,
		        entitled, negation_of, created_at, updated_at
		   FROM commitment_elements
		  WHERE dialogue_id = ? AND owner = ?
		  ORDER BY created_at ASC, id ASC`,
		strings.TrimSpace(dialogueID),
		strings.TrimSpace(owner),
	)
	if err != nil {
		return nil, fmt.Errorf("list elements: %w", err)
	}
	defer rows.Close()

	var out []storage.Element
	for rows.Next() {
		var el storage.Element
		var entitled int
		var createdAt, updatedAt int64
		if err := rows.Scan(
			&el.ID,
			&el.DialogueID,
			&el.Owner,
			&el.LocusPath,
			&el.Label,
			&el.BasePolarity,
			&entitled,
			&el.NegationOf,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("list elements: %w", err)
		}
		el.Entitled = entitled != 0
		el.CreatedAt = fromMillis(createdAt)
		el.UpdatedAt = fromMillis(updatedAt)
		out = append(out, el)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list elements: %w", err)
	}
	return out, nil
}

var _ storage.Store = (*Store)(nil)
