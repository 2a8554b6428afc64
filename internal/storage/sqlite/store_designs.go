package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openagora/ludics/internal/storage"
)

// CreateDesign inserts one design header.
func (s *Store) CreateDesign(ctx context.Context, d storage.Design) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	id := strings.TrimSpace(d.ID)
	if id == "" {
		return fmt.Errorf("design id is required")
	}
	if strings.TrimSpace(d.DialogueID) == "" {
		return fmt.Errorf("dialogue id is required")
	}
	if strings.TrimSpace(d.Owner) == "" {
		return fmt.Errorf("owner is required")
	}
	createdAt := d.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	updatedAt := d.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO designs (id, dialogue_id, owner, root_locus, has_daimon, version, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		strings.TrimSpace(d.DialogueID),
		strings.TrimSpace(d.Owner),
		strings.TrimSpace(d.RootLocus),
		boolToInt(d.HasDaimon),
		d.Version,
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create design: %w", err)
	}
	return nil
}

// GetDesign returns one design header by id.
func (s *Store) GetDesign(ctx context.Context, id string) (storage.Design, error) {
	if err := ctx.Err(); err != nil {
		return storage.Design{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Design{}, err
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, dialogue_id, owner, root_locus, has_daimon, version, created_at, updated_at
		   FROM designs
		  WHERE id = ?`,
		strings.TrimSpace(id),
	)
	return scanDesign(row)
}

// ListDesigns returns every design of a dialogue in creation order.
func (s *Store) ListDesigns(ctx context.Context, dialogueID string) ([]storage.Design, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, dialogue_id, owner, root_locus, has_daimon, version, created_at, updated_at
		   FROM designs
		  WHERE dialogue_id = ?
		  ORDER BY created_at ASC, id ASC`,
		strings.TrimSpace(dialogueID),
	)
	if err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}
	defer rows.Close()

	var out []storage.Design
	for rows.Next() {
		d, err := scanDesignRows(rows)
		if err != nil {
			return nil, fmt.Errorf("list designs: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}
	return out, nil
}

// AppendActs atomically writes acts and advances the design header. The
// header update is guarded by expectedVersion so concurrent appends to the
// same design surface as ErrVersionConflict instead of interleaving.
func (s *Store) AppendActs(ctx context.Context, d storage.Design, expectedVersion int, acts []storage.ActRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("design id is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	updatedAt := d.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = now
	}

	res, err := tx.ExecContext(
		ctx,
		`UPDATE designs
		    SET has_daimon = ?, version = ?, updated_at = ?
		  WHERE id = ? AND version = ?`,
		boolToInt(d.HasDaimon),
		d.Version,
		toMillis(updatedAt),
		d.ID,
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("advance design: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("advance design: %w", err)
	}
	if affected == 0 {
		if _, getErr := s.GetDesign(ctx, d.ID); errors.Is(getErr, storage.ErrNotFound) {
			return storage.ErrNotFound
		}
		return storage.ErrVersionConflict
	}

	for _, a := range acts {
		meta := ""
		if len(a.Meta) > 0 {
			encoded, err := json.Marshal(a.Meta)
			if err != nil {
				return fmt.Errorf("encode act meta: %w", err)
			}
			meta = string(encoded)
		}
		createdAt := a.CreatedAt.UTC()
		if createdAt.IsZero() {
			createdAt = now
		}
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO acts (id, design_id, design_seq, kind, polarity, locus_path,
			                   ramification, expression, is_additive, meta, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID,
			d.ID,
			a.Seq,
			a.Kind,
			a.Polarity,
			a.LocusPath,
			a.Ramification,
			a.Expression,
			boolToInt(a.IsAdditive),
			meta,
			toMillis(createdAt),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return storage.ErrAlreadyExists
			}
			return fmt.Errorf("append act: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append: %w", err)
	}
	return nil
}

// ActsForDesign returns the full act sequence of a design in play order.
func (s *Store) ActsForDesign(ctx context.Context, designID string) ([]storage.ActRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT seq, id, design_id, design_seq, kind, polarity, locus_path,
		        ramification, expression, is_additive, meta, created_at
		   FROM acts
		  WHERE design_id = ?
		  ORDER BY design_seq ASC`,
		strings.TrimSpace(designID),
	)
	if err != nil {
		return nil, fmt.Errorf("acts for design: %w", err)
	}
	defer rows.Close()

	var out []storage.ActRecord
	for rows.Next() {
		record, _, err := scanAct(rows)
		if err != nil {
			return nil, fmt.Errorf("acts for design: %w", err)
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("acts for design: %w", err)
	}
	return out, nil
}

func scanDesign(row *sql.Row) (storage.Design, error) {
	var d storage.Design
	var hasDaimon int
	var createdAt, updatedAt int64
	err := row.Scan(&d.ID, &d.DialogueID, &d.Owner, &d.RootLocus, &hasDaimon, &d.Version, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Design{}, storage.ErrNotFound
		}
		return storage.Design{}, fmt.Errorf("get design: %w", err)
	}
	d.HasDaimon = hasDaimon != 0
	d.CreatedAt = fromMillis(createdAt)
	d.UpdatedAt = fromMillis(updatedAt)
	return d, nil
}

func scanDesignRows(rows *sql.Rows) (storage.Design, error) {
	var d storage.Design
	var hasDaimon int
	var createdAt, updatedAt int64
	err := rows.Scan(&d.ID, &d.DialogueID, &d.Owner, &d.RootLocus, &hasDaimon, &d.Version, &createdAt, &updatedAt)
	if err != nil {
		return storage.Design{}, err
	}
	d.HasDaimon = hasDaimon != 0
	d.CreatedAt = fromMillis(createdAt)
	d.UpdatedAt = fromMillis(updatedAt)
	return d, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
