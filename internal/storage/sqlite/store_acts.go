package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openagora/ludics/internal/storage"
	"github.com/openagora/ludics/internal/storage/cursor"
	"github.com/openagora/ludics/internal/storage/filter"
)

// ListActs returns one page of act records for a design, optionally narrowed
// by an AIP-160 filter. Page tokens are opaque cursors bound to the filter
// they were issued for.
func (s *Store) ListActs(ctx context.Context, req storage.ListActsRequest) (storage.ActPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.ActPage{}, err
	}
	if err := s.ready(); err != nil {
		return storage.ActPage{}, err
	}
	designID := strings.TrimSpace(req.DesignID)
	if designID == "" {
		return storage.ActPage{}, fmt.Errorf("design id is required")
	}
	if req.PageSize <= 0 {
		return storage.ActPage{}, fmt.Errorf("page size must be greater than zero")
	}

	cond, err := filter.ParseActFilter(req.Filter)
	if err != nil {
		return storage.ActPage{}, fmt.Errorf("act filter: %w", err)
	}

	where := []string{"design_id = ?"}
	params := []any{designID}
	if cond.Clause != "" {
		where = append(where, cond.Clause)
		params = append(params, cond.Params...)
	}

	if token := strings.TrimSpace(req.PageToken); token != "" {
		c, err := cursor.Decode(token)
		if err != nil {
			return storage.ActPage{}, fmt.Errorf("page token: %w", err)
		}
		if err := cursor.ValidateFilterHash(c, req.Filter); err != nil {
			return storage.ActPage{}, fmt.Errorf("page token: %w", err)
		}
		where = append(where, "seq > ?")
		params = append(params, int64(c.Seq))
	}

	query := fmt.Sprintf(
		`SELECT seq, id, design_id, design_seq, kind, polarity, locus_path,
		        ramification, expression, is_additive, meta, created_at
		   FROM acts
		  WHERE %s
		  ORDER BY seq ASC
		  LIMIT ?`,
		strings.Join(where, " AND "),
	)
	params = append(params, req.PageSize+1)

	rows, err := s.sqlDB.QueryContext(ctx, query, params...)
	if err != nil {
		return storage.ActPage{}, fmt.Errorf("list acts: %w", err)
	}
	defer rows.Close()

	page := storage.ActPage{Acts: make([]storage.ActRecord, 0, req.PageSize)}
	var seqs []uint64
	for rows.Next() {
		record, seq, err := scanAct(rows)
		if err != nil {
			return storage.ActPage{}, fmt.Errorf("list acts: %w", err)
		}
		page.Acts = append(page.Acts, record)
		seqs = append(seqs, seq)
	}
	if err := rows.Err(); err != nil {
		return storage.ActPage{}, fmt.Errorf("list acts: %w", err)
	}

	if len(page.Acts) > req.PageSize {
		page.Acts = page.Acts[:req.PageSize]
		token, err := cursor.Encode(cursor.NewNextPageCursor(seqs[req.PageSize-1], false, req.Filter, ""))
		if err != nil {
			return storage.ActPage{}, fmt.Errorf("encode page token: %w", err)
		}
		page.NextPageToken = token
	}
	return page, nil
}

func scanAct(rows *sql.Rows) (storage.ActRecord, uint64, error) {
	var record storage.ActRecord
	var seq uint64
	var isAdditive int
	var meta string
	var createdAt int64
	err := rows.Scan(
		&seq,
		&record.ID,
		&record.DesignID,
		&record.Seq,
		&record.Kind,
		&record.Polarity,
		&record.LocusPath,
		&record.Ramification,
		&record.Expression,
		&isAdditive,
		&meta,
		&createdAt,
	)
	if err != nil {
		return storage.ActRecord{}, 0, err
	}
	record.IsAdditive = isAdditive != 0
	if meta != "" {
		if err := json.Unmarshal([]byte(meta), &record.Meta); err != nil {
			return storage.ActRecord{}, 0, fmt.Errorf("decode act meta: %w", err)
		}
	}
	record.CreatedAt = fromMillis(createdAt)
	return record, seq, nil
}
