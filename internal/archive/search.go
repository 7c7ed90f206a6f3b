// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"fmt"
	"strings"
)

// QueryOptions holds parameters for archive searches.
type QueryOptions struct {
	// Query is the full-text search string. Empty lists items by filter only.
	Query string

	// DigestID restricts hits to one digest.
	DigestID string

	// Page restricts hits to one source page. Zero matches every page.
	Page int

	// Kind restricts hits to extractive or abstractive sentences.
	Kind Kind

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// Hit is an archived summary sentence with its digest.
type Hit struct {
	DigestID string  `json:"digest_id" yaml:"digest_id"`
	Source   string  `json:"source" yaml:"source"`
	Kind     Kind    `json:"kind" yaml:"kind"`
	Position int     `json:"position" yaml:"position"`
	Text     string  `json:"text" yaml:"text"`
	Page     int     `json:"page" yaml:"page"`
	Score    float64 `json:"score" yaml:"score"`
}

// Search queries archived sentences with optional full-text matching and
// filters. Hits are ordered by ranking score, highest first, then by digest
// and position.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]Hit, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	if opts.Query != "" {
		qb.WriteString(
			`SELECT i.digest_id, d.source, i.kind, i.position, i.body, i.page, i.score
			FROM items_fts
			JOIN items i ON i.rowid = items_fts.docid
			JOIN digests d ON d.id = i.digest_id
			WHERE items_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT i.digest_id, d.source, i.kind, i.position, i.body, i.page, i.score
			FROM items i
			JOIN digests d ON d.id = i.digest_id
			WHERE 1=1`)
	}

	if opts.DigestID != "" {
		qb.WriteString(` AND i.digest_id = ?`)
		args = append(args, opts.DigestID)
	}
	if opts.Page > 0 {
		qb.WriteString(` AND i.page = ?`)
		args = append(args, opts.Page)
	}
	if opts.Kind != "" {
		qb.WriteString(` AND i.kind = ?`)
		args = append(args, string(opts.Kind))
	}

	qb.WriteString(` ORDER BY i.score DESC, d.created_at, i.digest_id, i.kind, i.position LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("searching archive: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		var kind string
		if err := rows.Scan(&h.DigestID, &h.Source, &kind, &h.Position, &h.Text, &h.Page, &h.Score); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		h.Kind = Kind(kind)
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
