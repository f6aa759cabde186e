// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/ssrn-abstracts/pkg/types"
)

// Hit is a search result. Rank is the FTS5 bm25 rank (lower is better),
// or zero for substring matches.
type Hit struct {
	types.Abstract
	Rank float64 `json:"rank" yaml:"rank"`
}

// Search returns abstracts matching query over title and abstract text.
// With FTS5 every whitespace-separated term must match, and results are
// ranked by relevance; without it, results are substring matches ordered
// by ID. A limit of zero uses the store default.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query is empty")
	}
	if limit <= 0 {
		limit = s.maxResults
	}

	var (
		stmt string
		args []any
	)
	if s.fts {
		stmt = `SELECT a.abstract_id, a.title, a.url, a.abstract, abstracts_fts.rank
			FROM abstracts_fts
			JOIN abstracts a ON a.rowid = abstracts_fts.rowid
			WHERE abstracts_fts MATCH ?
			ORDER BY abstracts_fts.rank
			LIMIT ?`
		args = []any{matchExpr(query), limit}
	} else {
		pattern := "%" + query + "%"
		stmt = `SELECT abstract_id, title, url, abstract, 0
			FROM abstracts
			WHERE title LIKE ? OR abstract LIKE ?
			ORDER BY abstract_id
			LIMIT ?`
		args = []any{pattern, pattern, limit}
	}

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("searching abstracts: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		if err := rows.Scan(&h.AbstractID, &h.Title, &h.URL, &h.Abstract.Abstract, &h.Rank); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// matchExpr quotes each term of query as an FTS5 string so punctuation
// such as "COVID-19" is matched as text rather than parsed as syntax.
// Adjacent strings are ANDed by FTS5.
func matchExpr(query string) string {
	terms := strings.Fields(query)
	for i, t := range terms {
		terms[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	return strings.Join(terms, " ")
}
