package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/rcliao/writer-harness/internal/model"
)

// SearchParams holds parameters for searching recorded violations.
type SearchParams struct {
	Query string
	Kind  model.RunKind
	Limit int
}

// SearchResult is a run with the first of its violations that matched.
type SearchResult struct {
	model.Run
	Match model.Violation `json:"match"`
}

// Search finds runs with a violation whose message or context contains the
// query substring, newest first.
func (s *SQLiteStore) Search(ctx context.Context, p SearchParams) ([]SearchResult, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	query := "%" + p.Query + "%"
	where := []string{"(v.message LIKE ? OR v.context LIKE ?)"}
	args := []interface{}{query, query}
	if p.Kind != "" {
		where = append(where, "r.kind = ?")
		args = append(args, p.Kind)
	}

	sql := fmt.Sprintf(`
		SELECT %s, v.category, v.severity, v.message, v.line, v.context
		FROM violations v
		INNER JOIN runs r ON r.id = v.run_id
		WHERE %s
		ORDER BY r.id DESC, v.seq`, runColumns, strings.Join(where, " AND "))

	rows, err := s.db.QueryContext(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SearchResult
	seen := map[string]bool{}
	for rows.Next() {
		var vr violationRow
		run, err := scanRun(rows, vr.dest()...)
		if err != nil {
			return nil, err
		}
		if seen[run.ID] {
			continue
		}
		seen[run.ID] = true
		results = append(results, SearchResult{Run: run, Match: vr.violation()})
		if len(results) == limit {
			break
		}
	}
	return results, rows.Err()
}
