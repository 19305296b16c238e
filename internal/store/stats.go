package store

import (
	"context"
	"os"
)

// Stats holds run history statistics.
type Stats struct {
	DBPath          string         `json:"db_path"`
	DBSizeBytes     int64          `json:"db_size_bytes"`
	TotalRuns       int            `json:"total_runs"`
	TotalViolations int            `json:"total_violations"`
	Kinds           []KindStats    `json:"kinds"`
	TopMessages     []MessageStats `json:"top_messages"`
}

// KindStats holds per-kind counts.
type KindStats struct {
	Kind       string `json:"kind"`
	Runs       int    `json:"runs"`
	Violations int    `json:"violations"`
}

// MessageStats counts how often a violation message was recorded.
type MessageStats struct {
	Category string `json:"category"`
	Message  string `json:"message"`
	Count    int    `json:"count"`
}

// topMessageLimit bounds Stats.TopMessages.
const topMessageLimit = 10

// Stats returns history statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&st.TotalRuns)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM violations`).Scan(&st.TotalViolations)

	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, COUNT(*) AS cnt, SUM(style_count + continuity_count)
		FROM runs GROUP BY kind ORDER BY cnt DESC, kind`)
	if err != nil {
		return st, err
	}
	defer rows.Close()
	for rows.Next() {
		var k KindStats
		if err := rows.Scan(&k.Kind, &k.Runs, &k.Violations); err != nil {
			return st, err
		}
		st.Kinds = append(st.Kinds, k)
	}
	if err := rows.Err(); err != nil {
		return st, err
	}

	msgRows, err := s.db.QueryContext(ctx, `
		SELECT category, message, COUNT(*) AS cnt
		FROM violations GROUP BY category, message
		ORDER BY cnt DESC, message LIMIT ?`, topMessageLimit)
	if err != nil {
		return st, err
	}
	defer msgRows.Close()
	for msgRows.Next() {
		var m MessageStats
		if err := msgRows.Scan(&m.Category, &m.Message, &m.Count); err != nil {
			return st, err
		}
		st.TopMessages = append(st.TopMessages, m)
	}
	return st, msgRows.Err()
}
