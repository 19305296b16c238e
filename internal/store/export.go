package store

import (
	"context"

	"github.com/rcliao/writer-harness/internal/model"
)

// ExportAll returns every run with its violations, oldest first, optionally
// filtered by scene.
func (s *SQLiteStore) ExportAll(ctx context.Context, scene string) ([]model.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs r`
	args := []interface{}{}
	if scene != "" {
		query += ` WHERE r.scene = ?`
		args = append(args, scene)
	}
	query += ` ORDER BY r.id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	var runs []model.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		runs = append(runs, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		runs[i].Violations, err = s.violations(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return runs, nil
}

// Import records runs from an export. Each run gets a new ID and version;
// violations are split back into style and continuity by category.
func (s *SQLiteStore) Import(ctx context.Context, runs []model.Run) (int, error) {
	imported := 0
	for _, r := range runs {
		p := RecordParams{
			Kind:     r.Kind,
			Scene:    r.Scene,
			Source:   r.Source,
			Provider: r.Provider,
			Model:    r.Model,
		}
		for _, v := range r.Violations {
			if v.Category == model.CategoryContinuity {
				p.Continuity = append(p.Continuity, v)
			} else {
				p.Style = append(p.Style, v)
			}
		}
		if _, err := s.Record(ctx, p); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}
