package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Relations between runs.
const (
	// RelRevises links a revise run to the draft run it rewrote.
	RelRevises = "revises"
	// RelRelints links a lint run to the generated run whose output it checked.
	RelRelints = "relints"
	RelRelates = "relates_to"
)

// LinkParams holds parameters for creating/removing a link.
type LinkParams struct {
	FromID string
	ToID   string
	Rel    string
	Remove bool
}

// Link represents a relation between two runs.
type Link struct {
	FromID    string `json:"from_id"`
	ToID      string `json:"to_id"`
	Rel       string `json:"rel"`
	CreatedAt string `json:"created_at,omitempty"`
}

var validRels = map[string]bool{
	RelRevises: true,
	RelRelints: true,
	RelRelates: true,
}

// Link creates or removes a relation between two runs.
func (s *SQLiteStore) Link(ctx context.Context, p LinkParams) (*Link, error) {
	if !validRels[p.Rel] {
		return nil, fmt.Errorf("invalid relation %q (valid: revises, relints, relates_to)", p.Rel)
	}
	for _, id := range []string{p.FromID, p.ToID} {
		if err := s.requireRun(ctx, id); err != nil {
			return nil, err
		}
	}

	if p.Remove {
		_, err := s.db.ExecContext(ctx,
			`DELETE FROM run_links WHERE from_id = ? AND to_id = ? AND rel = ?`,
			p.FromID, p.ToID, p.Rel)
		if err != nil {
			return nil, err
		}
		return &Link{FromID: p.FromID, ToID: p.ToID, Rel: p.Rel}, nil
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO run_links (from_id, to_id, rel, created_at) VALUES (?, ?, ?, ?)`,
		p.FromID, p.ToID, p.Rel, now)
	if err != nil {
		return nil, err
	}
	return &Link{FromID: p.FromID, ToID: p.ToID, Rel: p.Rel, CreatedAt: now}, nil
}

// GetLinks returns all links touching a run.
func (s *SQLiteStore) GetLinks(ctx context.Context, runID string) ([]Link, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT from_id, to_id, rel, created_at FROM run_links
		 WHERE from_id = ? OR to_id = ? ORDER BY created_at`, runID, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []Link
	for rows.Next() {
		var l Link
		if err := rows.Scan(&l.FromID, &l.ToID, &l.Rel, &l.CreatedAt); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

func (s *SQLiteStore) requireRun(ctx context.Context, id string) error {
	var found string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM runs WHERE id = ?`, id).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return err
}
