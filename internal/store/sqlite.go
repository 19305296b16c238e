package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/writer-harness/internal/model"
)

// ErrNotFound is returned when a run ID does not exist.
var ErrNotFound = errors.New("run not found")

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID(now time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(now), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id               TEXT PRIMARY KEY,
		kind             TEXT NOT NULL,
		scene            TEXT NOT NULL DEFAULT '',
		source           TEXT NOT NULL DEFAULT '',
		provider         TEXT,
		model            TEXT,
		version          INTEGER NOT NULL DEFAULT 1,
		supersedes       TEXT,
		style_count      INTEGER NOT NULL DEFAULT 0,
		continuity_count INTEGER NOT NULL DEFAULT 0,
		created_at       TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_scene_kind ON runs(scene, kind);
	CREATE INDEX IF NOT EXISTS idx_runs_kind ON runs(kind);

	CREATE TABLE IF NOT EXISTS violations (
		run_id   TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		seq      INTEGER NOT NULL,
		category TEXT NOT NULL,
		severity TEXT NOT NULL,
		message  TEXT NOT NULL,
		line     INTEGER,
		context  TEXT,
		PRIMARY KEY (run_id, seq)
	);
	CREATE INDEX IF NOT EXISTS idx_violations_message ON violations(message);

	CREATE TABLE IF NOT EXISTS run_links (
		from_id    TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		to_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		rel        TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (from_id, to_id, rel)
	);
	CREATE INDEX IF NOT EXISTS idx_run_links_to ON run_links(to_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Record(ctx context.Context, p RecordParams) (*model.Run, error) {
	if !p.Kind.Valid() {
		return nil, fmt.Errorf("invalid run kind %q", p.Kind)
	}

	now := time.Now().UTC()
	run := &model.Run{
		ID:              s.newID(now),
		Kind:            p.Kind,
		Scene:           p.Scene,
		Source:          p.Source,
		Provider:        p.Provider,
		Model:           p.Model,
		StyleCount:      len(p.Style),
		ContinuityCount: len(p.Continuity),
		CreatedAt:       now,
	}
	run.Violations = append(append(run.Violations, p.Style...), p.Continuity...)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Version against the latest run of the same kind for the same scene.
	run.Version = 1
	if p.Scene != "" {
		var prevID string
		var prevVersion int
		err = tx.QueryRowContext(ctx,
			`SELECT id, version FROM runs
			 WHERE scene = ? AND kind = ?
			 ORDER BY version DESC LIMIT 1`, p.Scene, p.Kind).Scan(&prevID, &prevVersion)
		if err == nil {
			run.Version = prevVersion + 1
			run.Supersedes = prevID
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("find previous run: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, kind, scene, source, provider, model, version, supersedes, style_count, continuity_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Kind, run.Scene, run.Source, nullString(run.Provider), nullString(run.Model),
		run.Version, nullString(run.Supersedes), run.StyleCount, run.ContinuityCount,
		now.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	for i, v := range run.Violations {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO violations (run_id, seq, category, severity, message, line, context)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID, i, v.Category, v.Severity, v.Message, v.Line, nullString(v.Context))
		if err != nil {
			return nil, fmt.Errorf("insert violation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return run, nil
}

const runColumns = `r.id, r.kind, r.scene, r.source, r.provider, r.model, r.version, r.supersedes,
	r.style_count, r.continuity_count, r.created_at`

func (s *SQLiteStore) Get(ctx context.Context, id string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs r WHERE r.id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	run.Violations, err = s.violations(ctx, id)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (s *SQLiteStore) violations(ctx context.Context, runID string) ([]model.Violation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, severity, message, line, context FROM violations
		 WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vs []model.Violation
	for rows.Next() {
		v, err := scanViolation(rows)
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	return vs, rows.Err()
}

func (s *SQLiteStore) List(ctx context.Context, p ListParams) ([]model.Run, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	where := []string{"1 = 1"}
	args := []interface{}{}
	if p.Scene != "" {
		where = append(where, "r.scene = ?")
		args = append(args, p.Scene)
	}
	if p.Kind != "" {
		where = append(where, "r.kind = ?")
		args = append(args, p.Kind)
	}

	query := fmt.Sprintf(`SELECT %s FROM runs r WHERE %s ORDER BY r.id DESC LIMIT ?`,
		runColumns, strings.Join(where, " AND "))
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanRun scans the runColumns followed by any extra destinations.
func scanRun(row scanner, extra ...interface{}) (model.Run, error) {
	var r model.Run
	var provider, modelName, supersedes sql.NullString
	var createdAt string

	dest := []interface{}{
		&r.ID, &r.Kind, &r.Scene, &r.Source, &provider, &modelName,
		&r.Version, &supersedes, &r.StyleCount, &r.ContinuityCount, &createdAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return r, err
	}

	r.Provider = provider.String
	r.Model = modelName.String
	r.Supersedes = supersedes.String
	r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return r, nil
}

// violationRow holds the nullable columns of a violations row.
type violationRow struct {
	v       model.Violation
	line    sql.NullInt64
	context sql.NullString
}

func (vr *violationRow) dest() []interface{} {
	return []interface{}{&vr.v.Category, &vr.v.Severity, &vr.v.Message, &vr.line, &vr.context}
}

func (vr *violationRow) violation() model.Violation {
	v := vr.v
	if vr.line.Valid {
		n := int(vr.line.Int64)
		v.Line = &n
	}
	v.Context = vr.context.String
	return v
}

func scanViolation(row scanner) (model.Violation, error) {
	var vr violationRow
	if err := row.Scan(vr.dest()...); err != nil {
		return model.Violation{}, err
	}
	return vr.violation(), nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
