package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const runColumns = "id, source_name, content_type, target_language, provider, model, segments, chunks_total, chunks_done, status, error_message, started_at, finished_at"

// ErrNotFound is returned when a run ID has no row.
var ErrNotFound = errors.New("run not found")

// Store persists the run ledger in SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dataSourceName(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	store := &Store{db: db, path: path, now: time.Now}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// dataSourceName applies WAL and a busy timeout on every pooled connection,
// so a CLI run and the API server can share one ledger.
func dataSourceName(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Begin inserts a running row and returns its ID. A fresh UUID is assigned
// when run.ID is empty.
func (s *Store) Begin(ctx context.Context, run Run) (string, error) {
	id := strings.TrimSpace(run.ID)
	if id == "" {
		id = uuid.NewString()
	}
	started := run.StartedAt
	if started.IsZero() {
		started = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (
            id, source_name, content_type, target_language, provider, model,
            segments, chunks_total, chunks_done, status, started_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		id,
		nullableString(run.SourceName),
		run.ContentType,
		run.TargetLanguage,
		run.Provider,
		nullableString(run.Model),
		run.Segments,
		run.ChunksTotal,
		StatusRunning,
		formatTime(started),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// Progress records the number of completed chunks for a running row.
func (s *Store) Progress(ctx context.Context, id string, chunksDone int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET chunks_done = ? WHERE id = ? AND status = ?`,
		chunksDone, id, StatusRunning,
	)
	if err != nil {
		return fmt.Errorf("update run progress: %w", err)
	}
	return expectRow(res, id)
}

// Finish closes a run. A nil runErr marks it completed; otherwise the error
// text is stored verbatim and the run is marked failed.
func (s *Store) Finish(ctx context.Context, id string, chunksDone int, runErr error) error {
	status := StatusCompleted
	var message any
	if runErr != nil {
		status = StatusFailed
		message = runErr.Error()
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET chunks_done = ?, status = ?, error_message = ?, finished_at = ? WHERE id = ?`,
		chunksDone, status, message, formatTime(s.now()), id,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return expectRow(res, id)
}

// Get fetches one run.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// List returns the most recent runs first. A non-positive limit returns all rows.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC, rowid DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// MarkInterrupted fails every row still marked running. Called at startup so
// runs cut short by a crash or kill do not linger as running forever.
func (s *Store) MarkInterrupted(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, error_message = ?, finished_at = ? WHERE status = ?`,
		StatusFailed, "interrupted before completion", formatTime(s.now()), StatusRunning,
	)
	if err != nil {
		return 0, fmt.Errorf("mark interrupted runs: %w", err)
	}
	return res.RowsAffected()
}

// Prune removes finished runs that started before cutoff.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM runs WHERE status != ? AND started_at < ?`,
		StatusRunning, formatTime(cutoff),
	)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return res.RowsAffected()
}

func expectRow(res sql.Result, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
