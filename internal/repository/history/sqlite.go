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

	// SQLite driver registration.
	_ "modernc.org/sqlite"

	domain "github.com/kidevu123/expense-release/internal/domain/release"
)

// Entry is one row of the release audit log.
type Entry struct {
	// ID is assigned by the database on insert.
	ID int64
	// Version is the semantic version string, e.g. "1.2.3".
	Version string
	// Build is the monotonic build counter at release time.
	Build int
	// Kind is the bump kind that produced this release.
	Kind domain.Kind
	// Commit is the short hash the release tag points at.
	Commit string
	// Tag is the created git tag, e.g. "v1.2.3".
	Tag string
	// Message is the tag annotation supplied by the operator.
	Message string
	// ReleasedAt is when the release was cut.
	ReleasedAt time.Time
}

// Repository records and lists past releases.
type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	List(ctx context.Context, limit int) ([]*Entry, error)
	Close() error
}

// errEntryIsNotSet is returned when a nil entry is appended.
var errEntryIsNotSet = errors.New("history entry is not set")

const schema = `
CREATE TABLE IF NOT EXISTS releases (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	version     TEXT NOT NULL,
	build       INTEGER NOT NULL,
	kind        TEXT NOT NULL,
	commit_hash TEXT NOT NULL,
	tag         TEXT NOT NULL,
	message     TEXT NOT NULL DEFAULT '',
	released_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_releases_released_at ON releases (released_at DESC);
`

// service is the SQLite-backed implementation of Repository.
type service struct {
	db   *sql.DB
	path string
}

// NewService opens (and migrates) the release history database at dbPath.
// A leading "~" is expanded to the operator's home directory.
func NewService(dbPath string) (Repository, error) {
	resolved, err := resolvePath(dbPath)
	if err != nil {
		return nil, err
	}

	if err = os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", resolved)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	// modernc.org/sqlite misbehaves with more than one writer connection.
	db.SetMaxOpenConns(1)

	if _, err = db.Exec(schema); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("migrate history schema: %w", err)
	}

	return &service{db: db, path: resolved}, nil
}

// Append inserts one release row.
func (s *service) Append(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return errEntryIsNotSet
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO releases (version, build, kind, commit_hash, tag, message, released_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.Version, entry.Build, string(entry.Kind), entry.Commit, entry.Tag, entry.Message,
		entry.ReleasedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert release: %w", err)
	}

	entry.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("release row id: %w", err)
	}

	return nil
}

// List returns the most recent releases, newest first.
// A non-positive limit returns everything.
func (s *service) List(ctx context.Context, limit int) ([]*Entry, error) {
	query := `
		SELECT id, version, build, kind, commit_hash, tag, message, released_at
		FROM releases
		ORDER BY released_at DESC, id DESC
	`

	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"

		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query releases: %w", err)
	}

	defer func() {
		_ = rows.Close()
	}()

	var entries []*Entry

	for rows.Next() {
		var (
			entry      Entry
			kind       string
			releasedAt string
		)

		if err = rows.Scan(
			&entry.ID, &entry.Version, &entry.Build, &kind,
			&entry.Commit, &entry.Tag, &entry.Message, &releasedAt,
		); err != nil {
			return nil, fmt.Errorf("scan release row: %w", err)
		}

		entry.Kind = domain.Kind(kind)

		entry.ReleasedAt, err = time.Parse(time.RFC3339, releasedAt)
		if err != nil {
			return nil, fmt.Errorf("parse release timestamp %q: %w", releasedAt, err)
		}

		entries = append(entries, &entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate release rows: %w", err)
	}

	return entries, nil
}

// Close releases the underlying database handle.
func (s *service) Close() error {
	return s.db.Close()
}

// resolvePath expands "~" and cleans the database path.
func resolvePath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", errors.New("history database path is empty")
	}

	if strings.HasPrefix(p, "~/") || p == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}

		if p == "~" {
			p = home
		} else {
			p = filepath.Join(home, p[2:])
		}
	}

	return filepath.Clean(p), nil
}
