package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/spotidump/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/spotidump/internal/core/domain"
	"github.com/custodia-labs/spotidump/internal/core/ports/driven"
)

// FileName is the journal database file name inside the dump directory.
const FileName = ".spotidump.db"

// Store is a SQLite database holding the run journal.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the journal database in dir.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("journal directory is empty")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	dbPath := filepath.Join(dir, FileName)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Journal returns the run journal backed by this store.
func (s *Store) Journal() driven.Journal {
	return &journal{store: s}
}

// migrate applies every .up.sql migration newer than the recorded version.
func (s *Store) migrate(fsys fs.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_journal.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Journal ====================

// journal implements driven.Journal.
type journal struct {
	store *Store
}

var _ driven.Journal = (*journal)(nil)

// Done reports whether the unit was recorded as finished.
func (j *journal) Done(ctx context.Context, op domain.Operation, key string) (bool, error) {
	var n int
	err := j.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM journal WHERE operation = ? AND unit = ?",
		string(op), key,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query journal: %w", err)
	}
	return n > 0, nil
}

// Mark records the unit as finished.
func (j *journal) Mark(ctx context.Context, op domain.Operation, key string) error {
	_, err := j.store.db.ExecContext(ctx, `
		INSERT INTO journal (operation, unit) VALUES (?, ?)
		ON CONFLICT(operation, unit) DO UPDATE SET finished_at = CURRENT_TIMESTAMP
	`, string(op), key)
	if err != nil {
		return fmt.Errorf("mark journal: %w", err)
	}
	return nil
}

// Reset forgets every unit recorded for the operation.
func (j *journal) Reset(ctx context.Context, op domain.Operation) error {
	if _, err := j.store.db.ExecContext(ctx, "DELETE FROM journal WHERE operation = ?", string(op)); err != nil {
		return fmt.Errorf("reset journal: %w", err)
	}
	return nil
}
