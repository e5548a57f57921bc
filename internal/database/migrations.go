package database

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Migration is one versioned schema change read from the migrations
// directory. Files are named <version>_<title>.up.sql; the checksum
// covers the up SQL and guards applied migrations against edits.
type Migration struct {
	Version  string
	Title    string
	UpSQL    string
	Checksum string
}

// MigrationExecutor applies pending schema migrations in version order
type MigrationExecutor struct {
	db *sql.DB
}

// NewMigrationExecutor creates a migration executor for the given database
func NewMigrationExecutor(db *sql.DB) *MigrationExecutor {
	return &MigrationExecutor{db: db}
}

// RunMigrations applies every migration from the directory that has not
// been recorded in schema_migrations yet. Before applying anything it
// verifies that already applied migrations still match their recorded
// checksums.
func (m *MigrationExecutor) RunMigrations(migrationsPath string) error {
	if err := m.ensureMigrationsTable(); err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	migrations, err := readMigrationDir(migrationsPath)
	if err != nil {
		return fmt.Errorf("reading migrations from %s: %w", migrationsPath, err)
	}

	if err := m.verifyChecksums(migrations); err != nil {
		return err
	}

	applied, err := m.appliedVersions()
	if err != nil {
		return fmt.Errorf("loading applied migrations: %w", err)
	}

	for _, migration := range migrations {
		if applied[migration.Version] {
			continue
		}
		if err := m.apply(migration); err != nil {
			return fmt.Errorf("applying migration %s: %w", migration.Version, err)
		}
		slog.Info("migration applied", "version", migration.Version, "title", migration.Title)
	}
	return nil
}

func (m *MigrationExecutor) ensureMigrationsTable() error {
	_, err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			title VARCHAR(500),
			checksum VARCHAR(64),
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

// readMigrationDir collects the *.up.sql files of a directory as
// migrations sorted by version. Down files and anything else are
// ignored.
func readMigrationDir(dir string) ([]Migration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var migrations []Migration
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		version, rest, ok := strings.Cut(name, "_")
		if !ok {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}

		title := strings.TrimSuffix(rest, ".up.sql")
		title = strings.ReplaceAll(title, "_", " ")
		migrations = append(migrations, Migration{
			Version:  version,
			Title:    title,
			UpSQL:    string(content),
			Checksum: checksum(content),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// appliedVersions returns the versions recorded in schema_migrations
func (m *MigrationExecutor) appliedVersions() (map[string]bool, error) {
	rows, err := m.db.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

// apply runs one migration and records it, both inside a single
// transaction
func (m *MigrationExecutor) apply(migration Migration) error {
	tx, err := m.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			slog.Error("migration rollback failed", "version", migration.Version, "error", err)
		}
	}()

	if _, err := tx.Exec(migration.UpSQL); err != nil {
		return fmt.Errorf("migration SQL failed: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO schema_migrations (version, title, checksum) VALUES ($1, $2, $3)`,
		migration.Version, migration.Title, migration.Checksum,
	); err != nil {
		return fmt.Errorf("recording migration: %w", err)
	}
	return tx.Commit()
}

// verifyChecksums fails when a migration file no longer matches the
// checksum recorded at the time it was applied. Applied migrations must
// never be edited; schema changes go into a new migration.
func (m *MigrationExecutor) verifyChecksums(migrations []Migration) error {
	rows, err := m.db.Query(`SELECT version, checksum FROM schema_migrations WHERE checksum IS NOT NULL`)
	if err != nil {
		return err
	}
	defer rows.Close()

	recorded := make(map[string]string)
	for rows.Next() {
		var version, sum string
		if err := rows.Scan(&version, &sum); err != nil {
			return err
		}
		recorded[version] = sum
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, migration := range migrations {
		if sum, ok := recorded[migration.Version]; ok && sum != migration.Checksum {
			return fmt.Errorf(
				"migration %s (%s) was modified after being applied: recorded checksum %s, file checksum %s",
				migration.Version, migration.Title, sum, migration.Checksum,
			)
		}
	}
	return nil
}

func checksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}
