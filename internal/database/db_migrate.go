package database

import (
	"database/sql"
	"fmt"
	"log"
)

// MigrationType names the database a migration file targets.
// Only the todo database exists, its files carry "main".
type MigrationType string

const (
	MigrationTypeMain MigrationType = "main"
)

// MigrationFile is one parsed file from migrations/
type MigrationFile struct {
	FileName    string
	Version     int
	Type        MigrationType
	Description string
	FilePath    string
}

const query_createSchemaMigrations = `CREATE TABLE IF NOT EXISTS schema_migrations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	filename TEXT NOT NULL UNIQUE,
	applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`

// Migrate applies every embedded migration not yet recorded in schema_migrations
func (db *Database) Migrate() error {
	if _, err := db.mainDB.Exec(query_createSchemaMigrations); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	migrations, err := getEmbeddedMigrationFiles()
	if err != nil {
		return err
	}

	done, err := db.AppliedMigrations()
	if err != nil {
		return err
	}
	applied := make(map[string]bool, len(done))
	for _, name := range done {
		applied[name] = true
	}

	for _, m := range migrations {
		if applied[m.FileName] {
			continue
		}
		if err := applyMigration(db.mainDB, m); err != nil {
			log.Printf("[DB] Failed to apply migration %s: %v", m.FileName, err)
			return err
		}
		log.Printf("[DB] Applied migration %s", m.FileName)
	}
	return nil
}

// applyMigration runs the file and records it inside one transaction
func applyMigration(conn *sql.DB, m *MigrationFile) error {
	content, err := readEmbeddedMigrationContent(m)
	if err != nil {
		return err
	}

	return retryableTransactionExec(conn, func(tx *sql.Tx) error {
		if _, err := tx.Exec(content); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", m.FileName, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (filename) VALUES (?)`, m.FileName); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", m.FileName, err)
		}
		return nil
	})
}

// AppliedMigrations lists the migration filenames recorded in the database
func (db *Database) AppliedMigrations() ([]string, error) {
	rows, err := retryableQuery(db.mainDB, `SELECT filename FROM schema_migrations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan migration filename: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
