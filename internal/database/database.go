// Package database provides the SQLite backed todo store for go-todoleaf
package database

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver
)

// Database represents the main database connection
type Database struct {
	mainDB *sql.DB

	// Database configuration
	dbconfig *DBConfig

	mux      sync.Mutex
	shutdown bool
}

// OpenDatabase opens the SQLite database and runs migrations
func OpenDatabase(dbconfig *DBConfig) (*Database, error) {
	if dbconfig == nil {
		dbconfig = DefaultDBConfig()
	}

	db := &Database{
		dbconfig: dbconfig,
	}

	if err := db.initMainDB(); err != nil {
		return nil, fmt.Errorf("failed to initialize main database: %w", err)
	}

	// Run migrations to ensure all tables exist
	if err := db.Migrate(); err != nil {
		if cerr := db.mainDB.Close(); cerr != nil {
			log.Printf("[DB] failed to close database after migration error: %v", cerr)
		}
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	log.Printf("[DB] Database initialized: dsn=%s wal=%t", dbconfig.DSN, dbconfig.WALMode)
	return db, nil
}

// initMainDB initializes the main database connection
func (db *Database) initMainDB() error {
	dsn := db.dbconfig.DSN
	log.Printf("[DB] Initializing main database at: %s", dsn)

	// Create data directory if it doesn't exist
	if dir := dataDir(dsn); dir != "" {
		if err := createDirIfNotExists(dir); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	mainDB, err := sql.Open("sqlite3", sqliteDSN(db.dbconfig))
	if err != nil {
		return fmt.Errorf("failed to open main database: %w", err)
	}

	// Configure connection pool
	mainDB.SetMaxOpenConns(db.dbconfig.MaxOpenConns)
	mainDB.SetMaxIdleConns(db.dbconfig.MaxIdleConns)
	mainDB.SetConnMaxLifetime(db.dbconfig.ConnMaxLifetime)

	// Test connection
	if err := mainDB.Ping(); err != nil {
		if cerr := mainDB.Close(); cerr != nil {
			return fmt.Errorf("failed to ping main database: %w; also failed to close mainDB: %v", err, cerr)
		}
		return fmt.Errorf("failed to ping main database: %w", err)
	}

	db.mainDB = mainDB
	return nil
}

// IsDBshutdown reports whether Close has been called
func (db *Database) IsDBshutdown() bool {
	if db == nil {
		return true
	}
	db.mux.Lock()
	defer db.mux.Unlock()
	return db.shutdown
}

// Close closes the database. Calling it twice is a no-op.
func (db *Database) Close() error {
	db.mux.Lock()
	defer db.mux.Unlock()
	if db.shutdown {
		return nil
	}
	db.shutdown = true

	if db.dbconfig.WALMode && !isMemoryDSN(db.dbconfig.DSN) {
		if _, err := db.mainDB.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
			log.Printf("[DB] Warning: WAL checkpoint failed: %v", err)
		}
	}
	if err := db.mainDB.Close(); err != nil {
		return fmt.Errorf("failed to close main database: %w", err)
	}
	log.Printf("[DB] Database closed: %s", db.dbconfig.DSN)
	return nil
}
