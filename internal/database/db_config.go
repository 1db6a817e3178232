package database

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// MemoryDSN opens a private in-memory database
const MemoryDSN = ":memory:"

// DBConfig represents database configuration
type DBConfig struct {
	// Path to the SQLite file, a file: URI or ":memory:"
	DSN string

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// Per-connection settings, passed to the driver in the DSN
	WALMode     bool   // Write-Ahead Logging
	SyncMode    string // OFF, NORMAL, FULL
	CacheSize   int    // negative: KiB, positive: pages
	BusyTimeout time.Duration
}

// DefaultDBConfig returns default database configuration
func DefaultDBConfig() (dbconfig *DBConfig) {
	return &DBConfig{
		DSN:             "data/todo.sq3",
		MaxOpenConns:    16,
		MaxIdleConns:    4,
		ConnMaxLifetime: 0, // Unlimited for SQLite - connections don't need to be recycled
		WALMode:         true,
		SyncMode:        "NORMAL",
		CacheSize:       -4096, // -4096 == 4MB cache
		BusyTimeout:     30 * time.Second,
	}
}

// MemoryDBConfig returns a configuration for a throwaway in-memory database.
// Every pooled connection to ":memory:" would see its own empty database,
// so the pool is pinned to a single connection.
func MemoryDBConfig() *DBConfig {
	cfg := DefaultDBConfig()
	cfg.DSN = MemoryDSN
	cfg.MaxOpenConns = 1
	cfg.MaxIdleConns = 1
	cfg.WALMode = false
	return cfg
}

// isMemoryDSN reports whether dsn points at an in-memory database
func isMemoryDSN(dsn string) bool {
	return dsn == MemoryDSN || strings.Contains(dsn, "mode=memory")
}

// dataDir returns the directory that has to exist before dsn can be opened,
// or "" when nothing needs to be created.
func dataDir(dsn string) string {
	if isMemoryDSN(dsn) {
		return ""
	}
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return ""
	}
	return dir
}

// sqliteDSN appends the go-sqlite3 connection parameters to cfg.DSN.
// The driver applies them on every new pooled connection.
// Parameters already present in cfg.DSN take precedence.
func sqliteDSN(cfg *DBConfig) string {
	params := url.Values{}
	params.Set("_busy_timeout", fmt.Sprintf("%d", cfg.BusyTimeout.Milliseconds()))
	params.Set("_foreign_keys", "on")
	if cfg.SyncMode != "" {
		params.Set("_synchronous", cfg.SyncMode)
	}
	if cfg.CacheSize != 0 {
		params.Set("_cache_size", fmt.Sprintf("%d", cfg.CacheSize))
	}
	if cfg.WALMode && !isMemoryDSN(cfg.DSN) {
		params.Set("_journal_mode", "WAL")
	}

	sep := "?"
	if strings.Contains(cfg.DSN, "?") {
		sep = "&"
	}
	return cfg.DSN + sep + params.Encode()
}
