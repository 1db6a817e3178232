// Package store defines the todo storage contract, picks a backend from the
// connection string and publishes the shared handle once it is connected.
package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-while/go-todoleaf/internal/config"
	"github.com/go-while/go-todoleaf/internal/database"
	"github.com/go-while/go-todoleaf/internal/models"
	"github.com/go-while/go-todoleaf/internal/mongostore"
)

// TodoStore is implemented by every backend. Lookups for update and delete
// match on Thing: SetCompleted touches the matching item with the highest id,
// DeleteTodo removes the first match in the backend's default order.
// Neither creates an item when nothing matches.
type TodoStore interface {
	ListTodos(ctx context.Context) ([]*models.TodoItem, error)
	CountRemaining(ctx context.Context) (int64, error)
	AddTodo(ctx context.Context, thing string) (*models.TodoItem, error)
	SetCompleted(ctx context.Context, thing string, completed bool) (int64, error)
	DeleteTodo(ctx context.Context, thing string) (int64, error)
	Purge(ctx context.Context) (int64, error)
	Close() error
}

var (
	_ TodoStore = (*database.Database)(nil)
	_ TodoStore = (*mongostore.Store)(nil)
)

// ErrNotReady is returned by Holder.Get before a store has been published
var ErrNotReady = errors.New("database not ready")

// Backend names reported by BackendFor
const (
	BackendSQLite = "sqlite"
	BackendMongo  = "mongodb"
)

// BackendFor picks the backend for a connection string
func BackendFor(dsn string) string {
	if strings.HasPrefix(dsn, "mongodb://") || strings.HasPrefix(dsn, "mongodb+srv://") {
		return BackendMongo
	}
	return BackendSQLite
}

// Open connects to the backend named by cfg.DSN
func Open(ctx context.Context, cfg config.DatabaseConfig) (TodoStore, error) {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = config.DefaultDSN
	}

	switch BackendFor(dsn) {
	case BackendMongo:
		dbName := cfg.DBName
		if dbName == "" {
			dbName = config.DefaultDBName
		}
		s, err := mongostore.Open(ctx, dsn, dbName)
		if err != nil {
			return nil, fmt.Errorf("failed to open mongodb store: %w", err)
		}
		log.Printf("[STORE] Connected to %s Database (mongodb)", dbName)
		return s, nil
	default:
		dbconfig := database.DefaultDBConfig()
		dbconfig.DSN = dsn
		if dsn == database.MemoryDSN {
			dbconfig = database.MemoryDBConfig()
		}
		db, err := database.OpenDatabase(dbconfig)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		log.Printf("[STORE] Connected to %s (sqlite)", dsn)
		return db, nil
	}
}
