package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/go-while/go-todoleaf/internal/models"
)

// setupTestDB opens a migrated in-memory database that is closed with the test.
func setupTestDB(t *testing.T) *Database {
	t.Helper()

	db, err := OpenDatabase(MemoryDBConfig())
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// addTestTodo is a helper that inserts an item and fails the test on error.
func addTestTodo(t *testing.T, db *Database, ctx context.Context, thing string) *models.TodoItem {
	t.Helper()

	item, err := db.AddTodo(ctx, thing)
	if err != nil {
		t.Fatalf("AddTodo(%q) failed: %v", thing, err)
	}
	return item
}

func mustList(t *testing.T, db *Database, ctx context.Context) []*models.TodoItem {
	t.Helper()

	items, err := db.ListTodos(ctx)
	if err != nil {
		t.Fatalf("ListTodos failed: %v", err)
	}
	return items
}

func mustLeft(t *testing.T, db *Database, ctx context.Context) int64 {
	t.Helper()

	left, err := db.CountRemaining(ctx)
	if err != nil {
		t.Fatalf("CountRemaining failed: %v", err)
	}
	return left
}

func TestDatabase_AddTodo(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	item := addTestTodo(t, db, ctx, "buy milk")
	if item.ID == "" {
		t.Error("expected an assigned ID")
	}
	if item.Completed {
		t.Error("expected new item to be pending")
	}

	items := mustList(t, db, ctx)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Thing != "buy milk" {
		t.Errorf("expected thing 'buy milk', got '%s'", items[0].Thing)
	}
	if items[0].Completed {
		t.Error("expected listed item to be pending")
	}
	if items[0].CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestDatabase_AddTodo_EmptyThing(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	addTestTodo(t, db, ctx, "")

	items := mustList(t, db, ctx)
	if len(items) != 1 || items[0].Thing != "" {
		t.Fatalf("expected a single item with empty thing, got %+v", items)
	}
}

func TestDatabase_ListTodos_Empty(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if items := mustList(t, db, ctx); len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
	if left := mustLeft(t, db, ctx); left != 0 {
		t.Errorf("expected 0 remaining, got %d", left)
	}
}

func TestDatabase_SetCompleted(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	addTestTodo(t, db, ctx, "walk dog")
	addTestTodo(t, db, ctx, "buy milk")
	if left := mustLeft(t, db, ctx); left != 2 {
		t.Fatalf("expected 2 remaining, got %d", left)
	}

	matched, err := db.SetCompleted(ctx, "buy milk", true)
	if err != nil {
		t.Fatalf("SetCompleted failed: %v", err)
	}
	if matched != 1 {
		t.Errorf("expected 1 matched row, got %d", matched)
	}
	if left := mustLeft(t, db, ctx); left != 1 {
		t.Errorf("expected 1 remaining after complete, got %d", left)
	}

	if _, err := db.SetCompleted(ctx, "buy milk", false); err != nil {
		t.Fatalf("SetCompleted(false) failed: %v", err)
	}
	if left := mustLeft(t, db, ctx); left != 2 {
		t.Errorf("expected 2 remaining after uncomplete, got %d", left)
	}
}

func TestDatabase_SetCompleted_NoMatchDoesNotUpsert(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	matched, err := db.SetCompleted(ctx, "ghost", true)
	if err != nil {
		t.Fatalf("SetCompleted failed: %v", err)
	}
	if matched != 0 {
		t.Errorf("expected 0 matched rows, got %d", matched)
	}
	if items := mustList(t, db, ctx); len(items) != 0 {
		t.Errorf("expected no items to be created, got %d", len(items))
	}
}

func TestDatabase_SetCompleted_DuplicatePicksHighestID(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	first := addTestTodo(t, db, ctx, "dup")
	second := addTestTodo(t, db, ctx, "dup")

	if _, err := db.SetCompleted(ctx, "dup", true); err != nil {
		t.Fatalf("SetCompleted failed: %v", err)
	}

	byID := make(map[string]*models.TodoItem)
	for _, item := range mustList(t, db, ctx) {
		byID[item.ID] = item
	}
	if byID[first.ID].Completed {
		t.Errorf("expected older duplicate %s to stay pending", first.ID)
	}
	if !byID[second.ID].Completed {
		t.Errorf("expected newest duplicate %s to be completed", second.ID)
	}
	if left := mustLeft(t, db, ctx); left != 1 {
		t.Errorf("expected 1 remaining, got %d", left)
	}
}

func TestDatabase_DeleteTodo(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	addTestTodo(t, db, ctx, "keep")
	addTestTodo(t, db, ctx, "drop")

	deleted, err := db.DeleteTodo(ctx, "drop")
	if err != nil {
		t.Fatalf("DeleteTodo failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted row, got %d", deleted)
	}

	items := mustList(t, db, ctx)
	if len(items) != 1 || items[0].Thing != "keep" {
		t.Errorf("expected only 'keep' to remain, got %+v", items)
	}

	deleted, err = db.DeleteTodo(ctx, "drop")
	if err != nil {
		t.Fatalf("second DeleteTodo failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected nothing deleted on second call, got %d", deleted)
	}
}

func TestDatabase_DeleteTodo_DuplicateRemovesLowestID(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	first := addTestTodo(t, db, ctx, "dup")
	second := addTestTodo(t, db, ctx, "dup")

	if _, err := db.DeleteTodo(ctx, "dup"); err != nil {
		t.Fatalf("DeleteTodo failed: %v", err)
	}

	items := mustList(t, db, ctx)
	if len(items) != 1 {
		t.Fatalf("expected exactly one duplicate left, got %d", len(items))
	}
	if items[0].ID != second.ID {
		t.Errorf("expected %s (newest) to survive, got %s; %s should be gone", second.ID, items[0].ID, first.ID)
	}
}

func TestDatabase_RemainingMatchesList(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for _, thing := range []string{"a", "b", "c", "d"} {
		addTestTodo(t, db, ctx, thing)
	}
	for _, thing := range []string{"b", "d"} {
		if _, err := db.SetCompleted(ctx, thing, true); err != nil {
			t.Fatalf("SetCompleted(%q) failed: %v", thing, err)
		}
	}

	items := mustList(t, db, ctx)
	if got, want := mustLeft(t, db, ctx), models.Remaining(items); got != want {
		t.Errorf("CountRemaining=%d but list has %d pending items", got, want)
	}
}

func TestDatabase_Purge(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	addTestTodo(t, db, ctx, "a")
	addTestTodo(t, db, ctx, "b")

	n, err := db.Purge(ctx)
	if err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 purged rows, got %d", n)
	}
	if items := mustList(t, db, ctx); len(items) != 0 {
		t.Errorf("expected empty list after purge, got %d", len(items))
	}
}

func TestOpenDatabase_FileMigratesOnce(t *testing.T) {
	cfg := DefaultDBConfig()
	cfg.DSN = filepath.Join(t.TempDir(), "sub", "todo.sq3")

	db, err := OpenDatabase(cfg)
	if err != nil {
		t.Fatalf("OpenDatabase failed: %v", err)
	}
	addTestTodo(t, db, context.Background(), "persisted")
	if err := db.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !db.IsDBshutdown() {
		t.Error("expected database to report shutdown")
	}

	db, err = OpenDatabase(cfg)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer db.Close()

	names, err := db.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations failed: %v", err)
	}
	if len(names) != 2 {
		t.Errorf("expected 2 recorded migrations, got %v", names)
	}

	items := mustList(t, db, context.Background())
	if len(items) != 1 || items[0].Thing != "persisted" {
		t.Errorf("expected persisted item after reopen, got %+v", items)
	}
}
