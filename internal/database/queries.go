package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-while/go-todoleaf/internal/models"
)

// --- Todo Queries ---

// ListTodos returns all todo items in insert order
const query_ListTodos = `SELECT id, thing, completed, created_at FROM todos ORDER BY id ASC`

func (db *Database) ListTodos(ctx context.Context) ([]*models.TodoItem, error) {
	rows, err := retryableQueryContext(ctx, db.mainDB, query_ListTodos)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer rows.Close()

	var items []*models.TodoItem
	for rows.Next() {
		var item models.TodoItem
		var id int64
		var completedInt int

		if err := rows.Scan(&id, &item.Thing, &completedInt, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan todo row: %w", err)
		}

		item.ID = strconv.FormatInt(id, 10)
		item.Completed = completedInt == 1
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todo rows: %w", err)
	}

	return items, nil
}

// CountRemaining returns the number of items not yet completed
const query_CountRemaining = `SELECT COUNT(*) FROM todos WHERE completed = 0`

func (db *Database) CountRemaining(ctx context.Context) (int64, error) {
	var left int64
	if err := retryableQueryRowScanContext(ctx, db.mainDB, query_CountRemaining, nil, &left); err != nil {
		return 0, fmt.Errorf("failed to count remaining todos: %w", err)
	}
	return left, nil
}

// AddTodo inserts a new item with completed = false
const query_AddTodo = `INSERT INTO todos (thing, completed, created_at) VALUES (?, 0, ?)`

func (db *Database) AddTodo(ctx context.Context, thing string) (*models.TodoItem, error) {
	now := time.Now().UTC()
	result, err := retryableExecContext(ctx, db.mainDB, query_AddTodo, thing, now)
	if err != nil {
		return nil, fmt.Errorf("failed to add todo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert ID for todo: %w", err)
	}

	return &models.TodoItem{
		ID:        strconv.FormatInt(id, 10),
		Thing:     thing,
		Completed: false,
		CreatedAt: now,
	}, nil
}

// SetCompleted flips the completed flag on the newest item whose thing matches.
// Nothing is inserted when there is no match.
const query_SetCompleted = `UPDATE todos SET completed = ?
			  WHERE id = (SELECT id FROM todos WHERE thing = ? ORDER BY id DESC LIMIT 1)`

func (db *Database) SetCompleted(ctx context.Context, thing string, completed bool) (int64, error) {
	result, err := retryableExecContext(ctx, db.mainDB, query_SetCompleted, boolToInt(completed), thing)
	if err != nil {
		return 0, fmt.Errorf("failed to set completed=%t for todo: %w", completed, err)
	}
	matched, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected for todo update: %w", err)
	}
	return matched, nil
}

// DeleteTodo removes the first item in default (ascending id) order whose thing matches
const query_DeleteTodo = `DELETE FROM todos
			  WHERE id = (SELECT id FROM todos WHERE thing = ? ORDER BY id ASC LIMIT 1)`

func (db *Database) DeleteTodo(ctx context.Context, thing string) (int64, error) {
	result, err := retryableExecContext(ctx, db.mainDB, query_DeleteTodo, thing)
	if err != nil {
		return 0, fmt.Errorf("failed to delete todo: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected for todo delete: %w", err)
	}
	return deleted, nil
}

// Purge removes every item
const query_Purge = `DELETE FROM todos`

func (db *Database) Purge(ctx context.Context) (int64, error) {
	result, err := retryableExecContext(ctx, db.mainDB, query_Purge)
	if err != nil {
		return 0, fmt.Errorf("failed to purge todos: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected for purge: %w", err)
	}
	return n, nil
}
