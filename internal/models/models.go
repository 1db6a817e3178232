// Package models defines core data structures for go-todoleaf
package models

import (
	"time"
)

// TodoItem is the single persisted entity: a text label plus completion flag.
// Thing acts as the lookup key for update and delete; ID is assigned by the
// backend and only used for ordering.
type TodoItem struct {
	ID        string    `json:"id" db:"id" bson:"-"`
	Thing     string    `json:"thing" db:"thing" bson:"thing"`
	Completed bool      `json:"completed" db:"completed" bson:"completed"`
	CreatedAt time.Time `json:"created_at" db:"created_at" bson:"createdAt"`
}

// ListPage holds what the list page shows: every item and how many are still open
type ListPage struct {
	Items []*TodoItem
	Left  int64
}

// Remaining counts items with Completed == false
func Remaining(items []*TodoItem) int64 {
	var n int64
	for _, item := range items {
		if !item.Completed {
			n++
		}
	}
	return n
}

// ItemRequest is the JSON body sent by the browser script for
// markComplete, markUnComplete and deleteItem.
// ItemFromJS is a pointer so an empty label is still accepted.
type ItemRequest struct {
	ItemFromJS *string `json:"itemFromJS" binding:"required"`
}

// Acknowledgment strings returned as JSON by the update and delete routes
const (
	AckMarkedComplete = "Marked Complete"
	AckTodoDeleted    = "Todo Deleted"
)
