// Package storage provides the key-value table the todo gateway reads and
// writes, with DynamoDB and SQLite backends.
package storage

import (
	"context"
	"errors"

	"todo-api/models"
)

// ErrMissingKey indicates a primitive was called without an item id.
var ErrMissingKey = errors.New("item id is required")

// Table is the storage collaborator behind the gateway. Every gateway
// operation maps to exactly one of these calls.
type Table interface {
	// Scan returns every item in the table, in no particular order.
	Scan(ctx context.Context) ([]models.Task, error)
	// PutItem writes the task, replacing any item with the same id.
	PutItem(ctx context.Context, task models.Task) error
	// UpdateItem sets title and completed on the item keyed by id. It does
	// not check that the item exists.
	UpdateItem(ctx context.Context, id, title string, completed bool) error
	// DeleteItem removes the item keyed by id. Missing items are not an error.
	DeleteItem(ctx context.Context, id string) error
	Close() error
}

func requireKey(id string) error {
	if id == "" {
		return ErrMissingKey
	}
	return nil
}
