package storage

import (
	"context"
	"fmt"

	"todo-api/models"
)

// Scan retrieves all todos. A row that fails to decode fails the whole scan.
func (t *SQLiteTable) Scan(ctx context.Context) ([]models.Task, error) {
	rows, err := t.db.QueryContext(ctx, `SELECT id, title, completed FROM todos`)
	if err != nil {
		return nil, fmt.Errorf("scan todos: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(&task.ID, &task.Title, &task.Completed); err != nil {
			return nil, fmt.Errorf("scan todo row: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate todos: %w", err)
	}
	return tasks, nil
}

// PutItem inserts the task, overwriting any row with the same id.
func (t *SQLiteTable) PutItem(ctx context.Context, task models.Task) error {
	if err := requireKey(task.ID); err != nil {
		return err
	}
	query := `
	INSERT OR REPLACE INTO todos (id, title, completed)
	VALUES (?, ?, ?)
	`
	if _, err := t.db.ExecContext(ctx, query, task.ID, task.Title, task.Completed); err != nil {
		return fmt.Errorf("put todo %s: %w", task.ID, err)
	}
	return nil
}

// UpdateItem sets title and completed for id. Like DynamoDB's UpdateItem, an
// unknown id produces a new row.
func (t *SQLiteTable) UpdateItem(ctx context.Context, id, title string, completed bool) error {
	if err := requireKey(id); err != nil {
		return err
	}
	query := `
	INSERT INTO todos (id, title, completed)
	VALUES (?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET title = excluded.title, completed = excluded.completed
	`
	if _, err := t.db.ExecContext(ctx, query, id, title, completed); err != nil {
		return fmt.Errorf("update todo %s: %w", id, err)
	}
	return nil
}

// DeleteItem deletes a todo by id.
func (t *SQLiteTable) DeleteItem(ctx context.Context, id string) error {
	if err := requireKey(id); err != nil {
		return err
	}
	if _, err := t.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete todo %s: %w", id, err)
	}
	return nil
}
