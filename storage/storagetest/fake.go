// Package storagetest provides an in-memory storage.Table for tests.
package storagetest

import (
	"context"
	"sort"
	"sync"

	"todo-api/models"
	"todo-api/storage"
)

// Call records one primitive invocation.
type Call struct {
	Op        string
	ID        string
	Title     string
	Completed bool
}

// FakeTable is an in-memory storage.Table. Set the *Err fields to make the
// matching primitive fail.
type FakeTable struct {
	mu    sync.Mutex
	items map[string]models.Task
	calls []Call

	ScanErr   error
	PutErr    error
	UpdateErr error
	DeleteErr error
}

var _ storage.Table = (*FakeTable)(nil)

// NewFakeTable creates a table seeded with tasks.
func NewFakeTable(tasks ...models.Task) *FakeTable {
	f := &FakeTable{items: make(map[string]models.Task)}
	for _, task := range tasks {
		f.items[task.ID] = task
	}
	return f
}

// Scan returns items sorted by id so tests can compare them directly.
func (f *FakeTable) Scan(_ context.Context) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: "scan"})
	if f.ScanErr != nil {
		return nil, f.ScanErr
	}
	tasks := make([]models.Task, 0, len(f.items))
	for _, task := range f.items {
		tasks = append(tasks, task)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

func (f *FakeTable) PutItem(_ context.Context, task models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: "put", ID: task.ID, Title: task.Title, Completed: task.Completed})
	if f.PutErr != nil {
		return f.PutErr
	}
	if task.ID == "" {
		return storage.ErrMissingKey
	}
	f.items[task.ID] = task
	return nil
}

func (f *FakeTable) UpdateItem(_ context.Context, id, title string, completed bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: "update", ID: id, Title: title, Completed: completed})
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	if id == "" {
		return storage.ErrMissingKey
	}
	f.items[id] = models.Task{ID: id, Title: title, Completed: completed}
	return nil
}

func (f *FakeTable) DeleteItem(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: "delete", ID: id})
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	if id == "" {
		return storage.ErrMissingKey
	}
	delete(f.items, id)
	return nil
}

func (f *FakeTable) Close() error { return nil }

// Calls returns a copy of the recorded invocations.
func (f *FakeTable) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Get returns the stored task for id.
func (f *FakeTable) Get(id string) (models.Task, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.items[id]
	return task, ok
}
