package ui

import (
	"context"
	"errors"
	"strings"
	"sync"

	"todo-api/models"
)

// ErrUnknownTask is returned when an action names a task that is not in the
// last fetched collection.
var ErrUnknownTask = errors.New("task not in current list")

// Gateway is the todo collection as seen from the list.
type Gateway interface {
	List(ctx context.Context) ([]models.Task, error)
	Create(ctx context.Context, title string) error
	Update(ctx context.Context, id, title string, completed bool) error
	Delete(ctx context.Context, id string) error
}

// Kind classifies a notification.
type Kind int

const (
	Loading Kind = iota
	Success
	Failure
)

func (k Kind) String() string {
	switch k {
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// Notification is a transient message about an in-flight or finished call.
type Notification struct {
	Kind    Kind
	Message string
}

// Notifier receives notifications as calls progress.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

type messages struct {
	loading, success, failure string
}

var (
	fetchMessages  = messages{"Fetching todos...", "Todos fetched successfully!", "Failed to fetch todos."}
	addMessages    = messages{"Adding todo...", "Todo added successfully!", "Failed to add todo."}
	toggleMessages = messages{"Updating todo...", "Todo updated successfully!", "Failed to update todo."}
	saveMessages   = messages{"Saving changes...", "Todo updated successfully!", "Failed to update todo."}
	deleteMessages = messages{"Deleting todo...", "Todo deleted successfully!", "Failed to delete todo."}
)

// Edit is the task currently being edited, its working title and the
// completion state it had when editing started.
type Edit struct {
	ID        string
	Title     string
	Completed bool
}

// Controller holds the list state: the collection as last fetched, the
// pending new-task text and at most one edit. Every successful mutation is
// followed by a full re-fetch; mutation responses are never merged locally.
type Controller struct {
	gateway  Gateway
	notifier Notifier

	mu       sync.Mutex
	todos    []models.Task
	newTitle string
	editing  *Edit
}

// NewController creates a controller. A nil notifier drops notifications.
func NewController(gateway Gateway, notifier Notifier) *Controller {
	if notifier == nil {
		notifier = NotifierFunc(func(Notification) {})
	}
	return &Controller{gateway: gateway, notifier: notifier}
}

// Todos returns a copy of the last fetched collection.
func (c *Controller) Todos() []models.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Task(nil), c.todos...)
}

// NewTitle returns the pending new-task text.
func (c *Controller) NewTitle() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.newTitle
}

// SetNewTitle replaces the pending new-task text.
func (c *Controller) SetNewTitle(title string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.newTitle = title
}

// Editing reports the current edit, if any.
func (c *Controller) Editing() (Edit, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editing == nil {
		return Edit{}, false
	}
	return *c.editing, true
}

// Mount loads the collection, announcing progress.
func (c *Controller) Mount(ctx context.Context) error {
	c.notify(Loading, fetchMessages.loading)
	todos, err := c.gateway.List(ctx)
	if err != nil {
		c.notify(Failure, fetchMessages.failure)
		return err
	}
	c.setTodos(todos)
	c.notify(Success, fetchMessages.success)
	return nil
}

// SubmitNew creates a task from the trimmed pending text. Blank text is
// ignored. On success the input is cleared and the list re-fetched.
func (c *Controller) SubmitNew(ctx context.Context) error {
	title := strings.TrimSpace(c.NewTitle())
	if title == "" {
		return nil
	}
	return c.mutate(ctx, addMessages, func(ctx context.Context) error {
		return c.gateway.Create(ctx, title)
	}, func() {
		c.SetNewTitle("")
	})
}

// Toggle flips the completion flag of id, keeping its title.
func (c *Controller) Toggle(ctx context.Context, id string) error {
	task, ok := c.find(id)
	if !ok {
		return ErrUnknownTask
	}
	return c.mutate(ctx, toggleMessages, func(ctx context.Context) error {
		return c.gateway.Update(ctx, task.ID, task.Title, !task.Completed)
	}, nil)
}

// StartEdit enters edit mode for id with its current title. Any other edit
// in progress is replaced.
func (c *Controller) StartEdit(id string) error {
	task, ok := c.find(id)
	if !ok {
		return ErrUnknownTask
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = &Edit{ID: task.ID, Title: task.Title, Completed: task.Completed}
	return nil
}

// SetEditTitle replaces the working title of the current edit.
func (c *Controller) SetEditTitle(title string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editing != nil {
		c.editing.Title = title
	}
}

// CommitEdit leaves edit mode. Confirming and losing focus both land here.
// A non-blank trimmed title is saved with the completion state captured by
// StartEdit, even if a refresh has since dropped the task; a blank one is
// dropped without a call or a notification.
func (c *Controller) CommitEdit(ctx context.Context) error {
	c.mu.Lock()
	edit := c.editing
	c.editing = nil
	c.mu.Unlock()
	if edit == nil {
		return nil
	}

	title := strings.TrimSpace(edit.Title)
	if title == "" {
		return nil
	}
	return c.mutate(ctx, saveMessages, func(ctx context.Context) error {
		return c.gateway.Update(ctx, edit.ID, title, edit.Completed)
	}, nil)
}

// Delete removes id and re-fetches.
func (c *Controller) Delete(ctx context.Context, id string) error {
	return c.mutate(ctx, deleteMessages, func(ctx context.Context) error {
		return c.gateway.Delete(ctx, id)
	}, nil)
}

func (c *Controller) mutate(ctx context.Context, msgs messages, call func(context.Context) error, onSuccess func()) error {
	c.notify(Loading, msgs.loading)
	if err := call(ctx); err != nil {
		c.notify(Failure, msgs.failure)
		return err
	}
	c.notify(Success, msgs.success)
	if onSuccess != nil {
		onSuccess()
	}
	c.refresh(ctx)
	return nil
}

// refresh re-reads the collection without notifications. A failed read
// keeps the previous collection.
func (c *Controller) refresh(ctx context.Context) {
	todos, err := c.gateway.List(ctx)
	if err != nil {
		return
	}
	c.setTodos(todos)
}

func (c *Controller) setTodos(todos []models.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.todos = append([]models.Task(nil), todos...)
}

func (c *Controller) find(id string) (models.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, task := range c.todos {
		if task.ID == id {
			return task, true
		}
	}
	return models.Task{}, false
}

func (c *Controller) notify(kind Kind, message string) {
	c.notifier.Notify(Notification{Kind: kind, Message: message})
}
