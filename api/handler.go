// Package api exposes the todo collection over HTTP.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"todo-api/logging"
	"todo-api/models"
	"todo-api/storage"
)

// CollectionPath is where the todo collection is mounted.
const CollectionPath = "/api/todos"

// Handler translates each HTTP verb on the collection into one table call.
type Handler struct {
	table  storage.Table
	logger *log.Logger
	now    func() time.Time
}

// NewHandler creates a handler over table. A nil logger discards output.
func NewHandler(table storage.Table, logger *log.Logger) *Handler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Handler{table: table, logger: logger, now: time.Now}
}

// WithClock overrides the clock used to assign ids.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

// Register mounts the collection routes.
func (h *Handler) Register(r gin.IRouter) {
	r.GET(CollectionPath, h.listTodos)
	r.POST(CollectionPath, h.createTodo)
	r.PUT(CollectionPath, h.updateTodo)
	r.DELETE(CollectionPath, h.deleteTodo)
}

type createRequest struct {
	Title *string `json:"title"`
}

type updateRequest struct {
	ID        *string `json:"id"`
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

type deleteRequest struct {
	ID *string `json:"id"`
}

var errMissingField = errors.New("missing required field")

// GET /api/todos - List all todos
func (h *Handler) listTodos(c *gin.Context) {
	todos, err := h.table.Scan(c.Request.Context())
	if err != nil {
		h.logger.Error("todo request failed", "op", "list", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching todos"})
		return
	}
	if todos == nil {
		todos = []models.Task{}
	}
	c.JSON(http.StatusOK, gin.H{"todos": todos})
}

// POST /api/todos - Create a todo
func (h *Handler) createTodo(c *gin.Context) {
	var input createRequest
	err := c.ShouldBindJSON(&input)
	if err == nil && input.Title == nil {
		err = errMissingField
	}
	if err == nil {
		todo := models.NewTask(*input.Title, h.now())
		err = h.table.PutItem(c.Request.Context(), todo)
	}
	if err != nil {
		h.logger.Error("todo request failed", "op", "create", "err", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Failed to create todo"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Created successfully"})
}

// PUT /api/todos - Overwrite title and completed of a todo
func (h *Handler) updateTodo(c *gin.Context) {
	var input updateRequest
	err := c.ShouldBindJSON(&input)
	if err == nil && (input.ID == nil || input.Title == nil || input.Completed == nil) {
		err = errMissingField
	}
	if err == nil {
		err = h.table.UpdateItem(c.Request.Context(), *input.ID, *input.Title, *input.Completed)
	}
	if err != nil {
		h.logger.Error("todo request failed", "op", "update", "err", err)
		// Existing clients already receive this text for update failures.
		c.JSON(http.StatusNotFound, gin.H{"error": "Failed to create todo"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Updated successfully"})
}

// DELETE /api/todos - Delete a todo
func (h *Handler) deleteTodo(c *gin.Context) {
	var input deleteRequest
	err := c.ShouldBindJSON(&input)
	if err == nil && input.ID == nil {
		err = errMissingField
	}
	if err == nil {
		err = h.table.DeleteItem(c.Request.Context(), *input.ID)
	}
	if err != nil {
		h.logger.Error("todo request failed", "op", "delete", "err", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Failed to delete todo"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted successfully"})
}
