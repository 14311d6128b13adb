package models

import (
	"strconv"
	"time"
)

// Task is a single todo item as stored in the table and sent over the wire.
type Task struct {
	ID        string `json:"id" dynamodbav:"id"`
	Title     string `json:"title" dynamodbav:"title"`
	Completed bool   `json:"completed" dynamodbav:"completed"`
}

// NewTask builds a not-yet-completed task whose id is the creation time in
// Unix milliseconds.
func NewTask(title string, now time.Time) Task {
	return Task{
		ID:        NewTaskID(now),
		Title:     title,
		Completed: false,
	}
}

// NewTaskID formats a clock reading as a task id. Two tasks created within the
// same millisecond share an id.
func NewTaskID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}
