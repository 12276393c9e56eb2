package entity

import (
	"time"
)

// Status is the workflow state of a product/task.
// There are no transition rules; any authorized update may set any value.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusDone
}

// Product is a task-like resource owned by exactly one user.
// Owner is assigned at creation and immutable afterwards.
type Product struct {
	ID          string
	Title       string
	Description string
	Status      Status
	DueDate     *time.Time
	Owner       string // user id
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
