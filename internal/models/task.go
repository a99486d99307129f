package models

import "time"

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Task is a to-do item owned by exactly one user.
type Task struct {
	ID          int64        `db:"id" json:"id"`
	OwnerID     int64        `db:"owner_id" json:"-"`
	Title       string       `db:"title" json:"title"`
	Description *string      `db:"description" json:"description"` // Nullable
	Status      TaskStatus   `db:"status" json:"status"`
	Priority    TaskPriority `db:"priority" json:"priority"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
}

// TaskUpdate carries the fields of a partial update; nil means unchanged.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
}

// Empty reports whether the update changes nothing.
func (u TaskUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil && u.Priority == nil
}

// TaskFilter narrows a task listing. Zero values match everything.
type TaskFilter struct {
	Status   TaskStatus
	Priority TaskPriority
}
