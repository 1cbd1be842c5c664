// internal/models/task.go
package models

// TaskStatus defines the possible statuses for a task.
type TaskStatus string

const (
	StatusPending   TaskStatus = "Pending"
	StatusCompleted TaskStatus = "Completed"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Priority bounds. Priority values live in [PriorityMin, PriorityMax).
const (
	PriorityMin = 0
	PriorityMax = 5
)

// Task represents one task, either synthesized in memory or read from the tasks table.
type Task struct {
	ID          *int64     `json:"id,omitempty"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description"`
	DueDate     Date       `json:"due_date"`
	Priority    int        `json:"priority"`
	Status      TaskStatus `json:"status"`
	AssignedTo  *int64     `json:"assigned_to,omitempty"`
}

// Completed reports whether the task has been completed.
func (t Task) Completed() bool {
	return t.Status == StatusCompleted
}

// TaskKey holds the identity-bearing fields of a Task. It is comparable and
// can be used as a map key.
//
// Stored tasks are identified by id and title. Synthetic tasks (no id) are
// identified by description, completion, due date and priority.
type TaskKey struct {
	Stored      bool
	ID          int64
	Title       string
	Description string
	Completed   bool
	DueDate     Date
	Priority    int
}

// Key returns the identity of t.
func (t Task) Key() TaskKey {
	if t.ID != nil {
		return TaskKey{Stored: true, ID: *t.ID, Title: t.Title}
	}
	return TaskKey{
		Description: t.Description,
		Completed:   t.Completed(),
		DueDate:     t.DueDate,
		Priority:    t.Priority,
	}
}

// Equal reports whether t and o have the same identity. Fields outside the
// key (assignee, title of synthetic tasks, ...) are not compared.
func (t Task) Equal(o Task) bool {
	return t.Key() == o.Key()
}
