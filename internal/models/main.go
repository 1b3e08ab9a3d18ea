// Package models defines the core data structures for users and tasks.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an application user with credentials.
type User struct {
	// ID is the unique identifier for the user.
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	// Name is the display name chosen by the user.
	Name string `bson:"name" json:"name"`
	// Email is the unique, normalized (trimmed, lowercased) email address.
	Email string `bson:"email" json:"email"`
	// PasswordHash is the bcrypt hash of the user's password.
	// It is never serialized into API responses.
	PasswordHash []byte `bson:"passwordHash" json:"-"`
	// CreatedAt is the time the account was registered.
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	// UpdatedAt is the time the account was last modified.
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// TaskStatus defines the set of valid task states.
type TaskStatus string

const (
	// StatusPending marks a task that has not been completed yet.
	StatusPending TaskStatus = "pending"
	// StatusCompleted marks a finished task.
	StatusCompleted TaskStatus = "completed"
)

// TaskPriority defines the set of valid task priorities.
type TaskPriority string

const (
	// PriorityLow is the lowest task priority.
	PriorityLow TaskPriority = "low"
	// PriorityMedium is the default task priority.
	PriorityMedium TaskPriority = "medium"
	// PriorityHigh is the highest task priority.
	PriorityHigh TaskPriority = "high"
)

// Task represents a single task owned by exactly one user.
type Task struct {
	// ID is the unique identifier for the task.
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	// Title is the short description of the task.
	Title string `bson:"title" json:"title"`
	// Description holds optional details about the task.
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	// Status is either "pending" or "completed".
	Status TaskStatus `bson:"status" json:"status"`
	// Priority is one of "low", "medium" or "high".
	Priority TaskPriority `bson:"priority" json:"priority"`
	// DueDate is the optional deadline for the task.
	DueDate *time.Time `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	// UserID references the owning user. Immutable after creation.
	UserID primitive.ObjectID `bson:"userId" json:"userId"`
	// CreatedAt is the time the task was created.
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	// UpdatedAt is the time the task was last modified.
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// TaskStats aggregates per-user task counters for the stats endpoint.
type TaskStats struct {
	// Total is the number of tasks owned by the user.
	Total int64 `json:"total"`
	// Pending is the number of tasks still in the "pending" state.
	Pending int64 `json:"pending"`
	// Completed is the number of tasks in the "completed" state.
	Completed int64 `json:"completed"`
	// Overdue counts pending tasks whose due date lies in the past.
	Overdue int64 `json:"overdue"`
	// CompletionRate is Completed/Total as a percentage, 0 when Total is 0.
	CompletionRate float64 `json:"completionRate"`
	// PriorityBreakdown counts tasks per priority level.
	PriorityBreakdown PriorityBreakdown `json:"priorityBreakdown"`
}

// PriorityBreakdown counts tasks per priority level.
type PriorityBreakdown struct {
	High   int64 `json:"high"`
	Medium int64 `json:"medium"`
	Low    int64 `json:"low"`
}

// ValidStatus reports whether s is one of the supported task states.
func ValidStatus(s string) bool {
	return s == string(StatusPending) || s == string(StatusCompleted)
}

// ValidPriority reports whether p is one of the supported priorities.
func ValidPriority(p string) bool {
	return p == string(PriorityLow) || p == string(PriorityMedium) || p == string(PriorityHigh)
}
