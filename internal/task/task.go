// Package task is the ownership-scoped task record gateway. Every lookup,
// replace and delete filters by task id AND owner id in one step, so a
// record owned by someone else is indistinguishable from a missing one.
package task

import (
	"context"
	"errors"
	"time"
)

// Sentinel error kinds.
var (
	ErrInvalidInput = errors.New("invalid_input")

	// ErrNotFound covers both "no such task" and "task owned by another
	// identity". Callers must never be able to tell these apart.
	ErrNotFound = errors.New("not_found")
)

// Task is a personal task record. OwnerID is immutable after creation and is
// only ever the authenticated caller's identity id.
type Task struct {
	ID          string
	OwnerID     string
	Title       string
	Description *string
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateInput describes a task creation request.
type CreateInput struct {
	OwnerID     string
	Title       string
	Description *string
	Now         time.Time
}

// ReplaceInput describes a full-replacement update. Description nil means
// "clear": update is replace semantics, never merge.
type ReplaceInput struct {
	Title       string
	Description *string
	Completed   bool
	Now         time.Time
}

// Store is the task persistence boundary.
//
// Contract: GetByID, Replace and Delete take the caller's owner id and fuse
// it with the task id in a single filtered operation. There is no window
// where a record is fetched by id alone and ownership checked after.
type Store interface {
	Create(ctx context.Context, in CreateInput) (Task, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Task, error)
	GetByID(ctx context.Context, ownerID, taskID string) (Task, error)
	Replace(ctx context.Context, ownerID, taskID string, in ReplaceInput) (Task, error)
	Delete(ctx context.Context, ownerID, taskID string) error
}

// IsNotFound reports whether err represents ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsInvalidInput reports whether err represents ErrInvalidInput.
func IsInvalidInput(err error) bool { return errors.Is(err, ErrInvalidInput) }
