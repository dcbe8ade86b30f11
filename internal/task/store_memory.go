package task

import (
	"context"
	"strings"
	"sync"
	"time"

	"taskd/internal/identity"
)

// InMemoryStore is a dev-mode fallback when DB is not configured. It keeps
// the exact same contract as the Postgres store: owner-fused lookups and a
// single ErrNotFound for missing and foreign records alike.
type InMemoryStore struct {
	mu    sync.Mutex
	byID  map[string]Task
	order []string // task ids in insertion order
}

// NewInMemoryStore constructs an in-memory Store implementation.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byID: make(map[string]Task),
	}
}

// Create persists a new task stamped with the caller as owner.
func (s *InMemoryStore) Create(ctx context.Context, in CreateInput) (Task, error) {
	if err := ctx.Err(); err != nil {
		return Task{}, err
	}
	if strings.TrimSpace(in.OwnerID) == "" || strings.TrimSpace(in.Title) == "" {
		return Task{}, ErrInvalidInput
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	id, err := identity.NewULID(now)
	if err != nil {
		return Task{}, err
	}

	t := Task{
		ID:          id,
		OwnerID:     in.OwnerID,
		Title:       in.Title,
		Description: copyPtr(in.Description),
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID[id] = t
	s.order = append(s.order, id)

	return t, nil
}

// ListByOwner returns the owner's tasks in insertion order.
func (s *InMemoryStore) ListByOwner(ctx context.Context, ownerID string) ([]Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Task
	for _, id := range s.order {
		t, ok := s.byID[id]
		if !ok || t.OwnerID != ownerID {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// GetByID fetches a task; the owner check is part of the lookup itself.
func (s *InMemoryStore) GetByID(ctx context.Context, ownerID, taskID string) (Task, error) {
	if err := ctx.Err(); err != nil {
		return Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.byID[taskID]
	if !ok || t.OwnerID != ownerID {
		return Task{}, ErrNotFound
	}
	return t, nil
}

// Replace overwrites title, description and completed wholesale.
func (s *InMemoryStore) Replace(ctx context.Context, ownerID, taskID string, in ReplaceInput) (Task, error) {
	if err := ctx.Err(); err != nil {
		return Task{}, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return Task{}, ErrInvalidInput
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.byID[taskID]
	if !ok || t.OwnerID != ownerID {
		return Task{}, ErrNotFound
	}

	t.Title = in.Title
	t.Description = copyPtr(in.Description)
	t.Completed = in.Completed
	t.UpdatedAt = now
	s.byID[taskID] = t

	return t, nil
}

// Delete removes the caller's task; repeated deletes yield ErrNotFound.
func (s *InMemoryStore) Delete(ctx context.Context, ownerID, taskID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.byID[taskID]
	if !ok || t.OwnerID != ownerID {
		return ErrNotFound
	}

	delete(s.byID, taskID)
	for i, id := range s.order {
		if id == taskID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func copyPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
