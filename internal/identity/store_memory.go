package identity

import (
	"context"
	"sync"
	"time"
)

// InMemoryStore is a dev-mode fallback when DB is not configured.
// It applies the same normalization, policy and error contract as the
// Postgres store so handlers and tests behave identically.
type InMemoryStore struct {
	mu      sync.Mutex
	byID    map[string]User
	byEmail map[string]string // email_norm -> user id
	hashes  map[string]string // user id -> password hash
}

// NewInMemoryStore constructs an in-memory Store implementation.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byID:    make(map[string]User),
		byEmail: make(map[string]string),
		hashes:  make(map[string]string),
	}
}

// CreateUser registers a new user, enforcing unique normalized emails.
func (s *InMemoryStore) CreateUser(ctx context.Context, in CreateUserInput) (User, error) {
	const op = "identity.CreateUser"

	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	email := in.Email
	if NormalizeEmail(email) == "" {
		return User{}, invalid(op, "email is required")
	}
	if in.Password == "" {
		return User{}, invalid(op, "password is required")
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	// Hash outside the lock; argon2 is deliberately slow.
	pwHash, err := HashPassword(in.Password)
	if err != nil {
		return User{}, PolicyError{Op: op, Err: err}
	}

	emailNorm := NormalizeEmail(email)

	userID, err := NewULID(now)
	if err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[emailNorm]; exists {
		return User{}, ConflictError{Op: op, Field: "email"}
	}

	u := User{
		ID:        userID,
		Email:     email,
		EmailNorm: emailNorm,
		CreatedAt: now,
	}
	s.byID[userID] = u
	s.byEmail[emailNorm] = userID
	s.hashes[userID] = pwHash

	return u, nil
}

// GetUserAuthByEmail looks up a user plus password hash by normalized email.
func (s *InMemoryStore) GetUserAuthByEmail(ctx context.Context, email string) (UserAuth, error) {
	const op = "identity.GetUserAuthByEmail"

	if err := ctx.Err(); err != nil {
		return UserAuth{}, err
	}

	emailNorm := NormalizeEmail(email)
	if emailNorm == "" {
		return UserAuth{}, invalid(op, "email is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[emailNorm]
	if !ok {
		return UserAuth{}, notFound(op)
	}

	return UserAuth{
		User:         s.byID[id],
		PasswordHash: s.hashes[id],
	}, nil
}

// GetUserByID looks up a user by id.
func (s *InMemoryStore) GetUserByID(ctx context.Context, id string) (User, error) {
	const op = "identity.GetUserByID"

	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return User{}, notFound(op)
	}
	return u, nil
}
