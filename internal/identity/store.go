package identity

import (
	"context"
	"time"
)

// User is the canonical security principal: a registered account with a
// stable opaque id and a unique, case-insensitively looked up email.
type User struct {
	ID        string
	Email     string
	EmailNorm string
	CreatedAt time.Time
}

// UserAuth couples a user with its stored password hash for login checks.
// The hash never leaves this boundary.
type UserAuth struct {
	User         User
	PasswordHash string
}

// CreateUserInput describes a registration request.
type CreateUserInput struct {
	Email    string
	Password string
	Now      time.Time
}

// Store is the identity persistence boundary.
type Store interface {
	// CreateUser validates the password against store policy, hashes it and
	// persists a new user. Duplicate (normalized) emails yield a
	// ConflictError with Field "email"; policy failures yield ErrInvalidInput
	// wrapping the specific password error.
	CreateUser(ctx context.Context, in CreateUserInput) (User, error)

	// GetUserAuthByEmail looks up a user plus password hash by normalized
	// email. Missing users yield ErrNotFound.
	GetUserAuthByEmail(ctx context.Context, email string) (UserAuth, error)

	// GetUserByID looks up a user by id. Missing users yield ErrNotFound.
	GetUserByID(ctx context.Context, id string) (User, error)
}
