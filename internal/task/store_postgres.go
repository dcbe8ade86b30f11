package task

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taskd/internal/identity"
)

// PostgresStore is a Store backed by PostgreSQL.
//
// Ownership model:
// - PostgresStore does NOT own the pgx pool. The caller must close the pool.
//
// Expected table (schema managed externally):
//
//	tasks(id text pk, owner_id text references users, title text,
//	      description text null, completed boolean,
//	      created_at timestamptz, updated_at timestamptz)
type PostgresStore struct {
	pool   *pgxpool.Pool
	schema string
}

// PostgresOption configures PostgresStore behavior.
type PostgresOption func(*PostgresStore) error

// WithSchema sets the DB schema used by this store (default: "taskd").
func WithSchema(schema string) PostgresOption {
	return func(s *PostgresStore) error {
		schema = strings.TrimSpace(schema)
		if schema == "" {
			return errors.New("task: empty schema")
		}
		if !pgIdentRe.MatchString(schema) {
			return errors.New("task: invalid schema identifier")
		}
		s.schema = schema
		return nil
	}
}

// NewPostgresStore constructs a Postgres-backed Store.
func NewPostgresStore(pool *pgxpool.Pool, opts ...PostgresOption) (*PostgresStore, error) {
	st := &PostgresStore{
		pool:   pool,
		schema: "taskd",
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(st); err != nil {
			return nil, err
		}
	}
	if st.pool == nil {
		return nil, errors.New("task: nil pool")
	}
	return st, nil
}

// Create persists a new task stamped with the caller as owner.
func (s *PostgresStore) Create(ctx context.Context, in CreateInput) (Task, error) {
	if s == nil || s.pool == nil {
		return Task{}, fmt.Errorf("task: nil store: %w", ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return Task{}, err
	}
	if strings.TrimSpace(in.OwnerID) == "" || strings.TrimSpace(in.Title) == "" {
		return Task{}, fmt.Errorf("task: owner and title are required: %w", ErrInvalidInput)
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
		Description: in.Description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	tasks := pgIdent(s.schema, "tasks")

	_, err = s.pool.Exec(ctx,
		`INSERT INTO `+tasks+` (id, owner_id, title, description, completed, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		t.ID, t.OwnerID, t.Title, t.Description, t.Completed, now,
	)
	if err != nil {
		return Task{}, err
	}

	return t, nil
}

// ListByOwner returns every task owned by ownerID, in creation order.
// ULID ids sort lexicographically by creation time, so ordering by id is
// insertion order.
func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID string) ([]Task, error) {
	if s == nil || s.pool == nil {
		return nil, fmt.Errorf("task: nil store: %w", ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(ownerID) == "" {
		return nil, fmt.Errorf("task: missing owner: %w", ErrInvalidInput)
	}

	tasks := pgIdent(s.schema, "tasks")

	rows, err := s.pool.Query(ctx,
		`SELECT id, owner_id, title, description, completed, created_at, updated_at
		   FROM `+tasks+`
		  WHERE owner_id = $1
		  ORDER BY id ASC`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetByID fetches a task by id and owner in a single filtered query.
func (s *PostgresStore) GetByID(ctx context.Context, ownerID, taskID string) (Task, error) {
	if s == nil || s.pool == nil {
		return Task{}, fmt.Errorf("task: nil store: %w", ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return Task{}, err
	}
	if strings.TrimSpace(ownerID) == "" || strings.TrimSpace(taskID) == "" {
		return Task{}, ErrNotFound
	}

	tasks := pgIdent(s.schema, "tasks")

	var t Task
	err := s.pool.QueryRow(ctx,
		`SELECT id, owner_id, title, description, completed, created_at, updated_at
		   FROM `+tasks+`
		  WHERE id = $1 AND owner_id = $2`,
		taskID, ownerID,
	).Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	return t, nil
}

// Replace overwrites title, description and completed wholesale for the
// caller's task. The owner filter rides in the UPDATE itself.
func (s *PostgresStore) Replace(ctx context.Context, ownerID, taskID string, in ReplaceInput) (Task, error) {
	if s == nil || s.pool == nil {
		return Task{}, fmt.Errorf("task: nil store: %w", ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return Task{}, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return Task{}, fmt.Errorf("task: title is required: %w", ErrInvalidInput)
	}
	if strings.TrimSpace(ownerID) == "" || strings.TrimSpace(taskID) == "" {
		return Task{}, ErrNotFound
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	tasks := pgIdent(s.schema, "tasks")

	var t Task
	err := s.pool.QueryRow(ctx,
		`UPDATE `+tasks+`
		    SET title = $1, description = $2, completed = $3, updated_at = $4
		  WHERE id = $5 AND owner_id = $6
		 RETURNING id, owner_id, title, description, completed, created_at, updated_at`,
		in.Title, in.Description, in.Completed, now, taskID, ownerID,
	).Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	return t, nil
}

// Delete removes the caller's task. Deleting a missing or foreign task
// yields ErrNotFound.
func (s *PostgresStore) Delete(ctx context.Context, ownerID, taskID string) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("task: nil store: %w", ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(ownerID) == "" || strings.TrimSpace(taskID) == "" {
		return ErrNotFound
	}

	tasks := pgIdent(s.schema, "tasks")

	ct, err := s.pool.Exec(ctx,
		`DELETE FROM `+tasks+` WHERE id = $1 AND owner_id = $2`,
		taskID, ownerID,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- helpers ----

var pgIdentRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// pgIdent safely quotes a schema-qualified identifier: "schema"."name".
func pgIdent(schema, name string) string {
	return pgx.Identifier{schema, name}.Sanitize()
}
