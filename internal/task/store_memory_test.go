package task

import (
	"context"
	"errors"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestCreateAndFetch_RoundTrip(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	created, err := s.Create(ctx, CreateInput{
		OwnerID:     "01OWNER",
		Title:       "T",
		Description: strPtr("D"),
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected server-assigned id")
	}
	if created.Completed {
		t.Fatalf("new task must start incomplete")
	}

	got, err := s.GetByID(ctx, "01OWNER", created.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Title != "T" || got.Description == nil || *got.Description != "D" {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if got.OwnerID != "01OWNER" {
		t.Fatalf("OwnerID = %q", got.OwnerID)
	}
}

func TestOwnershipBoundary(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	created, err := s.Create(ctx, CreateInput{OwnerID: "01ALICE", Title: "alice's task"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// Invisible to another owner's list.
	list, err := s.ListByOwner(ctx, "01BOB")
	if err != nil {
		t.Fatalf("ListByOwner error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("foreign task leaked into list: %+v", list)
	}

	// Fetch/replace/delete by a foreign owner behave exactly like a
	// nonexistent id.
	_, foreignErr := s.GetByID(ctx, "01BOB", created.ID)
	_, missingErr := s.GetByID(ctx, "01BOB", "01NOSUCHTASK")
	if !errors.Is(foreignErr, ErrNotFound) || !errors.Is(missingErr, ErrNotFound) {
		t.Fatalf("foreign=%v missing=%v, want ErrNotFound for both", foreignErr, missingErr)
	}

	if _, err := s.Replace(ctx, "01BOB", created.ID, ReplaceInput{Title: "hijack"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign replace: %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "01BOB", created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign delete: %v, want ErrNotFound", err)
	}

	// Still intact for the real owner.
	if _, err := s.GetByID(ctx, "01ALICE", created.ID); err != nil {
		t.Fatalf("owner lost access: %v", err)
	}
}

func TestReplace_WholesaleSemantics(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	created, err := s.Create(ctx, CreateInput{
		OwnerID:     "01OWNER",
		Title:       "T",
		Description: strPtr("D"),
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// Omitted description clears; it is never preserved.
	updated, err := s.Replace(ctx, "01OWNER", created.ID, ReplaceInput{
		Title:     "T2",
		Completed: true,
	})
	if err != nil {
		t.Fatalf("Replace error: %v", err)
	}
	if updated.Title != "T2" || !updated.Completed {
		t.Fatalf("replace mismatch: %+v", updated)
	}
	if updated.Description != nil {
		t.Fatalf("description must be cleared, got %q", *updated.Description)
	}
}

func TestDelete_Idempotence(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	created, err := s.Create(ctx, CreateInput{OwnerID: "01OWNER", Title: "T"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if err := s.Delete(ctx, "01OWNER", created.ID); err != nil {
		t.Fatalf("first delete error: %v", err)
	}
	if err := s.Delete(ctx, "01OWNER", created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: %v, want ErrNotFound", err)
	}
}

func TestListByOwner_InsertionOrder(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	var ids []string
	for _, title := range []string{"first", "second", "third"} {
		created, err := s.Create(ctx, CreateInput{OwnerID: "01OWNER", Title: title})
		if err != nil {
			t.Fatalf("Create error: %v", err)
		}
		ids = append(ids, created.ID)
	}

	list, err := s.ListByOwner(ctx, "01OWNER")
	if err != nil {
		t.Fatalf("ListByOwner error: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
	for i, want := range ids {
		if list[i].ID != want {
			t.Fatalf("position %d: got %q, want %q", i, list[i].ID, want)
		}
	}
}

func TestCreate_RequiresTitle(t *testing.T) {
	s := NewInMemoryStore()

	if _, err := s.Create(context.Background(), CreateInput{OwnerID: "01OWNER"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
