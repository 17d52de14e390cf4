package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gastoncarriquiry/menu-maker/store"
)

func newUser(email, username string) *store.User {
	return &store.User{
		Email:        email,
		Username:     username,
		PasswordHash: "$2a$04$fakehash",
		IsActive:     true,
	}
}

func TestMemoryStore_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	u := newUser("a@x.com", "a")
	if err := s.Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == "" {
		t.Fatal("expected assigned id")
	}
	if u.CreatedAt.IsZero() || u.UpdatedAt.IsZero() {
		t.Error("expected assigned timestamps")
	}

	byID, err := s.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.Email != "a@x.com" {
		t.Errorf("unexpected email: %s", byID.Email)
	}

	byEmail, err := s.GetByEmail(ctx, "A@X.COM")
	if err != nil {
		t.Fatalf("email lookup should be case-insensitive: %v", err)
	}
	if byEmail.ID != u.ID {
		t.Error("email lookup returned wrong user")
	}
}

func TestMemoryStore_GetByIdentifier(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	u := newUser("a@x.com", "a")
	if err := s.Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, identifier := range []string{"a@x.com", "a"} {
		got, err := s.GetByIdentifier(ctx, identifier)
		if err != nil {
			t.Fatalf("identifier %q: %v", identifier, err)
		}
		if got.ID != u.ID {
			t.Errorf("identifier %q resolved to wrong user", identifier)
		}
	}

	if _, err := s.GetByIdentifier(ctx, "nobody"); !errors.Is(err, store.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestMemoryStore_DuplicateDetection(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	if err := s.Create(ctx, newUser("a@x.com", "a")); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := s.Create(ctx, newUser("a@x.com", "other")); !errors.Is(err, store.ErrDuplicateUser) {
		t.Errorf("duplicate email: expected ErrDuplicateUser, got %v", err)
	}
	if err := s.Create(ctx, newUser("b@x.com", "a")); !errors.Is(err, store.ErrDuplicateUser) {
		t.Errorf("duplicate username: expected ErrDuplicateUser, got %v", err)
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	u := newUser("a@x.com", "a")
	if err := s.Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, _ := s.GetByID(ctx, u.ID)
	got.Email = "mutated@x.com"

	again, _ := s.GetByID(ctx, u.ID)
	if again.Email != "a@x.com" {
		t.Error("store must not expose its internal records to mutation")
	}
}
