// Package storetest provides store fixtures for tests in other packages.
package storetest

import (
	"context"
	"testing"
	"time"

	"talent-nest/backend/internal/model"
	"talent-nest/backend/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It is closed automatically when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})
	return s
}

// SeedUser stores a user with the given id, username and tech stack.
func SeedUser(t *testing.T, s *store.SQLiteStore, id, username string, techs ...string) model.User {
	t.Helper()

	u := model.User{
		ID:        id,
		FirstName: username,
		Username:  username,
		Email:     username + "@example.com",
		TechStack: techs,
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := s.UpsertUser(context.Background(), &u); err != nil {
		t.Fatalf("seeding user %s: %v", id, err)
	}
	return u
}
