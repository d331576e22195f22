package graph

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"talent-nest/backend/internal/model"
	"talent-nest/backend/internal/store"
)

// Tests in this file require a running Neo4j instance at bolt://localhost:7687
// with user neo4j / password "password".

func newTestRepository(t *testing.T) (*Repository, string) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Skipf("Neo4j not reachable: %v", err)
	}

	repo := NewRepository(driver)
	if err := repo.EnsureSchema(ctx); err != nil {
		driver.Close(ctx)
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	prefix := "test-" + time.Now().Format("20060102150405.000000") + "-"
	t.Cleanup(func() {
		session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
		defer session.Close(ctx)
		_, _ = session.Run(ctx, "MATCH (n) WHERE n.id STARTS WITH $prefix DETACH DELETE n", map[string]interface{}{"prefix": prefix})
		_, _ = session.Run(ctx, "MATCH (r:ConnectionRequest) WHERE r.from_user_id STARTS WITH $prefix DETACH DELETE r", map[string]interface{}{"prefix": prefix})
		driver.Close(ctx)
	})
	return repo, prefix
}

func seedGraphUser(t *testing.T, repo *Repository, id, username string, techs ...string) {
	t.Helper()
	err := repo.UpsertUser(context.Background(), &model.User{ID: id, Username: username, TechStack: techs})
	if err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}
}

func TestRepository_Users(t *testing.T) {
	repo, p := newTestRepository(t)
	ctx := context.Background()
	seedGraphUser(t, repo, p+"a", "alice", "go", "rust")
	seedGraphUser(t, repo, p+"b", "bob", "python")

	u, err := repo.FindByID(ctx, p+"a")
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if u.Username != "alice" || len(u.TechStack) != 2 {
		t.Errorf("unexpected user: %+v", u)
	}

	if _, err := repo.FindByID(ctx, p+"missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	users, err := repo.FindByAnyTech(ctx, []string{"rust"})
	if err != nil {
		t.Fatalf("FindByAnyTech failed: %v", err)
	}
	found := false
	for _, u := range users {
		if u.ID == p+"b" {
			t.Errorf("bob does not know rust")
		}
		if u.ID == p+"a" {
			found = true
		}
	}
	if !found {
		t.Error("alice not returned for rust")
	}
}

func TestRepository_ConnectionLifecycle(t *testing.T) {
	repo, p := newTestRepository(t)
	ctx := context.Background()
	seedGraphUser(t, repo, p+"a", "alice")
	seedGraphUser(t, repo, p+"b", "bob")

	now := time.Now().UTC()
	req := &model.ConnectionRequest{
		ID: p + uuid.New().String(), FromUserID: p + "a", ToUserID: p + "b",
		Status: model.StatusInterested, CreatedAt: now, UpdatedAt: now,
	}
	if err := repo.CreateRequest(ctx, req); err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}

	dup := *req
	dup.ID = p + uuid.New().String()
	dup.FromUserID, dup.ToUserID = req.ToUserID, req.FromUserID
	if err := repo.CreateRequest(ctx, &dup); !errors.Is(err, store.ErrDuplicatePair) {
		t.Fatalf("expected ErrDuplicatePair, got %v", err)
	}

	between, err := repo.FindRequestBetween(ctx, p+"b", p+"a")
	if err != nil || between.ID != req.ID {
		t.Fatalf("FindRequestBetween = %v, %v", between, err)
	}

	received, err := repo.ListReceived(ctx, p+"b", model.StatusInterested)
	if err != nil || len(received) != 1 {
		t.Fatalf("ListReceived = %v, %v", received, err)
	}

	if err := repo.UpdateRequestStatus(ctx, req.ID, model.StatusInterested, model.StatusAccepted, now); err != nil {
		t.Fatalf("UpdateRequestStatus failed: %v", err)
	}
	if err := repo.UpdateRequestStatus(ctx, req.ID, model.StatusInterested, model.StatusRejected, now); !errors.Is(err, store.ErrStaleStatus) {
		t.Errorf("expected ErrStaleStatus, got %v", err)
	}
	if err := repo.UpdateRequestStatus(ctx, p+"missing", model.StatusInterested, model.StatusRejected, now); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	accepted, err := repo.ListInvolving(ctx, p+"a", model.StatusAccepted)
	if err != nil {
		t.Fatalf("ListInvolving failed: %v", err)
	}
	if len(accepted) != 1 || accepted[0].Counterparty(p+"a") != p+"b" {
		t.Errorf("unexpected accepted requests: %+v", accepted)
	}
}

func createTestDriver() (neo4j.DriverWithContext, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return NewDriver(ctx, "bolt://localhost:7687", "neo4j", "password")
}
