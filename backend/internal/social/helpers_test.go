package social

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"talent-nest/backend/internal/cache"
	"talent-nest/backend/internal/model"
	"talent-nest/backend/internal/store"
	"talent-nest/backend/internal/store/storetest"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%04d", g.n)
}

// failingNotifications fails every notification write.
type failingNotifications struct {
	store.NotificationStore
}

func (failingNotifications) CreateNotification(ctx context.Context, n *model.Notification) error {
	return errors.New("notifications table locked")
}

// brokenCache fails every call, like an unreachable Redis.
type brokenCache struct{}

func (brokenCache) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("connection refused")
}
func (brokenCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return errors.New("connection refused")
}
func (brokenCache) Delete(ctx context.Context, keys ...string) error {
	return errors.New("connection refused")
}

type harness struct {
	store         *store.SQLiteStore
	cache         *cache.MemoryCache
	clock         *fakeClock
	notifications *NotificationService
	connections   *ConnectionService
	matching      *MatchingService
	feed          *FeedService
}

type harnessOption func(*harnessConfig)

type harnessConfig struct {
	opts          Options
	notifications store.NotificationStore
	cache         cache.Cache
}

func withOptions(fn func(*Options)) harnessOption {
	return func(c *harnessConfig) { fn(&c.opts) }
}

func withFailingNotifications() harnessOption {
	return func(c *harnessConfig) { c.notifications = failingNotifications{c.notifications} }
}

func withCache(cc cache.Cache) harnessOption {
	return func(c *harnessConfig) { c.cache = cc }
}

func newHarness(t *testing.T, options ...harnessOption) *harness {
	t.Helper()

	s := storetest.NewTestStore(t)
	clock := &fakeClock{now: t0}
	mem := cache.NewMemoryCache().WithClock(clock.Now)
	ids := &seqIDs{}
	log := zap.NewNop()

	cfg := &harnessConfig{opts: DefaultOptions(), notifications: s, cache: mem}
	for _, o := range options {
		o(cfg)
	}

	notifications := NewNotificationService(cfg.notifications, clock, ids, cfg.opts, log)
	connections := NewConnectionService(s, s, notifications, cfg.cache, clock, ids, cfg.opts, log)
	return &harness{
		store:         s,
		cache:         mem,
		clock:         clock,
		notifications: notifications,
		connections:   connections,
		matching:      NewMatchingService(s, connections, cfg.cache, cfg.opts, log),
		feed:          NewFeedService(s, s, connections, cfg.cache, clock, ids, cfg.opts, log),
	}
}

func (h *harness) user(t *testing.T, id, username string, techs ...string) model.PublicProfile {
	t.Helper()
	return storetest.SeedUser(t, h.store, id, username, techs...).Public()
}

// send creates an interested request from -> to and advances the clock.
func (h *harness) send(t *testing.T, from, to string) *model.ConnectionRequest {
	t.Helper()
	res, err := h.connections.SendRequest(context.Background(), from, to, model.StatusInterested, model.PublicProfile{ID: from, Username: from})
	if err != nil {
		t.Fatalf("sending request %s -> %s: %v", from, to, err)
	}
	h.clock.Advance(time.Second)
	return res.Request
}

// connect makes from and to accepted neighbors.
func (h *harness) connect(t *testing.T, from, to string) {
	t.Helper()
	req := h.send(t, from, to)
	if _, err := h.connections.RespondRequest(context.Background(), model.StatusAccepted, req.ID, to); err != nil {
		t.Fatalf("accepting request %s: %v", req.ID, err)
	}
	h.clock.Advance(time.Second)
}

func (h *harness) post(t *testing.T, author, content string, vis model.Visibility) *model.Post {
	t.Helper()
	p, err := h.feed.PublishPost(context.Background(), author, PostInput{Content: content, Visibility: string(vis)})
	if err != nil {
		t.Fatalf("publishing post by %s: %v", author, err)
	}
	h.clock.Advance(time.Second)
	return p
}
