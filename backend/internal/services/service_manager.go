package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"talent-nest/backend/internal/cache"
	"talent-nest/backend/internal/graph"
	"talent-nest/backend/internal/social"
	"talent-nest/backend/internal/store"
	"talent-nest/backend/pkg/config"
)

// ServiceManager owns the backing stores, the cache and the social services built on
// them. It opens everything from configuration and closes it in reverse order.
type ServiceManager struct {
	logger *zap.Logger
	cfg    *config.Config

	SQLite      *store.SQLiteStore
	Graph       *graph.Repository // nil unless the neo4j backend is selected
	Users       store.UserDirectory
	Connections store.ConnectionStore
	Cache       cache.Cache

	Notifications *social.NotificationService
	Connect       *social.ConnectionService
	Matching      *social.MatchingService
	Feed          *social.FeedService
	Sweeper       *social.Sweeper

	mu      sync.Mutex
	closers []namedCloser
	checks  map[string]func(context.Context) error
}

type namedCloser struct {
	name  string
	close func() error
}

// NewServiceManager opens every dependency named by cfg and wires the social services.
// On failure, anything already opened is closed before returning.
func NewServiceManager(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*ServiceManager, error) {
	sm := &ServiceManager{
		logger: logger.Named("services"),
		cfg:    cfg,
		checks: make(map[string]func(context.Context) error),
	}
	if err := sm.open(ctx); err != nil {
		sm.StopAll()
		return nil, err
	}

	opts := social.OptionsFromConfig(cfg)
	clock, ids := social.RealClock{}, social.UUIDGenerator{}
	sm.Notifications = social.NewNotificationService(sm.SQLite, clock, ids, opts, logger)
	sm.Connect = social.NewConnectionService(sm.Users, sm.Connections, sm.Notifications, sm.Cache, clock, ids, opts, logger)
	sm.Matching = social.NewMatchingService(sm.Users, sm.Connect, sm.Cache, opts, logger)
	sm.Feed = social.NewFeedService(sm.Users, sm.SQLite, sm.Connect, sm.Cache, clock, ids, opts, logger)
	sm.Sweeper = social.NewSweeper(sm.Notifications, cfg.NotificationSweepInterval, logger)

	return sm, nil
}

func (sm *ServiceManager) open(ctx context.Context) error {
	sqliteStore, err := store.NewSQLiteStore(sm.cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open sqlite store: %w", err)
	}
	sm.SQLite = sqliteStore
	sm.track("sqlite", sqliteStore.Close, sqliteStore.Ping)
	sm.Users, sm.Connections = sqliteStore, sqliteStore

	sm.logger.Info("SQLite store ready", zap.String("path", sm.cfg.DatabasePath))

	if sm.cfg.StoreBackend == config.StoreBackendNeo4j {
		driver, err := graph.NewDriver(ctx, sm.cfg.Neo4jURI, sm.cfg.Neo4jUser, sm.cfg.Neo4jPassword)
		if err != nil {
			return err
		}
		repo := graph.NewRepository(driver)
		sm.track("neo4j", repo.Close, repo.Ping)
		if err := repo.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("failed to ensure graph schema: %w", err)
		}
		sm.Graph = repo
		sm.Users, sm.Connections = repo, repo

		sm.logger.Info("Neo4j graph store ready", zap.String("uri", sm.cfg.Neo4jURI))
	}

	switch sm.cfg.CacheBackend {
	case config.CacheBackendRedis:
		rc := cache.NewRedisCache(cache.NewRedisClient(sm.cfg.RedisAddr, sm.cfg.RedisPassword, sm.cfg.RedisDB))
		sm.track("redis", rc.Close, rc.Ping)
		// an unreachable cache only degrades reads to the store
		if err := rc.Ping(ctx); err != nil {
			sm.logger.Warn("Redis not reachable, continuing without cache hits", zap.String("addr", sm.cfg.RedisAddr), zap.Error(err))
		}
		sm.Cache = rc
	default:
		sm.Cache = cache.NewMemoryCache()
	}

	return nil
}

func (sm *ServiceManager) track(name string, closeFn func() error, check func(context.Context) error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.closers = append(sm.closers, namedCloser{name: name, close: closeFn})
	if check != nil {
		sm.checks[name] = check
	}
}

// HealthChecks returns a probe per opened dependency.
func (sm *ServiceManager) HealthChecks() map[string]func(context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	out := make(map[string]func(context.Context) error, len(sm.checks))
	for name, check := range sm.checks {
		out[name] = check
	}
	return out
}

// StartAll starts the background workers.
func (sm *ServiceManager) StartAll(ctx context.Context) error {
	if err := sm.Sweeper.Start(ctx); err != nil {
		return fmt.Errorf("failed to start notification sweeper: %w", err)
	}
	return nil
}

// StopAll stops background workers and closes dependencies in reverse order of opening.
func (sm *ServiceManager) StopAll() {
	if sm.Sweeper != nil {
		sm.Sweeper.Stop()
	}

	sm.mu.Lock()
	closers := sm.closers
	sm.closers = nil
	sm.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].close(); err != nil {
				sm.logger.Warn("Failed to close dependency", zap.String("name", closers[i].name), zap.Error(err))
			}
		}
	}()

	select {
	case <-done:
		sm.logger.Info("All services stopped")
	case <-time.After(5 * time.Second):
		sm.logger.Warn("Services did not stop gracefully")
	}
}
