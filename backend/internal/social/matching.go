package social

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"talent-nest/backend/internal/cache"
	"talent-nest/backend/internal/model"
	"talent-nest/backend/internal/store"
	apperrors "talent-nest/backend/pkg/errors"
)

// MatchingService suggests peers by tech stack overlap.
type MatchingService struct {
	users       store.UserDirectory
	connections *ConnectionService
	cache       cache.Cache
	opts        Options
	logger      *zap.Logger
}

// NewMatchingService creates a matching service.
func NewMatchingService(users store.UserDirectory, connections *ConnectionService, c cache.Cache, opts Options, logger *zap.Logger) *MatchingService {
	return &MatchingService{
		users:       users,
		connections: connections,
		cache:       c,
		opts:        opts,
		logger:      logger.Named("matching"),
	}
}

// FindMatchingPeers ranks users who share at least one technology with userID and have
// no connection request of any status with them. Results are ordered by match count,
// then username, then id.
func (s *MatchingService) FindMatchingPeers(ctx context.Context, userID string) ([]model.PeerMatch, error) {
	return cache.Fetch(ctx, s.cache, s.logger, cache.MatchingPeersKey(userID), s.opts.MatchesTTL,
		func(ctx context.Context) ([]model.PeerMatch, error) {
			return s.computeMatches(ctx, userID)
		})
}

func (s *MatchingService) computeMatches(ctx context.Context, userID string) ([]model.PeerMatch, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NotFound("user %s not found", userID)
	}
	if err != nil {
		return nil, apperrors.Store("failed to look up user", err)
	}

	stack := distinct(user.TechStack)
	if len(stack) == 0 {
		return nil, apperrors.NotFound("user %s has no tech stack to match on", userID)
	}

	involved, err := s.connections.involvedUsers(ctx, userID)
	if err != nil {
		return nil, err
	}
	excluded := make(map[string]struct{}, len(involved)+1)
	excluded[userID] = struct{}{}
	for _, id := range involved {
		excluded[id] = struct{}{}
	}

	candidates, err := s.users.FindByAnyTech(ctx, stack)
	if err != nil {
		return nil, apperrors.Store("failed to load match candidates", err)
	}

	matches := make([]model.PeerMatch, 0, len(candidates))
	for _, c := range candidates {
		if _, skip := excluded[c.ID]; skip {
			continue
		}
		common := intersect(stack, c.TechStack)
		if len(common) == 0 {
			continue
		}
		matches = append(matches, model.PeerMatch{
			User:        c.Public(),
			CommonTechs: common,
			MatchCount:  len(common),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.MatchCount != b.MatchCount {
			return a.MatchCount > b.MatchCount
		}
		if a.User.Username != b.User.Username {
			return a.User.Username < b.User.Username
		}
		return a.User.ID < b.User.ID
	})

	s.logger.Debug("Peer matches computed",
		zap.String("user_id", userID),
		zap.Int("candidates", len(candidates)),
		zap.Int("matches", len(matches)),
	)
	return matches, nil
}

// intersect returns the members of base also present in other, in base order.
func intersect(base, other []string) []string {
	set := make(map[string]struct{}, len(other))
	for _, t := range other {
		set[t] = struct{}{}
	}
	common := make([]string, 0)
	for _, t := range base {
		if _, ok := set[t]; ok {
			common = append(common, t)
		}
	}
	return common
}

func distinct(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it == "" {
			continue
		}
		if _, dup := seen[it]; dup {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}
