package social

import (
	"context"
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"talent-nest/backend/internal/cache"
	"talent-nest/backend/internal/model"
	"talent-nest/backend/internal/store"
	apperrors "talent-nest/backend/pkg/errors"
)

// FeedService assembles feeds from accepted neighbors' posts and owns the post write
// path so every mutation invalidates the feeds that could contain it.
type FeedService struct {
	users       store.UserDirectory
	posts       store.PostStore
	connections *ConnectionService
	cache       cache.Cache
	clock       Clock
	ids         IDGenerator
	opts        Options
	logger      *zap.Logger
}

// NewFeedService creates a feed service.
func NewFeedService(
	users store.UserDirectory,
	posts store.PostStore,
	connections *ConnectionService,
	c cache.Cache,
	clock Clock,
	ids IDGenerator,
	opts Options,
	logger *zap.Logger,
) *FeedService {
	return &FeedService{
		users:       users,
		posts:       posts,
		connections: connections,
		cache:       c,
		clock:       clock,
		ids:         ids,
		opts:        opts,
		logger:      logger.Named("feed"),
	}
}

// GenerateFeed returns posts by userID's accepted neighbors, newest first. Private posts
// never appear in a feed.
func (s *FeedService) GenerateFeed(ctx context.Context, userID string) ([]model.FeedItem, error) {
	return cache.Fetch(ctx, s.cache, s.logger, cache.FeedKey(userID), s.opts.FeedTTL,
		func(ctx context.Context) ([]model.FeedItem, error) {
			return s.buildFeed(ctx, userID)
		})
}

func (s *FeedService) buildFeed(ctx context.Context, userID string) ([]model.FeedItem, error) {
	neighbors, err := s.connections.GetAcceptedNeighbors(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(neighbors) == 0 {
		return []model.FeedItem{}, nil
	}

	var (
		posts   []model.Post
		authors []model.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		posts, err = s.posts.FindByAuthors(gctx, neighbors)
		if err != nil {
			return apperrors.Store("failed to load feed posts", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		authors, err = s.users.FindByIDs(gctx, neighbors)
		if err != nil {
			return apperrors.Store("failed to load feed authors", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	profiles := make(map[string]model.PublicProfile, len(authors))
	for _, u := range authors {
		profiles[u.ID] = u.Public()
	}

	items := make([]model.FeedItem, 0, len(posts))
	for _, p := range posts {
		if p.Visibility == model.VisibilityPrivate {
			continue
		}
		author, ok := profiles[p.UserID]
		if !ok {
			continue
		}
		items = append(items, model.FeedItem{Post: p, Author: author})
	}
	sortNewestFirst(items)

	s.logger.Debug("Feed built",
		zap.String("user_id", userID),
		zap.Int("neighbors", len(neighbors)),
		zap.Int("items", len(items)),
	)
	return items, nil
}

// GetUserPosts lists userID's posts newest first as seen by viewerID. Private posts are
// visible only to their author; friends posts to the author and accepted neighbors.
func (s *FeedService) GetUserPosts(ctx context.Context, userID, viewerID string) ([]model.FeedItem, error) {
	owner, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NotFound("user %s not found", userID)
	}
	if err != nil {
		return nil, apperrors.Store("failed to look up user", err)
	}

	posts, err := s.posts.FindByAuthor(ctx, userID)
	if err != nil {
		return nil, apperrors.Store("failed to list posts", err)
	}

	isOwner := viewerID == userID
	friendsChecked, isFriend := false, false

	author := owner.Public()
	items := make([]model.FeedItem, 0, len(posts))
	for _, p := range posts {
		switch p.Visibility {
		case model.VisibilityPrivate:
			if !isOwner {
				continue
			}
		case model.VisibilityFriends:
			if !isOwner {
				if !friendsChecked {
					isFriend, err = s.areConnected(ctx, viewerID, userID)
					if err != nil {
						return nil, err
					}
					friendsChecked = true
				}
				if !isFriend {
					continue
				}
			}
		}
		items = append(items, model.FeedItem{Post: p, Author: author})
	}
	sortNewestFirst(items)
	return items, nil
}

func (s *FeedService) areConnected(ctx context.Context, a, b string) (bool, error) {
	if a == "" || a == b {
		return false, nil
	}
	req, err := s.connections.connections.FindRequestBetween(ctx, a, b)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.Store("failed to look up connection", err)
	}
	return req.Status == model.StatusAccepted, nil
}

// PostInput is the author-supplied part of a new post.
type PostInput struct {
	Content    string        `json:"content"`
	Media      []model.Media `json:"media"`
	Visibility string        `json:"visibility"`
}

// PublishPost validates and stores a post by authorID, then invalidates the feeds that
// may contain it.
func (s *FeedService) PublishPost(ctx context.Context, authorID string, in PostInput) (*model.Post, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" && len(in.Media) == 0 {
		return nil, apperrors.BadRequest("a post needs content or media")
	}
	visibility, ok := model.ParseVisibility(in.Visibility)
	if !ok {
		return nil, apperrors.BadRequest("invalid visibility: %s", in.Visibility)
	}
	media := make([]model.Media, 0, len(in.Media))
	for i, m := range in.Media {
		if strings.TrimSpace(m.URL) == "" {
			return nil, apperrors.BadRequest("media %d has no url", i)
		}
		if m.Kind != model.MediaImage && m.Kind != model.MediaVideo {
			return nil, apperrors.BadRequest("media %d has invalid kind: %s", i, m.Kind)
		}
		media = append(media, m)
	}

	now := s.clock.Now()
	post := &model.Post{
		ID:         s.ids.New(),
		UserID:     authorID,
		Content:    content,
		Media:      media,
		Likes:      []string{},
		Visibility: visibility,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, apperrors.Store("failed to create post", err)
	}

	s.logger.Info("Post published", zap.String("post_id", post.ID), zap.String("user_id", authorID))
	s.InvalidateAuthorFeeds(ctx, authorID)
	return post, nil
}

// RemovePost deletes a post. Only its author may delete it.
func (s *FeedService) RemovePost(ctx context.Context, postID, actingUserID string) error {
	post, err := s.posts.GetPost(ctx, postID)
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NotFound("post %s not found", postID)
	}
	if err != nil {
		return apperrors.Store("failed to get post", err)
	}
	if post.UserID != actingUserID {
		return apperrors.Unauthorized("only the author can delete this post")
	}

	err = s.posts.DeletePost(ctx, postID)
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NotFound("post %s not found", postID)
	}
	if err != nil {
		return apperrors.Store("failed to delete post", err)
	}

	s.logger.Info("Post removed", zap.String("post_id", postID), zap.String("user_id", actingUserID))
	s.InvalidateAuthorFeeds(ctx, post.UserID)
	return nil
}

// InvalidateAuthorFeeds drops the cached feed of authorID and of each accepted neighbor.
// It must run after every post create or delete.
func (s *FeedService) InvalidateAuthorFeeds(ctx context.Context, authorID string) {
	keys := []string{cache.FeedKey(authorID)}

	neighbors, err := s.connections.GetAcceptedNeighbors(ctx, authorID)
	if err != nil {
		s.logger.Warn("Could not resolve neighbors for feed invalidation",
			zap.String("user_id", authorID),
			zap.Error(err),
		)
	}
	for _, id := range neighbors {
		keys = append(keys, cache.FeedKey(id))
	}
	cache.Invalidate(ctx, s.cache, s.logger, keys...)
}

func sortNewestFirst(items []model.FeedItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
}
