package social

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talent-nest/backend/internal/cache"
	"talent-nest/backend/internal/model"
	apperrors "talent-nest/backend/pkg/errors"
)

func feedIDs(items []model.FeedItem) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}

func TestGenerateFeed_OnlyNeighborsNewestFirst(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.user(t, "a", "alice")
	h.user(t, "b", "bob", "go")
	h.user(t, "c", "carol")
	h.user(t, "d", "dave")
	h.connect(t, "a", "b")
	h.connect(t, "c", "a")
	h.send(t, "a", "d")

	oldB := h.post(t, "b", "first", model.VisibilityPublic)
	cPost := h.post(t, "c", "friends only", model.VisibilityFriends)
	h.post(t, "c", "just me", model.VisibilityPrivate)
	h.post(t, "d", "not a neighbor yet", model.VisibilityPublic)
	h.post(t, "a", "my own post", model.VisibilityPublic)
	newB := h.post(t, "b", "second", model.VisibilityPublic)

	feed, err := h.feed.GenerateFeed(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{newB.ID, cPost.ID, oldB.ID}, feedIDs(feed))

	for i := 1; i < len(feed); i++ {
		assert.False(t, feed[i].CreatedAt.After(feed[i-1].CreatedAt))
	}
	assert.Equal(t, "bob", feed[0].Author.Username)
	assert.Equal(t, []string{"go"}, feed[0].Author.TechStack)
}

func TestGenerateFeed_NoNeighbors(t *testing.T) {
	h := newHarness(t)
	h.user(t, "a", "alice")

	feed, err := h.feed.GenerateFeed(context.Background(), "a")
	require.NoError(t, err)
	assert.NotNil(t, feed)
	assert.Empty(t, feed)
}

func TestGenerateFeed_InvalidatedByNeighborPost(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.user(t, "a", "alice")
	h.user(t, "b", "bob")
	h.connect(t, "a", "b")
	h.post(t, "b", "before", model.VisibilityPublic)

	first, err := h.feed.GenerateFeed(ctx, "a")
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.True(t, h.cache.Has(cache.FeedKey("a")))

	fresh, err := h.feed.PublishPost(ctx, "b", PostInput{Content: "after"})
	require.NoError(t, err)
	assert.False(t, h.cache.Has(cache.FeedKey("a")))
	assert.False(t, h.cache.Has(cache.FeedKey("b")))

	// recomputed within the same instant
	second, err := h.feed.GenerateFeed(ctx, "a")
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, fresh.ID, second[0].ID)

	require.NoError(t, h.feed.RemovePost(ctx, fresh.ID, "b"))
	assert.False(t, h.cache.Has(cache.FeedKey("a")))

	third, err := h.feed.GenerateFeed(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, third, 1)
}

func TestGenerateFeed_NewConnectionRefreshesFeed(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.user(t, "a", "alice")
	h.user(t, "b", "bob")
	h.post(t, "b", "old post", model.VisibilityPublic)

	empty, err := h.feed.GenerateFeed(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, empty)

	h.connect(t, "b", "a")

	feed, err := h.feed.GenerateFeed(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, feed, 1)
}

func TestRemovePost_OnlyAuthor(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.user(t, "a", "alice")
	h.user(t, "b", "bob")
	p := h.post(t, "a", "mine", model.VisibilityPublic)

	err := h.feed.RemovePost(ctx, p.ID, "b")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeUnauthorized), "got %v", err)

	_, err = h.store.GetPost(ctx, p.ID)
	assert.NoError(t, err)

	err = h.feed.RemovePost(ctx, "missing", "a")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound), "got %v", err)
}

func TestPublishPost_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input PostInput
		ok    bool
	}{
		{name: "content only", input: PostInput{Content: "hello"}, ok: true},
		{name: "media only", input: PostInput{Media: []model.Media{{URL: "https://cdn/x.mp4", Kind: model.MediaVideo, StorageID: "x"}}}, ok: true},
		{name: "friends visibility", input: PostInput{Content: "hi", Visibility: "friends"}, ok: true},
		{name: "empty", input: PostInput{Content: "   "}},
		{name: "bad visibility", input: PostInput{Content: "hi", Visibility: "everyone"}},
		{name: "media without url", input: PostInput{Media: []model.Media{{Kind: model.MediaImage}}}},
		{name: "media with bad kind", input: PostInput{Media: []model.Media{{URL: "https://cdn/x.gif", Kind: "gif"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.user(t, "a", "alice")

			p, err := h.feed.PublishPost(context.Background(), "a", tt.input)
			if !tt.ok {
				assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeBadRequest), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "a", p.UserID)
			assert.NotEmpty(t, p.Visibility)
			assert.NotNil(t, p.Likes)
		})
	}
}

func TestPublishPost_DefaultsToPublic(t *testing.T) {
	h := newHarness(t)
	h.user(t, "a", "alice")

	p, err := h.feed.PublishPost(context.Background(), "a", PostInput{Content: "  trimmed  "})
	require.NoError(t, err)
	assert.Equal(t, model.VisibilityPublic, p.Visibility)
	assert.Equal(t, "trimmed", p.Content)
	assert.Equal(t, t0, p.CreatedAt)
}

func TestGetUserPosts_Visibility(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.user(t, "owner", "olive")
	h.user(t, "friend", "fran")
	h.user(t, "stranger", "sam")
	h.connect(t, "owner", "friend")

	public := h.post(t, "owner", "public", model.VisibilityPublic)
	friends := h.post(t, "owner", "friends", model.VisibilityFriends)
	private := h.post(t, "owner", "private", model.VisibilityPrivate)

	tests := []struct {
		viewer string
		want   []string
	}{
		{"owner", []string{private.ID, friends.ID, public.ID}},
		{"friend", []string{friends.ID, public.ID}},
		{"stranger", []string{public.ID}},
		{"", []string{public.ID}},
	}
	for _, tt := range tests {
		items, err := h.feed.GetUserPosts(ctx, "owner", tt.viewer)
		require.NoError(t, err)
		assert.Equal(t, tt.want, feedIDs(items), "viewer %q", tt.viewer)
	}

	items, err := h.feed.GetUserPosts(ctx, "owner", "owner")
	require.NoError(t, err)
	assert.Equal(t, "olive", items[0].Author.Username)
	assert.False(t, h.cache.Has(cache.FeedKey("owner")))

	_, err = h.feed.GetUserPosts(ctx, "ghost", "owner")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestInvalidateAuthorFeeds_BrokenCacheDoesNotFail(t *testing.T) {
	h := newHarness(t, withCache(brokenCache{}))
	h.user(t, "a", "alice")
	h.user(t, "b", "bob")
	h.connect(t, "a", "b")

	p, err := h.feed.PublishPost(context.Background(), "a", PostInput{Content: "still works"})
	require.NoError(t, err)

	feed, err := h.feed.GenerateFeed(context.Background(), "b")
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, p.ID, feed[0].ID)
}

func TestSortNewestFirst_TieBreaksOnID(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	items := []model.FeedItem{
		{Post: model.Post{ID: "p1", CreatedAt: at}},
		{Post: model.Post{ID: "p3", CreatedAt: at}},
		{Post: model.Post{ID: "p2", CreatedAt: at.Add(time.Second)}},
	}
	sortNewestFirst(items)
	assert.Equal(t, []string{"p2", "p3", "p1"}, feedIDs(items))
}
