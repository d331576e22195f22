package social

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talent-nest/backend/internal/cache"
	"talent-nest/backend/internal/model"
	apperrors "talent-nest/backend/pkg/errors"
)

func matchIDs(matches []model.PeerMatch) []string {
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.User.ID)
	}
	return ids
}

func TestFindMatchingPeers_SingleSharedTech(t *testing.T) {
	h := newHarness(t)
	h.user(t, "a", "alice", "go", "rust")
	h.user(t, "b", "bob", "go", "python")

	matches, err := h.matching.FindMatchingPeers(context.Background(), "a")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "b", matches[0].User.ID)
	assert.Equal(t, []string{"go"}, matches[0].CommonTechs)
	assert.Equal(t, 1, matches[0].MatchCount)
}

func TestFindMatchingPeers_RanksByOverlap(t *testing.T) {
	h := newHarness(t)
	h.user(t, "a", "alice", "go", "rust", "k8s", "go")
	h.user(t, "b", "bob", "go")
	h.user(t, "c", "carol", "rust", "go", "k8s")
	h.user(t, "d", "dave", "k8s", "rust")
	h.user(t, "e", "aaron", "go")
	h.user(t, "f", "frank", "java")

	matches, err := h.matching.FindMatchingPeers(context.Background(), "a")
	require.NoError(t, err)

	// ties on count fall back to username
	assert.Equal(t, []string{"c", "d", "e", "b"}, matchIDs(matches))
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].MatchCount, matches[i].MatchCount)
	}
	// common techs follow the requester's order and count each tech once
	assert.Equal(t, []string{"go", "rust", "k8s"}, matches[0].CommonTechs)
	assert.Equal(t, 3, matches[0].MatchCount)
	assert.Equal(t, []string{"rust", "k8s"}, matches[1].CommonTechs)
}

func TestFindMatchingPeers_ExcludesAnyExistingRequest(t *testing.T) {
	h := newHarness(t, withOptions(func(o *Options) {
		o.AllowedCreationStatuses = []model.Status{model.StatusInterested, model.StatusIgnored}
	}))
	ctx := context.Background()
	h.user(t, "a", "alice", "go")
	h.user(t, "pending", "pat", "go")
	h.user(t, "accepted", "acc", "go")
	h.user(t, "rejected", "rex", "go")
	h.user(t, "ignored", "iggy", "go")
	h.user(t, "incoming", "ina", "go")
	h.user(t, "free", "fred", "go")

	h.send(t, "a", "pending")
	h.connect(t, "a", "accepted")
	rej := h.send(t, "a", "rejected")
	_, err := h.connections.RespondRequest(ctx, model.StatusRejected, rej.ID, "rejected")
	require.NoError(t, err)
	_, err = h.connections.SendRequest(ctx, "a", "ignored", model.StatusIgnored, model.PublicProfile{})
	require.NoError(t, err)
	h.send(t, "incoming", "a")

	matches, err := h.matching.FindMatchingPeers(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"free"}, matchIDs(matches))
}

func TestFindMatchingPeers_RequiresUserAndStack(t *testing.T) {
	h := newHarness(t)
	h.user(t, "empty", "emma")

	_, err := h.matching.FindMatchingPeers(context.Background(), "ghost")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound), "got %v", err)

	_, err = h.matching.FindMatchingPeers(context.Background(), "empty")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound), "got %v", err)
	assert.False(t, h.cache.Has(cache.MatchingPeersKey("empty")))
}

func TestFindMatchingPeers_CachedUntilGraphChanges(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.user(t, "a", "alice", "go")
	h.user(t, "b", "bob", "go")

	first, err := h.matching.FindMatchingPeers(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, matchIDs(first))

	h.user(t, "c", "carol", "go")
	cached, err := h.matching.FindMatchingPeers(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, matchIDs(cached))

	h.send(t, "a", "b")
	fresh, err := h.matching.FindMatchingPeers(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, matchIDs(fresh))
}

func TestFindMatchingPeers_StaleUntilTTLWhenGraphInvalidationDisabled(t *testing.T) {
	h := newHarness(t, withOptions(func(o *Options) { o.InvalidateOnGraphChange = false }))
	ctx := context.Background()
	h.user(t, "a", "alice", "go")
	h.user(t, "b", "bob", "go")

	_, err := h.matching.FindMatchingPeers(ctx, "a")
	require.NoError(t, err)
	h.send(t, "a", "b")

	stale, err := h.matching.FindMatchingPeers(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, matchIDs(stale))

	h.clock.Advance(DefaultOptions().MatchesTTL)
	fresh, err := h.matching.FindMatchingPeers(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, fresh)
}

func TestIntersect(t *testing.T) {
	assert.Equal(t, []string{"go", "sql"}, intersect([]string{"go", "rust", "sql"}, []string{"sql", "go", "java"}))
	assert.Empty(t, intersect([]string{"go"}, nil))
	assert.Equal(t, []string{"go", "rust"}, distinct([]string{"go", "", "rust", "go"}))
}
