package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"talent-nest/backend/internal/model"
	"talent-nest/backend/internal/services"
	"talent-nest/backend/internal/social"
	apperrors "talent-nest/backend/pkg/errors"
)

type userWriter interface {
	UpsertUser(ctx context.Context, u *model.User) error
}

type seedSummary struct {
	Users    int
	Requests int
	Accepted int
	Posts    int
}

var seedUsers = []model.User{
	{ID: "seed-ada", FirstName: "Ada", LastName: "Lovelace", Username: "ada", TechStack: []string{"go", "postgres", "kubernetes"}, ExperienceLevel: "senior", Domain: "backend"},
	{ID: "seed-grace", FirstName: "Grace", LastName: "Hopper", Username: "grace", TechStack: []string{"go", "react", "docker"}, ExperienceLevel: "senior", Domain: "fullstack"},
	{ID: "seed-linus", FirstName: "Linus", LastName: "Torvalds", Username: "linus", TechStack: []string{"c", "rust", "docker"}, ExperienceLevel: "senior", Domain: "systems"},
	{ID: "seed-margaret", FirstName: "Margaret", LastName: "Hamilton", Username: "margaret", TechStack: []string{"python", "react"}, ExperienceLevel: "mid", Domain: "frontend"},
	{ID: "seed-ken", FirstName: "Ken", LastName: "Thompson", Username: "ken", TechStack: []string{"go", "c"}, ExperienceLevel: "senior", Domain: "systems"},
	{ID: "seed-barbara", FirstName: "Barbara", LastName: "Liskov", Username: "barbara", TechStack: []string{"kotlin", "postgres"}, ExperienceLevel: "junior", Domain: "mobile"},
}

// seedRequests are sent in order; accept marks the ones the recipient then accepts.
var seedRequests = []struct {
	from, to string
	accept   bool
}{
	{"seed-ada", "seed-grace", true},
	{"seed-ken", "seed-ada", true},
	{"seed-linus", "seed-grace", true},
	{"seed-margaret", "seed-grace", false},
	{"seed-barbara", "seed-ada", false},
}

var seedPosts = []struct {
	author     string
	content    string
	visibility model.Visibility
}{
	{"seed-grace", "Shipped a new build pipeline today, compile times cut in half.", model.VisibilityPublic},
	{"seed-ada", "Looking for a reviewer for a Postgres partitioning RFC.", model.VisibilityFriends},
	{"seed-ken", "Rewrote the scheduler in Go over the weekend.", model.VisibilityPublic},
	{"seed-linus", "Notes to self: bisect before blaming the compiler.", model.VisibilityPrivate},
}

// seed loads the sample data through the social services so notifications and cache
// invalidation happen as they would for real traffic. Running it twice is harmless.
func seed(ctx context.Context, sm *services.ServiceManager, log *zap.Logger) (seedSummary, error) {
	var summary seedSummary

	var users userWriter = sm.SQLite
	if sm.Graph != nil {
		users = sm.Graph
	}

	now := time.Now().UTC()
	profiles := make(map[string]model.PublicProfile, len(seedUsers))
	for _, u := range seedUsers {
		u := u
		u.Email = u.Username + "@talentnest.dev"
		u.CreatedAt, u.UpdatedAt = now, now
		if err := users.UpsertUser(ctx, &u); err != nil {
			return summary, fmt.Errorf("seeding user %s: %w", u.ID, err)
		}
		profiles[u.ID] = u.Public()
		summary.Users++
	}

	for _, r := range seedRequests {
		res, err := sm.Connect.SendRequest(ctx, r.from, r.to, model.StatusInterested, profiles[r.from])
		if apperrors.IsErrorType(err, apperrors.ErrorTypeConflict) {
			log.Debug("Request already seeded", zap.String("from", r.from), zap.String("to", r.to))
			continue
		}
		if err != nil {
			return summary, fmt.Errorf("seeding request %s -> %s: %w", r.from, r.to, err)
		}
		summary.Requests++

		if !r.accept {
			continue
		}
		if _, err := sm.Connect.RespondRequest(ctx, model.StatusAccepted, res.Request.ID, r.to); err != nil {
			return summary, fmt.Errorf("accepting request %s: %w", res.Request.ID, err)
		}
		summary.Accepted++
	}

	existing := make(map[string]bool)
	for _, p := range seedPosts {
		if _, seen := existing[p.author]; !seen {
			posts, err := sm.Feed.GetUserPosts(ctx, p.author, p.author)
			if err != nil {
				return summary, fmt.Errorf("listing posts of %s: %w", p.author, err)
			}
			existing[p.author] = len(posts) > 0
		}
		if existing[p.author] {
			continue
		}

		if _, err := sm.Feed.PublishPost(ctx, p.author, social.PostInput{Content: p.content, Visibility: string(p.visibility)}); err != nil {
			return summary, fmt.Errorf("seeding post by %s: %w", p.author, err)
		}
		summary.Posts++
	}

	log.Info("Seed complete",
		zap.Int("users", summary.Users),
		zap.Int("requests", summary.Requests),
		zap.Int("posts", summary.Posts),
	)
	return summary, nil
}
