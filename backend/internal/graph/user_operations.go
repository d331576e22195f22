package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"talent-nest/backend/internal/model"
	"talent-nest/backend/internal/store"
)

// UpsertUser creates or replaces a user's profile properties. Used by seeding and tests.
func (r *Repository) UpsertUser(ctx context.Context, u *model.User) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}
	techStack := u.TechStack
	if techStack == nil {
		techStack = []string{}
	}

	query := `
		MERGE (u:User {id: $id})
		ON CREATE SET u.created_at = datetime($createdAt)
		SET u.first_name = $firstName,
		    u.last_name = $lastName,
		    u.username = $username,
		    u.email = $email,
		    u.gender = $gender,
		    u.photo_url = $photoURL,
		    u.tech_stack = $techStack,
		    u.experience_level = $experienceLevel,
		    u.linked_in = $linkedIn,
		    u.github = $github,
		    u.domain = $domain,
		    u.updated_at = datetime($updatedAt)
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"id":              u.ID,
		"firstName":       u.FirstName,
		"lastName":        u.LastName,
		"username":        u.Username,
		"email":           u.Email,
		"gender":          u.Gender,
		"photoURL":        u.PhotoURL,
		"techStack":       techStack,
		"experienceLevel": u.ExperienceLevel,
		"linkedIn":        u.LinkedIn,
		"github":          u.GitHub,
		"domain":          u.Domain,
		"createdAt":       formatTime(u.CreatedAt),
		"updatedAt":       formatTime(u.UpdatedAt),
	})
	if err == nil {
		_, err = result.Consume(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", u.ID, err)
	}

	r.logger.Debug("User upserted", zap.String("user_id", u.ID))
	return nil
}

// FindByID returns store.ErrNotFound when no profile exists. Nodes created only as
// request endpoints have no username and count as missing.
func (r *Repository) FindByID(ctx context.Context, id string) (*model.User, error) {
	users, err := r.queryUsers(ctx, `
		MATCH (u:User {id: $id})
		WHERE u.username IS NOT NULL
		RETURN `+userColumns, map[string]interface{}{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	if len(users) == 0 {
		return nil, store.ErrNotFound
	}
	return &users[0], nil
}

func (r *Repository) FindByIDs(ctx context.Context, ids []string) ([]model.User, error) {
	if len(ids) == 0 {
		return []model.User{}, nil
	}
	users, err := r.queryUsers(ctx, `
		MATCH (u:User)
		WHERE u.id IN $ids AND u.username IS NOT NULL
		RETURN `+userColumns+`
		ORDER BY u.id`, map[string]interface{}{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("failed to get %d users: %w", len(ids), err)
	}
	return users, nil
}

func (r *Repository) queryUsers(ctx context.Context, query string, params map[string]interface{}) ([]model.User, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}

	users := []model.User{}
	for result.Next(ctx) {
		users = append(users, userFromRecord(result.Record()))
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	return users, nil
}
