package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"talent-nest/backend/internal/model"
)

// UpsertUser inserts or replaces a profile. Profiles are owned by the account service;
// this exists for seeding and tests.
func (s *SQLiteStore) UpsertUser(ctx context.Context, u *model.User) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}
	stack, err := encodeList(u.TechStack)
	if err != nil {
		return fmt.Errorf("failed to encode tech stack of user %s: %w", u.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (
			id, first_name, last_name, username, email, gender, photo_url,
			tech_stack, experience_level, linked_in, github, domain,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			username = excluded.username,
			email = excluded.email,
			gender = excluded.gender,
			photo_url = excluded.photo_url,
			tech_stack = excluded.tech_stack,
			experience_level = excluded.experience_level,
			linked_in = excluded.linked_in,
			github = excluded.github,
			domain = excluded.domain,
			updated_at = excluded.updated_at`,
		u.ID, u.FirstName, u.LastName, u.Username, u.Email, u.Gender, u.PhotoURL,
		stack, u.ExperienceLevel, u.LinkedIn, u.GitHub, u.Domain,
		toNanos(u.CreatedAt), toNanos(u.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", u.ID, err)
	}
	return nil
}

// FindByID returns ErrNotFound when the user does not exist.
func (s *SQLiteStore) FindByID(ctx context.Context, id string) (*model.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, "SELECT * FROM users WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	u, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *SQLiteStore) FindByIDs(ctx context.Context, ids []string) ([]model.User, error) {
	if len(ids) == 0 {
		return []model.User{}, nil
	}
	query, args, err := sqlx.In("SELECT * FROM users WHERE id IN (?) ORDER BY id", ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build user lookup: %w", err)
	}
	return s.selectUsers(ctx, s.db.Rebind(query), args...)
}

func (s *SQLiteStore) FindByAnyTech(ctx context.Context, techs []string) ([]model.User, error) {
	if len(techs) == 0 {
		return []model.User{}, nil
	}
	query, args, err := sqlx.In(`
		SELECT * FROM users WHERE id IN (
			SELECT u.id FROM users u, json_each(u.tech_stack) t WHERE t.value IN (?)
		) ORDER BY id`, techs)
	if err != nil {
		return nil, fmt.Errorf("failed to build tech lookup: %w", err)
	}
	return s.selectUsers(ctx, s.db.Rebind(query), args...)
}

func (s *SQLiteStore) selectUsers(ctx context.Context, query string, args ...interface{}) ([]model.User, error) {
	var rows []userRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	users := make([]model.User, 0, len(rows))
	for _, row := range rows {
		u, err := row.toModel()
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}
