package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"talent-nest/backend/internal/model"
)

func (s *SQLiteStore) CreatePost(ctx context.Context, p *model.Post) error {
	media, err := encodeList(p.Media)
	if err != nil {
		return fmt.Errorf("failed to encode media of post %s: %w", p.ID, err)
	}
	likes, err := encodeList(p.Likes)
	if err != nil {
		return fmt.Errorf("failed to encode likes of post %s: %w", p.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO posts (id, user_id, content, media, likes, comments_count, visibility, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.Content, media, likes, p.CommentsCount, string(p.Visibility),
		toNanos(p.CreatedAt), toNanos(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetPost(ctx context.Context, id string) (*model.Post, error) {
	var row postRow
	err := s.db.GetContext(ctx, &row, "SELECT * FROM posts WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post %s: %w", id, err)
	}
	p, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *SQLiteStore) DeletePost(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete post %s: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) FindByAuthors(ctx context.Context, authorIDs []string) ([]model.Post, error) {
	if len(authorIDs) == 0 {
		return []model.Post{}, nil
	}
	query, args, err := sqlx.In(
		"SELECT * FROM posts WHERE user_id IN (?) ORDER BY created_at DESC, id DESC", authorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build post lookup: %w", err)
	}
	var rows []postRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list posts by %d authors: %w", len(authorIDs), err)
	}
	return postsToModel(rows)
}

func (s *SQLiteStore) FindByAuthor(ctx context.Context, authorID string) ([]model.Post, error) {
	var rows []postRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM posts WHERE user_id = ? ORDER BY created_at DESC, id DESC", authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts by %s: %w", authorID, err)
	}
	return postsToModel(rows)
}
