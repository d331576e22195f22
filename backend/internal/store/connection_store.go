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

// CreateRequest relies on the unique pair_key column, so two concurrent requests for the
// same pair cannot both be stored.
func (s *SQLiteStore) CreateRequest(ctx context.Context, req *model.ConnectionRequest) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO connection_requests (id, from_user_id, to_user_id, pair_key, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		req.ID, req.FromUserID, req.ToUserID, model.PairKey(req.FromUserID, req.ToUserID),
		string(req.Status), toNanos(req.CreatedAt), toNanos(req.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return ErrDuplicatePair
	}
	if err != nil {
		return fmt.Errorf("failed to create connection request: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetRequest(ctx context.Context, id string) (*model.ConnectionRequest, error) {
	var row requestRow
	err := s.db.GetContext(ctx, &row, "SELECT * FROM connection_requests WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get connection request %s: %w", id, err)
	}
	req := row.toModel()
	return &req, nil
}

func (s *SQLiteStore) FindRequestBetween(ctx context.Context, a, b string) (*model.ConnectionRequest, error) {
	var row requestRow
	err := s.db.GetContext(ctx, &row, "SELECT * FROM connection_requests WHERE pair_key = ?", model.PairKey(a, b))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find connection request between %s and %s: %w", a, b, err)
	}
	req := row.toModel()
	return &req, nil
}

func (s *SQLiteStore) UpdateRequestStatus(ctx context.Context, id string, from, to model.Status, at time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE connection_requests SET status = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		string(to), toNanos(at), id, string(from),
	)
	if err != nil {
		return fmt.Errorf("failed to update connection request %s: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n > 0 {
		return nil
	}

	var exists int
	err = s.db.GetContext(ctx, &exists, "SELECT COUNT(*) FROM connection_requests WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to check connection request %s: %w", id, err)
	}
	if exists == 0 {
		return ErrNotFound
	}
	return ErrStaleStatus
}

func (s *SQLiteStore) ListReceived(ctx context.Context, userID string, status model.Status) ([]model.ConnectionRequest, error) {
	var rows []requestRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT * FROM connection_requests
		WHERE to_user_id = ? AND status = ?
		ORDER BY created_at DESC, id DESC`,
		userID, string(status),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list received requests for %s: %w", userID, err)
	}
	return requestsToModel(rows), nil
}

func (s *SQLiteStore) ListInvolving(ctx context.Context, userID string, statuses ...model.Status) ([]model.ConnectionRequest, error) {
	query := "SELECT * FROM connection_requests WHERE (from_user_id = ? OR to_user_id = ?)"
	args := []interface{}{userID, userID}

	if len(statuses) > 0 {
		raw := make([]string, len(statuses))
		for i, st := range statuses {
			raw[i] = string(st)
		}
		filter, filterArgs, err := sqlx.In(" AND status IN (?)", raw)
		if err != nil {
			return nil, fmt.Errorf("failed to build status filter: %w", err)
		}
		query += filter
		args = append(args, filterArgs...)
	}
	query += " ORDER BY created_at DESC, id DESC"

	var rows []requestRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list requests involving %s: %w", userID, err)
	}
	return requestsToModel(rows), nil
}
