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

// CreateRequest links both users through a new request node. The pair_key constraint
// rejects a second request for the same unordered pair.
func (r *Repository) CreateRequest(ctx context.Context, req *model.ConnectionRequest) error {
	if req.FromUserID == req.ToUserID {
		return fmt.Errorf("failed to create connection request: user %s cannot connect to themselves", req.FromUserID)
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MERGE (f:User {id: $fromUserID})
		MERGE (t:User {id: $toUserID})
		CREATE (f)-[:SENT]->(r:ConnectionRequest {
			id: $id,
			from_user_id: $fromUserID,
			to_user_id: $toUserID,
			pair_key: $pairKey,
			status: $status,
			created_at: datetime($createdAt),
			updated_at: datetime($updatedAt)
		})-[:TO]->(t)
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"id":         req.ID,
		"fromUserID": req.FromUserID,
		"toUserID":   req.ToUserID,
		"pairKey":    model.PairKey(req.FromUserID, req.ToUserID),
		"status":     string(req.Status),
		"createdAt":  formatTime(req.CreatedAt),
		"updatedAt":  formatTime(req.UpdatedAt),
	})
	if err == nil {
		// constraint violations surface when the result is consumed
		_, err = result.Consume(ctx)
	}
	if isConstraintViolation(err) {
		return store.ErrDuplicatePair
	}
	if err != nil {
		return fmt.Errorf("failed to create connection request: %w", err)
	}

	r.logger.Info("Connection request created",
		zap.String("request_id", req.ID),
		zap.String("from_user_id", req.FromUserID),
		zap.String("to_user_id", req.ToUserID),
		zap.String("status", string(req.Status)),
	)
	return nil
}

func (r *Repository) GetRequest(ctx context.Context, id string) (*model.ConnectionRequest, error) {
	requests, err := r.queryRequests(ctx, `
		MATCH (r:ConnectionRequest {id: $id})
		RETURN `+requestColumns, map[string]interface{}{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to get connection request %s: %w", id, err)
	}
	if len(requests) == 0 {
		return nil, store.ErrNotFound
	}
	return &requests[0], nil
}

func (r *Repository) FindRequestBetween(ctx context.Context, a, b string) (*model.ConnectionRequest, error) {
	requests, err := r.queryRequests(ctx, `
		MATCH (r:ConnectionRequest {pair_key: $pairKey})
		RETURN `+requestColumns, map[string]interface{}{"pairKey": model.PairKey(a, b)})
	if err != nil {
		return nil, fmt.Errorf("failed to find connection request between %s and %s: %w", a, b, err)
	}
	if len(requests) == 0 {
		return nil, store.ErrNotFound
	}
	return &requests[0], nil
}

// UpdateRequestStatus only writes when the stored status still equals from.
func (r *Repository) UpdateRequestStatus(ctx context.Context, id string, from, to model.Status, at time.Time) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MATCH (r:ConnectionRequest {id: $id})
		WITH r, r.status = $from as matched
		SET r.status = CASE WHEN matched THEN $to ELSE r.status END,
		    r.updated_at = CASE WHEN matched THEN datetime($at) ELSE r.updated_at END
		RETURN matched
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"id":   id,
		"from": string(from),
		"to":   string(to),
		"at":   formatTime(at),
	})
	if err != nil {
		return fmt.Errorf("failed to update connection request %s: %w", id, err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return fmt.Errorf("failed to update connection request %s: %w", id, err)
		}
		return store.ErrNotFound
	}
	if !getBoolFromRecord(result.Record(), "matched") {
		return store.ErrStaleStatus
	}

	r.logger.Info("Connection request updated",
		zap.String("request_id", id),
		zap.String("status", string(to)),
	)
	return nil
}

func (r *Repository) ListReceived(ctx context.Context, userID string, status model.Status) ([]model.ConnectionRequest, error) {
	requests, err := r.queryRequests(ctx, `
		MATCH (:User {id: $userID})<-[:TO]-(r:ConnectionRequest {status: $status})
		RETURN `+requestColumns+`
		ORDER BY r.created_at DESC, r.id DESC`,
		map[string]interface{}{"userID": userID, "status": string(status)})
	if err != nil {
		return nil, fmt.Errorf("failed to list received requests for %s: %w", userID, err)
	}
	return requests, nil
}

func (r *Repository) ListInvolving(ctx context.Context, userID string, statuses ...model.Status) ([]model.ConnectionRequest, error) {
	raw := make([]string, len(statuses))
	for i, st := range statuses {
		raw[i] = string(st)
	}

	requests, err := r.queryRequests(ctx, `
		MATCH (:User {id: $userID})-[:SENT|TO]-(r:ConnectionRequest)
		WHERE size($statuses) = 0 OR r.status IN $statuses
		RETURN DISTINCT `+requestColumns+`
		ORDER BY created_at DESC, id DESC`,
		map[string]interface{}{"userID": userID, "statuses": raw})
	if err != nil {
		return nil, fmt.Errorf("failed to list requests involving %s: %w", userID, err)
	}
	return requests, nil
}

func (r *Repository) queryRequests(ctx context.Context, query string, params map[string]interface{}) ([]model.ConnectionRequest, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}

	requests := []model.ConnectionRequest{}
	for result.Next(ctx) {
		requests = append(requests, requestFromRecord(result.Record()))
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	return requests, nil
}
