package social

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"talent-nest/backend/internal/cache"
	"talent-nest/backend/internal/constants"
	"talent-nest/backend/internal/model"
	"talent-nest/backend/internal/store"
	apperrors "talent-nest/backend/pkg/errors"
)

// ConnectionService owns the connection request state machine. It is the only writer
// of the connection store.
type ConnectionService struct {
	users         store.UserDirectory
	connections   store.ConnectionStore
	notifications *NotificationService
	cache         cache.Cache
	clock         Clock
	ids           IDGenerator
	opts          Options
	logger        *zap.Logger
}

// NewConnectionService creates a connection service.
func NewConnectionService(
	users store.UserDirectory,
	connections store.ConnectionStore,
	notifications *NotificationService,
	c cache.Cache,
	clock Clock,
	ids IDGenerator,
	opts Options,
	logger *zap.Logger,
) *ConnectionService {
	return &ConnectionService{
		users:         users,
		connections:   connections,
		notifications: notifications,
		cache:         c,
		clock:         clock,
		ids:           ids,
		opts:          opts,
		logger:        logger.Named("connections"),
	}
}

// SendResult is the outcome of SendRequest. Notification is nil when none was raised.
type SendResult struct {
	Request      *model.ConnectionRequest `json:"request"`
	Notification *model.Notification      `json:"notification,omitempty"`
}

// SendRequest creates a request from fromUserID to toUserID with the initiator's chosen status.
func (s *ConnectionService) SendRequest(ctx context.Context, fromUserID, toUserID string, status model.Status, actor model.PublicProfile) (*SendResult, error) {
	if fromUserID == toUserID {
		return nil, apperrors.BadRequest("cannot send a connection request to yourself")
	}
	if !s.opts.allowsCreation(status) {
		return nil, apperrors.BadRequest("invalid status type: %s", status)
	}

	if _, err := s.users.FindByID(ctx, toUserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("user %s not found", toUserID)
		}
		return nil, apperrors.Store("failed to look up user", err)
	}

	existing, err := s.connections.FindRequestBetween(ctx, fromUserID, toUserID)
	switch {
	case err == nil:
		return nil, apperrors.Conflict("a connection request already exists between these users (%s)", existing.Status)
	case !errors.Is(err, store.ErrNotFound):
		return nil, apperrors.Store("failed to check existing requests", err)
	}

	now := s.clock.Now()
	req := &model.ConnectionRequest{
		ID:         s.ids.New(),
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	// the pre-check above is advisory; the store's pair constraint is authoritative
	if err := s.connections.CreateRequest(ctx, req); err != nil {
		if errors.Is(err, store.ErrDuplicatePair) {
			return nil, apperrors.Conflict("a connection request already exists between these users")
		}
		return nil, apperrors.Store("failed to create connection request", err)
	}

	s.logger.Info("Connection request sent",
		zap.String("request_id", req.ID),
		zap.String("from_user_id", fromUserID),
		zap.String("to_user_id", toUserID),
		zap.String("status", string(status)),
	)

	result := &SendResult{Request: req}
	if status == model.StatusInterested {
		title := fmt.Sprintf("%s sent you a connection request", actor.DisplayName())
		n, err := s.notifications.Create(ctx, fromUserID, toUserID, constants.NotificationTypeConnectionRequest, title)
		if err != nil {
			// the request is already durable; a missing notification is not worth failing it
			s.logger.Error("Failed to create request notification",
				zap.String("request_id", req.ID),
				zap.Error(err),
			)
		}
		result.Notification = n
	}

	s.invalidateGraph(ctx, fromUserID, toUserID)
	return result, nil
}

// RespondRequest lets the recipient accept or reject a pending request.
func (s *ConnectionService) RespondRequest(ctx context.Context, newStatus model.Status, requestID, actingUserID string) (*model.ConnectionRequest, error) {
	req, err := s.connections.GetRequest(ctx, requestID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NotFound("connection request %s not found", requestID)
	}
	if err != nil {
		return nil, apperrors.Store("failed to get connection request", err)
	}

	if req.ToUserID != actingUserID {
		return nil, apperrors.Unauthorized("only the recipient can respond to this request")
	}
	if !newStatus.IsResolution() {
		return nil, apperrors.BadRequest("invalid status type: %s", newStatus)
	}
	if req.Status != model.StatusInterested {
		return nil, apperrors.BadRequest("connection request already %s", req.Status)
	}

	now := s.clock.Now()
	err = s.connections.UpdateRequestStatus(ctx, requestID, model.StatusInterested, newStatus, now)
	switch {
	case errors.Is(err, store.ErrStaleStatus):
		return nil, apperrors.BadRequest("connection request was already resolved")
	case errors.Is(err, store.ErrNotFound):
		return nil, apperrors.NotFound("connection request %s not found", requestID)
	case err != nil:
		return nil, apperrors.Store("failed to update connection request", err)
	}
	req.Status = newStatus
	req.UpdatedAt = now

	s.logger.Info("Connection request answered",
		zap.String("request_id", requestID),
		zap.String("status", string(newStatus)),
	)

	if newStatus == model.StatusAccepted {
		s.notifyAccepted(ctx, req)
	}

	s.invalidateGraph(ctx, req.FromUserID, req.ToUserID)
	return req, nil
}

func (s *ConnectionService) notifyAccepted(ctx context.Context, req *model.ConnectionRequest) {
	name := model.PublicProfile{}.DisplayName()
	if accepter, err := s.users.FindByID(ctx, req.ToUserID); err == nil {
		name = accepter.Public().DisplayName()
	} else {
		s.logger.Warn("Accepting user not found for notification", zap.String("user_id", req.ToUserID), zap.Error(err))
	}

	title := fmt.Sprintf("%s accepted your connection request", name)
	if _, err := s.notifications.Create(ctx, req.ToUserID, req.FromUserID, constants.NotificationTypeConnectionRequest, title); err != nil {
		s.logger.Error("Failed to create acceptance notification",
			zap.String("request_id", req.ID),
			zap.Error(err),
		)
	}
}

// GetReceivedPending lists open requests addressed to userID, newest first, joined with
// the initiator's public profile. Requests from users that no longer exist are skipped.
func (s *ConnectionService) GetReceivedPending(ctx context.Context, userID string) ([]model.PendingRequest, error) {
	requests, err := s.connections.ListReceived(ctx, userID, model.StatusInterested)
	if err != nil {
		return nil, apperrors.Store("failed to list received requests", err)
	}
	if len(requests) == 0 {
		return []model.PendingRequest{}, nil
	}

	ids := make([]string, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, r.FromUserID)
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.Store("failed to load request senders", err)
	}
	profiles := make(map[string]model.PublicProfile, len(users))
	for _, u := range users {
		profiles[u.ID] = u.Public()
	}

	pending := make([]model.PendingRequest, 0, len(requests))
	for _, r := range requests {
		from, ok := profiles[r.FromUserID]
		if !ok {
			continue
		}
		pending = append(pending, model.PendingRequest{ConnectionRequest: r, From: from})
	}
	return pending, nil
}

// GetAcceptedNeighbors returns the sorted ids of every user with an accepted request
// to or from userID.
func (s *ConnectionService) GetAcceptedNeighbors(ctx context.Context, userID string) ([]string, error) {
	return cache.Fetch(ctx, s.cache, s.logger, cache.ConnectionsKey(userID), s.opts.ConnectionsTTL,
		func(ctx context.Context) ([]string, error) {
			requests, err := s.connections.ListInvolving(ctx, userID, model.StatusAccepted)
			if err != nil {
				return nil, apperrors.Store("failed to list accepted connections", err)
			}
			return counterparties(userID, requests), nil
		})
}

// ConnectionStatus describes how viewerID relates to otherID.
func (s *ConnectionService) ConnectionStatus(ctx context.Context, viewerID, otherID string) (*model.ConnectionState, error) {
	if viewerID == otherID {
		return nil, apperrors.BadRequest("cannot look up a connection with yourself")
	}

	req, err := s.connections.FindRequestBetween(ctx, viewerID, otherID)
	if errors.Is(err, store.ErrNotFound) {
		return &model.ConnectionState{Relation: model.RelationNone}, nil
	}
	if err != nil {
		return nil, apperrors.Store("failed to look up connection", err)
	}

	state := &model.ConnectionState{RequestID: req.ID}
	switch req.Status {
	case model.StatusInterested:
		state.Relation = model.RelationPending
		if req.ToUserID == viewerID {
			state.Relation = model.RelationReceived
		}
	case model.StatusAccepted:
		state.Relation = model.RelationConnected
	case model.StatusRejected:
		state.Relation = model.RelationRejected
	case model.StatusIgnored:
		state.Relation = model.RelationIgnored
	}
	return state, nil
}

// involvedUsers returns every user sharing a request of any status with userID.
func (s *ConnectionService) involvedUsers(ctx context.Context, userID string) ([]string, error) {
	requests, err := s.connections.ListInvolving(ctx, userID)
	if err != nil {
		return nil, apperrors.Store("failed to list connection requests", err)
	}
	return counterparties(userID, requests), nil
}

func (s *ConnectionService) invalidateGraph(ctx context.Context, a, b string) {
	keys := []string{
		cache.ConnectionsKey(a), cache.ConnectionsKey(b),
		cache.FeedKey(a), cache.FeedKey(b),
	}
	if s.opts.InvalidateOnGraphChange {
		keys = append(keys, cache.MatchingPeersKey(a), cache.MatchingPeersKey(b))
	}
	cache.Invalidate(ctx, s.cache, s.logger, keys...)
}

func counterparties(userID string, requests []model.ConnectionRequest) []string {
	seen := make(map[string]struct{}, len(requests))
	ids := make([]string, 0, len(requests))
	for _, r := range requests {
		other := r.Counterparty(userID)
		if other == "" {
			continue
		}
		if _, dup := seen[other]; dup {
			continue
		}
		seen[other] = struct{}{}
		ids = append(ids, other)
	}
	sort.Strings(ids)
	return ids
}
