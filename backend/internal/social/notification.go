package social

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"talent-nest/backend/internal/constants"
	"talent-nest/backend/internal/model"
	"talent-nest/backend/internal/store"
	apperrors "talent-nest/backend/pkg/errors"
)

// NotificationService creates and manages per-recipient notifications. Only the
// recipient may read or delete a notification.
type NotificationService struct {
	store  store.NotificationStore
	clock  Clock
	ids    IDGenerator
	opts   Options
	logger *zap.Logger
}

// NewNotificationService creates a notification service.
func NewNotificationService(s store.NotificationStore, clock Clock, ids IDGenerator, opts Options, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		store:  s,
		clock:  clock,
		ids:    ids,
		opts:   opts,
		logger: logger.Named("notifications"),
	}
}

// Create stores a new unread notification addressed to toUserID.
func (s *NotificationService) Create(ctx context.Context, fromUserID, toUserID, notificationType, title string) (*model.Notification, error) {
	now := s.clock.Now()
	n := &model.Notification{
		ID:         s.ids.New(),
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Type:       notificationType,
		Title:      title,
		Status:     model.NotificationUnread,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		return nil, apperrors.Store("failed to create notification", err)
	}

	s.logger.Debug("Notification created",
		zap.String("notification_id", n.ID),
		zap.String("to_user_id", toUserID),
		zap.String("type", notificationType),
	)
	return n, nil
}

// Page holds a page of notifications and the paging actually applied.
type Page struct {
	Items    []model.Notification `json:"items"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"pageSize"`
}

// List returns userID's notifications newest first. page starts at 1; pageSize is
// clamped to the configured maximum.
func (s *NotificationService) List(ctx context.Context, userID string, page, pageSize int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = constants.DefaultNotificationPageSize
	}
	if pageSize > s.opts.NotificationMaxPageSize {
		pageSize = s.opts.NotificationMaxPageSize
	}

	items, err := s.store.ListNotifications(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperrors.Store("failed to list notifications", err)
	}
	return &Page{Items: items, Page: page, PageSize: pageSize}, nil
}

// CountUnread returns the number of unread notifications for userID.
func (s *NotificationService) CountUnread(ctx context.Context, userID string) (int64, error) {
	count, err := s.store.CountUnread(ctx, userID)
	if err != nil {
		return 0, apperrors.Store("failed to count unread notifications", err)
	}
	return count, nil
}

// MarkRead moves one notification to read. Marking an already read notification is a
// Conflict so callers can tell a no-op from a state change.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID string) (*model.Notification, error) {
	n, err := s.owned(ctx, notificationID, userID)
	if err != nil {
		return nil, err
	}
	if n.Status == model.NotificationRead {
		return nil, apperrors.Conflict("notification %s is already read", notificationID)
	}

	now := s.clock.Now()
	changed, err := s.store.MarkNotificationRead(ctx, notificationID, now)
	if err != nil {
		return nil, apperrors.Store("failed to mark notification read", err)
	}
	if !changed {
		// marked read concurrently between the lookup and the update
		return nil, apperrors.Conflict("notification %s is already read", notificationID)
	}

	n.Status = model.NotificationRead
	n.UpdatedAt = now
	return n, nil
}

// MarkAllRead moves every unread notification of userID to read and returns how many changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	count, err := s.store.MarkAllNotificationsRead(ctx, userID, s.clock.Now())
	if err != nil {
		return 0, apperrors.Store("failed to mark notifications read", err)
	}
	if count > 0 {
		s.logger.Debug("Notifications marked read", zap.String("user_id", userID), zap.Int64("count", count))
	}
	return count, nil
}

// Delete removes a notification owned by userID.
func (s *NotificationService) Delete(ctx context.Context, notificationID, userID string) error {
	if _, err := s.owned(ctx, notificationID, userID); err != nil {
		return err
	}
	err := s.store.DeleteNotification(ctx, notificationID)
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NotFound("notification %s not found", notificationID)
	}
	if err != nil {
		return apperrors.Store("failed to delete notification", err)
	}
	return nil
}

// SweepExpired deletes read notifications whose last update is older than the retention window.
func (s *NotificationService) SweepExpired(ctx context.Context) (int64, error) {
	cutoff := s.clock.Now().Add(-s.opts.NotificationRetention)
	deleted, err := s.store.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		return 0, apperrors.Store("failed to sweep notifications", err)
	}
	if deleted > 0 {
		s.logger.Info("Expired notifications swept",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff),
		)
	}
	return deleted, nil
}

func (s *NotificationService) owned(ctx context.Context, notificationID, userID string) (*model.Notification, error) {
	n, err := s.store.GetNotification(ctx, notificationID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NotFound("notification %s not found", notificationID)
	}
	if err != nil {
		return nil, apperrors.Store("failed to get notification", err)
	}
	if n.ToUserID != userID {
		return nil, apperrors.Unauthorized("notification %s belongs to another user", notificationID)
	}
	return n, nil
}

func (s *NotificationService) retention() time.Duration {
	return s.opts.NotificationRetention
}
