package store

import (
	"context"
	"errors"
	"time"

	"talent-nest/backend/internal/model"
)

var (
	// ErrNotFound is returned when the referenced record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicatePair is returned when a connection request already exists for the unordered pair.
	ErrDuplicatePair = errors.New("connection request already exists for pair")
	// ErrStaleStatus is returned by conditional updates when the record moved on before the write.
	ErrStaleStatus = errors.New("record status changed concurrently")
)

// UserDirectory is the read-only view of user profiles.
type UserDirectory interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	// FindByIDs returns the users that exist among ids; missing ids are skipped.
	FindByIDs(ctx context.Context, ids []string) ([]model.User, error)
	// FindByAnyTech returns every user whose tech stack contains at least one of techs.
	FindByAnyTech(ctx context.Context, techs []string) ([]model.User, error)
}

// ConnectionStore is the source of truth for connection requests.
type ConnectionStore interface {
	// CreateRequest persists req, returning ErrDuplicatePair if any request exists for
	// the unordered pair.
	CreateRequest(ctx context.Context, req *model.ConnectionRequest) error
	GetRequest(ctx context.Context, id string) (*model.ConnectionRequest, error)
	// FindRequestBetween looks up the request for {a, b} in either direction.
	FindRequestBetween(ctx context.Context, a, b string) (*model.ConnectionRequest, error)
	// UpdateRequestStatus moves the request from one status to another. It returns
	// ErrStaleStatus if the stored status is no longer from.
	UpdateRequestStatus(ctx context.Context, id string, from, to model.Status, at time.Time) error
	// ListReceived returns requests addressed to userID with the given status, newest first.
	ListReceived(ctx context.Context, userID string, status model.Status) ([]model.ConnectionRequest, error)
	// ListInvolving returns requests where userID is either party. With no statuses every
	// request is returned.
	ListInvolving(ctx context.Context, userID string, statuses ...model.Status) ([]model.ConnectionRequest, error)
}

// NotificationStore persists per-recipient notifications.
type NotificationStore interface {
	CreateNotification(ctx context.Context, n *model.Notification) error
	GetNotification(ctx context.Context, id string) (*model.Notification, error)
	// ListNotifications returns a page of userID's notifications, newest first.
	ListNotifications(ctx context.Context, userID string, limit, offset int) ([]model.Notification, error)
	// MarkNotificationRead flips an unread notification to read, reporting whether it changed.
	MarkNotificationRead(ctx context.Context, id string, at time.Time) (bool, error)
	MarkAllNotificationsRead(ctx context.Context, userID string, at time.Time) (int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	DeleteNotification(ctx context.Context, id string) error
	// DeleteReadBefore removes read notifications last updated before cutoff.
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// PostStore holds posts. Writers must invalidate dependent feeds after each mutation.
type PostStore interface {
	CreatePost(ctx context.Context, p *model.Post) error
	GetPost(ctx context.Context, id string) (*model.Post, error)
	DeletePost(ctx context.Context, id string) error
	// FindByAuthors returns posts by any of authorIDs, newest first.
	FindByAuthors(ctx context.Context, authorIDs []string) ([]model.Post, error)
	// FindByAuthor returns posts by authorID, newest first.
	FindByAuthor(ctx context.Context, authorID string) ([]model.Post, error)
}
