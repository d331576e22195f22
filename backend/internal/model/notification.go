package model

import "time"

// NotificationStatus only ever moves from unread to read.
type NotificationStatus string

const (
	NotificationUnread NotificationStatus = "unread"
	NotificationRead   NotificationStatus = "read"
)

// Notification is a per-recipient record produced as a side effect of another user's action.
type Notification struct {
	ID         string             `json:"id"`
	FromUserID string             `json:"fromUserId"`
	ToUserID   string             `json:"toUserId"`
	Type       string             `json:"type"`
	Title      string             `json:"title"`
	Status     NotificationStatus `json:"status"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}
