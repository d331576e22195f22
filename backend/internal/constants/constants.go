package constants

import "time"

// Cache key namespaces. Keys are <namespace><userID>.
const (
	CacheKeyConnections   = "connections:"
	CacheKeyFeed          = "feed:"
	CacheKeyMatchingPeers = "matchingPeers:"
)

// Default cache lifetimes
const (
	DefaultConnectionsTTL = 100 * time.Second
	DefaultFeedTTL        = 120 * time.Second
	DefaultMatchesTTL     = 300 * time.Second
)

// Notification constants
const (
	// DefaultNotificationPageSize is used when a caller asks for a non-positive page size
	DefaultNotificationPageSize = 20
	// MaxNotificationPageSize caps every page regardless of the requested size
	MaxNotificationPageSize = 50

	DefaultNotificationRetention = 5 * time.Minute
	DefaultSweepInterval         = 5 * time.Minute
)

// Notification types
const (
	NotificationTypeConnectionRequest = "connection_request"
	NotificationTypeMessage           = "message"
)

// HeaderUserID carries the authenticated user id set by the upstream auth layer.
const HeaderUserID = "X-User-ID"
