package model

import "time"

// Status is the state of a connection request.
type Status string

const (
	StatusInterested Status = "interested"
	StatusAccepted   Status = "accepted"
	StatusRejected   Status = "rejected"
	StatusIgnored    Status = "ignored"
)

// ParseStatus converts a raw status, reporting whether it is one of the known values.
func ParseStatus(raw string) (Status, bool) {
	switch s := Status(raw); s {
	case StatusInterested, StatusAccepted, StatusRejected, StatusIgnored:
		return s, true
	}
	return "", false
}

// IsResolution reports whether the recipient may move a pending request to s.
func (s Status) IsResolution() bool {
	return s == StatusAccepted || s == StatusRejected
}

// ConnectionRequest is a proposal from FromUserID to ToUserID. At most one exists per
// unordered pair of users.
type ConnectionRequest struct {
	ID         string    `json:"id"`
	FromUserID string    `json:"fromUserId"`
	ToUserID   string    `json:"toUserId"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Counterparty returns the other participant of the request, or "" if userID is not part of it.
func (r ConnectionRequest) Counterparty(userID string) string {
	switch userID {
	case r.FromUserID:
		return r.ToUserID
	case r.ToUserID:
		return r.FromUserID
	}
	return ""
}

// PairKey canonicalizes an unordered pair of user ids so both orderings map to the same key.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}

// PendingRequest is a received request joined with the initiator's public profile.
type PendingRequest struct {
	ConnectionRequest
	From PublicProfile `json:"from"`
}

// Relation describes how a viewer relates to another user.
type Relation string

const (
	RelationNone      Relation = "none"
	RelationPending   Relation = "pending"  // viewer sent a request that is still open
	RelationReceived  Relation = "received" // viewer has an open request to answer
	RelationConnected Relation = "connected"
	RelationRejected  Relation = "rejected"
	RelationIgnored   Relation = "ignored"
)

// ConnectionState is the relation between two users and the request backing it, if any.
type ConnectionState struct {
	Relation  Relation `json:"status"`
	RequestID string   `json:"requestId,omitempty"`
}
