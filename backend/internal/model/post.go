package model

import "time"

// Visibility controls who may see a post.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityFriends Visibility = "friends"
	VisibilityPrivate Visibility = "private"
)

// ParseVisibility defaults an empty value to public.
func ParseVisibility(raw string) (Visibility, bool) {
	switch v := Visibility(raw); v {
	case "":
		return VisibilityPublic, true
	case VisibilityPublic, VisibilityFriends, VisibilityPrivate:
		return v, true
	}
	return "", false
}

// MediaKind is the type of an uploaded attachment.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// Media is a stored upload reference normalized by the upload collaborator. URL is the
// only address consumers should use.
type Media struct {
	URL       string    `json:"url"`
	Kind      MediaKind `json:"kind"`
	StorageID string    `json:"storageId"`
}

// Post is a piece of content authored by UserID.
type Post struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	Content       string     `json:"content"`
	Media         []Media    `json:"media"`
	Likes         []string   `json:"likes"`
	CommentsCount int        `json:"commentsCount"`
	Visibility    Visibility `json:"visibility"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// FeedItem is a post denormalized with its author's public profile.
type FeedItem struct {
	Post
	Author PublicProfile `json:"author"`
}
