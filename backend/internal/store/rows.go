package store

import (
	"encoding/json"
	"fmt"

	"talent-nest/backend/internal/model"
)

type userRow struct {
	ID              string `db:"id"`
	FirstName       string `db:"first_name"`
	LastName        string `db:"last_name"`
	Username        string `db:"username"`
	Email           string `db:"email"`
	Gender          string `db:"gender"`
	PhotoURL        string `db:"photo_url"`
	TechStack       string `db:"tech_stack"`
	ExperienceLevel string `db:"experience_level"`
	LinkedIn        string `db:"linked_in"`
	GitHub          string `db:"github"`
	Domain          string `db:"domain"`
	CreatedAt       int64  `db:"created_at"`
	UpdatedAt       int64  `db:"updated_at"`
}

func (r userRow) toModel() (model.User, error) {
	u := model.User{
		ID:              r.ID,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		Username:        r.Username,
		Email:           r.Email,
		Gender:          r.Gender,
		PhotoURL:        r.PhotoURL,
		ExperienceLevel: r.ExperienceLevel,
		LinkedIn:        r.LinkedIn,
		GitHub:          r.GitHub,
		Domain:          r.Domain,
		CreatedAt:       fromNanos(r.CreatedAt),
		UpdatedAt:       fromNanos(r.UpdatedAt),
	}
	if err := json.Unmarshal([]byte(r.TechStack), &u.TechStack); err != nil {
		return model.User{}, fmt.Errorf("failed to decode tech stack of user %s: %w", r.ID, err)
	}
	return u, nil
}

type requestRow struct {
	ID         string `db:"id"`
	FromUserID string `db:"from_user_id"`
	ToUserID   string `db:"to_user_id"`
	PairKey    string `db:"pair_key"`
	Status     string `db:"status"`
	CreatedAt  int64  `db:"created_at"`
	UpdatedAt  int64  `db:"updated_at"`
}

func (r requestRow) toModel() model.ConnectionRequest {
	return model.ConnectionRequest{
		ID:         r.ID,
		FromUserID: r.FromUserID,
		ToUserID:   r.ToUserID,
		Status:     model.Status(r.Status),
		CreatedAt:  fromNanos(r.CreatedAt),
		UpdatedAt:  fromNanos(r.UpdatedAt),
	}
}

func requestsToModel(rows []requestRow) []model.ConnectionRequest {
	out := make([]model.ConnectionRequest, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out
}

type notificationRow struct {
	ID         string `db:"id"`
	FromUserID string `db:"from_user_id"`
	ToUserID   string `db:"to_user_id"`
	Type       string `db:"type"`
	Title      string `db:"title"`
	Status     string `db:"status"`
	CreatedAt  int64  `db:"created_at"`
	UpdatedAt  int64  `db:"updated_at"`
}

func (r notificationRow) toModel() model.Notification {
	return model.Notification{
		ID:         r.ID,
		FromUserID: r.FromUserID,
		ToUserID:   r.ToUserID,
		Type:       r.Type,
		Title:      r.Title,
		Status:     model.NotificationStatus(r.Status),
		CreatedAt:  fromNanos(r.CreatedAt),
		UpdatedAt:  fromNanos(r.UpdatedAt),
	}
}

type postRow struct {
	ID            string `db:"id"`
	UserID        string `db:"user_id"`
	Content       string `db:"content"`
	Media         string `db:"media"`
	Likes         string `db:"likes"`
	CommentsCount int    `db:"comments_count"`
	Visibility    string `db:"visibility"`
	CreatedAt     int64  `db:"created_at"`
	UpdatedAt     int64  `db:"updated_at"`
}

func (r postRow) toModel() (model.Post, error) {
	p := model.Post{
		ID:            r.ID,
		UserID:        r.UserID,
		Content:       r.Content,
		CommentsCount: r.CommentsCount,
		Visibility:    model.Visibility(r.Visibility),
		CreatedAt:     fromNanos(r.CreatedAt),
		UpdatedAt:     fromNanos(r.UpdatedAt),
	}
	if err := json.Unmarshal([]byte(r.Media), &p.Media); err != nil {
		return model.Post{}, fmt.Errorf("failed to decode media of post %s: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(r.Likes), &p.Likes); err != nil {
		return model.Post{}, fmt.Errorf("failed to decode likes of post %s: %w", r.ID, err)
	}
	return p, nil
}

func postsToModel(rows []postRow) ([]model.Post, error) {
	out := make([]model.Post, 0, len(rows))
	for _, r := range rows {
		p, err := r.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// encodeList stores a nil slice as [] so decoding always yields a non-nil slice.
func encodeList[T any](items []T) (string, error) {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
