package model

import (
	"strings"
	"time"
)

// User is a profile record owned by the user directory. The social core only reads it.
type User struct {
	ID              string    `json:"id"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	Gender          string    `json:"gender"`
	PhotoURL        string    `json:"photoUrl"`
	TechStack       []string  `json:"techStack"`
	ExperienceLevel string    `json:"experienceLevel"`
	LinkedIn        string    `json:"linkedIn"`
	GitHub          string    `json:"github"`
	Domain          string    `json:"domain"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// PublicProfile is the subset of a user that may be shown to other users.
type PublicProfile struct {
	ID              string   `json:"id"`
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	Username        string   `json:"username"`
	Gender          string   `json:"gender,omitempty"`
	PhotoURL        string   `json:"photoUrl,omitempty"`
	TechStack       []string `json:"techStack"`
	ExperienceLevel string   `json:"experienceLevel,omitempty"`
	LinkedIn        string   `json:"linkedIn,omitempty"`
	GitHub          string   `json:"github,omitempty"`
	Domain          string   `json:"domain,omitempty"`
}

// Public projects the user onto its public-safe fields.
func (u User) Public() PublicProfile {
	stack := make([]string, len(u.TechStack))
	copy(stack, u.TechStack)
	return PublicProfile{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Username:        u.Username,
		Gender:          u.Gender,
		PhotoURL:        u.PhotoURL,
		TechStack:       stack,
		ExperienceLevel: u.ExperienceLevel,
		LinkedIn:        u.LinkedIn,
		GitHub:          u.GitHub,
		Domain:          u.Domain,
	}
}

// DisplayName is the name used when rendering notification titles.
func (p PublicProfile) DisplayName() string {
	if name := strings.TrimSpace(p.FirstName + " " + p.LastName); name != "" {
		return name
	}
	if p.Username != "" {
		return p.Username
	}
	return "Someone"
}
