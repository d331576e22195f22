package graph

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"talent-nest/backend/internal/model"
)

// Column lists shared by queries so every read maps through the same helpers.
const (
	userColumns = `u.id as id, u.first_name as first_name, u.last_name as last_name,
		u.username as username, u.email as email, u.gender as gender, u.photo_url as photo_url,
		u.tech_stack as tech_stack, u.experience_level as experience_level,
		u.linked_in as linked_in, u.github as github, u.domain as domain,
		u.created_at as created_at, u.updated_at as updated_at`

	requestColumns = `r.id as id, r.from_user_id as from_user_id, r.to_user_id as to_user_id,
		r.status as status, r.created_at as created_at, r.updated_at as updated_at`
)

func userFromRecord(record *neo4j.Record) model.User {
	return model.User{
		ID:              getStringFromRecord(record, "id"),
		FirstName:       getStringFromRecord(record, "first_name"),
		LastName:        getStringFromRecord(record, "last_name"),
		Username:        getStringFromRecord(record, "username"),
		Email:           getStringFromRecord(record, "email"),
		Gender:          getStringFromRecord(record, "gender"),
		PhotoURL:        getStringFromRecord(record, "photo_url"),
		TechStack:       getStringSliceFromRecord(record, "tech_stack"),
		ExperienceLevel: getStringFromRecord(record, "experience_level"),
		LinkedIn:        getStringFromRecord(record, "linked_in"),
		GitHub:          getStringFromRecord(record, "github"),
		Domain:          getStringFromRecord(record, "domain"),
		CreatedAt:       getTimeFromRecord(record, "created_at"),
		UpdatedAt:       getTimeFromRecord(record, "updated_at"),
	}
}

func requestFromRecord(record *neo4j.Record) model.ConnectionRequest {
	return model.ConnectionRequest{
		ID:         getStringFromRecord(record, "id"),
		FromUserID: getStringFromRecord(record, "from_user_id"),
		ToUserID:   getStringFromRecord(record, "to_user_id"),
		Status:     model.Status(getStringFromRecord(record, "status")),
		CreatedAt:  getTimeFromRecord(record, "created_at"),
		UpdatedAt:  getTimeFromRecord(record, "updated_at"),
	}
}
