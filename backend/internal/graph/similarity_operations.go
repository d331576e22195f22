package graph

import (
	"context"
	"fmt"

	"talent-nest/backend/internal/model"
)

// FindByAnyTech returns users sharing at least one technology with techs. Scoring happens
// in the matching service so both backends rank identically.
func (r *Repository) FindByAnyTech(ctx context.Context, techs []string) ([]model.User, error) {
	if len(techs) == 0 {
		return []model.User{}, nil
	}

	query := `
		MATCH (u:User)
		WHERE u.username IS NOT NULL
		  AND any(tech IN coalesce(u.tech_stack, []) WHERE tech IN $techs)
		RETURN ` + userColumns + `
		ORDER BY u.id
	`

	users, err := r.queryUsers(ctx, query, map[string]interface{}{"techs": techs})
	if err != nil {
		return nil, fmt.Errorf("failed to find users by tech: %w", err)
	}
	return users, nil
}
