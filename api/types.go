package api

import (
	"github.com/google/uuid"

	"github.com/devmo-app/devmo-backend/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler projectHandler
	userHandler    userHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error  string `json:"error" example:"Internal Server Error"`
	Status string `json:"status" example:"error"`
	Field  string `json:"field,omitempty" example:"password"`
}

// ProjectCollection wraps a list of projects with a total count
type ProjectCollection struct {
	Projects []*models.Project `json:"projects"`
	Total    int               `json:"total"`
}

// UserWithLikes is a user together with the ids of the projects they
// currently like. The like set lives in its own table, so it is attached
// here at read time rather than serialized from the user record.
type UserWithLikes struct {
	User          *models.User `json:"user"`
	LikedProjects []uuid.UUID  `json:"likedProjects"`
}

// SigninResponse carries the bearer token issued on a successful signin
type SigninResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// RankRequest is the ordered id list for the popularity re-rank endpoint
type RankRequest struct {
	ProjectIDs []uuid.UUID `json:"projectIds"`
}
