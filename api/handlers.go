package api

import (
	"github.com/devmo-app/devmo-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(workflow *services.ProjectWorkflow, accounts *services.Accounts) *routeHandlers {
	return &routeHandlers{
		projectHandler: newProjectHandler(workflow),
		userHandler:    newUserHandler(accounts, workflow),
	}
}
