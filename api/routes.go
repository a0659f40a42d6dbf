package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes wires the public reads and the token-protected mutations.
// Authentication is enforced by group, not per route, so no mutating
// endpoint can be left unprotected by accident.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.Get("/projects/owner/{ownerID}", handlers.projectHandler.getProjectsByOwner())
		r.Get("/project/{projectID}", handlers.projectHandler.getProject())

		r.Post("/users/signup", handlers.userHandler.signup())
		r.Post("/users/signin", handlers.userHandler.signin())
		r.Get("/users", handlers.userHandler.getAllUsers())
		r.Get("/user/{userID}", handlers.userHandler.getUser())
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Post("/project", handlers.projectHandler.createProject())
		r.Patch("/project/{projectID}", handlers.projectHandler.updateProject())
		r.Delete("/project/{projectID}", handlers.projectHandler.deleteProject())
		r.Patch("/project/{projectID}/like", handlers.projectHandler.toggleLike())
		r.Patch("/projects/popularity", handlers.projectHandler.rankProjects())
	})
}
