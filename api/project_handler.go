package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/devmo-app/devmo-backend/errs"
	"github.com/devmo-app/devmo-backend/services"
)

// maxUploadSize caps the multipart body for project create/update (image included).
const maxUploadSize = 10 << 20 // 10MB

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	workflow  *services.ProjectWorkflow
}

func newProjectHandler(workflow *services.ProjectWorkflow) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		workflow:  workflow,
	}
}

// getAllProjects retrieves all projects with presigned image URLs
// @Summary Get all projects
// @Description Retrieves all projects with time-limited signed image URLs
// @Tags Projects
// @Produce json
// @Success 200 {object} ProjectCollection "List of projects"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.workflow.ListProjects(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, ProjectCollection{
			Projects: projects,
			Total:    len(projects),
		})
	}
}

// getProjectsByOwner retrieves all projects owned by a user
// @Summary Get projects by owner
// @Description Retrieves the projects owned by the given user; an owner with no projects gets an empty list
// @Tags Projects
// @Produce json
// @Param ownerID path string true "Owner ID" format(uuid)
// @Success 200 {object} ProjectCollection "List of projects"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid ownerID"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /projects/owner/{ownerID} [get]
func (h projectHandler) getProjectsByOwner() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := uuid.Parse(chi.URLParam(r, "ownerID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid ownerID"))
			return
		}

		projects, err := h.workflow.ListProjectsByOwner(r.Context(), ownerID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, ProjectCollection{
			Projects: projects,
			Total:    len(projects),
		})
	}
}

// getProject retrieves a specific project by ID
// @Summary Get project
// @Description Retrieves a single project with a signed image URL
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} models.Project "Project details"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /project/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid projectID"))
			return
		}

		project, err := h.workflow.GetProject(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// createProject creates a new project from a multipart form
// @Summary Create project
// @Description Creates a new project; expects multipart form data with an image file and project fields
// @Tags Projects
// @Accept mpfd
// @Produce json
// @Success 201 {object} models.Project "Created project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /project [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		fields, imageData, err := h.parseProjectForm(r, true)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.workflow.CreateProject(r.Context(), principal, fields, imageData)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, project)
	}
}

// updateProject updates an existing project
// @Summary Update project
// @Description Updates an existing project; a new image, when supplied, overwrites the stored one
// @Tags Projects
// @Accept mpfd
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} models.Project "Updated project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 403 {object} ErrorResponse "Forbidden - Not the project owner"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /project/{projectID} [patch]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid projectID"))
			return
		}

		fields, imageData, err := h.parseProjectForm(r, false)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.workflow.UpdateProject(r.Context(), principal, projectID, fields, imageData)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// deleteProject deletes a project and its stored image
// @Summary Delete project
// @Description Deletes a project; the image blob is removed first, then the metadata record
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} models.Project "Deleted project snapshot"
// @Failure 403 {object} ErrorResponse "Forbidden - Not the project owner"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /project/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid projectID"))
			return
		}

		project, err := h.workflow.DeleteProject(r.Context(), principal, projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// toggleLike flips the authenticated user's like on a project
// @Summary Toggle like
// @Description Adds the project to the caller's liked set and increments the counter, or the reverse if already liked
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} models.Project "Project with updated like count"
// @Failure 404 {object} ErrorResponse "Not Found - Project or user not found"
// @Router /project/{projectID}/like [patch]
func (h projectHandler) toggleLike() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid projectID"))
			return
		}

		project, err := h.workflow.ToggleLike(r.Context(), projectID, principal)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// rankProjects re-ranks projects by popularity
// @Summary Re-rank projects
// @Description Assigns popularity ranks from the 1-based positions of the submitted id list; unlisted projects keep their rank
// @Tags Projects
// @Accept json
// @Produce json
// @Param request body RankRequest true "Ordered project ids"
// @Success 200 {object} ProjectCollection "Ranked projects"
// @Failure 400 {object} ErrorResponse "Bad Request - Malformed id list"
// @Failure 404 {object} ErrorResponse "Not Found - Unknown project id"
// @Router /projects/popularity [patch]
func (h projectHandler) rankProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := ctxGetUserID(r.Context()); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("failed to read request body"))
			return
		}

		var req RankRequest
		if err := json.Unmarshal(bodyBytes, &req); err != nil {
			h.logger.Error().Err(err).Str("body", string(bodyBytes)).Msg("Failed to decode rank request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		projects, err := h.workflow.RankProjects(r.Context(), req.ProjectIDs)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, ProjectCollection{
			Projects: projects,
			Total:    len(projects),
		})
	}
}

// parseProjectForm extracts the project fields and optional image bytes from
// a multipart form. The image part is mandatory on create and optional on
// update. Technologies may be sent as repeated fields or one comma-separated
// field.
func (h projectHandler) parseProjectForm(r *http.Request, imageRequired bool) (services.ProjectFields, []byte, error) {
	var fields services.ProjectFields

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return fields, nil, errs.NewBadRequestError("malformed multipart form")
	}

	fields.Name = r.FormValue("name")
	fields.Description = r.FormValue("description")
	fields.ProjectURL = r.FormValue("projectUrl")
	if repo := r.FormValue("githubRepo"); repo != "" {
		fields.GithubRepo = &repo
	}

	technologies := r.Form["technologies"]
	if len(technologies) == 1 && strings.Contains(technologies[0], ",") {
		technologies = strings.Split(technologies[0], ",")
	}
	for _, tech := range technologies {
		if trimmed := strings.TrimSpace(tech); trimmed != "" {
			fields.Technologies = append(fields.Technologies, trimmed)
		}
	}

	file, _, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		if imageRequired {
			return fields, nil, errs.NewMissingRequiredFieldError("image")
		}
		return fields, nil, nil
	}
	if err != nil {
		return fields, nil, errs.NewBadRequestError("malformed image upload")
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		return fields, nil, errs.NewBadRequestError("failed to read image upload")
	}

	return fields, imageData, nil
}
