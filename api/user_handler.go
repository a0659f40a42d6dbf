package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/devmo-app/devmo-backend/errs"
	"github.com/devmo-app/devmo-backend/services"
)

type userHandler struct {
	responder Responder
	logger    zerolog.Logger
	accounts  *services.Accounts
	workflow  *services.ProjectWorkflow
}

func newUserHandler(accounts *services.Accounts, workflow *services.ProjectWorkflow) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder: NewResponder(logger),
		logger:    logger,
		accounts:  accounts,
		workflow:  workflow,
	}
}

// signup registers a new user
// @Summary Sign up
// @Description Creates a new account; the password must be at least 8 characters with an uppercase letter and a symbol
// @Tags Users
// @Accept json
// @Produce json
// @Param user body services.SignupInput true "Signup data"
// @Success 201 {object} models.User "Created user (no password field)"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid signup data"
// @Failure 409 {object} ErrorResponse "Conflict - Email already in use"
// @Router /users/signup [post]
func (h userHandler) signup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input services.SignupInput
		if err := h.decodeBody(r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, err := h.accounts.Signup(r.Context(), input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, user)
	}
}

// signin authenticates a user and issues a bearer token
// @Summary Sign in
// @Description Verifies credentials and returns a bearer token for mutating endpoints
// @Tags Users
// @Accept json
// @Produce json
// @Param credentials body services.SigninInput true "Credentials"
// @Success 200 {object} SigninResponse "Token and user"
// @Failure 401 {object} ErrorResponse "Unauthorized - Invalid credentials"
// @Router /users/signin [post]
func (h userHandler) signin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input services.SigninInput
		if err := h.decodeBody(r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		token, user, err := h.accounts.Signin(r.Context(), input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, SigninResponse{Token: token, User: user})
	}
}

// getUser retrieves a user together with their liked project ids
// @Summary Get user
// @Description Retrieves a user and the ids of the projects they like
// @Tags Users
// @Produce json
// @Param userID path string true "User ID" format(uuid)
// @Success 200 {object} UserWithLikes "User with liked project ids"
// @Failure 404 {object} ErrorResponse "Not Found - User not found"
// @Router /user/{userID} [get]
func (h userHandler) getUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(chi.URLParam(r, "userID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid userID"))
			return
		}

		user, err := h.accounts.GetUser(r.Context(), userID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		liked, err := h.workflow.LikedProjectIDs(r.Context(), userID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if liked == nil {
			liked = []uuid.UUID{}
		}

		h.responder.WriteJSON(w, UserWithLikes{User: user, LikedProjects: liked})
	}
}

// getAllUsers retrieves all users
// @Summary Get all users
// @Description Retrieves all registered users (password hashes are never serialized)
// @Tags Users
// @Produce json
// @Success 200 {array} models.User "List of users"
// @Router /users [get]
func (h userHandler) getAllUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := h.accounts.ListUsers(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, users)
	}
}

func (h userHandler) decodeBody(r *http.Request, dst any) error {
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		return errs.NewBadRequestError("failed to read request body")
	}
	if err := json.Unmarshal(bodyBytes, dst); err != nil {
		h.logger.Error().Err(err).Msg("Failed to decode request body")
		return errs.NewBadRequestError("malformed request body")
	}
	return nil
}
