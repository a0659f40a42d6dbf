package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/devmo-app/devmo-backend/errs"
)

type keyType string

const userIDKey keyType = "userID"

// ctxWithUserID adds the authenticated user's id to the context
func ctxWithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// ctxGetUserID retrieves the authenticated user's id from the context.
// Only requests that passed the auth middleware carry one.
func ctxGetUserID(ctx context.Context) (uuid.UUID, error) {
	value := ctx.Value(userIDKey)
	if value == nil {
		return uuid.Nil, errs.Unauthorized
	}
	userID, ok := value.(uuid.UUID)
	if !ok {
		return uuid.Nil, errs.Unauthorized
	}
	return userID, nil
}
