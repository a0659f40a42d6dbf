package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/devmo-app/devmo-backend/errs"
)

const (
	tokenIssuer   = "devmo"
	tokenLifetime = 24 * time.Hour
)

// TokenService issues and validates the HS256 bearer tokens returned by
// signin. The token subject is the user id; nothing else is stored in the
// claims, so validation needs no database round trip.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("token secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// Issue signs a new bearer token for the given user.
func (s *TokenService) Issue(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errs.NewInternalError("signing token failed")
	}
	return signed, nil
}

// Validate parses and verifies a bearer token, returning the user id from
// the subject claim. Any failure (bad signature, wrong issuer, expiry,
// malformed subject) is reported as an unauthorized error.
func (s *TokenService) Validate(tokenStr string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, errs.NewUnauthorizedError("token expired")
		}
		return uuid.Nil, errs.NewUnauthorizedError("invalid token")
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return uuid.Nil, errs.NewUnauthorizedError("invalid token claims")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, errs.NewUnauthorizedError("invalid token subject")
	}
	return userID, nil
}
