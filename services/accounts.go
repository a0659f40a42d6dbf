package services

import (
	"context"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/devmo-app/devmo-backend/errs"
	"github.com/devmo-app/devmo-backend/models"
)

// Accounts handles signup and signin. Passwords are stored only as bcrypt
// hashes; the hash column is excluded from JSON so it can never leak back
// out through a handler.
type Accounts struct {
	users      UserStore
	tokens     *TokenService
	bcryptCost int
	logger     zerolog.Logger
}

func NewAccounts(users UserStore, tokens *TokenService) *Accounts {
	return &Accounts{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcrypt.DefaultCost,
		logger:     log.With().Str("serviceName", "accounts").Logger(),
	}
}

// NewAccountsWithCost lets tests lower the bcrypt work factor. Production
// wiring always goes through NewAccounts.
func NewAccountsWithCost(users UserStore, tokens *TokenService, cost int) *Accounts {
	a := NewAccounts(users, tokens)
	a.bcryptCost = cost
	return a
}

type SignupInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (in SignupInput) Validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.FirstName, validation.Required),
		validation.Field(&in.LastName, validation.Required),
		validation.Field(&in.Email, validation.Required, is.Email),
		validation.Field(&in.Password, validation.Required),
	)
	if err != nil {
		return errs.NewValidationError(err)
	}
	return validatePassword(in.Password)
}

// validatePassword enforces the signup password policy: at least 8
// characters, one uppercase letter and one symbol.
func validatePassword(password string) error {
	if len(password) < 8 {
		return errs.NewInvalidFieldError("password", "must be at least 8 characters")
	}
	var hasUpper, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	if !hasUpper {
		return errs.NewInvalidFieldError("password", "must contain an uppercase letter")
	}
	if !hasSymbol {
		return errs.NewInvalidFieldError("password", "must contain a symbol")
	}
	return nil
}

// Signup creates a new user. Duplicate emails are rejected with a conflict
// before hashing, and again by the unique index if two signups race.
func (a *Accounts) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	existing, err := a.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	if existing != nil {
		return nil, errs.NewAlreadyExists("email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), a.bcryptCost)
	if err != nil {
		return nil, errs.NewInternalError("hashing password failed")
	}

	user := &models.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: string(hash),
	}

	if err := a.users.Add(ctx, user); err != nil {
		return nil, errs.NewDatabaseError("create", "user", err)
	}

	a.logger.Info().Str("userID", user.ID.String()).Msg("user signed up")
	return user, nil
}

type SigninInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signin verifies the credentials and issues a bearer token. The same
// unauthorized error covers unknown email and wrong password, so the
// endpoint is not a user-existence oracle.
func (a *Accounts) Signin(ctx context.Context, in SigninInput) (string, *models.User, error) {
	user, err := a.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return "", nil, errs.NewDatabaseError("find", "user", err)
	}
	if user == nil {
		return "", nil, errs.NewUnauthorizedError("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return "", nil, errs.NewUnauthorizedError("invalid email or password")
	}

	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// GetUser returns a single user by id.
func (a *Accounts) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := a.users.FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	if user == nil {
		return nil, errs.NewNotFound("user")
	}
	return user, nil
}

// ListUsers returns all users.
func (a *Accounts) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := a.users.FindAll(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "users", err)
	}
	return users, nil
}
