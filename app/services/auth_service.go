package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/shashiranjanraj/kashvi-shop/app/models"
	"github.com/shashiranjanraj/kashvi-shop/app/repositories"
	"github.com/shashiranjanraj/kashvi-shop/pkg/apperr"
	"github.com/shashiranjanraj/kashvi-shop/pkg/auth"
	"github.com/shashiranjanraj/kashvi-shop/pkg/logger"
	"github.com/shashiranjanraj/kashvi-shop/pkg/validate"
)

// MinPasswordLength is counted in characters, not bytes.
const MinPasswordLength = 8

const (
	msgCredentialsRequired = "Email and password are required"
	msgEmailTaken          = "Email address already in use"
	msgPasswordTooShort    = "Password must be at least 8 characters long"
	msgPasswordTooLong     = "Password must be at most 72 bytes long"
	msgInvalidCredentials  = "Invalid credentials"
)

// Credentials is the register and login payload. Email is trimmed before it
// is checked; the password is taken as given.
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (c Credentials) check() (Credentials, error) {
	c.Email = strings.TrimSpace(c.Email)
	if errs := validate.Struct(c); errs != nil {
		return c, apperr.InvalidInput(msgCredentialsRequired)
	}
	return c, nil
}

// TokenIssuer signs bearer tokens for a user id.
type TokenIssuer interface {
	GenerateToken(userID uint) (string, error)
}

// AuthService registers users and issues tokens.
type AuthService struct {
	users  repositories.UserRepository
	tokens TokenIssuer
}

func NewAuthService(users repositories.UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register checks, in order: both fields present, email not taken, password
// long enough. A duplicate that slips past the lookup is caught by the
// store's unique key and reported the same way.
func (s *AuthService) Register(ctx context.Context, email, password string) (models.User, error) {
	creds, err := Credentials{Email: email, Password: password}.check()
	if err != nil {
		return models.User{}, err
	}
	email, password = creds.Email, creds.Password

	_, err = s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return models.User{}, apperr.Conflict(msgEmailTaken)
	case !errors.Is(err, repositories.ErrNotFound):
		return models.User{}, apperr.Internal(err)
	}

	if utf8.RuneCountInString(password) < MinPasswordLength {
		return models.User{}, apperr.InvalidInput(msgPasswordTooShort)
	}

	hash, err := auth.HashPassword(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return models.User{}, apperr.InvalidInput(msgPasswordTooLong)
	}
	if err != nil {
		return models.User{}, apperr.Internal(err)
	}

	user := models.User{Email: email, PasswordHash: hash}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.User{}, apperr.Conflict(msgEmailTaken)
		}
		return models.User{}, apperr.Internal(err)
	}

	logger.WithCtx(ctx).Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login returns a signed token. Unknown email and wrong password produce the
// same error and cost one bcrypt comparison each.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	creds, err := Credentials{Email: email, Password: password}.check()
	if err != nil {
		return "", err
	}
	email, password = creds.Email, creds.Password

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return "", apperr.Internal(err)
		}
		auth.BurnPasswordCheck(password)
		return "", apperr.Unauthorized(msgInvalidCredentials)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", apperr.Unauthorized(msgInvalidCredentials)
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return "", apperr.Internal(err)
	}
	return token, nil
}
