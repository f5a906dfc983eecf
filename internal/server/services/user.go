// Package services contains server-side business logic. This file implements
// UserService, which handles registration, credential verification, and
// issuing signed bearer tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/janegov/notesapi/internal/common"
	"github.com/janegov/notesapi/internal/cryptox"
	"github.com/janegov/notesapi/internal/server/auth"
	"github.com/janegov/notesapi/internal/server/config"
	"github.com/janegov/notesapi/internal/server/models"
	"github.com/janegov/notesapi/internal/server/repositories/repomanager"
)

// minPasswordLength is the minimum accepted password length at registration.
const minPasswordLength = 6

// maxPasswordLength is the most bcrypt will hash; longer inputs make
// GenerateFromPassword fail outright, so they are rejected as invalid input.
const maxPasswordLength = 72

// UserService provides authentication-related operations:
// - Register: validate input, create the user, and log them straight in
// - Login: verify credentials and mint a token
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Register validates the registration input, persists a new user with a
// hashed password, and returns a fresh bearer token — registration implies
// login. Field problems come back as *common.ValidationError; a duplicate
// email is reported on the "email" field so it renders like any other
// validation failure.
func (s *UserService) Register(ctx context.Context, email, password, confirmPassword string) (string, error) {
	if err := validateRegistration(email, password, confirmPassword); err != nil {
		return "", err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return "", common.ErrorInternal
	}

	user := &models.User{Email: strings.TrimSpace(email), PasswordHash: hash}
	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			ve := &common.ValidationError{}
			return "", ve.Add("email", "Email is already registered")
		}
		return "", fmt.Errorf("error creating user: %w", err)
	}

	token, err := s.generateToken(u.ID)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// Login verifies the email/password pair and returns a fresh bearer token.
// Unknown email and wrong password both yield common.ErrorUnauthorized with
// no further detail, so account existence cannot be probed.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}

	if !cryptox.CheckPassword(user.PasswordHash, password) {
		return "", common.ErrorUnauthorized
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// VerifyToken extracts the acting user id from a bearer token. It is the
// mandatory precondition for every note operation.
func (s *UserService) VerifyToken(token string) (string, error) {
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}

func (s *UserService) generateToken(userID string) (string, error) {
	return auth.GenerateToken(userID, s.jwtSecret, s.tokenValidityDuration)
}

func validateRegistration(email, password, confirmPassword string) error {
	ve := &common.ValidationError{}

	email = strings.TrimSpace(email)
	if email == "" {
		ve.Add("email", "Email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		ve.Add("email", "Invalid email format")
	}

	if password == "" {
		ve.Add("password", "Password is required")
	} else if len(password) < minPasswordLength {
		ve.Add("password", fmt.Sprintf("The password must be at least %d characters long.", minPasswordLength))
	} else if len(password) > maxPasswordLength {
		ve.Add("password", fmt.Sprintf("The password cannot be longer than %d characters.", maxPasswordLength))
	}

	if password != confirmPassword {
		ve.Add("confirmPassword", "The password and confirmation password do not match.")
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}
