// Package services contains server-side business logic. This file implements
// UserService: signup, login and resolving bearer tokens to users.
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dmitrijs2005/pdfnotes/internal/common"
	"github.com/dmitrijs2005/pdfnotes/internal/server/auth"
	"github.com/dmitrijs2005/pdfnotes/internal/server/config"
	"github.com/dmitrijs2005/pdfnotes/internal/server/models"
	"github.com/dmitrijs2005/pdfnotes/internal/server/repositories/repomanager"
)

const (
	minPasswordLength = 6
	// bcrypt ignores input beyond 72 bytes and x/crypto rejects it.
	maxPasswordLength = 72
	maxEmailLength    = 255
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// SignupInput is the payload of a signup request. PasswordConfirmation is
// only checked when present.
type SignupInput struct {
	Email                string
	Password             string
	PasswordConfirmation *string
}

// AuthResult is returned by Signup and Login.
type AuthResult struct {
	Token string
	User  *models.User
}

type UserService struct {
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// NormalizeEmail lowercases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup validates the input, creates the user and returns a token for it.
// Validation failures are *common.ValidationError.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	email := NormalizeEmail(in.Email)

	var problems []string
	switch {
	case email == "":
		problems = append(problems, "Email can't be blank")
	case len(email) > maxEmailLength || !emailPattern.MatchString(email):
		problems = append(problems, "Email is invalid")
	}
	switch {
	case in.Password == "":
		problems = append(problems, "Password can't be blank")
	case len(in.Password) < minPasswordLength:
		problems = append(problems, fmt.Sprintf("Password is too short (minimum is %d characters)", minPasswordLength))
	case len(in.Password) > maxPasswordLength:
		problems = append(problems, fmt.Sprintf("Password is too long (maximum is %d characters)", maxPasswordLength))
	}
	if in.PasswordConfirmation != nil && *in.PasswordConfirmation != in.Password {
		problems = append(problems, "Password confirmation doesn't match Password")
	}
	if len(problems) > 0 {
		return nil, common.NewValidationError(strings.Join(problems, ", "))
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users().Create(ctx, &models.User{Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrEmailTaken) {
			return nil, common.NewValidationError("Email has already been taken")
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.issue(user)
}

// Login checks credentials. Unknown email and wrong password both yield
// common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.repomanager.Users().GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("error checking password: %w", err)
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	return s.issue(user)
}

// Authenticate resolves a bearer token to its user. It returns
// common.ErrInvalidToken or common.ErrTokenExpired for bad tokens and
// common.ErrorNotFound when the user no longer exists.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) issue(user *models.User) (*AuthResult, error) {
	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}
