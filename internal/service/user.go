package service

import (
	"context"
	"errors"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"github.com/bloghub/bloghub/internal/auth"
	"github.com/bloghub/bloghub/internal/fault"
	"github.com/bloghub/bloghub/internal/model"
	"github.com/bloghub/bloghub/internal/repository"
)

const (
	minUsernameLength = 3
	minPasswordLength = 3
)

// UserService handles user account creation and listing.
type UserService struct {
	users  UserStore
	logger *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users UserStore, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{users: users, logger: logger}
}

// CreateUserInput defines input for creating a user.
type CreateUserInput struct {
	Username string
	Name     string
	Password string
}

// Create validates the payload, hashes the password, and persists a new
// user. A duplicate username is reported as its own fault kind so the
// transport can keep the fixed message the API promises.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*model.User, error) {
	if input.Username == "" {
		return nil, fault.Validation("username", "username is required")
	}
	if utf8.RuneCountInString(input.Username) < minUsernameLength {
		return nil, fault.Validation("username", "username must be at least 3 characters")
	}
	if input.Password == "" {
		return nil, fault.Validation("password", "password is required")
	}
	if utf8.RuneCountInString(input.Password) < minPasswordLength {
		return nil, fault.Validation("password", "password must be at least 3 characters")
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Username:     input.Username,
		Name:         input.Name,
		PasswordHash: hash,
		BlogIDs:      []string{},
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return nil, fault.Wrap(fault.KindDuplicateUsername, "a user with this username already exists", err)
		}
		return nil, err
	}

	s.logger.Info("user_created",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// List retrieves all users.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.ListUsers(ctx)
}
