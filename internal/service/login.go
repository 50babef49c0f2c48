package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bloghub/bloghub/internal/auth"
	"github.com/bloghub/bloghub/internal/fault"
	"github.com/bloghub/bloghub/internal/model"
	"github.com/bloghub/bloghub/internal/repository"
)

// TokenIssuer signs bearer tokens for logged-in users.
type TokenIssuer interface {
	Issue(user *model.User) (string, error)
}

// LoginService verifies credentials and issues bearer tokens.
type LoginService struct {
	users  UserStore
	tokens TokenIssuer
	logger *slog.Logger
}

// NewLoginService creates a new LoginService.
func NewLoginService(users UserStore, tokens TokenIssuer, logger *slog.Logger) *LoginService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoginService{users: users, tokens: tokens, logger: logger}
}

// Login verifies the username/password pair and returns a signed token
// plus the user. The failure message is identical for an unknown
// username and a wrong password to prevent account enumeration.
func (s *LoginService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil, fault.New(fault.KindAuthentication, "invalid username or password")
		}
		return "", nil, err
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", nil, fault.New(fault.KindAuthentication, "invalid username or password")
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info("user_logged_in",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return token, user, nil
}
