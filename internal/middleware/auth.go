package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bloghub/bloghub/internal/auth"
	"github.com/bloghub/bloghub/internal/model"
	"github.com/bloghub/bloghub/internal/repository"
)

// UserLookup resolves a user ID to a stored user.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// IdentityCache caches resolved identities between requests.
type IdentityCache interface {
	GetIdentity(ctx context.Context, userID string) (*model.Identity, error)
	SetIdentity(ctx context.Context, identity *model.Identity) error
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger *slog.Logger
	Tokens *auth.TokenManager
	Users  UserLookup
	Cache  IdentityCache
}

// Auth returns a middleware that authenticates requests with a bearer
// token. It verifies the token, confirms the subject still exists, and
// injects the resolved identity into the request context. The failure
// reasons (missing, malformed, invalid/expired, unknown user) are
// logged distinctly but answered with the same 401 body to prevent
// account enumeration.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				logAuthFailure(cfg.Logger, r, "missing_token")
				writeAuthError(w)
				return
			}

			identity, err := cfg.Tokens.Verify(token)
			if err != nil {
				reason := "invalid_token"
				if errors.Is(err, auth.ErrMalformedToken) {
					reason = "malformed_token"
				}
				logAuthFailure(cfg.Logger, r, reason)
				writeAuthError(w)
				return
			}

			// The token is genuine; confirm the user still exists.
			cached, _ := cfg.Cache.GetIdentity(r.Context(), identity.UserID)
			if cached == nil {
				user, err := cfg.Users.GetUserByID(r.Context(), identity.UserID)
				if err != nil {
					if errors.Is(err, repository.ErrUserNotFound) {
						logAuthFailure(cfg.Logger, r, "unknown_user")
						writeAuthError(w)
						return
					}
					cfg.Logger.Error("database error during auth",
						slog.String("error", err.Error()),
						slog.String("request_id", GetRequestID(r.Context())),
					)
					writeAuthError(w)
					return
				}
				identity.Username = user.Username
				_ = cfg.Cache.SetIdentity(r.Context(), identity)
			} else {
				identity = cached
			}

			cfg.Logger.Info("authentication successful",
				slog.String("user_id", identity.UserID),
				slog.String("username", identity.Username),
				slog.String("endpoint", r.Method+" "+r.URL.Path),
				slog.String("request_id", GetRequestID(r.Context())),
			)

			ctx := auth.ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken extracts the bearer token from the Authorization
// header. Returns "" if the header is absent or not a bearer scheme.
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func logAuthFailure(logger *slog.Logger, r *http.Request, reason string) {
	logger.Warn("authentication failed",
		slog.String("reason", reason),
		slog.String("ip", r.RemoteAddr),
		slog.String("endpoint", r.Method+" "+r.URL.Path),
		slog.String("request_id", GetRequestID(r.Context())),
	)
}

// writeAuthError writes a 401 Unauthorized response.
// Uses the same message for all auth failures to prevent enumeration.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"invalid or missing token","code":"AUTHENTICATION_FAILED"}`))
}
