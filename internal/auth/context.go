package auth

import (
	"context"

	"github.com/bloghub/bloghub/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// identityKey is the context key for the resolved caller identity.
const identityKey contextKey = "identity"

// ContextWithIdentity adds the resolved identity to the context.
func ContextWithIdentity(ctx context.Context, identity *model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext retrieves the caller identity from the context.
// Returns nil if the request was not authenticated.
func IdentityFromContext(ctx context.Context) *model.Identity {
	identity, ok := ctx.Value(identityKey).(*model.Identity)
	if !ok {
		return nil
	}
	return identity
}
