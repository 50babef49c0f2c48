package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bloghub/bloghub/internal/model"
)

const (
	// identityCachePrefix is the Redis key prefix for resolved identities.
	identityCachePrefix = "auth:identity:"
	// identityCacheTTL bounds how stale a cached identity can get.
	identityCacheTTL = 5 * time.Minute
)

// GetIdentity retrieves a cached caller identity by user ID.
// Returns nil on a cache miss; a miss is not an error.
func (c *Cache) GetIdentity(ctx context.Context, userID string) (*model.Identity, error) {
	key := identityCachePrefix + userID

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// Cache miss is not an error
		return nil, nil //nolint:nilerr
	}

	var identity model.Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		// Corrupted cache entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	return &identity, nil
}

// SetIdentity caches a resolved identity.
func (c *Cache) SetIdentity(ctx context.Context, identity *model.Identity) error {
	key := identityCachePrefix + identity.UserID

	data, err := json.Marshal(identity)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, identityCacheTTL).Err()
}

// DeleteIdentity evicts a cached identity, e.g. after a user record
// changes.
func (c *Cache) DeleteIdentity(ctx context.Context, userID string) error {
	return c.client.Del(ctx, identityCachePrefix+userID).Err()
}
