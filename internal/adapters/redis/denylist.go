package redis

// Package redis provides Redis-based adapters for the admin API.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopmill/admin-api/internal/session"
)

// Ensure compile-time conformance to the manager's denylist contract.
var _ session.Denylist = (*Denylist)(nil)

// Denylist tracks revoked session IDs in Redis. Sessions are stateless
// signed cookies, so revocation works by remembering which session IDs
// have been invalidated until they would have expired anyway. Keys carry
// a TTL matching the remaining session lifetime, so the set is self-pruning.
type Denylist struct {
	client redis.UniversalClient
	prefix string
}

// NewDenylist creates a Redis-backed session denylist.
func NewDenylist(client redis.UniversalClient) *Denylist {
	return &Denylist{
		client: client,
		prefix: "revoked:",
	}
}

// NewDenylistWithPrefix creates a denylist with a custom key prefix.
func NewDenylistWithPrefix(client redis.UniversalClient, prefix string) *Denylist {
	return &Denylist{
		client: client,
		prefix: prefix,
	}
}

// Revoke marks a session ID as revoked for the given TTL. A non-positive
// TTL means the session is already expired and there is nothing to record.
func (d *Denylist) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	if sessionID == "" {
		return errors.New("session ID cannot be empty")
	}
	if ttl <= 0 {
		return nil
	}

	key := d.prefix + sessionID
	if err := d.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// IsRevoked reports whether a session ID has been revoked.
func (d *Denylist) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}

	key := d.prefix + sessionID
	n, err := d.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}
