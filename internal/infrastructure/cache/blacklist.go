package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "token:blacklist:"

// TokenBlacklist revokes access tokens on logout. Entries expire together
// with the token itself, so the set never needs cleanup.
type TokenBlacklist struct {
	client *redis.Client
}

func NewTokenBlacklist(r *RedisClient) *TokenBlacklist {
	return &TokenBlacklist{client: r.Client}
}

func (b *TokenBlacklist) Blacklist(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		// Token already expired; nothing to revoke.
		return nil
	}
	return b.client.Set(ctx, blacklistPrefix+tokenID, "1", ttl).Err()
}

func (b *TokenBlacklist) IsBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	err := b.client.Get(ctx, blacklistPrefix+tokenID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
