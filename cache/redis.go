package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	shortLinkPrefix = "shortlink:"
	revokedPrefix   = "revoked:"
	defaultLinkTTL  = 24 * time.Hour
)

// RedisStore caches resolved short links and keeps the list of revoked token ids.
type RedisStore struct {
	client  *redis.Client
	linkTTL time.Duration
}

func NewRedisStore(client *redis.Client, linkTTL time.Duration) *RedisStore {
	if linkTTL <= 0 {
		linkTTL = defaultLinkTTL
	}
	return &RedisStore{client: client, linkTTL: linkTTL}
}

// Lookup reports whether shortcode is cached. Codes resolve case-insensitively.
func (s *RedisStore) Lookup(ctx context.Context, shortcode string) (string, bool, error) {
	url, err := s.client.Get(ctx, shortLinkKey(shortcode)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return url, true, nil
}

func (s *RedisStore) Store(ctx context.Context, shortcode, url string) error {
	return s.client.Set(ctx, shortLinkKey(shortcode), url, s.linkTTL).Err()
}

// Revoke blacklists jti for ttl, which should be the token's remaining lifetime.
func (s *RedisStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revokedPrefix+jti, 1, ttl).Err()
}

func (s *RedisStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func shortLinkKey(shortcode string) string {
	return shortLinkPrefix + strings.ToLower(shortcode)
}
