package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/apiwikihq/apiwiki/internal/config"
	redis "github.com/redis/go-redis/v9"
)

const (
	keyUserWrite    = "write:user:%s"
	keyWikiEditLock = "wiki:edit:%s"
)

// WriteLimiter throttles point-earning writes (posts, comments, wiki
// edits, submissions) per user and serializes wiki edits per document.
// Without redis it degrades to allow-all.
type WriteLimiter struct {
	enabled bool

	bucket *TokenBucket
	locker *Locker

	rate    float64
	burst   int
	lockTTL time.Duration
}

func NewWriteLimiter(cfg config.Config) (*WriteLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.WriteRate <= 0 || limitCfg.WriteBurst <= 0 {
		return nil, errors.New("write rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.RedisPassword),
		DB:       cfg.RedisDB,
	})

	return &WriteLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
		locker:  NewLocker(client),
		rate:    limitCfg.WriteRate,
		burst:   limitCfg.WriteBurst,
		lockTTL: time.Duration(limitCfg.LockTTLSeconds) * time.Second,
	}, nil
}

func (l *WriteLimiter) Enabled() bool {
	return l != nil && l.enabled
}

// AllowWrite reports whether userID may perform another write now.
func (l *WriteLimiter) AllowWrite(ctx context.Context, userID string) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyUserWrite, strings.TrimSpace(userID)), l.rate, l.burst)
}

// TryLockWikiEdit takes the per-document edit lock so two saves on the
// same slug cannot interleave.
func (l *WriteLimiter) TryLockWikiEdit(ctx context.Context, slug string) (string, bool, error) {
	if !l.Enabled() {
		return "", true, nil
	}
	return l.locker.TryLock(ctx, fmt.Sprintf(keyWikiEditLock, strings.TrimSpace(slug)), l.lockTTL)
}

func (l *WriteLimiter) ReleaseWikiEdit(ctx context.Context, slug, token string) error {
	if !l.Enabled() {
		return nil
	}
	return l.locker.Release(ctx, fmt.Sprintf(keyWikiEditLock, strings.TrimSpace(slug)), token)
}
