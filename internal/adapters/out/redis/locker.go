// Package redis provides a Locker that works across service instances.
package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"coffeeshop/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL          = 30 * time.Second
	DefaultRetryBackoff = 25 * time.Millisecond
)

// ErrLockLost is returned by unlock when the lock expired and another holder took it.
var ErrLockLost = errors.New("lock expired before release")

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker implements ports.Locker with SET NX PX and a compare-and-delete release.
// A holder that outlives ttl loses the lock; operations are bounded well below it.
type Locker struct {
	client  redis.UniversalClient
	prefix  string
	ttl     time.Duration
	backoff time.Duration
}

type Option func(*Locker)

func WithTTL(ttl time.Duration) Option {
	return func(l *Locker) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

func WithRetryBackoff(d time.Duration) Option {
	return func(l *Locker) {
		if d > 0 {
			l.backoff = d
		}
	}
}

func NewLocker(client redis.UniversalClient, prefix string, opts ...Option) *Locker {
	l := &Locker{
		client:  client,
		prefix:  prefix,
		ttl:     DefaultTTL,
		backoff: DefaultRetryBackoff,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Lock polls until the key is acquired or ctx is done.
func (l *Locker) Lock(ctx context.Context, key string) (ports.UnlockFunc, error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}
	fullKey := l.prefix + key

	ticker := time.NewTicker(l.backoff)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, fullKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire %s: %w", key, err)
		}
		if ok {
			return l.unlockFunc(fullKey, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("acquire %s: %w", key, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (l *Locker) unlockFunc(fullKey, token string) ports.UnlockFunc {
	return func(ctx context.Context) error {
		released, err := releaseScript.Run(ctx, l.client, []string{fullKey}, token).Int64()
		if err != nil {
			return fmt.Errorf("release %s: %w", fullKey, err)
		}
		if released == 0 {
			return ErrLockLost
		}
		return nil
	}
}

func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("lock token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
