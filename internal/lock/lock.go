// Package lock provides a short-TTL distributed advisory lock backed by
// Redis, used by BookingService to serialize seat reservation across
// concurrent app instances ahead of the per-row SELECT ... FOR UPDATE.
//
// No source in the pack uses redis/go-redis; only the go.mod manifests of
// other_examples/manifests/drobiAlex-wabus-backend and
// manyunyu7-168railway-golang-ltc list it as a dependency (see DESIGN.md).
// The SetNX/token/Lua-unlock shape below follows go-redis's own documented
// locking recipe, not any file in the pack.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotHeld is returned when Unlock is called with a token that no longer
// owns the lock (expired or released already).
var ErrNotHeld = errors.New("lock: not held")

// unlockScript deletes the key only if its value still matches the token
// that acquired it, preventing a released/expired lock from being freed by
// a different holder.
const unlockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
else
    return 0
end
`

// Locker acquires short-lived advisory locks keyed by an arbitrary string.
type Locker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLocker builds a Locker against the given Redis client, with lock
// entries expiring after ttl if never explicitly released.
func NewLocker(client *redis.Client, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &Locker{client: client, ttl: ttl}
}

// Handle is the token returned by a successful Lock, required to Unlock.
type Handle struct {
	key   string
	token string
}

// Lock blocks, retrying every 25ms, until it acquires the advisory lock
// for key or ctx is done. Callers should always `defer locker.Unlock(ctx,
// handle)` once a Handle is obtained.
func (l *Locker) Lock(ctx context.Context, key string) (Handle, error) {
	token := uuid.NewString()
	fullKey := lockKey(key)

	const retryDelay = 25 * time.Millisecond
	for {
		ok, err := l.client.SetNX(ctx, fullKey, token, l.ttl).Result()
		if err != nil {
			return Handle{}, fmt.Errorf("lock: acquire %q: %w", key, err)
		}
		if ok {
			return Handle{key: fullKey, token: token}, nil
		}

		select {
		case <-ctx.Done():
			return Handle{}, fmt.Errorf("lock: acquire %q: %w", key, ctx.Err())
		case <-time.After(retryDelay):
		}
	}
}

// Unlock releases h if it is still the current holder of its key. Unlock
// on an already-expired or already-released handle returns ErrNotHeld.
func (l *Locker) Unlock(ctx context.Context, h Handle) error {
	res, err := l.client.Eval(ctx, unlockScript, []string{h.key}, h.token).Result()
	if err != nil {
		return fmt.Errorf("lock: release %q: %w", h.key, err)
	}
	n, _ := res.(int64)
	if n == 0 {
		return ErrNotHeld
	}
	return nil
}

func lockKey(key string) string {
	return "traits:lock:" + key
}
