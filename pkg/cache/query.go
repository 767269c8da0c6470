package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"evm-bridge/pkg/crypto_util"

	"golang.org/x/sync/singleflight"
)

// Key builds a bounded-width cache key from its parts. Parts can be
// arbitrarily long (addresses, URLs), so the joined key is digested.
func Key(parts ...string) string {
	joined := strings.Join(parts, ":")
	return "q:" + crypto_util.CalculateBlake3([]byte(joined))
}

// QueryCache memoizes expensive read queries on top of a Cache. GetOrCompute
// guarantees at most one concurrent computation per key: callers arriving
// while a computation is in flight wait for its result instead of issuing a
// duplicate upstream call. Entries expire ttl after they were produced and
// are recomputed lazily on the next access.
type QueryCache struct {
	store Cache
	sf    singleflight.Group
}

func NewQueryCache(store Cache) *QueryCache {
	return &QueryCache{store: store}
}

// GetOrCompute loads the value under key into target, running compute and
// storing its result when the entry is absent or expired.
func (q *QueryCache) GetOrCompute(
	ctx context.Context,
	key string,
	ttl time.Duration,
	compute func(ctx context.Context) (interface{}, error),
	target interface{},
) error {
	var raw json.RawMessage
	if err := q.store.Get(ctx, key, &raw); err == nil {
		return json.Unmarshal(raw, target)
	}

	v, err, _ := q.sf.Do(key, func() (interface{}, error) {
		// Re-check: another flight may have filled the entry while this
		// caller was queued on the singleflight lock.
		var cached json.RawMessage
		if err := q.store.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}

		val, err := compute(ctx)
		if err != nil {
			return nil, err
		}

		bytes, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		// A failed Set only costs a recomputation later, so it is not
		// surfaced to the caller.
		_ = q.store.Set(ctx, key, json.RawMessage(bytes), ttl)

		return json.RawMessage(bytes), nil
	})
	if err != nil {
		return err
	}

	return json.Unmarshal(v.(json.RawMessage), target)
}
