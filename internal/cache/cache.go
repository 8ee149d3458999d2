// Package cache keeps grouped review views of movies in Redis.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis"

	"github.com/Clark-Hu/streamcatalog/internal/domain"
)

const (
	// DefaultPrefix namespaces every key written by ReviewViews.
	DefaultPrefix = "catalog:reviews"
	// DefaultTTL bounds how long a cached view may be served.
	DefaultTTL = 60 * time.Second
)

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	Prefix   string
}

// ReviewViews stores per-movie grouped review views. A view lives in a slot
// whose key embeds a global generation and a per-movie version: Invalidate
// bumps the version, InvalidateAll the generation. Readers resolve the slot
// before loading from the store, so a view loaded across an invalidation is
// written to a slot nobody reads any more and expires with its TTL.
type ReviewViews struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// Connect dials Redis and verifies the connection with a PING.
func Connect(ctx context.Context, opts Options) (*ReviewViews, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.WithContext(ctx).Ping().Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return New(client, opts.Prefix, opts.TTL), nil
}

// New wraps an existing client.
func New(client *redis.Client, prefix string, ttl time.Duration) *ReviewViews {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ReviewViews{client: client, prefix: prefix, ttl: ttl}
}

// Close releases the underlying connection pool.
func (v *ReviewViews) Close() error {
	return v.client.Close()
}

// Slot resolves the key a view of movieID is currently stored under.
func (v *ReviewViews) Slot(ctx context.Context, movieID string) (string, error) {
	vals, err := v.client.WithContext(ctx).MGet(generationKey(v.prefix), versionKey(v.prefix, movieID)).Result()
	if err != nil {
		return "", err
	}
	gen, err := parseCounter(vals[0])
	if err != nil {
		return "", fmt.Errorf("parse generation: %w", err)
	}
	ver, err := parseCounter(vals[1])
	if err != nil {
		return "", fmt.Errorf("parse version of movie %s: %w", movieID, err)
	}
	return viewKey(v.prefix, gen, ver, movieID), nil
}

// Get returns the view stored in slot. The boolean is false on a miss.
func (v *ReviewViews) Get(ctx context.Context, slot string) (domain.ReviewsByPlatform, bool, error) {
	raw, err := v.client.WithContext(ctx).Get(slot).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var view domain.ReviewsByPlatform
	if err := json.Unmarshal(raw, &view); err != nil {
		return nil, false, fmt.Errorf("decode cached view: %w", err)
	}
	return view, true, nil
}

// Set stores view in slot.
func (v *ReviewViews) Set(ctx context.Context, slot string, view domain.ReviewsByPlatform) error {
	raw, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("encode view: %w", err)
	}
	return v.client.WithContext(ctx).Set(slot, raw, v.ttl).Err()
}

// Invalidate moves movieID to a fresh slot. The version key outlives every
// view written under an older version.
func (v *ReviewViews) Invalidate(ctx context.Context, movieID string) error {
	key := versionKey(v.prefix, movieID)
	_, err := v.client.WithContext(ctx).TxPipelined(func(pipe redis.Pipeliner) error {
		pipe.Incr(key)
		pipe.Expire(key, 2*v.ttl)
		return nil
	})
	return err
}

// InvalidateAll bumps the generation; older keys expire on their own.
func (v *ReviewViews) InvalidateAll(ctx context.Context) error {
	return v.client.WithContext(ctx).Incr(generationKey(v.prefix)).Err()
}

func parseCounter(val interface{}) (int64, error) {
	switch x := val.(type) {
	case nil:
		return 0, nil
	case string:
		return strconv.ParseInt(x, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected counter value %T", val)
	}
}

func generationKey(prefix string) string {
	return prefix + ":gen"
}

func versionKey(prefix, movieID string) string {
	return prefix + ":ver:" + movieID
}

func viewKey(prefix string, gen, ver int64, movieID string) string {
	return prefix + ":" + strconv.FormatInt(gen, 10) + ":" + movieID + ":" + strconv.FormatInt(ver, 10)
}

// Noop satisfies the same contract as ReviewViews and never hits.
type Noop struct{}

// Slot returns the empty slot; callers skip Get and Set for it.
func (Noop) Slot(context.Context, string) (string, error) { return "", nil }

func (Noop) Get(context.Context, string) (domain.ReviewsByPlatform, bool, error) {
	return nil, false, nil
}

func (Noop) Set(context.Context, string, domain.ReviewsByPlatform) error { return nil }

func (Noop) Invalidate(context.Context, string) error { return nil }

func (Noop) InvalidateAll(context.Context) error { return nil }
