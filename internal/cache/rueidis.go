package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/jimmy-wims/course-log/internal/core"
)

// Compile-time interface check.
var _ core.Cache[struct{}] = (*RueidisCache[struct{}])(nil)

// RueidisOptions configures a RueidisCache.
type RueidisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	// ClientTTL enables rueidis client-side caching for reads when > 0.
	// Redis invalidates the local copy through RESP3 tracking.
	ClientTTL time.Duration
}

// RueidisCache stores JSON-encoded values in Redis so that every instance
// of the report service shares user names and option lists.
type RueidisCache[T any] struct {
	client    rueidis.Client
	keyPrefix string
	clientTTL time.Duration
}

// NewRueidisCache connects to Redis and pings it with ctx.
func NewRueidisCache[T any](ctx context.Context, opts RueidisOptions) (*RueidisCache[T], error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{opts.Addr},
		Password:     opts.Password,
		SelectDB:     opts.DB,
		DisableCache: opts.ClientTTL <= 0,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &RueidisCache[T]{
		client:    client,
		keyPrefix: opts.KeyPrefix,
		clientTTL: opts.ClientTTL,
	}, nil
}

func decode[T any](msg rueidis.RedisMessage) (T, error) {
	var value T
	str, err := msg.ToString()
	if err != nil {
		return value, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	if err := json.Unmarshal([]byte(str), &value); err != nil {
		return value, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return value, nil
}

func (r *RueidisCache[T]) Get(ctx context.Context, key string) (T, error) {
	var resp rueidis.RedisResult
	if r.clientTTL > 0 {
		cmd := r.client.B().Get().Key(r.keyPrefix + key).Cache()
		resp = r.client.DoCache(ctx, cmd, r.clientTTL)
	} else {
		resp = r.client.Do(ctx, r.client.B().Get().Key(r.keyPrefix+key).Build())
	}

	msg, err := resp.ToMessage()
	if err != nil {
		var zero T
		if rueidis.IsRedisNil(err) {
			return zero, ErrCacheMiss
		}
		return zero, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return decode[T](msg)
}

func (r *RueidisCache[T]) setCommand(key string, value T, ttl time.Duration) (rueidis.Completed, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return rueidis.Completed{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return r.client.B().Set().
		Key(r.keyPrefix + key).
		Value(string(encoded)).
		Ex(ttl).
		Build(), nil
}

func (r *RueidisCache[T]) Set(ctx context.Context, key string, value T, ttl time.Duration) error {
	cmd, err := r.setCommand(key, value, ttl)
	if err != nil {
		return err
	}
	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}

// MGet skips keys whose value is missing or cannot be decoded.
func (r *RueidisCache[T]) MGet(ctx context.Context, keys []string) (map[string]T, error) {
	result := make(map[string]T, len(keys))
	if len(keys) == 0 {
		return result, nil
	}

	fullKeys := make([]string, len(keys))
	for i, key := range keys {
		fullKeys[i] = r.keyPrefix + key
	}

	values, err := r.client.Do(ctx, r.client.B().Mget().Key(fullKeys...).Build()).ToArray()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}

	for i, val := range values {
		if val.IsNil() {
			continue
		}
		item, err := decode[T](val)
		if err != nil {
			continue
		}
		result[keys[i]] = item
	}
	return result, nil
}

// MSet pipelines one SET per key.
func (r *RueidisCache[T]) MSet(ctx context.Context, values map[string]T, ttl time.Duration) error {
	if len(values) == 0 {
		return nil
	}

	cmds := make(rueidis.Commands, 0, len(values))
	for key, value := range values {
		cmd, err := r.setCommand(key, value, ttl)
		if err != nil {
			return err
		}
		cmds = append(cmds, cmd)
	}

	for _, resp := range r.client.DoMulti(ctx, cmds...) {
		if err := resp.Error(); err != nil {
			return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
		}
	}
	return nil
}

func (r *RueidisCache[T]) Delete(ctx context.Context, key string) error {
	if err := r.client.Do(ctx, r.client.B().Del().Key(r.keyPrefix+key).Build()).Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}

func (r *RueidisCache[T]) Close() error {
	r.client.Close()
	return nil
}

func (r *RueidisCache[T]) Health(ctx context.Context) error {
	if err := r.client.Do(ctx, r.client.B().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}

func (r *RueidisCache[T]) GetWithFetch(
	ctx context.Context,
	key string,
	ttl time.Duration,
	fetchFunc func(ctx context.Context, key string) (T, error),
) (T, error) {
	return getWithFetch(ctx, r, key, ttl, fetchFunc)
}
