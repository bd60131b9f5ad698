package services

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/jimmy-wims/course-log/internal/core"
	"github.com/jimmy-wims/course-log/internal/report"
)

const userNameKeyPrefix = "user:name:"

// CachedNames resolves user names through a shared cache in front of the
// directory. Names are looked up with one MGet per batch.
type CachedNames struct {
	dir     report.NameResolver
	cache   core.Cache[string]
	ttl     time.Duration
	metrics core.Recorder
}

var _ report.NameResolver = (*CachedNames)(nil)

func NewCachedNames(
	dir report.NameResolver,
	c core.Cache[string],
	ttl time.Duration,
	m core.Recorder,
) *CachedNames {
	return &CachedNames{dir: dir, cache: c, ttl: ttl, metrics: m}
}

func userNameKey(id int64) string {
	return userNameKeyPrefix + strconv.FormatInt(id, 10)
}

// UserNames returns cached names and fetches the rest from the directory.
// A cache failure falls back to the directory.
func (n *CachedNames) UserNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	if len(ids) == 0 {
		return map[int64]string{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = userNameKey(id)
	}
	cached, err := n.cache.MGet(ctx, keys)
	if err != nil {
		log.Printf("[Report] user name cache unavailable: %v", err)
		cached = nil
	}

	out := make(map[int64]string, len(ids))
	var missing []int64
	for _, id := range ids {
		if name, ok := cached[userNameKey(id)]; ok {
			out[id] = name
			n.record(true)
			continue
		}
		missing = append(missing, id)
		n.record(false)
	}
	if len(missing) == 0 {
		return out, nil
	}

	found, err := n.dir.UserNames(ctx, missing)
	if err != nil {
		return nil, err
	}
	toCache := make(map[string]string, len(found))
	for id, name := range found {
		out[id] = name
		toCache[userNameKey(id)] = name
	}
	if len(toCache) > 0 {
		if err := n.cache.MSet(ctx, toCache, n.ttl); err != nil {
			log.Printf("[Report] failed to cache %d user names: %v", len(toCache), err)
		}
	}
	return out, nil
}

// Forget drops cached names, e.g. after a user was renamed on the host.
func (n *CachedNames) Forget(ctx context.Context, ids ...int64) error {
	var errs []error
	for _, id := range ids {
		if err := n.cache.Delete(ctx, userNameKey(id)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (n *CachedNames) record(hit bool) {
	if n.metrics != nil {
		n.metrics.RecordCacheLookup("user_names", hit)
	}
}
