// Package cache memoizes single-item reads for a fixed freshness window.
//
// Keys are namespaced by resource kind so a card id can never collide with a binder id or any
// other literal key. Writes overwrite unconditionally. Deleting an item drops its entry; other
// mutations do not invalidate, so a read may be stale by up to the TTL.
package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/viccon/sturdyc"
	"github.com/wadjakorntonsri/go-binder-catalog/internal/cacheinfra"
)

// Service is a TTL keyed store of immutable snapshots.
type Service interface {
	Get(ctx context.Context, key string) (any, bool)
	Set(ctx context.Context, key string, value any)
	Delete(ctx context.Context, key string)
}

// Kind namespaces cache keys.
type Kind string

const (
	KindCard   Kind = "card"
	KindBinder Kind = "binder"
)

// KeySeparator joins a Kind and an item id.
const KeySeparator = "::"

// Key builds the cache key for one item.
func Key(kind Kind, id int64) string {
	return string(kind) + KeySeparator + strconv.FormatInt(id, 10)
}

// Get returns the fresh snapshot of kind/id, if any.
func Get[T any](ctx context.Context, s Service, kind Kind, id int64) (T, bool) {
	var zero T
	v, ok := s.Get(ctx, Key(kind, id))
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// Put stores a snapshot of kind/id.
func Put[T any](ctx context.Context, s Service, kind Kind, id int64, v T) {
	s.Set(ctx, Key(kind, id), v)
}

// Config exposes cache configuration options for consumers of the cache package.
type Config struct {
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
	EvictionInterval   time.Duration
	Clock              sturdyc.Clock
}

// DefaultConfig returns a Config populated with the API defaults.
func DefaultConfig() Config {
	return convertFromInternal(cacheinfra.DefaultConfig())
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return c.toInternal().Validate()
}

// New constructs the sturdyc backed Service.
func New(cfg Config) (Service, error) {
	svc, err := cacheinfra.NewSturdycService(cfg.toInternal())
	if err != nil {
		return nil, err
	}
	return svc, nil
}

func (c Config) toInternal() cacheinfra.Config {
	return cacheinfra.Config{
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		TTL:                c.TTL,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
		Clock:              c.Clock,
	}
}

func convertFromInternal(cfg cacheinfra.Config) Config {
	return Config{
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		TTL:                cfg.TTL,
		EvictionPercentage: cfg.EvictionPercentage,
		EvictionInterval:   cfg.EvictionInterval,
		Clock:              cfg.Clock,
	}
}
