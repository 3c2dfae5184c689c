package cacheinfra

import (
	"context"
	"time"

	"github.com/viccon/sturdyc"
)

// Config holds the configuration for the sturdyc cache adapter.
type Config struct {
	// Capacity is the maximum number of entries. Must be greater than 0.
	Capacity int

	// NumShards splits the key space for concurrent access. Must be greater than 0.
	NumShards int

	// TTL is the freshness window. An entry is served only while its age is below TTL.
	TTL time.Duration

	// EvictionPercentage is the share of entries dropped when Capacity is reached. Must be between 1-100.
	EvictionPercentage int

	// EvictionInterval sets how often expired entries are swept. Zero uses the sturdyc default.
	EvictionInterval time.Duration

	// Clock drives both freshness checks and sturdyc expiry. Nil means wall time.
	Clock sturdyc.Clock
}

// DefaultConfig returns the configuration used by the catalog API.
func DefaultConfig() Config {
	return Config{
		Capacity:           100000,
		NumShards:          64,
		TTL:                10 * time.Minute,
		EvictionPercentage: 10,
	}
}

// ToSturdycOptions converts the Config to sturdyc options. Capacity, NumShards, TTL and
// EvictionPercentage go straight to sturdyc.New.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option

	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}
	if c.Clock != nil {
		options = append(options, sturdyc.WithClock(c.Clock))
	}

	return options
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}
	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}
	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}
	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}
	if c.EvictionInterval < 0 {
		return &ConfigError{Field: "EvictionInterval", Message: "must be non-negative"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// entry is a cached payload and the time it was written.
type entry struct {
	value     any
	writtenAt time.Time
}

// sturdycService wraps a sturdyc client holding timestamped entries.
type sturdycService struct {
	client *sturdyc.Client[entry]
	ttl    time.Duration
	now    func() time.Time
}

// NewSturdycService validates cfg and builds the adapter.
func NewSturdycService(cfg Config) (*sturdycService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[entry](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	now := time.Now
	if cfg.Clock != nil {
		now = cfg.Clock.Now
	}

	return &sturdycService{client: client, ttl: cfg.TTL, now: now}, nil
}

// Get returns the payload stored under key when its age is below the TTL.
func (s *sturdycService) Get(_ context.Context, key string) (any, bool) {
	e, ok := s.client.Get(key)
	if !ok {
		return nil, false
	}
	if s.now().Sub(e.writtenAt) >= s.ttl {
		return nil, false
	}
	return e.value, true
}

// Set overwrites key with value stamped at the current time.
func (s *sturdycService) Set(_ context.Context, key string, value any) {
	s.client.Set(key, entry{value: value, writtenAt: s.now()})
}

// Delete removes a single entry.
func (s *sturdycService) Delete(_ context.Context, key string) {
	s.client.Delete(key)
}
