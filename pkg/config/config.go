package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/wadjakorntonsri/go-binder-catalog/pkg/cache"
)

const (
	EnvProduction = "production"

	productionSiteURL = "https://yugibinder.com"
	localSiteURL      = "http://localhost:3000"
)

type Config struct {
	Port               string
	DatabaseURL        string
	AppEnv             string
	LogLevel           string
	JWTSecret          string
	AllowedOrigins     []string
	SiteURL            string
	CardImageBaseURL   string
	BinderImageBaseURL string

	CacheTTL             time.Duration
	CacheCapacity        int
	CacheShards          int
	CacheEvictionPercent int

	DBPoolSize int
}

// Load reads .env when present, then the TOML file named by CONFIG_FILE, then the environment.
// Environment variables win over file values, file values win over defaults.
func Load() (*Config, error) {
	_ = godotenv.Load() // Ignore error if .env not found (e.g. prod)

	src := source{env: os.LookupEnv}
	if path, ok := os.LookupEnv("CONFIG_FILE"); ok && path != "" {
		file, err := readFile(path)
		if err != nil {
			return nil, err
		}
		src.file = file
	}

	return src.build()
}

// source resolves keys against the environment, then an optional file.
type source struct {
	env  func(string) (string, bool)
	file map[string]any
	errs []string
}

func (s *source) build() (*Config, error) {
	appEnv := s.get("APP_ENV", "local")
	siteURL := localSiteURL
	if appEnv == EnvProduction {
		siteURL = productionSiteURL
	}

	cfg := &Config{
		Port:                 s.get("PORT", "8080"),
		DatabaseURL:          s.get("DATABASE_URL", "file:catalog.sqlite"),
		AppEnv:               appEnv,
		LogLevel:             strings.ToLower(s.get("LOG_LEVEL", "info")),
		JWTSecret:            s.get("JWT_SECRET", "secret"),
		AllowedOrigins:       splitList(s.get("ALLOWED_ORIGINS", "*")),
		SiteURL:              s.get("SITE_URL", siteURL),
		CardImageBaseURL:     s.get("CARD_IMAGE_BASE_URL", "https://imgs.yugibinder.com/cards"),
		BinderImageBaseURL:   s.get("BINDER_IMAGE_BASE_URL", "https://imgs.yugibinder.com/binders"),
		CacheTTL:             s.duration("CACHE_TTL", 10*time.Minute),
		CacheCapacity:        s.integer("CACHE_CAPACITY", 100000),
		CacheShards:          s.integer("CACHE_SHARDS", 64),
		CacheEvictionPercent: s.integer("CACHE_EVICTION_PERCENT", 10),
		DBPoolSize:           s.integer("DB_POOL_SIZE", 10),
	}

	if len(s.errs) > 0 {
		return nil, fmt.Errorf("config: %s", strings.Join(s.errs, "; "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (s *source) get(key, fallback string) string {
	if value, exists := s.env(key); exists {
		return value
	}
	if value, exists := s.file[key]; exists {
		return fmt.Sprint(value)
	}
	return fallback
}

func (s *source) integer(key string, fallback int) int {
	raw := s.get(key, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		s.errs = append(s.errs, fmt.Sprintf("%s must be an integer", key))
		return fallback
	}
	return n
}

func (s *source) duration(key string, fallback time.Duration) time.Duration {
	raw := s.get(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		s.errs = append(s.errs, fmt.Sprintf("%s must be a duration such as 10m", key))
		return fallback
	}
	return d
}

func readFile(path string) (map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	values := make(map[string]any)
	if err := toml.NewDecoder(f).Decode(&values); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	return values, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, is.Port),
		validation.Field(&c.DatabaseURL, validation.Required),
		validation.Field(&c.AppEnv, validation.Required),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.JWTSecret, validation.Required),
		validation.Field(&c.AllowedOrigins, validation.Required),
		validation.Field(&c.SiteURL, validation.Required, is.URL),
		validation.Field(&c.CardImageBaseURL, validation.Required, is.URL),
		validation.Field(&c.BinderImageBaseURL, validation.Required, is.URL),
		validation.Field(&c.CacheTTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.CacheCapacity, validation.Required, validation.Min(1)),
		validation.Field(&c.CacheShards, validation.Required, validation.Min(1)),
		validation.Field(&c.CacheEvictionPercent, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&c.DBPoolSize, validation.Required, validation.Min(1)),
	)
}

// Cache returns the cache settings.
func (c *Config) Cache() cache.Config {
	cfg := cache.DefaultConfig()
	cfg.TTL = c.CacheTTL
	cfg.Capacity = c.CacheCapacity
	cfg.NumShards = c.CacheShards
	cfg.EvictionPercentage = c.CacheEvictionPercent
	return cfg
}
