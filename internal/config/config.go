package config

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	CacheMemory = "memory"
	CacheRedis  = "redis"

	VaultDB      = "db"
	VaultKeyring = "keyring"
)

var (
	ErrMissingBaseURL   = errors.New("ADMIN_API_URL is required")
	ErrInvalidCache     = errors.New("CACHE_BACKEND must be 'memory' or 'redis'")
	ErrInvalidVault     = errors.New("TOKEN_VAULT must be 'db' or 'keyring'")
	ErrMissingStateDSN  = errors.New("STATE_DSN is required")
	ErrInvalidPageSize  = errors.New("PAGE_SIZE must be > 0")
	ErrInvalidStaleTime = errors.New("CACHE_STALE_TIME must be >= 0")
)

type Config struct {
	API     APIConfig
	Cache   CacheConfig
	Redis   RedisConfig
	State   StateConfig
	Crypto  CryptoConfig
	UI      UIConfig
	Log     LogConfig
	Metrics MetricsConfig
}

type APIConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

type CacheConfig struct {
	Backend   string
	StaleTime time.Duration
	GCTime    time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type StateConfig struct {
	Driver      string
	DSN         string
	AutoMigrate bool
	Vault       string
}

// CryptoConfig holds the keys used to seal the bearer token at rest.
// An empty key set leaves the token stored in plain text.
type CryptoConfig struct {
	CurrentKeyID string
	Keys         map[string][]byte
}

type UIConfig struct {
	PageSize       int
	DebounceWindow time.Duration
	Language       string
	Theme          string
}

type LogConfig struct {
	Level string
}

type MetricsConfig struct {
	Addr string
}

// Load reads configuration from the environment. When ADMIN_CONFIG_FILE points at a
// YAML file its values act as defaults that environment variables override.
func Load() (*Config, error) {
	src := source{file: map[string]string{}}
	if path := strings.TrimSpace(os.Getenv("ADMIN_CONFIG_FILE")); path != "" {
		file, err := readFile(path)
		if err != nil {
			return nil, err
		}
		src.file = file
	}
	return load(src)
}

func load(src source) (*Config, error) {
	cfg := &Config{
		API: APIConfig{
			BaseURL:   strings.TrimSuffix(src.str("ADMIN_API_URL", "http://localhost:8000/api/v1"), "/"),
			Timeout:   src.duration("HTTP_TIMEOUT", 30*time.Second),
			UserAgent: src.str("HTTP_USER_AGENT", "adminctl"),
		},
		Cache: CacheConfig{
			Backend:   strings.ToLower(src.str("CACHE_BACKEND", CacheMemory)),
			StaleTime: src.duration("CACHE_STALE_TIME", time.Minute),
			GCTime:    src.duration("CACHE_GC_TIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Addr:     src.str("REDIS_ADDR", "127.0.0.1:6379"),
			Password: src.str("REDIS_PASSWORD", ""),
			DB:       src.int("REDIS_DB", 0),
			Prefix:   src.str("REDIS_PREFIX", "adminconsole:query"),
		},
		State: StateConfig{
			Driver:      strings.ToLower(src.str("STATE_DRIVER", "sqlite")),
			DSN:         src.str("STATE_DSN", defaultStateDSN()),
			AutoMigrate: src.bool("AUTO_MIGRATE", true),
			Vault:       strings.ToLower(src.str("TOKEN_VAULT", VaultDB)),
		},
		UI: UIConfig{
			PageSize:       src.int("PAGE_SIZE", 20),
			DebounceWindow: src.duration("DEBOUNCE_WINDOW", 300*time.Millisecond),
			Language:       src.str("UI_LANGUAGE", "en"),
			Theme:          src.str("UI_THEME", "system"),
		},
		Log: LogConfig{
			Level: strings.ToLower(src.str("LOG_LEVEL", "info")),
		},
		Metrics: MetricsConfig{
			Addr: src.str("METRICS_ADDR", ""),
		},
	}

	if cfg.API.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if cfg.Cache.Backend != CacheMemory && cfg.Cache.Backend != CacheRedis {
		return nil, ErrInvalidCache
	}
	if cfg.Cache.StaleTime < 0 {
		return nil, ErrInvalidStaleTime
	}
	if cfg.State.Vault != VaultDB && cfg.State.Vault != VaultKeyring {
		return nil, ErrInvalidVault
	}
	if cfg.State.DSN == "" {
		return nil, ErrMissingStateDSN
	}
	if cfg.UI.PageSize <= 0 {
		return nil, ErrInvalidPageSize
	}

	cc, err := loadCryptoConfig(src)
	if err != nil {
		return nil, err
	}
	cfg.Crypto = cc

	return cfg, nil
}

func loadCryptoConfig(src source) (CryptoConfig, error) {
	keysB64 := map[string]string{}

	if raw := src.str("STATE_KEYS_JSON", ""); raw != "" {
		var parsed map[string]string
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			return CryptoConfig{}, fmt.Errorf("parse STATE_KEYS_JSON: %w", err)
		}
		for id, val := range parsed {
			if strings.TrimSpace(id) == "" || strings.TrimSpace(val) == "" {
				continue
			}
			keysB64[id] = val
		}
	}

	for _, e := range os.Environ() {
		k, v, ok := strings.Cut(e, "=")
		if !ok || k == "STATE_KEY_B64" {
			continue
		}
		if !strings.HasPrefix(k, "STATE_KEY_") || !strings.HasSuffix(k, "_B64") {
			continue
		}
		id := strings.TrimSuffix(strings.TrimPrefix(k, "STATE_KEY_"), "_B64")
		if id == "" || v == "" {
			continue
		}
		keysB64[id] = v
	}

	current := src.str("STATE_KEY_CURRENT_ID", "")
	if single := src.str("STATE_KEY_B64", ""); single != "" {
		if current == "" {
			current = "default"
		}
		keysB64[current] = single
	}

	if len(keysB64) == 0 {
		return CryptoConfig{}, nil
	}

	keys := make(map[string][]byte, len(keysB64))
	for id, b64 := range keysB64 {
		raw, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return CryptoConfig{}, fmt.Errorf("decode state key %q: %w", id, err)
		}
		if len(raw) != 32 {
			return CryptoConfig{}, fmt.Errorf("state key %q must be 32 bytes after base64 decode", id)
		}
		keys[id] = raw
	}

	if current == "" {
		for id := range keys {
			current = id
			break
		}
	}
	if _, ok := keys[current]; !ok {
		return CryptoConfig{}, fmt.Errorf("STATE_KEY_CURRENT_ID=%q does not exist in provided keys", current)
	}

	return CryptoConfig{CurrentKeyID: current, Keys: keys}, nil
}

// fileConfig is the YAML layout accepted by ADMIN_CONFIG_FILE.
type fileConfig struct {
	API struct {
		URL       string `yaml:"url"`
		Timeout   string `yaml:"timeout"`
		UserAgent string `yaml:"user_agent"`
	} `yaml:"api"`
	Cache struct {
		Backend   string `yaml:"backend"`
		StaleTime string `yaml:"stale_time"`
		GCTime    string `yaml:"gc_time"`
	} `yaml:"cache"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       string `yaml:"db"`
		Prefix   string `yaml:"prefix"`
	} `yaml:"redis"`
	State struct {
		Driver      string `yaml:"driver"`
		DSN         string `yaml:"dsn"`
		AutoMigrate string `yaml:"auto_migrate"`
		Vault       string `yaml:"vault"`
	} `yaml:"state"`
	UI struct {
		PageSize       string `yaml:"page_size"`
		DebounceWindow string `yaml:"debounce_window"`
		Language       string `yaml:"language"`
		Theme          string `yaml:"theme"`
	} `yaml:"ui"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
}

func readFile(path string) (map[string]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return parseFile(b)
}

func parseFile(b []byte) (map[string]string, error) {
	var f fileConfig
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return map[string]string{
		"ADMIN_API_URL":    f.API.URL,
		"HTTP_TIMEOUT":     f.API.Timeout,
		"HTTP_USER_AGENT":  f.API.UserAgent,
		"CACHE_BACKEND":    f.Cache.Backend,
		"CACHE_STALE_TIME": f.Cache.StaleTime,
		"CACHE_GC_TIME":    f.Cache.GCTime,
		"REDIS_ADDR":       f.Redis.Addr,
		"REDIS_PASSWORD":   f.Redis.Password,
		"REDIS_DB":         f.Redis.DB,
		"REDIS_PREFIX":     f.Redis.Prefix,
		"STATE_DRIVER":     f.State.Driver,
		"STATE_DSN":        f.State.DSN,
		"AUTO_MIGRATE":     f.State.AutoMigrate,
		"TOKEN_VAULT":      f.State.Vault,
		"PAGE_SIZE":        f.UI.PageSize,
		"DEBOUNCE_WINDOW":  f.UI.DebounceWindow,
		"UI_LANGUAGE":      f.UI.Language,
		"UI_THEME":         f.UI.Theme,
		"LOG_LEVEL":        f.Log.Level,
		"METRICS_ADDR":     f.Metrics.Addr,
	}, nil
}

// source resolves a key from the environment first and the config file second.
type source struct {
	env  func(string) string
	file map[string]string
}

func (s source) lookup(key string) string {
	getenv := s.env
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := strings.TrimSpace(getenv(key)); v != "" {
		return v
	}
	return strings.TrimSpace(s.file[key])
}

func (s source) str(key string, def string) string {
	if v := s.lookup(key); v != "" {
		return v
	}
	return def
}

func (s source) int(key string, def int) int {
	v := s.lookup(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func (s source) bool(key string, def bool) bool {
	v := s.lookup(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func (s source) duration(key string, def time.Duration) time.Duration {
	v := s.lookup(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func defaultStateDSN() string {
	dir, err := os.UserConfigDir()
	if err != nil || strings.TrimSpace(dir) == "" {
		return "adminconsole.db"
	}
	return dir + string(os.PathSeparator) + "adminconsole" + string(os.PathSeparator) + "state.db"
}
