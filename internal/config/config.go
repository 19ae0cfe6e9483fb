// Package config загружает настройки клиента и proxy.
// Приоритет: значения по умолчанию < YAML файл < .env < переменные MAZAD_* < флаги CLI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix - префикс переменных окружения
const EnvPrefix = "MAZAD_"

// Storage backends
const (
	StorageBolt   = "bolt"
	StorageSQLite = "sqlite"
)

var (
	ErrMissingBackendURL = errors.New("backend url is required")
	ErrMissingAPIKey     = errors.New("api key is required")
	ErrInvalidStorage    = errors.New("unknown storage backend")
)

// Config - общие настройки бинарников mazadlive и proxy
type Config struct {
	BackendURL     string        `yaml:"backend_url"`
	RealtimeURL    string        `yaml:"realtime_url"`
	APIKey         string        `yaml:"api_key"`
	DBPath         string        `yaml:"db_path"`
	Storage        string        `yaml:"storage"`
	SessionSecret  string        `yaml:"session_secret"`
	ListenAddr     string        `yaml:"listen_addr"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	PollInterval   time.Duration `yaml:"poll_interval"`
	RateLimit      int           `yaml:"rate_limit"`
	Debug          bool          `yaml:"debug"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		BackendURL:     "http://localhost:3000",
		DBPath:         "mazadlive.db",
		Storage:        StorageBolt,
		ListenAddr:     ":8080",
		AllowedOrigins: []string{"*"},
		PollInterval:   5 * time.Second,
		RateLimit:      100,
	}
}

// Load собирает конфигурацию. Пустой path пропускает YAML файл;
// отсутствующий .env не является ошибкой.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if envFile != "" {
		// godotenv не перезаписывает уже заданные переменные окружения
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	return nil
}

// applyEnv применяет MAZAD_* переменные; lookup подменяется в тестах
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		if !ok || v == "" {
			return "", false
		}
		return v, true
	}

	if v, ok := get("BACKEND_URL"); ok {
		c.BackendURL = v
	}
	if v, ok := get("REALTIME_URL"); ok {
		c.RealtimeURL = v
	}
	if v, ok := get("API_KEY"); ok {
		c.APIKey = v
	}
	if v, ok := get("DB_PATH"); ok {
		c.DBPath = v
	}
	if v, ok := get("STORAGE"); ok {
		c.Storage = v
	}
	if v, ok := get("SESSION_SECRET"); ok {
		c.SessionSecret = v
	}
	if v, ok := get("LISTEN_ADDR"); ok {
		c.ListenAddr = v
	}
	if v, ok := get("ALLOWED_ORIGINS"); ok {
		c.AllowedOrigins = splitList(v)
	}
	if v, ok := get("POLL_INTERVAL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sPOLL_INTERVAL: %w", EnvPrefix, err)
		}
		c.PollInterval = d
	}
	if v, ok := get("RATE_LIMIT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sRATE_LIMIT: %w", EnvPrefix, err)
		}
		c.RateLimit = n
	}
	if v, ok := get("DEBUG"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sDEBUG: %w", EnvPrefix, err)
		}
		c.Debug = b
	}

	return nil
}

// RealtimeEndpoint возвращает адрес WebSocket; по умолчанию выводится из BackendURL
func (c *Config) RealtimeEndpoint() string {
	if c.RealtimeURL != "" {
		return c.RealtimeURL
	}

	url := strings.TrimRight(c.BackendURL, "/")
	switch {
	case strings.HasPrefix(url, "https://"):
		url = "wss://" + strings.TrimPrefix(url, "https://")
	case strings.HasPrefix(url, "http://"):
		url = "ws://" + strings.TrimPrefix(url, "http://")
	}
	return url + "/ws"
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.BackendURL) == "" {
		errs = append(errs, ErrMissingBackendURL)
	}
	if strings.TrimSpace(c.APIKey) == "" {
		errs = append(errs, ErrMissingAPIKey)
	}
	if c.Storage != StorageBolt && c.Storage != StorageSQLite {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidStorage, c.Storage))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("poll interval must be positive, got %s", c.PollInterval))
	}
	if c.RateLimit <= 0 {
		errs = append(errs, fmt.Errorf("rate limit must be positive, got %d", c.RateLimit))
	}

	return errors.Join(errs...)
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
