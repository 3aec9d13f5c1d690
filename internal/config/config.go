package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Storage backends
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// ServerConfig holds the settings for the server binary
type ServerConfig struct {
	Host          string
	Port          int
	Debug         bool
	StorageType   string
	RedisURL      string
	AllowedOrigin string // empty allows any origin on the websocket endpoint
}

// DefaultServerConfig returns the settings used when nothing is configured
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:        "0.0.0.0",
		Port:        8080,
		StorageType: StorageTypeMemory,
	}
}

// EnvError reports an environment variable whose value could not be parsed.
// The setting keeps its default so that a flag can still replace it.
type EnvError struct {
	Key   string
	Value string
}

func (e *EnvError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Key, e.Value)
}

// LoadFromEnv reads an optional .env file and then the BSHIP_* environment variables
// on top of the defaults. Values already set in the environment win over the file.
func LoadFromEnv() (ServerConfig, error) {
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a config from an environment lookup function. Unparseable values
// are reported as joined *EnvError values alongside the config. The combination of
// settings is not checked here; call Validate once flags have been applied.
func FromLookup(lookup func(string) (string, bool)) (ServerConfig, error) {
	cfg := DefaultServerConfig()
	var errs []error

	if v, ok := lookup("BSHIP_HOST"); ok && v != "" {
		cfg.Host = v
	}
	if v, ok := lookup("BSHIP_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			errs = append(errs, &EnvError{Key: "BSHIP_PORT", Value: v})
		} else {
			cfg.Port = port
		}
	}
	if v, ok := lookup("BSHIP_DEBUG"); ok && v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, &EnvError{Key: "BSHIP_DEBUG", Value: v})
		} else {
			cfg.Debug = debug
		}
	}
	if v, ok := lookup("STORAGE_TYPE"); ok && v != "" {
		cfg.StorageType = strings.ToLower(v)
	}
	if v, ok := lookup("REDIS_URL"); ok {
		cfg.RedisURL = v
	}
	if v, ok := lookup("BSHIP_ALLOWED_ORIGIN"); ok {
		cfg.AllowedOrigin = v
	}

	return cfg, errors.Join(errs...)
}

// Unresolved drops the environment errors whose setting was overridden
// and returns what is left, or nil.
func Unresolved(err error, overridden func(key string) bool) error {
	if err == nil {
		return nil
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return err
	}
	var remaining []error
	for _, e := range joined.Unwrap() {
		var envErr *EnvError
		if errors.As(e, &envErr) && overridden(envErr.Key) {
			continue
		}
		remaining = append(remaining, e)
	}
	return errors.Join(remaining...)
}

// Validate checks the combination of settings
func (c ServerConfig) Validate() error {
	switch c.StorageType {
	case StorageTypeMemory:
	case StorageTypeRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL required when STORAGE_TYPE=%s", StorageTypeRedis)
		}
	default:
		return fmt.Errorf("unknown storage type %q", c.StorageType)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	return nil
}

// Addr returns the listen address
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
