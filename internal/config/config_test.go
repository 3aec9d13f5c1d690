package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromLookupDefaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(nil))
	require.NoError(t, err)
	assert.Equal(t, DefaultServerConfig(), cfg)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
}

func TestFromLookupOverrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"BSHIP_HOST":           "127.0.0.1",
		"BSHIP_PORT":           "9000",
		"BSHIP_DEBUG":          "true",
		"STORAGE_TYPE":         "Redis",
		"REDIS_URL":            "redis://cache:6379",
		"BSHIP_ALLOWED_ORIGIN": "https://play.example.com",
	}))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr())
	assert.True(t, cfg.Debug)
	assert.Equal(t, StorageTypeRedis, cfg.StorageType)
	assert.Equal(t, "redis://cache:6379", cfg.RedisURL)
	assert.Equal(t, "https://play.example.com", cfg.AllowedOrigin)
}

func TestFromLookupRejectsBadValues(t *testing.T) {
	tests := map[string]map[string]string{
		"port not a number": {"BSHIP_PORT": "eighty"},
		"port out of range": {"BSHIP_PORT": "70000"},
		"debug not a bool":  {"BSHIP_DEBUG": "sometimes"},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			cfg, err := FromLookup(lookupFrom(env))
			var envErr *EnvError
			assert.ErrorAs(t, err, &envErr)
			assert.Equal(t, DefaultServerConfig(), cfg)
		})
	}
}

func TestFromLookupLeavesCombinationToValidate(t *testing.T) {
	tests := map[string]map[string]string{
		"redis without url": {"STORAGE_TYPE": "redis"},
		"unknown storage":   {"STORAGE_TYPE": "postgres"},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			cfg, err := FromLookup(lookupFrom(env))
			require.NoError(t, err)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestFlagsCanRepairEnvironment(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{"STORAGE_TYPE": "redis"}))
	require.NoError(t, err)
	cfg.RedisURL = "redis://cache:6379"
	assert.NoError(t, cfg.Validate())
}

func TestUnresolved(t *testing.T) {
	_, err := FromLookup(lookupFrom(map[string]string{
		"BSHIP_PORT":  "eighty",
		"BSHIP_DEBUG": "sometimes",
	}))
	require.Error(t, err)

	none := func(string) bool { return false }
	all := func(string) bool { return true }
	portOnly := func(key string) bool { return key == "BSHIP_PORT" }

	assert.NoError(t, Unresolved(nil, none))
	assert.NoError(t, Unresolved(err, all))

	remaining := Unresolved(err, portOnly)
	require.Error(t, remaining)
	assert.Contains(t, remaining.Error(), "BSHIP_DEBUG")
	assert.NotContains(t, remaining.Error(), "BSHIP_PORT")

	assert.Equal(t, err.Error(), Unresolved(err, none).Error())
}
