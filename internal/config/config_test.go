package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validTestConfig() *Config {
	return &Config{
		JWTSecret:  "a-test-secret-that-is-long-enough-123456",
		Port:       "8264",
		DBPassword: "supersecret",
		DBSSLMode:  "require",
		Env:        "test",
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, validTestConfig().Validate())
	})

	t.Run("missing port", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.Port = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.JWTSecret = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("short secret tolerated outside production", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.JWTSecret = "short"
		assert.NoError(t, cfg.Validate())
	})
}

func TestConfigValidate_Production(t *testing.T) {
	base := func() *Config {
		cfg := validTestConfig()
		cfg.Env = "production"
		return cfg
	}

	t.Run("valid production config passes", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("default jwt secret rejected", func(t *testing.T) {
		cfg := base()
		cfg.JWTSecret = "your-secret-key-change-in-production"
		err := cfg.Validate()
		assert.Error(t, err)
	})

	t.Run("short jwt secret rejected", func(t *testing.T) {
		cfg := base()
		cfg.JWTSecret = strings.Repeat("x", 31)
		assert.Error(t, cfg.Validate())
	})

	t.Run("default db password rejected", func(t *testing.T) {
		cfg := base()
		cfg.DBPassword = "password"
		assert.Error(t, cfg.Validate())
	})

	t.Run("empty db password rejected", func(t *testing.T) {
		cfg := base()
		cfg.DBPassword = ""
		assert.Error(t, cfg.Validate())
	})
}
