package config

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("POOL_SIZE", "4")
	t.Setenv("OUTPUT_PATH", "/tmp/out/{}.json")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("HEADLESS", "false")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.PoolSize)
	assert.Equal(t, "/tmp/out/{}.json", cfg.OutputPath)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "empty pool", mutate: func(c *Config) { c.PoolSize = 0 }},
		{name: "no placeholder", mutate: func(c *Config) { c.OutputPath = "data/output/all.json" }},
		{name: "two placeholders", mutate: func(c *Config) { c.OutputPath = "{}/{}.json" }},
		{name: "unknown zone", mutate: func(c *Config) { c.TimeZone = "Mars/Olympus" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("POOL_SIZE", "many")
	_, err := Load()
	assert.Error(t, err)
}
