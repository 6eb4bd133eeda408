package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "vahan_yearly.csv", cfg.Sources.YearlyFile)
	assert.True(t, cfg.Security.RateLimit.Enabled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "default config is valid",
			modify: func(c *Config) {},
		},
		{
			name:    "invalid port",
			modify:  func(c *Config) { c.Server.Port = -1 },
			wantErr: "invalid server port",
		},
		{
			name:    "zero read timeout",
			modify:  func(c *Config) { c.Server.ReadTimeout = 0 },
			wantErr: "read timeout",
		},
		{
			name:    "no allowed origins",
			modify:  func(c *Config) { c.Security.AllowedOrigins = nil },
			wantErr: "allowed origin",
		},
		{
			name:    "zero cache ttl",
			modify:  func(c *Config) { c.Cache.TTL = 0 },
			wantErr: "cache ttl",
		},
		{
			name:    "blank yearly source",
			modify:  func(c *Config) { c.Sources.YearlyFile = "  " },
			wantErr: "source files",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateCoercesLoggingDefaults(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "logs/app.log", cfg.Logging.FilePath)
}

func TestSourcePaths(t *testing.T) {
	tests := []struct {
		name    string
		sources SourcesConfig
		yearly  string
		monthly string
	}{
		{
			name:    "relative files resolve against data dir",
			sources: SourcesConfig{DataDir: "data", YearlyFile: "y.csv", MonthlyFile: "m.csv"},
			yearly:  filepath.Join("data", "y.csv"),
			monthly: filepath.Join("data", "m.csv"),
		},
		{
			name:    "absolute files pass through",
			sources: SourcesConfig{DataDir: "data", YearlyFile: "/srv/y.xlsx", MonthlyFile: "/srv/m.csv"},
			yearly:  "/srv/y.xlsx",
			monthly: "/srv/m.csv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.yearly, tt.sources.YearlyPath())
			assert.Equal(t, tt.monthly, tt.sources.MonthlyPath())
		})
	}
}

func TestMergeConfigs(t *testing.T) {
	fileCfg := *Default()
	fileCfg.Server.Port = 9090
	fileCfg.Cache.TTL = 2 * time.Hour
	fileCfg.Sources.MonthlyFile = "month.csv"

	envCfg := Config{}
	merged := mergeConfigs(fileCfg, envCfg)

	assert.Equal(t, 9090, merged.Server.Port)
	assert.Equal(t, 2*time.Hour, merged.Cache.TTL)
	assert.Equal(t, "month.csv", merged.Sources.MonthlyFile)

	// env values win over file values
	envCfg.Server.Port = 7070
	merged = mergeConfigs(fileCfg, envCfg)
	assert.Equal(t, 7070, merged.Server.Port)
}
