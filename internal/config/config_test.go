package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8000", cfg.Remote.BaseURL)
	assert.Equal(t, 200*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, 3*time.Second, cfg.Remote.InitialLoadTimeout)
	assert.Equal(t, 800*time.Millisecond, cfg.Remote.ProgressInterval)
	assert.Equal(t, ":8080", cfg.Dashboard.Addr)
	assert.Equal(t, 4*time.Second, cfg.Toast.Duration)
	assert.Equal(t, 400*time.Millisecond, cfg.Toast.Fade)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ANALYSIS_SERVER_URL=http://10.0.0.5:9000\nPROGRESS_INTERVAL=1s\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("ANALYSIS_SERVER_URL")
		os.Unsetenv("PROGRESS_INTERVAL")
	})

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:9000", cfg.Remote.BaseURL)
	assert.Equal(t, time.Second, cfg.Remote.ProgressInterval)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("TOAST_DURATION", "6s")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 6*time.Second, cfg.Toast.Duration)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		var cfg Config
		cfg.Remote.BaseURL = "http://127.0.0.1:8000"
		cfg.Remote.Timeout = 200 * time.Second
		cfg.Remote.InitialLoadTimeout = 3 * time.Second
		cfg.Remote.ProgressInterval = 800 * time.Millisecond
		cfg.Toast.Duration = 4 * time.Second
		cfg.Toast.Fade = 400 * time.Millisecond
		cfg.Log.Format = "console"
		return &cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"정상", func(c *Config) {}, false},
		{"URL 스킴 없음", func(c *Config) { c.Remote.BaseURL = "127.0.0.1:8000" }, true},
		{"타임아웃 0", func(c *Config) { c.Remote.Timeout = 0 }, true},
		{"진행률 주기 너무 짧음", func(c *Config) { c.Remote.ProgressInterval = 10 * time.Millisecond }, true},
		{"토스트 시간 0", func(c *Config) { c.Toast.Duration = 0 }, true},
		{"알 수 없는 로그 형식", func(c *Config) { c.Log.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := ValidateConfig(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
