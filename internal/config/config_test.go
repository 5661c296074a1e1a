package config

import (
	"os"
	"path/filepath"
	"testing"

	"PriceChart/internal/layout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "mock", cfg.Data.Source)
	assert.Equal(t, "DJI", cfg.Data.Symbol)
	assert.Equal(t, layout.DefaultMargins, cfg.Chart.Margins)
	assert.Equal(t, "UTC", cfg.Chart.Timezone)
	assert.Equal(t, 800.0, cfg.Chart.Width)
	assert.Equal(t, 400.0, cfg.Chart.Height)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9000"
data:
  source: file
  path: prices.json
  reload_cron: "0 */5 * * * *"
chart:
  timezone: America/New_York
  margins:
    top: 10
    right: 10
    bottom: 20
    left: 50
`)
	t.Setenv("PRICECHART_SERVER_ADDR", ":9100")
	t.Setenv("PRICECHART_MARGIN_LEFT", "60")
	t.Setenv("PRICECHART_CORS_ORIGINS", "http://a.example,http://b.example")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.Server.Addr)
	assert.Equal(t, "file", cfg.Data.Source)
	assert.Equal(t, "prices.json", cfg.Data.Path)
	assert.Equal(t, layout.Margins{Top: 10, Right: 10, Bottom: 20, Left: 60}, cfg.Chart.Margins)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Server.CORSOrigins)
	require.NoError(t, cfg.Validate())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", loc.String())
}

func TestLoad_PartialMargins(t *testing.T) {
	path := writeConfig(t, `
chart:
  margins:
    left: 100
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, layout.Margins{Top: 40, Right: 30, Bottom: 40, Left: 100}, cfg.Chart.Margins)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unclosed"))
	assert.ErrorContains(t, err, "parse config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"ok", func(*Config) {}, ""},
		{"unknown source", func(c *Config) { c.Data.Source = "ftp" }, "data.source"},
		{"http without url", func(c *Config) { c.Data.Source = "http" }, "data.url"},
		{"file without path", func(c *Config) { c.Data.Source = "file"; c.Data.Path = "" }, "data.path"},
		{"bad cron", func(c *Config) { c.Data.ReloadCron = "every tuesday" }, "data.reload_cron"},
		{"negative margin", func(c *Config) { c.Chart.Margins.Top = -1 }, "margins"},
		{"bad timezone", func(c *Config) { c.Chart.Timezone = "Mars/Olympus" }, "chart.timezone"},
		{"zero width", func(c *Config) { c.Chart.Width = 0 }, "chart.width"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
