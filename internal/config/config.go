package config

import (
	"fmt"
	"os"
	"time"

	"PriceChart/internal/layout"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr        string   `yaml:"addr"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`
	Data struct {
		Source     string `yaml:"source"` // file, http, yahoo, sqlite or mock
		Path       string `yaml:"path"`
		URL        string `yaml:"url"`
		APIKey     string `yaml:"api_key"`
		SQLitePath string `yaml:"sqlite_path"`
		Symbol     string `yaml:"symbol"`
		ReloadCron string `yaml:"reload_cron"`
	} `yaml:"data"`
	Chart struct {
		Margins  layout.Margins `yaml:"margins"`
		Timezone string         `yaml:"timezone"`
		Width    float64        `yaml:"width"`
		Height   float64        `yaml:"height"`
	} `yaml:"chart"`
	Proxy string `yaml:"proxy"`
}

// env lists the environment overrides. Unset variables leave the YAML value alone.
type env struct {
	Addr         string   `envconfig:"PRICECHART_SERVER_ADDR"`
	CORSOrigins  []string `envconfig:"PRICECHART_CORS_ORIGINS"`
	Source       string   `envconfig:"PRICECHART_DATA_SOURCE"`
	Path         string   `envconfig:"PRICECHART_DATA_PATH"`
	URL          string   `envconfig:"PRICECHART_DATA_URL"`
	APIKey       string   `envconfig:"PRICECHART_DATA_API_KEY"`
	SQLitePath   string   `envconfig:"PRICECHART_SQLITE_PATH"`
	Symbol       string   `envconfig:"PRICECHART_SYMBOL"`
	ReloadCron   string   `envconfig:"PRICECHART_RELOAD_CRON"`
	Timezone     string   `envconfig:"PRICECHART_TIMEZONE"`
	Width        *float64 `envconfig:"PRICECHART_WIDTH"`
	Height       *float64 `envconfig:"PRICECHART_HEIGHT"`
	MarginTop    *float64 `envconfig:"PRICECHART_MARGIN_TOP"`
	MarginRight  *float64 `envconfig:"PRICECHART_MARGIN_RIGHT"`
	MarginBottom *float64 `envconfig:"PRICECHART_MARGIN_BOTTOM"`
	MarginLeft   *float64 `envconfig:"PRICECHART_MARGIN_LEFT"`
	Proxy        string   `envconfig:"HTTPS_PROXY"`
}

// Load reads config from a YAML file, then .env and environment overrides,
// then fills defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// A missing .env file is fine; real environment variables win over it.
	_ = godotenv.Load()

	var e env
	if err := envconfig.Process("", &e); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	e.apply(cfg)
	cfg.defaults()
	return cfg, nil
}

func (e *env) apply(cfg *Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setf := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&cfg.Server.Addr, e.Addr)
	if len(e.CORSOrigins) > 0 {
		cfg.Server.CORSOrigins = e.CORSOrigins
	}
	set(&cfg.Data.Source, e.Source)
	set(&cfg.Data.Path, e.Path)
	set(&cfg.Data.URL, e.URL)
	set(&cfg.Data.APIKey, e.APIKey)
	set(&cfg.Data.SQLitePath, e.SQLitePath)
	set(&cfg.Data.Symbol, e.Symbol)
	set(&cfg.Data.ReloadCron, e.ReloadCron)
	set(&cfg.Chart.Timezone, e.Timezone)
	set(&cfg.Proxy, e.Proxy)
	setf(&cfg.Chart.Width, e.Width)
	setf(&cfg.Chart.Height, e.Height)
	setf(&cfg.Chart.Margins.Top, e.MarginTop)
	setf(&cfg.Chart.Margins.Right, e.MarginRight)
	setf(&cfg.Chart.Margins.Bottom, e.MarginBottom)
	setf(&cfg.Chart.Margins.Left, e.MarginLeft)
}

func (c *Config) defaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Data.Source == "" {
		c.Data.Source = "mock"
	}
	if c.Data.Symbol == "" {
		c.Data.Symbol = "DJI"
	}
	if c.Data.Source == "file" && c.Data.Path == "" {
		c.Data.Path = "data/dji.json"
	}
	if c.Data.Source == "sqlite" && c.Data.SQLitePath == "" {
		c.Data.SQLitePath = "data/pricechart.db"
	}
	c.Chart.Margins = c.Chart.Margins.OrDefault()
	if c.Chart.Timezone == "" {
		c.Chart.Timezone = "UTC"
	}
	if c.Chart.Width == 0 {
		c.Chart.Width = 800
	}
	if c.Chart.Height == 0 {
		c.Chart.Height = 400
	}
}

// Validate checks that the selected source is fully configured.
func (c *Config) Validate() error {
	switch c.Data.Source {
	case "file":
		if c.Data.Path == "" {
			return fmt.Errorf("data.path is required for the file source")
		}
	case "http":
		if c.Data.URL == "" {
			return fmt.Errorf("data.url is required for the http source")
		}
	case "sqlite":
		if c.Data.SQLitePath == "" {
			return fmt.Errorf("data.sqlite_path is required for the sqlite source")
		}
	case "yahoo", "mock":
	default:
		return fmt.Errorf("data.source %q is not one of file, http, yahoo, sqlite, mock", c.Data.Source)
	}
	if c.Data.ReloadCron != "" {
		parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		if _, err := parser.Parse(c.Data.ReloadCron); err != nil {
			return fmt.Errorf("data.reload_cron: %w", err)
		}
	}
	m := c.Chart.Margins
	if m.Top < 0 || m.Right < 0 || m.Bottom < 0 || m.Left < 0 {
		return fmt.Errorf("chart.margins must not be negative")
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return fmt.Errorf("chart.width and chart.height must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves chart.timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Chart.Timezone)
	if err != nil {
		return nil, fmt.Errorf("chart.timezone: %w", err)
	}
	return loc, nil
}
