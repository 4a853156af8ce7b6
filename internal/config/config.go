package config

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when neither --config nor FINADV_CONFIG is given.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration.
type Config struct {
	API struct {
		BaseURL       string `yaml:"base_url"`
		IngestPath    string `yaml:"ingest_path"`
		SeriesPath    string `yaml:"series_path"`
		DataTypesPath string `yaml:"data_types_path"`
		Proxy         string `yaml:"proxy"`
	} `yaml:"api"`
	Upload struct {
		PreviewRows     int    `yaml:"preview_rows"`
		Delimiter       string `yaml:"delimiter"`
		DefaultCategory string `yaml:"default_category"`
	} `yaml:"upload"`
	Chart struct {
		Width  int    `yaml:"width"`
		Height int    `yaml:"height"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"chart"`
	Watch struct {
		Cron string `yaml:"cron"`
	} `yaml:"watch"`
	DevAPI struct {
		Listen     string `yaml:"listen"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"devapi"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// ResolvePath returns flagPath, else $FINADV_CONFIG, else DefaultPath.
func ResolvePath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if v := os.Getenv("FINADV_CONFIG"); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
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

	// Environment variable overrides
	if v := os.Getenv("FINADV_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.API.Proxy = v
	}
	if v := os.Getenv("FINADV_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("FINADV_LISTEN"); v != "" {
		cfg.DevAPI.Listen = v
	}
	if v := os.Getenv("FINADV_SQLITE_PATH"); v != "" {
		cfg.DevAPI.SQLitePath = v
	}
	if v := os.Getenv("FINADV_WATCH_CRON"); v != "" {
		cfg.Watch.Cron = v
	}

	// Defaults
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "http://127.0.0.1:5000"
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")
	if cfg.API.IngestPath == "" {
		cfg.API.IngestPath = "/process_uploaded_data"
	}
	if cfg.API.SeriesPath == "" {
		cfg.API.SeriesPath = "/api/historical_chart_data"
	}
	if cfg.API.DataTypesPath == "" {
		cfg.API.DataTypesPath = "/api/data_types"
	}
	if cfg.Upload.PreviewRows == 0 {
		cfg.Upload.PreviewRows = 10
	}
	if cfg.Upload.Delimiter == "" {
		cfg.Upload.Delimiter = ","
	}
	if cfg.Upload.DefaultCategory == "" {
		cfg.Upload.DefaultCategory = "Historical Prices"
	}
	if cfg.Chart.Width == 0 {
		cfg.Chart.Width = 1024
	}
	if cfg.Chart.Height == 0 {
		cfg.Chart.Height = 400
	}
	if cfg.Chart.Format == "" {
		cfg.Chart.Format = "png"
	}
	if cfg.Chart.Output == "" {
		cfg.Chart.Output = "chart." + cfg.Chart.Format
	}
	if cfg.Watch.Cron == "" {
		cfg.Watch.Cron = "0 */5 * * * *"
	}
	if cfg.DevAPI.Listen == "" {
		cfg.DevAPI.Listen = "127.0.0.1:5000"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// IngestURL is the full ingestion endpoint.
func (c *Config) IngestURL() string { return c.API.BaseURL + c.API.IngestPath }

// DelimiterRune returns the single delimiter character.
func (c *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Upload.Delimiter)
	return r
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("api.base_url must be an http(s) URL, got %q", c.API.BaseURL)
	}
	if c.Upload.PreviewRows <= 0 {
		return fmt.Errorf("upload.preview_rows must be positive")
	}
	if utf8.RuneCountInString(c.Upload.Delimiter) != 1 {
		return fmt.Errorf("upload.delimiter must be a single character, got %q", c.Upload.Delimiter)
	}
	switch c.Chart.Format {
	case "png", "svg":
	default:
		return fmt.Errorf("chart.format must be png or svg, got %q", c.Chart.Format)
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return fmt.Errorf("chart.width and chart.height must be positive")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}
