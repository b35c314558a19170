package model

import (
	"runtime"
	"time"
)

// Config is the complete runtime configuration.
// Sources, highest priority first: CLI flags, GONOGO_* env, config file, defaults.
type Config struct {
	Rubric      RubricConfig      `yaml:"rubric" mapstructure:"rubric"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Fetch       FetchConfig       `yaml:"fetch" mapstructure:"fetch"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
}

// RubricConfig selects the rubric file ("" means the built-in rubric)
type RubricConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// OutputConfig controls document rendering
type OutputConfig struct {
	Format        string `yaml:"format" mapstructure:"format"` // pdf, html, md
	Path          string `yaml:"path" mapstructure:"path"`
	Dir           string `yaml:"dir" mapstructure:"dir"`
	IncludeFooter bool   `yaml:"include_footer" mapstructure:"include_footer"`
	Verbose       bool   `yaml:"-" mapstructure:"verbose"`
}

// CacheConfig controls the rendered-document cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"` // empty: memory only
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ServerConfig controls the HTTP form adapter
type ServerConfig struct {
	Addr              string  `yaml:"addr" mapstructure:"addr"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// FetchConfig controls loading remote input and rubric files
type FetchConfig struct {
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBytes  int64         `yaml:"max_bytes" mapstructure:"max_bytes"`

	// Empty proxies fall back to HTTP_PROXY / HTTPS_PROXY / NO_PROXY
	HTTPProxy  string `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy" mapstructure:"https_proxy"`
}

// ConcurrencyConfig controls batch rendering
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Format:        "pdf",
			Path:          "go_nogo_report.pdf",
			Dir:           "./gonogo-reports",
			IncludeFooter: true,
		},
		Cache: CacheConfig{
			Enabled:   false,
			MemoryTTL: 10 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Server: ServerConfig{
			Addr:              ":8080",
			RequestsPerSecond: 5,
			Burst:             10,
		},
		Fetch: FetchConfig{
			Timeout:   15 * time.Second,
			UserAgent: "gonogo/1.0",
			MaxBytes:  1 << 20,
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
	}
}
