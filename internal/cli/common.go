package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/ppiankov/gonogo/internal/model"
	"github.com/ppiankov/gonogo/internal/pipeline"
)

// registerDefaults makes every config key known to viper so GONOGO_* env
// variables reach Unmarshal even when no config file sets them
func registerDefaults(v *viper.Viper, cfg *model.Config) {
	v.SetDefault("rubric.path", cfg.Rubric.Path)
	v.SetDefault("output.format", cfg.Output.Format)
	v.SetDefault("output.path", cfg.Output.Path)
	v.SetDefault("output.dir", cfg.Output.Dir)
	v.SetDefault("output.include_footer", cfg.Output.IncludeFooter)
	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("cache.memory_ttl", cfg.Cache.MemoryTTL)
	v.SetDefault("cache.disk_ttl", cfg.Cache.DiskTTL)
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.requests_per_second", cfg.Server.RequestsPerSecond)
	v.SetDefault("server.burst", cfg.Server.Burst)
	v.SetDefault("fetch.timeout", cfg.Fetch.Timeout)
	v.SetDefault("fetch.user_agent", cfg.Fetch.UserAgent)
	v.SetDefault("fetch.max_bytes", cfg.Fetch.MaxBytes)
	v.SetDefault("fetch.http_proxy", cfg.Fetch.HTTPProxy)
	v.SetDefault("fetch.https_proxy", cfg.Fetch.HTTPSProxy)
	v.SetDefault("concurrency.workers", cfg.Concurrency.Workers)
}

// loadConfig merges defaults, config file and env into a Config
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	registerDefaults(v, cfg)

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Output.Verbose = verbose
	return cfg, nil
}

// newPipeline loads the configured rubric and builds the pipeline
func newPipeline(ctx context.Context, cfg *model.Config) (*pipeline.Pipeline, error) {
	r, err := pipeline.LoadRubric(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Rubric.Path != "" {
		logf("Using rubric: %s\n", cfg.Rubric.Path)
	}
	return pipeline.NewPipeline(cfg, r)
}

// logf prints progress to stderr when --verbose is set
func logf(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
