package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. CATALOGMATCH_CAPS_EXACT.
const EnvPrefix = "CATALOGMATCH"

// Load reads configuration from path (YAML, TOML or JSON, chosen by extension)
// layered over DefaultConfig, then applies environment overrides.
// An empty path yields the defaults plus environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every key so environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("weights.exact", d.Weights.Exact)
	v.SetDefault("weights.block", d.Weights.Block)
	v.SetDefault("weights.semantic", d.Weights.Semantic)
	v.SetDefault("weights.fuzzy", d.Weights.Fuzzy)

	v.SetDefault("caps.exact", d.Caps.Exact)
	v.SetDefault("caps.block", d.Caps.Block)
	v.SetDefault("caps.semantic", d.Caps.Semantic)
	v.SetDefault("caps.fuzzy", d.Caps.Fuzzy)

	v.SetDefault("default_limit", d.DefaultLimit)
	v.SetDefault("lookup_timeout", d.LookupTimeout)
	v.SetDefault("pool_size", d.PoolSize)

	v.SetDefault("dictionary.page_size", d.Dictionary.PageSize)
	v.SetDefault("dictionary.max_retries", d.Dictionary.MaxRetries)
	v.SetDefault("dictionary.retry_delay", d.Dictionary.RetryDelay)

	v.SetDefault("tables.catalog", d.Tables.Catalog)
}
