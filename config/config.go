// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package config holds the tunable parameters of the resolution engine.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidConfig is returned by Validate and Load.
var ErrInvalidConfig = errors.New("invalid config")

// Weights are the base scores each candidate generator assigns.
type Weights struct {
	Exact    float64 `mapstructure:"exact"`
	Block    float64 `mapstructure:"block"`
	Semantic float64 `mapstructure:"semantic"`
	Fuzzy    float64 `mapstructure:"fuzzy"`
}

// Caps bound the number of catalog rows a generator requests per lookup.
type Caps struct {
	Exact    int `mapstructure:"exact"`
	Block    int `mapstructure:"block"`
	Semantic int `mapstructure:"semantic"`
	Fuzzy    int `mapstructure:"fuzzy"`
}

// DictionaryConfig controls how the synonym dictionary is loaded.
type DictionaryConfig struct {
	// PageSize is the number of synonym rows fetched per page.
	PageSize int `mapstructure:"page_size"`

	// MaxRetries is the number of attempts per page before the load fails.
	MaxRetries int `mapstructure:"max_retries"`

	// RetryDelay is the base delay of the exponential backoff between attempts.
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

// Tables names the catalog tables the engine reads.
type Tables struct {
	Catalog string `mapstructure:"catalog"`
}

// Config holds configuration for the resolution engine.
type Config struct {
	Weights Weights `mapstructure:"weights"`
	Caps    Caps    `mapstructure:"caps"`

	// DefaultLimit is used when Resolve is called with limit <= 0.
	// Default: 20
	DefaultLimit int `mapstructure:"default_limit"`

	// LookupTimeout bounds each catalog store call. Zero disables the timeout.
	// Default: 5s
	LookupTimeout time.Duration `mapstructure:"lookup_timeout"`

	// PoolSize is the number of workers running candidate generators.
	// Default: 4
	PoolSize int `mapstructure:"pool_size"`

	Dictionary DictionaryConfig `mapstructure:"dictionary"`
	Tables     Tables           `mapstructure:"tables"`
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithWeights sets the generator base scores.
func WithWeights(w Weights) ConfigOption {
	return func(c *Config) {
		c.Weights = w
	}
}

// WithCaps sets the per-generator result caps.
func WithCaps(caps Caps) ConfigOption {
	return func(c *Config) {
		c.Caps = caps
	}
}

// WithDefaultLimit sets the result limit used when callers pass none.
func WithDefaultLimit(limit int) ConfigOption {
	return func(c *Config) {
		c.DefaultLimit = limit
	}
}

// WithLookupTimeout sets the per-lookup timeout.
func WithLookupTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.LookupTimeout = d
	}
}

// WithPoolSize sets the generator worker count.
func WithPoolSize(size int) ConfigOption {
	return func(c *Config) {
		c.PoolSize = size
	}
}

// WithCatalogTable sets the catalog table name.
func WithCatalogTable(table string) ConfigOption {
	return func(c *Config) {
		c.Tables.Catalog = table
	}
}

// WithDictionaryPaging sets the dictionary page size and retry policy.
func WithDictionaryPaging(pageSize, maxRetries int, retryDelay time.Duration) ConfigOption {
	return func(c *Config) {
		c.Dictionary = DictionaryConfig{
			PageSize:   pageSize,
			MaxRetries: maxRetries,
			RetryDelay: retryDelay,
		}
	}
}

// DefaultConfig returns a Config with the stock weights and caps.
func DefaultConfig() *Config {
	return &Config{
		Weights: Weights{
			Exact:    3.0,
			Block:    2.0,
			Semantic: 1.5,
			Fuzzy:    1.0,
		},
		Caps: Caps{
			Exact:    20,
			Block:    10,
			Semantic: 10,
			Fuzzy:    10,
		},
		DefaultLimit:  20,
		LookupTimeout: 5 * time.Second,
		PoolSize:      4,
		Dictionary: DictionaryConfig{
			PageSize:   500,
			MaxRetries: 3,
			RetryDelay: 200 * time.Millisecond,
		},
		Tables: Tables{
			Catalog: "materials",
		},
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithCatalogTable("supplier_items"),
//	    WithLookupTimeout(2*time.Second),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error
	weights := map[string]float64{
		"exact": c.Weights.Exact, "block": c.Weights.Block,
		"semantic": c.Weights.Semantic, "fuzzy": c.Weights.Fuzzy,
	}
	for name, w := range weights {
		if w <= 0 {
			errs = append(errs, fmt.Errorf("weight %s must be positive, got %v", name, w))
		}
	}
	caps := map[string]int{
		"exact": c.Caps.Exact, "block": c.Caps.Block,
		"semantic": c.Caps.Semantic, "fuzzy": c.Caps.Fuzzy,
	}
	for name, n := range caps {
		if n <= 0 {
			errs = append(errs, fmt.Errorf("cap %s must be positive, got %d", name, n))
		}
	}
	if c.DefaultLimit <= 0 {
		errs = append(errs, errors.New("DefaultLimit must be positive"))
	}
	if c.LookupTimeout < 0 {
		errs = append(errs, errors.New("LookupTimeout must not be negative"))
	}
	if c.PoolSize <= 0 {
		errs = append(errs, errors.New("PoolSize must be positive"))
	}
	if c.Dictionary.PageSize <= 0 {
		errs = append(errs, errors.New("Dictionary.PageSize must be positive"))
	}
	if c.Dictionary.MaxRetries <= 0 {
		errs = append(errs, errors.New("Dictionary.MaxRetries must be positive"))
	}
	if c.Dictionary.RetryDelay < 0 {
		errs = append(errs, errors.New("Dictionary.RetryDelay must not be negative"))
	}
	if strings.TrimSpace(c.Tables.Catalog) == "" {
		errs = append(errs, errors.New("Tables.Catalog is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
