package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/MitchellAV/IMDb-TV-Graph/pkg/analyzer/season"
	"github.com/MitchellAV/IMDb-TV-Graph/pkg/analyzer/trendline"
	"github.com/cespare/xxhash/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// EnvConfig names the environment variable holding an explicit config path.
const EnvConfig = "TVGRAPH_CONFIG"

// Config holds all configuration options for tvgraph.
type Config struct {
	// Outlier refinement settings
	Refinement RefinementConfig `koanf:"refinement" toml:"refinement"`

	// Analysis settings
	Analysis AnalysisConfig `koanf:"analysis" toml:"analysis"`

	// Cache settings
	Cache CacheConfig `koanf:"cache" toml:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output"`

	// Logging settings
	Logging LoggingConfig `koanf:"logging" toml:"logging"`
}

// RefinementConfig controls the outlier refinement loop.
type RefinementConfig struct {
	R2Threshold   float64 `koanf:"r2_threshold" toml:"r2_threshold"`
	ZThreshold    float64 `koanf:"z_threshold" toml:"z_threshold"`
	MaxIterations int     `koanf:"max_iterations" toml:"max_iterations"` // 0 = number of points
	MinDeviation  float64 `koanf:"min_deviation" toml:"min_deviation"`
}

// AnalysisConfig controls how seasons are scheduled.
type AnalysisConfig struct {
	Workers    int    `koanf:"workers" toml:"workers"`         // 0 = NumCPU
	Sort       string `koanf:"sort" toml:"sort"`               // episode listing order
	SeasonSort string `koanf:"season_sort" toml:"season_sort"` // per-season table order
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled"`
	Dir     string `koanf:"dir" toml:"dir"`
	TTL     int    `koanf:"ttl" toml:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format string `koanf:"format" toml:"format"` // text, json, markdown, toon
	Color  bool   `koanf:"color" toml:"color"`
}

// LoggingConfig controls diagnostic logging.
type LoggingConfig struct {
	Level  string `koanf:"level" toml:"level"`   // trace, debug, info, warn, error
	Format string `koanf:"format" toml:"format"` // console or json
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Refinement: RefinementConfig{
			R2Threshold:   trendline.DefaultR2Threshold,
			ZThreshold:    trendline.DefaultZThreshold,
			MaxIterations: 0,
			MinDeviation:  trendline.DefaultMinDeviation,
		},
		Analysis: AnalysisConfig{
			Workers: 0,
			Sort:       string(season.SortEpisodeAsc),
			SeasonSort: string(season.SortSeasonAsc),
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".tvgraph/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a file. Values missing from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return cfg, nil
}

// LoadResult is a loaded configuration and the file it came from.
// Source is empty when no file was found and defaults are in effect.
type LoadResult struct {
	Config *Config
	Source string
}

// LoadOption configures LoadConfig.
type LoadOption func(*loadOptions)

type loadOptions struct {
	path string
}

// WithPath loads the given file instead of searching the standard locations.
func WithPath(path string) LoadOption {
	return func(o *loadOptions) {
		o.path = path
	}
}

// LoadConfig loads and validates the configuration. An explicit path (from
// WithPath or TVGRAPH_CONFIG) must exist; otherwise the standard locations
// are searched and defaults are used when none exists.
func LoadConfig(opts ...LoadOption) (*LoadResult, error) {
	o := &loadOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.path == "" {
		o.path = os.Getenv(EnvConfig)
	}

	path := o.path
	if path == "" {
		path = findConfig()
	}
	if path == "" {
		return &LoadResult{Config: DefaultConfig()}, nil
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &LoadResult{Config: cfg, Source: path}, nil
}

// LoadOrDefault tries to load config from standard locations or returns defaults.
func LoadOrDefault() *Config {
	if path := findConfig(); path != "" {
		if cfg, err := Load(path); err == nil {
			return cfg
		}
	}
	return DefaultConfig()
}

func findConfig() string {
	configNames := []string{
		"tvgraph.toml",
		"tvgraph.yaml",
		"tvgraph.yml",
		"tvgraph.json",
		".tvgraph.toml",
		".tvgraph.yaml",
		".tvgraph.yml",
		".tvgraph.json",
	}

	searchDirs := []string{".", ".tvgraph"}

	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

var validFormats = []string{"text", "json", "markdown", "toon"}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error

	r := c.Refinement
	if r.R2Threshold < 0 || r.R2Threshold > 1 {
		errs = append(errs, fmt.Errorf("refinement.r2_threshold must be within [0, 1], got %v", r.R2Threshold))
	}
	if r.ZThreshold <= 0 {
		errs = append(errs, fmt.Errorf("refinement.z_threshold must be positive, got %v", r.ZThreshold))
	}
	if r.MaxIterations < 0 {
		errs = append(errs, fmt.Errorf("refinement.max_iterations must not be negative, got %d", r.MaxIterations))
	}
	if r.MinDeviation < 0 {
		errs = append(errs, fmt.Errorf("refinement.min_deviation must not be negative, got %v", r.MinDeviation))
	}

	if c.Analysis.Workers < 0 {
		errs = append(errs, fmt.Errorf("analysis.workers must not be negative, got %d", c.Analysis.Workers))
	}
	if _, err := season.ParseSortOrder(c.Analysis.Sort); err != nil {
		errs = append(errs, fmt.Errorf("analysis.sort: %w", err))
	}
	if _, err := season.ParseSeasonSortOrder(c.Analysis.SeasonSort); err != nil {
		errs = append(errs, fmt.Errorf("analysis.season_sort: %w", err))
	}

	if c.Cache.TTL < 0 {
		errs = append(errs, fmt.Errorf("cache.ttl must not be negative, got %d", c.Cache.TTL))
	}

	if !containsFold(validFormats, c.Output.Format) {
		errs = append(errs, fmt.Errorf("output.format must be one of %s, got %q", strings.Join(validFormats, ", "), c.Output.Format))
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level)); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	if f := strings.ToLower(c.Logging.Format); f != "console" && f != "json" {
		errs = append(errs, fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}

// Fingerprint identifies the settings that change analysis results. Two
// configs with equal fingerprints produce identical statistics.
func (c *Config) Fingerprint() string {
	r := c.Refinement
	var b strings.Builder
	for _, v := range []float64{r.R2Threshold, r.ZThreshold, r.MinDeviation} {
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		b.WriteByte('|')
	}
	b.WriteString(strconv.Itoa(r.MaxIterations))
	return strconv.FormatUint(xxhash.Sum64String(b.String()), 16)
}

// TrendlineOptions converts the refinement settings to analyzer options.
func (c *Config) TrendlineOptions(logger zerolog.Logger) []trendline.Option {
	r := c.Refinement
	return []trendline.Option{
		trendline.WithR2Threshold(r.R2Threshold),
		trendline.WithZThreshold(r.ZThreshold),
		trendline.WithMaxIterations(r.MaxIterations),
		trendline.WithMinDeviation(r.MinDeviation),
		trendline.WithLogger(logger),
	}
}

// SeasonAnalyzer builds a season analyzer from the config.
func (c *Config) SeasonAnalyzer(logger zerolog.Logger) *season.Analyzer {
	return season.New(
		season.WithWorkers(c.Analysis.Workers),
		season.WithRefinement(c.TrendlineOptions(logger)...),
		season.WithLogger(logger),
	)
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
