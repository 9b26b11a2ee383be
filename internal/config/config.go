// Package config handles configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	// Input configuration
	Input InputConfig `yaml:"input"`

	// Evaluation configuration
	Eval EvalConfig `yaml:"eval"`

	// Output configuration
	Output OutputConfig `yaml:"output"`

	// Logging configuration
	Log LogConfig `yaml:"log"`
}

// InputConfig holds input location settings. Paths are relative to the
// root directory given on the command line; %d expands to the trial number.
type InputConfig struct {
	OutputPattern string `envconfig:"BUGLOC_OUTPUT_PATTERN" yaml:"output_pattern"`
	DatasetPath   string `envconfig:"BUGLOC_DATASET_PATH" yaml:"dataset_path"`
}

// EvalConfig holds evaluation settings.
type EvalConfig struct {
	Thresholds []int  `envconfig:"BUGLOC_THRESHOLDS" yaml:"thresholds"`
	RankCutoff int    `envconfig:"BUGLOC_RANK_CUTOFF" yaml:"rank_cutoff"`
	SourceExt  string `envconfig:"BUGLOC_SOURCE_EXT" yaml:"source_ext"`
}

// OutputConfig holds output file settings.
type OutputConfig struct {
	HitsPattern      string `envconfig:"BUGLOC_HITS_PATTERN" yaml:"hits_pattern"`
	UnionFile        string `envconfig:"BUGLOC_UNION_FILE" yaml:"union_file"`
	IntersectionFile string `envconfig:"BUGLOC_INTERSECTION_FILE" yaml:"intersection_file"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `envconfig:"BUGLOC_LOG_LEVEL" yaml:"level"`
	Format string `envconfig:"BUGLOC_LOG_FORMAT" yaml:"format"`
}

// Load loads configuration from environment variables and optional config file.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	// Set defaults first
	setDefaults(cfg)

	// Load from YAML file if provided (overrides defaults)
	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	// Override with environment variables (highest priority)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("processing env config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only.
func LoadFromEnv() (*Config, error) {
	return Load("")
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

func setDefaults(cfg *Config) {
	cfg.Input = InputConfig{
		OutputPattern: "swe-res-%d/location/loc_outputs.jsonl",
		DatasetPath:   "dataset/swe_bench_lite.jsonl",
	}

	cfg.Eval = EvalConfig{
		Thresholds: []int{1, 5, 10},
		RankCutoff: 10,
		SourceExt:  ".py",
	}

	cfg.Output = OutputConfig{
		HitsPattern:      "localized_bugs%d.csv",
		UnionFile:        "bugs_union_per_k.csv",
		IntersectionFile: "bugs_intersection_per_k.csv",
	}

	cfg.Log = LogConfig{
		Level:  "info",
		Format: "text",
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []string

	// Input validation
	if c.Input.OutputPattern == "" {
		errs = append(errs, "output_pattern must not be empty")
	}
	if c.Input.DatasetPath == "" {
		errs = append(errs, "dataset_path must not be empty")
	}

	// Evaluation validation
	if len(c.Eval.Thresholds) == 0 {
		errs = append(errs, "thresholds must not be empty")
	}
	for _, k := range c.Eval.Thresholds {
		if k < 1 {
			errs = append(errs, fmt.Sprintf("invalid threshold: %d (must be positive)", k))
			break
		}
	}
	if !sort.IntsAreSorted(c.Eval.Thresholds) {
		errs = append(errs, "thresholds must be in ascending order")
	}
	if c.Eval.RankCutoff < 1 {
		errs = append(errs, "rank_cutoff must be positive")
	}
	if !strings.HasPrefix(c.Eval.SourceExt, ".") {
		errs = append(errs, fmt.Sprintf("invalid source_ext: %s (must start with a dot)", c.Eval.SourceExt))
	}

	// Output validation
	if c.Output.HitsPattern == "" {
		errs = append(errs, "hits_pattern must not be empty")
	}
	if c.Output.UnionFile == "" || c.Output.IntersectionFile == "" {
		errs = append(errs, "union_file and intersection_file must not be empty")
	}

	// Log validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("invalid log level: %s (must be debug, info, warn, or error)", c.Log.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Log.Format] {
		errs = append(errs, fmt.Sprintf("invalid log format: %s (must be text or json)", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}

	return nil
}

// ModelOutputPattern returns the glob pattern for one trial's model output,
// anchored at the given root directory.
func (c *Config) ModelOutputPattern(root string, trial int) string {
	pattern := c.Input.OutputPattern
	if strings.Contains(pattern, "%d") {
		pattern = fmt.Sprintf(pattern, trial)
	}
	return filepath.Join(root, pattern)
}

// DatasetFile returns the dataset path anchored at the given root directory.
func (c *Config) DatasetFile(root string) string {
	return filepath.Join(root, c.Input.DatasetPath)
}

// HitsFile returns the default hit-set output file for one trial.
func (c *Config) HitsFile(trial int) string {
	pattern := c.Output.HitsPattern
	if strings.Contains(pattern, "%d") {
		return fmt.Sprintf(pattern, trial)
	}
	return pattern
}
