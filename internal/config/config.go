// Package config loads tag scanner settings from defaults, an optional
// config.yaml and TAGSCAN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// Config is the full scanner configuration.
type Config struct {
	// SpecFile is a YAML tag layout. Empty selects the built-in layout.
	SpecFile string `mapstructure:"spec_file" yaml:"spec_file" json:"spec_file"`

	// WatchSpec reloads SpecFile when it changes while serving.
	WatchSpec bool `mapstructure:"watch_spec" yaml:"watch_spec" json:"watch_spec"`

	Ledger LedgerConfig `mapstructure:"ledger" yaml:"ledger" json:"ledger"`
	OCR    OCRConfig    `mapstructure:"ocr" yaml:"ocr" json:"ocr"`
	Log    LogConfig    `mapstructure:"log" yaml:"log" json:"log"`
}

// LedgerConfig locates the workbook committed tags are written to.
type LedgerConfig struct {
	Path  string `mapstructure:"path" yaml:"path" json:"path"`
	Sheet string `mapstructure:"sheet" yaml:"sheet" json:"sheet"`
}

// OCRConfig controls recognition of tag photos.
type OCRConfig struct {
	Language       string  `mapstructure:"language" yaml:"language" json:"language"`
	TessdataPrefix string  `mapstructure:"tessdata_prefix" yaml:"tessdata_prefix" json:"tessdata_prefix"`
	MinConfidence  float64 `mapstructure:"min_confidence" yaml:"min_confidence" json:"min_confidence"`
	Rotations      []int   `mapstructure:"rotations" yaml:"rotations" json:"rotations"`
	Preprocess     bool    `mapstructure:"preprocess" yaml:"preprocess" json:"preprocess"`
}

// LogConfig selects log verbosity and encoding.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`    // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format" json:"format"` // text or json
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Ledger: LedgerConfig{
			Path:  "physical_inventory.xlsx",
			Sheet: "Inventory",
		},
		OCR: OCRConfig{
			Language:      "eng",
			MinConfidence: 0.3,
			Rotations:     []int{0, 90, 270, 180},
			Preprocess:    true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration. cfgFile names an explicit config file; when
// empty, config.yaml is looked up in the working directory and then in
// $HOME/.tagscan, and a missing file is not an error.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("spec_file", defaults.SpecFile)
	v.SetDefault("watch_spec", defaults.WatchSpec)
	v.SetDefault("ledger.path", defaults.Ledger.Path)
	v.SetDefault("ledger.sheet", defaults.Ledger.Sheet)
	v.SetDefault("ocr.language", defaults.OCR.Language)
	v.SetDefault("ocr.tessdata_prefix", defaults.OCR.TessdataPrefix)
	v.SetDefault("ocr.min_confidence", defaults.OCR.MinConfidence)
	v.SetDefault("ocr.rotations", defaults.OCR.Rotations)
	v.SetDefault("ocr.preprocess", defaults.OCR.Preprocess)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)

	// Environment variables with TAGSCAN_ prefix, e.g. TAGSCAN_LEDGER_PATH
	v.SetEnvPrefix("TAGSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.tagscan")
	}

	// Try to read config file (not required unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values viper cannot type-check.
func (c *Config) Validate() error {
	if c.Ledger.Path == "" {
		return fmt.Errorf("invalid config: ledger.path is empty")
	}
	if c.OCR.MinConfidence < 0 || c.OCR.MinConfidence > 1 {
		return fmt.Errorf("invalid config: ocr.min_confidence %v outside 0..1", c.OCR.MinConfidence)
	}
	if len(c.OCR.Rotations) == 0 {
		return fmt.Errorf("invalid config: ocr.rotations is empty")
	}
	for _, r := range c.OCR.Rotations {
		if r != 0 && r != 90 && r != 180 && r != 270 {
			return fmt.Errorf("invalid config: ocr.rotations entry %d, want 0, 90, 180 or 270", r)
		}
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid config: log.format %q, want text or json", c.Log.Format)
	}
	return nil
}

// NewLogger builds the process logger. Logs go to w, which must not be the
// MCP protocol stream.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# tagscan configuration
# Every key can be overridden with a TAGSCAN_ environment variable,
# e.g. TAGSCAN_LEDGER_PATH=/data/count.xlsx or TAGSCAN_LOG_LEVEL=debug

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
