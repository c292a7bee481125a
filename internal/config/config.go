package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every key when read from the environment, so
// out_dir is BNLTOOL_OUT_DIR.
const EnvPrefix = "BNLTOOL"

type Config struct {
	OutDir           string `mapstructure:"out_dir"`
	Catalog          string `mapstructure:"catalog"`
	LogLevel         string `mapstructure:"log_level"`
	LogFormat        string `mapstructure:"log_format"`
	CompressionLevel int    `mapstructure:"compression_level"`
	MaxInflatedSize  int64  `mapstructure:"max_inflated_size"`
	Workers          int    `mapstructure:"workers"`
}

// Load reads configuration from defaults, an optional .env file, an optional
// bnltool.yaml and BNLTOOL_* environment variables, in increasing precedence.
func Load(cfgFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()

	v.SetDefault("out_dir", "out")
	v.SetDefault("catalog", "bnl_catalog.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("compression_level", 1)
	v.SetDefault("max_inflated_size", int64(1<<30))
	v.SetDefault("workers", 4)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		v.AddConfigPath(home)
		v.AddConfigPath(".")
		v.SetConfigName("bnltool")
		v.SetConfigType("yaml")
	}

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

var (
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"text", "json"}
)

// Validate checks value ranges. Bounds for compression_level follow zlib:
// -2 is Huffman-only, 9 is best compression.
func (c *Config) Validate() error {
	if c.OutDir == "" {
		return fmt.Errorf("out_dir cannot be empty")
	}

	if c.Catalog == "" {
		return fmt.Errorf("catalog cannot be empty")
	}

	if !slices.Contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("unsupported log_level '%s': expected one of %s", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if !slices.Contains(validLogFormats, strings.ToLower(c.LogFormat)) {
		return fmt.Errorf("unsupported log_format '%s': expected one of %s", c.LogFormat, strings.Join(validLogFormats, ", "))
	}

	if c.CompressionLevel < -2 || c.CompressionLevel > 9 {
		return fmt.Errorf("compression_level %d outside [-2, 9]", c.CompressionLevel)
	}

	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}

	return nil
}
