package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Cache-root strategies
const (
	StrategyPointerDir = "pointer-dir"
	StrategyHome       = "home"
	StrategyAuto       = "auto"
)

// Config represents the application configuration
type Config struct {
	Paths    PathsConfig    `mapstructure:"paths"`
	Releases ReleasesConfig `mapstructure:"releases"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// PathsConfig contains path-related configuration
type PathsConfig struct {
	// Pointer is the active-binary symlink; empty means discover it.
	Pointer string `mapstructure:"pointer"`
	// CacheRoot overrides CacheStrategy when set.
	CacheRoot     string `mapstructure:"cache_root"`
	CacheStrategy string `mapstructure:"cache_strategy"`
	LockFile      string `mapstructure:"lock_file"`
	DBFile        string `mapstructure:"db_file"`
	LogFile       string `mapstructure:"log_file"`
}

// ReleasesConfig contains release-server configuration
type ReleasesConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	Color string `mapstructure:"color"`
}

// Load loads configuration from file and environment
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	homeDir, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(filepath.Join(homeDir, ".config", "tvm"))
	}
	viper.AddConfigPath(".")

	setDefaults()

	// TVM_PATHS_POINTER, TVM_RELEASES_BASE_URL, ...
	viper.SetEnvPrefix("TVM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Paths.Pointer = expandPath(cfg.Paths.Pointer)
	cfg.Paths.CacheRoot = expandPath(cfg.Paths.CacheRoot)
	cfg.Paths.LockFile = expandPath(cfg.Paths.LockFile)
	cfg.Paths.DBFile = expandPath(cfg.Paths.DBFile)
	cfg.Paths.LogFile = expandPath(cfg.Paths.LogFile)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks enumerated and bounded settings.
func (c *Config) Validate() error {
	switch c.Paths.CacheStrategy {
	case StrategyPointerDir, StrategyHome, StrategyAuto:
	default:
		return fmt.Errorf("invalid paths.cache_strategy %q (want %s, %s or %s)",
			c.Paths.CacheStrategy, StrategyPointerDir, StrategyHome, StrategyAuto)
	}

	if c.Releases.Timeout <= 0 {
		return fmt.Errorf("invalid releases.timeout %s: must be positive", c.Releases.Timeout)
	}

	if c.Releases.BaseURL == "" {
		return fmt.Errorf("releases.base_url must not be empty")
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		homeDir = os.Getenv("HOME")
	}
	if homeDir == "" {
		homeDir = "."
	}

	dataDir := filepath.Join(homeDir, ".local", "share", "tvm")

	viper.SetDefault("paths.pointer", "")
	viper.SetDefault("paths.cache_root", "")
	viper.SetDefault("paths.cache_strategy", StrategyAuto)
	viper.SetDefault("paths.lock_file", "terraform.lock.hcl")
	viper.SetDefault("paths.db_file", filepath.Join(dataDir, "history.db"))
	viper.SetDefault("paths.log_file", filepath.Join(dataDir, "tvm.log"))

	viper.SetDefault("releases.base_url", "https://releases.hashicorp.com")
	viper.SetDefault("releases.timeout", 60*time.Second)
	viper.SetDefault("releases.user_agent", "tvm")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.color", "auto")
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(homeDir, path[1:])
		}
	}

	return os.ExpandEnv(path)
}
