package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	TMDB    TMDBConfig    `mapstructure:"tmdb"`
	Storage StorageConfig `mapstructure:"storage"`
	Cache   CacheConfig   `mapstructure:"cache"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TMDBConfig holds catalog service configuration
type TMDBConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	ImageBaseURL string        `mapstructure:"image_base_url"`
	APIKey       string        `mapstructure:"api_key"`      // Empty: use the signed-up credential
	BearerToken  string        `mapstructure:"bearer_token"` // Optional v4 read token
	Language     string        `mapstructure:"language"`
	Region       string        `mapstructure:"region"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// StorageConfig holds durable storage configuration
type StorageConfig struct {
	Path      string `mapstructure:"path"` // Empty: memory only
	Namespace string `mapstructure:"namespace"`
}

// CacheConfig holds cache freshness windows
type CacheConfig struct {
	ResponseTTL time.Duration `mapstructure:"response_ttl"`
	GenreTTL    time.Duration `mapstructure:"genre_ttl"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	AutoAdvance time.Duration `mapstructure:"auto_advance"` // 0 disables highlight rotation
	DefaultView string        `mapstructure:"default_view"` // "table" or "scroll"
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		TMDB: TMDBConfig{
			BaseURL:      "https://api.themoviedb.org/3",
			ImageBaseURL: "https://image.tmdb.org/t/p",
			Language:     "ko-KR",
			Region:       "KR",
			Timeout:      15 * time.Second,
		},
		Storage: StorageConfig{
			Path:      defaultDataPath(),
			Namespace: "netflix-lite",
		},
		Cache: CacheConfig{
			ResponseTTL: 5 * time.Minute,
			GenreTTL:    24 * time.Hour,
		},
		UI: UIConfig{
			AutoAdvance: 6 * time.Second,
			DefaultView: "table",
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "marquee", "marquee.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "marquee", "marquee.log")
	}
}

// defaultDataPath returns the default bolt file path for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "marquee", "marquee.db")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "marquee", "marquee.db")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "marquee")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "marquee")
	}
}

// setDefaults registers every key so environment overrides apply even when
// the config file does not mention it.
func setDefaults(cfg *Config) {
	viper.SetDefault("tmdb.base_url", cfg.TMDB.BaseURL)
	viper.SetDefault("tmdb.image_base_url", cfg.TMDB.ImageBaseURL)
	viper.SetDefault("tmdb.api_key", cfg.TMDB.APIKey)
	viper.SetDefault("tmdb.bearer_token", cfg.TMDB.BearerToken)
	viper.SetDefault("tmdb.language", cfg.TMDB.Language)
	viper.SetDefault("tmdb.region", cfg.TMDB.Region)
	viper.SetDefault("tmdb.timeout", cfg.TMDB.Timeout)

	viper.SetDefault("storage.path", cfg.Storage.Path)
	viper.SetDefault("storage.namespace", cfg.Storage.Namespace)

	viper.SetDefault("cache.response_ttl", cfg.Cache.ResponseTTL)
	viper.SetDefault("cache.genre_ttl", cfg.Cache.GenreTTL)

	viper.SetDefault("ui.auto_advance", cfg.UI.AutoAdvance)
	viper.SetDefault("ui.default_view", cfg.UI.DefaultView)

	viper.SetDefault("logging.file", cfg.Logging.File)
	viper.SetDefault("logging.level", cfg.Logging.Level)
}

// LoadConfig loads configuration from file and environment. Extra search
// directories are tried before the defaults.
func LoadConfig(searchPaths ...string) (*Config, error) {
	cfg := DefaultConfig()

	// A .env file is optional; real environment variables win over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	for _, p := range searchPaths {
		viper.AddConfigPath(p)
	}
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides, e.g. MARQUEE_TMDB_API_KEY
	viper.SetEnvPrefix("MARQUEE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults(cfg)

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.Storage.Path = expandHome(cfg.Storage.Path)
	cfg.Logging.File = expandHome(cfg.Logging.File)

	return cfg, nil
}

// SaveConfig saves the current configuration to the default config directory
func SaveConfig(cfg *Config) error {
	return SaveConfigTo(defaultConfigPath(), cfg)
}

// SaveConfigTo writes config.yaml into dir
func SaveConfigTo(dir string, cfg *Config) error {
	// Ensure config directory exists
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	viper.Set("tmdb.base_url", cfg.TMDB.BaseURL)
	viper.Set("tmdb.image_base_url", cfg.TMDB.ImageBaseURL)
	viper.Set("tmdb.api_key", cfg.TMDB.APIKey)
	viper.Set("tmdb.bearer_token", cfg.TMDB.BearerToken)
	viper.Set("tmdb.language", cfg.TMDB.Language)
	viper.Set("tmdb.region", cfg.TMDB.Region)
	viper.Set("tmdb.timeout", cfg.TMDB.Timeout.String())

	viper.Set("storage.path", cfg.Storage.Path)
	viper.Set("storage.namespace", cfg.Storage.Namespace)

	viper.Set("cache.response_ttl", cfg.Cache.ResponseTTL.String())
	viper.Set("cache.genre_ttl", cfg.Cache.GenreTTL.String())

	viper.Set("ui.auto_advance", cfg.UI.AutoAdvance.String())
	viper.Set("ui.default_view", cfg.UI.DefaultView)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(dir, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ClearData removes the durable storage file
func ClearData(cfg *Config) error {
	if cfg.Storage.Path == "" {
		return nil
	}
	if err := os.Remove(cfg.Storage.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear data: %w", err)
	}
	return nil
}

// expandHome expands a leading ~ to the user's home directory
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
