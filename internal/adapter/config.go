package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	TMDB    TMDBConfig    `mapstructure:"tmdb"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	UI      UIConfig      `mapstructure:"ui"`
	Browser BrowserConfig `mapstructure:"browser"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TMDBConfig holds The Movie Database API configuration
type TMDBConfig struct {
	APIKey     string `mapstructure:"api_key"`
	APIHost    string `mapstructure:"api_host"`
	ImageHost  string `mapstructure:"image_host"`
	PosterSize string `mapstructure:"poster_size"` // e.g. "w154"
	Language   string `mapstructure:"language"`
	WebHost    string `mapstructure:"web_host"` // Movie pages opened with "o"
	Page       int    `mapstructure:"page"`
}

// HTTPConfig holds transport configuration
type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	PrefetchRows int `mapstructure:"prefetch_rows"` // Rows preloaded beyond the visible window
	PosterWidth  int `mapstructure:"poster_width"`  // Poster thumbnail width in cells
}

// BrowserConfig holds the command used to open movie pages
type BrowserConfig struct {
	Command string   `mapstructure:"command"` // empty uses the system default
	Args    []string `mapstructure:"args"`
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
			APIHost:    "api.themoviedb.org",
			ImageHost:  "image.tmdb.org",
			PosterSize: "w154",
			Language:   "en-US",
			WebHost:    "www.themoviedb.org",
			Page:       1,
		},
		HTTP: HTTPConfig{
			Timeout: 30 * time.Second,
		},
		UI: UIConfig{
			PrefetchRows: 2,
			PosterWidth:  16,
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
		return filepath.Join(os.Getenv("APPDATA"), "reel", "reel.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "reel", "reel.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "reel")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "reel")
	}
}

// LoadConfig loads configuration from file, environment and flags.
// An explicit path overrides the default search locations.
func LoadConfig(v *viper.Viper, path string, flags *pflag.FlagSet) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides, e.g. REEL_TMDB_API_KEY
	v.SetEnvPrefix("REEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Nested keys need an explicit binding for AutomaticEnv to find them
	for _, key := range []string{"tmdb.api_key", "tmdb.language", "logging.level", "logging.file"} {
		_ = v.BindEnv(key)
	}

	if flags != nil {
		bindFlag(v, "tmdb.api_key", flags.Lookup("api-key"))
		bindFlag(v, "logging.level", flags.Lookup("log-level"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

// bindFlag binds a flag only when it was set explicitly so defaults don't mask the file
func bindFlag(v *viper.Viper, key string, flag *pflag.Flag) {
	if flag == nil || !flag.Changed {
		return
	}
	_ = v.BindPFlag(key, flag)
}

// normalize replaces zero values left by a partial config file
func (c *Config) normalize() {
	def := DefaultConfig()
	c.TMDB.APIKey = strings.TrimSpace(c.TMDB.APIKey)
	if strings.TrimSpace(c.TMDB.APIHost) == "" {
		c.TMDB.APIHost = def.TMDB.APIHost
	}
	if strings.TrimSpace(c.TMDB.ImageHost) == "" {
		c.TMDB.ImageHost = def.TMDB.ImageHost
	}
	if strings.TrimSpace(c.TMDB.PosterSize) == "" {
		c.TMDB.PosterSize = def.TMDB.PosterSize
	}
	if strings.TrimSpace(c.TMDB.Language) == "" {
		c.TMDB.Language = def.TMDB.Language
	}
	if strings.TrimSpace(c.TMDB.WebHost) == "" {
		c.TMDB.WebHost = def.TMDB.WebHost
	}
	if c.TMDB.Page < 1 {
		c.TMDB.Page = def.TMDB.Page
	}
	if c.HTTP.Timeout <= 0 {
		c.HTTP.Timeout = def.HTTP.Timeout
	}
	if c.UI.PrefetchRows < 0 {
		c.UI.PrefetchRows = 0
	}
	if c.UI.PosterWidth < 4 {
		c.UI.PosterWidth = def.UI.PosterWidth
	}
}

// SaveConfig saves the current configuration to the default location
func SaveConfig(v *viper.Viper, cfg *Config) error {
	configPath := defaultConfigPath()

	// Ensure config directory exists
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return writeConfig(v, cfg, filepath.Join(configPath, "config.yaml"))
}

// writeConfig writes cfg to file with snake_case keys
func writeConfig(v *viper.Viper, cfg *Config, file string) error {
	v.Set("tmdb.api_key", cfg.TMDB.APIKey)
	v.Set("tmdb.api_host", cfg.TMDB.APIHost)
	v.Set("tmdb.image_host", cfg.TMDB.ImageHost)
	v.Set("tmdb.poster_size", cfg.TMDB.PosterSize)
	v.Set("tmdb.language", cfg.TMDB.Language)
	v.Set("tmdb.web_host", cfg.TMDB.WebHost)
	v.Set("tmdb.page", cfg.TMDB.Page)

	v.Set("http.timeout", cfg.HTTP.Timeout.String())

	v.Set("ui.prefetch_rows", cfg.UI.PrefetchRows)
	v.Set("ui.poster_width", cfg.UI.PosterWidth)

	v.Set("browser.command", cfg.Browser.Command)
	if len(cfg.Browser.Args) > 0 {
		v.Set("browser.args", cfg.Browser.Args)
	}

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	if err := v.WriteConfigAs(file); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// IsConfigured returns true if an API key is set
func (c *Config) IsConfigured() bool {
	return c.TMDB.APIKey != ""
}
