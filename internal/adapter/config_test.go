package adapter

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadConfig_MissingFileFallsBackToDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, def.TMDB, cfg.TMDB)
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 2, cfg.UI.PrefetchRows)
	assert.False(t, cfg.IsConfigured())
}

func TestLoadConfig_ParsesFile(t *testing.T) {
	path := writeFile(t, `
tmdb:
  api_key: "  secret  "
  language: pt-BR
  poster_size: w92
http:
  timeout: 5s
ui:
  prefetch_rows: 4
logging:
  level: debug
`)

	cfg, err := LoadConfig(viper.New(), path, nil)
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.TMDB.APIKey)
	assert.Equal(t, "pt-BR", cfg.TMDB.Language)
	assert.Equal(t, "w92", cfg.TMDB.PosterSize)
	assert.Equal(t, "api.themoviedb.org", cfg.TMDB.APIHost, "unset keys keep defaults")
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 4, cfg.UI.PrefetchRows)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.IsConfigured())
}

func TestLoadConfig_NormalizesInvalidValues(t *testing.T) {
	path := writeFile(t, `
tmdb:
  api_host: "   "
  page: 0
ui:
  prefetch_rows: -3
  poster_width: 1
`)

	cfg, err := LoadConfig(viper.New(), path, nil)
	require.NoError(t, err)

	assert.Equal(t, "api.themoviedb.org", cfg.TMDB.APIHost)
	assert.Equal(t, 1, cfg.TMDB.Page)
	assert.Equal(t, 0, cfg.UI.PrefetchRows)
	assert.Equal(t, 16, cfg.UI.PosterWidth)
}

func TestLoadConfig_InvalidYAMLFails(t *testing.T) {
	path := writeFile(t, "tmdb: [")

	_, err := LoadConfig(viper.New(), path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	path := writeFile(t, "tmdb:\n  api_key: from-file\n")
	t.Setenv("REEL_TMDB_API_KEY", "from-env")

	cfg, err := LoadConfig(viper.New(), path, nil)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.TMDB.APIKey)
}

func TestLoadConfig_ExplicitFlagOverridesFile(t *testing.T) {
	path := writeFile(t, "tmdb:\n  api_key: from-file\n")

	flags := pflag.NewFlagSet("reel", pflag.ContinueOnError)
	flags.String("api-key", "", "")
	flags.String("log-level", "", "")
	require.NoError(t, flags.Parse([]string{"--api-key", "from-flag"}))

	cfg, err := LoadConfig(viper.New(), path, flags)
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.TMDB.APIKey)
	assert.Equal(t, "INFO", cfg.Logging.Level, "unset flag does not mask the default")
}

func TestWriteConfig_RoundTripsThroughLoad(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TMDB.APIKey = "abc"
	cfg.HTTP.Timeout = 12 * time.Second

	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, writeConfig(viper.New(), cfg, file))

	loaded, err := LoadConfig(viper.New(), file, nil)
	require.NoError(t, err)
	assert.Equal(t, "abc", loaded.TMDB.APIKey)
	assert.Equal(t, 12*time.Second, loaded.HTTP.Timeout)
}

func TestLoadConfig_BrowserSection(t *testing.T) {
	path := writeFile(t, `
tmdb:
  web_host: ""
browser:
  command: firefox
  args: ["--new-tab"]
`)

	cfg, err := LoadConfig(viper.New(), path, nil)
	require.NoError(t, err)

	assert.Equal(t, "firefox", cfg.Browser.Command)
	assert.Equal(t, []string{"--new-tab"}, cfg.Browser.Args)
	assert.Equal(t, "www.themoviedb.org", cfg.TMDB.WebHost, "blank web host falls back to the default")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warning ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.in))
		})
	}
}

func TestSetupLogger_CreatesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "reel.log")

	logger, closer, err := SetupLogger(&LoggingConfig{File: path, Level: "debug"})
	require.NoError(t, err)
	logger.Info("hello", "k", "v")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandHome("~/logs/reel.log")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "logs/reel.log"), got)

	got, err = expandHome("/abs/reel.log")
	require.NoError(t, err)
	assert.Equal(t, "/abs/reel.log", got)
}
