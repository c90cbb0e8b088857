package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := New()
	cfg.App.Feeds = []FeedURL{{Name: "Physics", URL: "https://events.umich.edu/group/1965/rss"}}
	return cfg
}

func TestConfig_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{
		"app": {
			"feeds": [{"name": "Physics", "url": "https://events.umich.edu/group/1965/rss"}],
			"poll_interval": "5m"
		},
		"storage": {"driver": "file", "file": {"path": "state.json"}}
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "5m", cfg.App.PollInterval)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "state.json", cfg.Storage.File.Path)
	// Незаданные поля берутся из значений по умолчанию.
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, []string{"console"}, cfg.Output.Sinks)
	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	noFeeds := validConfig()
	noFeeds.App.Feeds = nil
	assert.Error(t, noFeeds.Validate())

	badURL := validConfig()
	badURL.App.Feeds[0].URL = "not a url"
	assert.Error(t, badURL.Validate())

	badInterval := validConfig()
	badInterval.App.PollInterval = "often"
	assert.Error(t, badInterval.Validate())

	badDriver := validConfig()
	badDriver.Storage.Driver = "sqlite"
	assert.Error(t, badDriver.Validate())

	pgMissingHost := validConfig()
	pgMissingHost.Storage.Driver = "postgres"
	pgMissingHost.Storage.Database.Host = ""
	assert.Error(t, pgMissingHost.Validate())

	badSink := validConfig()
	badSink.Output.Sinks = []string{"printer"}
	assert.Error(t, badSink.Validate())

	halfWindow := validConfig()
	halfWindow.App.Window.Start = "12/8/25"
	assert.Error(t, halfWindow.Validate())
}

func TestAppConfig_ParseWindow(t *testing.T) {
	app := AppConfig{Window: WindowConfig{Start: "12/8/25", End: "12/12/25"}}

	start, end, err := app.ParseWindow()

	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 12, 8, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 12, 12, 0, 0, 0, 0, time.UTC).Add(24*time.Hour-time.Nanosecond), end)

	empty := AppConfig{}
	start, end, err = empty.ParseWindow()
	require.NoError(t, err)
	assert.True(t, start.IsZero())
	assert.True(t, end.IsZero())

	inverted := AppConfig{Window: WindowConfig{Start: "12/12/25", End: "12/8/25"}}
	_, _, err = inverted.ParseWindow()
	assert.Error(t, err)
}
