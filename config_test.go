package statsboard

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, 2.0, cfg.RefreshInterval)
	assert.Equal(t, 2.0, cfg.JitterInterval)
	assert.Equal(t, 0.8, cfg.JitterMin)
	assert.Equal(t, 1.3, cfg.JitterMax)
	assert.Equal(t, "heart", cfg.JitterElement)
	assert.Equal(t, 20, cfg.HistorySize)
	assert.Nil(t, cfg.Validate())
}

func TestTryUpdateConfigFromFile(t *testing.T) {
	cfg := NewConfig()

	const sampleConfig = `
stats_url = "https://example.com/api/stats"
refresh_interval = 5.0
jitter_element = "logo"
history_size = 50
`

	tmpFile, err := ioutil.TempFile("", "")
	require.Nil(t, err)
	defer os.Remove(tmpFile.Name())

	err = ioutil.WriteFile(tmpFile.Name(), []byte(sampleConfig), 0644)
	require.Nil(t, err)

	err = cfg.TryUpdateConfigFromFile(tmpFile.Name())
	assert.Nil(t, err)

	assert.Equal(t, "https://example.com/api/stats", cfg.StatsURL)
	assert.Equal(t, 5.0, cfg.RefreshInterval)
	assert.Equal(t, "logo", cfg.JitterElement)
	assert.Equal(t, 50, cfg.HistorySize)

	// make sure default values are propagated
	assert.Equal(t, 1.3, cfg.JitterMax)
	assert.Equal(t, 2.0, cfg.JitterInterval)
}

func TestTryUpdateConfigFromBrokenFile(t *testing.T) {
	tmpFile, err := ioutil.TempFile("", "")
	require.Nil(t, err)
	defer os.Remove(tmpFile.Name())

	require.Nil(t, ioutil.WriteFile(tmpFile.Name(), []byte(`refresh_interval = "soon"`), 0644))

	err = NewConfig().TryUpdateConfigFromFile(tmpFile.Name())
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestConfigEnvOverride(t *testing.T) {
	os.Setenv("STATSBOARD_STATS_URL", "http://env.example/api/stats")
	os.Setenv("STATSBOARD_JITTER_MAX", "2.5")
	defer os.Unsetenv("STATSBOARD_STATS_URL")
	defer os.Unsetenv("STATSBOARD_JITTER_MAX")

	cfg := NewConfig()
	require.Nil(t, cfg.ApplyEnv())

	assert.Equal(t, "http://env.example/api/stats", cfg.StatsURL)
	assert.Equal(t, 2.5, cfg.JitterMax)
	// untouched values keep their defaults
	assert.Equal(t, 0.8, cfg.JitterMin)
	assert.Equal(t, 2.0, cfg.RefreshInterval)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(cfg *Config)
		field  string
	}{
		{"empty-url", func(cfg *Config) { cfg.StatsURL = "" }, "stats_url"},
		{"wrong-scheme", func(cfg *Config) { cfg.StatsURL = "ftp://example.com" }, "stats_url"},
		{"zero-refresh", func(cfg *Config) { cfg.RefreshInterval = 0 }, "refresh_interval"},
		{"negative-jitter-interval", func(cfg *Config) { cfg.JitterInterval = -1 }, "jitter_interval"},
		{"min-above-max", func(cfg *Config) { cfg.JitterMin = 2 }, "jitter_min"},
		{"no-element", func(cfg *Config) { cfg.JitterElement = "" }, "jitter_element"},
		{"zero-history", func(cfg *Config) { cfg.HistorySize = 0 }, "history_size"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewConfig()
			tc.modify(cfg)
			err := cfg.Validate()
			require.NotNil(t, err)
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestConfigValidateProxy(t *testing.T) {
	cfg := NewConfig()
	cfg.Proxy = "proxy.local:3128"
	require.Nil(t, cfg.Validate())
	assert.Equal(t, "http://proxy.local:3128", cfg.Proxy)
}

func TestHandleAllConfigSetup(t *testing.T) {
	t.Run("config-file-does-exist", func(t *testing.T) {
		const sampleConfig = `
pid = "/pid"
refresh_interval = 1.0
listen = ""
`

		tmpFile, err := ioutil.TempFile("", "")
		require.Nil(t, err)
		defer os.Remove(tmpFile.Name())

		err = ioutil.WriteFile(tmpFile.Name(), []byte(sampleConfig), 0644)
		require.Nil(t, err)

		cfg, err := HandleAllConfigSetup(tmpFile.Name())
		require.Nil(t, err)

		assert.Equal(t, "/pid", cfg.PidFile)
		assert.Equal(t, 1.0, cfg.RefreshInterval)
		assert.Equal(t, "", cfg.Listen)
	})

	t.Run("config-file-does-not-exist", func(t *testing.T) {
		dir, err := ioutil.TempDir("", "statsboard")
		require.Nil(t, err)
		defer os.RemoveAll(dir)
		configFilePath := filepath.Join(dir, "sub", "statsboard.conf")

		_, err = HandleAllConfigSetup(configFilePath)
		require.Nil(t, err)

		_, err = os.Stat(configFilePath)
		require.Nil(t, err)

		loaded := &Config{}
		_, err = toml.DecodeFile(configFilePath, loaded)
		require.Nil(t, err)

		if !assert.ObjectsAreEqual(*NewConfig(), *loaded) {
			t.Errorf("expected %+v, got %+v", *NewConfig(), *loaded)
		}
	})

	t.Run("invalid-config", func(t *testing.T) {
		tmpFile, err := ioutil.TempFile("", "")
		require.Nil(t, err)
		defer os.Remove(tmpFile.Name())

		require.Nil(t, ioutil.WriteFile(tmpFile.Name(), []byte(`history_size = -1`), 0644))

		_, err = HandleAllConfigSetup(tmpFile.Name())
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "history_size")
	})
}

func TestDumpConfigToml(t *testing.T) {
	out := NewConfig().DumpConfigToml()
	assert.Contains(t, out, `stats_url = "http://localhost:9200/api/stats"`)
	assert.Contains(t, out, `jitter_element = "heart"`)
}

func TestLogLevel(t *testing.T) {
	assert.True(t, LogLevelDebug.IsValid())
	assert.False(t, LogLevel("verbose").IsValid())
}
