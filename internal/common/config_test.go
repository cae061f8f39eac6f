package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, LLMProviderGemini, config.LLM.DefaultProvider)
	assert.Equal(t, PriceProviderGemini, config.Price.Provider)
	assert.Equal(t, "gemini-3-flash-preview", config.Gemini.Model)
	assert.Equal(t, "bosbissWatchlist", config.Storage.Badger.WatchlistSlot)
	assert.NoError(t, config.Validate())
}

func TestLoadFromFiles_LaterFilesOverride(t *testing.T) {
	dir := t.TempDir()
	base := writeConfig(t, dir, "base.toml", `
[server]
port = 9000
host = "0.0.0.0"

[storage.badger]
path = "/tmp/base"
`)
	override := writeConfig(t, dir, "override.toml", `
[server]
port = 9100

[price]
provider = "eodhd"
`)

	config, err := LoadFromFiles(base, override)
	require.NoError(t, err)

	assert.Equal(t, 9100, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.Equal(t, "/tmp/base", config.Storage.Badger.Path)
	assert.Equal(t, PriceProviderEODHD, config.Price.Provider)
}

func TestLoadFromFiles_EnvOverrides(t *testing.T) {
	t.Setenv("BOSBISS_SERVER_PORT", "9200")
	t.Setenv("BOSBISS_LLM_PROVIDER", "Claude")
	t.Setenv("BOSBISS_LOG_OUTPUT", "stdout, file ,")

	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, 9200, config.Server.Port)
	assert.Equal(t, LLMProviderClaude, config.LLM.DefaultProvider)
	assert.Equal(t, []string{"stdout", "file"}, config.Logging.Output)
}

func TestLoadFromFiles_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFromFiles(filepath.Join(dir, "missing.toml"))
		assert.Error(t, err)
	})

	t.Run("invalid toml", func(t *testing.T) {
		path := writeConfig(t, dir, "broken.toml", "[server\nport = ")
		_, err := LoadFromFiles(path)
		assert.Error(t, err)
	})

	t.Run("unknown provider", func(t *testing.T) {
		path := writeConfig(t, dir, "provider.toml", "[llm]\ndefault_provider = \"openai\"\n")
		_, err := LoadFromFiles(path)
		assert.ErrorContains(t, err, "llm.default_provider")
	})

	t.Run("bad duration", func(t *testing.T) {
		path := writeConfig(t, dir, "duration.toml", "[session]\ninsight_timeout = \"soon\"\n")
		_, err := LoadFromFiles(path)
		assert.ErrorContains(t, err, "session.insight_timeout")
	})

	t.Run("bad schedule", func(t *testing.T) {
		path := writeConfig(t, dir, "schedule.toml", "[scheduler]\nenabled = true\ngc_schedule = \"every now and then\"\n")
		_, err := LoadFromFiles(path)
		assert.ErrorContains(t, err, "scheduler.gc_schedule")
	})
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()

	ApplyFlagOverrides(config, 0, "")
	assert.Equal(t, 8086, config.Server.Port)
	assert.Equal(t, "localhost", config.Server.Host)

	ApplyFlagOverrides(config, 7000, "127.0.0.1")
	assert.Equal(t, 7000, config.Server.Port)
	assert.Equal(t, "127.0.0.1", config.Server.Host)
}

func TestResolveAPIKey(t *testing.T) {
	t.Run("env wins over config", func(t *testing.T) {
		t.Setenv("BOSBISS_GEMINI_API_KEY", "from-env")
		key, err := ResolveAPIKey("gemini_api_key", "from-config")
		require.NoError(t, err)
		assert.Equal(t, "from-env", key)
	})

	t.Run("standard anthropic variable", func(t *testing.T) {
		t.Setenv("BOSBISS_CLAUDE_API_KEY", "")
		t.Setenv("ANTHROPIC_API_KEY", "anthropic-env")
		key, err := ResolveAPIKey("claude_api_key", "")
		require.NoError(t, err)
		assert.Equal(t, "anthropic-env", key)
	})

	t.Run("config fallback", func(t *testing.T) {
		t.Setenv("BOSBISS_EODHD_API_KEY", "")
		t.Setenv("EODHD_API_KEY", "")
		key, err := ResolveAPIKey("eodhd_api_key", "from-config")
		require.NoError(t, err)
		assert.Equal(t, "from-config", key)
	})

	t.Run("missing", func(t *testing.T) {
		t.Setenv("BOSBISS_EODHD_API_KEY", "")
		t.Setenv("EODHD_API_KEY", "")
		_, err := ResolveAPIKey("eodhd_api_key", "")
		assert.Error(t, err)
	})
}

func TestParseDurationOr(t *testing.T) {
	assert.Equal(t, 5*time.Second, ParseDurationOr("5s", time.Minute))
	assert.Equal(t, time.Minute, ParseDurationOr("", time.Minute))
	assert.Equal(t, time.Minute, ParseDurationOr("later", time.Minute))
}
