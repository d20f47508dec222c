package infra

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "gemini", cfg.GeneratorProvider)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 20, cfg.PaddingPx)
	assert.Equal(t, 0.005, cfg.MarkerMaxFrac)
	assert.Equal(t, 0.005, cfg.ContaminationMaxFrac)
	assert.Equal(t, 2.0, cfg.OversizedMaxRatio)
	assert.Equal(t, 50, cfg.ChangeDelta)
	assert.Equal(t, 120*time.Second, cfg.GeneratorTimeout)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 30, cfg.SubmitRateLimit)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("GENERATOR_PROVIDER", "stub")
	t.Setenv("EDIT_MAX_RETRIES", "5")
	t.Setenv("EDIT_MARKER_MAX_FRAC", "0.01")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("EDIT_DEBUG_DIR", "/tmp/artifacts")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "stub", cfg.GeneratorProvider)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 0.01, cfg.MarkerMaxFrac)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "/tmp/artifacts", cfg.DebugArtifactDir)
}

func TestLoadConfigRequiresGeminiKey(t *testing.T) {
	t.Setenv("GENERATOR_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigStubNeedsNoKey(t *testing.T) {
	t.Setenv("GENERATOR_PROVIDER", "stub")
	t.Setenv("GEMINI_API_KEY", "")

	_, err := LoadConfig()
	assert.NoError(t, err)
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitCSV(" a ,b,"))
	assert.Nil(t, splitCSV(""))
}
