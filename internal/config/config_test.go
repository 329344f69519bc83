package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biilim/biilim/internal/llm"
)

func clearLLMEnv(t *testing.T) {
	for _, k := range []string{
		"BIILIM_LLM_PROVIDER", "BIILIM_GEMINI_API_KEY", "BIILIM_OPENAI_API_KEY",
		"BIILIM_ANTHROPIC_API_KEY", "BIILIM_OPENROUTER_API_KEY",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearLLMEnv(t)
	dir := t.TempDir()
	t.Setenv("BIILIM_DB", filepath.Join(dir, "b.db"))
	t.Setenv("BIILIM_HTTP_ADDR", "")
	t.Setenv("BIILIM_LOG_MODE", "")
	t.Setenv("BIILIM_CORS_ORIGINS", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "b.db"), cfg.DBPath)
	assert.Equal(t, DefaultHTTPAddr, cfg.HTTPAddr)
	assert.Equal(t, "dev", cfg.LogMode)
	assert.Empty(t, cfg.CORSOrigins)
	assert.Equal(t, llm.ProviderFixture, cfg.LLM.Provider)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("BIILIM_DB", filepath.Join(t.TempDir(), "b.db"))
	t.Setenv("BIILIM_HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("BIILIM_LOG_MODE", "prod")
	t.Setenv("BIILIM_CORS_ORIGINS", "http://localhost:5173, ,http://example.com")
	t.Setenv("BIILIM_LLM_PROVIDER", "openai")
	t.Setenv("BIILIM_OPENAI_API_KEY", "sk-test")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)
	assert.Equal(t, "prod", cfg.LogMode)
	assert.Equal(t, []string{"http://localhost:5173", "http://example.com"}, cfg.CORSOrigins)
	assert.Equal(t, llm.ProviderOpenAI, cfg.LLM.Provider)
}

func TestLoad_EnvFile(t *testing.T) {
	clearLLMEnv(t)
	dir := t.TempDir()
	t.Setenv("BIILIM_DB", filepath.Join(dir, "b.db"))
	t.Setenv("BIILIM_LOG_MODE", "")
	// godotenv never overrides a set variable, so unset it for the file to apply.
	os.Unsetenv("BIILIM_LOG_MODE")

	env := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(env, []byte("BIILIM_LOG_MODE=prod\nBIILIM_DB=ignored.db\n"), 0o600))

	cfg, err := Load(env)
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.LogMode)
	assert.Equal(t, filepath.Join(dir, "b.db"), cfg.DBPath)
	os.Unsetenv("BIILIM_LOG_MODE")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	require.Error(t, err)
}
