package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/fgstudy/internal/llm"
)

// isolate clears the variables Load reads so the host environment does not
// leak into assertions.
func isolate(t *testing.T) {
	t.Helper()
	for _, env := range []string{
		"FGSTUDY_ENV", "APP_ENV", "FGSTUDY_DB", "FGSTUDY_LLM_PROVIDER", "FGSTUDY_ADDR",
		"FGSTUDY_GEMINI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY",
		"FGSTUDY_OPENAI_API_KEY", "OPENAI_API_KEY",
		"FGSTUDY_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY", "FGSTUDY_ANTHROPIC_BASE_URL",
		"FGSTUDY_OPENROUTER_API_KEY", "OPENROUTER_API_KEY", "FGSTUDY_OPENROUTER_BASE_URL",
	} {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "", cfg.DBPath)
	assert.Equal(t, llm.ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "gemini-flash", cfg.LLM.Gemini.Model)
	assert.Equal(t, 3, cfg.LLM.Retry.MaxAttempts)
	assert.Equal(t, time.Second, cfg.LLM.Retry.InitialWait)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 2*time.Hour, cfg.Server.SessionTTL)
	assert.Equal(t, int64(1<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, 15, cfg.Quiz.DefaultQuestions)
}

func TestLoad_FileAndEnv(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "fgstudy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env: production
llm:
  provider: openai
  openai:
    model: gpt-4.1-mini
  retry:
    initial_wait: 250ms
server:
  addr: 127.0.0.1:9000
  session_ttl: 30m
quiz:
  default_questions: 20
`), 0o644))

	t.Setenv("OPENAI_API_KEY", "sk-fallback")
	t.Setenv("FGSTUDY_DB", "/tmp/fg.db")
	t.Setenv("FGSTUDY_SERVER_ADDR", ":7000")
	t.Setenv("FGSTUDY_ANTHROPIC_BASE_URL", "http://proxy.internal:8080")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "/tmp/fg.db", cfg.DBPath)
	assert.Equal(t, llm.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "gpt-4.1-mini", cfg.LLM.OpenAI.Model)
	assert.Equal(t, "sk-fallback", cfg.LLM.OpenAI.APIKey)
	assert.Equal(t, 250*time.Millisecond, cfg.LLM.Retry.InitialWait)
	assert.Equal(t, ":7000", cfg.Server.Addr, "env overrides file")
	assert.Equal(t, 30*time.Minute, cfg.Server.SessionTTL)
	assert.Equal(t, 20, cfg.Quiz.DefaultQuestions)
	assert.Equal(t, "http://proxy.internal:8080", cfg.LLM.Anthropic.BaseURL)
}

func TestLoad_DotEnv(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(".env", []byte("FGSTUDY_GEMINI_API_KEY=from-dotenv\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("FGSTUDY_GEMINI_API_KEY") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.LLM.Gemini.APIKey)
}

func TestLoad_Invalid(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("quiz:\n  default_questions: 50\n"), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "default_questions")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "an explicit config file must exist")
}

func TestResolveLLM(t *testing.T) {
	isolate(t)

	cfg := &Config{LLM: llm.DefaultConfig()}
	cfg.LLM.Timeout = 5 * time.Second

	_, err := cfg.ResolveLLM()
	assert.Error(t, err)

	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	got, err := cfg.ResolveLLM()
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderAnthropic, got.Provider)
	assert.Equal(t, 5*time.Second, got.Timeout)

	cfg.LLM.Gemini.APIKey = "g"
	got, err = cfg.ResolveLLM()
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderGemini, got.Provider)
}
