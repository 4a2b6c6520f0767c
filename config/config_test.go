package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"AGENT_PROVIDER", "AGENT_MODEL", "AGENT_BASE_URL", "AGENT_API_KEY", "AGENT_MODE",
		"OPENAI_API_KEY", "GOOGLE_API_KEY", "GEMINI_API_KEY", "ANTHROPIC_API_KEY",
		"AGENT_MAX_STEPS", "SHELL_TIMEOUT_MS", "AGENT_AUTO_APPROVE", "AGENT_WORKDIR",
		"AGENT_JOURNAL_DSN", "AGENT_JOURNAL_ADDR", "AGENT_PROFILE",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "g-key")

	cfg := FromEnv()
	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "g-key", cfg.APIKey)
	assert.Equal(t, "gemini-2.5-flash", cfg.Model)
	assert.Contains(t, cfg.BaseURL, "generativelanguage.googleapis.com")
	assert.Equal(t, "terminal", cfg.Profile)
	assert.Equal(t, 4096, cfg.MaxTokens)
	assert.Equal(t, 2, cfg.LLMMaxRetries)
	assert.NotEmpty(t, cfg.WorkDir)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnvInfersAnthropic(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "a-key")

	cfg := FromEnv()
	assert.Equal(t, ProviderAnthropic, cfg.Provider)
	assert.Equal(t, "a-key", cfg.APIKey)
	assert.Empty(t, cfg.BaseURL)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("AGENT_PROVIDER", "OpenAI")
	t.Setenv("AGENT_API_KEY", "generic")
	t.Setenv("AGENT_MODEL", "gpt-test")
	t.Setenv("AGENT_MAX_STEPS", "3")
	t.Setenv("SHELL_TIMEOUT_MS", "1500")
	t.Setenv("AGENT_AUTO_APPROVE", "true")
	t.Setenv("AGENT_WORKDIR", "/tmp/work")

	cfg := FromEnv()
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "generic", cfg.APIKey)
	assert.Equal(t, "gpt-test", cfg.Model)
	assert.Equal(t, 3, cfg.MaxSteps)
	assert.Equal(t, 1500*time.Millisecond, cfg.ShellTimeout)
	assert.True(t, cfg.AutoApprove)
	assert.Equal(t, "/tmp/work", cfg.WorkDir)
}

func TestMockMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("AGENT_PROVIDER", "openai")
	t.Setenv(EnvAgentMode, ModeMock)

	cfg := FromEnv()
	assert.Equal(t, ProviderMock, cfg.Provider)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	t.Setenv("AGENT_PROVIDER", "openai")
	assert.ErrorContains(t, FromEnv().Validate(), "OPENAI_API_KEY")

	t.Setenv("AGENT_PROVIDER", "ollama")
	assert.NoError(t, FromEnv().Validate())

	t.Setenv("AGENT_PROVIDER", "cohere")
	assert.Error(t, FromEnv().Validate())

	t.Setenv("AGENT_PROVIDER", "mock")
	t.Setenv("AGENT_JOURNAL_ADDR", ":9000")
	assert.Error(t, FromEnv().Validate())
}

func TestBuiltinProfiles(t *testing.T) {
	profiles, err := LoadProfiles("")
	require.NoError(t, err)
	assert.Equal(t, []string{"chat", "file", "math", "shell", "terminal"}, profiles.Names())

	file, err := profiles.Get("file")
	require.NoError(t, err)
	assert.Equal(t, []string{"create_directory", "create_file"}, file.Tools)
	assert.Contains(t, file.SystemPrompt, "FileAgent")
	require.NotNil(t, file.Temperature)
	assert.Zero(t, *file.Temperature)

	shell, err := profiles.Get("shell")
	require.NoError(t, err)
	assert.Equal(t, 10, shell.MaxSteps)
	assert.True(t, shell.Verbose)

	chat, err := profiles.Get("chat")
	require.NoError(t, err)
	assert.Empty(t, chat.Tools)

	_, err = profiles.Get("nope")
	assert.Error(t, err)
}

func TestLoadProfilesMergesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
profiles:
  math:
    max_steps: 4
  ops:
    system_prompt: You keep servers alive.
    tools: [run_terminal_command, get_ram_usage]
`), 0o644))

	profiles, err := LoadProfiles(path)
	require.NoError(t, err)

	math, err := profiles.Get("math")
	require.NoError(t, err)
	assert.Equal(t, 4, math.MaxSteps)
	assert.Equal(t, []string{"add", "subtract", "multiply"}, math.Tools)

	ops, err := profiles.Get("ops")
	require.NoError(t, err)
	assert.Equal(t, "ops", ops.Name)
	assert.Len(t, ops.Tools, 2)
}

func TestLoadProfilesBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("profiles: [oops"), 0o644))
	_, err := LoadProfiles(path)
	assert.Error(t, err)

	_, err = LoadProfiles(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEffectiveLimits(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, DefaultMaxSteps, cfg.EffectiveMaxSteps(nil))
	assert.Equal(t, 7, cfg.EffectiveMaxSteps(&Profile{MaxSteps: 7}))
	cfg.MaxSteps = 2
	assert.Equal(t, 2, cfg.EffectiveMaxSteps(&Profile{MaxSteps: 7}))

	assert.Equal(t, DefaultShellTimeout, cfg.EffectiveShellTimeout(nil))
	assert.Equal(t, 5*time.Second, cfg.EffectiveShellTimeout(&Profile{ShellTimeoutMs: 5000}))
	cfg.ShellTimeout = time.Second
	assert.Equal(t, time.Second, cfg.EffectiveShellTimeout(&Profile{ShellTimeoutMs: 5000}))
}
