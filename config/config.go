// Package config provides configuration for the agent loop.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Providers.
const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderOllama    = "ollama"
	ProviderAnthropic = "anthropic"
	ProviderMock      = "mock"
)

const (
	// EnvAgentMode is the environment variable name for mode selection.
	EnvAgentMode = "AGENT_MODE"
	// ModeMock forces the mock model client.
	ModeMock = "MOCK"

	// DefaultMaxSteps bounds the model invocations of one turn when nothing else does.
	DefaultMaxSteps = 10
	// DefaultShellTimeout bounds one shell command when nothing else does.
	DefaultShellTimeout = 30 * time.Second
)

// Config holds the agent configuration.
type Config struct {
	// Model
	Provider      string
	Model         string
	BaseURL       string
	APIKey        string
	MaxTokens     int
	LLMTimeout    time.Duration
	LLMMaxRetries int

	// Loop
	Profile      string
	ProfilesFile string
	MaxSteps     int

	// Tools
	WorkDir        string
	ShellTimeout   time.Duration
	ShellMaxOutput int
	PolicyFile     string
	AutoApprove    bool

	// Journal
	JournalDSN  string
	JournalAddr string

	// Logging
	LogLevel string
}

// Load loads configuration from a .env file, if present, and environment variables.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("WARN: failed to load .env: %v", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from environment variables only.
func FromEnv() *Config {
	cfg := &Config{
		Provider:       strings.ToLower(getEnv("AGENT_PROVIDER", "")),
		Model:          getEnv("AGENT_MODEL", ""),
		BaseURL:        getEnv("AGENT_BASE_URL", ""),
		MaxTokens:      getEnvInt("AGENT_MAX_TOKENS", 4096),
		LLMTimeout:     time.Duration(getEnvInt("LLM_TIMEOUT_MS", 120000)) * time.Millisecond,
		LLMMaxRetries:  getEnvInt("LLM_MAX_RETRIES", 2),
		Profile:        getEnv("AGENT_PROFILE", "terminal"),
		ProfilesFile:   getEnv("AGENT_PROFILES_FILE", ""),
		MaxSteps:       getEnvInt("AGENT_MAX_STEPS", 0),
		WorkDir:        getEnv("AGENT_WORKDIR", ""),
		ShellTimeout:   time.Duration(getEnvInt("SHELL_TIMEOUT_MS", 0)) * time.Millisecond,
		ShellMaxOutput: getEnvInt("SHELL_MAX_OUTPUT_BYTES", 100000),
		PolicyFile:     getEnv("AGENT_POLICY_FILE", ""),
		AutoApprove:    getEnvBool("AGENT_AUTO_APPROVE", false),
		JournalDSN:     getEnv("AGENT_JOURNAL_DSN", ""),
		JournalAddr:    getEnv("AGENT_JOURNAL_ADDR", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	if os.Getenv(EnvAgentMode) == ModeMock {
		cfg.Provider = ProviderMock
	}
	if cfg.Provider == "" {
		cfg.Provider = inferProvider()
	}
	cfg.APIKey = apiKeyFor(cfg.Provider)
	if cfg.Model == "" {
		cfg.Model = defaultModel(cfg.Provider)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL(cfg.Provider)
	}
	if cfg.WorkDir == "" {
		if wd, err := os.Getwd(); err == nil {
			cfg.WorkDir = wd
		}
	}
	return cfg
}

// Validate reports configuration that cannot start a session.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderGemini, ProviderAnthropic:
		if c.APIKey == "" {
			return fmt.Errorf("no API key for provider %q: set %s or AGENT_API_KEY", c.Provider, keyEnvNames(c.Provider)[0])
		}
	case ProviderOllama, ProviderMock:
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("AGENT_MAX_STEPS must not be negative")
	}
	if c.ShellTimeout < 0 {
		return fmt.Errorf("SHELL_TIMEOUT_MS must not be negative")
	}
	if c.JournalAddr != "" && c.JournalDSN == "" {
		return fmt.Errorf("AGENT_JOURNAL_ADDR requires AGENT_JOURNAL_DSN")
	}
	return nil
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return strings.EqualFold(c.LogLevel, "debug")
}

func inferProvider() string {
	for _, p := range []string{ProviderAnthropic, ProviderOpenAI, ProviderGemini} {
		for _, key := range keyEnvNames(p) {
			if os.Getenv(key) != "" {
				return p
			}
		}
	}
	return ProviderGemini
}

func keyEnvNames(provider string) []string {
	switch provider {
	case ProviderOpenAI:
		return []string{"OPENAI_API_KEY"}
	case ProviderGemini:
		return []string{"GOOGLE_API_KEY", "GEMINI_API_KEY"}
	case ProviderAnthropic:
		return []string{"ANTHROPIC_API_KEY"}
	default:
		return []string{"AGENT_API_KEY"}
	}
}

func apiKeyFor(provider string) string {
	if key := os.Getenv("AGENT_API_KEY"); key != "" {
		return key
	}
	for _, name := range keyEnvNames(provider) {
		if key := os.Getenv(name); key != "" {
			return key
		}
	}
	return ""
}

func defaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderAnthropic:
		return "claude-sonnet-4-5"
	case ProviderOllama:
		return "llama3.1"
	case ProviderMock:
		return "mock-model"
	default:
		return "gemini-2.5-flash"
	}
}

func defaultBaseURL(provider string) string {
	switch provider {
	case ProviderGemini:
		return "https://generativelanguage.googleapis.com/v1beta/openai/"
	case ProviderOllama:
		return "http://localhost:11434/v1/"
	default:
		return ""
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
		log.Printf("WARN: ignoring non-integer %s=%q", key, val)
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
		log.Printf("WARN: ignoring non-boolean %s=%q", key, val)
	}
	return defaultVal
}
