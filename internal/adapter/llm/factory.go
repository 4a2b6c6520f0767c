package llm

import (
	"fmt"
	"log"

	"github.com/xiaot623/gogo/agentloop/config"
)

// NewLLMClient creates an LLM client for the configured provider.
func NewLLMClient(cfg *config.Config) (LLMClient, error) {
	switch cfg.Provider {
	case config.ProviderMock:
		log.Println("mock provider selected, using mock LLM client")
		return NewMockClient(), nil
	case config.ProviderAnthropic:
		return NewAnthropicClient(cfg.BaseURL, cfg.APIKey, cfg.LLMTimeout, cfg.LLMMaxRetries), nil
	case config.ProviderOpenAI:
		return NewOpenAIClient(cfg.BaseURL, cfg.APIKey, cfg.LLMTimeout, cfg.LLMMaxRetries, false), nil
	case config.ProviderGemini, config.ProviderOllama:
		return NewOpenAIClient(cfg.BaseURL, cfg.APIKey, cfg.LLMTimeout, cfg.LLMMaxRetries, true), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
