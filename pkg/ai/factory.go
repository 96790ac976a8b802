package ai

import (
	"fmt"

	"github.com/felixgeelhaar/daybrief/pkg/domain/ai"
)

// NewProvider builds a bare provider by name.
func NewProvider(providerName, modelName, apiKey string) (ai.Provider, error) {
	switch providerName {
	case "openai", "":
		return NewOpenAIProvider(modelName, apiKey), nil
	case "anthropic":
		return NewAnthropicProvider(modelName, apiKey), nil
	case "mock":
		return &MockProvider{Model: modelName}, nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", providerName)
	}
}

// NewResilientProviderByName builds a provider wrapped with retry and timeout.
func NewResilientProviderByName(providerName, modelName, apiKey string, cfg ResilienceConfig) (*ResilientProvider, error) {
	base, err := NewProvider(providerName, modelName, apiKey)
	if err != nil {
		return nil, err
	}
	return NewResilientProviderWithConfig(base, cfg), nil
}
