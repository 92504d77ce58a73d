// Package models is the read-only registry of LLM backends. The editor
// consults it to validate the llm_key on an LLM spec node; the execution
// engine (out of process) resolves the same keys to live clients.
package models

import "context"

// Provider represents one model backend (e.g. Anthropic, OpenAI).
type Provider interface {
	Name() string
	// SupportsModel answers from local knowledge only; no network.
	SupportsModel(modelName string) bool
	// Configure sets up the provider with necessary credentials.
	Configure(apiKey string) error
	// ListModels fetches the backend's current model list where the
	// provider has an API for it, falling back to the static registry.
	ListModels(ctx context.Context) ([]string, error)
	SetVerbose(verbose bool)
}

// DetectProvider returns the provider that recognizes the given model
// key, or nil when no registered backend matches.
func DetectProvider(modelName string) Provider {
	if modelName == "" {
		return nil
	}
	for _, p := range Providers() {
		if p.SupportsModel(modelName) {
			return p
		}
	}
	return nil
}

// ValidLLMKey reports whether any registered backend recognizes the
// key. This is the registry check editor sessions install.
func ValidLLMKey(key string) bool {
	return DetectProvider(key) != nil
}

// Providers returns a fresh instance of every registered backend.
func Providers() []Provider {
	return []Provider{
		NewOpenAIProvider(),
		NewAnthropicProvider(),
		NewGoogleProvider(),
		NewBedrockProvider(),
		NewOllamaProvider(),
	}
}
