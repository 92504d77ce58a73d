package models

import (
	"strings"
	"sync"
)

// Registry is the centralized list of known models per provider, plus
// model families (prefixes) that match versions the static list lags
// behind on.
type Registry struct {
	models   map[string][]string
	families map[string][]string
	mu       sync.RWMutex
}

var globalRegistry = NewRegistry()

// NewRegistry creates a registry pre-populated with the default models
// for each provider.
func NewRegistry() *Registry {
	r := &Registry{
		models:   make(map[string][]string),
		families: make(map[string][]string),
	}
	r.initializeDefaults()
	return r
}

func (r *Registry) initializeDefaults() {
	r.RegisterModels("anthropic", []string{
		"claude-sonnet-4-5",
		"claude-haiku-4-5",
		"claude-opus-4-5",
		"claude-3-7-sonnet-latest",
		"claude-3-5-sonnet-latest",
		"claude-3-5-haiku-latest",
	})
	r.RegisterFamilies("anthropic", []string{"claude-"})

	r.RegisterModels("openai", []string{
		"gpt-5.1",
		"gpt-5.1-mini",
		"gpt-5",
		"gpt-5-mini",
		"gpt-4.1",
		"gpt-4o",
		"gpt-4o-mini",
		"o3",
		"o3-mini",
		"o4-mini",
	})
	r.RegisterFamilies("openai", []string{"gpt-", "o1", "o3", "o4"})

	r.RegisterModels("google", []string{
		"gemini-2.5-pro",
		"gemini-2.5-flash",
		"gemini-2.5-flash-lite",
		"gemini-1.5-pro",
		"gemini-1.5-flash",
	})
	r.RegisterFamilies("google", []string{"gemini-"})

	r.RegisterModels("bedrock", []string{
		"anthropic.claude-3-5-sonnet-20241022-v2:0",
		"anthropic.claude-3-5-haiku-20241022-v1:0",
		"amazon.nova-pro-v1:0",
		"amazon.nova-lite-v1:0",
	})
	r.RegisterFamilies("bedrock", []string{"anthropic.", "amazon.", "meta.", "mistral."})

	r.RegisterFamilies("ollama", []string{
		"llama", "mistral", "qwen", "phi", "gemma", "deepseek-r1",
	})
}

// RegisterModels adds models to the registry for a specific provider
func (r *Registry) RegisterModels(provider string, models []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models[provider] = append(r.models[provider], models...)
}

// RegisterFamilies adds model families (prefixes) for a specific provider
func (r *Registry) RegisterFamilies(provider string, families []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.families[provider] = append(r.families[provider], families...)
}

// GetModels returns the static model list for a provider.
func (r *Registry) GetModels(provider string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string{}, r.models[provider]...)
}

// ValidateModel checks if a model key is known for a specific provider,
// by exact match or family prefix.
func (r *Registry) ValidateModel(provider, modelName string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	modelName = strings.TrimSpace(strings.ToLower(modelName))
	for _, valid := range r.models[provider] {
		if modelName == valid {
			return true
		}
	}
	for _, family := range r.families[provider] {
		if strings.HasPrefix(modelName, family) {
			return true
		}
	}
	return false
}

// GetAllModels returns a copy of every provider's model list.
func (r *Registry) GetAllModels() map[string][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string][]string)
	for provider, models := range r.models {
		result[provider] = append([]string{}, models...)
	}
	return result
}

// GetRegistry returns the global registry instance.
func GetRegistry() *Registry {
	return globalRegistry
}
