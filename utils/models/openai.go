package models

import (
	"context"
	"fmt"
	"log"
	"sync"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider handles the OpenAI family of models
type OpenAIProvider struct {
	client  *openai.Client
	verbose bool
	mu      sync.Mutex
}

// NewOpenAIProvider creates a new OpenAI provider instance
func NewOpenAIProvider() *OpenAIProvider {
	return &OpenAIProvider{}
}

func (o *OpenAIProvider) debugf(format string, args ...interface{}) {
	if o.verbose {
		o.mu.Lock()
		defer o.mu.Unlock()
		log.Printf("[DEBUG][OpenAI] "+format+"\n", args...)
	}
}

// Name returns the provider name
func (o *OpenAIProvider) Name() string {
	return "openai"
}

// SupportsModel checks the static registry for the model key.
func (o *OpenAIProvider) SupportsModel(modelName string) bool {
	return GetRegistry().ValidateModel("openai", modelName)
}

// Configure sets up the provider with necessary credentials
func (o *OpenAIProvider) Configure(apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("API key is required for OpenAI provider")
	}
	o.client = openai.NewClient(apiKey)
	o.debugf("OpenAI client configured")
	return nil
}

// ListModels fetches the live model list from the OpenAI API. Falls back
// to the static registry when the provider is not configured.
func (o *OpenAIProvider) ListModels(ctx context.Context) ([]string, error) {
	if o.client == nil {
		return GetRegistry().GetModels("openai"), nil
	}

	list, err := o.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list OpenAI models: %w", err)
	}
	names := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		names = append(names, m.ID)
	}
	o.debugf("fetched %d models", len(names))
	return names, nil
}

// SetVerbose enables verbose debug logging
func (o *OpenAIProvider) SetVerbose(verbose bool) {
	o.verbose = verbose
}
