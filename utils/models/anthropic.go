package models

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/kris-hansen/chainforge/utils/retry"
)

const anthropicModelsURL = "https://api.anthropic.com/v1/models"

// AnthropicProvider handles Anthropic family of models
type AnthropicProvider struct {
	apiKey  string
	verbose bool
	mu      sync.Mutex
}

// NewAnthropicProvider creates a new Anthropic provider instance
func NewAnthropicProvider() *AnthropicProvider {
	return &AnthropicProvider{}
}

func (a *AnthropicProvider) debugf(format string, args ...interface{}) {
	if a.verbose {
		a.mu.Lock()
		defer a.mu.Unlock()
		log.Printf("[DEBUG][Anthropic] "+format+"\n", args...)
	}
}

// Name returns the provider name
func (a *AnthropicProvider) Name() string {
	return "anthropic"
}

// SupportsModel checks if the given model name is supported by Anthropic
func (a *AnthropicProvider) SupportsModel(modelName string) bool {
	return GetRegistry().ValidateModel("anthropic", modelName)
}

// Configure sets up the provider with necessary credentials
func (a *AnthropicProvider) Configure(apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("API key is required for Anthropic provider")
	}
	a.apiKey = apiKey
	return nil
}

type anthropicModelsResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// ListModels fetches the live model list, retrying on rate limits.
// Falls back to the static registry when the provider is not configured.
func (a *AnthropicProvider) ListModels(ctx context.Context) ([]string, error) {
	if a.apiKey == "" {
		return GetRegistry().GetModels("anthropic"), nil
	}

	result, err := retry.WithRetry(func() (interface{}, error) {
		return a.fetchModels(ctx)
	}, retry.IsRateLimit, retry.DefaultConfig)
	if err != nil {
		return nil, err
	}
	return result.([]string), nil
}

func (a *AnthropicProvider) fetchModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, anthropicModelsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach Anthropic API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Anthropic response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Anthropic API returned status %d: %s", resp.StatusCode, body)
	}

	var parsed anthropicModelsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse Anthropic response: %w", err)
	}
	names := make([]string, 0, len(parsed.Data))
	for _, m := range parsed.Data {
		names = append(names, m.ID)
	}
	a.debugf("fetched %d models", len(names))
	return names, nil
}

// SetVerbose enables verbose debug logging
func (a *AnthropicProvider) SetVerbose(verbose bool) {
	a.verbose = verbose
}
