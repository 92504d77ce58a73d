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
)

const ollamaTagsURL = "http://localhost:11434/api/tags"

// OllamaProvider handles models served by a local Ollama instance
type OllamaProvider struct {
	verbose bool
	mu      sync.Mutex
}

// NewOllamaProvider creates a new Ollama provider instance
func NewOllamaProvider() *OllamaProvider {
	return &OllamaProvider{}
}

func (o *OllamaProvider) debugf(format string, args ...interface{}) {
	if o.verbose {
		o.mu.Lock()
		defer o.mu.Unlock()
		log.Printf("[DEBUG][Ollama] "+format+"\n", args...)
	}
}

// Name returns the provider name
func (o *OllamaProvider) Name() string {
	return "ollama"
}

// SupportsModel checks the registry's family prefixes for local models
func (o *OllamaProvider) SupportsModel(modelName string) bool {
	return GetRegistry().ValidateModel("ollama", modelName)
}

// Configure is a no-op: Ollama runs locally without credentials
func (o *OllamaProvider) Configure(_ string) error {
	return nil
}

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// ListModels queries the local Ollama instance for its pulled models
func (o *OllamaProvider) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ollamaTagsURL, nil)
	if err != nil {
		return nil, err
	}
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Ollama API returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Ollama response: %w", err)
	}

	var tags ollamaTagsResponse
	if err := json.Unmarshal(body, &tags); err != nil {
		return nil, fmt.Errorf("failed to parse Ollama response: %w", err)
	}
	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	o.debugf("found %d local models", len(names))
	return names, nil
}

// SetVerbose enables verbose debug logging
func (o *OllamaProvider) SetVerbose(verbose bool) {
	o.verbose = verbose
}
