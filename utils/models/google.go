package models

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GoogleProvider handles Google Gemini models
type GoogleProvider struct {
	apiKey  string
	verbose bool
	mu      sync.Mutex
}

// NewGoogleProvider creates a new Google provider instance
func NewGoogleProvider() *GoogleProvider {
	return &GoogleProvider{}
}

func (g *GoogleProvider) debugf(format string, args ...interface{}) {
	if g.verbose {
		g.mu.Lock()
		defer g.mu.Unlock()
		log.Printf("[DEBUG][Google] "+format+"\n", args...)
	}
}

// Name returns the provider name
func (g *GoogleProvider) Name() string {
	return "google"
}

// SupportsModel checks if the given model name is a Gemini model
func (g *GoogleProvider) SupportsModel(modelName string) bool {
	return GetRegistry().ValidateModel("google", modelName)
}

// Configure sets up the provider with necessary credentials
func (g *GoogleProvider) Configure(apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("API key is required for Google provider")
	}
	g.apiKey = apiKey
	return nil
}

// ListModels fetches the live model list from the Gemini API. Falls back
// to the static registry when the provider is not configured.
func (g *GoogleProvider) ListModels(ctx context.Context) ([]string, error) {
	if g.apiKey == "" {
		return GetRegistry().GetModels("google"), nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	var names []string
	it := client.ListModels(ctx)
	for {
		m, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list Gemini models: %w", err)
		}
		// The API reports names as "models/gemini-...".
		names = append(names, strings.TrimPrefix(m.Name, "models/"))
	}
	g.debugf("fetched %d models", len(names))
	return names, nil
}

// SetVerbose enables verbose debug logging
func (g *GoogleProvider) SetVerbose(verbose bool) {
	g.verbose = verbose
}
