package models

import (
	"context"
	"fmt"
	"log"
	"sync"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// BedrockProvider handles models served through AWS Bedrock. Credentials
// come from the ambient AWS configuration chain, not an API key.
type BedrockProvider struct {
	client  *bedrockruntime.Client
	verbose bool
	mu      sync.Mutex
}

// NewBedrockProvider creates a new Bedrock provider instance
func NewBedrockProvider() *BedrockProvider {
	return &BedrockProvider{}
}

func (b *BedrockProvider) debugf(format string, args ...interface{}) {
	if b.verbose {
		b.mu.Lock()
		defer b.mu.Unlock()
		log.Printf("[DEBUG][Bedrock] "+format+"\n", args...)
	}
}

// Name returns the provider name
func (b *BedrockProvider) Name() string {
	return "bedrock"
}

// SupportsModel checks the static registry for the model key. Bedrock
// model ids are vendor-prefixed, e.g. "anthropic.claude-3-5-sonnet...".
func (b *BedrockProvider) SupportsModel(modelName string) bool {
	return GetRegistry().ValidateModel("bedrock", modelName)
}

// Configure loads the default AWS configuration chain. The apiKey
// argument is ignored; pass "" for this provider.
func (b *BedrockProvider) Configure(_ string) error {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	b.client = bedrockruntime.NewFromConfig(cfg)
	b.debugf("Bedrock client configured for region %s", cfg.Region)
	return nil
}

// ListModels returns the static registry list: the runtime API invokes
// models but does not enumerate them.
func (b *BedrockProvider) ListModels(_ context.Context) ([]string, error) {
	return GetRegistry().GetModels("bedrock"), nil
}

// SetVerbose enables verbose debug logging
func (b *BedrockProvider) SetVerbose(verbose bool) {
	b.verbose = verbose
}
