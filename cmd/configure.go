package cmd

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/kris-hansen/chainforge/utils/config"
	"github.com/spf13/cobra"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Set up provider API keys",
	Long: `Store an API key for a backend provider in the environment file.
Keys are used when listing a provider's live models; validation of
llm_key values works offline from the static registry.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(os.Stdin)

		fmt.Print("Provider (openai/anthropic/google/bedrock/ollama): ")
		provider, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("error reading provider: %w", err)
		}
		provider = strings.TrimSpace(strings.ToLower(provider))
		if provider == "" {
			return fmt.Errorf("provider name is required")
		}

		fmt.Print("API key: ")
		apiKey, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("error reading API key: %w", err)
		}
		apiKey = strings.TrimSpace(apiKey)

		if envConfig.Providers == nil {
			envConfig.Providers = map[string]*config.ProviderConfig{}
		}
		envConfig.Providers[provider] = &config.ProviderConfig{APIKey: apiKey}

		envPath := config.GetEnvPath()
		if err := config.SaveEnvConfig(envPath, envConfig); err != nil {
			return err
		}
		log.Printf("Saved %s configuration to %s\n", provider, envPath)
		return nil
	},
}

var configureShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List configured providers",
	Run: func(cmd *cobra.Command, args []string) {
		if len(envConfig.Providers) == 0 {
			log.Println("No providers configured.")
			return
		}
		names := make([]string, 0, len(envConfig.Providers))
		for name := range envConfig.Providers {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			log.Printf("%s: key configured\n", name)
		}
	},
}

func init() {
	configureCmd.AddCommand(configureShowCmd)
	rootCmd.AddCommand(configureCmd)
}
