package cmd

import (
	"fmt"
	"log"
	"sort"

	"github.com/kris-hansen/chainforge/utils/models"
	"github.com/spf13/cobra"
)

var modelsRemote bool

var modelsCmd = &cobra.Command{
	Use:   "models [provider]",
	Short: "List the models usable as llm_key values",
	Long: `List the models the backend registry knows about, per provider.

With --remote the provider's live model API is queried instead, using
the API key from your configuration. Providers without a listing API
fall back to the static registry.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			all := models.GetRegistry().GetAllModels()
			providers := make([]string, 0, len(all))
			for name := range all {
				providers = append(providers, name)
			}
			sort.Strings(providers)
			for _, name := range providers {
				log.Printf("%s:\n", name)
				for _, m := range all[name] {
					log.Printf("  %s\n", m)
				}
			}
			return nil
		}

		name := args[0]
		if !modelsRemote {
			list := models.GetRegistry().GetModels(name)
			if len(list) == 0 {
				return fmt.Errorf("no registered models for provider %q", name)
			}
			for _, m := range list {
				log.Println(m)
			}
			return nil
		}

		var provider models.Provider
		for _, p := range models.Providers() {
			if p.Name() == name {
				provider = p
				break
			}
		}
		if provider == nil {
			return fmt.Errorf("unknown provider %q", name)
		}

		provider.SetVerbose(verbose)
		if pc := envConfig.GetProviderConfig(name); pc != nil {
			if err := provider.Configure(pc.APIKey); err != nil {
				return fmt.Errorf("configuring %s: %w", name, err)
			}
		}

		list, err := provider.ListModels(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing %s models: %w", name, err)
		}
		for _, m := range list {
			log.Println(m)
		}
		return nil
	},
}

func init() {
	modelsCmd.Flags().BoolVar(&modelsRemote, "remote", false, "query the provider's live model API")
	rootCmd.AddCommand(modelsCmd)
}
