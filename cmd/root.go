package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/kris-hansen/chainforge/utils/config"
	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version string

var verbose bool
var debug bool

// envConfig holds the loaded environment configuration, available to all
// commands.
var envConfig *config.EnvConfig

var rootCmd = &cobra.Command{
	Use:   "chainforge",
	Short: "An editor and inspector for LLM chain specification documents",
	Long: `Chainforge edits, validates and serves chain specification documents:
typed trees of LLM, sequential, case, reformat and API nodes whose
prompt templates declare their own input variables.

Getting Started:
  1. chainforge inspect "<template>"   Show the inputs a template requires
  2. chainforge validate chain.yaml    Check a chain document
  3. chainforge server                 Serve the editing API

Configuration is stored in ~/.chainforge/config.yaml`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Timestamps off for CLI output; server mode sets its own flags.
		log.SetFlags(0)

		config.Verbose = verbose
		config.Debug = debug

		envPath := config.GetEnvPath()
		config.VerboseLog("[CLI] loading environment configuration from %s", envPath)

		var err error
		envConfig, err = config.LoadEnvConfig(envPath)
		if err != nil {
			return fmt.Errorf("error loading environment configuration: %w", err)
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		log.Printf("Chainforge version: %s\n", getVersion())
	},
}

func getVersion() string {
	if version != "" {
		return version
	}
	return "dev"
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.AddCommand(versionCmd)
}

func Execute() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
