package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/kris-hansen/chainforge/utils/chainspec"
	"github.com/kris-hansen/chainforge/utils/fileutil"
	"github.com/kris-hansen/chainforge/utils/models"
	"github.com/spf13/cobra"
)

var validateOffline bool

var validateCmd = &cobra.Command{
	Use:   "validate <chain.yaml|chain.json>",
	Short: "Check a chain document for structural and field errors",
	Long: `Decode a chain document and run the full validation pass: unique
chain ids, required fields per node type, known llm keys, distinct case
labels and well-formed API endpoints.

With --offline the llm_key check only requires the field to be set; no
backend registry lookup is performed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := fileutil.ExpandPath(args[0])
		if err != nil {
			return fmt.Errorf("error resolving %s: %w", args[0], err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("error reading %s: %w", path, err)
		}

		var tree chainspec.ChainSpec
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			tree, err = chainspec.DecodeYAML(data)
		case ".json":
			tree, err = chainspec.DecodeJSON(data)
		default:
			return fmt.Errorf("unsupported file extension: %s", filepath.Ext(path))
		}
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", path, err)
		}

		var llmKeyOK func(string) bool
		if !validateOffline {
			llmKeyOK = models.ValidLLMKey
		}

		result := chainspec.Validate(tree, llmKeyOK)
		if result.Valid {
			log.Printf("%s is valid\n", path)
			return nil
		}
		fmt.Fprint(os.Stderr, result.ErrorSummary())
		os.Exit(1)
		return nil
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateOffline, "offline", false, "skip the backend registry lookup for llm keys")
	rootCmd.AddCommand(validateCmd)
}
