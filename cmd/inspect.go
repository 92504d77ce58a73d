package cmd

import (
	"fmt"
	"os"

	"github.com/kris-hansen/chainforge/utils/template"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var inspectNoColor bool

var inspectCmd = &cobra.Command{
	Use:   "inspect \"<template>\"",
	Short: "Show the input variables a prompt template requires",
	Long: `Scan a prompt template and print the external input variables it
requires, in the order they first appear, along with a preview that
highlights every recognized token.

Names bound by directives within the same template (for example the out
name of {let:x:y}, or the item/index names inside a {join:...}) do not
count as inputs.`,
	Example: `  chainforge inspect "Answer {question} using {context}"
  chainforge inspect "{join:docs:combined} {item}: {summary}"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tmpl := args[0]

		render := template.Highlight
		if inspectNoColor || !term.IsTerminal(int(os.Stdout.Fd())) {
			render = nil
		}

		inputs, preview := template.ExtractInputsRendered(tmpl, render)

		fmt.Println(preview)
		if len(inputs) == 0 {
			fmt.Println("\nNo input variables required.")
			return nil
		}
		fmt.Println("\nInput variables:")
		for _, name := range inputs {
			fmt.Printf("  - %s\n", name)
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectNoColor, "no-color", false, "disable colored output")
	rootCmd.AddCommand(inspectCmd)
}
