package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "declex",
	Short: "Generate a lexer DFA and driver from a declarative grammar",
	Long: `declex reads a declarative grammar of character classes, tokens, and
ignore patterns and emits a serialized DFA plus a small per-language driver
source file that tokenizes input text against it.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
