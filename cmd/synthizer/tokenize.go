package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"synthizer/internal/diagfmt"
	"synthizer/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.syn",
	Short: "Tokenize a synthizer source file",
	Long:  `Tokenize breaks down a synthizer source file into its constituent tokens`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	flags, err := readRootFlags(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	result, err := driver.Tokenize(args[0], flags.maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	hadErrors := printDiagnostics(result.Bag, result.FileSet, flags)

	switch format {
	case "pretty":
		diagfmt.FormatTokensPretty(os.Stdout, result.Tokens, result.FileSet)
	case "json":
		if err := diagfmt.FormatTokensJSON(os.Stdout, result.Tokens); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if hadErrors {
		return fmt.Errorf("%d error(s) while tokenizing %s", errorCount(result.Bag), args[0])
	}
	return nil
}
